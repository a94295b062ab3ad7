package stackbrew

import (
	"strconv"

	"github.com/matzehuels/stackbrew/pkg/version"
)

type trackerState uint8

const (
	stateUnset trackerState = iota
	stateTracking
	stateExhausted
)

// LatestTracker decides which releases belong to the latest minor series.
//
// It is a three-state machine fed one version at a time, newest-first:
//
//	unset     --GA-->            tracking(minor)
//	unset     --milestone-->     unset
//	tracking  --same minor-->    tracking
//	tracking  --other minor-->   exhausted
//	exhausted --any-->           exhausted
//
// Only the first GA release arms the tracker, so a milestone never becomes
// latest and an older series never becomes latest once the scan has left the
// newest one. The zero value is ready to use. Ordering of the input is the
// caller's responsibility and is not checked.
type LatestTracker struct {
	state trackerState
	minor int
}

// Next advances the tracker by v and reports whether v is latest.
func (t *LatestTracker) Next(v version.Version) bool {
	switch t.state {
	case stateUnset:
		if !v.IsMilestone() {
			t.state = stateTracking
			t.minor = v.Minor()
		}
	case stateTracking:
		if v.Minor() != t.minor {
			t.state = stateExhausted
		}
	}
	return t.state == stateTracking && v.Minor() == t.minor
}

// String describes the current state, e.g. "tracking(2)".
func (t *LatestTracker) String() string {
	switch t.state {
	case stateTracking:
		return "tracking(" + strconv.Itoa(t.minor) + ")"
	case stateExhausted:
		return "exhausted"
	default:
		return "unset"
	}
}

// LatestFlags folds a fresh tracker over releases.
func LatestFlags(releases []Release) []bool {
	var t LatestTracker
	flags := make([]bool, len(releases))
	for i, r := range releases {
		flags[i] = t.Next(r.Version)
	}
	return flags
}
