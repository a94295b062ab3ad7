package stackbrew

import "strconv"

// latestTag is published on the default distribution of the latest series.
const latestTag = "latest"

// Tags expands a release into its ordered Docker tags.
//
// For 8.2.1 GA on the default Debian "bookworm" distribution, latest:
//
//	8.2.1, 8.2, 8, 8.2.1-bookworm, 8.2-bookworm, 8-bookworm, latest, bookworm
//
// Milestones do not get the mainline tag, non-latest releases get neither the
// major tag nor the aliases, and non-default distributions only get suffixed
// tags. Duplicates across distributions are not removed here.
func Tags(r Release, latest bool) []string {
	v := r.Version
	d := r.Distribution

	versionTags := []string{v.String()}
	if !v.IsMilestone() {
		versionTags = append(versionTags, v.Mainline())
	}
	if latest {
		versionTags = append(versionTags, strconv.Itoa(v.Major()))
	}

	var tags []string
	if d.IsDefault() {
		tags = append(tags, versionTags...)
	}
	for _, name := range d.TagNames {
		for _, vt := range versionTags {
			tags = append(tags, vt+"-"+name)
		}
	}
	if latest {
		if d.IsDefault() {
			tags = append(tags, latestTag)
		}
		tags = append(tags, d.TagNames...)
	}
	return tags
}
