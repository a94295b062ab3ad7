// Package version parses release tags into totally ordered versions.
//
// # Grammar
//
// A release tag is "v" followed by MAJOR.MINOR, an optional .PATCH and an
// optional qualifier introduced by a dash:
//
//	v8.2.1         GA release
//	v8.2           GA release without an explicit patch
//	v8.2.1-rc1     milestone (pre-release)
//	v8.2.2-m01-int1
//	v7.4.0-eol     end-of-life marker for the whole 7.4 series
//
// Any qualifier makes a version a milestone; a qualifier ending in "-eol"
// additionally retires its mainline.
//
// # Ordering
//
// [Compare] orders by the numeric triple first and places a GA release above
// every milestone sharing its triple. The milestone tie-break is explicit
// rather than delegated to a general semver library, because release tags
// here are not semver (qualifiers such as "-m01-int1" compare lexically).
//
//	versions := []version.Version{
//	    version.MustParse("8.2.1-m01"),
//	    version.MustParse("8.2.1"),
//	}
//	version.SortDescending(versions, func(v version.Version) version.Version { return v })
//	// versions[0] is 8.2.1
package version
