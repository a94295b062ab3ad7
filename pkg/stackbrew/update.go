package stackbrew

import (
	"strconv"
	"strings"
)

// Library is a parsed library file: the free-form header followed by entry
// blocks. Each entry is its list of non-blank lines.
type Library struct {
	Header  []string
	Entries [][]string
}

// ParseLibrary splits a library file into header and entries. The header is
// everything before the first "Tags:" line, without trailing blank lines.
// Entries are separated by blank lines.
func ParseLibrary(text string) Library {
	var lib Library
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	i := 0
	for ; i < len(lines); i++ {
		if isTagsLine(lines[i]) {
			break
		}
		lib.Header = append(lib.Header, lines[i])
	}
	lib.Header = trimBlank(lib.Header)

	var cur []string
	for ; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t")
		if line == "" {
			if cur != nil {
				lib.Entries = append(lib.Entries, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if cur != nil {
		lib.Entries = append(lib.Entries, cur)
	}
	return lib
}

// String renders the library with one blank line between header and entries
// and between entries, ending in a single newline.
func (l Library) String() string {
	var parts []string
	if len(l.Header) > 0 {
		parts = append(parts, strings.Join(l.Header, "\n"))
	}
	for _, e := range l.Entries {
		parts = append(parts, strings.Join(e, "\n"))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// EntryMajor returns the major version an entry publishes, taken from the
// first tag of its "Tags:" line that starts with a digit.
func EntryMajor(entry []string) (int, bool) {
	for _, line := range entry {
		if !isTagsLine(line) {
			continue
		}
		_, list, _ := strings.Cut(line, ":")
		for _, tag := range strings.Split(list, ",") {
			tag = strings.TrimSpace(tag)
			end := 0
			for end < len(tag) && tag[end] >= '0' && tag[end] <= '9' {
				end++
			}
			if end == 0 {
				continue
			}
			major, err := strconv.Atoi(tag[:end])
			if err != nil {
				return 0, false
			}
			return major, true
		}
		return 0, false
	}
	return 0, false
}

// UpdateLibrary replaces every entry of major in text with the blocks of
// generated. The new blocks take the position of the first replaced entry.
// When text has no entry of major they go before the first entry of an older
// major, or at the end. The header and entries of other majors are kept as is.
func UpdateLibrary(text string, major int, generated string) string {
	lib := ParseLibrary(text)
	fresh := ParseLibrary(generated).Entries

	var (
		out      [][]string
		inserted bool
	)
	for _, e := range lib.Entries {
		m, ok := EntryMajor(e)
		if ok && m == major {
			if !inserted {
				out = append(out, fresh...)
				inserted = true
			}
			continue
		}
		if ok && m < major && !inserted {
			out = append(out, fresh...)
			inserted = true
		}
		out = append(out, e)
	}
	if !inserted {
		out = append(out, fresh...)
	}

	lib.Entries = out
	return lib.String()
}

func isTagsLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), fieldTags+":")
}

func trimBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
