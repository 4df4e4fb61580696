package review

import (
	"strconv"
	"strings"
)

const diffMarker = "diff --git "

// Segment splits a unified diff into per-file bodies in source order.
// Content before the first "diff --git" marker is dropped, and a diff with
// no marker yields an empty bundle. The marker line itself is not part of
// the body. A path seen twice keeps its first position and its last body.
func Segment(diffText string) Bundle {
	var (
		bundle Bundle
		index  = make(map[string]int)
		path   string
		lines  []string
		open   bool
	)

	flush := func() {
		if !open {
			return
		}
		body := strings.Join(lines, "\n")
		if i, ok := index[path]; ok {
			bundle[i].Body = body
			return
		}
		index[path] = len(bundle)
		bundle = append(bundle, FileDiff{Path: path, Body: body})
	}

	diffText = strings.TrimSuffix(diffText, "\n")
	if diffText == "" {
		return Bundle{}
	}

	for line := range strings.SplitSeq(diffText, "\n") {
		if strings.HasPrefix(line, diffMarker) {
			flush()
			path = pathFromMarker(line)
			lines = lines[:0]
			open = true
			continue
		}
		if open {
			lines = append(lines, line)
		}
	}
	flush()

	if bundle == nil {
		return Bundle{}
	}
	return bundle
}

// pathFromMarker returns the destination path named by a marker line,
// without its "b/" prefix. Git quotes paths containing special characters.
func pathFromMarker(line string) string {
	rest := strings.TrimRight(strings.TrimPrefix(line, diffMarker), "\r")

	if strings.HasSuffix(rest, `"`) {
		if start := strings.LastIndex(rest[:len(rest)-1], `"`); start >= 0 {
			if p, err := strconv.Unquote(rest[start:]); err == nil {
				return strings.TrimPrefix(p, "b/")
			}
		}
	}
	if i := strings.LastIndex(rest, " b/"); i >= 0 {
		return rest[i+len(" b/"):]
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[len(fields)-1], "b/")
}
