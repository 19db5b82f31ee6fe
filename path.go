package urlnormalize

import "strings"

// segment records one /-delimited span of a path string. Removal never
// shrinks the table; it only flips the kept flag.
type segment struct {
	start int
	end   int
	kept  bool
}

// normalizePath collapses dot-segments and duplicate slashes in a path.
// Already-normal paths are returned unchanged without building a segment
// table. The output is never longer than the input.
func normalizePath(path string) (string, error) {
	if path == "" {
		return path, nil
	}
	ns, normal := scanPath(path)
	if normal {
		return path, nil
	}
	segs, err := splitSegments(path, ns)
	if err != nil {
		return "", err
	}
	removeDotSegments(path, segs)
	return joinSegments(path, segs, needsLeadingDot(path, segs)), nil
}

// scanPath counts the segments in path and reports whether the path is
// already normal: at most one leading slash, no doubled slashes, and no
// segment that is exactly "." or "..". Dot-prefixed segments like
// ".hidden" do not count as dot-segments.
func scanPath(path string) (ns int, normal bool) {
	normal = true
	n := len(path)

	p := 0
	for p < n && path[p] == '/' {
		p++
	}
	if p > 1 {
		normal = false
	}

	for p < n {
		if isDotSegment(path, p) {
			normal = false
		}
		ns++
		for p < n && path[p] != '/' {
			p++
		}
		if p < n {
			p++
			for p < n && path[p] == '/' {
				normal = false
				p++
			}
		}
	}
	return ns, normal
}

// isDotSegment reports whether the segment starting at p is exactly "."
// or "..".
func isDotSegment(path string, p int) bool {
	n := len(path)
	if path[p] != '.' {
		return false
	}
	if p+1 == n || path[p+1] == '/' {
		return true
	}
	return path[p+1] == '.' && (p+2 == n || path[p+2] == '/')
}

// splitSegments builds the segment table for path. Runs of consecutive
// slashes collapse into a single boundary, so empty segments are never
// materialized. The table length must match the count from scanPath;
// a mismatch means the two scans disagree and is reported as ErrInternal.
func splitSegments(path string, ns int) ([]segment, error) {
	segs := make([]segment, 0, ns)
	n := len(path)

	p := 0
	for p < n && path[p] == '/' {
		p++
	}
	for p < n {
		start := p
		for p < n && path[p] != '/' {
			p++
		}
		segs = append(segs, segment{start: start, end: p, kept: true})
		for p < n && path[p] == '/' {
			p++
		}
	}

	if len(segs) != ns {
		return nil, ErrInternal
	}
	return segs, nil
}

// removeDotSegments resolves dot-segments in a single left-to-right pass.
// The stack holds indices of kept non-dot segments; a ".." cancels the
// segment on top of the stack if there is one, otherwise it is preserved
// verbatim. Climbing above the start of a relative path is therefore not
// silently discarded.
func removeDotSegments(path string, segs []segment) {
	stack := make([]int, 0, len(segs))
	for i := range segs {
		switch path[segs[i].start:segs[i].end] {
		case ".":
			segs[i].kept = false
		case "..":
			if len(stack) > 0 {
				j := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				segs[j].kept = false
				segs[i].kept = false
			}
		default:
			stack = append(stack, i)
		}
	}
}

// needsLeadingDot reports whether a "./" prefix must be added to keep the
// first surviving segment of a relative path from being misread as a URI
// scheme. That can only happen when removal dropped the original first
// segment and the new first segment contains a colon, e.g. "./a:b" after
// normalizing "x/../a:b".
func needsLeadingDot(path string, segs []segment) bool {
	if path[0] == '/' {
		return false
	}
	for i := range segs {
		if !segs[i].kept {
			continue
		}
		if i == 0 {
			return false
		}
		return strings.Contains(path[segs[i].start:segs[i].end], ":")
	}
	return false
}

// joinSegments serializes the kept segments into a fresh buffer. The
// original absolute/relative form is preserved, and a separator is
// written after a kept segment exactly when the original path had one
// after it, which keeps trailing slashes intact ("/a/." joins to "/a/").
func joinSegments(path string, segs []segment, leadingDot bool) string {
	var b strings.Builder
	b.Grow(len(path) + 2)
	if path[0] == '/' {
		b.WriteByte('/')
	}
	if leadingDot {
		b.WriteString("./")
	}
	for _, s := range segs {
		if !s.kept {
			continue
		}
		b.WriteString(path[s.start:s.end])
		if s.end < len(path) {
			b.WriteByte('/')
		}
	}
	return b.String()
}
