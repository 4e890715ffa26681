package lazyjson

import "regexp"

// GrepMatch is one hit returned by Grep: the table offset of the string
// value record whose data matched, and the matched byte range of that
// record within the original buffer.
type GrepMatch struct {
	At         int
	Start, End int
}

// Grep searches every string value reachable from at (at's own value if
// it is a string, or recursively through every string-valued leaf of an
// object/array) for pattern, without decoding into any Go type. It is
// the fast path for "does this huge document mention X anywhere",
// avoiding both a full Decode and a second tokenization of substrings
// the caller would otherwise have to materialize first.
func Grep(buf []byte, table *Description, at int, pattern *regexp.Regexp) []GrepMatch {
	var matches []GrepMatch
	grepWalk(buf, table, at, pattern, &matches)
	return matches
}

func grepWalk(buf []byte, table *Description, at int, pattern *regexp.Regexp, out *[]GrepMatch) {
	switch tag := table.Tag(at); tag {
	case TagString, TagStringWithEscaping:
		start, end := table.DataBounds(at)
		if tag == TagStringWithEscaping {
			// Unescaping moves bytes around, so a sub-match offset into
			// the unescaped copy no longer lines up with the original
			// buffer; report the whole record's span instead of the
			// precise match range in this case.
			if pattern.Match(unescapeBytes(buf[start:end])) {
				*out = append(*out, GrepMatch{At: at, Start: start, End: end})
			}
			return
		}
		if loc := pattern.FindIndex(buf[start:end]); loc != nil {
			*out = append(*out, GrepMatch{At: at, Start: start + loc[0], End: start + loc[1]})
		}
	case TagObject:
		n := table.MemberCount(at)
		child := table.FirstChild(at)
		for i := 0; i < n; i++ {
			valAt := table.SkipIndex(child)
			grepWalk(buf, table, valAt, pattern, out)
			child = table.SkipIndex(valAt)
		}
	case TagArray:
		n := table.MemberCount(at)
		child := table.FirstChild(at)
		for i := 0; i < n; i++ {
			grepWalk(buf, table, child, pattern, out)
			child = table.SkipIndex(child)
		}
	}
}

// Grep is the package-level Grep restricted to o's own buffer and table, rooted at
// the object itself.
func (o *Object) Grep(pattern *regexp.Regexp) []GrepMatch {
	return Grep(o.buf, o.table, 0, pattern)
}

// Grep is the package-level Grep restricted to a's own buffer and table, rooted at
// the array itself.
func (a *Array) Grep(pattern *regexp.Regexp) []GrepMatch {
	return Grep(a.buf, a.table, 0, pattern)
}
