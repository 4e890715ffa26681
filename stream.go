package lazyjson

// streamState is the state machine driving StreamDecoder, mirroring the
// shape of a forward-only array-of-values parse without building a
// description table for the whole array up front. This is useful for an
// array too large to hold fully indexed in memory. The whole array's
// bytes are supplied to NewStreamDecoder up front; there is no way to
// feed further bytes to a StreamDecoder after it is created.
type streamState int

const (
	stateBeforeArrayOpen streamState = iota
	stateInsideArray                 // expectingCommaOrEnd tracks whether a ',' or ']' is next
	stateArrayClosed
)

// StreamDecoder incrementally scans a single top-level JSON array,
// handing back one element's Description/buffer pair at a time via
// Next, instead of requiring the whole array be tokenized before the
// first element is available.
type StreamDecoder struct {
	buf   []byte
	pos   int
	state streamState

	expectingCommaOrEnd bool
}

// NewStreamDecoder returns a decoder over buf, which must begin (after
// whitespace) with '['.
func NewStreamDecoder(buf []byte) *StreamDecoder {
	return &StreamDecoder{buf: buf, pos: 0, state: stateBeforeArrayOpen}
}

// Next scans and returns the next array element as a standalone,
// zero-offset Description plus the slice of buf spanning it. ok is false
// once the array's closing ']' has been consumed; err is non-nil only on
// malformed input.
//
// The comma/close decision follows the corrected grammar: after a
// completed element expectingCommaOrEnd is true and only ',' or ']' is
// accepted. While expectingCommaOrEnd is false — right after the
// opening '[' and right after a ',' — a value start ('{', '[', '"',
// digit, '-', or a literal's first letter) is not an error, it starts
// the next element directly. Two commas in a row are still rejected,
// because the byte after the first comma is handed to ScanValue, which
// does not accept ',' as a value start.
func (s *StreamDecoder) Next() (table *Description, elem []byte, ok bool, err error) {
	switch s.state {
	case stateBeforeArrayOpen:
		s.pos = skipWhitespace(s.buf, s.pos)
		if s.pos >= len(s.buf) || s.buf[s.pos] != '[' {
			return nil, nil, false, ErrInvalidTopLevel
		}
		s.pos++
		s.state = stateInsideArray
		s.expectingCommaOrEnd = false
		s.pos = skipWhitespace(s.buf, s.pos)
		if s.pos < len(s.buf) && s.buf[s.pos] == ']' {
			s.pos++
			s.state = stateArrayClosed
			return nil, nil, false, nil
		}
	case stateArrayClosed:
		return nil, nil, false, nil
	case stateInsideArray:
		s.pos = skipWhitespace(s.buf, s.pos)
		if s.pos >= len(s.buf) {
			return nil, nil, false, ErrMissingData
		}
		switch s.buf[s.pos] {
		case ']':
			s.pos++
			s.state = stateArrayClosed
			return nil, nil, false, nil
		case ',':
			if !s.expectingCommaOrEnd {
				return nil, nil, false, &UnexpectedTokenError{Reason: "unexpected ',' before first element"}
			}
			s.pos++
			s.expectingCommaOrEnd = false
			s.pos = skipWhitespace(s.buf, s.pos)
		default:
			if s.expectingCommaOrEnd {
				return nil, nil, false, &MissingTokenError{Byte: ',', Reason: "expected ',' or ']' after array element"}
			}
			// expectingCommaOrEnd is false and the byte is a value
			// start: begin the next (first, or post-comma) element
			// directly rather than treating this as an error.
		}
	}

	start := s.pos
	t := NewDescription()
	n, serr := ScanValue(s.buf[start:], t)
	if serr != nil {
		return nil, nil, false, serr
	}
	s.pos = start + n
	s.expectingCommaOrEnd = true
	return t, s.buf[start : start+n], true, nil
}

// All drains the remaining elements eagerly, for callers that don't need
// the incremental behavior but still want the relaxed grammar handling.
func (s *StreamDecoder) All() ([]*Description, [][]byte, error) {
	var tables []*Description
	var elems [][]byte
	for {
		t, e, ok, err := s.Next()
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return tables, elems, nil
		}
		tables = append(tables, t)
		elems = append(elems, e)
	}
}
