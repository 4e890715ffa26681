package lazyjson

import "bytes"

// Mutation operations on a (buffer, description) pair. Every mutation
// keeps the invariant that the JSON buffer parses losslessly to the
// description the table currently holds: the JSON bytes and the table are
// always spliced together, offsets of everything downstream are shifted
// by the signed delta, and every ancestor's jsonLength and
// childrenTotalIndexLength are updated before the call returns.
//
// None of these functions hold a parent pointer anywhere — a record's
// ancestors are found by re-descending from the root each time
// (ancestryOf). For the shallow nesting typical of JSON documents this is
// cheap and keeps the table itself trivially relocatable (append-only,
// memcpy-safe, no internal pointers to fix up).

// describeValue tokenizes a freshly-encoded JSON value in isolation,
// producing a standalone table rooted at json-offset 0. Callers rebase it
// into its eventual host position before splicing.
func describeValue(valueJSON []byte) (*Description, error) {
	sub := NewDescription()
	if _, err := Scan(valueJSON, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// ancestryOf returns the table offsets of every container record that
// contains target, outermost first, not including target itself.
func (d *Description) ancestryOf(target int) []int {
	var path []int
	var descend func(at, end int) bool
	descend = func(at, end int) bool {
		for at < end {
			if at == target {
				return true
			}
			if isContainerTag(d.Tag(at)) {
				childStart := d.FirstChild(at)
				childEnd := at + d.IndexLength(at)
				if target >= childStart && target < childEnd {
					path = append(path, at)
					return descend(childStart, childEnd)
				}
			}
			at = d.SkipIndex(at)
		}
		return false
	}
	descend(0, len(d.recs))
	return path
}

// advanceJSONOffsetsInRange adds delta to the jsonOffset of every record
// (containers and leaves, depth-first) whose header lies in [start, end).
func (d *Description) advanceJSONOffsetsInRange(start, end, delta int) {
	d.walkRange(start, end, func(at int) {
		d.setJSONOffset(at, d.JSONOffset(at)+delta)
	})
}

// RewriteValue replaces the entire JSON span of the record at at with
// valueJSON, resizing the JSON buffer and updating the record plus every
// ancestor's jsonLength. If valueJSON describes an object or array, its
// freshly-built sub-description is grafted in with offsets rebased to the
// rewrite's base offset.
func (d *Description) RewriteValue(buf *[]byte, at int, valueJSON []byte) error {
	sub, err := describeValue(valueJSON)
	if err != nil {
		return err
	}

	oldStart, oldEnd := d.JSONBounds(at)
	oldTableLen := d.IndexLength(at)
	ancestors := d.ancestryOf(at)

	// Splice the JSON buffer.
	nb := make([]byte, 0, len(*buf)-(oldEnd-oldStart)+len(valueJSON))
	nb = append(nb, (*buf)[:oldStart]...)
	nb = append(nb, valueJSON...)
	nb = append(nb, (*buf)[oldEnd:]...)
	*buf = nb
	bytesDelta := len(valueJSON) - (oldEnd - oldStart)

	// Rebase the new value's table to its host position, then splice it
	// into the table in place of the old record's whole subtree.
	sub.advanceAllJSONOffsets(oldStart)
	newTableLen := len(sub.recs)
	tail := append([]byte(nil), d.recs[at+oldTableLen:]...)
	d.recs = append(d.recs[:at], sub.recs...)
	d.recs = append(d.recs, tail...)
	tableDelta := newTableLen - oldTableLen

	for _, anc := range ancestors {
		d.setJSONLength(anc, d.JSONLength(anc)+bytesDelta)
		d.setChildrenTotalIndexLength(anc, d.ChildrenTotalIndexLength(anc)+tableDelta)
	}

	d.advanceJSONOffsetsInRange(at+newTableLen, len(d.recs), bytesDelta)
	return nil
}

// insertChildJSON splices newJSON into buf at insertPos (a pure
// insertion, nothing removed) and reports the byte delta.
func insertChildJSON(buf *[]byte, insertPos int, newJSON []byte) int {
	nb := make([]byte, 0, len(*buf)+len(newJSON))
	nb = append(nb, (*buf)[:insertPos]...)
	nb = append(nb, newJSON...)
	nb = append(nb, (*buf)[insertPos:]...)
	*buf = nb
	return len(newJSON)
}

// InsertArrayElement appends a value to the end of an array's existing
// elements (Array.Append's write path).
func (d *Description) InsertArrayElement(buf *[]byte, arrAt int, valueJSON []byte) error {
	sub, err := describeValue(valueJSON)
	if err != nil {
		return err
	}

	_, oldEnd := d.JSONBounds(arrAt)
	insertPos := oldEnd - 1 // just before ']'
	hasMembers := d.MemberCount(arrAt) > 0

	chunk := make([]byte, 0, len(valueJSON)+1)
	if hasMembers {
		chunk = append(chunk, ',')
	}
	chunk = append(chunk, valueJSON...)

	bytesDelta := insertChildJSON(buf, insertPos, chunk)

	valueStart := insertPos
	if hasMembers {
		valueStart++
	}
	sub.advanceAllJSONOffsets(valueStart)

	insertTablePos := arrAt + d.IndexLength(arrAt)
	ancestors := append(d.ancestryOf(arrAt), arrAt)

	tail := append([]byte(nil), d.recs[insertTablePos:]...)
	d.recs = append(d.recs[:insertTablePos], sub.recs...)
	d.recs = append(d.recs, tail...)
	tableDelta := len(sub.recs)

	for _, anc := range ancestors {
		d.setJSONLength(anc, d.JSONLength(anc)+bytesDelta)
		d.setChildrenTotalIndexLength(anc, d.ChildrenTotalIndexLength(anc)+tableDelta)
	}
	d.setMemberCount(arrAt, d.MemberCount(arrAt)+1)

	d.advanceJSONOffsetsInRange(insertTablePos+tableDelta, len(d.recs), bytesDelta)
	return nil
}

// InsertObjectMember appends a (key, value) pair to the end of an
// object's existing members (Object.Set's new-key write path). keyJSON is
// the already-quoted-and-escaped key literal, e.g. `"user_name"`.
func (d *Description) InsertObjectMember(buf *[]byte, objAt int, keyJSON string, valueJSON []byte) error {
	valueSub, err := describeValue(valueJSON)
	if err != nil {
		return err
	}

	_, oldEnd := d.JSONBounds(objAt)
	insertPos := oldEnd - 1 // just before '}'
	hasMembers := d.MemberCount(objAt) > 0

	chunk := make([]byte, 0, 2+len(keyJSON)+len(valueJSON))
	if hasMembers {
		chunk = append(chunk, ',')
	}
	chunk = append(chunk, keyJSON...)
	chunk = append(chunk, ':')
	chunk = append(chunk, valueJSON...)

	bytesDelta := insertChildJSON(buf, insertPos, chunk)

	keyStart := insertPos
	if hasMembers {
		keyStart++
	}
	valueStart := keyStart + len(keyJSON) + 1

	keyTag := byte(TagString)
	if bytes.IndexByte([]byte(keyJSON), '\\') >= 0 {
		keyTag = TagStringWithEscaping
	}
	keyTable := NewDescription()
	keyTable.describeSpan(keyTag, keyStart, len(keyJSON))

	valueSub.advanceAllJSONOffsets(valueStart)

	memberChunk := append(keyTable.recs, valueSub.recs...)

	insertTablePos := objAt + d.IndexLength(objAt)
	ancestors := append(d.ancestryOf(objAt), objAt)

	tail := append([]byte(nil), d.recs[insertTablePos:]...)
	d.recs = append(d.recs[:insertTablePos], memberChunk...)
	d.recs = append(d.recs, tail...)
	tableDelta := len(memberChunk)

	for _, anc := range ancestors {
		d.setJSONLength(anc, d.JSONLength(anc)+bytesDelta)
		d.setChildrenTotalIndexLength(anc, d.ChildrenTotalIndexLength(anc)+tableDelta)
	}
	d.setMemberCount(objAt, d.MemberCount(objAt)+1)

	d.advanceJSONOffsetsInRange(insertTablePos+tableDelta, len(d.recs), bytesDelta)
	return nil
}

// RemoveObjectMember removes the (key, value) record pair at keyAt from
// objAt, along with the corresponding JSON bytes and exactly one
// separating comma: the first member eats its trailing comma, a later
// member eats its leading comma. If no comma can be found where the
// grammar requires one, the table is corrupt — that is a bug in this
// package, not a user-recoverable condition, so it panics rather than
// returning an error.
func (d *Description) RemoveObjectMember(buf *[]byte, objAt, keyAt int) {
	valAt := d.SkipIndex(keyAt)
	memberTableLen := d.IndexLength(keyAt) + d.IndexLength(valAt)
	memberJSONStart, _ := d.JSONBounds(keyAt)
	_, memberJSONEnd := d.JSONBounds(valAt)

	objJSONStart, objJSONEnd := d.JSONBounds(objAt)
	isFirst := keyAt == d.FirstChild(objAt)

	var removeStart, removeEnd int
	switch {
	case isFirst && d.MemberCount(objAt) > 1:
		commaPos := bytes.IndexByte((*buf)[memberJSONEnd:objJSONEnd], ',')
		if commaPos < 0 {
			panic("lazyjson: corrupt description table: expected trailing comma")
		}
		removeStart, removeEnd = memberJSONStart, memberJSONEnd+commaPos+1
	case isFirst:
		removeStart, removeEnd = memberJSONStart, memberJSONEnd
	default:
		commaPos := bytes.LastIndexByte((*buf)[objJSONStart:memberJSONStart], ',')
		if commaPos < 0 {
			panic("lazyjson: corrupt description table: expected leading comma")
		}
		removeStart, removeEnd = objJSONStart+commaPos, memberJSONEnd
	}

	bytesDelta := -(removeEnd - removeStart)

	nb := append([]byte(nil), (*buf)[:removeStart]...)
	nb = append(nb, (*buf)[removeEnd:]...)
	*buf = nb

	tableRemoveStart, tableRemoveEnd := keyAt, valAt+d.IndexLength(valAt)
	ancestors := append(d.ancestryOf(objAt), objAt)

	tail := append([]byte(nil), d.recs[tableRemoveEnd:]...)
	d.recs = append(d.recs[:tableRemoveStart], tail...)

	for _, anc := range ancestors {
		d.setJSONLength(anc, d.JSONLength(anc)+bytesDelta)
		d.setChildrenTotalIndexLength(anc, d.ChildrenTotalIndexLength(anc)-memberTableLen)
	}
	d.setMemberCount(objAt, d.MemberCount(objAt)-1)

	d.advanceJSONOffsetsInRange(tableRemoveStart, len(d.recs), bytesDelta)
}

// RemoveArrayElement removes the element record at elemAt from arrAt,
// along with its JSON bytes and one separating comma, using the same
// first/later asymmetry as RemoveObjectMember.
func (d *Description) RemoveArrayElement(buf *[]byte, arrAt, elemAt int) {
	elemJSONStart, elemJSONEnd := d.JSONBounds(elemAt)
	elemTableLen := d.IndexLength(elemAt)

	arrJSONStart, arrJSONEnd := d.JSONBounds(arrAt)
	isFirst := elemAt == d.FirstChild(arrAt)

	var removeStart, removeEnd int
	switch {
	case isFirst && d.MemberCount(arrAt) > 1:
		commaPos := bytes.IndexByte((*buf)[elemJSONEnd:arrJSONEnd], ',')
		if commaPos < 0 {
			panic("lazyjson: corrupt description table: expected trailing comma")
		}
		removeStart, removeEnd = elemJSONStart, elemJSONEnd+commaPos+1
	case isFirst:
		removeStart, removeEnd = elemJSONStart, elemJSONEnd
	default:
		commaPos := bytes.LastIndexByte((*buf)[arrJSONStart:elemJSONStart], ',')
		if commaPos < 0 {
			panic("lazyjson: corrupt description table: expected leading comma")
		}
		removeStart, removeEnd = arrJSONStart+commaPos, elemJSONEnd
	}

	bytesDelta := -(removeEnd - removeStart)

	nb := append([]byte(nil), (*buf)[:removeStart]...)
	nb = append(nb, (*buf)[removeEnd:]...)
	*buf = nb

	ancestors := append(d.ancestryOf(arrAt), arrAt)
	tail := append([]byte(nil), d.recs[elemAt+elemTableLen:]...)
	d.recs = append(d.recs[:elemAt], tail...)

	for _, anc := range ancestors {
		d.setJSONLength(anc, d.JSONLength(anc)+bytesDelta)
		d.setChildrenTotalIndexLength(anc, d.ChildrenTotalIndexLength(anc)-elemTableLen)
	}
	d.setMemberCount(arrAt, d.MemberCount(arrAt)-1)

	d.advanceJSONOffsetsInRange(elemAt, len(d.recs), bytesDelta)
}
