package lazyjson

import "encoding/binary"

// Value kinds. Tag 0x00 is reserved and never written, so a zero-
// initialized record can never be misread as valid.
const (
	TagObject             byte = 0x01
	TagArray              byte = 0x02
	TagBoolTrue           byte = 0x03
	TagBoolFalse          byte = 0x04
	TagString             byte = 0x05
	TagStringWithEscaping byte = 0x06
	TagInteger            byte = 0x07
	TagFloatingNumber     byte = 0x08
	TagNull               byte = 0x09
)

// Record sizes in bytes, by shape.
const (
	leafBoolNullSize = 5  // tag(1) + jsonOffset(4)
	leafStringNumSize = 9 // tag(1) + jsonOffset(4) + jsonLength(4)
	containerHeaderSize = 17 // tag(1) + jsonOffset(4) + jsonLength(4) + memberCount(4) + childrenTotalIndexLength(4)
)

// Description is a growable binary record store: a flat arena of
// variable-size records laid out in source (depth-first, sibling) order,
// indexing a single JSON buffer. It has no parent pointers; ancestor
// bookkeeping during mutation is done by re-descending from the root.
type Description struct {
	recs []byte
}

// containerCtx is the opaque context threaded from a container-start call
// back to its matching close call, per the Sink contract.
type containerCtx struct {
	headerOffset     int // offset of this container's own record
	firstChildOffset int // offset in recs where children begin
}

// NewDescription returns an empty table ready to receive tokens as a Sink.
func NewDescription() *Description { return &Description{} }

// --- low level record I/O -------------------------------------------------

func (d *Description) writeU8(v byte) {
	d.recs = append(d.recs, v)
}

func (d *Description) writeI32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	d.recs = append(d.recs, b[:]...)
}

func (d *Description) setU8(at int, v byte) {
	d.recs[at] = v
}

func (d *Description) setI32(at int, v int32) {
	binary.LittleEndian.PutUint32(d.recs[at:at+4], uint32(v))
}

func (d *Description) getI32(at int) int32 {
	return int32(binary.LittleEndian.Uint32(d.recs[at : at+4]))
}

// Len returns the table's size in bytes.
func (d *Description) Len() int { return len(d.recs) }

// Tag returns the kind byte of the record at offset at.
func (d *Description) Tag(at int) byte { return d.recs[at] }

// JSONOffset returns the byte offset into the JSON buffer the record at
// at names.
func (d *Description) JSONOffset(at int) int { return int(d.getI32(at + 1)) }

func (d *Description) setJSONOffset(at, v int) { d.setI32(at+1, int32(v)) }

// JSONLength returns the byte span length in the JSON buffer, valid for
// string, number, object, and array records.
func (d *Description) JSONLength(at int) int { return int(d.getI32(at + 5)) }

func (d *Description) setJSONLength(at, v int) { d.setI32(at+5, int32(v)) }

// MemberCount returns the number of (key,value) pairs (objects) or
// elements (arrays) a container record directly holds.
func (d *Description) MemberCount(at int) int { return int(d.getI32(at + 9)) }

func (d *Description) setMemberCount(at, v int) { d.setI32(at+9, int32(v)) }

// ChildrenTotalIndexLength returns the exact sum of record bytes of a
// container's descendants, enabling O(1) subtree skipping.
func (d *Description) ChildrenTotalIndexLength(at int) int { return int(d.getI32(at + 13)) }

func (d *Description) setChildrenTotalIndexLength(at, v int) { d.setI32(at+13, int32(v)) }

func isContainerTag(tag byte) bool { return tag == TagObject || tag == TagArray }

// IndexLength returns the number of table bytes the record at at (and,
// for containers, all of its descendants) occupies. It is determined
// solely by the tag for leaves; containers add their stored
// childrenTotalIndexLength, making "skip this subtree" O(1).
func (d *Description) IndexLength(at int) int {
	switch tag := d.Tag(at); tag {
	case TagBoolTrue, TagBoolFalse, TagNull:
		return leafBoolNullSize
	case TagString, TagStringWithEscaping, TagInteger, TagFloatingNumber:
		return leafStringNumSize
	case TagObject, TagArray:
		return containerHeaderSize + d.ChildrenTotalIndexLength(at)
	default:
		panic("lazyjson: corrupt description table: unknown tag")
	}
}

// SkipIndex advances offset by IndexLength(offset) and returns the result
// — the offset of the next sibling, or the end of the enclosing container.
func (d *Description) SkipIndex(offset int) int {
	return offset + d.IndexLength(offset)
}

// FirstChild returns the table offset of a container's first child
// record (the key of the first member, for an object).
func (d *Description) FirstChild(at int) int { return at + containerHeaderSize }

// --- Sink implementation, used directly by Scan during Parse -------------

func (d *Description) describeLeaf(tag byte, offset int) {
	d.writeU8(tag)
	d.writeI32(int32(offset))
}

func (d *Description) describeSpan(tag byte, offset, length int) {
	d.writeU8(tag)
	d.writeI32(int32(offset))
	d.writeI32(int32(length))
}

func (d *Description) BooleanTrue(offset int)  { d.describeLeaf(TagBoolTrue, offset) }
func (d *Description) BooleanFalse(offset int) { d.describeLeaf(TagBoolFalse, offset) }
func (d *Description) Null(offset int)         { d.describeLeaf(TagNull, offset) }

func (d *Description) String(offset, length int, escaped bool) {
	tag := TagString
	if escaped {
		tag = TagStringWithEscaping
	}
	d.describeSpan(tag, offset, length)
}

func (d *Description) Number(offset, length int, isInteger bool) {
	tag := TagFloatingNumber
	if isInteger {
		tag = TagInteger
	}
	d.describeSpan(tag, offset, length)
}

func (d *Description) startContainer(tag byte, offset int) containerCtx {
	header := len(d.recs)
	d.writeU8(tag)
	d.writeI32(int32(offset))
	d.writeI32(0) // jsonLength, back-patched
	d.writeI32(0) // memberCount, back-patched
	d.writeI32(0) // childrenTotalIndexLength, back-patched
	return containerCtx{headerOffset: header, firstChildOffset: len(d.recs)}
}

func (d *Description) ObjectStart(offset int) any { return d.startContainer(TagObject, offset) }
func (d *Description) ArrayStart(offset int) any  { return d.startContainer(TagArray, offset) }

// complete back-patches jsonLength, memberCount, and
// childrenTotalIndexLength once a container's closing delimiter has been
// scanned.
func (d *Description) complete(ctx any, end, memberCount int) {
	c := ctx.(containerCtx)
	jsonOffset := d.JSONOffset(c.headerOffset)
	d.setJSONLength(c.headerOffset, end-jsonOffset)
	d.setMemberCount(c.headerOffset, memberCount)
	d.setChildrenTotalIndexLength(c.headerOffset, len(d.recs)-c.firstChildOffset)
}

func (d *Description) ObjectEnd(ctx any, end, memberCount int) { d.complete(ctx, end, memberCount) }
func (d *Description) ArrayEnd(ctx any, end, memberCount int)  { d.complete(ctx, end, memberCount) }

// --- queries ---------------------------------------------------------------

// JSONBounds returns the [start,end) byte range of the record's value in
// the JSON buffer, including surrounding quotes for strings.
func (d *Description) JSONBounds(at int) (start, end int) {
	start = d.JSONOffset(at)
	return start, start + d.JSONLength(at)
}

// DataBounds is JSONBounds with surrounding quotes stripped for string
// records; for every other kind it is identical to JSONBounds.
func (d *Description) DataBounds(at int) (start, end int) {
	start, end = d.JSONBounds(at)
	if tag := d.Tag(at); tag == TagString || tag == TagStringWithEscaping {
		start++
		end--
	}
	return start, end
}

// keyOffset performs a linear scan of an object's members, comparing raw
// key bytes directly against the JSON buffer with no allocation.
// Returns -1 if not found. When snakeCase is true, JSON keys are compared
// to key under snake_case-to-camelCase folding (see strategies.go).
func (d *Description) keyOffset(buf []byte, objAt int, key string, snakeCase bool) int {
	n := d.MemberCount(objAt)
	at := d.FirstChild(objAt)
	for i := 0; i < n; i++ {
		keyAt := at
		valAt := d.SkipIndex(keyAt)
		start, end := d.DataBounds(keyAt)
		raw := buf[start:end]
		if keyMatches(raw, d.Tag(keyAt) == TagStringWithEscaping, key, snakeCase) {
			return keyAt
		}
		at = d.SkipIndex(valAt)
	}
	return -1
}

// valueOffset is keyOffset but returns the offset of the member's value
// record (the key record skipped), or -1 if the key is absent.
func (d *Description) valueOffset(buf []byte, objAt int, key string, snakeCase bool) int {
	keyAt := d.keyOffset(buf, objAt, key, snakeCase)
	if keyAt < 0 {
		return -1
	}
	return d.SkipIndex(keyAt)
}

// keyMatches compares a raw (possibly escaped) JSON key span against a
// target Go field name. Escaped keys are unescaped once, which is the
// only case that allocates.
func keyMatches(raw []byte, escaped bool, key string, snakeCase bool) bool {
	if escaped {
		raw = unescapeBytes(raw)
	}
	if !snakeCase {
		return string(raw) == key
	}
	return snakeEqualsCamel(raw, key)
}

// nthMember returns the table offset of the key record of an object's
// idx'th member (0-based), assuming idx < MemberCount(objAt).
func (d *Description) nthMember(objAt, idx int) int {
	at := d.FirstChild(objAt)
	for ; idx > 0; idx-- {
		at = d.SkipIndex(d.SkipIndex(at))
	}
	return at
}

// memberIndexOf returns the positional index of the member whose key
// record is at keyAt within objAt, or -1 if keyAt does not name a
// direct member of objAt.
func (d *Description) memberIndexOf(objAt, keyAt int) int {
	n := d.MemberCount(objAt)
	at := d.FirstChild(objAt)
	for i := 0; i < n; i++ {
		if at == keyAt {
			return i
		}
		at = d.SkipIndex(d.SkipIndex(at))
	}
	return -1
}

// advanceAllJSONOffsets walks every record in the table, adding delta to
// jsonOffset. Used when grafting a sub-description into a new host
// position, or when a sibling range shifts because an earlier sibling in
// the same JSON buffer changed size.
func (d *Description) advanceAllJSONOffsets(delta int) {
	d.walkRange(0, len(d.recs), func(at int) {
		d.setJSONOffset(at, d.JSONOffset(at)+delta)
	})
}

// walkRange calls fn for every record (containers and leaves alike,
// depth-first) whose header lies in [start, end).
func (d *Description) walkRange(start, end int, fn func(at int)) {
	at := start
	for at < end {
		fn(at)
		if isContainerTag(d.Tag(at)) {
			d.walkRange(d.FirstChild(at), at+d.IndexLength(at), fn)
		}
		at = d.SkipIndex(at)
	}
}

// Slice copies the sub-description rooted at at into a standalone table
// whose single root record has been rebased to json-offset 0 and whose
// JSON window is the corresponding byte range of buf — the same
// operation used to hand a nested Object/Array facade a table it can
// stand alone on.
func (d *Description) Slice(at int) (sub *Description, jsonStart, jsonEnd int) {
	length := d.IndexLength(at)
	sub = &Description{recs: append([]byte(nil), d.recs[at:at+length]...)}
	jsonStart, jsonEnd = d.JSONBounds(at)
	sub.advanceAllJSONOffsets(-jsonStart)
	return sub, jsonStart, jsonEnd
}
