package lazyjson

import (
	"bytes"
	"encoding/ascii85"
	"io"

	"github.com/klauspost/compress/zstd"
)

// historyLog records the compressed, ascii85-armored JSON buffer as it
// stood before each mutation, so a caller that opted into
// EnableHistory can Undo one step at a time. Entries are zstd-compressed
// before armoring; a document that is mutated through thousands of small
// edits would otherwise retain the whole buffer, uncompressed, once per
// edit.
type historyLog struct {
	entries [][]byte // ascii85(zstd(previous buffer))
}

// EnableHistory turns on snapshot-before-mutate tracking for o. Every
// subsequent Set, SetValue, Remove, or RenameKey records the buffer as
// it stood immediately before the call.
func (o *Object) EnableHistory() {
	if o.history == nil {
		o.history = &historyLog{}
	}
}

// EnableHistory is Object.EnableHistory's Array counterpart.
func (a *Array) EnableHistory() {
	if a.history == nil {
		a.history = &historyLog{}
	}
}

// snapshot records the current buffer if history tracking is enabled.
// It is a no-op otherwise, so a caller that never opts in pays nothing
// beyond the nil check.
func (o *Object) snapshot() {
	if o.history == nil {
		return
	}
	o.history.push(o.buf)
}

func (a *Array) snapshot() {
	if a.history == nil {
		return
	}
	a.history.push(a.buf)
}

func (h *historyLog) push(buf []byte) {
	armored, err := compressAndArmor(buf)
	if err != nil {
		// Compression of an already-validated JSON buffer cannot fail;
		// falling back to an uncompressed copy keeps Undo correct even
		// if it ever does.
		h.entries = append(h.entries, append([]byte(nil), buf...))
		return
	}
	h.entries = append(h.entries, armored)
}

func (h *historyLog) pop() ([]byte, bool) {
	if len(h.entries) == 0 {
		return nil, false
	}
	last := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	buf, err := unarmorAndDecompress(last)
	if err != nil {
		return last, true // the uncompressed fallback written by push
	}
	return buf, true
}

// Undo restores the buffer as it stood before the most recent mutation
// and re-tokenizes it into a fresh description table. Returns
// ErrHistoryDisabled if EnableHistory was never called, ErrNoSnapshot if
// there is nothing left to undo.
func (o *Object) Undo() error {
	if o.history == nil {
		return ErrHistoryDisabled
	}
	buf, ok := o.history.pop()
	if !ok {
		return ErrNoSnapshot
	}
	table := NewDescription()
	if _, err := Scan(buf, table); err != nil {
		return err
	}
	o.buf, o.table = buf, table
	return nil
}

// Undo is Object.Undo's Array counterpart.
func (a *Array) Undo() error {
	if a.history == nil {
		return ErrHistoryDisabled
	}
	buf, ok := a.history.pop()
	if !ok {
		return ErrNoSnapshot
	}
	table := NewDescription()
	if _, err := Scan(buf, table); err != nil {
		return err
	}
	a.buf, a.table = buf, table
	return nil
}

func compressAndArmor(buf []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	compressed := enc.EncodeAll(buf, nil)
	enc.Close()

	var armored bytes.Buffer
	w := ascii85.NewEncoder(&armored)
	if _, err := w.Write(compressed); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return armored.Bytes(), nil
}

func unarmorAndDecompress(armored []byte) ([]byte, error) {
	r := ascii85.NewDecoder(bytes.NewReader(armored))
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(compressed, nil)
}
