package syncstate

import (
	"errors"
	"fmt"

	"github.com/ugorji/go/codec"
)

var (
	ErrInvalidRecord = errors.New("syncstate: invalid record")
	ErrCorruptState  = errors.New("syncstate: corrupt state")
)

// wireFields is the element count of the encoded array.
const wireFields = 3

// wireRecord is the msgpack layout of a Record: a fixed array of
// [tag, missed, revision]. A synced record is written as [0, 0, ""].
type wireRecord struct {
	Tag      uint8
	Missed   uint32
	Revision string
}

var msgpackHandle = newMsgpackHandle()

func newMsgpackHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.StructToArray = true
	h.WriteExt = true
	h.RawToString = true
	h.ErrorIfNoField = true
	return h
}

// Encode serializes r. Records that break the Record invariants are refused.
func Encode(r Record) ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %s missed=%d", ErrInvalidRecord, r.Status, r.Missed)
	}

	w := wireRecord{
		Tag:      uint8(r.Status),
		Missed:   r.Missed,
		Revision: r.Revision,
	}

	var buf []byte
	if err := codec.NewEncoderBytes(&buf, msgpackHandle).Encode(&w); err != nil {
		return nil, fmt.Errorf("syncstate: encode: %w", err)
	}
	return buf, nil
}

// Decode parses data written by Encode. Truncated input, trailing bytes,
// arrays that are not exactly [tag, missed, revision] and payloads that do
// not form a valid Record all fail with ErrCorruptState.
func Decode(data []byte) (Record, error) {
	if len(data) == 0 {
		return Synced(), fmt.Errorf("%w: empty", ErrCorruptState)
	}

	var elems []codec.Raw
	dec := codec.NewDecoderBytes(data, msgpackHandle)
	if err := dec.Decode(&elems); err != nil {
		return Synced(), fmt.Errorf("%w: %w", ErrCorruptState, err)
	}
	if n := dec.NumBytesRead(); n != len(data) {
		return Synced(), fmt.Errorf("%w: %d trailing bytes", ErrCorruptState, len(data)-n)
	}
	if len(elems) != wireFields {
		return Synced(), fmt.Errorf("%w: %d fields, want %d", ErrCorruptState, len(elems), wireFields)
	}

	var w wireRecord
	fields := []interface{}{&w.Tag, &w.Missed, &w.Revision}
	for i, f := range fields {
		if err := codec.NewDecoderBytes(elems[i], msgpackHandle).Decode(f); err != nil {
			return Synced(), fmt.Errorf("%w: field %d: %w", ErrCorruptState, i, err)
		}
	}

	r := Record{
		Status:   Status(w.Tag),
		Missed:   w.Missed,
		Revision: w.Revision,
	}
	if !r.Valid() {
		return Synced(), fmt.Errorf("%w: %s missed=%d", ErrCorruptState, r.Status, r.Missed)
	}
	return r, nil
}
