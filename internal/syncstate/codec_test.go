package syncstate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugorji/go/codec"
)

func TestEncodeDecode_Roundtrip(t *testing.T) {
	records := []Record{
		Synced(),
		Unsynced(1, "abc"),
		Unsynced(42, "1f2e3d4c5b6a79881f2e3d4c5b6a79881f2e3d4c"),
		Unsynced(1<<32-1, strings.Repeat("x", 300)),
		Unsynced(3, ""),
		Unsynced(2, "ünïcödé"),
	}

	for _, rec := range records {
		data, err := Encode(rec)
		require.NoError(t, err)

		got, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
	}
}

func TestEncode_RejectsInvalidRecord(t *testing.T) {
	_, err := Encode(Unsynced(0, "abc"))
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Encode(Record{Status: 5, Missed: 1})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestDecode_Truncated(t *testing.T) {
	for _, rec := range []Record{Synced(), Unsynced(300, "deadbeef")} {
		data, err := Encode(rec)
		require.NoError(t, err)

		for n := 0; n < len(data); n++ {
			got, err := Decode(data[:n])
			assert.ErrorIs(t, err, ErrCorruptState, "prefix of %d bytes", n)
			assert.Equal(t, Synced(), got)
		}
	}
}

func TestDecode_TrailingBytes(t *testing.T) {
	data, err := Encode(Unsynced(2, "abc"))
	require.NoError(t, err)

	_, err = Decode(append(data, 0x00))
	assert.ErrorIs(t, err, ErrCorruptState)
}

func TestDecode_Garbage(t *testing.T) {
	inputs := [][]byte{
		{0xc1},
		[]byte("not a state file"),
		{0xff, 0xff, 0xff, 0xff},
		// nil, empty array
		{0xc0},
		{0x90},
		// [1, 1] with the revision missing
		{0x92, 0x01, 0x01},
		// [1, 1, "a", 5]
		{0x94, 0x01, 0x01, 0xa1, 'a', 0x05},
		// [1, "a", "a"] with a string count
		{0x93, 0x01, 0xa1, 'a', 0xa1, 'a'},
		// map instead of array
		{0x81, 0xa1, 'a', 0x01},
	}
	for _, in := range inputs {
		_, err := Decode(in)
		assert.ErrorIs(t, err, ErrCorruptState, "input %x", in)
	}
}

func TestDecode_RejectsInvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		wire wireRecord
	}{
		{"unknown tag", wireRecord{Tag: 2, Missed: 1, Revision: "abc"}},
		{"unsynced with zero count", wireRecord{Tag: 1, Missed: 0, Revision: "abc"}},
		{"synced with payload", wireRecord{Tag: 0, Missed: 4, Revision: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data []byte
			require.NoError(t, codec.NewEncoderBytes(&data, msgpackHandle).Encode(&tt.wire))

			_, err := Decode(data)
			assert.ErrorIs(t, err, ErrCorruptState)
		})
	}
}

func TestEncode_IsCompactArray(t *testing.T) {
	data, err := Encode(Synced())
	require.NoError(t, err)
	// fixarray(3), 0, 0, fixstr(0)
	assert.Equal(t, []byte{0x93, 0x00, 0x00, 0xa0}, data)
}
