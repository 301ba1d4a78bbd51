package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const version byte = 1

var (
	ErrCorrupt = errors.New("docstore: corrupt entry")
	magic4     = [...]byte{'V', 'D', 'O', 'C'}
)

const hdrLen = 4 + 1 + 8 + 8 + 4

// Stamp identifies the source file revision a cached document was decoded from.
type Stamp struct {
	Size    int64
	ModTime int64 // unix nanoseconds
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Doc: magic(4) | ver(1) | size(i64 be) | mtime(i64 be) | vlen(u32 be) | payload(vlen)
func EncodeDoc(st Stamp, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdrLen + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], uint64(st.Size))
	buf.Write(u8[:])
	binary.BigEndian.PutUint64(u8[:], uint64(st.ModTime))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeDoc returns the stamp and a payload slice aliasing b.
// Trailing bytes after the payload are treated as corruption.
func DecodeDoc(b []byte) (Stamp, []byte, error) {
	if len(b) < hdrLen || !hasMagic(b) || b[4] != version {
		return Stamp{}, nil, ErrCorrupt
	}
	off := 5

	var st Stamp
	st.Size = int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8
	st.ModTime = int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off {
		return Stamp{}, nil, ErrCorrupt
	}
	return st, b[off:], nil
}
