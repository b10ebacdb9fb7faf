package flacmeta

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// byteReader reads fixed-width integers from a payload, failing with
// ErrTruncated instead of panicking on short input.
type byteReader struct {
	buf []byte
	off int
}

func newByteReader(buf []byte) *byteReader {
	return &byteReader{buf: buf}
}

func (r *byteReader) remaining() int {
	return len(r.buf) - r.off
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if n < 0 || n > r.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.off, r.remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *byteReader) u8() (uint8, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) u24be() (uint32, error) {
	b, err := r.bytes(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func (r *byteReader) u32be() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *byteReader) u32le() (uint32, error) {
	b, err := r.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// lenPrefixed reads a u32 length with the given reader method, then that many bytes.
func (r *byteReader) lenPrefixed(readLen func() (uint32, error)) ([]byte, error) {
	n, err := readLen()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(r.remaining()) {
		return nil, fmt.Errorf("%w: length %d at offset %d exceeds %d remaining", ErrTruncated, n, r.off-4, r.remaining())
	}
	return r.bytes(int(n))
}

type byteWriter struct {
	buf bytes.Buffer
}

func (w *byteWriter) u8(v uint8) {
	w.buf.WriteByte(v)
}

func (w *byteWriter) u24be(v uint32) {
	w.buf.Write([]byte{byte(v >> 16), byte(v >> 8), byte(v)})
}

func (w *byteWriter) u32be(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *byteWriter) u32le(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *byteWriter) write(b []byte) {
	w.buf.Write(b)
}

func (w *byteWriter) Bytes() []byte {
	return w.buf.Bytes()
}
