// Completion: 100% - Module complete
package pe

import (
	"encoding/binary"
	"fmt"
)

// stagingBuffer is the fixed-capacity area an image is assembled in.
// Reserve sizes and zero fills it, Put* writes at absolute offsets, and
// after Commit it is read-only. It never grows past its capacity.
type stagingBuffer struct {
	buf       []byte
	capacity  int
	committed bool   // True once Commit() is called
	name      string // For panics
}

func newStagingBuffer(name string, capacity int) *stagingBuffer {
	return &stagingBuffer{
		capacity: capacity,
		name:     name,
	}
}

// Reserve sizes the buffer to n zero bytes
func (sb *stagingBuffer) Reserve(n int) error {
	sb.mustNotBeCommitted()
	if n > sb.capacity {
		return &ImageTooLargeError{FileSize: n, Capacity: sb.capacity}
	}
	sb.buf = make([]byte, n)
	return nil
}

// PutAt copies p to offset. Writing outside the reserved range panics.
func (sb *stagingBuffer) PutAt(offset int, p []byte) {
	sb.mustNotBeCommitted()
	if offset < 0 || offset+len(p) > len(sb.buf) {
		panic(fmt.Sprintf("stagingBuffer(%s): write of %d bytes at 0x%x outside 0x%x reserved bytes",
			sb.name, len(p), offset, len(sb.buf)))
	}
	copy(sb.buf[offset:], p)
}

// PutUint16 writes a little-endian uint16 at offset
func (sb *stagingBuffer) PutUint16(offset int, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	sb.PutAt(offset, b[:])
}

// PutUint32 writes a little-endian uint32 at offset
func (sb *stagingBuffer) PutUint32(offset int, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	sb.PutAt(offset, b[:])
}

// PutRecord serializes a fixed-size header record at offset, field by field,
// little-endian and without padding
func (sb *stagingBuffer) PutRecord(offset int, record any) {
	b := make([]byte, binary.Size(record))
	if _, err := binary.Encode(b, binary.LittleEndian, record); err != nil {
		panic(fmt.Sprintf("stagingBuffer(%s): cannot encode %T: %v", sb.name, record, err))
	}
	sb.PutAt(offset, b)
}

// Commit marks the buffer as complete. After this, no more writes allowed.
func (sb *stagingBuffer) Commit() {
	sb.committed = true
}

// Bytes returns the reserved bytes. Must be called after Commit().
func (sb *stagingBuffer) Bytes() []byte {
	if !sb.committed {
		panic(fmt.Sprintf("stagingBuffer(%s): Must call Commit() before reading", sb.name))
	}
	return sb.buf
}

// Len returns the number of reserved bytes
func (sb *stagingBuffer) Len() int {
	return len(sb.buf)
}

func (sb *stagingBuffer) mustNotBeCommitted() {
	if sb.committed {
		panic(fmt.Sprintf("stagingBuffer(%s): Cannot write to committed buffer", sb.name))
	}
}
