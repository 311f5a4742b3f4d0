// Package buffer provides the fixed-capacity block store for the relay.
package buffer

import (
	"io"

	"github.com/pkg/errors"

	"github.com/Geun-Oh/pipebuffer/internal/block"
)

// ErrEmptyRead is returned by Fill when the reader yields zero bytes without an error.
var ErrEmptyRead = errors.New("buffer: read returned no data")

// slot is one arena-backed ring entry.
type slot struct {
	buf []byte // BlockSize bytes carved from the arena
	len int
	seq uint64
}

// Ring is a fixed-capacity FIFO of blocks backed by a single arena
// allocated at construction. It is never grown, shrunk or reallocated.
// Ring is not goroutine-safe: it is owned by the relay loop.
type Ring struct {
	arena     []byte
	slots     []slot
	start     int // oldest occupied slot
	count     int // occupied slots
	blockSize int
	seq       uint64 // next sequence number
}

// NewRing creates a ring of the given number of slots, each holding up to
// blockSize bytes. Non-positive arguments fall back to the defaults.
func NewRing(slots, blockSize int) *Ring {
	if slots <= 0 {
		slots = block.DefaultSlots
	}
	if blockSize <= 0 {
		blockSize = block.DefaultSize
	}
	r := &Ring{
		arena:     make([]byte, slots*blockSize),
		slots:     make([]slot, slots),
		blockSize: blockSize,
	}
	for i := range r.slots {
		off := i * blockSize
		r.slots[i].buf = r.arena[off : off+blockSize : off+blockSize]
	}
	return r
}

// IsFull reports whether every slot is occupied.
func (r *Ring) IsFull() bool {
	return r.count == len(r.slots)
}

// IsEmpty reports whether no slot is occupied.
func (r *Ring) IsEmpty() bool {
	return r.count == 0
}

// Len returns the number of queued blocks.
func (r *Ring) Len() int {
	return r.count
}

// Cap returns the slot count.
func (r *Ring) Cap() int {
	return len(r.slots)
}

// BlockSize returns the payload capacity of one slot.
func (r *Ring) BlockSize() int {
	return r.blockSize
}

// Seq returns the sequence number the next appended block will receive.
func (r *Ring) Seq() uint64 {
	return r.seq
}

func (r *Ring) tail() *slot {
	return &r.slots[(r.start+r.count)%len(r.slots)]
}

// commit publishes the tail slot holding n bytes.
func (r *Ring) commit(n int) block.Block {
	s := r.tail()
	s.len = n
	s.seq = r.seq
	r.seq++
	r.count++
	return block.Block{Data: s.buf[:n], Len: n, Seq: s.seq}
}

// Append copies p into the tail slot and returns its sequence number.
// The caller must check IsFull first; p must hold between 1 and BlockSize bytes.
func (r *Ring) Append(p []byte) uint64 {
	if r.IsFull() {
		panic("buffer: append to full ring")
	}
	if len(p) == 0 || len(p) > r.blockSize {
		panic("buffer: append length out of range")
	}
	copy(r.tail().buf, p)
	return r.commit(len(p)).Seq
}

// Fill performs exactly one Read of up to BlockSize bytes from rd straight
// into the tail slot. A positive read is committed even when rd also returns
// an error; the error then surfaces on the next read. Nothing is committed
// on a zero-byte read.
// The caller must check IsFull first.
func (r *Ring) Fill(rd io.Reader) (block.Block, error) {
	if r.IsFull() {
		panic("buffer: fill of full ring")
	}
	n, err := rd.Read(r.tail().buf)
	if n > 0 {
		return r.commit(n), nil
	}
	if err == nil {
		err = ErrEmptyRead
	}
	return block.Block{}, err
}

// Peek returns a read-only view of the oldest block.
func (r *Ring) Peek() block.Block {
	if r.count == 0 {
		panic("buffer: peek of empty ring")
	}
	s := &r.slots[r.start]
	return block.Block{Data: s.buf[:s.len], Len: s.len, Seq: s.seq}
}

// Pop releases the oldest slot for reuse. Its bytes are left in place.
func (r *Ring) Pop() {
	if r.count == 0 {
		panic("buffer: pop of empty ring")
	}
	r.start = (r.start + 1) % len(r.slots)
	r.count--
}

// Snapshot returns the sequence numbers of the queued blocks, oldest first.
func (r *Ring) Snapshot() []uint64 {
	result := make([]uint64, r.count)
	for i := range result {
		result[i] = r.slots[(r.start+i)%len(r.slots)].seq
	}
	return result
}
