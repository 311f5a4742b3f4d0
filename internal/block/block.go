// Package block defines the Block type relayed through the pipebuffer ring.
package block

import "fmt"

// Default sizing, matching the values pipebuffer has always been built with.
const (
	DefaultSize  = 14000 // bytes per block
	DefaultSlots = 1000  // blocks held by the ring
)

// Block is one unit of buffered payload.
// Data aliases the ring slot it was read into and is only valid until the
// slot is reused.
type Block struct {
	Data []byte // valid payload bytes, len(Data) == Len
	Len  int    // 0 < Len <= block size
	Seq  uint64 // monotonic sequence number assigned at ingestion
}

// String returns a short diagnostic form of the block.
func (b Block) String() string {
	return fmt.Sprintf("block#%d(%dB)", b.Seq, b.Len)
}
