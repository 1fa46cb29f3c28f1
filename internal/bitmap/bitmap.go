// Package bitmap implements the free-block bitmap of a lightfs volume.
//
// One bit tracks each data block: 1 = in use, 0 = free. On disk the bitmap
// occupies ceil(totalBlocks/8) bytes directly after the superblock region,
// LSB-first within each byte (block i lives at byte i/8, bit i%8). The bitmap
// is read in full, mutated in memory and written back in full on every
// structural change; there are no partial bitmap writes.
package bitmap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
)

// ErrInsufficientSpace is returned when fewer free blocks remain than requested.
var ErrInsufficientSpace = errors.New("insufficient free space")

// Bitmap is the in-memory form of the free-block bitmap.
type Bitmap struct {
	bits *bitset.BitSet
	n    int
}

// New creates an all-free bitmap tracking numBlocks data blocks.
func New(numBlocks int) *Bitmap {
	return &Bitmap{bits: bitset.New(uint(numBlocks)), n: numBlocks}
}

// DiskSize returns the on-disk size in bytes of a bitmap over numBlocks blocks.
func DiskSize(numBlocks int) int64 {
	return int64((numBlocks + 7) / 8)
}

// Load reads the full bitmap region at off.
func Load(r io.ReaderAt, off int64, numBlocks int) (*Bitmap, error) {
	buf := make([]byte, DiskSize(numBlocks))
	if _, err := r.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("read bitmap: %w", err)
	}

	words := make([]uint64, (numBlocks+63)/64)
	padded := make([]byte, len(words)*8)
	copy(padded, buf)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(padded[i*8:])
	}
	return &Bitmap{bits: bitset.FromWithLength(uint(numBlocks), words), n: numBlocks}, nil
}

// Flush writes the bitmap back in full at off.
func (b *Bitmap) Flush(w io.WriterAt, off int64) error {
	if _, err := w.WriteAt(b.MarshalBytes(), off); err != nil {
		return fmt.Errorf("write bitmap: %w", err)
	}
	return nil
}

// MarshalBytes encodes the bitmap into its on-disk byte layout.
func (b *Bitmap) MarshalBytes() []byte {
	words := b.bits.Bytes()
	padded := make([]byte, len(words)*8)
	for i, w := range words {
		binary.LittleEndian.PutUint64(padded[i*8:], w)
	}
	return padded[:DiskSize(b.n)]
}

// Len returns the number of tracked blocks.
func (b *Bitmap) Len() int { return b.n }

// Test reports whether block i is in use.
func (b *Bitmap) Test(i uint32) bool { return b.bits.Test(uint(i)) }

// Set marks block i as in use.
func (b *Bitmap) Set(i uint32) { b.bits.Set(uint(i)) }

// Clear marks block i as free.
func (b *Bitmap) Clear(i uint32) { b.bits.Clear(uint(i)) }

// Release marks every block in blocks as free.
func (b *Bitmap) Release(blocks []uint32) {
	for _, i := range blocks {
		b.Clear(i)
	}
}

// UsedCount returns the number of in-use blocks.
func (b *Bitmap) UsedCount() int { return int(b.bits.Count()) }

// FindFree collects the first n free block indices in ascending order
// (first-fit, no contiguity requirement). It does not mark them as used.
func (b *Bitmap) FindFree(n int) ([]uint32, error) {
	free := make([]uint32, 0, n)
	for i, ok := b.bits.NextClear(0); ok && len(free) < n; i, ok = b.bits.NextClear(i + 1) {
		if i >= uint(b.n) {
			break
		}
		free = append(free, uint32(i))
	}
	if len(free) < n {
		return nil, fmt.Errorf("%w: need %d blocks, %d free", ErrInsufficientSpace, n, b.n-b.UsedCount())
	}
	return free, nil
}
