package lightfs

import (
	"fmt"
	"math"

	"github.com/hupe1980/lightfs/internal/bitmap"
	"github.com/hupe1980/lightfs/internal/table"
)

// Geometry describes the fixed sizing of a volume: a system area holding the
// superblock, bitmap and entry table (padded up to SystemSize), followed by a
// data area divided into fixed-size blocks. All values are fixed at
// initialization and never grow.
type Geometry struct {
	// TotalSize is the size of the whole backing file in bytes.
	TotalSize int64
	// SystemSize is the size of the system area. The data area starts at this
	// offset regardless of how much of the system area the metadata actually
	// uses; the gap, if any, is unused padding.
	SystemSize int64
	// BlockSize is the size of one data block in bytes.
	BlockSize int64
	// MaxFiles is the number of slots in the entry table.
	MaxFiles int
}

// DefaultGeometry returns the reference sizing: a 256 MiB volume with a
// 56 MiB system area, 1 MiB blocks and 1024 entry slots.
func DefaultGeometry() Geometry {
	return Geometry{
		TotalSize:  256 << 20,
		SystemSize: 56 << 20,
		BlockSize:  1 << 20,
		MaxFiles:   1024,
	}
}

// Validate checks that the geometry describes a representable layout.
func (g Geometry) Validate() error {
	if g.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive, got %d", g.BlockSize)
	}
	if g.BlockSize > math.MaxUint32 {
		return fmt.Errorf("block size %d does not fit the superblock field", g.BlockSize)
	}
	if g.SystemSize <= 0 || g.TotalSize <= g.SystemSize {
		return fmt.Errorf("total size %d must exceed system size %d", g.TotalSize, g.SystemSize)
	}
	if g.MaxFiles <= 0 {
		return fmt.Errorf("max files must be positive, got %d", g.MaxFiles)
	}
	if g.DataSize()%g.BlockSize != 0 {
		return fmt.Errorf("data size %d is not a multiple of block size %d", g.DataSize(), g.BlockSize)
	}
	if g.TotalBlocks() > math.MaxUint32 {
		return fmt.Errorf("block count %d does not fit the superblock field", g.TotalBlocks())
	}
	if min := g.TableOffset() + g.TableSize(); g.SystemSize < min {
		return fmt.Errorf("system size %d cannot hold superblock, bitmap and table (%d bytes)", g.SystemSize, min)
	}
	return nil
}

// DataSize returns the size of the data area in bytes.
func (g Geometry) DataSize() int64 { return g.TotalSize - g.SystemSize }

// TotalBlocks returns the number of data blocks.
func (g Geometry) TotalBlocks() int { return int(g.DataSize() / g.BlockSize) }

// BitmapOffset returns the offset of the free-block bitmap.
func (g Geometry) BitmapOffset() int64 { return SuperblockSize }

// BitmapSize returns the on-disk size of the bitmap in bytes.
func (g Geometry) BitmapSize() int64 { return bitmap.DiskSize(g.TotalBlocks()) }

// TableOffset returns the offset of the entry table.
func (g Geometry) TableOffset() int64 { return g.BitmapOffset() + g.BitmapSize() }

// TableSize returns the on-disk size of the entry table in bytes.
func (g Geometry) TableSize() int64 { return int64(g.MaxFiles) * table.EntrySize }

// DataOffset returns the offset of the data area.
func (g Geometry) DataOffset() int64 { return g.SystemSize }

// MaxFileSize returns the hard file-size ceiling, bounded by the maximum
// number of block references per entry.
func (g Geometry) MaxFileSize() int64 { return table.MaxBlockRefs * g.BlockSize }
