package lightfs

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic identifies a lightfs volume ("LIFS").
	Magic = 0x4C464653
	// FormatVersion is the current on-disk format version.
	FormatVersion = 1
	// SuperblockSize is the fixed header region reserved at offset 0. Only
	// the first superblockLen bytes are meaningful; the rest is padding.
	SuperblockSize = 4096

	superblockLen = 20
)

// Superblock is the identity and capacity record written once at
// initialization. It is validated, never rewritten, on subsequent opens.
type Superblock struct {
	Magic       uint32
	Version     uint32
	BlockSize   uint32
	TotalBlocks uint32
	MaxFiles    uint32
}

// NewSuperblock derives the superblock for a geometry.
func NewSuperblock(g Geometry) Superblock {
	return Superblock{
		Magic:       Magic,
		Version:     FormatVersion,
		BlockSize:   uint32(g.BlockSize),
		TotalBlocks: uint32(g.TotalBlocks()),
		MaxFiles:    uint32(g.MaxFiles),
	}
}

// Encode serializes the superblock fields in fixed order, little-endian.
func (sb Superblock) Encode() []byte {
	p := make([]byte, superblockLen)
	binary.LittleEndian.PutUint32(p[0:], sb.Magic)
	binary.LittleEndian.PutUint32(p[4:], sb.Version)
	binary.LittleEndian.PutUint32(p[8:], sb.BlockSize)
	binary.LittleEndian.PutUint32(p[12:], sb.TotalBlocks)
	binary.LittleEndian.PutUint32(p[16:], sb.MaxFiles)
	return p
}

func decodeSuperblock(p []byte) Superblock {
	return Superblock{
		Magic:       binary.LittleEndian.Uint32(p[0:]),
		Version:     binary.LittleEndian.Uint32(p[4:]),
		BlockSize:   binary.LittleEndian.Uint32(p[8:]),
		TotalBlocks: binary.LittleEndian.Uint32(p[12:]),
		MaxFiles:    binary.LittleEndian.Uint32(p[16:]),
	}
}

func writeSuperblock(w io.WriterAt, sb Superblock) error {
	if _, err := w.WriteAt(sb.Encode(), 0); err != nil {
		return fmt.Errorf("write superblock: %w", err)
	}
	return nil
}

func readSuperblock(r io.ReaderAt) (Superblock, error) {
	p := make([]byte, superblockLen)
	if _, err := r.ReadAt(p, 0); err != nil {
		return Superblock{}, fmt.Errorf("read superblock: %w", err)
	}
	return decodeSuperblock(p), nil
}

// Check verifies that the superblock identifies a lightfs volume whose
// capacity parameters agree with the configured geometry.
func (sb Superblock) Check(g Geometry) error {
	if sb.Magic != Magic {
		return fmt.Errorf("%w: magic %#x", ErrInvalidVolume, sb.Magic)
	}
	if sb.Version != FormatVersion {
		return fmt.Errorf("unsupported volume version %d (want %d)", sb.Version, FormatVersion)
	}
	if int64(sb.BlockSize) != g.BlockSize || int(sb.TotalBlocks) != g.TotalBlocks() || int(sb.MaxFiles) != g.MaxFiles {
		return fmt.Errorf("volume geometry mismatch: volume has blockSize=%d totalBlocks=%d maxFiles=%d, configured blockSize=%d totalBlocks=%d maxFiles=%d",
			sb.BlockSize, sb.TotalBlocks, sb.MaxFiles, g.BlockSize, g.TotalBlocks(), g.MaxFiles)
	}
	return nil
}
