// Package block performs whole-block reads and writes against the data area
// of a lightfs volume.
package block

import (
	"fmt"
	"io"
)

// device is the random-access handle the store operates through.
type device interface {
	io.ReaderAt
	io.WriterAt
}

// Store maps logical block indices onto byte ranges of the data area.
type Store struct {
	d         device
	dataOff   int64
	blockSize int64
}

// NewStore creates a block store over the data area starting at dataOff.
func NewStore(d device, dataOff, blockSize int64) *Store {
	return &Store{d: d, dataOff: dataOff, blockSize: blockSize}
}

func (s *Store) offset(index uint32) int64 {
	return s.dataOff + int64(index)*s.blockSize
}

// Read returns exactly one block's worth of bytes.
func (s *Store) Read(index uint32) ([]byte, error) {
	p := make([]byte, s.blockSize)
	if _, err := s.d.ReadAt(p, s.offset(index)); err != nil {
		return nil, fmt.Errorf("read block %d: %w", index, err)
	}
	return p, nil
}

// Write stores p into the given block. When p is shorter than one block the
// remainder is zero-filled, so stale bytes from a previous occupant of the
// physical block never survive.
func (s *Store) Write(index uint32, p []byte) error {
	if int64(len(p)) > s.blockSize {
		return fmt.Errorf("content length %d exceeds block size %d", len(p), s.blockSize)
	}
	buf := make([]byte, s.blockSize)
	copy(buf, p)
	if _, err := s.d.WriteAt(buf, s.offset(index)); err != nil {
		return fmt.Errorf("write block %d: %w", index, err)
	}
	return nil
}
