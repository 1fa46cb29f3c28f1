// Package table implements the fixed-size file-entry table of a lightfs volume.
//
// The table is a static array of MaxFiles records, each EntrySize bytes,
// located directly after the bitmap region. A record is addressed purely by
// its slot index; slots are never compacted or reordered. Deleting a file
// only clears the slot's validity flag (a tombstone), leaving the slot
// eligible for reuse.
package table

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"
)

const (
	// EntrySize is the fixed on-disk size of one file entry record.
	EntrySize = 512
	// MaxNameLen is the maximum encoded name length in bytes.
	MaxNameLen = 255
	// MaxBlockRefs is the maximum number of block indices per entry; together
	// with the block size it bounds the maximum file size.
	MaxBlockRefs = 16
)

// Field offsets within an entry record. Fields are little-endian and
// unaligned; short names and short block lists are zero-padded, with the
// explicit nameLen and blockCount fields deciding how much of the fixed
// space is meaningful.
const (
	offValid      = 0
	offNameLen    = 1
	offName       = 2
	offSize       = offName + MaxNameLen // 257
	offCreated    = offSize + 8          // 265
	offModified   = offCreated + 8       // 273
	offBlockCount = offModified + 8      // 281
	offBlocks     = offBlockCount + 4    // 285
)

var (
	// ErrTableFull is returned when every slot holds a valid entry.
	ErrTableFull = errors.New("file table is full")
	// ErrOutOfRange is returned for a slot index beyond the table capacity.
	ErrOutOfRange = errors.New("entry index out of range")
)

// Entry is the decoded form of one file entry record.
type Entry struct {
	Name       string
	Size       uint64
	Blocks     []uint32
	CreatedAt  time.Time
	ModifiedAt time.Time
	Valid      bool
}

// Encode serializes e into a fresh EntrySize-byte record.
func Encode(e Entry) ([]byte, error) {
	name := []byte(e.Name)
	if len(name) > MaxNameLen {
		return nil, fmt.Errorf("name length %d exceeds %d bytes", len(name), MaxNameLen)
	}
	if len(e.Blocks) > MaxBlockRefs {
		return nil, fmt.Errorf("block list length %d exceeds %d", len(e.Blocks), MaxBlockRefs)
	}

	p := make([]byte, EntrySize)
	if e.Valid {
		p[offValid] = 1
	}
	p[offNameLen] = byte(len(name))
	copy(p[offName:], name)
	binary.LittleEndian.PutUint64(p[offSize:], e.Size)
	binary.LittleEndian.PutUint64(p[offCreated:], math.Float64bits(unixSeconds(e.CreatedAt)))
	binary.LittleEndian.PutUint64(p[offModified:], math.Float64bits(unixSeconds(e.ModifiedAt)))
	binary.LittleEndian.PutUint32(p[offBlockCount:], uint32(len(e.Blocks)))
	for i, blk := range e.Blocks {
		binary.LittleEndian.PutUint32(p[offBlocks+i*4:], blk)
	}
	return p, nil
}

// Decode deserializes an EntrySize-byte record. Only the bytes covered by the
// stored nameLen and blockCount fields are interpreted; padding is ignored.
func Decode(p []byte) (Entry, error) {
	if len(p) < EntrySize {
		return Entry{}, fmt.Errorf("entry record too short: %d bytes", len(p))
	}

	e := Entry{Valid: p[offValid] != 0}

	nameLen := int(p[offNameLen])
	e.Name = string(p[offName : offName+nameLen])

	e.Size = binary.LittleEndian.Uint64(p[offSize:])
	e.CreatedAt = fromUnixSeconds(math.Float64frombits(binary.LittleEndian.Uint64(p[offCreated:])))
	e.ModifiedAt = fromUnixSeconds(math.Float64frombits(binary.LittleEndian.Uint64(p[offModified:])))

	blockCount := int(binary.LittleEndian.Uint32(p[offBlockCount:]))
	if blockCount > MaxBlockRefs {
		return Entry{}, fmt.Errorf("corrupt entry: block count %d exceeds %d", blockCount, MaxBlockRefs)
	}
	if blockCount > 0 {
		e.Blocks = make([]uint32, blockCount)
		for i := range e.Blocks {
			e.Blocks[i] = binary.LittleEndian.Uint32(p[offBlocks+i*4:])
		}
	}
	return e, nil
}

// device is the random-access handle the table operates through.
type device interface {
	io.ReaderAt
	io.WriterAt
}

// Table provides slot-addressed access to the on-disk entry records.
type Table struct {
	d        device
	off      int64
	capacity int
}

// New creates a table view over the region at off holding capacity slots.
func New(d device, off int64, capacity int) *Table {
	return &Table{d: d, off: off, capacity: capacity}
}

// Capacity returns the number of slots.
func (t *Table) Capacity() int { return t.capacity }

func (t *Table) entryOffset(index int) int64 {
	return t.off + int64(index)*EntrySize
}

// ReadEntry decodes the record in the given slot. Tombstoned slots decode
// with Valid == false.
func (t *Table) ReadEntry(index int) (Entry, error) {
	if index < 0 || index >= t.capacity {
		return Entry{}, fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	p := make([]byte, EntrySize)
	if _, err := t.d.ReadAt(p, t.entryOffset(index)); err != nil {
		return Entry{}, fmt.Errorf("read entry %d: %w", index, err)
	}
	return Decode(p)
}

// WriteEntry encodes e into the given slot.
func (t *Table) WriteEntry(index int, e Entry) error {
	if index < 0 || index >= t.capacity {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	p, err := Encode(e)
	if err != nil {
		return err
	}
	if _, err := t.d.WriteAt(p, t.entryOffset(index)); err != nil {
		return fmt.Errorf("write entry %d: %w", index, err)
	}
	return nil
}

// FindByName scans all slots for the first valid entry whose name matches
// exactly. A miss is reported via ok == false, not an error.
func (t *Table) FindByName(name string) (index int, e Entry, ok bool, err error) {
	for i := 0; i < t.capacity; i++ {
		e, err := t.ReadEntry(i)
		if err != nil {
			return 0, Entry{}, false, err
		}
		if e.Valid && e.Name == name {
			return i, e, true, nil
		}
	}
	return 0, Entry{}, false, nil
}

// FindFreeSlot scans for the first slot without a valid entry.
func (t *Table) FindFreeSlot() (int, error) {
	for i := 0; i < t.capacity; i++ {
		e, err := t.ReadEntry(i)
		if err != nil {
			return 0, err
		}
		if !e.Valid {
			return i, nil
		}
	}
	return 0, ErrTableFull
}

// Timestamps are stored as float64 seconds since the Unix epoch.

func unixSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / 1e9
}

func fromUnixSeconds(s float64) time.Time {
	if s == 0 {
		return time.Time{}
	}
	return time.Unix(0, int64(s*1e9))
}
