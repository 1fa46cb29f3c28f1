package table

import (
	"encoding/binary"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lightfs/fs"
)

func testEntry() Entry {
	return Entry{
		Name:       "report.txt",
		Size:       2_500_000,
		Blocks:     []uint32{7, 2, 19},
		CreatedAt:  time.Date(2026, 3, 14, 9, 26, 53, 589_793_000, time.UTC),
		ModifiedAt: time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
		Valid:      true,
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	e := testEntry()

	p, err := Encode(e)
	require.NoError(t, err)
	require.Len(t, p, EntrySize)

	got, err := Decode(p)
	require.NoError(t, err)

	assert.Equal(t, e.Name, got.Name)
	assert.Equal(t, e.Size, got.Size)
	assert.Equal(t, e.Blocks, got.Blocks)
	assert.True(t, got.Valid)
	// Timestamps survive the float64-seconds representation to sub-millisecond
	// precision.
	assert.WithinDuration(t, e.CreatedAt, got.CreatedAt, time.Millisecond)
	assert.WithinDuration(t, e.ModifiedAt, got.ModifiedAt, time.Millisecond)
}

func TestEncode_FieldOffsets(t *testing.T) {
	e := testEntry()

	p, err := Encode(e)
	require.NoError(t, err)

	assert.Equal(t, byte(1), p[0])                // validity flag
	assert.Equal(t, byte(len(e.Name)), p[1])      // name length
	assert.Equal(t, []byte(e.Name), p[2:2+len(e.Name)])
	assert.Equal(t, e.Size, binary.LittleEndian.Uint64(p[257:]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(p[281:])) // block count
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(p[285:]))
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(p[289:]))
	assert.Equal(t, uint32(19), binary.LittleEndian.Uint32(p[293:]))

	// Name field padding and the reserved tail stay zero.
	for _, i := range []int{2 + len(e.Name), 256, offBlocks + 3*4, EntrySize - 1} {
		assert.Zero(t, p[i], "byte %d", i)
	}
}

func TestEncode_Bounds(t *testing.T) {
	t.Run("name too long", func(t *testing.T) {
		e := testEntry()
		e.Name = string(make([]byte, MaxNameLen+1))
		_, err := Encode(e)
		require.Error(t, err)
	})

	t.Run("too many blocks", func(t *testing.T) {
		e := testEntry()
		e.Blocks = make([]uint32, MaxBlockRefs+1)
		_, err := Encode(e)
		require.Error(t, err)
	})

	t.Run("maximum name and blocks", func(t *testing.T) {
		e := testEntry()
		e.Name = string(bytesOf('x', MaxNameLen))
		e.Blocks = make([]uint32, MaxBlockRefs)
		p, err := Encode(e)
		require.NoError(t, err)

		got, err := Decode(p)
		require.NoError(t, err)
		assert.Equal(t, e.Name, got.Name)
		assert.Len(t, got.Blocks, MaxBlockRefs)
	})
}

func TestDecode_Corrupt(t *testing.T) {
	t.Run("short record", func(t *testing.T) {
		_, err := Decode(make([]byte, EntrySize-1))
		require.Error(t, err)
	})

	t.Run("block count beyond bound", func(t *testing.T) {
		p, err := Encode(testEntry())
		require.NoError(t, err)
		binary.LittleEndian.PutUint32(p[offBlockCount:], MaxBlockRefs+1)
		_, err = Decode(p)
		require.Error(t, err)
	})
}

func newTestTable(t *testing.T, capacity int) *Table {
	t.Helper()

	f, err := fs.NewMemFS().OpenFile("vol", os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	require.NoError(t, f.Truncate(int64(capacity)*EntrySize))

	return New(f, 0, capacity)
}

func TestTable_ReadWriteEntry(t *testing.T) {
	tbl := newTestTable(t, 4)

	e := testEntry()
	require.NoError(t, tbl.WriteEntry(2, e))

	got, err := tbl.ReadEntry(2)
	require.NoError(t, err)
	assert.Equal(t, e.Name, got.Name)
	assert.True(t, got.Valid)

	// Untouched slots decode as invalid.
	got, err = tbl.ReadEntry(0)
	require.NoError(t, err)
	assert.False(t, got.Valid)
}

func TestTable_OutOfRange(t *testing.T) {
	tbl := newTestTable(t, 4)

	_, err := tbl.ReadEntry(4)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = tbl.ReadEntry(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, tbl.WriteEntry(4, testEntry()), ErrOutOfRange)
}

func TestTable_FindByName(t *testing.T) {
	tbl := newTestTable(t, 4)

	e := testEntry()
	require.NoError(t, tbl.WriteEntry(1, e))

	index, got, ok, err := tbl.FindByName(e.Name)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, index)
	assert.Equal(t, e.Blocks, got.Blocks)

	// Tombstoned entries do not match.
	e.Valid = false
	require.NoError(t, tbl.WriteEntry(1, e))
	_, _, ok, err = tbl.FindByName(e.Name)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTable_FindFreeSlot(t *testing.T) {
	tbl := newTestTable(t, 3)

	index, err := tbl.FindFreeSlot()
	require.NoError(t, err)
	assert.Equal(t, 0, index)

	e := testEntry()
	for i := 0; i < 3; i++ {
		require.NoError(t, tbl.WriteEntry(i, e))
	}
	_, err = tbl.FindFreeSlot()
	require.ErrorIs(t, err, ErrTableFull)

	// A tombstone frees its slot for reuse.
	e.Valid = false
	require.NoError(t, tbl.WriteEntry(1, e))
	index, err = tbl.FindFreeSlot()
	require.NoError(t, err)
	assert.Equal(t, 1, index)
}

func bytesOf(b byte, n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = b
	}
	return p
}
