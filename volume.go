package lightfs

import (
	"fmt"
	"os"
	"time"

	"github.com/hupe1980/lightfs/fs"
	"github.com/hupe1980/lightfs/internal/bitmap"
	"github.com/hupe1980/lightfs/internal/block"
	"github.com/hupe1980/lightfs/internal/table"
)

const (
	// MaxNameLength is the maximum encoded name length in bytes.
	MaxNameLength = table.MaxNameLen
	// MaxFileBlocks is the maximum number of blocks per file.
	MaxFileBlocks = table.MaxBlockRefs
)

// FileInfo is the descriptive projection of one valid entry.
type FileInfo struct {
	Name       string
	Size       uint64
	Blocks     int
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// StorageInfo reports block-level storage accounting.
type StorageInfo struct {
	Used        int64
	Free        int64
	UsedBlocks  int
	TotalBlocks int
}

// Volume is a block-based file store emulated inside a single fixed-size
// backing file. It exposes a flat namespace of named byte blobs with a
// bounded per-file size.
//
// Every public operation opens the backing file, performs its internal
// sequence of reads and writes synchronously, and closes the file before
// returning; no handle is held across operations. Operations are atomic only
// with respect to their own internal sequence: a write or delete touches the
// bitmap and the entry table as independent writes with no rollback, so an
// interruption between them leaves the two regions inconsistent. Callers
// needing crash safety must layer it on top.
//
// Volume assumes a single caller owning the backing file; concurrent use is
// undefined behavior and must be prevented externally.
type Volume struct {
	path   string
	fsys   fs.FileSystem
	geo    Geometry
	logger *Logger
}

// New creates a handle for the volume stored at path. It does not touch the
// backing file; call Init to create one, or any operation to use an existing
// one.
func New(path string, optFns ...Option) (*Volume, error) {
	opts := options{
		logger:   NoopLogger(),
		fsys:     fs.Default,
		geometry: DefaultGeometry(),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if err := opts.geometry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid geometry: %w", err)
	}

	return &Volume{
		path:   path,
		fsys:   opts.fsys,
		geo:    opts.geometry,
		logger: opts.logger.WithVolume(path),
	}, nil
}

// Path returns the path of the backing file.
func (v *Volume) Path() string { return v.path }

// Geometry returns the configured volume geometry.
func (v *Volume) Geometry() Geometry { return v.geo }

// Initialized reports whether the backing file exists.
func (v *Volume) Initialized() bool {
	_, err := v.fsys.Stat(v.path)
	return err == nil
}

// Init creates and formats the backing file: the file is sized to the full
// volume and zero-filled, the superblock is written at offset 0 and the
// bitmap region is cleared. It fails with ErrAlreadyInitialized when the
// backing file already exists.
func (v *Volume) Init() error {
	if v.Initialized() {
		return ErrAlreadyInitialized
	}

	f, err := v.fsys.OpenFile(v.path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create volume %s: %w", v.path, err)
	}
	defer f.Close()

	if err := f.Truncate(v.geo.TotalSize); err != nil {
		return fmt.Errorf("zero-fill volume: %w", err)
	}
	if err := writeSuperblock(f, NewSuperblock(v.geo)); err != nil {
		return err
	}
	if err := bitmap.New(v.geo.TotalBlocks()).Flush(f, v.geo.BitmapOffset()); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync volume: %w", err)
	}

	v.logger.Info("volume initialized",
		"total_size", v.geo.TotalSize,
		"block_size", v.geo.BlockSize,
		"blocks", v.geo.TotalBlocks(),
		"max_files", v.geo.MaxFiles,
	)
	return nil
}

// open opens the backing file for one operation and validates the superblock.
func (v *Volume) open() (fs.File, error) {
	f, err := v.fsys.OpenFile(v.path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open volume %s: %w", v.path, err)
	}
	sb, err := readSuperblock(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := sb.Check(v.geo); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (v *Volume) table(f fs.File) *table.Table {
	return table.New(f, v.geo.TableOffset(), v.geo.MaxFiles)
}

func (v *Volume) blocks(f fs.File) *block.Store {
	return block.NewStore(f, v.geo.DataOffset(), v.geo.BlockSize)
}

func (v *Volume) loadBitmap(f fs.File) (*bitmap.Bitmap, error) {
	return bitmap.Load(f, v.geo.BitmapOffset(), v.geo.TotalBlocks())
}

func checkName(name string) error {
	if len(name) > MaxNameLength {
		return &ErrNameTooLong{Length: len(name)}
	}
	return nil
}

// Create allocates a fresh or recycled entry slot for name and writes a
// zero-size entry with current timestamps. It fails with ErrAlreadyExists
// when a valid entry already carries the name.
func (v *Volume) Create(name string) (err error) {
	defer func() { v.logger.LogCreate(name, err) }()

	if err := checkName(name); err != nil {
		return err
	}

	f, err := v.open()
	if err != nil {
		return err
	}
	defer f.Close()

	tbl := v.table(f)
	if _, _, ok, err := tbl.FindByName(name); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}

	index, err := tbl.FindFreeSlot()
	if err != nil {
		return err
	}

	now := time.Now()
	return tbl.WriteEntry(index, table.Entry{
		Name:       name,
		CreatedAt:  now,
		ModifiedAt: now,
		Valid:      true,
	})
}

// Rename changes the name of an existing entry in place; size, block list and
// creation time are untouched.
func (v *Volume) Rename(oldName, newName string) (err error) {
	defer func() { v.logger.LogRename(oldName, newName, err) }()

	if err := checkName(newName); err != nil {
		return err
	}

	f, err := v.open()
	if err != nil {
		return err
	}
	defer f.Close()

	tbl := v.table(f)
	if _, _, ok, err := tbl.FindByName(newName); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, newName)
	}

	index, e, ok, err := tbl.FindByName(oldName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}

	e.Name = newName
	e.ModifiedAt = time.Now()
	return tbl.WriteEntry(index, e)
}

// Delete releases every block of the entry in the bitmap, then tombstones the
// entry. The two writes are not atomic as a pair; see the Volume doc.
func (v *Volume) Delete(name string) (err error) {
	released := 0
	defer func() { v.logger.LogDelete(name, released, err) }()

	f, err := v.open()
	if err != nil {
		return err
	}
	defer f.Close()

	tbl := v.table(f)
	index, e, ok, err := tbl.FindByName(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	bm, err := v.loadBitmap(f)
	if err != nil {
		return err
	}
	bm.Release(e.Blocks)
	if err := bm.Flush(f, v.geo.BitmapOffset()); err != nil {
		return err
	}
	released = len(e.Blocks)

	e.Valid = false
	return tbl.WriteEntry(index, e)
}

// List returns the projection of every valid entry in slot order. Slot order
// is not insertion order: deletions leave tombstoned slots that later
// creations reuse.
func (v *Volume) List() ([]FileInfo, error) {
	f, err := v.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tbl := v.table(f)
	var infos []FileInfo
	for i := 0; i < tbl.Capacity(); i++ {
		e, err := tbl.ReadEntry(i)
		if err != nil {
			return nil, err
		}
		if e.Valid {
			infos = append(infos, fileInfo(e))
		}
	}
	return infos, nil
}

// Stat returns the projection of the named entry.
func (v *Volume) Stat(name string) (FileInfo, error) {
	f, err := v.open()
	if err != nil {
		return FileInfo{}, err
	}
	defer f.Close()

	_, e, ok, err := v.table(f).FindByName(name)
	if err != nil {
		return FileInfo{}, err
	}
	if !ok {
		return FileInfo{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return fileInfo(e), nil
}

// Read returns the full content of the named file: the entry's blocks
// concatenated in list order, truncated to the entry's byte size.
func (v *Volume) Read(name string) (data []byte, err error) {
	defer func() { v.logger.LogRead(name, len(data), err) }()

	f, err := v.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, e, ok, err := v.table(f).FindByName(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	bs := v.blocks(f)
	content := make([]byte, 0, int64(len(e.Blocks))*v.geo.BlockSize)
	for _, index := range e.Blocks {
		p, err := bs.Read(index)
		if err != nil {
			return nil, err
		}
		content = append(content, p...)
	}

	if uint64(len(content)) < e.Size {
		return nil, fmt.Errorf("corrupt entry %s: size %d exceeds block list capacity %d", name, e.Size, len(content))
	}
	return content[:e.Size], nil
}

// Write stores data under name, creating the entry when it does not exist
// (upsert). The entry's current blocks are released, fresh blocks are
// allocated first-fit, data is written across them and the entry record is
// updated. Release and allocation are separate bitmap writes: when
// allocation fails the former blocks are already freed and the entry record
// is stale relative to the bitmap. See the Volume doc.
func (v *Volume) Write(name string, data []byte) (err error) {
	blocksWritten := 0
	defer func() { v.logger.LogWrite(name, len(data), blocksWritten, err) }()

	if err := checkName(name); err != nil {
		return err
	}
	if int64(len(data)) > v.geo.MaxFileSize() {
		return &ErrFileTooLarge{Size: int64(len(data)), Max: v.geo.MaxFileSize()}
	}

	f, err := v.open()
	if err != nil {
		return err
	}
	defer f.Close()

	tbl := v.table(f)
	index, e, ok, err := tbl.FindByName(name)
	if err != nil {
		return err
	}
	now := time.Now()
	if !ok {
		index, err = tbl.FindFreeSlot()
		if err != nil {
			return err
		}
		e = table.Entry{Name: name, CreatedAt: now, Valid: true}
	}

	bm, err := v.loadBitmap(f)
	if err != nil {
		return err
	}
	if len(e.Blocks) > 0 {
		bm.Release(e.Blocks)
		if err := bm.Flush(f, v.geo.BitmapOffset()); err != nil {
			return err
		}
	}

	needed := int((int64(len(data)) + v.geo.BlockSize - 1) / v.geo.BlockSize)
	blocks, err := bm.FindFree(needed)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		bm.Set(b)
	}
	if err := bm.Flush(f, v.geo.BitmapOffset()); err != nil {
		return err
	}

	bs := v.blocks(f)
	for i, index := range blocks {
		start := int64(i) * v.geo.BlockSize
		end := min(start+v.geo.BlockSize, int64(len(data)))
		if err := bs.Write(index, data[start:end]); err != nil {
			return err
		}
	}
	blocksWritten = len(blocks)

	e.Size = uint64(len(data))
	e.Blocks = blocks
	e.ModifiedAt = now
	return tbl.WriteEntry(index, e)
}

// StorageInfo counts set bits across the bitmap and reports block-level
// usage of the data area.
func (v *Volume) StorageInfo() (StorageInfo, error) {
	f, err := v.open()
	if err != nil {
		return StorageInfo{}, err
	}
	defer f.Close()

	bm, err := v.loadBitmap(f)
	if err != nil {
		return StorageInfo{}, err
	}

	used := int64(bm.UsedCount()) * v.geo.BlockSize
	return StorageInfo{
		Used:        used,
		Free:        v.geo.DataSize() - used,
		UsedBlocks:  bm.UsedCount(),
		TotalBlocks: bm.Len(),
	}, nil
}

// Import reads the external file's bytes through the host filesystem and
// writes them under name. The volume itself has no knowledge of external
// path semantics.
func (v *Volume) Import(externalPath, name string) error {
	fi, err := v.fsys.Stat(externalPath)
	if err != nil {
		return fmt.Errorf("stat external file: %w", err)
	}
	if fi.Size() > v.geo.MaxFileSize() {
		return &ErrFileTooLarge{Size: fi.Size(), Max: v.geo.MaxFileSize()}
	}

	data, err := v.fsys.ReadFile(externalPath)
	if err != nil {
		return fmt.Errorf("read external file: %w", err)
	}
	return v.Write(name, data)
}

// Export reads the named file and writes its bytes to the external path.
func (v *Volume) Export(name, externalPath string) error {
	data, err := v.Read(name)
	if err != nil {
		return err
	}
	if err := v.fsys.WriteFile(externalPath, data, 0o644); err != nil {
		return fmt.Errorf("write external file: %w", err)
	}
	return nil
}

func fileInfo(e table.Entry) FileInfo {
	return FileInfo{
		Name:       e.Name,
		Size:       e.Size,
		Blocks:     len(e.Blocks),
		CreatedAt:  e.CreatedAt,
		ModifiedAt: e.ModifiedAt,
	}
}
