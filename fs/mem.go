package fs

import (
	"io"
	"os"
	"path"
	"sync"
	"time"
)

// MemFS is an in-memory FileSystem. It backs throwaway volumes in tests and
// examples without touching the host disk.
type MemFS struct {
	mu    sync.Mutex
	files map[string]*memFile
}

// NewMemFS creates an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string]*memFile)}
}

func (m *MemFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[name]
	if ok && flag&os.O_CREATE != 0 && flag&os.O_EXCL != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrExist}
	}
	if !ok {
		if flag&os.O_CREATE == 0 {
			return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
		}
		f = &memFile{name: name, mod: time.Now()}
		m.files[name] = f
	}
	if flag&os.O_TRUNC != 0 {
		f.truncate(0)
	}
	return &memHandle{f: f}, nil
}

func (m *MemFS) Stat(name string) (os.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[name]
	if !ok {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrNotExist}
	}
	return f.info(), nil
}

func (m *MemFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[name]; !ok {
		return &os.PathError{Op: "remove", Path: name, Err: os.ErrNotExist}
	}
	delete(m.files, name)
	return nil
}

func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[name]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]byte, len(f.data))
	copy(out, f.data)
	return out, nil
}

func (m *MemFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[name]
	if !ok {
		f = &memFile{name: name}
		m.files[name] = f
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = make([]byte, len(data))
	copy(f.data, data)
	f.mod = time.Now()
	return nil
}

type memFile struct {
	mu   sync.Mutex
	name string
	data []byte
	mod  time.Time
}

func (f *memFile) truncate(size int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case size <= int64(len(f.data)):
		f.data = f.data[:size]
	default:
		grown := make([]byte, size)
		copy(grown, f.data)
		f.data = grown
	}
	f.mod = time.Now()
}

func (f *memFile) info() os.FileInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return memFileInfo{name: path.Base(f.name), size: int64(len(f.data)), mod: f.mod}
}

// memHandle is an open handle onto a memFile.
type memHandle struct {
	f *memFile
}

func (h *memHandle) ReadAt(p []byte, off int64) (int, error) {
	h.f.mu.Lock()
	defer h.f.mu.Unlock()

	if off < 0 {
		return 0, &os.PathError{Op: "readat", Path: h.f.name, Err: os.ErrInvalid}
	}
	if off >= int64(len(h.f.data)) {
		return 0, io.EOF
	}
	n := copy(p, h.f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (h *memHandle) WriteAt(p []byte, off int64) (int, error) {
	h.f.mu.Lock()
	defer h.f.mu.Unlock()

	if off < 0 {
		return 0, &os.PathError{Op: "writeat", Path: h.f.name, Err: os.ErrInvalid}
	}
	if end := off + int64(len(p)); end > int64(len(h.f.data)) {
		grown := make([]byte, end)
		copy(grown, h.f.data)
		h.f.data = grown
	}
	copy(h.f.data[off:], p)
	h.f.mod = time.Now()
	return len(p), nil
}

func (h *memHandle) Truncate(size int64) error {
	h.f.truncate(size)
	return nil
}

func (h *memHandle) Sync() error  { return nil }
func (h *memHandle) Close() error { return nil }

func (h *memHandle) Stat() (os.FileInfo, error) { return h.f.info(), nil }

type memFileInfo struct {
	name string
	size int64
	mod  time.Time
}

func (fi memFileInfo) Name() string       { return fi.name }
func (fi memFileInfo) Size() int64        { return fi.size }
func (fi memFileInfo) Mode() os.FileMode  { return 0o644 }
func (fi memFileInfo) ModTime() time.Time { return fi.mod }
func (fi memFileInfo) IsDir() bool        { return false }
func (fi memFileInfo) Sys() any           { return nil }
