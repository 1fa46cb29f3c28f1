package lightfs

import (
	"github.com/hupe1980/lightfs/fs"
)

type options struct {
	logger   *Logger
	fsys     fs.FileSystem
	geometry Geometry
}

// Option configures Volume construction.
type Option func(*options)

// WithLogger configures the logger used by volume operations.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithFileSystem injects the filesystem that holds the backing file and the
// external files touched by import/export.
//
// If nil is passed, fs.Default is used. Pass an [fs.MemFS] for a purely
// in-memory volume.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fsys = fsys
	}
}

// WithGeometry overrides the default volume geometry. The geometry must
// describe the same layout the volume was initialized with; opening a volume
// under a different geometry fails the superblock check.
func WithGeometry(g Geometry) Option {
	return func(o *options) {
		o.geometry = g
	}
}
