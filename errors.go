package lightfs

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lightfs/internal/bitmap"
	"github.com/hupe1980/lightfs/internal/table"
)

var (
	// ErrNotFound is returned when no valid entry carries the requested name.
	ErrNotFound = errors.New("file not found")

	// ErrAlreadyExists is returned when a valid entry already carries the
	// target name of a create or rename.
	ErrAlreadyExists = errors.New("file already exists")

	// ErrAlreadyInitialized is returned by Init when the backing file exists.
	ErrAlreadyInitialized = errors.New("volume already initialized")

	// ErrInvalidVolume is returned when the backing file does not carry the
	// lightfs magic.
	ErrInvalidVolume = errors.New("not a lightfs volume")

	// ErrVolumeFull is returned when every entry slot holds a valid entry.
	ErrVolumeFull = table.ErrTableFull

	// ErrInsufficientSpace is returned when fewer free blocks remain than a
	// write needs.
	ErrInsufficientSpace = bitmap.ErrInsufficientSpace
)

// ErrNameTooLong indicates a name whose encoding exceeds the fixed name field.
type ErrNameTooLong struct {
	Length int
}

func (e *ErrNameTooLong) Error() string {
	return fmt.Sprintf("name length %d exceeds %d bytes", e.Length, MaxNameLength)
}

// ErrFileTooLarge indicates content beyond the block-count-bound file size
// ceiling.
type ErrFileTooLarge struct {
	Size int64
	Max  int64
}

func (e *ErrFileTooLarge) Error() string {
	return fmt.Sprintf("content size %d exceeds maximum file size %d", e.Size, e.Max)
}
