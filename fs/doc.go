// Package fs provides the filesystem abstraction behind a lightfs volume.
//
// The package defines two key interfaces:
//
//   - [File]: an open random-access file with offset-based read/write
//   - [FileSystem]: the operations lightfs needs from a host filesystem
//
// # Implementations
//
//   - [LocalFS]: production implementation using the standard os package
//   - [MemFS]: in-memory implementation for tests and throwaway volumes
//   - [FaultyFS]: test utility for fault injection (simulate I/O errors)
//
// Production code should use fs.Default (which is [LocalFS]).
//
// # Design Notes
//
// This package intentionally does NOT include context.Context parameters.
// A volume operation is a short synchronous sequence of local reads and
// writes; cancellation has no meaningful point of application.
package fs
