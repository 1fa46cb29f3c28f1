// Package lightfs emulates a block-based file storage volume inside a single
// fixed-size backing file.
//
// A volume exposes a flat namespace of named byte blobs with a bounded
// per-file size. It is aimed at callers needing a minimal, self-contained
// file store without relying on a host filesystem's own file-per-object
// abstraction.
//
// # Quick Start
//
//	vol, err := lightfs.New("light.fs")
//	if err != nil {
//	    panic(err)
//	}
//	if !vol.Initialized() {
//	    if err := vol.Init(); err != nil {
//	        panic(err)
//	    }
//	}
//
//	_ = vol.Write("greeting.txt", []byte("hello"))
//	data, _ := vol.Read("greeting.txt")
//
// # On-Disk Layout
//
// All offsets are relative to the start of the backing file:
//
//	Superblock      offset 0                 4096 bytes (20 meaningful)
//	Bitmap          offset 4096              ceil(totalBlocks/8) bytes
//	Entry table     end of bitmap            maxFiles x 512 bytes
//	Data area       fixed system boundary    totalBlocks x blockSize bytes
//
// The data area starts at the fixed system-area boundary regardless of the
// actual metadata size; the gap, if any, is unused padding. The reference
// sizing is a 256 MiB volume with a 56 MiB system area, 1 MiB blocks, 1024
// entry slots and a 16 MiB per-file ceiling (16 block references per entry).
// See [Geometry] to configure other sizings.
//
// # Guarantees and Non-Guarantees
//
// Operations are atomic only with respect to their own internal write
// sequence. Rewriting an existing file releases its current blocks before
// allocating new ones, so a rewrite that fails on allocation leaves the old
// blocks freed while the entry record still lists them. There is NO crash
// safety: a write or delete updates the
// bitmap and the entry table as independent writes with no rollback or
// journal, and an interruption between them leaves the on-disk regions
// inconsistent. There is NO locking: a volume assumes one caller owning the
// backing file; concurrent use from multiple goroutines or processes is
// undefined behavior.
//
// Directory hierarchy, compression and contiguous allocation are out of
// scope. Block allocation is first-fit over the bitmap and a file's block
// list need not be physically sequential.
package lightfs
