package lightfs_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/lightfs"
	"github.com/hupe1980/lightfs/fs"
)

func Example() {
	vol, err := lightfs.New("demo.fs",
		lightfs.WithFileSystem(fs.NewMemFS()),
		lightfs.WithGeometry(lightfs.Geometry{
			TotalSize:  16384 + 64*512,
			SystemSize: 16384,
			BlockSize:  512,
			MaxFiles:   16,
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := vol.Init(); err != nil {
		log.Fatal(err)
	}

	if err := vol.Write("greeting.txt", []byte("hello, lightfs")); err != nil {
		log.Fatal(err)
	}

	data, err := vol.Read("greeting.txt")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))

	infos, err := vol.List()
	if err != nil {
		log.Fatal(err)
	}
	for _, fi := range infos {
		fmt.Printf("%s: %d bytes in %d block(s)\n", fi.Name, fi.Size, fi.Blocks)
	}

	// Output:
	// hello, lightfs
	// greeting.txt: 14 bytes in 1 block(s)
}

func ExampleVolume_StorageInfo() {
	vol, err := lightfs.New("demo.fs",
		lightfs.WithFileSystem(fs.NewMemFS()),
		lightfs.WithGeometry(lightfs.Geometry{
			TotalSize:  16384 + 64*512,
			SystemSize: 16384,
			BlockSize:  512,
			MaxFiles:   16,
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := vol.Init(); err != nil {
		log.Fatal(err)
	}

	if err := vol.Write("a.bin", make([]byte, 1300)); err != nil {
		log.Fatal(err)
	}

	info, err := vol.StorageInfo()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("used %d of %d blocks\n", info.UsedBlocks, info.TotalBlocks)

	// Output:
	// used 3 of 64 blocks
}
