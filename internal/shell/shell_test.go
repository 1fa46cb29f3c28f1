package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lightfs"
	"github.com/hupe1980/lightfs/fs"
)

func newTestVolume(t *testing.T) (*lightfs.Volume, *fs.MemFS) {
	t.Helper()

	memfs := fs.NewMemFS()
	vol, err := lightfs.New("test.fs",
		lightfs.WithFileSystem(memfs),
		lightfs.WithGeometry(lightfs.Geometry{
			TotalSize:  16384 + 64*512,
			SystemSize: 16384,
			BlockSize:  512,
			MaxFiles:   16,
		}),
	)
	require.NoError(t, err)
	require.NoError(t, vol.Init())

	return vol, memfs
}

// runScript feeds a scripted session into a fresh shell and returns its output.
func runScript(t *testing.T, vol *lightfs.Volume, lines ...string) string {
	t.Helper()

	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	require.NoError(t, New(vol, in, &out).Run())

	return out.String()
}

func TestShell_CreateListDelete(t *testing.T) {
	vol, _ := newTestVolume(t)

	out := runScript(t, vol,
		"create notes.txt",
		"list",
		"delete notes.txt",
		"list",
		"exit",
	)

	assert.Contains(t, out, "file notes.txt created")
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "file notes.txt deleted")
	assert.Contains(t, out, "volume is empty")
	assert.Contains(t, out, "Bye!")
}

func TestShell_WriteAndCat(t *testing.T) {
	vol, _ := newTestVolume(t)

	out := runScript(t, vol,
		"write notes.txt",
		"hello",
		"world",
		".end",
		"cat notes.txt",
		"exit",
	)

	assert.Contains(t, out, "content written to notes.txt")
	assert.Contains(t, out, "hello\nworld\n")

	data, err := vol.Read("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld", string(data))
}

func TestShell_Rename(t *testing.T) {
	vol, _ := newTestVolume(t)
	require.NoError(t, vol.Create("a.txt"))

	out := runScript(t, vol,
		"rename a.txt b.txt",
		"exit",
	)
	assert.Contains(t, out, "file a.txt renamed to b.txt")

	_, err := vol.Stat("b.txt")
	require.NoError(t, err)
}

func TestShell_ImportExport(t *testing.T) {
	vol, memfs := newTestVolume(t)
	require.NoError(t, memfs.WriteFile("ext.txt", []byte("payload"), 0o644))

	out := runScript(t, vol,
		"import ext.txt inside.txt",
		"export inside.txt copy.txt",
		"exit",
	)

	assert.Contains(t, out, "file ext.txt imported as inside.txt")
	assert.Contains(t, out, "file inside.txt exported to copy.txt")

	got, err := memfs.ReadFile("copy.txt")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))
}

func TestShell_Info(t *testing.T) {
	vol, _ := newTestVolume(t)
	require.NoError(t, vol.Write("a", make([]byte, 600))) // 2 blocks

	out := runScript(t, vol, "info", "exit")

	assert.Contains(t, out, "(2 of 64 blocks)")
	assert.Contains(t, out, "used:")
	assert.Contains(t, out, "free:")
}

func TestShell_Errors(t *testing.T) {
	vol, _ := newTestVolume(t)

	t.Run("unknown command", func(t *testing.T) {
		out := runScript(t, vol, "frobnicate", "exit")
		assert.Contains(t, out, "unknown command: frobnicate")
	})

	t.Run("bad arguments show usage", func(t *testing.T) {
		out := runScript(t, vol, "rename only-one", "exit")
		assert.Contains(t, out, "usage: rename <old name> <new name>")
	})

	t.Run("volume error is reported", func(t *testing.T) {
		out := runScript(t, vol, "cat nope.txt", "exit")
		assert.Contains(t, out, "cat failed:")
	})

	t.Run("blank lines are ignored", func(t *testing.T) {
		out := runScript(t, vol, "", "   ", "exit")
		assert.Contains(t, out, "Bye!")
	})
}

func TestShell_Help(t *testing.T) {
	vol, _ := newTestVolume(t)

	t.Run("overview", func(t *testing.T) {
		out := runScript(t, vol, "help", "exit")
		assert.Contains(t, out, "Available commands:")
		for _, name := range []string{"create", "rename", "delete", "list", "cat", "write", "import", "export", "info", "help", "exit"} {
			assert.Contains(t, out, name)
		}
	})

	t.Run("single command", func(t *testing.T) {
		out := runScript(t, vol, "? export", "exit")
		assert.Contains(t, out, "export - export a file to an external path")
		assert.Contains(t, out, "usage: export <name> <external path>")
	})

	t.Run("unknown topic", func(t *testing.T) {
		out := runScript(t, vol, "help frobnicate", "exit")
		assert.Contains(t, out, "unknown command: frobnicate")
	})
}

func TestShell_EndOfInput(t *testing.T) {
	vol, _ := newTestVolume(t)

	var out bytes.Buffer
	require.NoError(t, New(vol, strings.NewReader("list\n"), &out).Run())
	assert.Contains(t, out.String(), "volume is empty")
}
