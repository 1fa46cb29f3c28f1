// Package shell implements the interactive command interpreter for a lightfs
// volume. It owns all usage and help text; every command maps onto exactly
// one volume operation and renders its result or error as text.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/lightfs"
)

// errUsage signals that a handler received malformed arguments; Run responds
// with the command's usage line.
var errUsage = errors.New("usage")

type command struct {
	name  string
	brief string
	usage string
	run   func(s *Shell, args []string) error
}

// commands in help order.
var commands = []command{
	{
		name:  "create",
		brief: "create a new empty file",
		usage: "create <name>",
		run:   (*Shell).cmdCreate,
	},
	{
		name:  "rename",
		brief: "rename a file",
		usage: "rename <old name> <new name>",
		run:   (*Shell).cmdRename,
	},
	{
		name:  "delete",
		brief: "delete a file",
		usage: "delete <name>",
		run:   (*Shell).cmdDelete,
	},
	{
		name:  "list",
		brief: "list all files",
		usage: "list",
		run:   (*Shell).cmdList,
	},
	{
		name:  "cat",
		brief: "print a file's content",
		usage: "cat <name>",
		run:   (*Shell).cmdCat,
	},
	{
		name:  "write",
		brief: "write text lines to a file",
		usage: "write <name>   (then enter lines, finish with a single '.end')",
		run:   (*Shell).cmdWrite,
	},
	{
		name:  "import",
		brief: "import an external file",
		usage: "import <external path> <name>",
		run:   (*Shell).cmdImport,
	},
	{
		name:  "export",
		brief: "export a file to an external path",
		usage: "export <name> <external path>",
		run:   (*Shell).cmdExport,
	},
	{
		name:  "info",
		brief: "show storage usage",
		usage: "info",
		run:   (*Shell).cmdInfo,
	},
	{
		name:  "help",
		brief: "show this help",
		usage: "help [command]",
		run:   nil, // handled by Run
	},
	{
		name:  "exit",
		brief: "leave the shell",
		usage: "exit",
		run:   nil, // handled by Run
	},
}

func lookup(name string) *command {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i]
		}
	}
	return nil
}

// Shell reads commands line by line and dispatches them onto a volume.
type Shell struct {
	vol *lightfs.Volume
	in  *bufio.Scanner
	out io.Writer
}

// New creates a shell over vol reading from in and writing to out.
func New(vol *lightfs.Volume, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		vol: vol,
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run executes the read-eval-print loop until exit or end of input.
func (s *Shell) Run() error {
	fmt.Fprintln(s.out, "Welcome to lightfs. Type 'help' or '?' to list commands.")
	for {
		fmt.Fprint(s.out, "lightfs> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}

		fields := strings.Fields(s.in.Text())
		if len(fields) == 0 {
			continue
		}
		name, args := fields[0], fields[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(s.out, "Bye!")
			return nil
		case "help", "?":
			s.help(args)
			continue
		}

		cmd := lookup(name)
		if cmd == nil {
			fmt.Fprintf(s.out, "unknown command: %s (try 'help')\n", name)
			continue
		}
		if err := cmd.run(s, args); err != nil {
			if errors.Is(err, errUsage) {
				fmt.Fprintf(s.out, "usage: %s\n", cmd.usage)
			} else {
				fmt.Fprintf(s.out, "%s failed: %v\n", cmd.name, err)
			}
		}
	}
}

func (s *Shell) help(args []string) {
	if len(args) > 0 {
		cmd := lookup(args[0])
		if cmd == nil {
			fmt.Fprintf(s.out, "unknown command: %s\n", args[0])
			return
		}
		fmt.Fprintf(s.out, "%s - %s\nusage: %s\n", cmd.name, cmd.brief, cmd.usage)
		return
	}

	width := 0
	for _, cmd := range commands {
		if len(cmd.name) > width {
			width = len(cmd.name)
		}
	}
	fmt.Fprintln(s.out, "Available commands:")
	for _, cmd := range commands {
		fmt.Fprintf(s.out, "  %-*s - %s\n", width, cmd.name, cmd.brief)
	}
	fmt.Fprintln(s.out, "Use 'help <command>' for detailed usage.")
}

func (s *Shell) cmdCreate(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := s.vol.Create(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "file %s created\n", args[0])
	return nil
}

func (s *Shell) cmdRename(args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	if err := s.vol.Rename(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "file %s renamed to %s\n", args[0], args[1])
	return nil
}

func (s *Shell) cmdDelete(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := s.vol.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "file %s deleted\n", args[0])
	return nil
}

func (s *Shell) cmdList(args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	infos, err := s.vol.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(s.out, "volume is empty")
		return nil
	}
	for _, fi := range infos {
		fmt.Fprintf(s.out, "%-32s %10s  created %s\n",
			fi.Name,
			humanize.IBytes(fi.Size),
			fi.CreatedAt.Format(time.DateTime),
		)
	}
	return nil
}

func (s *Shell) cmdCat(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	data, err := s.vol.Read(args[0])
	if err != nil {
		return err
	}
	s.out.Write(data)
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(s.out)
	}
	return nil
}

func (s *Shell) cmdWrite(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	fmt.Fprintln(s.out, "Enter content, finish with a single line '.end':")

	var lines []string
	for s.in.Scan() {
		line := s.in.Text()
		if strings.TrimSpace(line) == ".end" {
			break
		}
		lines = append(lines, line)
	}

	if err := s.vol.Write(args[0], []byte(strings.Join(lines, "\n"))); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "content written to %s\n", args[0])
	return nil
}

func (s *Shell) cmdImport(args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	if err := s.vol.Import(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "file %s imported as %s\n", args[0], args[1])
	return nil
}

func (s *Shell) cmdExport(args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	if err := s.vol.Export(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "file %s exported to %s\n", args[0], args[1])
	return nil
}

func (s *Shell) cmdInfo(args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	info, err := s.vol.StorageInfo()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "used:  %s (%d of %d blocks)\n",
		humanize.IBytes(uint64(info.Used)), info.UsedBlocks, info.TotalBlocks)
	fmt.Fprintf(s.out, "free:  %s\n", humanize.IBytes(uint64(info.Free)))
	return nil
}
