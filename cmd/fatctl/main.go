// Command fatctl drives a fatdisk image file from the command line:
// prog <image> <command> [args].
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hhartl/fatdisk"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	var verbose bool
	args = stripVerboseFlag(args, &verbose)

	if len(args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: fatctl <image> <command> [args]")
		return 1
	}
	imagePath, command, rest := args[1], args[2], args[3:]

	img, closer, err := fatdisk.OpenFile(imagePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	defer closer.Close()

	if verbose {
		img.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug - 2})))
	}

	if err := dispatch(img, command, rest); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

func stripVerboseFlag(args []string, verbose *bool) []string {
	out := args[:0:0]
	for _, a := range args {
		if a == "-v" {
			*verbose = true
			continue
		}
		out = append(out, a)
	}
	return out
}

func dispatch(img *fatdisk.Image, command string, args []string) error {
	switch command {
	case "-format":
		if err := img.Format(); err != nil {
			return err
		}
		fmt.Println("formatted")
		return nil

	case "-write":
		if len(args) != 2 {
			return fatdisk.ErrMalformedCommand.WithMessage("-write <srcHostPath> <destName>")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fatdisk.ErrIOFailed.WithMessage(err.Error())
		}
		defer f.Close()
		if err := img.Import(f, args[1]); err != nil {
			return err
		}
		fmt.Println("written")
		return nil

	case "-read":
		if len(args) != 2 {
			return fatdisk.ErrMalformedCommand.WithMessage("-read <srcName> <destHostPath>")
		}
		f, err := os.Create(args[1])
		if err != nil {
			return fatdisk.ErrIOFailed.WithMessage(err.Error())
		}
		defer f.Close()
		if err := img.Export(args[0], f); err != nil {
			return err
		}
		fmt.Println("read")
		return nil

	case "-delete":
		if len(args) != 1 {
			return fatdisk.ErrMalformedCommand.WithMessage("-delete <name>")
		}
		if err := img.Delete(args[0]); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil

	case "-list":
		files, err := img.List()
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("%s\t%d bytes\n", f.Name, f.Size)
		}
		return nil

	case "-sorta":
		files, err := img.SortBySize()
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Printf("%s\t%d bytes\n", f.Name, f.Size)
		}
		return nil

	case "-rename":
		if len(args) != 2 {
			return fatdisk.ErrMalformedCommand.WithMessage("-rename <old> <new>")
		}
		if err := img.Rename(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("renamed")
		return nil

	case "-duplicate":
		if len(args) != 1 {
			return fatdisk.ErrMalformedCommand.WithMessage("-duplicate <name>")
		}
		if err := img.Duplicate(args[0]); err != nil {
			return err
		}
		fmt.Println("duplicated")
		return nil

	case "-search":
		if len(args) != 1 {
			return fatdisk.ErrMalformedCommand.WithMessage("-search <name>")
		}
		found, err := img.Search(args[0])
		if err != nil {
			return err
		}
		if found {
			fmt.Println("YES")
		} else {
			fmt.Println("NO")
		}
		return nil

	case "-hide":
		if len(args) != 1 {
			return fatdisk.ErrMalformedCommand.WithMessage("-hide <name>")
		}
		if err := img.Hide(args[0]); err != nil {
			return err
		}
		fmt.Println("hidden")
		return nil

	case "-unhide":
		if len(args) != 1 {
			return fatdisk.ErrMalformedCommand.WithMessage("-unhide <name>")
		}
		if err := img.Unhide(args[0]); err != nil {
			return err
		}
		fmt.Println("unhidden")
		return nil

	case "-printfilelist":
		return dumpToFile("filelist.txt", img.DumpDirectory)

	case "-printfat":
		return dumpToFile("fat.txt", img.DumpFAT)

	case "-defragment":
		if err := img.Defragment(); err != nil {
			return err
		}
		fmt.Println("defragmented")
		return nil

	default:
		return fatdisk.ErrMalformedCommand.WithMessage(command)
	}
}

func dumpToFile(path string, dump func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fatdisk.ErrIOFailed.WithMessage(err.Error())
	}
	defer f.Close()
	if err := dump(f); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
