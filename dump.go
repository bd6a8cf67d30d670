package fatdisk

import (
	"bufio"
	"fmt"
	"io"
)

// DumpDirectory writes one line per directory slot, in slot order:
// "NNN name firstBlock fileSize", slot number zero-padded to three digits.
// A slot whose name field starts with a zero byte prints the literal
// string "NULL" in place of the name.
func (img *Image) DumpDirectory(w io.Writer) error {
	img.trace("op:printfilelist")
	bw := bufio.NewWriter(w)
	for slot := 0; slot < dirEntryCount; slot++ {
		e, err := img.readDirEntry(slot)
		if err != nil {
			return err
		}
		name := "NULL"
		if e.name[0] != 0 {
			name = e.nameString()
		}
		if _, err := fmt.Fprintf(bw, "%03d %s %d %d\n", slot, name, e.firstBlock, e.size); err != nil {
			return ErrIOFailed.WithMessage(err.Error())
		}
	}
	return flushIOErr(bw)
}

// DumpFAT writes the FAT as "IIII\tHHHHHHHH" entries, four per row
// separated by tabs and each row terminated by a newline: a four-digit
// decimal index followed by an eight-digit upper-case hex value.
func (img *Image) DumpFAT(w io.Writer) error {
	img.trace("op:printfat")
	fat, err := img.loadFAT()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i := 0; i < fatEntryCount; i++ {
		sep := "\t"
		if i%4 == 3 {
			sep = "\n"
		}
		if _, err := fmt.Fprintf(bw, "%04d\t%08X%s", i, fat.entries[i], sep); err != nil {
			return ErrIOFailed.WithMessage(err.Error())
		}
	}
	return flushIOErr(bw)
}

func flushIOErr(bw *bufio.Writer) error {
	if err := bw.Flush(); err != nil {
		return ErrIOFailed.WithMessage(err.Error())
	}
	return nil
}
