package fatdisk

import (
	"io"

	"github.com/gocarina/gocsv"
)

// ManifestRow is one directory entry as a flat, CSV-friendly record.
type ManifestRow struct {
	Slot       int    `csv:"slot"`
	Name       string `csv:"name"`
	FirstBlock uint32 `csv:"first_block"`
	Size       uint32 `csv:"size"`
	Hidden     bool   `csv:"hidden"`
}

// WriteManifestCSV writes one row per non-empty directory entry, in slot
// order, as a CSV document with a header row.
func WriteManifestCSV(img *Image, w io.Writer) error {
	img.trace("op:manifest")
	var rows []*ManifestRow
	for slot := 0; slot < dirEntryCount; slot++ {
		e, err := img.readDirEntry(slot)
		if err != nil {
			return err
		}
		if e.name[0] == 0 {
			continue
		}
		name := e.nameString()
		rows = append(rows, &ManifestRow{
			Slot:       slot,
			Name:       name,
			FirstBlock: e.firstBlock,
			Size:       e.size,
			Hidden:     len(name) > 0 && name[0] == '.',
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return ErrIOFailed.WithMessage(err.Error())
	}
	return nil
}
