package fatdisk

import (
	"encoding/binary"
	"fmt"
	"log/slog"
)

// dirEntry is the in-memory form of one 256-byte directory slot.
type dirEntry struct {
	name       [dirFieldNameSize]byte
	firstBlock uint32
	size       uint32
}

// isFree reports whether the slot is unused: either name[0] == 0 or
// firstBlock == 0 is sufficient, since clearing a slot sets both to zero
// together.
func (e *dirEntry) isFree() bool {
	return e.name[0] == 0 || e.firstBlock == 0
}

// nameString returns the entry's name with trailing zero padding stripped.
func (e *dirEntry) nameString() string {
	n := 0
	for n < len(e.name) && e.name[n] != 0 {
		n++
	}
	return string(e.name[:n])
}

func (e *dirEntry) setName(name string) {
	var buf [dirFieldNameSize]byte
	copy(buf[:dirFieldNameSize-1], name) // reserve the final byte for the zero terminator
	e.name = buf
}

func slotOffset(slot int) int64 {
	return dirRegionOffset + int64(slot)*dirEntrySize
}

// readDirEntry loads directory slot idx.
func (img *Image) readDirEntry(slot int) (dirEntry, error) {
	var buf [dirEntrySize]byte
	n, err := img.dev.ReadAt(buf[:], slotOffset(slot))
	if err != nil && n != dirEntrySize {
		return dirEntry{}, ErrIOFailed.WithMessage(err.Error())
	}
	var e dirEntry
	copy(e.name[:], buf[dirFieldName:dirFieldName+dirFieldNameSize])
	e.firstBlock = binary.LittleEndian.Uint32(buf[dirFieldFirstBlock:])
	e.size = binary.LittleEndian.Uint32(buf[dirFieldSize:])
	return e, nil
}

// writeDirEntry persists slot idx: name, then first-block, then size, in
// that field order.
func (img *Image) writeDirEntry(slot int, e dirEntry) error {
	img.trace("dir:write", slog.Int("slot", slot))
	var buf [dirEntrySize]byte
	copy(buf[dirFieldName:], e.name[:])
	binary.LittleEndian.PutUint32(buf[dirFieldFirstBlock:], e.firstBlock)
	binary.LittleEndian.PutUint32(buf[dirFieldSize:], e.size)
	n, err := img.dev.WriteAt(buf[:], slotOffset(slot))
	if err != nil {
		return ErrIOFailed.WithMessage(err.Error())
	}
	if n != dirEntrySize {
		return ErrIOFailed.WithMessage(fmt.Sprintf("short directory write: %d bytes", n))
	}
	return nil
}

// clearDirEntry overwrites slot idx with 256 zero bytes.
func (img *Image) clearDirEntry(slot int) error {
	img.trace("dir:clear", slog.Int("slot", slot))
	var zero [dirEntrySize]byte
	n, err := img.dev.WriteAt(zero[:], slotOffset(slot))
	if err != nil {
		return ErrIOFailed.WithMessage(err.Error())
	}
	if n != dirEntrySize {
		return ErrIOFailed.WithMessage(fmt.Sprintf("short directory write: %d bytes", n))
	}
	return nil
}

// findByName scans [0, dirEntryCount) for an entry whose name exactly
// matches name, returning its slot. The first match wins. name is truncated
// the same way stored names are before comparing.
func (img *Image) findByName(name string) (int, dirEntry, error) {
	img.trace("dir:find", slog.String("name", name))
	query := truncateName(name)
	for slot := 0; slot < dirEntryCount; slot++ {
		e, err := img.readDirEntry(slot)
		if err != nil {
			return -1, dirEntry{}, err
		}
		if e.name[0] == 0 {
			continue
		}
		if e.nameString() == query {
			return slot, e, nil
		}
	}
	return -1, dirEntry{}, ErrNotFound.WithMessage(name)
}

// findFreeSlot scans for a slot whose first-block field is 0, the free test
// used by import and duplicate.
func (img *Image) findFreeSlot() (int, error) {
	for slot := 0; slot < dirEntryCount; slot++ {
		e, err := img.readDirEntry(slot)
		if err != nil {
			return -1, err
		}
		if e.firstBlock == 0 {
			return slot, nil
		}
	}
	return -1, ErrDirectoryFull.WithMessage("no free directory slots")
}

// nameExists reports whether any entry (free slots excluded) has exactly
// this name.
func (img *Image) nameExists(name string) (bool, error) {
	for slot := 0; slot < dirEntryCount; slot++ {
		e, err := img.readDirEntry(slot)
		if err != nil {
			return false, err
		}
		if e.name[0] != 0 && e.nameString() == name {
			return true, nil
		}
	}
	return false, nil
}

// truncateName truncates name to at most 247 bytes of text plus the zero
// terminator, fitting the 248-byte field.
func truncateName(name string) string {
	const maxLen = dirFieldNameSize - 1
	if len(name) > maxLen {
		return name[:maxLen]
	}
	return name
}

// rename scans all entries for a name collision first (even against the
// same slot, so renaming a file to its own name is rejected), then locates
// old and overwrites only its name field.
func (img *Image) rename(oldName, newName string) error {
	img.trace("dir:rename", slog.String("old", oldName), slog.String("new", newName))
	truncated := truncateName(newName)
	collides, err := img.nameExists(truncated)
	if err != nil {
		return err
	}
	if collides {
		return ErrNameCollision.WithMessage(truncated)
	}

	slot, e, err := img.findByName(oldName)
	if err != nil {
		return err
	}
	e.setName(truncated)
	return img.writeDirEntry(slot, e)
}
