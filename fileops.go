package fatdisk

import (
	"io"
	"log/slog"
	"sort"
)

// Format resets the FAT and directory regions: FAT[0] = terminal, every
// other FAT entry and every directory slot becomes 0. The data region is
// left untouched.
func (img *Image) Format() error {
	img.trace("op:format")
	fat := &fatTable{}
	fat.entries[0] = terminal
	if err := img.storeFAT(fat); err != nil {
		return err
	}
	var zero [dirEntrySize]byte
	for slot := 0; slot < dirEntryCount; slot++ {
		if _, err := img.dev.WriteAt(zero[:], slotOffset(slot)); err != nil {
			return ErrIOFailed.WithMessage(err.Error())
		}
	}
	return nil
}

// Import copies host bytes into the image under destName. An empty source
// is rejected outright.
func (img *Image) Import(r io.Reader, destName string) error {
	img.trace("op:import", slog.String("dest", destName))
	data, err := io.ReadAll(r)
	if err != nil {
		return ErrIOFailed.WithMessage(err.Error())
	}
	if len(data) == 0 {
		return ErrEmptyFile.WithMessage(destName)
	}

	fat, err := img.loadFAT()
	if err != nil {
		return err
	}
	numBlocks := blocksForSize(uint32(len(data)))
	chain, err := fat.allocate(numBlocks)
	if err != nil {
		return err
	}
	if err := img.storeFAT(fat); err != nil {
		return err
	}

	if err := img.writeChainData(chain, data); err != nil {
		return err
	}

	slot, err := img.findFreeSlot()
	if err != nil {
		return err
	}
	var e dirEntry
	e.setName(truncateName(destName))
	e.firstBlock = chain[0]
	e.size = uint32(len(data))
	return img.writeDirEntry(slot, e)
}

// writeChainData writes data across chain in order, zero-padding the final
// block from len(data)%blockSize up to blockSize.
func (img *Image) writeChainData(chain []uint32, data []byte) error {
	var block [blockSize]byte
	remaining := data
	for _, idx := range chain {
		n := copy(block[:], remaining)
		for i := n; i < blockSize; i++ {
			block[i] = 0
		}
		if err := img.writeBlock(int(idx), block[:]); err != nil {
			return err
		}
		if n < len(remaining) {
			remaining = remaining[n:]
		} else {
			remaining = nil
		}
	}
	return nil
}

// readChainData reads exactly size bytes across chain, in order, stopping
// mid-block on the final partial block.
func (img *Image) readChainData(chain []uint32, size uint32) ([]byte, error) {
	out := make([]byte, 0, size)
	remaining := int64(size)
	var block [blockSize]byte
	for _, idx := range chain {
		if err := img.readBlock(int(idx), block[:]); err != nil {
			return nil, err
		}
		n := int64(blockSize)
		if remaining < n {
			n = remaining
		}
		if n > 0 {
			out = append(out, block[:n]...)
		}
		remaining -= n
	}
	return out, nil
}

// Export walks name's chain and writes its content to w.
func (img *Image) Export(name string, w io.Writer) error {
	img.trace("op:export", slog.String("name", name))
	_, e, err := img.findByName(name)
	if err != nil {
		return err
	}
	if e.firstBlock == 0 {
		return ErrNotFound.WithMessage(name)
	}
	fat, err := img.loadFAT()
	if err != nil {
		return err
	}
	chain, err := fat.walk(e.firstBlock)
	if err != nil {
		return err
	}
	data, err := img.readChainData(chain, e.size)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return ErrIOFailed.WithMessage(err.Error())
	}
	return nil
}

// Delete frees name's chain, then clears its directory entry. The FAT is
// persisted before the directory is cleared, so a crash between the two
// leaves an orphaned-but-unnamed chain rather than a dangling directory
// entry.
func (img *Image) Delete(name string) error {
	img.trace("op:delete", slog.String("name", name))
	slot, e, err := img.findByName(name)
	if err != nil {
		return err
	}
	if e.firstBlock != 0 {
		fat, err := img.loadFAT()
		if err != nil {
			return err
		}
		if err := fat.freeChain(e.firstBlock); err != nil {
			return err
		}
		if err := img.storeFAT(fat); err != nil {
			return err
		}
	}
	return img.clearDirEntry(slot)
}

// Duplicate creates a copy of name under name+"_copy" (truncated to fit),
// failing on a name collision. It walks the *original* FAT snapshot to read
// source blocks, since the newly allocated chain's entries can overlap the
// very same FAT array slots.
func (img *Image) Duplicate(name string) error {
	img.trace("op:duplicate", slog.String("name", name))
	_, src, err := img.findByName(name)
	if err != nil {
		return err
	}

	newName := duplicateName(name)
	collides, err := img.nameExists(newName)
	if err != nil {
		return err
	}
	if collides {
		return ErrNameCollision.WithMessage(newName)
	}

	origFAT, err := img.loadFAT()
	if err != nil {
		return err
	}
	srcChain, err := origFAT.walk(src.firstBlock)
	if err != nil {
		return err
	}
	data, err := img.readChainData(srcChain, src.size)
	if err != nil {
		return err
	}

	fat, err := img.loadFAT()
	if err != nil {
		return err
	}
	numBlocks := blocksForSize(src.size)
	dstChain, err := fat.allocate(numBlocks)
	if err != nil {
		return err
	}
	if err := img.storeFAT(fat); err != nil {
		return err
	}
	if err := img.writeChainData(dstChain, data); err != nil {
		return err
	}

	slot, err := img.findFreeSlot()
	if err != nil {
		return err
	}
	var e dirEntry
	e.setName(newName)
	e.firstBlock = dstChain[0]
	e.size = src.size
	return img.writeDirEntry(slot, e)
}

// duplicateName builds srcName+"_copy", truncated so the result fits the
// 247-byte name field.
func duplicateName(srcName string) string {
	const suffix = "_copy"
	const maxLen = dirFieldNameSize - 1
	base := srcName
	if len(base)+len(suffix) > maxLen {
		base = base[:maxLen-len(suffix)]
	}
	return base + suffix
}

// Rename renames oldName to newName.
func (img *Image) Rename(oldName, newName string) error {
	return img.rename(oldName, newName)
}

// Hide prefixes name with '.'.
func (img *Image) Hide(name string) error {
	img.trace("op:hide", slog.String("name", name))
	slot, e, err := img.findByName(name)
	if err != nil {
		return err
	}
	hidden := truncateName("." + name)
	e.setName(hidden)
	return img.writeDirEntry(slot, e)
}

// Unhide finds the entry named "."+name and strips the leading dot.
func (img *Image) Unhide(name string) error {
	img.trace("op:unhide", slog.String("name", name))
	hiddenName := "." + name
	slot, _, err := img.findByName(hiddenName)
	if err != nil {
		return ErrNotFound.WithMessage(name)
	}
	e, err := img.readDirEntry(slot)
	if err != nil {
		return err
	}
	e.setName(truncateName(name))
	return img.writeDirEntry(slot, e)
}

// Search reports whether any non-empty directory entry has exactly this
// name, hidden or not.
func (img *Image) Search(name string) (bool, error) {
	img.trace("op:search", slog.String("name", name))
	return img.nameExists(name)
}

// FileInfo describes one visible directory entry, as returned by List and
// SortBySize.
type FileInfo struct {
	Name string
	Size uint32
}

// visibleEntries gathers every entry whose name is non-empty and doesn't
// start with '.'.
func (img *Image) visibleEntries() ([]FileInfo, error) {
	var out []FileInfo
	for slot := 0; slot < dirEntryCount; slot++ {
		e, err := img.readDirEntry(slot)
		if err != nil {
			return nil, err
		}
		if e.name[0] == 0 || e.name[0] == '.' {
			continue
		}
		out = append(out, FileInfo{Name: e.nameString(), Size: e.size})
	}
	return out, nil
}

// List returns every visible file and its size, in directory-slot order.
func (img *Image) List() ([]FileInfo, error) {
	img.trace("op:list")
	return img.visibleEntries()
}

// SortBySize returns every visible file ordered ascending by size. Ties are
// not required to be stable.
func (img *Image) SortBySize() ([]FileInfo, error) {
	img.trace("op:sorta")
	files, err := img.visibleEntries()
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Size < files[j].Size })
	return files, nil
}
