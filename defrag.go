package fatdisk

import (
	"log/slog"

	"github.com/noxer/bytewriter"
)

// capturedFile holds one live file's directory slot, computed block count,
// and its full payload read through the pre-defragment FAT snapshot.
type capturedFile struct {
	slot       int
	blockCount int
	size       uint32
	data       []byte
}

// Defragment rebuilds the FAT and data region so every live file occupies a
// contiguous ascending run of blocks starting at block 1, packed in
// directory-slot order. It reads every live file's bytes into memory first
// (against the pre-defragment FAT snapshot) and only then starts writing,
// because the newly allocated ranges can overlap the old block positions of
// files that haven't been processed yet.
func (img *Image) Defragment() error {
	img.trace("op:defragment")

	snapshot, err := img.loadFAT()
	if err != nil {
		return err
	}

	var files []capturedFile
	for slot := 0; slot < dirEntryCount; slot++ {
		e, err := img.readDirEntry(slot)
		if err != nil {
			return err
		}
		if e.name[0] == 0 {
			continue
		}
		n := blocksForSize(e.size)
		chain, err := snapshot.walkExactly(e.firstBlock, n)
		if err != nil {
			return err
		}
		data, err := img.readChainBuffer(chain, e.size)
		if err != nil {
			return err
		}
		files = append(files, capturedFile{slot: slot, blockCount: n, size: e.size, data: data})
	}

	fresh := &fatTable{}
	fresh.entries[0] = terminal
	nextFree := uint32(1)

	for _, f := range files {
		if f.blockCount == 0 {
			continue
		}
		start := nextFree
		for i := 0; i < f.blockCount; i++ {
			idx := start + uint32(i)
			if err := img.writeBlock(int(idx), f.data[i*blockSize:(i+1)*blockSize]); err != nil {
				return err
			}
			if i < f.blockCount-1 {
				fresh.entries[idx] = idx + 1
			} else {
				fresh.entries[idx] = terminal
			}
		}
		e, err := img.readDirEntry(f.slot)
		if err != nil {
			return err
		}
		e.firstBlock = start
		if err := img.writeDirEntry(f.slot, e); err != nil {
			return err
		}
		nextFree += uint32(f.blockCount)
	}

	if err := img.storeFAT(fresh); err != nil {
		return err
	}

	for idx := int(nextFree); idx < dataBlockCount; idx++ {
		if err := img.zeroBlock(idx); err != nil {
			return err
		}
	}

	img.debug("defragment:done", slog.Int("files", len(files)), slog.Int("nextFree", int(nextFree)))
	return nil
}

// walkExactly is like walk but additionally requires the chain to terminate
// after exactly n steps, failing CorruptChain on early termination.
func (fat *fatTable) walkExactly(start uint32, n int) ([]uint32, error) {
	chain, err := fat.walk(start)
	if err != nil {
		return nil, err
	}
	if len(chain) != n {
		return nil, ErrCorruptChain.WithMessage("chain length does not match file size")
	}
	return chain, nil
}

// readChainBuffer reads chain's blocks into one contiguous buffer of
// len(chain)*blockSize bytes, zeroing the tail past size within the final
// block. The buffer is pre-sized and handed to bytewriter so the per-block
// copies are expressed as sequential io.Writer writes rather than manual
// slice-index bookkeeping.
func (img *Image) readChainBuffer(chain []uint32, size uint32) ([]byte, error) {
	out := make([]byte, len(chain)*blockSize)
	w := bytewriter.New(out)
	var block [blockSize]byte
	remaining := int64(size)
	for _, idx := range chain {
		if err := img.readBlock(int(idx), block[:]); err != nil {
			return nil, err
		}
		keep := int64(blockSize)
		if remaining < keep {
			keep = remaining
		}
		if keep > 0 {
			if _, err := w.Write(block[:keep]); err != nil {
				return nil, ErrIOFailed.WithMessage(err.Error())
			}
		}
		if _, err := w.Write(make([]byte, blockSize-keep)); err != nil {
			return nil, ErrIOFailed.WithMessage(err.Error())
		}
		remaining -= keep
	}
	return out, nil
}
