package fatdisk

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/boljen/go-bitmap"
)

// fatTable is the in-memory form of the 4096-entry FAT. It is loaded fresh
// at the start of an operation and stored back as a whole; nothing here
// persists across calls into Image.
type fatTable struct {
	entries [fatEntryCount]uint32
	// free is a bitmap mirror of entries (bit set => block i is allocated),
	// rebuilt by loadFAT and kept in sync by allocate/free. It exists purely
	// to accelerate the ascending free-block scan allocate() must do; the
	// entries array remains the sole source of truth that gets persisted.
	free bitmap.Bitmap
}

// loadFAT reads the whole FAT region into memory and rebuilds the free-block
// bitmap alongside it.
func (img *Image) loadFAT() (*fatTable, error) {
	img.trace("fat:load")
	buf := make([]byte, fatRegionSize)
	n, err := img.dev.ReadAt(buf, fatRegionOffset)
	if err != nil && n != fatRegionSize {
		return nil, ErrIOFailed.WithMessage(err.Error())
	}
	fat := &fatTable{free: bitmap.New(fatEntryCount)}
	for i := 0; i < fatEntryCount; i++ {
		v := binary.LittleEndian.Uint32(buf[i*fatEntrySize:])
		fat.entries[i] = v
		if i != 0 && v != freeEntry {
			fat.free.Set(i, true)
		}
	}
	return fat, nil
}

// storeFAT writes the whole FAT region back in one contiguous write.
func (img *Image) storeFAT(fat *fatTable) error {
	img.trace("fat:store")
	buf := make([]byte, fatRegionSize)
	for i := 0; i < fatEntryCount; i++ {
		binary.LittleEndian.PutUint32(buf[i*fatEntrySize:], fat.entries[i])
	}
	n, err := img.dev.WriteAt(buf, fatRegionOffset)
	if err != nil {
		img.logerror("fat:store", slog.String("err", err.Error()))
		return ErrIOFailed.WithMessage(err.Error())
	}
	if n != fatRegionSize {
		return ErrIOFailed.WithMessage(fmt.Sprintf("short FAT write: %d bytes", n))
	}
	return nil
}

// walk returns the ordered chain of block indices starting at start,
// following FAT successors until the terminal marker, enforcing a cycle
// guard and a range check on every successor visited.
func (fat *fatTable) walk(start uint32) ([]uint32, error) {
	chain := make([]uint32, 0, 16)
	cur := start
	for step := 0; ; step++ {
		if step >= fatEntryCount {
			return nil, ErrCorruptChain.WithMessage("chain exceeds FAT size, likely a cycle")
		}
		if cur == 0 || cur >= fatEntryCount {
			return nil, ErrCorruptChain.WithMessage(fmt.Sprintf("block index %d out of range", cur))
		}
		chain = append(chain, cur)
		next := fat.entries[cur]
		if next == terminal {
			return chain, nil
		}
		if next == freeEntry || next >= fatEntryCount {
			return nil, ErrCorruptChain.WithMessage(fmt.Sprintf("bad successor %d after block %d", next, cur))
		}
		cur = next
	}
}

// allocate reserves n free blocks, in ascending index order, and chains them
// together terminated by the terminal marker. It does not touch data
// blocks.
func (fat *fatTable) allocate(n int) ([]uint32, error) {
	if n <= 0 {
		return nil, nil
	}
	chain := make([]uint32, 0, n)
	for i := 1; i < fatEntryCount && len(chain) < n; i++ {
		if !fat.free.Get(i) {
			chain = append(chain, uint32(i))
		}
	}
	if len(chain) < n {
		return nil, ErrOutOfSpace.WithMessage(fmt.Sprintf("need %d free blocks, found %d", n, len(chain)))
	}
	for i := 0; i < n-1; i++ {
		fat.entries[chain[i]] = chain[i+1]
	}
	fat.entries[chain[n-1]] = terminal
	for _, idx := range chain {
		fat.free.Set(int(idx), true)
	}
	return chain, nil
}

// freeChain walks from start and clears every visited FAT entry, including
// the terminal block's.
func (fat *fatTable) freeChain(start uint32) error {
	cur := start
	for step := 0; ; step++ {
		if step >= fatEntryCount {
			return ErrCorruptChain.WithMessage("chain exceeds FAT size, likely a cycle")
		}
		if cur == 0 || cur >= fatEntryCount {
			return ErrCorruptChain.WithMessage(fmt.Sprintf("block index %d out of range", cur))
		}
		next := fat.entries[cur]
		fat.entries[cur] = freeEntry
		fat.free.Set(int(cur), false)
		if next == terminal {
			return nil
		}
		if next == freeEntry || next >= fatEntryCount {
			return ErrCorruptChain.WithMessage(fmt.Sprintf("bad successor %d after block %d", next, cur))
		}
		cur = next
	}
}

// blocksForSize computes ceil(size/blockSize), the number of blocks needed
// to store size bytes.
func blocksForSize(size uint32) int {
	return int((size + blockSize - 1) / blockSize)
}
