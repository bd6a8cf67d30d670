package fatdisk

import "testing"

// FuzzWalk feeds arbitrary FAT successor tables into walk, checking only
// that it never panics and that any chain it does return is finite,
// in-range, and free of repeats — walk must either return such a chain or
// report CorruptChain, never anything in between. This mirrors the
// teacher's FuzzFS harness shape (encode a sequence of raw inputs, drive
// the subject, assert structural invariants on whatever comes back)
// applied to FAT-table corruption instead of filesystem operations.
func FuzzWalk(f *testing.F) {
	f.Add(uint32(1), uint32(2), uint32(3), uint32(0xFFFFFFFF))
	f.Add(uint32(1), uint32(1), uint32(0), uint32(0))
	f.Add(uint32(5), uint32(9999), uint32(0), uint32(0))
	f.Add(uint32(0), uint32(0), uint32(0), uint32(0))

	f.Fuzz(func(t *testing.T, start, e1, e2, e3 uint32) {
		fat := &fatTable{}
		fat.entries[0] = terminal
		if fatEntryCount > 1 {
			fat.entries[1] = e1
		}
		if fatEntryCount > 2 {
			fat.entries[2] = e2
		}
		if fatEntryCount > 3 {
			fat.entries[3] = e3
		}

		chain, err := fat.walk(start)
		if err != nil {
			return
		}
		seen := make(map[uint32]bool, len(chain))
		for _, idx := range chain {
			if idx == 0 || idx >= fatEntryCount {
				t.Fatalf("walk(%d) returned out-of-range block %d", start, idx)
			}
			if seen[idx] {
				t.Fatalf("walk(%d) returned repeated block %d: %v", start, idx, chain)
			}
			seen[idx] = true
		}
		if len(chain) > fatEntryCount {
			t.Fatalf("walk(%d) returned a chain longer than the whole FAT: %d", start, len(chain))
		}
	})
}

// FuzzAllocate checks that a single allocate call against a table with some
// blocks pre-occupied returns exactly n blocks, every one in range and none
// repeated.
func FuzzAllocate(f *testing.F) {
	f.Add(3, uint16(0b0000000000000010))
	f.Add(fatEntryCount, uint16(0))
	f.Add(0, uint16(0xFFFF))

	f.Fuzz(func(t *testing.T, n int, preoccupiedMask uint16) {
		if n < 0 || n > fatEntryCount {
			return
		}
		fat := &fatTable{free: newEmptyBitmap()}
		for i := 0; i < 16 && i+1 < fatEntryCount; i++ {
			if preoccupiedMask&(1<<uint(i)) != 0 {
				fat.entries[i+1] = terminal
				fat.free.Set(i+1, true)
			}
		}

		chain, err := fat.allocate(n)
		if err != nil {
			return
		}
		if len(chain) != n {
			t.Fatalf("allocate(%d) returned %d blocks", n, len(chain))
		}
		seen := make(map[uint32]bool, len(chain))
		for _, idx := range chain {
			if idx == 0 || idx >= fatEntryCount {
				t.Fatalf("allocate(%d) returned out-of-range block %d", n, idx)
			}
			if seen[idx] {
				t.Fatalf("allocate(%d) returned repeated block %d", n, idx)
			}
			seen[idx] = true
		}
	})
}
