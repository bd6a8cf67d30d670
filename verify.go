package fatdisk

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Verify performs a read-only integrity pass over img, checking every
// testable structural property a live image must satisfy: chain lengths
// matching the declared size, no block shared between two chains, FAT
// entries consistent with live-chain membership, and name uniqueness. It
// does not stop at the first problem — every violation found is collected,
// and the returned error is nil if and only if none were found.
func Verify(img *Image) error {
	img.trace("op:verify")

	fat, err := img.loadFAT()
	if err != nil {
		return err
	}

	var result *multierror.Error
	seenBlocks := make(map[uint32]string)
	seenNames := make(map[string]int)
	referenced := make(map[uint32]bool)

	for slot := 0; slot < dirEntryCount; slot++ {
		e, err := img.readDirEntry(slot)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if e.name[0] == 0 {
			continue
		}
		name := e.nameString()
		if prev, ok := seenNames[name]; ok {
			result = multierror.Append(result, fmt.Errorf("name %q used by both slot %d and slot %d", name, prev, slot))
		} else {
			seenNames[name] = slot
		}

		want := blocksForSize(e.size)
		chain, err := fat.walk(e.firstBlock)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("slot %d (%s): %w", slot, name, err))
			continue
		}
		if len(chain) != want {
			result = multierror.Append(result, fmt.Errorf(
				"slot %d (%s): chain has %d blocks, expected %d for size %d", slot, name, len(chain), want, e.size))
		}
		for _, idx := range chain {
			if idx == 0 || idx >= fatEntryCount {
				result = multierror.Append(result, fmt.Errorf("slot %d (%s): block %d out of range", slot, name, idx))
				continue
			}
			if owner, ok := seenBlocks[idx]; ok {
				result = multierror.Append(result, fmt.Errorf("block %d shared by %q and %q", idx, owner, name))
			} else {
				seenBlocks[idx] = name
			}
			referenced[idx] = true
		}
	}

	for i := 1; i < fatEntryCount; i++ {
		_, isReferenced := referenced[uint32(i)]
		isZero := fat.entries[i] == freeEntry
		if isZero && isReferenced {
			result = multierror.Append(result, fmt.Errorf("block %d is zero in FAT but referenced by a live chain", i))
		}
		if !isZero && !isReferenced {
			result = multierror.Append(result, fmt.Errorf("block %d is non-zero in FAT but not part of any live chain", i))
		}
	}

	if fat.entries[0] != terminal {
		result = multierror.Append(result, fmt.Errorf("FAT[0] is %08X, expected terminal marker", fat.entries[0]))
	}

	return result.ErrorOrNil()
}
