package fatdisk

// Image layout constants. These mirror the fixed, compile-time region sizes
// of the on-disk format: FAT region, directory region, then data blocks, all
// little-endian, with no header.
const (
	blockSize = 512

	fatEntryCount = 4096
	fatEntrySize  = 4 // bytes per FAT entry (uint32)
	fatRegionSize = fatEntryCount * fatEntrySize

	dirEntryCount = 128
	dirEntrySize  = 256
	dirRegionSize = dirEntryCount * dirEntrySize

	dataBlockCount = fatEntryCount
	dataRegionSize = dataBlockCount * blockSize

	fatRegionOffset  = 0
	dirRegionOffset  = fatRegionOffset + fatRegionSize
	dataRegionOffset = dirRegionOffset + dirRegionSize

	imageSize = dataRegionOffset + dataRegionSize

	// Directory entry field offsets, relative to the start of the entry.
	dirFieldName       = 0
	dirFieldNameSize   = 248
	dirFieldFirstBlock = 248
	dirFieldSize       = 252
)

// terminal marks the last block of a FAT chain. Also the reserved value of
// FAT[0], which is never allocated.
const terminal uint32 = 0xFFFFFFFF

// freeEntry marks an unallocated FAT entry.
const freeEntry uint32 = 0
