// Package testimage builds in-memory disk images for exercising the fatdisk
// block layer and everything above it without touching a real file.
package testimage

import (
	"github.com/xaionaro-go/bytesextra"
)

// ImageSize is the fixed byte length every fatdisk image must have.
const ImageSize = 16384 + 32768 + 4096*512

// New returns a zero-filled backing store of exactly ImageSize bytes,
// usable anywhere fatdisk.BlockDevice is expected: bytesextra's
// ReadWriteSeeker implements ReadAt/WriteAt directly over the backing
// slice, with no file descriptor involved.
func New() *bytesextra.ReadWriteSeeker {
	return bytesextra.NewReadWriteSeeker(make([]byte, ImageSize))
}

// Formatted returns a backing store already in post-format state: FAT[0] is
// the terminal marker and every other FAT entry and directory slot is zero
// (mirroring what Image.Format produces on a blank image).
func Formatted() *bytesextra.ReadWriteSeeker {
	buf := make([]byte, ImageSize)
	buf[0], buf[1], buf[2], buf[3] = 0xFF, 0xFF, 0xFF, 0xFF
	return bytesextra.NewReadWriteSeeker(buf)
}
