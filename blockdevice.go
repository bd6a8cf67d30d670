package fatdisk

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// BlockDevice is the backing store for an Image: an addressable byte range at
// least ImageSize() bytes long. *os.File satisfies this directly; tests use
// an in-memory implementation (see internal/testimage) so the block layer
// and everything built on it can run without touching a real filesystem.
type BlockDevice interface {
	io.ReaderAt
	io.WriterAt
}

// ImageSize is the fixed total size, in bytes, every backing store must
// already have before any operation runs.
const ImageSize = imageSize

// Image is a mounted disk image: a BlockDevice plus the FAT/directory/data
// region math layered over it. It holds no cross-call state of its own other
// than an optional logger — every mutating method loads the FAT fresh and
// stores it back as a whole within that one call, never caching it across
// calls.
type Image struct {
	dev BlockDevice
	log *slog.Logger
}

// Open wraps an existing BlockDevice as an Image. It does not validate size;
// callers working with real files should use OpenFile, which does.
func Open(dev BlockDevice) *Image {
	return &Image{dev: dev}
}

// OpenFile opens path as a disk image backed by a regular host file. The
// file must already exist and be exactly ImageSize bytes.
func OpenFile(path string) (*Image, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, ErrIOFailed.WithMessage(err.Error())
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, ErrIOFailed.WithMessage(err.Error())
	}
	if info.Size() != ImageSize {
		f.Close()
		return nil, nil, ErrIOFailed.WithMessage(
			fmt.Sprintf("%s: expected size %d, got %d", path, ImageSize, info.Size()))
	}
	return Open(f), f, nil
}

// readBlock fills dst (which must be exactly blockSize bytes) with the
// contents of data block idx.
func (img *Image) readBlock(idx int, dst []byte) error {
	img.trace("block:read", slog.Int("idx", idx))
	if idx < 0 || idx >= dataBlockCount {
		return ErrInvalidBlockIndex.WithMessage(fmt.Sprintf("index %d", idx))
	}
	if len(dst) != blockSize {
		return ErrIOFailed.WithMessage("read buffer must be exactly one block")
	}
	off := int64(dataRegionOffset + idx*blockSize)
	n, err := img.dev.ReadAt(dst, off)
	if err != nil && err != io.EOF {
		img.logerror("block:read", slog.Int("idx", idx), slog.String("err", err.Error()))
		return ErrIOFailed.WithMessage(err.Error())
	}
	if n != blockSize {
		return ErrIOFailed.WithMessage(fmt.Sprintf("short read of block %d: %d bytes", idx, n))
	}
	return nil
}

// writeBlock writes data (exactly blockSize bytes) to data block idx.
func (img *Image) writeBlock(idx int, data []byte) error {
	img.trace("block:write", slog.Int("idx", idx))
	if idx < 0 || idx >= dataBlockCount {
		return ErrInvalidBlockIndex.WithMessage(fmt.Sprintf("index %d", idx))
	}
	if len(data) != blockSize {
		return ErrIOFailed.WithMessage("write buffer must be exactly one block")
	}
	off := int64(dataRegionOffset + idx*blockSize)
	n, err := img.dev.WriteAt(data, off)
	if err != nil {
		img.logerror("block:write", slog.Int("idx", idx), slog.String("err", err.Error()))
		return ErrIOFailed.WithMessage(err.Error())
	}
	if n != blockSize {
		return ErrIOFailed.WithMessage(fmt.Sprintf("short write of block %d: %d bytes", idx, n))
	}
	return nil
}

// zeroBlock overwrites data block idx with blockSize zero bytes.
func (img *Image) zeroBlock(idx int) error {
	var zero [blockSize]byte
	return img.writeBlock(idx, zero[:])
}
