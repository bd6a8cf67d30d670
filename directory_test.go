package fatdisk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDirEntryIsFree(t *testing.T) {
	var e dirEntry
	require.True(t, e.isFree())

	e.setName("FOO")
	require.True(t, e.isFree(), "firstBlock still zero")

	e.firstBlock = 3
	require.False(t, e.isFree())
}

func TestDirEntryNameTruncation(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	truncated := truncateName(string(long))
	require.Len(t, truncated, dirFieldNameSize-1)

	var e dirEntry
	e.setName(truncated)
	require.Equal(t, truncated, e.nameString())
	require.Equal(t, byte(0), e.name[dirFieldNameSize-1], "final name byte reserved for terminator")
}

func TestWriteReadDirEntryRoundTrip(t *testing.T) {
	img := newTestImage(t)
	var e dirEntry
	e.setName("HELLO")
	e.firstBlock = 1
	e.size = 5
	require.NoError(t, img.writeDirEntry(0, e))

	got, err := img.readDirEntry(0)
	require.NoError(t, err)
	require.Equal(t, "HELLO", got.nameString())
	require.Equal(t, uint32(1), got.firstBlock)
	require.Equal(t, uint32(5), got.size)
}

func TestClearDirEntryZeroesBothFreeFields(t *testing.T) {
	img := newTestImage(t)
	var e dirEntry
	e.setName("HELLO")
	e.firstBlock = 1
	e.size = 5
	require.NoError(t, img.writeDirEntry(3, e))
	require.NoError(t, img.clearDirEntry(3))

	got, err := img.readDirEntry(3)
	require.NoError(t, err)
	require.True(t, got.isFree())
	require.Equal(t, byte(0), got.name[0])
	require.Equal(t, uint32(0), got.firstBlock)
}

func TestFindByNameFirstMatchWins(t *testing.T) {
	img := newTestImage(t)
	var a dirEntry
	a.setName("DUP")
	a.firstBlock = 1
	a.size = 1
	require.NoError(t, img.writeDirEntry(2, a))

	var b dirEntry
	b.setName("DUP")
	b.firstBlock = 2
	b.size = 2
	require.NoError(t, img.writeDirEntry(9, b))

	slot, e, err := img.findByName("DUP")
	require.NoError(t, err)
	require.Equal(t, 2, slot)
	require.Equal(t, uint32(1), e.firstBlock)
}

func TestFindByNameNotFound(t *testing.T) {
	img := newTestImage(t)
	_, _, err := img.findByName("NOPE")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindFreeSlotUsesFirstBlockZeroTest(t *testing.T) {
	img := newTestImage(t)
	slot, err := img.findFreeSlot()
	require.NoError(t, err)
	require.Equal(t, 0, slot)

	var e dirEntry
	e.setName("A")
	e.firstBlock = 1
	e.size = 1
	require.NoError(t, img.writeDirEntry(0, e))

	slot, err = img.findFreeSlot()
	require.NoError(t, err)
	require.Equal(t, 1, slot)
}

func TestFindFreeSlotDirectoryFull(t *testing.T) {
	img := newTestImage(t)
	for slot := 0; slot < dirEntryCount; slot++ {
		var e dirEntry
		e.setName("X")
		e.firstBlock = 1
		e.size = 1
		require.NoError(t, img.writeDirEntry(slot, e))
	}
	_, err := img.findFreeSlot()
	require.ErrorIs(t, err, ErrDirectoryFull)
}

func TestRenameRejectsCollisionEvenAgainstSameSlot(t *testing.T) {
	img := newTestImage(t)
	var e dirEntry
	e.setName("HELLO")
	e.firstBlock = 1
	e.size = 5
	require.NoError(t, img.writeDirEntry(0, e))

	err := img.rename("HELLO", "HELLO")
	require.ErrorIs(t, err, ErrNameCollision)
}

func TestRenameRejectsCollisionWithAnotherSlot(t *testing.T) {
	img := newTestImage(t)
	var a, b dirEntry
	a.setName("ONE")
	a.firstBlock = 1
	a.size = 1
	require.NoError(t, img.writeDirEntry(0, a))
	b.setName("TWO")
	b.firstBlock = 2
	b.size = 2
	require.NoError(t, img.writeDirEntry(1, b))

	err := img.rename("ONE", "TWO")
	require.ErrorIs(t, err, ErrNameCollision)
}

func TestRenameLeavesFirstBlockAndSizeUntouched(t *testing.T) {
	img := newTestImage(t)
	var e dirEntry
	e.setName("OLD")
	e.firstBlock = 4
	e.size = 99
	require.NoError(t, img.writeDirEntry(0, e))

	require.NoError(t, img.rename("OLD", "NEW"))

	got, err := img.readDirEntry(0)
	require.NoError(t, err)
	require.Equal(t, "NEW", got.nameString())
	require.Equal(t, uint32(4), got.firstBlock)
	require.Equal(t, uint32(99), got.size)
}
