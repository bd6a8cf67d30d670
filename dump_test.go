package fatdisk

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpDirectoryFormatsNullAndPopulatedSlots(t *testing.T) {
	img := newTestImage(t)
	require.NoError(t, img.Import(strings.NewReader("HELLO"), "HELLO"))

	var out bytes.Buffer
	require.NoError(t, img.DumpDirectory(&out))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, dirEntryCount)
	require.Equal(t, "000 HELLO 1 5", lines[0])
	require.Equal(t, "001 NULL 0 0", lines[1])
	require.Equal(t, "127 NULL 0 0", lines[dirEntryCount-1])
}

func TestDumpFATFormat(t *testing.T) {
	img := newTestImage(t)
	var out bytes.Buffer
	require.NoError(t, img.DumpFAT(&out))

	scanner := bufio.NewScanner(&out)
	require.True(t, scanner.Scan())
	firstLine := scanner.Text()
	fields := strings.Split(firstLine, "\t")
	require.Len(t, fields, 8, "four \"IIII\\tHHHHHHHH\" entries joined by tabs")
	require.Equal(t, "0000", fields[0])
	require.Equal(t, "FFFFFFFF", fields[1])
	require.Equal(t, "0001", fields[2])
	require.Equal(t, "00000000", fields[3])
}

func TestDumpFATEveryRowHasFourEntries(t *testing.T) {
	img := newTestImage(t)
	var out bytes.Buffer
	require.NoError(t, img.DumpFAT(&out))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, fatEntryCount/4)
	for _, line := range lines {
		require.Len(t, strings.Split(line, "\t"), 8)
	}
}
