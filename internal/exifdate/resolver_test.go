package exifdate

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeEXIFFixture assembles a minimal little-endian TIFF whose IFD0 holds
// the generic DateTime plus a pointer to an Exif sub-IFD holding
// DateTimeOriginal. Both values must be 19 characters ("2006:01:02
// 15:04:05"); they are NUL-terminated here.
func writeEXIFFixture(t *testing.T, dir, original, generic string) string {
	t.Helper()

	require.Len(t, original, 19)
	require.Len(t, generic, 19)

	buf := new(bytes.Buffer)
	write := func(v any) {
		require.NoError(t, binary.Write(buf, binary.LittleEndian, v))
	}

	buf.WriteString("II")
	write(uint16(42))
	write(uint32(8)) // IFD0 offset

	// IFD0: DateTime and the Exif sub-IFD pointer.
	write(uint16(2))
	write(uint16(0x0132)) // DateTime, ASCII x20 stored at offset 56
	write(uint16(2))
	write(uint32(20))
	write(uint32(56))
	write(uint16(0x8769)) // Exif IFD pointer
	write(uint16(4))
	write(uint32(1))
	write(uint32(38))
	write(uint32(0))

	// Exif sub-IFD at offset 38: DateTimeOriginal stored at offset 76.
	write(uint16(1))
	write(uint16(0x9003))
	write(uint16(2))
	write(uint32(20))
	write(uint32(76))
	write(uint32(0))

	buf.WriteString(generic + "\x00")
	buf.WriteString(original + "\x00")

	path := filepath.Join(dir, "a.tif")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"valid", "2025:01:18 14:30:45", true},
		{"nul padded", "2025:01:18 14:30:45\x00", true},
		{"space padded", "  2025:01:18 14:30:45 ", true},
		{"empty", "", false},
		{"wrong separator", "2025-01-18 14:30:45", false},
		{"garbage", "not a date", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := parseTimestamp(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				expected := time.Date(2025, 1, 18, 14, 30, 45, 0, time.Local)
				assert.True(t, parsed.Equal(expected))
			}
		})
	}
}

func TestResolve(t *testing.T) {
	mtime := time.Date(2025, 1, 19, 9, 0, 0, 0, time.Local)

	writeFile := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "b.jpg")
		require.NoError(t, os.WriteFile(path, []byte("no metadata here"), 0644))
		require.NoError(t, os.Chtimes(path, mtime, mtime))
		return path
	}

	t.Run("falls back to mtime without metadata", func(t *testing.T) {
		path := writeFile(t)

		got := New(true).Resolve(path)

		assert.True(t, got.Equal(mtime))
	})

	t.Run("uses mtime when metadata is disabled", func(t *testing.T) {
		path := writeFile(t)

		got := New(false).Resolve(path)

		assert.True(t, got.Equal(mtime))
	})

	t.Run("never fails on a missing file", func(t *testing.T) {
		got := New(true).Resolve(filepath.Join(t.TempDir(), "gone.jpg"))

		assert.False(t, got.IsZero())
	})

	t.Run("embedded capture time wins over mtime", func(t *testing.T) {
		path := writeEXIFFixture(t, t.TempDir(),
			"2025:01:18 14:30:00", "2025:03:03 10:00:00")
		require.NoError(t, os.Chtimes(path, mtime, mtime))

		got := New(true).Resolve(path)

		// DateTimeOriginal beats both the generic DateTime and the mtime.
		assert.True(t, got.Equal(time.Date(2025, 1, 18, 14, 30, 0, 0, time.Local)))
	})

	t.Run("unparseable candidate is skipped, not fatal", func(t *testing.T) {
		path := writeEXIFFixture(t, t.TempDir(),
			"xxxx:xx:xx xx:xx:xx", "2025:03:03 10:00:00")
		require.NoError(t, os.Chtimes(path, mtime, mtime))

		got := New(true).Resolve(path)

		assert.True(t, got.Equal(time.Date(2025, 3, 3, 10, 0, 0, 0, time.Local)))
	})

	t.Run("disabled metadata ignores embedded time", func(t *testing.T) {
		path := writeEXIFFixture(t, t.TempDir(),
			"2025:01:18 14:30:00", "2025:03:03 10:00:00")
		require.NoError(t, os.Chtimes(path, mtime, mtime))

		got := New(false).Resolve(path)

		assert.True(t, got.Equal(mtime))
	})
}
