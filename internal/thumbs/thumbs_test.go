package thumbs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeImage(t *testing.T, dir, name string, w, h int) {
	t.Helper()

	img := imaging.New(w, h, color.NRGBA{R: 120, G: 80, B: 40, A: 255})
	require.NoError(t, imaging.Save(img, filepath.Join(dir, name)))
}

func TestSizeAbbr(t *testing.T) {
	assert.Equal(t, "xs", SizeAbbr(200))
	assert.Equal(t, "sm", SizeAbbr(400))
	assert.Equal(t, "md", SizeAbbr(800))
	assert.Equal(t, "lg", SizeAbbr(1200))
	assert.Equal(t, "xl", SizeAbbr(1600))
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     Options
		expected string
	}{
		{"default postfix", "photo.jpg", Options{Postfix: "_thumb"}, "photo_thumb.jpg"},
		{"prefix with size", "photo.jpg", Options{Prefix: "{size}_", SizeAbbr: "md"}, "md_photo.jpg"},
		{"postfix with size", "photo.jpg", Options{Postfix: "_{size}", SizeAbbr: "sm"}, "photo_sm.jpg"},
		{"keep name wins", "photo.JPG", Options{KeepName: true, Postfix: "_thumb"}, "photo.JPG"},
		{"lowercases extension by default", "photo.JPG", Options{Postfix: "_thumb"}, "photo_thumb.jpg"},
		{"upper extension", "photo.jpg", Options{Postfix: "_thumb", ExtCase: "upper"}, "photo_thumb.JPG"},
		{"preserve extension", "photo.JpG", Options{Postfix: "_thumb", ExtCase: "preserve"}, "photo_thumb.JpG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OutputName(tt.input, tt.opts))
		})
	}
}

func TestRun(t *testing.T) {
	opts := Options{Width: 40, Height: 40, Postfix: "_thumb", Quality: 85}

	t.Run("fits images into the bounding box", func(t *testing.T) {
		src, out := t.TempDir(), t.TempDir()
		writeImage(t, src, "wide.jpg", 100, 50)
		require.NoError(t, os.WriteFile(filepath.Join(src, "notes.txt"), []byte("x"), 0644))

		stats, err := Run(src, out, opts)
		require.NoError(t, err)

		assert.Equal(t, Stats{TotalFound: 1, Created: 1}, stats)

		thumb, err := imaging.Open(filepath.Join(out, "wide_thumb.jpg"))
		require.NoError(t, err)
		assert.Equal(t, 40, thumb.Bounds().Dx())
		assert.Equal(t, 20, thumb.Bounds().Dy())
	})

	t.Run("skips existing outputs", func(t *testing.T) {
		src, out := t.TempDir(), t.TempDir()
		writeImage(t, src, "wide.jpg", 100, 50)

		_, err := Run(src, out, opts)
		require.NoError(t, err)

		stats, err := Run(src, out, opts)
		require.NoError(t, err)

		assert.Equal(t, Stats{TotalFound: 1, Skipped: 1}, stats)
	})

	t.Run("counts undecodable images as errors", func(t *testing.T) {
		src, out := t.TempDir(), t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(src, "broken.jpg"), []byte("not an image"), 0644))

		stats, err := Run(src, out, opts)
		require.NoError(t, err)

		assert.Equal(t, Stats{TotalFound: 1, Errors: 1}, stats)
	})

	t.Run("fails on a missing source directory", func(t *testing.T) {
		_, err := Run(filepath.Join(t.TempDir(), "nope"), t.TempDir(), opts)

		assert.ErrorContains(t, err, "source directory does not exist")
	})
}
