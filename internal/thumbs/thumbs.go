package thumbs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lulofoto/internal/logger"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Formats the imaging codecs can decode. Raw camera formats stay with the
// organizer; they have no place in a thumbnail run.
var thumbExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

type Options struct {
	Width    int
	Height   int
	Prefix   string
	Postfix  string
	SizeAbbr string
	KeepName bool
	Quality  int
	ExtCase  string // lower, upper or preserve
}

type Stats struct {
	TotalFound int
	Created    int
	Skipped    int
	Errors     int
}

// SizeAbbr maps a thumbnail width onto the default size code used in
// {size} filename placeholders.
func SizeAbbr(width int) string {
	switch {
	case width <= 200:
		return "xs"
	case width <= 400:
		return "sm"
	case width <= 800:
		return "md"
	case width <= 1200:
		return "lg"
	default:
		return "xl"
	}
}

// OutputName applies the prefix/postfix naming options to an input filename.
// The {size} placeholder expands to the size code.
func OutputName(name string, opts Options) string {
	if opts.KeepName {
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	prefix := strings.ReplaceAll(opts.Prefix, "{size}", opts.SizeAbbr)
	postfix := strings.ReplaceAll(opts.Postfix, "{size}", opts.SizeAbbr)

	switch opts.ExtCase {
	case "upper":
		ext = strings.ToUpper(ext)
	case "preserve":
	default:
		ext = strings.ToLower(ext)
	}

	return prefix + base + postfix + ext
}

// Run generates a thumbnail for every image directly inside sourceDir
// (non-recursive), skipping outputs that already exist.
func Run(sourceDir, outputDir string, opts Options) (Stats, error) {
	var stats Stats

	absSrc, err := filepath.Abs(sourceDir)
	if err != nil {
		return stats, fmt.Errorf("invalid source path: %w", err)
	}
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return stats, fmt.Errorf("invalid output path: %w", err)
	}

	if info, err := os.Stat(absSrc); err != nil || !info.IsDir() {
		return stats, fmt.Errorf("source directory does not exist: %s", absSrc)
	}

	if err := os.MkdirAll(absOut, 0755); err != nil {
		return stats, fmt.Errorf("failed to create output dir: %w", err)
	}

	entries, err := os.ReadDir(absSrc)
	if err != nil {
		return stats, fmt.Errorf("failed to read source dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !thumbExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}

		stats.TotalFound++

		outName := OutputName(entry.Name(), opts)
		outPath := filepath.Join(absOut, outName)

		if _, err := os.Stat(outPath); err == nil {
			stats.Skipped++
			logger.Log.Debug("thumbnail exists, skipping",
				zap.String("file", entry.Name()))
			continue
		}

		if err := create(filepath.Join(absSrc, entry.Name()), outPath, opts); err != nil {
			stats.Errors++
			logger.Log.Error("failed to create thumbnail",
				zap.String("file", entry.Name()),
				zap.Error(err))
			continue
		}

		stats.Created++
		logger.Log.Info("thumbnail created",
			zap.String("file", entry.Name()),
			zap.String("output", outName))
	}

	return stats, nil
}

func create(src, dst string, opts Options) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	// Fit shrinks to the bounding box keeping aspect ratio; it never
	// upscales.
	fitted := imaging.Fit(img, opts.Width, opts.Height, imaging.Lanczos)

	if err := imaging.Save(fitted, dst, imaging.JPEGQuality(opts.Quality)); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return nil
}
