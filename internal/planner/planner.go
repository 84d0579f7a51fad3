package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BucketFor names the destination subfolder for a photo date: two-digit
// year, month and day, zero-padded.
func BucketFor(photoDate time.Time) string {
	return photoDate.Format("060102")
}

type Planner struct {
	destRoot string
}

func New(destRoot string) *Planner {
	return &Planner{destRoot: destRoot}
}

// PlanDestination creates the bucket folder if needed and returns a target
// path that does not exist yet. Name clashes get a numeric suffix before the
// extension: name_1.ext, name_2.ext, and so on. The check-then-create window
// is only safe for a single writer.
func (p *Planner) PlanDestination(photoDate time.Time, originalName string) (string, error) {
	bucket := filepath.Join(p.destRoot, BucketFor(photoDate))
	if err := os.MkdirAll(bucket, 0755); err != nil {
		return "", fmt.Errorf("failed to create bucket dir: %w", err)
	}

	dst := filepath.Join(bucket, originalName)
	if !exists(dst) {
		return dst, nil
	}

	ext := filepath.Ext(originalName)
	base := strings.TrimSuffix(originalName, ext)
	for i := 1; ; i++ {
		dst = filepath.Join(bucket, fmt.Sprintf("%s_%d%s", base, i, ext))
		if !exists(dst) {
			return dst, nil
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
