package exifdate

import (
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// EXIF date strings carry no zone and are sometimes NUL-padded.
const timeLayout = "2006:01:02 15:04:05"

// fields in preference order: original capture time first, then the generic
// DateTime, then the digitized time.
var fields = []exif.FieldName{exif.DateTimeOriginal, exif.DateTime, exif.DateTimeDigitized}

// Resolver attributes a date to a photo file. It never fails: when metadata
// is absent, unreadable or disabled it answers with the file's mtime.
type Resolver struct {
	useEXIF bool
}

func New(useEXIF bool) *Resolver {
	return &Resolver{useEXIF: useEXIF}
}

func (r *Resolver) Resolve(path string) time.Time {
	if r.useEXIF {
		if t, ok := r.exifDate(path); ok {
			return t
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return time.Now()
	}

	return info.ModTime()
}

func (r *Resolver) exifDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}

	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}

	for _, field := range fields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}

		val, err := tag.StringVal()
		if err != nil {
			continue
		}

		if t, ok := parseTimestamp(val); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.Trim(s, "\x00 ")
	t, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
