package organizer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lulofoto/internal/exifdate"
	"lulofoto/internal/logger"
	"lulofoto/internal/model"
	"lulofoto/internal/planner"
	"lulofoto/internal/state"
	"lulofoto/internal/util"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// LockFileName is the advisory lock taken inside the destination so two runs
// cannot share one state sidecar.
const LockFileName = ".lulofoto.lock"

// flushEvery bounds how much bookkeeping a crash can lose: the state sidecar
// is rewritten after this many copies, not only at run end.
const flushEvery = 25

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
	".heic": true,
	".heif": true,
	".raw":  true,
	".cr2":  true,
	".nef":  true,
	".arw":  true,
	".dng":  true,
}

func IsImageFile(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

type action int

const (
	actionSkipped action = iota
	actionCopied
)

// Engine walks a source tree and copies each photo into a date bucket under
// the destination, consulting the state sidecar to keep reruns incremental.
type Engine struct {
	source   string
	dest     string
	resolver *exifdate.Resolver
	planner  *planner.Planner
	opts     model.Options
}

func New(source, dest string, resolver *exifdate.Resolver, opts model.Options) (*Engine, error) {
	absSrc, err := filepath.Abs(source)
	if err != nil {
		return nil, fmt.Errorf("invalid source path: %w", err)
	}
	absDst, err := filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("invalid destination path: %w", err)
	}

	if info, err := os.Stat(absSrc); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("source directory does not exist: %s", absSrc)
	}

	if err := os.MkdirAll(absDst, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination dir: %w", err)
	}

	return &Engine{
		source:   absSrc,
		dest:     absDst,
		resolver: resolver,
		planner:  planner.New(absDst),
		opts:     opts,
	}, nil
}

// Run performs one full walk. Per-file failures are counted and logged but
// never abort the walk; only the destination lock can fail the run here.
func (e *Engine) Run() (model.RunStats, error) {
	var stats model.RunStats

	lock := flock.New(filepath.Join(e.dest, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return stats, fmt.Errorf("failed to lock destination: %w", err)
	}
	if !locked {
		return stats, fmt.Errorf("destination is in use by another run: %s", e.dest)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	st := state.Load(e.dest)
	e.logMode(st)

	copiesSinceFlush := 0
	walkErr := filepath.WalkDir(e.source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Log.Warn("skipping unreadable path",
				zap.String("path", path),
				zap.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			// The destination may live inside the source tree.
			if path == e.dest {
				return fs.SkipDir
			}
			return nil
		}

		if !IsImageFile(d.Name()) {
			return nil
		}

		stats.TotalFound++

		act, err := e.process(path, d, st)
		if err != nil {
			stats.Errors++
			logger.Log.Error("failed to process file",
				zap.String("path", path),
				zap.Error(err))
			return nil
		}

		switch act {
		case actionCopied:
			stats.Copied++
			copiesSinceFlush++
			if copiesSinceFlush >= flushEvery {
				e.flush(st)
				copiesSinceFlush = 0
			}
		case actionSkipped:
			stats.Skipped++
		}

		return nil
	})
	if walkErr != nil {
		return stats, fmt.Errorf("failed to walk source: %w", walkErr)
	}

	now := time.Now()
	st.LastSync = &now
	e.flush(st)

	return stats, nil
}

func (e *Engine) process(path string, d fs.DirEntry, st *state.SyncState) (action, error) {
	info, err := d.Info()
	if err != nil {
		return actionSkipped, fmt.Errorf("failed to stat file: %w", err)
	}

	rel, err := filepath.Rel(e.source, path)
	if err != nil {
		return actionSkipped, fmt.Errorf("failed to compute relative path: %w", err)
	}

	rec := model.PhotoRecord{
		SourcePath:  path,
		RelativeKey: filepath.ToSlash(rel),
		ModTime:     info.ModTime(),
	}

	if e.opts.DateFloor != nil {
		// Resolve up front so the floor can short-circuit before any state
		// lookup.
		rec.PhotoDate = e.resolver.Resolve(path)
		if rec.PhotoDate.Before(*e.opts.DateFloor) {
			return actionSkipped, nil
		}
		return e.copy(rec, st)
	}

	if !e.opts.ForceAll && st.LastSync != nil &&
		!rec.ModTime.After(*st.LastSync) && st.Contains(rec.RelativeKey) {
		return actionSkipped, nil
	}

	rec.PhotoDate = e.resolver.Resolve(path)
	return e.copy(rec, st)
}

func (e *Engine) copy(rec model.PhotoRecord, st *state.SyncState) (action, error) {
	dst, err := e.planner.PlanDestination(rec.PhotoDate, filepath.Base(rec.SourcePath))
	if err != nil {
		return actionSkipped, err
	}

	if err := util.CopyFile(rec.SourcePath, dst); err != nil {
		return actionSkipped, err
	}

	st.Record(rec.RelativeKey, rec.PhotoDate)

	logger.Log.Info("copied",
		zap.String("file", filepath.Base(rec.SourcePath)),
		zap.String("bucket", planner.BucketFor(rec.PhotoDate)))
	return actionCopied, nil
}

func (e *Engine) flush(st *state.SyncState) {
	if err := state.Save(e.dest, st); err != nil {
		logger.Log.Warn("failed to save state file",
			zap.Error(err))
	}
}

func (e *Engine) logMode(st *state.SyncState) {
	switch {
	case e.opts.DateFloor != nil:
		logger.Log.Info("copying photos from floor date onwards",
			zap.String("floor", e.opts.DateFloor.Format("2006-01-02")))
	case st.LastSync != nil && !e.opts.ForceAll:
		logger.Log.Info("copying new and modified files only",
			zap.Time("last_sync", *st.LastSync))
	default:
		logger.Log.Info("copying all files")
	}
}
