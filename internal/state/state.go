package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lulofoto/internal/logger"
	"lulofoto/internal/util"

	"go.uber.org/zap"
)

// FileName is the sidecar kept inside every destination directory.
const FileName = ".photo_organizer_state.json"

// SyncState tracks what a previous run already copied. CopiedFiles maps the
// slash-separated source-relative path to the photo date used to place it.
// Entries are never pruned when files vanish from the source.
type SyncState struct {
	LastSync    *time.Time
	CopiedFiles map[string]time.Time
}

type stateFile struct {
	LastSync    *string           `json:"last_sync"`
	CopiedFiles map[string]string `json:"copied_files"`
}

var parseLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

func newDefault() *SyncState {
	return &SyncState{CopiedFiles: make(map[string]time.Time)}
}

// Load reads the sidecar from destDir. A missing or unreadable file is not an
// error: the run simply starts from an empty state.
func Load(destDir string) *SyncState {
	path := filepath.Join(destDir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn("failed to read state file",
				zap.String("path", path),
				zap.Error(err))
		}
		return newDefault()
	}

	var raw stateFile
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Log.Warn("failed to parse state file",
			zap.String("path", path),
			zap.Error(err))
		return newDefault()
	}

	st := newDefault()
	if raw.LastSync != nil {
		if t, ok := parseTime(*raw.LastSync); ok {
			st.LastSync = &t
		}
	}
	for key, val := range raw.CopiedFiles {
		if t, ok := parseTime(val); ok {
			st.CopiedFiles[key] = t
		}
	}

	return st
}

// Save writes the sidecar atomically. Callers treat a failure as a warning:
// the copies already happened, only the bookkeeping is stale.
func Save(destDir string, st *SyncState) error {
	raw := stateFile{CopiedFiles: make(map[string]string, len(st.CopiedFiles))}
	if st.LastSync != nil {
		s := st.LastSync.Format(time.RFC3339Nano)
		raw.LastSync = &s
	}
	for key, val := range st.CopiedFiles {
		raw.CopiedFiles[key] = val.Format(time.RFC3339Nano)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	path := filepath.Join(destDir, FileName)
	if err := util.AtomicWrite(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save state file: %w", err)
	}

	return nil
}

func (s *SyncState) Contains(key string) bool {
	_, ok := s.CopiedFiles[key]
	return ok
}

func (s *SyncState) Record(key string, photoDate time.Time) {
	s.CopiedFiles[key] = photoDate
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
