package model

import "time"

// PhotoRecord describes one candidate file during a walk.
type PhotoRecord struct {
	SourcePath  string
	RelativeKey string
	ModTime     time.Time
	PhotoDate   time.Time
}

// Options controls a single engine run.
type Options struct {
	ForceAll  bool
	DateFloor *time.Time
}

type RunStats struct {
	TotalFound int
	Copied     int
	Skipped    int
	Errors     int
}

// FileEvent is a change notification from the source watcher.
type FileEvent struct {
	Path      string
	Timestamp time.Time
}
