package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"lulofoto/internal/exifdate"
	"lulofoto/internal/logger"
	"lulofoto/internal/model"
	"lulofoto/internal/organizer"
	"lulofoto/internal/pipeline"
	"lulofoto/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	watchBuffer   = 100
	debounceDelay = 2 * time.Second
)

var watchCmd = &cobra.Command{
	Use:   "watch [source] [destination]",
	Short: "Watch the source and sync new photos as they appear",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	src, dst := resolveDirs(args)
	if src == "" || dst == "" {
		return fmt.Errorf("source and destination are required; pass them once and they are saved for later runs")
	}

	engine, err := organizer.New(src, dst, exifdate.New(true), model.Options{})
	if err != nil {
		return err
	}

	absDst, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}

	w, err := watcher.New(watchBuffer, absDst)
	if err != nil {
		return err
	}
	if err := w.Watch(src); err != nil {
		return err
	}
	defer w.Stop()

	events := pipeline.Debounce(
		pipeline.Filter(w.Events(), organizer.IsImageFile),
		debounceDelay)

	// Catch up before waiting for changes.
	if stats, err := engine.Run(); err != nil {
		return err
	} else {
		logger.Log.Info("initial sync finished",
			zap.Int("copied", stats.Copied),
			zap.Int("skipped", stats.Skipped),
			zap.Int("errors", stats.Errors))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigCh:
			logger.Log.Info("shutting down",
				zap.String("signal", sig.String()))
			return nil

		case _, ok := <-events:
			if !ok {
				return nil
			}
			drain(events)

			stats, err := engine.Run()
			if err != nil {
				logger.Log.Error("sync run failed",
					zap.Error(err))
				continue
			}
			logger.Log.Info("sync run finished",
				zap.Int("copied", stats.Copied),
				zap.Int("skipped", stats.Skipped),
				zap.Int("errors", stats.Errors))
		}
	}
}

// drain coalesces the rest of an event burst into the run we are about to
// start.
func drain(ch <-chan model.FileEvent) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
