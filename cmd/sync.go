package cmd

import (
	"fmt"
	"time"

	"lulofoto/internal/config"
	"lulofoto/internal/exifdate"
	"lulofoto/internal/logger"
	"lulofoto/internal/model"
	"lulofoto/internal/organizer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	forceAll  bool
	startDate string
	noEXIF    bool
)

var syncCmd = &cobra.Command{
	Use:   "sync [source] [destination]",
	Short: "Copy photos from source into date buckets under destination",
	Long: `Copy photos from source into date-bucketed folders (YYMMDD) under
destination. Reruns are incremental: files already copied and unchanged
since the last sync are skipped. Source and destination may be omitted
once they have been saved to the user config.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	src, dst := resolveDirs(args)
	if src == "" || dst == "" {
		return fmt.Errorf("source and destination are required; pass them once and they are saved for later runs")
	}

	floorStr := startDate
	if floorStr == "" {
		floorStr = cfg.StartDate
	}

	opts := model.Options{ForceAll: forceAll}
	if floorStr != "" {
		floor, err := time.ParseInLocation("060102", floorStr, time.Local)
		if err != nil {
			return fmt.Errorf("invalid start date %q, expected YYMMDD (e.g. 250118)", floorStr)
		}
		opts.DateFloor = &floor
	}

	engine, err := organizer.New(src, dst, exifdate.New(!noEXIF), opts)
	if err != nil {
		return err
	}

	logger.Log.Info("starting sync",
		zap.String("src", src),
		zap.String("dst", dst))

	stats, err := engine.Run()
	if err != nil {
		return err
	}

	fmt.Printf("done: %d found, %d copied, %d skipped, %d errors\n",
		stats.TotalFound, stats.Copied, stats.Skipped, stats.Errors)

	if len(args) > 0 || startDate != "" {
		cfg.Source, cfg.Destination, cfg.StartDate = src, dst, floorStr
		if err := config.Save(cfg); err != nil {
			logger.Log.Warn("failed to save config",
				zap.Error(err))
		}
	}

	return nil
}

func resolveDirs(args []string) (string, string) {
	src, dst := cfg.Source, cfg.Destination
	if len(args) > 0 {
		src = args[0]
	}
	if len(args) > 1 {
		dst = args[1]
	}

	return src, dst
}

func init() {
	syncCmd.Flags().BoolVarP(&forceAll, "force-all", "f", false, "Copy all files, ignoring the last sync time")
	syncCmd.Flags().StringVarP(&startDate, "start-date", "s", "", "Only copy photos taken on or after this date (YYMMDD)")
	syncCmd.Flags().BoolVar(&noEXIF, "no-exif", false, "Skip EXIF metadata and bucket by modification time only")
	rootCmd.AddCommand(syncCmd)
}
