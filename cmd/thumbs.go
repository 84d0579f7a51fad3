package cmd

import (
	"fmt"

	"lulofoto/internal/logger"
	"lulofoto/internal/thumbs"

	"github.com/spf13/cobra"
)

var (
	thumbPreset  string
	thumbWidth   int
	thumbHeight  int
	thumbPrefix  string
	thumbPostfix string
	keepName     bool
	quality      int
	extCase      string
)

var thumbsCmd = &cobra.Command{
	Use:   "thumbs <source> <output>",
	Short: "Generate thumbnails for every image in a directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runThumbs,
}

func runThumbs(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	if quality < 1 || quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100")
	}

	opts := thumbs.Options{
		KeepName: keepName,
		Quality:  quality,
		ExtCase:  extCase,
	}

	switch {
	case thumbPreset != "":
		preset, ok := cfg.ThumbPresets[thumbPreset]
		if !ok {
			return fmt.Errorf("preset %q not found in config", thumbPreset)
		}
		opts.Width, opts.Height, opts.SizeAbbr = preset.Width, preset.Height, preset.Abbr
	case thumbWidth > 0:
		if thumbHeight <= 0 {
			return fmt.Errorf("--height is required when using --width")
		}
		opts.Width, opts.Height = thumbWidth, thumbHeight
		opts.SizeAbbr = thumbs.SizeAbbr(thumbWidth)
	default:
		opts.Width, opts.Height = cfg.ThumbWidth, cfg.ThumbHeight
		opts.SizeAbbr = thumbs.SizeAbbr(opts.Width)
	}

	if cmd.Flags().Changed("prefix") || cmd.Flags().Changed("postfix") {
		opts.Prefix, opts.Postfix = thumbPrefix, thumbPostfix
	} else if !keepName {
		opts.Postfix = "_thumb"
	}

	stats, err := thumbs.Run(args[0], args[1], opts)
	if err != nil {
		return err
	}

	fmt.Printf("done: %d found, %d created, %d skipped, %d errors\n",
		stats.TotalFound, stats.Created, stats.Skipped, stats.Errors)
	return nil
}

func init() {
	thumbsCmd.Flags().StringVarP(&thumbPreset, "preset", "p", "", "Size preset from config (xs, sm, md, lg, xl)")
	thumbsCmd.Flags().IntVarP(&thumbWidth, "width", "w", 0, "Thumbnail width")
	thumbsCmd.Flags().IntVarP(&thumbHeight, "height", "H", 0, "Thumbnail height (required with --width)")
	thumbsCmd.Flags().StringVar(&thumbPrefix, "prefix", "", "Output filename prefix ({size} expands to the size code)")
	thumbsCmd.Flags().StringVar(&thumbPostfix, "postfix", "", "Output filename postfix ({size} expands to the size code)")
	thumbsCmd.Flags().BoolVar(&keepName, "keep-name", false, "Keep the original filename")
	thumbsCmd.Flags().IntVarP(&quality, "quality", "q", 85, "JPEG quality (1-100)")
	thumbsCmd.Flags().StringVar(&extCase, "ext-case", "lower", "Extension case: lower, upper or preserve")
	thumbsCmd.MarkFlagsMutuallyExclusive("preset", "width")
	thumbsCmd.MarkFlagsMutuallyExclusive("prefix", "postfix", "keep-name")
	rootCmd.AddCommand(thumbsCmd)
}
