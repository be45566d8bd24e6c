package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/geowerk/projfile/internal/engine"
	"github.com/geowerk/projfile/internal/thumbnail"
	"github.com/geowerk/projfile/internal/xmlcheck"
)

type thumbnailFlags struct {
	width   int
	height  int
	timeout time.Duration
}

var thumbnailOpts thumbnailFlags

var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail <project_file> <output_png>",
	Short: "Render a project thumbnail to a PNG file",
	Long: `Thumbnail validates and loads a project file, renders its canvas at
thumbnail size, and writes the result as a PNG.

Layers are composited bottom to top in the project layer order. The
render is bounded: if it exceeds the timeout the job is cancelled and
the command fails with the thumbnail exit code.

Output geometry and the timeout can also be set in a projfile.yaml next
to the project file; command-line flags take precedence.

Examples:
  projfile thumbnail survey.qgs preview.png
  projfile thumbnail survey.qgs preview.png --width 256 --height 256 --timeout 10s`,
	Args: cobra.ExactArgs(2),
	RunE: runThumbnail,
}

func init() {
	thumbnailCmd.Flags().IntVar(&thumbnailOpts.width, "width", 0,
		"Thumbnail width in pixels (default from config, else 100)")
	thumbnailCmd.Flags().IntVar(&thumbnailOpts.height, "height", 0,
		"Thumbnail height in pixels (default from config, else 100)")
	thumbnailCmd.Flags().DurationVar(&thumbnailOpts.timeout, "timeout", 0,
		"Render timeout (default from config, else 30s)")
	rootCmd.AddCommand(thumbnailCmd)
}

func runThumbnail(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	if err := loadEnvFile(cmd, log); err != nil {
		return err
	}

	projectPath, outputPath := args[0], args[1]

	cfg, err := resolveConfig(projectPath)
	if err != nil {
		return err
	}
	timeout, err := cfg.RenderTimeoutOrDefault()
	if err != nil {
		return err
	}
	if thumbnailOpts.timeout > 0 {
		timeout = thumbnailOpts.timeout
	}

	opts := thumbnail.Options{
		Width:  cfg.Thumbnail.Width,
		Height: cfg.Thumbnail.Height,
	}
	if thumbnailOpts.width > 0 {
		opts.Width = thumbnailOpts.width
	}
	if thumbnailOpts.height > 0 {
		opts.Height = thumbnailOpts.height
	}

	if err := xmlcheck.CheckProjectFile(projectPath, log); err != nil {
		return err
	}
	project, err := engine.Open(projectPath, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if err := thumbnail.Generate(ctx, project, outputPath, opts, log); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Thumbnail written to %s\n", outputPath)
	return nil
}
