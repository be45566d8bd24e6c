// Package cli wires the projfile commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/geowerk/projfile/internal/config"
	"github.com/geowerk/projfile/internal/logging"
	"github.com/geowerk/projfile/pkg/projfile"
)

var rootCmd = &cobra.Command{
	Use:   "projfile",
	Short: "Geospatial project file toolkit",
	Long: `projfile validates geospatial project files, summarizes their layers
and canvas settings, and renders preview thumbnails.

Supported containers:
  .qgs - XML project document
  .qgz - compressed project archive

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  11 - Project file not found
  12 - Unrecognized project file extension
  13 - Project file is not well-formed or not readable
  14 - Thumbnail could not be rendered or saved`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("env-file", "",
		"Load environment variables from a dotenv file before running.\n"+
			"Recognized variables: PROJFILE_RENDER_TIMEOUT, PROJFILE_SERVE_ADDR")
}

// newLogger builds the command logger from the persistent verbose flag.
func newLogger(cmd *cobra.Command) projfile.Logger {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		verbose = false
	}
	return logging.NewConsoleLogger(verbose)
}

// loadEnvFile applies the --env-file flag, if given.
func loadEnvFile(cmd *cobra.Command, log projfile.Logger) error {
	path, err := cmd.Flags().GetString("env-file")
	if err != nil || path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("env file %s: %v: %w", path, err, projfile.ErrInvalidConfig)
	}
	log.Verbose("loaded environment from %s", path)
	return nil
}

// resolveConfig layers configuration for a project path:
// defaults < projfile.yaml next to the project < environment variables.
func resolveConfig(projectPath string) (*config.ToolConfig, error) {
	cfg := config.Defaults()

	fileCfg, err := config.Load(filepath.Dir(projectPath))
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, err
	}
	cfg.Merge(fileCfg)

	if v := os.Getenv("PROJFILE_RENDER_TIMEOUT"); v != "" {
		cfg.RenderTimeout = v
	}
	if v := os.Getenv("PROJFILE_SERVE_ADDR"); v != "" {
		cfg.Serve.Addr = v
	}
	return cfg, nil
}
