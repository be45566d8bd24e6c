package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geowerk/projfile/internal/xmlcheck"
)

var validateCmd = &cobra.Command{
	Use:   "validate <project_file>",
	Short: "Check a project file for syntactic validity",
	Long: `Validate checks that a project file exists, has a recognized container
extension, and (for the XML container) is well-formed XML.

The XML container is parsed incrementally, so very large files are
checked without loading them fully into memory. On a parse failure the
offending line is re-read and reported as an HTML-safe snippet that
pinpoints the broken byte.

The compressed container is accepted without content inspection; broken
archives are rejected when the project is actually loaded.

Examples:
  projfile validate survey.qgs
  projfile validate --verbose field-data.qgz`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	if err := loadEnvFile(cmd, log); err != nil {
		return err
	}

	if err := xmlcheck.CheckProjectFile(args[0], log); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
	return nil
}
