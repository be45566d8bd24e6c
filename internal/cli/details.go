package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/geowerk/projfile/internal/details"
	"github.com/geowerk/projfile/internal/engine"
	"github.com/geowerk/projfile/internal/xmlcheck"
	"github.com/geowerk/projfile/pkg/projfile"
)

type detailsFlags struct {
	asJSON bool
}

var detailsOpts detailsFlags

var detailsCmd = &cobra.Command{
	Use:   "details <project_file>",
	Short: "Print a structured summary of a project file",
	Long: `Details validates and loads a project file, then prints its coordinate
reference system, title, canvas background color, normalized canvas
extent, layers, and attachment directories.

The default output is a human-readable summary. Pass --json for the
machine-readable form, which preserves the project layer order in
layers_by_id and ordered_layer_ids.

Examples:
  projfile details survey.qgs
  projfile details survey.qgz --json | jq .crs`,
	Args: cobra.ExactArgs(1),
	RunE: runDetails,
}

func init() {
	detailsCmd.Flags().BoolVar(&detailsOpts.asJSON, "json", false,
		"Emit the summary as JSON")
	rootCmd.AddCommand(detailsCmd)
}

func runDetails(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	if err := loadEnvFile(cmd, log); err != nil {
		return err
	}

	if err := xmlcheck.CheckProjectFile(args[0], log); err != nil {
		return err
	}
	project, err := engine.Open(args[0], log)
	if err != nil {
		return err
	}

	d := details.Extract(project, log)

	if detailsOpts.asJSON {
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), renderDetails(d))
	return nil
}

var (
	detailsTitleStyle = lipgloss.NewStyle().Bold(true)
	detailsKeyStyle   = lipgloss.NewStyle().Faint(true).Width(16)
	layerValidStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	layerBrokenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func renderDetails(d *projfile.ProjectDetails) string {
	var b strings.Builder

	name := d.ProjectName
	if name == "" {
		name = "(untitled project)"
	}
	b.WriteString(detailsTitleStyle.Render(name))
	b.WriteByte('\n')

	row := func(key, value string) {
		b.WriteString(detailsKeyStyle.Render(key))
		b.WriteByte(' ')
		b.WriteString(value)
		b.WriteByte('\n')
	}
	row("CRS", d.CRS)
	row("Background", d.BackgroundColor)
	row("Extent", d.Extent)
	row("Attachment dirs", strings.Join(d.AttachmentDirs, ", "))
	row("Layers", fmt.Sprintf("%d", d.LayersByID.Len()))

	for _, id := range d.OrderedLayerIDs {
		layer, ok := d.LayersByID.Get(id)
		if !ok {
			continue
		}
		state := layerValidStyle.Render("ok")
		if !layer.IsValid {
			state = layerBrokenStyle.Render("invalid")
		}
		b.WriteString(fmt.Sprintf("  %s  %s (%s, %s) %s\n",
			layer.ID, layer.Name, layer.Provider, layer.CRS, state))
	}
	return b.String()
}
