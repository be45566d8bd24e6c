package cli

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/geowerk/projfile/internal/engine"
	"github.com/geowerk/projfile/internal/httpapi"
	"github.com/geowerk/projfile/internal/thumbnail"
	"github.com/geowerk/projfile/internal/xmlcheck"
)

type serveFlags struct {
	addr string
}

var serveOpts serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve <project_file>",
	Short: "Serve a project over HTTP",
	Long: `Serve validates and loads a project file, then serves it over HTTP:

  GET /               greeting (accepts ?name=)
  GET /details        project summary as JSON
  GET /thumbnail.png  canvas rendered at thumbnail size
  GET /metrics        Prometheus metrics

The listen address can be set with --addr, the PROJFILE_SERVE_ADDR
environment variable, or the serve.addr key in projfile.yaml.

Examples:
  projfile serve survey.qgs
  projfile serve survey.qgs --addr :8080`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "",
		"Listen address (default from config, else 127.0.0.1:8090)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	if err := loadEnvFile(cmd, log); err != nil {
		return err
	}

	cfg, err := resolveConfig(args[0])
	if err != nil {
		return err
	}
	timeout, err := cfg.RenderTimeoutOrDefault()
	if err != nil {
		return err
	}
	addr := cfg.Serve.Addr
	if serveOpts.addr != "" {
		addr = serveOpts.addr
	}

	if err := xmlcheck.CheckProjectFile(args[0], log); err != nil {
		return err
	}
	project, err := engine.Open(args[0], log)
	if err != nil {
		return err
	}

	handler := httpapi.NewHandler(project, log, timeout, thumbnail.Options{
		Width:  cfg.Thumbnail.Width,
		Height: cfg.Thumbnail.Height,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("serving %s on http://%s", args[0], addr)
	return srv.ListenAndServe()
}
