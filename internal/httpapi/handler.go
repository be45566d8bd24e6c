// Package httpapi exposes a loaded project over a small HTTP surface:
// a greeting index, the project details as JSON, an on-demand thumbnail,
// and Prometheus metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/geowerk/projfile/internal/details"
	"github.com/geowerk/projfile/internal/engine"
	"github.com/geowerk/projfile/internal/thumbnail"
	"github.com/geowerk/projfile/pkg/projfile"
)

// Server serves a single loaded project.
type Server struct {
	project       *engine.Project
	log           projfile.Logger
	renderTimeout time.Duration
	thumbOpts     thumbnail.Options
	metrics       *metrics
}

// NewHandler builds the HTTP handler for a loaded project.
// Panics if project or log is nil.
func NewHandler(project *engine.Project, log projfile.Logger, renderTimeout time.Duration, thumbOpts thumbnail.Options) http.Handler {
	if project == nil {
		panic("project cannot be nil")
	}
	if log == nil {
		panic("log cannot be nil")
	}
	if renderTimeout <= 0 {
		renderTimeout = projfile.DefaultRenderTimeout
	}

	s := &Server{
		project:       project,
		log:           log,
		renderTimeout: renderTimeout,
		thumbOpts:     thumbOpts,
		metrics:       newMetrics(),
	}

	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/details", s.handleDetails)
	r.Get("/thumbnail.png", s.handleThumbnail)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return r
}

// handleIndex greets the caller by name, defaulting to "Guest".
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "Guest"
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Hello, %s!\n", name)
	s.count("/", http.StatusOK)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	d := details.Extract(s.project, s.log)
	s.metrics.detailsDuration.Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(d); err != nil {
		s.log.Error("details encode failed: %v", err)
		s.count("/details", http.StatusInternalServerError)
		return
	}
	s.count("/details", http.StatusOK)
}

func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.renderTimeout)
	defer cancel()

	start := time.Now()
	img, err := thumbnail.Render(ctx, s.project, s.thumbOpts, s.log)
	if err != nil {
		s.log.Error("thumbnail render failed: %v", err)
		http.Error(w, "thumbnail render failed", http.StatusInternalServerError)
		s.count("/thumbnail.png", http.StatusInternalServerError)
		return
	}
	s.metrics.renderDuration.Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		s.log.Error("thumbnail encode failed: %v", err)
		s.count("/thumbnail.png", http.StatusInternalServerError)
		return
	}
	s.count("/thumbnail.png", http.StatusOK)
}

func (s *Server) count(route string, status int) {
	s.metrics.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
