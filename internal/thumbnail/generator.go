// Package thumbnail renders a small preview image from a loaded project
// and persists it to a caller-supplied path.
package thumbnail

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/geowerk/projfile/internal/engine"
	"github.com/geowerk/projfile/pkg/projfile"
)

// Options controls the thumbnail output geometry.
type Options struct {
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = projfile.DefaultThumbnailWidth
	}
	if o.Height <= 0 {
		o.Height = projfile.DefaultThumbnailHeight
	}
	return o
}

// Render rasterizes the project map canvas into a small in-memory image.
// The render runs asynchronously on the engine; the calling goroutine
// blocks until the job completes or ctx expires.
//
// The layer order handed to the renderer is the project's top-to-bottom
// tree order reversed, matching the renderer's bottom-to-top draw order.
// A project with zero layers still renders a background-only image.
func Render(ctx context.Context, p *engine.Project, opts Options, log projfile.Logger) (image.Image, error) {
	opts = opts.withDefaults()
	settings := engine.ReadCanvasSettings(p, engine.CanvasOptions{
		OutputWidth:  opts.Width,
		OutputHeight: opts.Height,
	})
	settings.LayerOrder = reversed(p.LayerTreeOrder())

	layers := make([]engine.Layer, 0, len(settings.LayerOrder))
	for _, id := range settings.LayerOrder {
		if layer, ok := p.LayerByID(id); ok {
			layers = append(layers, layer)
		}
	}

	job := engine.NewRenderJob(settings, layers, log)
	job.Start()
	return job.Wait(ctx)
}

// Generate renders the project map canvas and saves it to outPath.
func Generate(ctx context.Context, p *engine.Project, outPath string, opts Options, log projfile.Logger) error {
	log.Info("Generating project thumbnail image: %s", outPath)

	img, err := Render(ctx, p, opts, log)
	if err != nil {
		return err
	}

	if err := save(img, outPath); err != nil {
		log.Error("thumbnail save failed: %v", err)
		return fmt.Errorf("%w: Failed to save", projfile.ErrThumbnailFailed)
	}

	log.Info("Project thumbnail image generated")
	return nil
}

func save(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}
