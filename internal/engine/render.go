package engine

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/geowerk/projfile/pkg/projfile"
)

// RenderJob rasterizes configured layers into an image on its own
// goroutine. Callers create the job, Start it, and block in Wait until
// the draw completes, the context deadline expires, or the job is
// cancelled. There are no partial results and no progress reporting.
type RenderJob struct {
	id       uuid.UUID
	settings *RenderSettings
	layers   []Layer
	log      projfile.Logger

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
	img       *image.RGBA
	err       error
}

// NewRenderJob creates a render job for the given settings. layers are
// the resolved descriptors for settings.LayerOrder, already in
// bottom-to-top draw order.
func NewRenderJob(settings *RenderSettings, layers []Layer, log projfile.Logger) *RenderJob {
	if settings == nil {
		panic("settings cannot be nil")
	}
	if log == nil {
		panic("log cannot be nil")
	}
	return &RenderJob{
		id:       uuid.New(),
		settings: settings,
		layers:   layers,
		log:      log,
		done:     make(chan struct{}),
	}
}

// ID returns the job identifier used in logs and timeout errors.
func (j *RenderJob) ID() uuid.UUID {
	return j.id
}

// Start launches the draw work asynchronously. Subsequent calls are
// no-ops.
func (j *RenderJob) Start() {
	j.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		j.cancel = cancel
		j.log.Verbose("render job %s: started (%dx%d, %d layers)",
			j.id, j.settings.OutputWidth, j.settings.OutputHeight, len(j.layers))
		go j.run(ctx)
	})
}

// Cancel aborts a running job. Wait returns context.Canceled for a
// cancelled job.
func (j *RenderJob) Cancel() {
	if j.cancel != nil {
		j.cancel()
	}
}

// Wait blocks until the job finishes and returns the rendered image.
// The wait is bounded by ctx: on deadline expiry the job is cancelled and
// a render-timeout error is returned.
func (j *RenderJob) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-j.done:
		return j.img, j.err
	case <-ctx.Done():
		j.Cancel()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("render job %s: %w", j.id, projfile.ErrRenderTimeout)
		}
		return nil, ctx.Err()
	}
}

func (j *RenderJob) run(ctx context.Context) {
	defer close(j.done)

	s := j.settings
	img := image.NewRGBA(image.Rect(0, 0, s.OutputWidth, s.OutputHeight))

	bg := color.RGBA{
		R: uint8(s.Background.R*255 + 0.5),
		G: uint8(s.Background.G*255 + 0.5),
		B: uint8(s.Background.B*255 + 0.5),
		A: 255,
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	visible := s.VisibleExtent()
	for _, layer := range j.layers {
		if err := ctx.Err(); err != nil {
			j.err = err
			j.log.Verbose("render job %s: aborted: %v", j.id, err)
			return
		}
		j.drawLayer(img, visible, layer)
	}

	j.img = img
	j.log.Verbose("render job %s: finished", j.id)
}

// drawLayer rasterizes a single layer as its extent footprint. Layers
// without an extent, or whose extent falls outside the visible extent,
// contribute nothing.
func (j *RenderJob) drawLayer(img *image.RGBA, visible Extent, layer Layer) {
	if layer.Extent == nil || visible.IsEmpty() {
		return
	}

	clipped := layer.Extent.Intersect(visible)
	if clipped.IsEmpty() {
		return
	}

	j.log.Verbose("render job %s: layer %s from %s",
		j.id, layer.ID, j.settings.Resolver.Resolve(layer.Datasource))

	rect := extentToPixels(clipped, visible, j.settings.OutputWidth, j.settings.OutputHeight)
	draw.Draw(img, rect, image.NewUniform(layerColor(layer.ID)), image.Point{}, draw.Over)
}

// extentToPixels maps an extent to output pixel coordinates. The pixel
// y-axis grows downward, so the extent's YMax maps to the rect top.
func extentToPixels(e, visible Extent, width, height int) image.Rectangle {
	sx := float64(width) / visible.Width()
	sy := float64(height) / visible.Height()
	return image.Rect(
		int((e.XMin-visible.XMin)*sx),
		int((visible.YMax-e.YMax)*sy),
		int((e.XMax-visible.XMin)*sx),
		int((visible.YMax-e.YMin)*sy),
	)
}

// layerColor derives a stable, distinct color from the layer id.
func layerColor(id string) color.Color {
	h := fnv.New32a()
	h.Write([]byte(id))
	hue := float64(h.Sum32() % 360)
	c := colorful.Hsv(hue, 0.55, 0.85)
	return color.NRGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: 200,
	}
}
