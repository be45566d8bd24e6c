package engine

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geowerk/projfile/internal/logging"
	"github.com/geowerk/projfile/pkg/projfile"
)

func testSettings(layers []string) *RenderSettings {
	return &RenderSettings{
		Background:   colorful.Color{R: 1, G: 1, B: 1},
		OutputWidth:  100,
		OutputHeight: 100,
		Extent:       Extent{XMin: 0, YMin: 0, XMax: 100, YMax: 100},
		LayerOrder:   layers,
	}
}

func TestRenderJob_ZeroLayersProducesBackgroundOnlyImage(t *testing.T) {
	job := NewRenderJob(testSettings(nil), nil, logging.NewNullLogger())
	job.Start()

	ctx, cancel := context.WithTimeout(context.Background(), projfile.DefaultRenderTimeout)
	defer cancel()

	img, err := job.Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, img)

	bounds := img.Bounds()
	assert.Equal(t, 100, bounds.Dx())
	assert.Equal(t, 100, bounds.Dy())

	r, g, b, _ := img.At(50, 50).RGBA()
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255},
		color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255})
}

func TestRenderJob_LayerFootprintIsDrawn(t *testing.T) {
	layerExtent := Extent{XMin: 25, YMin: 25, XMax: 75, YMax: 75}
	layers := []Layer{{
		ID:         "roads_a1",
		Provider:   "ogr",
		Datasource: "roads.gpkg",
		Extent:     &layerExtent,
	}}

	job := NewRenderJob(testSettings([]string{"roads_a1"}), layers, logging.NewNullLogger())
	job.Start()

	ctx, cancel := context.WithTimeout(context.Background(), projfile.DefaultRenderTimeout)
	defer cancel()

	img, err := job.Wait(ctx)
	require.NoError(t, err)

	// Center pixel is covered by the layer footprint, corner is not.
	center := img.At(50, 50)
	corner := img.At(1, 1)
	assert.NotEqual(t, corner, center)

	cr, cg, cb, _ := corner.RGBA()
	assert.Equal(t, uint32(0xffff), cr)
	assert.Equal(t, uint32(0xffff), cg)
	assert.Equal(t, uint32(0xffff), cb)
}

func TestRenderJob_WaitHonorsCancelledContext(t *testing.T) {
	job := NewRenderJob(testSettings(nil), nil, logging.NewNullLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The job never starts; the wait still returns promptly.
	_, err := job.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderJob_WaitTimesOut(t *testing.T) {
	job := NewRenderJob(testSettings(nil), nil, logging.NewNullLogger())
	// Deliberately not started: the wait must be bounded regardless.

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := job.Wait(ctx)
	assert.ErrorIs(t, err, projfile.ErrRenderTimeout)
}

func TestRenderJob_StartIsIdempotent(t *testing.T) {
	job := NewRenderJob(testSettings(nil), nil, logging.NewNullLogger())
	job.Start()
	job.Start()

	ctx, cancel := context.WithTimeout(context.Background(), projfile.DefaultRenderTimeout)
	defer cancel()

	_, err := job.Wait(ctx)
	assert.NoError(t, err)
}

func TestRenderJob_IDsAreUnique(t *testing.T) {
	a := NewRenderJob(testSettings(nil), nil, logging.NewNullLogger())
	b := NewRenderJob(testSettings(nil), nil, logging.NewNullLogger())
	assert.NotEqual(t, a.ID(), b.ID())
}
