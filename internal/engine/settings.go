package engine

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/geowerk/projfile/pkg/projfile"
)

// RenderSettings is the ephemeral render configuration built fresh for
// every extraction or render call. Rotation is always forced to zero.
type RenderSettings struct {
	Background   colorful.Color
	Rotation     float64
	OutputWidth  int
	OutputHeight int
	Extent       Extent
	LayerOrder   []string
	Transform    TransformContext
	Resolver     PathResolver
}

// CanvasOptions selects the output geometry a canvas read targets.
type CanvasOptions struct {
	OutputWidth  int
	OutputHeight int
}

// ReadCanvasSettings reads canvas configuration from a loaded project and
// returns resolved render settings. This is a plain synchronous call: the
// settings are fully populated when it returns.
//
// The background color is composed from the three numeric canvas color
// entries, each independently defaulting to 255 when absent. Among the
// possibly many canvas-configuration nodes, only the one named
// projfile.CanvasNodeName contributes its extent.
func ReadCanvasSettings(p *Project, opts CanvasOptions) *RenderSettings {
	r, _ := p.ReadNumEntry("Gui", "/CanvasColorRedPart", 255)
	g, _ := p.ReadNumEntry("Gui", "/CanvasColorGreenPart", 255)
	b, _ := p.ReadNumEntry("Gui", "/CanvasColorBluePart", 255)

	settings := &RenderSettings{
		Background: colorful.Color{
			R: float64(r) / 255.0,
			G: float64(g) / 255.0,
			B: float64(b) / 255.0,
		},
		Rotation:     0,
		OutputWidth:  opts.OutputWidth,
		OutputHeight: opts.OutputHeight,
		Transform:    p.TransformContext(),
		Resolver:     p.PathResolver(),
	}

	for _, canvas := range p.doc.MapCanvases {
		if canvas.Name == projfile.CanvasNodeName {
			settings.Extent = canvas.Extent.toExtent()
		}
	}

	return settings
}

// BackgroundHex returns the background color as a lowercase hex string,
// e.g. "#ffffff".
func (s *RenderSettings) BackgroundHex() string {
	return s.Background.Hex()
}

// VisibleExtent expands the canvas extent to match the output aspect
// ratio, keeping the center fixed. The canvas extent stays fully visible;
// one axis grows to fill the remaining output. This normalization makes
// extents comparable across projects regardless of the authoring display
// size.
func (s *RenderSettings) VisibleExtent() Extent {
	e := s.Extent
	if e.IsEmpty() || s.OutputWidth <= 0 || s.OutputHeight <= 0 {
		return e
	}

	unitsPerPixel := maxFloat(
		e.Width()/float64(s.OutputWidth),
		e.Height()/float64(s.OutputHeight),
	)
	halfW := unitsPerPixel * float64(s.OutputWidth) / 2
	halfH := unitsPerPixel * float64(s.OutputHeight) / 2
	cx, cy := e.Center()

	return Extent{
		XMin: cx - halfW,
		YMin: cy - halfH,
		XMax: cx + halfW,
		YMax: cy + halfH,
	}
}
