package details

import (
	"github.com/geowerk/projfile/internal/engine"
	"github.com/geowerk/projfile/pkg/projfile"
)

// Extract reads the fixed field set from a loaded project and returns a
// freshly constructed summary. Nothing is cached and the project is not
// mutated.
//
// The canvas extent is recovered at a fixed 1024x768 output with zero
// rotation so extents are comparable across projects regardless of the
// actual display size the project was authored on.
func Extract(p *engine.Project, log projfile.Logger) *projfile.ProjectDetails {
	log.Info("Extracting project details: %s", p.FilePath())

	settings := engine.ReadCanvasSettings(p, engine.CanvasOptions{
		OutputWidth:  projfile.DetailsCanvasWidth,
		OutputHeight: projfile.DetailsCanvasHeight,
	})

	log.Info("Extracting layer and datasource details")
	layers := LayersData(p)

	attachmentDirs, _ := p.ReadListEntry(
		"QFieldSync", "attachmentDirs", []string{projfile.DefaultAttachmentDir})

	details := &projfile.ProjectDetails{
		CRS:             p.CRSAuthID(),
		ProjectName:     p.Title(),
		BackgroundColor: settings.BackgroundHex(),
		Extent:          settings.VisibleExtent().AsWKTPolygon(),
		LayersByID:      layers,
		OrderedLayerIDs: layers.IDs(),
		AttachmentDirs:  attachmentDirs,
	}

	log.Info("Project layer checks\n%s", LayersDataToString(layers))

	return details
}
