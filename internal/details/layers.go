package details

import (
	"fmt"
	"strings"

	"github.com/geowerk/projfile/internal/engine"
	"github.com/geowerk/projfile/pkg/projfile"
)

// LayersData enumerates the project layers as an insertion-ordered
// mapping from layer id to descriptor. Layers appear in the project's
// top-to-bottom draw order; registry layers missing from the layer tree
// are appended in document order so nothing is silently dropped.
func LayersData(p *engine.Project) *projfile.LayerMap {
	layers := projfile.NewLayerMap()

	for _, id := range p.LayerTreeOrder() {
		if layer, ok := p.LayerByID(id); ok {
			layers.Set(id, toLayerData(layer))
		}
	}
	for _, layer := range p.Layers() {
		if _, ok := layers.Get(layer.ID); !ok {
			layers.Set(layer.ID, toLayerData(layer))
		}
	}

	return layers
}

func toLayerData(layer engine.Layer) projfile.LayerData {
	return projfile.LayerData{
		ID:         layer.ID,
		Name:       layer.Name,
		CRS:        layer.CRSAuthID,
		Type:       layer.Type,
		Provider:   layer.Provider,
		Datasource: layer.Datasource,
		IsValid:    layer.Valid(),
	}
}

// LayersDataToString renders the layers mapping as a multi-line
// diagnostic dump, one layer per line.
func LayersDataToString(layers *projfile.LayerMap) string {
	if layers.Len() == 0 {
		return "(no layers)"
	}

	var b strings.Builder
	for _, id := range layers.IDs() {
		layer, _ := layers.Get(id)
		fmt.Fprintf(&b, "layer_id=%s name=%q provider=%s crs=%s valid=%t datasource=%q\n",
			layer.ID, layer.Name, layer.Provider, layer.CRS, layer.IsValid, layer.Datasource)
	}
	return strings.TrimRight(b.String(), "\n")
}
