package projfile

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProjectDetails is the structured summary extracted from a loaded project.
// Field names are part of the serialization contract and must not change.
type ProjectDetails struct {
	// CRS is the authority identifier of the project coordinate reference
	// system, e.g. "EPSG:4326".
	CRS string `json:"crs"`

	// ProjectName is the project title.
	ProjectName string `json:"project_name"`

	// BackgroundColor is the canvas background color as a lowercase hex
	// string, e.g. "#ffffff".
	BackgroundColor string `json:"background_color"`

	// Extent is the canvas extent as a WKT polygon, normalized to a fixed
	// output size so extents are comparable across projects.
	Extent string `json:"extent"`

	// LayersByID maps layer id to its descriptor, preserving the project
	// layer order.
	LayersByID *LayerMap `json:"layers_by_id"`

	// OrderedLayerIDs is the layer id sequence derived from the insertion
	// order of LayersByID.
	OrderedLayerIDs []string `json:"ordered_layer_ids"`

	// AttachmentDirs lists the project attachment directories.
	AttachmentDirs []string `json:"attachment_dirs"`
}

// LayerData describes a single layer referenced by a project.
type LayerData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CRS        string `json:"crs"`
	Type       string `json:"type"`
	Provider   string `json:"provider"`
	Datasource string `json:"datasource"`
	IsValid    bool   `json:"is_valid"`
}

// LayerMap is an insertion-ordered mapping from layer id to LayerData.
// The zero value is not usable; construct with NewLayerMap.
type LayerMap struct {
	ids  []string
	data map[string]LayerData
}

// NewLayerMap creates an empty LayerMap.
func NewLayerMap() *LayerMap {
	return &LayerMap{data: map[string]LayerData{}}
}

// Set inserts or updates the descriptor for id. First insertion determines
// the id position in iteration order.
func (m *LayerMap) Set(id string, layer LayerData) {
	if _, ok := m.data[id]; !ok {
		m.ids = append(m.ids, id)
	}
	m.data[id] = layer
}

// Get returns the descriptor for id.
func (m *LayerMap) Get(id string) (LayerData, bool) {
	l, ok := m.data[id]
	return l, ok
}

// IDs returns the layer ids in insertion order.
// The returned slice is a copy and safe to retain.
func (m *LayerMap) IDs() []string {
	ids := make([]string, len(m.ids))
	copy(ids, m.ids)
	return ids
}

// Len returns the number of layers in the map.
func (m *LayerMap) Len() int {
	return len(m.ids)
}

// MarshalJSON serializes the map as a JSON object whose keys appear in
// insertion order.
func (m *LayerMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.data[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores the map from a JSON object. Go's decoder visits
// object keys in document order, so insertion order survives a round trip.
func (m *LayerMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("layers_by_id: expected JSON object, got %v", tok)
	}

	m.ids = nil
	m.data = map[string]LayerData{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		id := keyTok.(string)
		var layer LayerData
		if err := dec.Decode(&layer); err != nil {
			return err
		}
		m.Set(id, layer)
	}

	_, err = dec.Token() // closing brace
	return err
}
