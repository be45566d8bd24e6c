package engine

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/geowerk/projfile/internal/xmlcheck"
	"github.com/geowerk/projfile/pkg/projfile"
)

// Layer is the engine-level descriptor of a single project layer.
type Layer struct {
	ID         string
	Name       string
	Type       string
	Geometry   string
	Provider   string
	Datasource string
	CRSAuthID  string
	Extent     *Extent
}

// Valid reports whether the layer references a resolvable datasource.
func (l Layer) Valid() bool {
	return l.ID != "" && l.Provider != "" && l.Datasource != ""
}

// Project is a loaded project file. It is an explicit resource: callers
// pass it into extraction and render calls rather than relying on any
// process-wide current project.
type Project struct {
	path string
	doc  *projectDoc
	log  projfile.Logger
}

// Open loads a project file into memory. The XML container is decoded
// directly; the compressed container is opened as a zip archive and the
// single embedded XML project document is decoded from it.
//
// An engine-level read failure is reported as an invalid-project error
// even when the lightweight well-formedness check passed: it covers
// schema-level invalidity the syntactic validator does not look at.
func Open(path string, log projfile.Logger) (*Project, error) {
	if log == nil {
		panic("log cannot be nil")
	}

	log.Info("Opening project file: %s", path)

	var (
		doc *projectDoc
		err error
	)
	switch ext := filepath.Ext(path); ext {
	case projfile.ExtProjectXML:
		doc, err = readProjectXML(path)
	case projfile.ExtProjectArchive:
		doc, err = readProjectArchive(path)
	default:
		return nil, fmt.Errorf("%s: extension %q: %w", path, ext, projfile.ErrInvalidFileExtension)
	}
	if err != nil {
		return nil, &xmlcheck.XMLError{Path: path, Detail: err.Error()}
	}

	log.Info("Project file opened")

	return &Project{path: path, doc: doc, log: log}, nil
}

func readProjectXML(path string) (*projectDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeProjectDoc(f)
}

func readProjectArchive(path string) (*projectDoc, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if !strings.EqualFold(filepath.Ext(entry.Name), projfile.ExtProjectXML) {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive entry %s: %w", entry.Name, err)
		}
		doc, err := decodeProjectDoc(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("archive entry %s: %w", entry.Name, err)
		}
		return doc, nil
	}

	return nil, fmt.Errorf("archive contains no %s project document", projfile.ExtProjectXML)
}

// FilePath returns the path the project was loaded from.
func (p *Project) FilePath() string {
	return p.path
}

// Title returns the project title, falling back to the document's
// projectname attribute when no title element is present.
func (p *Project) Title() string {
	if p.doc.Title != "" {
		return p.doc.Title
	}
	return p.doc.ProjectName
}

// CRSAuthID returns the authority identifier of the project CRS,
// e.g. "EPSG:4326". Empty when the project declares none.
func (p *Project) CRSAuthID() string {
	return p.doc.ProjectCRS.AuthID
}

// ReadNumEntry reads an integer project property. The second return value
// reports whether the entry was present and parseable; otherwise def is
// returned.
func (p *Project) ReadNumEntry(scope, key string, def int) (int, bool) {
	return p.doc.Properties.numEntry(scope, key, def)
}

// ReadListEntry reads a string-list project property, returning def when
// the entry is absent.
func (p *Project) ReadListEntry(scope, key string, def []string) ([]string, bool) {
	return p.doc.Properties.listEntry(scope, key, def)
}

// LayerTreeOrder returns layer ids in the project's top-to-bottom draw
// order: the custom layer order when enabled, the layer tree document
// order otherwise.
func (p *Project) LayerTreeOrder() []string {
	if p.doc.LayerTree.CustomOrder.Enabled != 0 && len(p.doc.LayerTree.CustomOrder.Items) > 0 {
		return append([]string(nil), p.doc.LayerTree.CustomOrder.Items...)
	}
	return p.doc.LayerTree.layerIDs()
}

// Layers returns the project layer descriptors in registry (document)
// order.
func (p *Project) Layers() []Layer {
	layers := make([]Layer, 0, len(p.doc.Layers))
	for _, ml := range p.doc.Layers {
		layer := Layer{
			ID:         ml.ID,
			Name:       ml.Name,
			Type:       ml.Type,
			Geometry:   ml.Geometry,
			Provider:   ml.Provider,
			Datasource: ml.Datasource,
			CRSAuthID:  ml.SRS.AuthID,
		}
		if ml.Extent != nil {
			e := ml.Extent.toExtent()
			layer.Extent = &e
		}
		layers = append(layers, layer)
	}
	return layers
}

// LayerByID returns the descriptor for a single layer id.
func (p *Project) LayerByID(id string) (Layer, bool) {
	for _, l := range p.Layers() {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}

// TransformContext returns the coordinate-transform policy of the
// project. The basic renderer draws in project CRS units, so the context
// only carries the source authority id.
func (p *Project) TransformContext() TransformContext {
	return TransformContext{SourceAuthID: p.CRSAuthID()}
}

// PathResolver returns the datasource path-resolution policy anchored at
// the project file's directory.
func (p *Project) PathResolver() PathResolver {
	return PathResolver{baseDir: filepath.Dir(p.path)}
}

// TransformContext is the coordinate-transform policy handed to render
// settings.
type TransformContext struct {
	SourceAuthID string
}

// PathResolver resolves relative datasource references against the
// project directory.
type PathResolver struct {
	baseDir string
}

// Resolve returns an absolute path for a datasource reference. Absolute
// references and non-path datasources (URIs, connection strings) pass
// through unchanged.
func (r PathResolver) Resolve(ref string) string {
	if ref == "" || filepath.IsAbs(ref) || strings.Contains(ref, "://") {
		return ref
	}
	return filepath.Join(r.baseDir, ref)
}
