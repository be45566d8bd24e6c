package engine

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// projectDoc mirrors the subset of the project-file document the engine
// reads. Everything else in the file is ignored.
type projectDoc struct {
	XMLName     xml.Name       `xml:"qgis"`
	ProjectName string         `xml:"projectname,attr"`
	Version     string         `xml:"version,attr"`
	Title       string         `xml:"title"`
	ProjectCRS  crsNode        `xml:"projectCrs"`
	LayerTree   layerTreeGroup `xml:"layer-tree-group"`
	MapCanvases []mapCanvas    `xml:"mapcanvas"`
	Layers      []mapLayer     `xml:"projectlayers>maplayer"`
	Properties  propertiesNode `xml:"properties"`
}

type crsNode struct {
	AuthID string `xml:"spatialrefsys>authid"`
}

// mapCanvas is one canvas-configuration node. A document may carry
// several; only the one named by projfile.CanvasNodeName drives render
// settings.
type mapCanvas struct {
	Name     string     `xml:"name,attr"`
	Extent   extentNode `xml:"extent"`
	Rotation float64    `xml:"rotation"`
}

type extentNode struct {
	XMin float64 `xml:"xmin"`
	YMin float64 `xml:"ymin"`
	XMax float64 `xml:"xmax"`
	YMax float64 `xml:"ymax"`
}

func (n extentNode) toExtent() Extent {
	return Extent{XMin: n.XMin, YMin: n.YMin, XMax: n.XMax, YMax: n.YMax}
}

type mapLayer struct {
	Type       string      `xml:"type,attr"`
	Geometry   string      `xml:"geometry,attr"`
	ID         string      `xml:"id"`
	Name       string      `xml:"layername"`
	Datasource string      `xml:"datasource"`
	Provider   string      `xml:"provider"`
	SRS        crsNode     `xml:"srs"`
	Extent     *extentNode `xml:"extent"`
}

// layerTreeGroup is the project layer tree, top-to-bottom document order.
// Groups nest arbitrarily; custom-order overrides the tree order when
// enabled.
type layerTreeGroup struct {
	Layers      []layerTreeLayer `xml:"layer-tree-layer"`
	Groups      []layerTreeGroup `xml:"layer-tree-group"`
	CustomOrder customOrder      `xml:"custom-order"`
}

type layerTreeLayer struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type customOrder struct {
	Enabled int      `xml:"enabled,attr"`
	Items   []string `xml:"item"`
}

// layerIDs collects layer ids depth-first, preserving document order.
func (g *layerTreeGroup) layerIDs() []string {
	var ids []string
	for _, l := range g.Layers {
		ids = append(ids, l.ID)
	}
	for i := range g.Groups {
		ids = append(ids, g.Groups[i].layerIDs()...)
	}
	return ids
}

// propertyValue is a single project property entry. List entries carry
// their values in List; scalar entries in Text.
type propertyValue struct {
	Type string
	Text string
	List []string
}

// propertiesNode holds project properties grouped by scope, e.g.
//
//	<properties>
//	  <Gui>
//	    <CanvasColorRedPart type="int">255</CanvasColorRedPart>
//	  </Gui>
//	  <QFieldSync>
//	    <attachmentDirs type="QStringList"><value>DCIM</value></attachmentDirs>
//	  </QFieldSync>
//	</properties>
type propertiesNode struct {
	scopes map[string]map[string]propertyValue
}

// UnmarshalXML walks the properties tree generically: first-level child
// elements are scopes, their children are keyed entries.
func (p *propertiesNode) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.scopes = map[string]map[string]propertyValue{}

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			scope := t.Name.Local
			entries, err := decodeScope(d, t)
			if err != nil {
				return err
			}
			p.scopes[scope] = entries
		case xml.EndElement:
			return nil
		}
	}
}

func decodeScope(d *xml.Decoder, start xml.StartElement) (map[string]propertyValue, error) {
	entries := map[string]propertyValue{}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			value, err := decodeEntry(d, t)
			if err != nil {
				return nil, err
			}
			entries[t.Name.Local] = value
		case xml.EndElement:
			return entries, nil
		}
	}
}

func decodeEntry(d *xml.Decoder, start xml.StartElement) (propertyValue, error) {
	var value propertyValue
	for _, attr := range start.Attr {
		if attr.Name.Local == "type" {
			value.Type = attr.Value
		}
	}

	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			return value, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			// List entries nest their values in child elements.
			var item string
			if err := d.DecodeElement(&item, &t); err != nil {
				return value, err
			}
			value.List = append(value.List, item)
		case xml.EndElement:
			value.Text = strings.TrimSpace(text.String())
			return value, nil
		}
	}
}

// lookup returns the property value under scope/key. Keys may be given
// with a leading slash, matching the desktop tool's entry notation.
func (p *propertiesNode) lookup(scope, key string) (propertyValue, bool) {
	entries, ok := p.scopes[scope]
	if !ok {
		return propertyValue{}, false
	}
	value, ok := entries[strings.TrimPrefix(key, "/")]
	return value, ok
}

func (p *propertiesNode) numEntry(scope, key string, def int) (int, bool) {
	value, ok := p.lookup(scope, key)
	if !ok {
		return def, false
	}
	n, err := strconv.Atoi(value.Text)
	if err != nil {
		return def, false
	}
	return n, true
}

func (p *propertiesNode) listEntry(scope, key string, def []string) ([]string, bool) {
	value, ok := p.lookup(scope, key)
	if !ok || value.List == nil {
		return def, false
	}
	return value.List, true
}

func decodeProjectDoc(r io.Reader) (*projectDoc, error) {
	var doc projectDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
