package engine

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geowerk/projfile/internal/logging"
	"github.com/geowerk/projfile/pkg/projfile"
)

const sampleProjectXML = `<qgis projectname="demo" version="3.22">
  <title>Field Survey</title>
  <projectCrs>
    <spatialrefsys><authid>EPSG:32633</authid></spatialrefsys>
  </projectCrs>
  <layer-tree-group>
    <layer-tree-layer id="roads_a1" name="Roads"/>
    <layer-tree-group>
      <layer-tree-layer id="rivers_b2" name="Rivers"/>
    </layer-tree-group>
    <custom-order enabled="0"/>
  </layer-tree-group>
  <mapcanvas name="secondaryCanvas">
    <extent><xmin>0</xmin><ymin>0</ymin><xmax>1</xmax><ymax>1</ymax></extent>
    <rotation>45</rotation>
  </mapcanvas>
  <mapcanvas name="theMapCanvas">
    <extent><xmin>100</xmin><ymin>200</ymin><xmax>300</xmax><ymax>350</ymax></extent>
    <rotation>15</rotation>
  </mapcanvas>
  <projectlayers>
    <maplayer type="vector" geometry="Line">
      <id>roads_a1</id>
      <layername>Roads</layername>
      <datasource>./data/roads.gpkg</datasource>
      <provider>ogr</provider>
      <srs><spatialrefsys><authid>EPSG:32633</authid></spatialrefsys></srs>
      <extent><xmin>120</xmin><ymin>220</ymin><xmax>280</xmax><ymax>330</ymax></extent>
    </maplayer>
    <maplayer type="vector" geometry="Polygon">
      <id>rivers_b2</id>
      <layername>Rivers</layername>
      <datasource>./data/rivers.gpkg</datasource>
      <provider>ogr</provider>
      <srs><spatialrefsys><authid>EPSG:32633</authid></spatialrefsys></srs>
    </maplayer>
  </projectlayers>
  <properties>
    <Gui>
      <CanvasColorRedPart type="int">12</CanvasColorRedPart>
      <CanvasColorGreenPart type="int">34</CanvasColorGreenPart>
      <CanvasColorBluePart type="int">56</CanvasColorBluePart>
    </Gui>
    <QFieldSync>
      <attachmentDirs type="QStringList">
        <value>DCIM</value>
        <value>photos</value>
      </attachmentDirs>
    </QFieldSync>
  </properties>
</qgis>
`

// writeSampleProject writes sampleProjectXML as a .qgs file and returns its path.
func writeSampleProject(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.qgs")
	require.NoError(t, os.WriteFile(path, []byte(sampleProjectXML), 0644))
	return path
}

// writeSampleArchive packs sampleProjectXML into a .qgz zip archive.
func writeSampleArchive(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("demo.qgs")
	require.NoError(t, err)
	_, err = w.Write([]byte(sampleProjectXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "demo.qgz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestOpen_XMLContainer(t *testing.T) {
	p, err := Open(writeSampleProject(t), logging.NewNullLogger())
	require.NoError(t, err)

	assert.Equal(t, "Field Survey", p.Title())
	assert.Equal(t, "EPSG:32633", p.CRSAuthID())
}

func TestOpen_ArchiveContainer(t *testing.T) {
	p, err := Open(writeSampleArchive(t), logging.NewNullLogger())
	require.NoError(t, err)

	assert.Equal(t, "Field Survey", p.Title())
	assert.Len(t, p.Layers(), 2)
}

func TestOpen_BrokenArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.qgz")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	_, err := Open(path, logging.NewNullLogger())
	assert.ErrorIs(t, err, projfile.ErrInvalidProjectFile)
}

func TestOpen_UnrecognizedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.gpkg")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, err := Open(path, logging.NewNullLogger())
	assert.ErrorIs(t, err, projfile.ErrInvalidFileExtension)
}

func TestProject_TitleFallsBackToProjectName(t *testing.T) {
	doc := `<qgis projectname="fallback"><projectCrs><spatialrefsys><authid>EPSG:4326</authid></spatialrefsys></projectCrs></qgis>`
	path := filepath.Join(t.TempDir(), "untitled.qgs")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	p, err := Open(path, logging.NewNullLogger())
	require.NoError(t, err)
	assert.Equal(t, "fallback", p.Title())
}

func TestProject_ReadNumEntry(t *testing.T) {
	p, err := Open(writeSampleProject(t), logging.NewNullLogger())
	require.NoError(t, err)

	r, ok := p.ReadNumEntry("Gui", "/CanvasColorRedPart", 255)
	assert.True(t, ok)
	assert.Equal(t, 12, r)

	// Absent entries fall back to the default, each independently.
	missing, ok := p.ReadNumEntry("Gui", "/NoSuchEntry", 255)
	assert.False(t, ok)
	assert.Equal(t, 255, missing)
}

func TestProject_ReadListEntry(t *testing.T) {
	p, err := Open(writeSampleProject(t), logging.NewNullLogger())
	require.NoError(t, err)

	dirs, ok := p.ReadListEntry("QFieldSync", "attachmentDirs", []string{projfile.DefaultAttachmentDir})
	assert.True(t, ok)
	assert.Equal(t, []string{"DCIM", "photos"}, dirs)

	def, ok := p.ReadListEntry("QFieldSync", "noSuchList", []string{projfile.DefaultAttachmentDir})
	assert.False(t, ok)
	assert.Equal(t, []string{"DCIM"}, def)
}

func TestProject_LayerTreeOrder(t *testing.T) {
	p, err := Open(writeSampleProject(t), logging.NewNullLogger())
	require.NoError(t, err)

	// Nested groups flatten depth-first, top-to-bottom.
	assert.Equal(t, []string{"roads_a1", "rivers_b2"}, p.LayerTreeOrder())
}

func TestProject_LayerTreeOrder_CustomOrder(t *testing.T) {
	doc := `<qgis projectname="custom">
  <layer-tree-group>
    <layer-tree-layer id="a"/>
    <layer-tree-layer id="b"/>
    <custom-order enabled="1">
      <item>b</item>
      <item>a</item>
    </custom-order>
  </layer-tree-group>
</qgis>`
	path := filepath.Join(t.TempDir(), "custom.qgs")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	p, err := Open(path, logging.NewNullLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, p.LayerTreeOrder())
}

func TestProject_Layers(t *testing.T) {
	p, err := Open(writeSampleProject(t), logging.NewNullLogger())
	require.NoError(t, err)

	layers := p.Layers()
	require.Len(t, layers, 2)

	roads := layers[0]
	assert.Equal(t, "roads_a1", roads.ID)
	assert.Equal(t, "Roads", roads.Name)
	assert.Equal(t, "vector", roads.Type)
	assert.Equal(t, "ogr", roads.Provider)
	assert.Equal(t, "EPSG:32633", roads.CRSAuthID)
	assert.True(t, roads.Valid())
	require.NotNil(t, roads.Extent)
	assert.Equal(t, 120.0, roads.Extent.XMin)

	rivers := layers[1]
	assert.Nil(t, rivers.Extent)
}

func TestPathResolver(t *testing.T) {
	p, err := Open(writeSampleProject(t), logging.NewNullLogger())
	require.NoError(t, err)

	resolver := p.PathResolver()
	resolved := resolver.Resolve("./data/roads.gpkg")
	assert.True(t, filepath.IsAbs(resolved))
	assert.Equal(t, filepath.Join(filepath.Dir(p.FilePath()), "data", "roads.gpkg"), resolved)

	// URIs and absolute paths pass through unchanged.
	assert.Equal(t, "postgres://host/db", resolver.Resolve("postgres://host/db"))
	abs := filepath.Join(string(filepath.Separator), "tmp", "x.gpkg")
	assert.Equal(t, abs, resolver.Resolve(abs))
}
