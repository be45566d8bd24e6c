package thumbnail

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geowerk/projfile/internal/engine"
	"github.com/geowerk/projfile/internal/logging"
	"github.com/geowerk/projfile/pkg/projfile"
)

const canvasOnlyProject = `<qgis projectname="canvas-only">
  <mapcanvas name="theMapCanvas">
    <extent><xmin>0</xmin><ymin>0</ymin><xmax>10</xmax><ymax>10</ymax></extent>
  </mapcanvas>
</qgis>`

func openProject(t *testing.T, doc string) *engine.Project {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thumb.qgs")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	p, err := engine.Open(path, logging.NewNullLogger())
	require.NoError(t, err)
	return p
}

func TestGenerate_ZeroLayersStillProducesImage(t *testing.T) {
	p := openProject(t, canvasOnlyProject)
	outPath := filepath.Join(t.TempDir(), "thumb.png")

	ctx, cancel := context.WithTimeout(context.Background(), projfile.DefaultRenderTimeout)
	defer cancel()

	require.NoError(t, Generate(ctx, p, outPath, Options{}, logging.NewNullLogger()))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, projfile.DefaultThumbnailWidth, img.Bounds().Dx())
	assert.Equal(t, projfile.DefaultThumbnailHeight, img.Bounds().Dy())
}

func TestGenerate_CustomSize(t *testing.T) {
	p := openProject(t, canvasOnlyProject)
	outPath := filepath.Join(t.TempDir(), "thumb.png")

	ctx, cancel := context.WithTimeout(context.Background(), projfile.DefaultRenderTimeout)
	defer cancel()

	require.NoError(t, Generate(ctx, p, outPath, Options{Width: 64, Height: 48}, logging.NewNullLogger()))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestGenerate_SaveFailure(t *testing.T) {
	p := openProject(t, canvasOnlyProject)

	// The parent directory does not exist, so the save must fail.
	outPath := filepath.Join(t.TempDir(), "missing", "thumb.png")

	ctx, cancel := context.WithTimeout(context.Background(), projfile.DefaultRenderTimeout)
	defer cancel()

	err := Generate(ctx, p, outPath, Options{}, logging.NewNullLogger())
	require.ErrorIs(t, err, projfile.ErrThumbnailFailed)
	assert.Contains(t, err.Error(), "Failed to save")
}
