package httpapi

import (
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/geowerk/projfile/internal/engine"
	"github.com/geowerk/projfile/internal/logging"
	"github.com/geowerk/projfile/internal/thumbnail"
)

const testProjectXML = `<qgis projectname="served">
  <title>Served Project</title>
  <projectCrs>
    <spatialrefsys><authid>EPSG:3857</authid></spatialrefsys>
  </projectCrs>
  <mapcanvas name="theMapCanvas">
    <extent><xmin>0</xmin><ymin>0</ymin><xmax>4</xmax><ymax>3</ymax></extent>
  </mapcanvas>
</qgis>`

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "served.qgs")
	require.NoError(t, os.WriteFile(path, []byte(testProjectXML), 0644))

	p, err := engine.Open(path, logging.NewNullLogger())
	require.NoError(t, err)

	return NewHandler(p, logging.NewNullLogger(), 0, thumbnail.Options{})
}

func TestIndex_GreetsGuestByDefault(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, Guest!\n", rec.Body.String())
}

func TestIndex_GreetsByName(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?name=Ada", nil))

	assert.Equal(t, "Hello, Ada!\n", rec.Body.String())
}

func TestDetails_ServesProjectSummary(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/details", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Equal(t, "EPSG:3857", gjson.Get(body, "crs").String())
	assert.Equal(t, "Served Project", gjson.Get(body, "project_name").String())
	assert.Equal(t, "#ffffff", gjson.Get(body, "background_color").String())
}

func TestThumbnail_ServesPNG(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/thumbnail.png", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

// brokenWriter fails every body write, like a client that went away
// mid-response.
type brokenWriter struct {
	http.ResponseWriter
}

func (w brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestMetrics_CountsFailedResponseWrites(t *testing.T) {
	h := newTestHandler(t)

	h.ServeHTTP(brokenWriter{httptest.NewRecorder()},
		httptest.NewRequest(http.MethodGet, "/details", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		`projfile_http_requests_total{route="/details",status="500"}`)
	assert.NotContains(t, rec.Body.String(),
		`projfile_http_requests_total{route="/details",status="200"}`)
}

func TestMetrics_Exposed(t *testing.T) {
	h := newTestHandler(t)

	// Generate some traffic first.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "projfile_http_requests_total")
}
