package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sylly/backend/internal/api"
	"github.com/sylly/backend/internal/extract"
	"github.com/sylly/backend/internal/filetype"
	"github.com/sylly/backend/internal/storage"
	"github.com/sylly/backend/internal/testutil"
	"github.com/sylly/backend/internal/upload"
	"github.com/sylly/backend/internal/web"
	"github.com/sylly/backend/internal/workspace"
)

// newServer runs the real HTTP stack with the given extractor.
func newServer(t *testing.T, x extract.Extractor) *httptest.Server {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewLocalStore(filepath.Join(root, "uploads"), "uploads", nil)
	require.NoError(t, err)

	e := echo.New()
	api.SetupErrorHandling(e)
	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Pipeline: upload.NewManager(upload.NewValidator(filetype.MaxSize), store, x),
		Lister:   store,
		TempDir:  filepath.Join(root, "tmp"),
		Version:  "test",
	}))
	web.RegisterUploadRoutes(e, "uploads", store.Dir())

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_UploadToFolderView(t *testing.T) {
	srv := newServer(t, extract.NewMock())
	c := NewClient(srv.URL+"/", 0)

	store, err := workspace.OpenInMemory()
	require.NoError(t, err)
	ws := workspace.New(store)
	defer ws.Close()

	u := NewUploader(c, ws)
	data := testutil.JPEG(1024)
	_, err = u.Select(testutil.WriteFile(t, "syllabus.jpg", data))
	require.NoError(t, err)

	result, err := u.Submit(context.Background(), "Physics")
	require.NoError(t, err)
	assert.Equal(t, extract.SampleEvents(), result.Events)

	folders, err := ws.Folders()
	require.NoError(t, err)
	assert.Equal(t, []workspace.Folder{{Subject: "Physics", Count: 1}}, folders)

	files, err := ws.Files("Physics")
	require.NoError(t, err)
	require.Len(t, files, 1)
	rec := files[0]
	assert.Equal(t, "JPG", rec.Badge())
	assert.Equal(t, int64(1), rec.SizeKB())
	assert.True(t, strings.HasSuffix(rec.SavedName, ".jpg"))
	assert.Equal(t, "uploads/"+rec.SavedName, rec.URL)

	// The View File link resolves to the stored bytes.
	link := c.FileURL(rec.URL)
	assert.Equal(t, srv.URL+"/uploads/"+rec.SavedName, link)
	res, err := http.Get(link)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, data, body)

	listed, err := c.ListUploads(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, rec.SavedName, listed[0].Name)
	assert.Equal(t, int64(1024), listed[0].Size)
}

func TestClient_ExtractErrors(t *testing.T) {
	srv := newServer(t, &testutil.FakeExtractor{Err: &extract.Error{Kind: extract.ErrReported, Message: "Extraction error: x"}})
	c := NewClient(srv.URL, 0)

	_, err := c.Extract(context.Background(), testutil.WriteFile(t, "a.png", testutil.PNG(64)))
	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadGateway, serr.StatusCode)
	assert.Equal(t, "Extraction error: x", serr.Message)

	// Server-side sniffing rejects content the extension lied about.
	_, err = c.Extract(context.Background(), testutil.WriteFile(t, "fake.pdf", testutil.Text(64)))
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusUnsupportedMediaType, serr.StatusCode)
	assert.Equal(t, "Unsupported file type", serr.Message)
}

func TestClient_ExportCalendar(t *testing.T) {
	srv := newServer(t, extract.NewMock())
	c := NewClient(srv.URL, 0)

	ics, err := c.ExportCalendar(context.Background(), extract.SampleEvents())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(ics), "BEGIN:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(string(ics), "BEGIN:VEVENT"))
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 0).ListUploads(context.Background())
	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Server error (502)", serr.Message)
}

func TestClient_FileURL(t *testing.T) {
	c := NewClient("http://localhost:8080/", 0)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
	assert.Equal(t, "http://localhost:8080/uploads/a.pdf", c.FileURL("uploads/a.pdf"))
	assert.Equal(t, "http://localhost:8080/uploads/a.pdf", c.FileURL("/uploads/a.pdf"))
	assert.Equal(t, "https://cdn/x.pdf", c.FileURL("https://cdn/x.pdf"))
	assert.Equal(t, "", c.FileURL(""))
}
