// handlers_upload_test.go - Tests for upload handlers
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sylly/backend/internal/extract"
	"github.com/sylly/backend/internal/filetype"
	"github.com/sylly/backend/internal/models"
	"github.com/sylly/backend/internal/storage"
	"github.com/sylly/backend/internal/testutil"
	"github.com/sylly/backend/internal/upload"
	"github.com/vmihailenco/msgpack/v5"
)

type testServer struct {
	e         *echo.Echo
	store     *storage.LocalStore
	extractor *testutil.FakeExtractor
	tempDir   string
}

func newTestServer(t *testing.T, store upload.Store) *testServer {
	t.Helper()
	root := t.TempDir()
	local, err := storage.NewLocalStore(filepath.Join(root, "uploads"), "uploads", []string{"*.part"})
	require.NoError(t, err)
	if store == nil {
		store = local
	}

	fake := &testutil.FakeExtractor{Events: extract.SampleEvents()}
	manager := upload.NewManager(upload.NewValidator(filetype.MaxSize), store, fake)
	tempDir := filepath.Join(root, "tmp")

	e := echo.New()
	SetupErrorHandling(e)
	RegisterRoutes(e, NewHandlers(&Dependencies{
		Pipeline:       manager,
		Lister:         local,
		TempDir:        tempDir,
		Version:        "test",
		ExtractionMode: "mock",
	}))

	return &testServer{e: e, store: local, extractor: fake, tempDir: tempDir}
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) upload(t *testing.T, filename string, data []byte) *httptest.ResponseRecorder {
	body, contentType := multipartBody(t, "file", filename, data)
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	return s.do(req)
}

func decodeExtract(t *testing.T, rec *httptest.ResponseRecorder) models.ExtractResponse {
	t.Helper()
	var resp models.ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestUploadHandler_HandleExtract(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		wantExt  string
	}{
		{"jpeg", "syllabus.jpg", testutil.JPEG(1024), ".jpg"},
		{"png", "schedule.png", testutil.PNG(2048), ".png"},
		{"pdf", "course.pdf", testutil.PDF(4096), ".pdf"},
		{"docx", "cs101.docx", testutil.DOCX(), ".docx"},
		{"misnamed png", "course.pdf", testutil.PNG(512), ".png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			rec := s.upload(t, tt.filename, tt.data)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			resp := decodeExtract(t, rec)
			assert.Equal(t, models.StatusSuccess, resp.Status)
			assert.Equal(t, extract.SampleEvents(), resp.Events)
			assert.Equal(t, tt.wantExt, filepath.Ext(resp.SavedName))
			assert.Equal(t, "uploads/"+resp.SavedName, resp.URL)

			stored, err := os.ReadFile(filepath.Join(s.store.Dir(), resp.SavedName))
			require.NoError(t, err)
			assert.Equal(t, tt.data, stored)

			// Spooled temp files do not outlive the request.
			leftovers, _ := os.ReadDir(s.tempDir)
			assert.Empty(t, leftovers)
		})
	}
}

func TestUploadHandler_HandleExtract_EmptyEventsStillListed(t *testing.T) {
	s := newTestServer(t, nil)
	s.extractor.Events = nil

	rec := s.upload(t, "a.png", testutil.PNG(100))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"events":[]`)
}

func TestUploadHandler_HandleExtract_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		request    func(t *testing.T) *http.Request
		wantStatus int
		wantMsg    string
	}{
		{
			name: "text file",
			request: func(t *testing.T) *http.Request {
				body, ct := multipartBody(t, "file", "notes.pdf", testutil.Text(1024))
				req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
				req.Header.Set(echo.HeaderContentType, ct)
				return req
			},
			wantStatus: http.StatusUnsupportedMediaType,
			wantMsg:    "Unsupported file type",
		},
		{
			name: "oversized",
			request: func(t *testing.T) *http.Request {
				body, ct := multipartBody(t, "file", "big.jpg", testutil.JPEG(int(filetype.MaxSize)+1))
				req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
				req.Header.Set(echo.HeaderContentType, ct)
				return req
			},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantMsg:    "File too large (max 10MB)",
		},
		{
			name: "wrong field name",
			request: func(t *testing.T) *http.Request {
				body, ct := multipartBody(t, "document", "a.jpg", testutil.JPEG(100))
				req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
				req.Header.Set(echo.HeaderContentType, ct)
				return req
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "No file uploaded",
		},
		{
			name: "not multipart",
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/extract", strings.NewReader(`{"file":"x"}`))
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
				return req
			},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "No file uploaded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			rec := s.do(tt.request(t))
			assert.Equal(t, tt.wantStatus, rec.Code)

			resp := decodeExtract(t, rec)
			assert.Equal(t, models.StatusError, resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Message)

			assert.Zero(t, s.extractor.Calls())
			files, err := s.store.List()
			require.NoError(t, err)
			assert.Empty(t, files)
		})
	}
}

func TestUploadHandler_HandleExtract_ExtractionFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"script missing", &extract.Error{Kind: extract.ErrScriptMissing, Message: "Extraction script not found"},
			http.StatusBadGateway, "Extraction script not found"},
		{"no output", &extract.Error{Kind: extract.ErrProcess, Message: "Extraction process produced no output"},
			http.StatusBadGateway, "Extraction process produced no output"},
		{"bad json", &extract.Error{Kind: extract.ErrOutputFormat, Message: "Invalid JSON from extraction script: oops"},
			http.StatusBadGateway, "Invalid JSON from extraction script: oops"},
		{"reported", &extract.Error{Kind: extract.ErrReported, Message: "Extraction error: x"},
			http.StatusBadGateway, "Extraction error: x"},
		{"timeout", &extract.Error{Kind: extract.ErrTimeout, Message: "Extraction timed out after 2m0s"},
			http.StatusGatewayTimeout, "Extraction timed out after 2m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			s.extractor.Err = tt.err

			rec := s.upload(t, "a.jpg", testutil.JPEG(1024))
			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeExtract(t, rec)
			assert.Equal(t, models.StatusError, resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.Empty(t, resp.Events)
		})
	}
}

func TestUploadHandler_HandleExtract_StorageFailure(t *testing.T) {
	mock := testutil.NewMockStorage()
	mock.PutErr = &storage.WriteError{Path: "/readonly", Err: os.ErrPermission}
	s := newTestServer(t, mock)

	rec := s.upload(t, "a.png", testutil.PNG(100))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to save file", decodeExtract(t, rec).Message)
	assert.Zero(t, s.extractor.Calls())
}

func TestUploadHandler_HandleExtract_BodyLimit(t *testing.T) {
	s := newTestServer(t, nil)
	s.e.Use(middleware.BodyLimit("1K"))

	rec := s.upload(t, "a.png", testutil.PNG(4096))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "File exceeds form size limit", decodeExtract(t, rec).Message)
}

func TestUploadHandler_HandleListUploads(t *testing.T) {
	s := newTestServer(t, nil)

	for i, data := range [][]byte{testutil.JPEG(1024), testutil.PDF(2048)} {
		rec := s.upload(t, fmt.Sprintf("f%d", i), data)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	// Ignored and hidden names stay out of the listing.
	require.NoError(t, os.WriteFile(filepath.Join(s.store.Dir(), "x.part"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(s.store.Dir(), ".DS_Store"), []byte("x"), 0644))

	list := func() (int, string) {
		rec := s.do(httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
		return rec.Code, rec.Body.String()
	}

	code, first := list()
	require.Equal(t, http.StatusOK, code)
	_, second := list()
	assert.Equal(t, first, second)

	var resp models.ListResponse
	require.NoError(t, json.Unmarshal([]byte(first), &resp))
	assert.Equal(t, models.StatusSuccess, resp.Status)
	require.Len(t, resp.Files, 2)
	sizes := map[int64]bool{}
	for _, f := range resp.Files {
		assert.Equal(t, "uploads/"+f.Name, f.URL)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, f.Modified)
		sizes[f.Size] = true
	}
	assert.Equal(t, map[int64]bool{1024: true, 2048: true}, sizes)
}

func TestUploadHandler_HandleListUploads_EmptyDirectory(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, os.RemoveAll(s.store.Dir()))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/uploads", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","files":[]}`, rec.Body.String())
}

func TestUploadHandler_HandleListUploads_Msgpack(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusOK, s.upload(t, "a.png", testutil.PNG(300)).Code)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/uploads?format=msgpack", nil),
		func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/api/uploads", nil)
			r.Header.Set(echo.HeaderAccept, MIMEApplicationMsgpack)
			return r
		}(),
	} {
		rec := s.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, MIMEApplicationMsgpack, rec.Header().Get(echo.HeaderContentType))

		var resp models.ListResponse
		require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Files, 1)
		assert.Equal(t, int64(300), resp.Files[0].Size)
	}
}

func TestUploadHandler_HandleListUploads_Error(t *testing.T) {
	e := echo.New()
	mock := testutil.NewMockStorage()
	mock.ListFn = func() ([]models.ListedFile, error) { return nil, io.ErrClosedPipe }
	h := NewUploadHandler(nil, mock, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/uploads", nil)
	rec := httptest.NewRecorder()
	err := h.HandleListUploads(e.NewContext(req, rec))

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.Status)
	}
}

type stubPipeline struct {
	sub *upload.Submission
}

func (p *stubPipeline) Process(ctx context.Context, sub *upload.Submission) (*upload.Job, error) {
	p.sub = sub
	return &upload.Job{File: &models.UploadedFile{StoredName: "s.pdf", PublicURL: "uploads/s.pdf"}, Events: []models.Event{}}, nil
}

func TestUploadHandler_ReceiveFillsSubmission(t *testing.T) {
	e := echo.New()
	pipeline := &stubPipeline{}
	h := NewUploadHandler(pipeline, nil, t.TempDir())

	body, ct := multipartBody(t, "file", "../../etc/Syllabus.pdf", testutil.PDF(777))
	req := httptest.NewRequest(http.MethodPost, "/api/extract", body)
	req.Header.Set(echo.HeaderContentType, ct)
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandleExtract(e.NewContext(req, rec)))
	require.NotNil(t, pipeline.sub)
	assert.Equal(t, upload.CodeOK, pipeline.sub.Code)
	assert.Equal(t, "Syllabus.pdf", pipeline.sub.Filename)
	assert.Equal(t, int64(777), pipeline.sub.Size)
	assert.Equal(t, "application/octet-stream", pipeline.sub.DeclaredType)

	_, err := os.Stat(pipeline.sub.TempPath)
	assert.True(t, os.IsNotExist(err), "temp file should be removed after the request")
}

func TestTransportCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want upload.TransportCode
	}{
		{"missing file", http.ErrMissingFile, upload.CodeNoFile},
		{"not multipart", http.ErrNotMultipart, upload.CodeNoFile},
		{"max bytes", &http.MaxBytesError{Limit: 10}, upload.CodeIniSize},
		{"form too large", multipart.ErrMessageTooLarge, upload.CodeFormSize},
		{"echo body limit", echo.ErrStatusRequestEntityTooLarge, upload.CodeFormSize},
		{"truncated", fmt.Errorf("multipart: NextPart: %w", io.ErrUnexpectedEOF), upload.CodePartial},
		{"other", io.ErrClosedPipe, upload.CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transportCode(tt.err))
		})
	}
}
