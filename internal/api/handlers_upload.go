// handlers_upload.go - Document upload and listing handlers
package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sylly/backend/internal/models"
	"github.com/sylly/backend/internal/upload"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEApplicationMsgpack is the media type of the binary listing variant.
const MIMEApplicationMsgpack = "application/msgpack"

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	pipeline Pipeline
	lister   Lister
	tempDir  string
}

// NewUploadHandler creates a new upload handler instance. Incoming files are
// spooled into tempDir, which should share a filesystem with the upload
// directory so that storing is a rename.
func NewUploadHandler(pipeline Pipeline, lister Lister, tempDir string) UploadHandler {
	return &UploadHandlerImpl{
		pipeline: pipeline,
		lister:   lister,
		tempDir:  tempDir,
	}
}

// HandleExtract accepts a multipart "file" field, stores it and returns the
// extracted events
func (h *UploadHandlerImpl) HandleExtract(c echo.Context) error {
	sub := h.receive(c)
	if sub.TempPath != "" {
		// Gone already when the store renamed it.
		defer os.Remove(sub.TempPath)
	}

	job, err := h.pipeline.Process(c.Request().Context(), sub)
	if err != nil {
		return FromError(err)
	}

	return c.JSON(http.StatusOK, models.ExtractResponse{
		Status:    models.StatusSuccess,
		Events:    job.Events,
		SavedName: job.File.StoredName,
		URL:       job.File.PublicURL,
	})
}

// receive spools the uploaded file to disk. Failures are reported through
// the submission's transport code rather than as errors.
func (h *UploadHandlerImpl) receive(c echo.Context) *upload.Submission {
	fh, err := c.FormFile("file")
	if err != nil {
		return &upload.Submission{Code: transportCode(err)}
	}

	sub := &upload.Submission{
		Filename:     filepath.Base(fh.Filename),
		DeclaredType: fh.Header.Get(echo.HeaderContentType),
	}

	src, err := fh.Open()
	if err != nil {
		sub.Code = upload.CodeCantWrite
		return sub
	}
	defer src.Close()

	if err := os.MkdirAll(h.tempDir, 0755); err != nil {
		sub.Code = upload.CodeNoTmpDir
		return sub
	}
	tmp, err := os.CreateTemp(h.tempDir, "upload-*.part")
	if err != nil {
		sub.Code = upload.CodeNoTmpDir
		return sub
	}
	defer tmp.Close()
	sub.TempPath = tmp.Name()

	n, err := io.Copy(tmp, src)
	if err != nil {
		sub.Code = transportCode(err)
		if sub.Code == upload.CodeUnknown {
			sub.Code = upload.CodeCantWrite
		}
		return sub
	}
	sub.Size = n

	return sub
}

// transportCode classifies a failure to read the multipart body.
func transportCode(err error) upload.TransportCode {
	var maxBytes *http.MaxBytesError
	var httpErr *echo.HTTPError

	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return upload.CodeNoFile
	case errors.As(err, &maxBytes):
		return upload.CodeIniSize
	case errors.Is(err, multipart.ErrMessageTooLarge):
		return upload.CodeFormSize
	case errors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge:
		return upload.CodeFormSize
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return upload.CodePartial
	default:
		return upload.CodeUnknown
	}
}

// HandleListUploads returns every stored upload. MessagePack is used when the
// client asks for it, JSON otherwise
func (h *UploadHandlerImpl) HandleListUploads(c echo.Context) error {
	files, err := h.lister.List()
	if err != nil {
		return NewInternalError("Failed to list uploads", err)
	}

	resp := models.ListResponse{Status: models.StatusSuccess, Files: files}

	if wantsMsgpack(c) {
		data, err := msgpack.Marshal(&resp)
		if err != nil {
			return NewInternalError("Failed to encode listing", err)
		}
		return c.Blob(http.StatusOK, MIMEApplicationMsgpack, data)
	}

	return c.JSON(http.StatusOK, resp)
}

func wantsMsgpack(c echo.Context) bool {
	if strings.EqualFold(c.QueryParam("format"), "msgpack") {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), MIMEApplicationMsgpack)
}
