package intake

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/analysis"
	"casefile-backend/internal/cases"
	"casefile-backend/internal/extract"
	"casefile-backend/internal/shared/server/respond"
)

// maxUploadBytes caps the total multipart payload at 50 MiB.
const maxUploadBytes = 50 << 20

// Handler wires the upload endpoint to the intake service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the intake route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cases/:id/documents", h.uploadDocuments)
}

func (h *Handler) uploadDocuments(c *gin.Context) {
	caseID := c.Param("id")
	if caseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "case id is required", nil)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart payload", nil)
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no files uploaded", nil)
		return
	}

	files := make([]UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable multipart file", nil)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unreadable multipart file", nil)
			return
		}
		files = append(files, UploadFile{
			FileName: fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	instructions := c.PostForm("userInstructions")

	res, err := h.Svc.Ingest(c.Request.Context(), caseID, files, instructions)
	if err != nil {
		var unreadable *UnreadableError
		switch {
		case errors.Is(err, ErrEmptyBatch):
			respond.Error(c, http.StatusBadRequest, "validation_error", "no files uploaded", nil)
		case errors.Is(err, cases.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "case not found", nil)
		case errors.As(err, &unreadable):
			respond.Error(c, http.StatusBadRequest, "unreadable_document",
				"Could not extract text from "+unreadable.FileName+". Please ensure the document contains readable text.", nil)
		case errors.Is(err, extract.ErrMalformed):
			respond.Error(c, http.StatusBadRequest, "extraction_failed", "failed to decode document content", nil)
		case errors.Is(err, analysis.ErrParse):
			respond.Error(c, http.StatusInternalServerError, "analysis_parse_failed", "analysis produced an unusable response", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "document upload failed", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, res)
}
