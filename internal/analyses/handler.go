package analyses

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/extract"
	"ats-backend/internal/shared/server/middleware"
	"ats-backend/internal/shared/server/respond"
	"ats-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches analysis routes to the router group. Middleware in
// limit is applied only to the analyze route, which fronts the LLM.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit ...gin.HandlerFunc) {
	rg.POST("/analyze", append(limit, gin.HandlerFunc(h.analyze))...)
	rg.GET("/analyses", h.list)
}

func (h *Handler) analyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		if isBodyTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "uploaded file exceeds the size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", nil)
		return
	}

	// Reject unsupported types before reading the body or touching storage.
	if !extract.Allowed(fileHeader.Filename) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported file type, upload a PDF, DOCX, or TXT file", nil)
		return
	}

	filename, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "uploaded file exceeds the size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), Input{
		UserID:         middleware.UserIDFromContext(c),
		Filename:       filename,
		File:           data,
		JobDescription: c.PostForm("jd"),
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrJobDescriptionTooShort),
			errors.Is(err, ErrResumeTextTooShort),
			errors.Is(err, extract.ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, extract.ErrParse):
			respond.Error(c, http.StatusBadRequest, "validation_error", "could not extract text from the uploaded file", nil)
		case errors.Is(err, ErrStorage):
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save resume", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "analysis failed", nil)
		}
		return
	}

	c.Set("resumeId", result.ResumeID)
	respond.OK(c, result)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	respond.OK(c, gin.H{"analyses": items})
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
