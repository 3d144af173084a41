package rewrite

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/llm"
	"ats-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the rewrite service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches rewrite routes to the router group. Middleware in
// limit is applied to the rewrite route, which fronts the LLM.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, limit ...gin.HandlerFunc) {
	rg.POST("/rewrite", append(limit, gin.HandlerFunc(h.rewrite))...)
}

func (h *Handler) rewrite(c *gin.Context) {
	result, err := h.Svc.Rewrite(c.Request.Context(), c.PostForm("resume_text"), c.PostForm("jd"))
	if err != nil {
		var modelErr *llm.ModelError
		switch {
		case errors.Is(err, ErrResumeTextTooShort), errors.Is(err, ErrJobDescriptionTooShort), errors.Is(err, llm.ErrEmptyPrompt):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.As(err, &modelErr):
			respond.Error(c, http.StatusBadGateway, "llm_error", modelErr.Error(), nil)
		default:
			respond.Error(c, http.StatusBadGateway, "llm_error", "resume rewrite is unavailable right now", nil)
		}
		return
	}

	respond.OK(c, result)
}
