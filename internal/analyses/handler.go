package analyses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-analyzer-backend/internal/contentunderstanding"
	"cv-analyzer-backend/internal/fields"
	"cv-analyzer-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "documentUrl must be a valid URL", nil)
		return
	}

	analysis, err := h.Svc.Run(c.Request.Context(), req.DocumentURL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Set("analysisId", analysis.ID)
	respond.OK(c, toAnalyzeResponse(analysis))
}

// respondError maps the client error taxonomy onto distinct, readable
// responses: submission trouble, remote failure, and a local timeout must
// never look alike to the user.
func (h *Handler) respondError(c *gin.Context, err error) {
	var submission *contentunderstanding.SubmissionError
	var failed *contentunderstanding.AnalysisFailedError
	var timeout *contentunderstanding.PollingTimeoutError
	switch {
	case errors.Is(err, ErrInvalidSource):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "documentUrl must be an http(s) URL", nil)
	case errors.As(err, &submission):
		respond.Error(c, http.StatusBadGateway, ErrorCodeSubmission, "the analysis service rejected the submission", submission.Error())
	case errors.As(err, &failed):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeAnalysisFailed, "the analysis service could not process the document", failed.Error())
	case errors.As(err, &timeout):
		respond.Error(c, http.StatusGatewayTimeout, ErrorCodePollingTimeout, "gave up waiting for the analysis; the remote job may still finish", timeout.Error())
	case errors.Is(err, fields.ErrNoContents):
		respond.Error(c, http.StatusBadGateway, ErrorCodeEmptyResult, "the analysis result contained no contents", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "analysis failed unexpectedly", nil)
	}
}
