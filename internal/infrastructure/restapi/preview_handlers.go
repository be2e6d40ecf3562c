package restapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"txpreview/internal/app/port"
	"txpreview/internal/config"
	"txpreview/internal/domain/entity"
	"txpreview/internal/pkg/metrics"
)

// APIErrorResponse is the error body for failed preview requests.
type APIErrorResponse struct {
	Error      string `json:"error"`
	Identifier string `json:"identifier,omitempty"`
}

// PreviewHandler handles HTTP requests for transaction preview analysis.
type PreviewHandler struct {
	previewService port.PreviewService
	cfg            *config.Config
	logger         port.Logger
}

// NewPreviewHandler creates a new instance of PreviewHandler.
func NewPreviewHandler(ps port.PreviewService, cfg *config.Config, l port.Logger) *PreviewHandler {
	return &PreviewHandler{
		previewService: ps,
		cfg:            cfg,
		logger:         l,
	}
}

// AnalyzeHandler handles POST /api/v1/preview. An unresolvable moved
// resource maps to 422: the request was well-formed but the transaction
// cannot be previewed against current ledger state.
func (h *PreviewHandler) AnalyzeHandler(c *gin.Context) {
	var request PreviewRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{Error: err.Error()})
		return
	}

	summary := request.Summary.ToEntity()
	wallet := request.Wallet.ToEntity(h.cfg.Wallet.DefaultGuarantee())

	started := time.Now()
	preview, err := h.previewService.Analyze(c.Request.Context(), summary, wallet)
	metrics.AnalysisDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		metrics.AnalysisErrors.Inc()

		var notResolved *entity.ResourceCouldNotBeResolvedError
		if errors.As(err, &notResolved) {
			c.JSON(http.StatusUnprocessableEntity, APIErrorResponse{
				Error:      "resource could not be resolved in transaction",
				Identifier: notResolved.Identifier.String(),
			})
			return
		}

		h.logger.Error("Preview analysis failed", "error", err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{Error: "preview analysis failed"})
		return
	}

	metrics.PreviewsTotal.WithLabelValues(string(preview.Kind)).Inc()
	c.JSON(http.StatusOK, NewPreviewResponse(preview))
}
