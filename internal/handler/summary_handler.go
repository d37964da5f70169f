package handler

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salesfeed/internal/service"
)

var periodKeyRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// SummaryHandler exposes the derived monthly aggregates.
type SummaryHandler struct {
	summaryService service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService service.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// ProductSummaries handles GET /api/v1/workspaces/:workspace_id/summaries/products
func (h *SummaryHandler) ProductSummaries(c *gin.Context) {
	workspaceID, periodKey, ok := summaryParams(c)
	if !ok {
		return
	}

	summaries, err := h.summaryService.ProductSummaries(c.Request.Context(), workspaceID, periodKey)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summaries)
}

// CategorySummaries handles GET /api/v1/workspaces/:workspace_id/summaries/categories
func (h *SummaryHandler) CategorySummaries(c *gin.Context) {
	workspaceID, periodKey, ok := summaryParams(c)
	if !ok {
		return
	}

	summaries, err := h.summaryService.CategorySummaries(c.Request.Context(), workspaceID, periodKey)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summaries)
}

func summaryParams(c *gin.Context) (uuid.UUID, string, bool) {
	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid workspace ID")
		return uuid.Nil, "", false
	}

	periodKey := c.Query("period")
	if !periodKeyRe.MatchString(periodKey) {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "period must be YYYY-MM")
		return uuid.Nil, "", false
	}
	return workspaceID, periodKey, true
}
