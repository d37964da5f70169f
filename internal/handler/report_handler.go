package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salesfeed/internal/domain"
	"salesfeed/internal/service"
)

// ReportHandler handles sales report upload and control-surface endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type updateReportRequest struct {
	Status         *domain.ReportStatus  `json:"status"`
	ColumnMapping  *domain.ColumnMapping `json:"column_mapping"`
	ProductMapping domain.NameMapping    `json:"product_mapping"`
	ReportDate     *time.Time            `json:"report_date"`
}

// Upload handles POST /api/v1/workspaces/:workspace_id/reports
func (h *ReportHandler) Upload(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid workspace ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	var reportDate time.Time
	if dateStr := c.PostForm("report_date"); dateStr != "" {
		reportDate, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_DATE", "report_date must be YYYY-MM-DD")
			return
		}
	}

	input := service.UploadReportInput{
		WorkspaceID: workspaceID,
		ReportDate:  reportDate,
		File:        file,
		Header:      header,
	}
	if nameCol := c.PostForm("product_name_col"); nameCol != "" {
		input.ColumnMapping = &domain.ColumnMapping{
			ProductNameCol: nameCol,
			QuantityCol:    c.PostForm("quantity_col"),
			AmountCol:      c.PostForm("amount_col"),
		}
	}

	report, err := h.reportService.Upload(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, report)
}

// Update handles PATCH /api/v1/reports/:id
func (h *ReportHandler) Update(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	report, err := h.reportService.Update(c.Request.Context(), service.UpdateReportInput{
		ReportID:       reportID,
		Status:         req.Status,
		ColumnMapping:  req.ColumnMapping,
		ProductMapping: req.ProductMapping,
		ReportDate:     req.ReportDate,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// GetByID handles GET /api/v1/reports/:id
func (h *ReportHandler) GetByID(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	report, err := h.reportService.GetByID(c.Request.Context(), reportID)
	if err != nil {
		HandleError(c, err)
		return
	}

	downloadURL, err := h.reportService.GetDownloadURL(c.Request.Context(), reportID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{
		"report":       report,
		"download_url": downloadURL,
	})
}

// List handles GET /api/v1/workspaces/:workspace_id/reports
func (h *ReportHandler) List(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid workspace ID")
		return
	}

	offset, limit := pagination(c)
	reports, total, err := h.reportService.ListByWorkspace(c.Request.Context(), workspaceID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, reports, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Lines handles GET /api/v1/reports/:id/lines
func (h *ReportHandler) Lines(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	offset, limit := pagination(c)
	lines, total, err := h.reportService.ListLines(c.Request.Context(), reportID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, lines, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Suggestions handles GET /api/v1/reports/:id/suggestions
func (h *ReportHandler) Suggestions(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	suggestions, err := h.reportService.Suggestions(c.Request.Context(), reportID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, suggestions)
}

// AutoMap handles POST /api/v1/reports/:id/auto-map
func (h *ReportHandler) AutoMap(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid report ID")
		return
	}

	report, err := h.reportService.AutoMap(c.Request.Context(), reportID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

func pagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
