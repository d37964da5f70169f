package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salesfeed/internal/service"
)

// WorkspaceHandler handles workspace management endpoints.
type WorkspaceHandler struct {
	workspaceService service.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

type createWorkspaceRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
}

// Create handles POST /api/v1/workspaces
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "name and slug are required")
		return
	}

	workspace, err := h.workspaceService.Create(c.Request.Context(), service.CreateWorkspaceInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, workspace)
}

// GetByID handles GET /api/v1/workspaces/:workspace_id
func (h *WorkspaceHandler) GetByID(c *gin.Context) {
	workspaceID, err := uuid.Parse(c.Param("workspace_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid workspace ID")
		return
	}

	workspace, err := h.workspaceService.GetByID(c.Request.Context(), workspaceID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, workspace)
}

// List handles GET /api/v1/workspaces
func (h *WorkspaceHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	workspaces, total, err := h.workspaceService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, workspaces, PagMeta{Total: total, Offset: offset, Limit: limit})
}
