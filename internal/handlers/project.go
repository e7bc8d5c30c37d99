package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/resource-planning-api/internal/dto"
	apierrors "github.com/yukikurage/resource-planning-api/internal/errors"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/services"
	"github.com/yukikurage/resource-planning-api/internal/utils"
)

type ProjectHandler struct {
	projectService    *services.ProjectService
	assignmentService *services.AssignmentService
}

func NewProjectHandler(projectService *services.ProjectService, assignmentService *services.AssignmentService) *ProjectHandler {
	return &ProjectHandler{
		projectService:    projectService,
		assignmentService: assignmentService,
	}
}

type projectRequest struct {
	Name      string               `json:"name"`
	Type      models.ProjectType   `json:"project_type"`
	Status    models.ProjectStatus `json:"status"`
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
}

func (r projectRequest) input() services.ProjectInput {
	return services.ProjectInput{
		Name:      r.Name,
		Type:      r.Type,
		Status:    r.Status,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

// ListProjects returns the organization's projects, newest start first.
// Supports ?status=, ?project_type=, ?date= and pagination.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	on, ok := referenceDate(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input := services.ListProjectsInput{
		OrganizationID: orgID,
		Page:           params.Page,
		PageSize:       params.PageSize,
		On:             on,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ProjectStatus(raw)
		input.Status = &status
	}
	if raw := c.Query("project_type"); raw != "" {
		projectType := models.ProjectType(raw)
		input.Type = &projectType
	}

	views, total, err := h.projectService.ListProjects(input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(views, params.Page, params.PageSize, total))
}

// CreateProject creates a project. Status defaults to Not Started.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.projectService.CreateProject(orgID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*view))
}

// GetProject returns a project with its team and the people not yet on it
func (h *ProjectHandler) GetProject(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	on, ok := referenceDate(c)
	if !ok {
		return
	}

	team, err := h.assignmentService.TeamForProject(orgID, projectID, on)
	if err != nil {
		respondError(c, err)
		return
	}
	available, err := h.assignmentService.AvailablePeople(orgID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectTeamDTO(*team, available))
}

// UpdateProject replaces a project's fields. A status landing on a date
// boundary is corrected to Active or Overdue.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.projectService.UpdateProject(orgID, projectID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*view))
}

// DeleteProject deletes a project and its assignments
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(orgID, projectID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}
