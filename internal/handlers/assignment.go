package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/resource-planning-api/internal/dto"
	apierrors "github.com/yukikurage/resource-planning-api/internal/errors"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

type AssignmentHandler struct {
	assignmentService *services.AssignmentService
}

func NewAssignmentHandler(assignmentService *services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// assignmentRequest keeps allocation untyped so numeric strings reach validation.
type assignmentRequest struct {
	PersonID   uint64 `json:"person_id"`
	Allocation any    `json:"allocation"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// ListAssignments returns every assignment of the organization
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListAssignments(orgID)
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]dto.AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = dto.ToAssignmentDTO(a)
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": dtos,
	})
}

// CreateAssignment assigns a person to the project in the path
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.PersonID == 0 {
		apierrors.BadRequestWithDetails(c, "person_id: is required", gin.H{"field": "person_id"})
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(services.CreateAssignmentInput{
		OrganizationID: orgID,
		ProjectID:      projectID,
		PersonID:       req.PersonID,
		Allocation:     req.Allocation,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssignmentDTO(*assignment))
}

// UpdateAssignment changes allocation and dates
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	assignmentID, ok := parseIDParam(c, "assignmentId")
	if !ok {
		return
	}

	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.assignmentService.UpdateAssignment(orgID, projectID, assignmentID, services.UpdateAssignmentInput{
		Allocation: req.Allocation,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	assignmentID, ok := parseIDParam(c, "assignmentId")
	if !ok {
		return
	}

	if err := h.assignmentService.DeleteAssignment(orgID, projectID, assignmentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Assignment deleted successfully",
	})
}

// PersonAllocation returns a person's total allocation on the reference day
func (h *AssignmentHandler) PersonAllocation(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	personID, ok := parseIDParam(c, "personId")
	if !ok {
		return
	}
	on, ok := referenceDate(c)
	if !ok {
		return
	}

	total, err := h.assignmentService.TotalAllocation(orgID, personID, on)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"person_id":        personID,
		"total_allocation": total,
	})
}
