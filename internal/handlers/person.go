package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/resource-planning-api/internal/dto"
	apierrors "github.com/yukikurage/resource-planning-api/internal/errors"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

type PersonHandler struct {
	personService *services.PersonService
}

func NewPersonHandler(personService *services.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

type personRequest struct {
	Name         string              `json:"name"`
	Role         models.PersonRole   `json:"role"`
	Availability models.Availability `json:"availability"`
}

func (r personRequest) input() services.PersonInput {
	return services.PersonInput{
		Name:         r.Name,
		Role:         r.Role,
		Availability: r.Availability,
	}
}

// ListPeople returns the organization's people with their current allocation
func (h *PersonHandler) ListPeople(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	on, ok := referenceDate(c)
	if !ok {
		return
	}

	views, err := h.personService.ListPeople(orgID, on)
	if err != nil {
		respondError(c, err)
		return
	}

	people := make([]dto.PersonDTO, len(views))
	for i, v := range views {
		people[i] = dto.ToPersonViewDTO(v)
	}

	c.JSON(http.StatusOK, gin.H{
		"people": people,
	})
}

func (h *PersonHandler) CreatePerson(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}

	var req personRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	person, err := h.personService.CreatePerson(orgID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPersonDTO(*person))
}

// GetPerson returns a person with their assignments
func (h *PersonHandler) GetPerson(c *gin.Context) {
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

	view, err := h.personService.GetPerson(orgID, personID, on)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDetailDTO(*view))
}

func (h *PersonHandler) UpdatePerson(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	personID, ok := parseIDParam(c, "personId")
	if !ok {
		return
	}

	var req personRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	person, err := h.personService.UpdatePerson(orgID, personID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPersonDTO(*person))
}

// DeletePerson deletes a person and their assignments
func (h *PersonHandler) DeletePerson(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	personID, ok := parseIDParam(c, "personId")
	if !ok {
		return
	}

	if err := h.personService.DeletePerson(orgID, personID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Person deleted successfully",
	})
}
