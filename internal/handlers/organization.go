package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/resource-planning-api/internal/dto"
	apierrors "github.com/yukikurage/resource-planning-api/internal/errors"
	"github.com/yukikurage/resource-planning-api/internal/middleware"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// CreateOrganization creates an organization together with its superuser.
// Platform administrators only.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	type CreateOrgRequest struct {
		Name             string `json:"name" binding:"required"`
		SubscriptionTier string `json:"subscription_tier"`
		MaxUsers         int    `json:"max_users"`
		SuperuserEmail   string `json:"superuser_email" binding:"required"`
		SuperuserName    string `json:"superuser_name" binding:"required"`
	}

	var req CreateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, superuser, err := h.orgService.CreateOrganization(services.CreateOrganizationInput{
		Name:             req.Name,
		SubscriptionTier: req.SubscriptionTier,
		MaxUsers:         req.MaxUsers,
		SuperuserEmail:   req.SuperuserEmail,
		SuperuserName:    req.SuperuserName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	org.Superuser = *superuser
	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// ListOrganizations returns every organization. Platform administrators only.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	orgs, err := h.orgService.ListOrganizations()
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]dto.OrganizationDTO, len(orgs))
	for i, org := range orgs {
		dtos[i] = dto.ToOrganizationDTO(org)
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": dtos,
	})
}

// GetOrganization returns organization details and the caller's role
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return
	}

	c.JSON(http.StatusOK, dto.OrganizationWithRoleDTO{
		OrganizationDTO: dto.ToOrganizationDTO(*org),
		Role:            middleware.GetRole(c),
	})
}

// UpdateOrganization renames the organization. Superusers only.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	if middleware.GetRole(c) != models.RoleSuperuser {
		apierrors.Forbidden(c, "Only the organization superuser can rename it")
		return
	}

	type UpdateOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.UpdateOrganizationName(orgID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// ListMembers lists the organization's users. Managers only.
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	members, err := h.orgService.ListMembers(orgID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToOrganizationMemberDTOs(members),
	})
}

// InviteUser creates a user inside the organization
func (h *OrganizationHandler) InviteUser(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type InviteRequest struct {
		Email string                  `json:"email" binding:"required"`
		Name  string                  `json:"name" binding:"required"`
		Role  models.OrganizationRole `json:"role"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.orgService.InviteUser(services.InviteUserInput{
		OrganizationID: orgID,
		InviterID:      userID,
		Email:          req.Email,
		Name:           req.Name,
		Role:           req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUserStatus activates or deactivates a member
func (h *OrganizationHandler) UpdateUserStatus(c *gin.Context) {
	orgID, ok := currentOrganizationID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	type StatusRequest struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.orgService.UpdateUserStatus(orgID, userID, targetID, *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ListPlatformAdmins lists platform administrators. Platform administrators only.
func (h *OrganizationHandler) ListPlatformAdmins(c *gin.Context) {
	admins, err := h.orgService.ListPlatformAdmins()
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]dto.UserDTO, len(admins))
	for i, a := range admins {
		dtos[i] = dto.ToUserDTO(a)
	}

	c.JSON(http.StatusOK, gin.H{
		"admins": dtos,
	})
}
