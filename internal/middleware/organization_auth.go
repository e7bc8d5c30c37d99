package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/resource-planning-api/internal/constants"
	apierrors "github.com/yukikurage/resource-planning-api/internal/errors"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

// OrganizationParam is the route parameter carrying the organization id.
const OrganizationParam = "orgId"

// RequireOrganizationAccess checks if the user is a member of the organization
func RequireOrganizationAccess(orgService *services.OrganizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID, err := strconv.ParseUint(c.Param(OrganizationParam), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid organization ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		role, err := orgService.RoleOf(orgID, userID)
		if err != nil {
			// Non-members get 404 so organization ids are not leaked
			if errors.Is(err, services.ErrOrganizationMemberNotFound) || errors.Is(err, services.ErrUserNotFound) {
				apierrors.NotFound(c, "Organization not found")
			} else {
				Logger(c).Error().Err(err).Uint64("organization_id", orgID).Msg("resolve organization role")
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		org, err := orgService.GetOrganization(orgID)
		if err != nil {
			if errors.Is(err, services.ErrOrganizationNotFound) {
				apierrors.NotFound(c, "Organization not found")
			} else {
				Logger(c).Error().Err(err).Uint64("organization_id", orgID).Msg("load organization")
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOrganization, org)
		c.Set(constants.ContextKeyMembership, role)
		c.Next()
	}
}

// RequireUserManager allows Superuser and Privileged members through.
// It must run after RequireOrganizationAccess.
func RequireUserManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !services.CanManageUsers(GetRole(c)) {
			apierrors.Forbidden(c, "You don't have permission to manage users")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetOrganization returns the organization loaded by RequireOrganizationAccess.
func GetOrganization(c *gin.Context) (*models.Organization, bool) {
	v, exists := c.Get(constants.ContextKeyOrganization)
	if !exists {
		return nil, false
	}
	org, ok := v.(*models.Organization)
	return org, ok
}

// GetRole returns the caller's effective role in the current organization.
func GetRole(c *gin.Context) models.OrganizationRole {
	v, _ := c.Get(constants.ContextKeyMembership)
	role, _ := v.(models.OrganizationRole)
	return role
}
