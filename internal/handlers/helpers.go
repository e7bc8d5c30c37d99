package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/resource-planning-api/internal/errors"
	"github.com/yukikurage/resource-planning-api/internal/middleware"
	"github.com/yukikurage/resource-planning-api/internal/planning"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

// respondError maps service errors onto API errors. Anything unexpected is
// logged and reported as a bare 500.
func respondError(c *gin.Context, err error) {
	if ve, ok := services.AsValidationError(err); ok {
		apierrors.BadRequestWithDetails(c, ve.Error(), gin.H{"field": ve.Field})
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidOrganizationName),
		errors.Is(err, services.ErrLoginNotStarted):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCode):
		apierrors.InvalidCode(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrPersonNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrOrganizationMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicateAssignment):
		apierrors.DuplicateAssignment(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrOrganizationFull),
		errors.Is(err, services.ErrSyncInProgress):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInsufficientPermissions),
		errors.Is(err, services.ErrCannotInviteSuperuser),
		errors.Is(err, services.ErrCannotManageUser),
		errors.Is(err, services.ErrUserInactive):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrFailedToSendCode),
		errors.Is(err, services.ErrLeaveSyncDisabled):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrLeaveFetchFailed):
		middleware.Logger(c).Warn().Err(err).Msg("leave sync stopped early")
		apierrors.BadGateway(c, services.ErrLeaveFetchFailed.Error())
	default:
		middleware.Logger(c).Error().Err(err).Msg("request failed")
		apierrors.InternalError(c, "")
	}
}

// parseIDParam reads a positive numeric route parameter, answering 400 when it is malformed.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// referenceDate reads the optional ?date= query. The zero time means today.
func referenceDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Time{}, true
	}
	day, err := planning.ParseDate(raw)
	if err != nil {
		apierrors.BadRequestWithDetails(c, "date must be YYYY-MM-DD", gin.H{"field": "date"})
		return time.Time{}, false
	}
	return day, true
}

// currentOrganizationID returns the organization resolved by RequireOrganizationAccess.
func currentOrganizationID(c *gin.Context) (uint64, bool) {
	org, ok := middleware.GetOrganization(c)
	if !ok {
		apierrors.InternalError(c, "Organization not found in context")
		return 0, false
	}
	return org.ID, true
}

// currentUserID returns the session user, answering 401 when there is none.
func currentUserID(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}
