package dto

import (
	"time"

	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID              uint64 `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	IsActive        bool   `json:"is_active"`
	IsPlatformAdmin bool   `json:"is_platform_admin"`
}

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID               uint64   `json:"id"`
	Name             string   `json:"name"`
	SubscriptionTier string   `json:"subscription_tier"`
	MaxUsers         int      `json:"max_users"`
	Superuser        *UserDTO `json:"superuser,omitempty"`
}

// OrganizationWithRoleDTO represents an organization with the user's role
type OrganizationWithRoleDTO struct {
	OrganizationDTO
	Role models.OrganizationRole `json:"role"`
}

// OrganizationMemberDTO represents a member in an organization
type OrganizationMemberDTO struct {
	User        UserDTO                 `json:"user"`
	Role        models.OrganizationRole `json:"role"`
	IsSuperuser bool                    `json:"is_superuser"`
	JoinedAt    time.Time               `json:"joined_at"`
}

// CurrentUserDTO is the authenticated user with the organizations they belong to
type CurrentUserDTO struct {
	UserDTO
	Organizations []OrganizationWithRoleDTO `json:"organizations"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		IsActive:        user.IsActive,
		IsPlatformAdmin: user.IsPlatformAdmin,
	}
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	dto := OrganizationDTO{
		ID:               org.ID,
		Name:             org.Name,
		SubscriptionTier: org.SubscriptionTier,
		MaxUsers:         org.MaxUsers,
	}
	if org.Superuser.ID != 0 {
		su := ToUserDTO(org.Superuser)
		dto.Superuser = &su
	}
	return dto
}

// ToCurrentUserDTO converts a user and their memberships. Roles are resolved
// per organization.
func ToCurrentUserDTO(user models.User, memberships []models.OrganizationMember) CurrentUserDTO {
	orgs := make([]OrganizationWithRoleDTO, len(memberships))
	for i, m := range memberships {
		orgs[i] = OrganizationWithRoleDTO{
			OrganizationDTO: ToOrganizationDTO(m.Organization),
			Role:            services.EffectiveRole(user, m.Organization, m),
		}
	}
	return CurrentUserDTO{UserDTO: ToUserDTO(user), Organizations: orgs}
}

// ToOrganizationMemberDTO converts a member view to DTO
func ToOrganizationMemberDTO(member services.MemberView) OrganizationMemberDTO {
	return OrganizationMemberDTO{
		User:        ToUserDTO(member.User),
		Role:        member.Role,
		IsSuperuser: member.IsSuperuser,
		JoinedAt:    member.JoinedAt,
	}
}

// ToOrganizationMemberDTOs converts member views to DTOs
func ToOrganizationMemberDTOs(members []services.MemberView) []OrganizationMemberDTO {
	dtos := make([]OrganizationMemberDTO, len(members))
	for i, m := range members {
		dtos[i] = ToOrganizationMemberDTO(m)
	}
	return dtos
}
