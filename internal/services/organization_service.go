package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/yukikurage/resource-planning-api/internal/constants"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/repository"
)

var (
	ErrInvalidOrganizationName    = errors.New("organization name cannot be empty")
	ErrOrganizationMemberNotFound = errors.New("organization member not found")
	ErrInsufficientPermissions    = errors.New("insufficient permissions")
	ErrCannotInviteSuperuser      = errors.New("cannot create superuser through invitation")
	ErrEmailTaken                 = errors.New("email already exists")
	ErrOrganizationFull           = errors.New("organization has reached maximum user limit")
	ErrCannotManageUser           = errors.New("not allowed to manage this user")
)

// OrganizationService provides business logic for organization operations.
type OrganizationService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// EffectiveRole resolves a member's role: platform admins and the
// organization's superuser are always Superuser.
func EffectiveRole(user models.User, org models.Organization, member models.OrganizationMember) models.OrganizationRole {
	if user.IsPlatformAdmin || org.SuperuserID == user.ID {
		return models.RoleSuperuser
	}
	return member.Role
}

// CanManageUsers reports whether the role may open user administration.
func CanManageUsers(role models.OrganizationRole) bool {
	return role == models.RoleSuperuser || role == models.RolePrivileged
}

// CanManageUser reports whether a manager may change a target's account.
func CanManageUser(managerIsPlatformAdmin bool, manager, target models.OrganizationRole) bool {
	if manager == "" || target == "" {
		return false
	}
	if managerIsPlatformAdmin {
		return true
	}
	switch manager {
	case models.RoleSuperuser:
		return target != models.RoleSuperuser
	case models.RolePrivileged:
		return target == models.RoleNormal
	}
	return false
}

// MemberView is a member with the role they effectively hold.
type MemberView struct {
	User        models.User
	Role        models.OrganizationRole
	IsSuperuser bool
	JoinedAt    time.Time
}

// CreateOrganizationInput represents parameters to create a new organization.
type CreateOrganizationInput struct {
	Name             string
	SubscriptionTier string
	MaxUsers         int
	SuperuserEmail   string
	SuperuserName    string
}

// CreateOrganization creates an organization together with its superuser.
// The superuser email must not be registered yet.
func (s *OrganizationService) CreateOrganization(input CreateOrganizationInput) (*models.Organization, *models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, ErrInvalidOrganizationName
	}
	email := NormalizeEmail(input.SuperuserEmail)
	if email == "" {
		return nil, nil, newValidationError("superuser_email", "is required")
	}
	suName := strings.TrimSpace(input.SuperuserName)
	if suName == "" {
		return nil, nil, newValidationError("superuser_name", "is required")
	}
	if input.MaxUsers < 0 {
		return nil, nil, newValidationError("max_users", "must not be negative")
	}

	if err := s.ensureEmailAvailable(email); err != nil {
		return nil, nil, err
	}

	maxUsers := input.MaxUsers
	if maxUsers == 0 {
		maxUsers = constants.DefaultOrgMaxUsers
	}
	tier := strings.TrimSpace(input.SubscriptionTier)
	if tier == "" {
		tier = "free"
	}

	org := &models.Organization{Name: name, SubscriptionTier: tier, MaxUsers: maxUsers}
	superuser := &models.User{Email: email, Name: suName, IsActive: true}

	if err := s.orgRepo.CreateWithSuperuser(org, superuser); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, storageError("create organization", err)
	}

	return org, superuser, nil
}

// ListOrganizations returns every organization with its superuser.
func (s *OrganizationService) ListOrganizations() ([]models.Organization, error) {
	orgs, err := s.orgRepo.List()
	if err != nil {
		return nil, storageError("list organizations", err)
	}
	return orgs, nil
}

// GetOrganization returns an organization by ID.
func (s *OrganizationService) GetOrganization(orgID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		return nil, lookupError("find organization", err, ErrOrganizationNotFound)
	}
	return org, nil
}

// UpdateOrganizationName updates an organization's name.
func (s *OrganizationService) UpdateOrganizationName(orgID uint64, name string) (*models.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidOrganizationName
	}

	org, err := s.GetOrganization(orgID)
	if err != nil {
		return nil, err
	}

	org.Name = name
	if err := s.orgRepo.Update(org); err != nil {
		return nil, storageError("update organization", err)
	}

	return org, nil
}

// RoleOf returns the effective role of a user inside an organization. Users
// without a membership have no role there, platform admins included.
func (s *OrganizationService) RoleOf(orgID, userID uint64) (models.OrganizationRole, error) {
	member, err := s.orgRepo.FindMember(orgID, userID)
	if err != nil {
		return "", lookupError("find member", err, ErrOrganizationMemberNotFound)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "", lookupError("find user", err, ErrUserNotFound)
	}

	return EffectiveRole(*user, member.Organization, *member), nil
}

// ListMembers returns the members of an organization by name. Only managers
// may list them.
func (s *OrganizationService) ListMembers(orgID, actorID uint64) ([]MemberView, error) {
	role, err := s.RoleOf(orgID, actorID)
	if err != nil {
		return nil, err
	}
	if !CanManageUsers(role) {
		return nil, ErrInsufficientPermissions
	}

	org, err := s.GetOrganization(orgID)
	if err != nil {
		return nil, err
	}

	members, err := s.orgRepo.ListMembers(orgID)
	if err != nil {
		return nil, storageError("list members", err)
	}

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, MemberView{
			User:        m.User,
			Role:        EffectiveRole(m.User, *org, m),
			IsSuperuser: org.SuperuserID == m.UserID,
			JoinedAt:    m.JoinedAt,
		})
	}
	sortMembersByName(views)

	return views, nil
}

// InviteUserInput describes a user to add to an organization.
type InviteUserInput struct {
	OrganizationID uint64
	InviterID      uint64
	Email          string
	Name           string
	Role           models.OrganizationRole
}

// InviteUser creates a user and adds them to the organization. Only a
// Superuser may invite a Privileged user and nobody can invite a Superuser.
func (s *OrganizationService) InviteUser(input InviteUserInput) (*models.User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, newValidationError("email", "is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newValidationError("name", "is required")
	}

	role := input.Role
	if role == "" {
		role = models.RoleNormal
	}
	if !role.Valid() {
		return nil, newValidationError("role", "must be one of Superuser, Privileged, Normal")
	}
	if role == models.RoleSuperuser {
		return nil, ErrCannotInviteSuperuser
	}

	inviterRole, err := s.RoleOf(input.OrganizationID, input.InviterID)
	if err != nil {
		return nil, err
	}
	if !CanManageUsers(inviterRole) {
		return nil, ErrInsufficientPermissions
	}
	if role == models.RolePrivileged && inviterRole != models.RoleSuperuser {
		return nil, ErrInsufficientPermissions
	}

	org, err := s.GetOrganization(input.OrganizationID)
	if err != nil {
		return nil, err
	}
	count, err := s.orgRepo.CountMembers(org.ID)
	if err != nil {
		return nil, storageError("count members", err)
	}
	if org.MaxUsers > 0 && count >= int64(org.MaxUsers) {
		return nil, ErrOrganizationFull
	}

	if err := s.ensureEmailAvailable(email); err != nil {
		return nil, err
	}

	user := &models.User{Email: email, Name: name, IsActive: true}
	member := &models.OrganizationMember{
		OrganizationID: org.ID,
		Role:           role,
		JoinedAt:       s.now(),
	}
	if err := s.userRepo.CreateWithMembership(user, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, storageError("invite user", err)
	}

	return user, nil
}

// UpdateUserStatus activates or deactivates a member's account.
func (s *OrganizationService) UpdateUserStatus(orgID, actorID, targetID uint64, active bool) (*models.User, error) {
	if actorID == targetID {
		return nil, ErrCannotManageUser
	}

	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return nil, lookupError("find user", err, ErrUserNotFound)
	}
	actorRole, err := s.RoleOf(orgID, actorID)
	if err != nil {
		return nil, err
	}
	targetRole, err := s.RoleOf(orgID, targetID)
	if err != nil {
		return nil, err
	}
	if !CanManageUser(actor.IsPlatformAdmin, actorRole, targetRole) {
		return nil, ErrCannotManageUser
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		return nil, lookupError("find user", err, ErrUserNotFound)
	}

	target.IsActive = active
	if err := s.userRepo.Update(target); err != nil {
		return nil, storageError("update user", err)
	}

	return target, nil
}

// CreatePlatformAdmin registers a user with platform-wide rights.
func (s *OrganizationService) CreatePlatformAdmin(email, name string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, newValidationError("email", "is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newValidationError("name", "is required")
	}

	user := &models.User{Email: email, Name: name, IsActive: true, IsPlatformAdmin: true}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, storageError("create platform admin", err)
	}
	return user, nil
}

// ListPlatformAdmins lists users with platform-wide rights.
func (s *OrganizationService) ListPlatformAdmins() ([]models.User, error) {
	admins, err := s.userRepo.ListPlatformAdmins()
	if err != nil {
		return nil, storageError("list platform admins", err)
	}
	return admins, nil
}

func (s *OrganizationService) ensureEmailAvailable(email string) error {
	_, err := s.userRepo.FindByEmail(email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return storageError("check email", err)
	}
}

func sortMembersByName(views []MemberView) {
	sort.SliceStable(views, func(i, j int) bool {
		return strings.ToLower(views[i].User.Name) < strings.ToLower(views[j].User.Name)
	})
}
