package repository

import (
	"time"

	"github.com/yukikurage/resource-planning-api/internal/models"
)

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// CreateWithSuperuser creates the organization, its superuser and the
	// superuser membership in one transaction
	CreateWithSuperuser(org *models.Organization, superuser *models.User) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// List returns every organization with its superuser
	List() ([]models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// AddMember adds a member to an organization
	AddMember(member *models.OrganizationMember) error

	// RemoveMember removes a member from an organization
	RemoveMember(organizationID, userID uint64) error

	// FindMember finds a specific organization member
	FindMember(organizationID, userID uint64) (*models.OrganizationMember, error)

	// ListMembersByUserID lists all organizations a user is a member of
	ListMembersByUserID(userID uint64) ([]models.OrganizationMember, error)

	// ListMembers lists all members of an organization
	ListMembers(organizationID uint64) ([]models.OrganizationMember, error)

	// CountMembers counts the members of an organization
	CountMembers(organizationID uint64) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithMembership creates a user and their organization membership
	// within a single transaction.
	CreateWithMembership(user *models.User, member *models.OrganizationMember) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// ListPlatformAdmins lists users with platform-wide admin rights
	ListPlatformAdmins() ([]models.User, error)
}

// OTPRepository stores hashed one-time login codes.
type OTPRepository interface {
	// Replace invalidates every valid code for the email and stores code.
	Replace(code *models.OneTimeCode) error

	// ListValid returns unexpired valid codes for the email, newest first.
	ListValid(email string, now time.Time) ([]models.OneTimeCode, error)

	// Invalidate marks a code as used.
	Invalidate(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(project *models.Project) error

	// FindByID finds a project inside an organization with optional preloading
	FindByID(organizationID, id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects with their assignments, filtered and paginated
	List(filter ProjectFilter) ([]models.Project, int64, error)

	Update(project *models.Project) error

	// Delete removes a project and its assignments
	Delete(organizationID, id uint64) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	OrganizationID uint64
	Status         *models.ProjectStatus
	Type           *models.ProjectType
	Page           int
	PageSize       int
}

// PersonRepository defines the interface for person data access
type PersonRepository interface {
	Create(person *models.Person) error

	// FindByID finds a person inside an organization with optional preloading
	FindByID(organizationID, id uint64, preload ...string) (*models.Person, error)

	// List lists the people of an organization with their assignments and projects
	List(organizationID uint64) ([]models.Person, error)

	// ListUnassigned lists people of the organization not assigned to the project
	ListUnassigned(organizationID, projectID uint64) ([]models.Person, error)

	Update(person *models.Person) error

	// Delete removes a person and their assignments
	Delete(organizationID, id uint64) error
}

// AssignmentRepository defines the interface for assignment data access
type AssignmentRepository interface {
	// CreateUnique inserts the assignment unless the (project, person) pair is
	// already taken, in which case ErrDuplicate is returned.
	CreateUnique(assignment *models.Assignment) error

	// FindByID finds an assignment whose project belongs to the organization
	FindByID(organizationID, id uint64) (*models.Assignment, error)

	// ListByPerson lists a person's assignments with their projects
	ListByPerson(personID uint64) ([]models.Assignment, error)

	// ListByProject lists a project's assignments with their people
	ListByProject(projectID uint64) ([]models.Assignment, error)

	// ListByOrganization lists every assignment of an organization with both sides loaded
	ListByOrganization(organizationID uint64) ([]models.Assignment, error)

	Update(assignment *models.Assignment) error

	Delete(id uint64) error
}

// LeaveRepository caches HR leave records and the sync cursor.
type LeaveRepository interface {
	// SaveRecords inserts records whose external id is new and returns how many were added
	SaveRecords(records []models.LeaveRecord) (int64, error)

	// ListByStatus lists cached records with the given status
	ListByStatus(status string) ([]models.LeaveRecord, error)

	// GetState returns the sync state for key, or a fresh state when none is stored
	GetState(key string) (*models.SyncState, error)

	// SaveState upserts a sync state
	SaveState(state *models.SyncState) error
}
