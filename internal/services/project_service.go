package services

import (
	"strings"
	"time"

	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/planning"
	"github.com/yukikurage/resource-planning-api/internal/repository"
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	now         func() time.Time
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		now:         time.Now,
	}
}

// ProjectInput represents the editable fields of a project. Dates are
// YYYY-MM-DD strings as received from clients.
type ProjectInput struct {
	Name      string
	Type      models.ProjectType
	Status    models.ProjectStatus
	StartDate string
	EndDate   string
}

// ProjectView is a project with the status shown to users and its team size.
type ProjectView struct {
	Project         models.Project
	AutomatedStatus models.ProjectStatus
	TeamCount       int
}

// ListProjectsInput represents filters for listing projects
type ListProjectsInput struct {
	OrganizationID uint64
	Status         *models.ProjectStatus
	Type           *models.ProjectType
	Page           int
	PageSize       int
	// On is the reference day for automated statuses; zero means today.
	On time.Time
}

// NewProjectView resolves the automated status and counts distinct people on
// the project's preloaded assignments.
func NewProjectView(p models.Project, on time.Time) ProjectView {
	people := make(map[uint64]struct{}, len(p.Assignments))
	for _, a := range p.Assignments {
		people[a.PersonID] = struct{}{}
	}
	return ProjectView{
		Project:         p,
		AutomatedStatus: planning.ProjectStatusFor(p, on),
		TeamCount:       len(people),
	}
}

// CreateProject validates and stores a project. The stored status defaults to
// Not Started.
func (s *ProjectService) CreateProject(orgID uint64, input ProjectInput) (*ProjectView, error) {
	if input.Status == "" {
		input.Status = models.ProjectStatusNotStarted
	}
	project, err := validateProjectInput(input)
	if err != nil {
		return nil, err
	}
	project.OrganizationID = orgID

	if err := s.projectRepo.Create(project); err != nil {
		return nil, storageError("create project", err)
	}

	view := NewProjectView(*project, s.now())
	return &view, nil
}

// GetProject returns a project of the organization with its team loaded.
func (s *ProjectService) GetProject(orgID, projectID uint64, on time.Time) (*ProjectView, error) {
	project, err := s.projectRepo.FindByID(orgID, projectID, "Assignments")
	if err != nil {
		return nil, lookupError("find project", err, ErrProjectNotFound)
	}
	view := NewProjectView(*project, s.day(on))
	return &view, nil
}

// ListProjects returns projects of an organization, newest start first.
func (s *ProjectService) ListProjects(input ListProjectsInput) ([]ProjectView, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, newValidationError("status", "unknown status %q", *input.Status)
	}
	if input.Type != nil && !input.Type.Valid() {
		return nil, 0, newValidationError("project_type", "unknown type %q", *input.Type)
	}

	projects, total, err := s.projectRepo.List(repository.ProjectFilter{
		OrganizationID: input.OrganizationID,
		Status:         input.Status,
		Type:           input.Type,
		Page:           input.Page,
		PageSize:       input.PageSize,
	})
	if err != nil {
		return nil, 0, storageError("list projects", err)
	}

	on := s.day(input.On)
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, NewProjectView(p, on))
	}
	return views, total, nil
}

// UpdateProject replaces a project's fields. The requested status is corrected
// against today's date before it is stored: a project starting today becomes
// Active and one that already ended becomes Overdue. On Hold and the terminal
// statuses are stored as requested.
func (s *ProjectService) UpdateProject(orgID, projectID uint64, input ProjectInput) (*ProjectView, error) {
	if input.Status == "" {
		return nil, newValidationError("status", "is required")
	}
	updated, err := validateProjectInput(input)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(orgID, projectID)
	if err != nil {
		return nil, lookupError("find project", err, ErrProjectNotFound)
	}

	today := s.now()
	project.Name = updated.Name
	project.Type = updated.Type
	project.StartDate = updated.StartDate
	project.EndDate = updated.EndDate
	project.Status = planning.CorrectStatusOnEdit(updated.Status, updated.StartDate, updated.EndDate, today)

	if err := s.projectRepo.Update(project); err != nil {
		return nil, storageError("update project", err)
	}

	reloaded, err := s.projectRepo.FindByID(orgID, projectID, "Assignments")
	if err != nil {
		return nil, lookupError("find project", err, ErrProjectNotFound)
	}
	view := NewProjectView(*reloaded, today)
	return &view, nil
}

// DeleteProject removes a project and its assignments.
func (s *ProjectService) DeleteProject(orgID, projectID uint64) error {
	if err := s.projectRepo.Delete(orgID, projectID); err != nil {
		return lookupError("delete project", err, ErrProjectNotFound)
	}
	return nil
}

func (s *ProjectService) day(on time.Time) time.Time {
	if on.IsZero() {
		return s.now()
	}
	return on
}

func validateProjectInput(input ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, newValidationError("name", "is required")
	}
	if !input.Type.Valid() {
		return nil, newValidationError("project_type", "unknown type %q", input.Type)
	}
	if !input.Status.Valid() {
		return nil, newValidationError("status", "unknown status %q", input.Status)
	}
	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}
	return &models.Project{
		Name:      name,
		Type:      input.Type,
		Status:    input.Status,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// parseDateRange parses both ends of a range and requires start <= end.
func parseDateRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := planning.ParseDate(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError("start_date", "must be a date in YYYY-MM-DD format")
	}
	end, err := planning.ParseDate(endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, newValidationError("end_date", "must be a date in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, newValidationError("end_date", "must not be before start_date")
	}
	return start, end, nil
}
