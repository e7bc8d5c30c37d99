package services

import (
	"errors"
	"time"

	"github.com/yukikurage/resource-planning-api/internal/constants"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/planning"
	"github.com/yukikurage/resource-planning-api/internal/repository"
)

// AssignmentService handles assignment writes and the allocation views built
// on top of them.
type AssignmentService struct {
	assignmentRepo repository.AssignmentRepository
	projectRepo    repository.ProjectRepository
	personRepo     repository.PersonRepository
	now            func() time.Time
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	projectRepo repository.ProjectRepository,
	personRepo repository.PersonRepository,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		projectRepo:    projectRepo,
		personRepo:     personRepo,
		now:            time.Now,
	}
}

// CreateAssignmentInput represents input for creating an assignment.
// Allocation is taken as decoded from JSON: a number or a numeric string.
type CreateAssignmentInput struct {
	OrganizationID uint64
	ProjectID      uint64
	PersonID       uint64
	Allocation     any
	StartDate      string
	EndDate        string
}

// UpdateAssignmentInput represents the editable fields of an assignment
type UpdateAssignmentInput struct {
	Allocation any
	StartDate  string
	EndDate    string
}

// ProjectTeam is a project with the people assigned to it.
type ProjectTeam struct {
	Project ProjectView
	Members []planning.TeamMember
}

// CreateAssignment assigns a person to a project. Input is validated before
// storage is touched; a second assignment for the same pair fails with
// ErrDuplicateAssignment, also when two creators race.
func (s *AssignmentService) CreateAssignment(input CreateAssignmentInput) (*models.Assignment, error) {
	allocation, err := validateAllocation(input.Allocation)
	if err != nil {
		return nil, err
	}
	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(input.OrganizationID, input.ProjectID)
	if err != nil {
		return nil, lookupError("find project", err, ErrProjectNotFound)
	}
	person, err := s.personRepo.FindByID(input.OrganizationID, input.PersonID)
	if err != nil {
		return nil, lookupError("find person", err, ErrPersonNotFound)
	}

	assignment := &models.Assignment{
		ProjectID:  project.ID,
		PersonID:   person.ID,
		Allocation: allocation,
		StartDate:  start,
		EndDate:    end,
	}
	if err := s.assignmentRepo.CreateUnique(assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAssignment
		}
		return nil, storageError("create assignment", err)
	}

	assignment.Project = *project
	assignment.Person = *person
	return assignment, nil
}

// UpdateAssignment changes the allocation and dates of an assignment on the
// given project.
func (s *AssignmentService) UpdateAssignment(orgID, projectID, assignmentID uint64, input UpdateAssignmentInput) (*models.Assignment, error) {
	allocation, err := validateAllocation(input.Allocation)
	if err != nil {
		return nil, err
	}
	start, end, err := parseDateRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	assignment, err := s.findOnProject(orgID, projectID, assignmentID)
	if err != nil {
		return nil, err
	}

	assignment.Allocation = allocation
	assignment.StartDate = start
	assignment.EndDate = end
	if err := s.assignmentRepo.Update(assignment); err != nil {
		return nil, storageError("update assignment", err)
	}
	return assignment, nil
}

// DeleteAssignment removes an assignment from the given project.
func (s *AssignmentService) DeleteAssignment(orgID, projectID, assignmentID uint64) error {
	if _, err := s.findOnProject(orgID, projectID, assignmentID); err != nil {
		return err
	}
	if err := s.assignmentRepo.Delete(assignmentID); err != nil {
		return lookupError("delete assignment", err, ErrAssignmentNotFound)
	}
	return nil
}

// ListAssignments lists every assignment of the organization.
func (s *AssignmentService) ListAssignments(orgID uint64) ([]models.Assignment, error) {
	assignments, err := s.assignmentRepo.ListByOrganization(orgID)
	if err != nil {
		return nil, storageError("list assignments", err)
	}
	return assignments, nil
}

// TotalAllocation is the sum of a person's allocations that count on the
// given day. See planning.TotalAllocation for the rules.
func (s *AssignmentService) TotalAllocation(orgID, personID uint64, on time.Time) (int, error) {
	if _, err := s.personRepo.FindByID(orgID, personID); err != nil {
		return 0, lookupError("find person", err, ErrPersonNotFound)
	}
	assignments, err := s.assignmentRepo.ListByPerson(personID)
	if err != nil {
		return 0, storageError("list assignments", err)
	}
	return planning.TotalAllocation(assignments, s.day(on)), nil
}

// TeamForProject lists the people on a project with the allocation shown for
// the project and each person's total allocation on the given day.
func (s *AssignmentService) TeamForProject(orgID, projectID uint64, on time.Time) (*ProjectTeam, error) {
	project, err := s.projectRepo.FindByID(orgID, projectID)
	if err != nil {
		return nil, lookupError("find project", err, ErrProjectNotFound)
	}

	assignments, err := s.assignmentRepo.ListByProject(project.ID)
	if err != nil {
		return nil, storageError("list project assignments", err)
	}
	all, err := s.assignmentRepo.ListByOrganization(orgID)
	if err != nil {
		return nil, storageError("list assignments", err)
	}

	day := s.day(on)
	totals := make(map[uint64]int)
	for _, a := range all {
		if planning.CountsTowardAllocation(a, day) {
			totals[a.PersonID] += a.Allocation
		}
	}

	project.Assignments = assignments
	return &ProjectTeam{
		Project: NewProjectView(*project, day),
		Members: planning.Team(*project, assignments, totals),
	}, nil
}

// AvailablePeople lists people of the organization not yet on the project.
func (s *AssignmentService) AvailablePeople(orgID, projectID uint64) ([]models.Person, error) {
	if _, err := s.projectRepo.FindByID(orgID, projectID); err != nil {
		return nil, lookupError("find project", err, ErrProjectNotFound)
	}
	people, err := s.personRepo.ListUnassigned(orgID, projectID)
	if err != nil {
		return nil, storageError("list available people", err)
	}
	return people, nil
}

func (s *AssignmentService) findOnProject(orgID, projectID, assignmentID uint64) (*models.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(orgID, assignmentID)
	if err != nil {
		return nil, lookupError("find assignment", err, ErrAssignmentNotFound)
	}
	if assignment.ProjectID != projectID {
		return nil, ErrAssignmentNotFound
	}
	return assignment, nil
}

func (s *AssignmentService) day(on time.Time) time.Time {
	if on.IsZero() {
		return s.now()
	}
	return on
}

func validateAllocation(raw any) (int, error) {
	allocation, ok := planning.ParseAllocation(raw)
	if !ok {
		return 0, newValidationError("allocation", "must be a whole number")
	}
	if allocation < constants.MinAllocation || allocation > constants.MaxAllocation {
		return 0, newValidationError("allocation", "must be between %d and %d", constants.MinAllocation, constants.MaxAllocation)
	}
	return allocation, nil
}
