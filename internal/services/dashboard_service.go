package services

import (
	"sort"
	"time"

	"github.com/yukikurage/resource-planning-api/internal/constants"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/planning"
	"github.com/yukikurage/resource-planning-api/internal/repository"
	"golang.org/x/sync/errgroup"
)

// DashboardService assembles the organization overview
type DashboardService struct {
	projectRepo repository.ProjectRepository
	personRepo  repository.PersonRepository
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(projectRepo repository.ProjectRepository, personRepo repository.PersonRepository) *DashboardService {
	return &DashboardService{
		projectRepo: projectRepo,
		personRepo:  personRepo,
		now:         time.Now,
	}
}

// DashboardAssignment is one project on a person's dashboard card. Allocation
// follows the team rule and is zero for projects not started or completed.
type DashboardAssignment struct {
	ProjectID  uint64
	Name       string
	Status     models.ProjectStatus
	Allocation int
	StartDate  time.Time
	EndDate    time.Time
}

type DashboardPerson struct {
	Person            models.Person
	CurrentAllocation int
	Projects          []DashboardAssignment
}

// Dashboard is the organization overview on a reference day.
type Dashboard struct {
	Date           time.Time
	Projects       []ProjectView
	People         []DashboardPerson
	ActiveProjects int
	TotalPeople    int
	AvailableCount int
}

// Build loads projects and people of the organization and computes the
// dashboard metrics for the given day, today when on is zero.
func (s *DashboardService) Build(orgID uint64, on time.Time) (*Dashboard, error) {
	if on.IsZero() {
		on = s.now()
	}
	day := planning.Day(on)

	var (
		projects []models.Project
		people   []models.Person
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		projects, _, err = s.projectRepo.List(repository.ProjectFilter{OrganizationID: orgID})
		if err != nil {
			return storageError("list projects", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		people, err = s.personRepo.List(orgID)
		if err != nil {
			return storageError("list people", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].StartDate.Before(projects[j].StartDate)
	})

	dash := &Dashboard{
		Date:     day,
		Projects: make([]ProjectView, 0, len(projects)),
		People:   make([]DashboardPerson, 0, len(people)),
	}

	for _, p := range projects {
		dash.Projects = append(dash.Projects, NewProjectView(p, day))
		if p.Status == models.ProjectStatusActive {
			dash.ActiveProjects++
		}
	}

	for _, person := range people {
		card := DashboardPerson{
			Person:            person,
			CurrentAllocation: planning.TotalAllocation(person.Assignments, day),
			Projects:          make([]DashboardAssignment, 0, len(person.Assignments)),
		}
		for _, a := range person.Assignments {
			if a.Project.ID == 0 {
				continue
			}
			card.Projects = append(card.Projects, DashboardAssignment{
				ProjectID:  a.ProjectID,
				Name:       a.Project.Name,
				Status:     a.Project.Status,
				Allocation: planning.TeamAllocation(a, a.Project.Status),
				StartDate:  a.StartDate,
				EndDate:    a.EndDate,
			})
		}
		if card.CurrentAllocation < constants.AvailableBelowPercent {
			dash.AvailableCount++
		}
		dash.People = append(dash.People, card)
	}
	dash.TotalPeople = len(dash.People)

	return dash, nil
}
