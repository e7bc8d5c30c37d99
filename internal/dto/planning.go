package dto

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/planning"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

// ProjectDTO represents a project in API responses. Status is the stored value
// and AutomatedStatus the one resolved for the reference day.
type ProjectDTO struct {
	ID              uint64               `json:"id"`
	Name            string               `json:"name"`
	Type            models.ProjectType   `json:"project_type"`
	Status          models.ProjectStatus `json:"status"`
	AutomatedStatus models.ProjectStatus `json:"automated_status"`
	StartDate       string               `json:"start_date"`
	EndDate         string               `json:"end_date"`
	TeamCount       int                  `json:"team_count"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO `json:"projects"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
	TotalPages int          `json:"total_pages"`
}

// PersonDTO represents a person in API responses
type PersonDTO struct {
	ID                uint64              `json:"id"`
	Name              string              `json:"name"`
	Role              models.PersonRole   `json:"role"`
	Availability      models.Availability `json:"availability"`
	CurrentAllocation *int                `json:"current_allocation,omitempty"`
}

// PersonDetailDTO is a person with their assignments
type PersonDetailDTO struct {
	PersonDTO
	Assignments []AssignmentDTO `json:"assignments"`
}

// AssignmentDTO represents an assignment in API responses
type AssignmentDTO struct {
	ID          uint64 `json:"id"`
	ProjectID   uint64 `json:"project_id"`
	ProjectName string `json:"project_name,omitempty"`
	PersonID    uint64 `json:"person_id"`
	PersonName  string `json:"person_name,omitempty"`
	Allocation  int    `json:"allocation"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// TeamMemberDTO is one row of a project team
type TeamMemberDTO struct {
	AssignmentID    uint64            `json:"assignment_id"`
	PersonID        uint64            `json:"person_id"`
	Name            string            `json:"name"`
	Role            models.PersonRole `json:"role"`
	Allocation      int               `json:"allocation"`
	TotalAllocation int               `json:"total_allocation"`
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
}

// ProjectTeamDTO is a project with its team and the people still available to it
type ProjectTeamDTO struct {
	Project         ProjectDTO      `json:"project"`
	Team            []TeamMemberDTO `json:"team"`
	AvailablePeople []PersonDTO     `json:"available_people"`
}

// DashboardAssignmentDTO is one project on a person's dashboard card
type DashboardAssignmentDTO struct {
	ProjectID  uint64               `json:"project_id"`
	Name       string               `json:"name"`
	Status     models.ProjectStatus `json:"status"`
	Allocation int                  `json:"allocation"`
	StartDate  string               `json:"start_date"`
	EndDate    string               `json:"end_date"`
}

// DashboardPersonDTO is a person card on the dashboard
type DashboardPersonDTO struct {
	PersonDTO
	Projects []DashboardAssignmentDTO `json:"projects"`
}

// DashboardDTO is the organization overview
type DashboardDTO struct {
	Date           string               `json:"date"`
	ActiveProjects int                  `json:"active_projects"`
	TotalPeople    int                  `json:"total_people"`
	AvailableCount int                  `json:"available_count"`
	Projects       []ProjectDTO         `json:"projects"`
	People         []DashboardPersonDTO `json:"people"`
}

// LeaveEntryDTO is one approved leave on the calendar. Details carries the
// transaction as the HR system returned it.
type LeaveEntryDTO struct {
	ID           uint64          `json:"id"`
	ExternalID   string          `json:"external_id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Status       string          `json:"status"`
	Details      json.RawMessage `json:"details,omitempty"`
}

// LeaveCalendarDTO lists cached leave
type LeaveCalendarDTO struct {
	Entries     []LeaveEntryDTO `json:"entries"`
	LastUpdated *time.Time      `json:"last_updated"`
}

// SyncResultDTO summarizes a sync run
type SyncResultDTO struct {
	Trigger   services.SyncTrigger `json:"trigger"`
	FirstPage int                  `json:"first_page"`
	Pages     int                  `json:"pages"`
	Added     int64                `json:"added"`
	LastPage  int                  `json:"last_page"`
}

// Conversion functions

// ToProjectDTO converts a project view to ProjectDTO
func ToProjectDTO(view services.ProjectView) ProjectDTO {
	p := view.Project
	return ProjectDTO{
		ID:              p.ID,
		Name:            p.Name,
		Type:            p.Type,
		Status:          p.Status,
		AutomatedStatus: view.AutomatedStatus,
		StartDate:       planning.FormatDate(p.StartDate),
		EndDate:         planning.FormatDate(p.EndDate),
		TeamCount:       view.TeamCount,
	}
}

// ToProjectDTOs converts project views to DTOs
func ToProjectDTOs(views []services.ProjectView) []ProjectDTO {
	dtos := make([]ProjectDTO, len(views))
	for i, v := range views {
		dtos[i] = ToProjectDTO(v)
	}
	return dtos
}

// ToProjectListResponse builds a paginated project list
func ToProjectListResponse(views []services.ProjectView, page, pageSize int, total int64) ProjectListResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return ProjectListResponse{
		Projects:   ToProjectDTOs(views),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}
}

// ToPersonDTO converts a Person model to PersonDTO
func ToPersonDTO(person models.Person) PersonDTO {
	return PersonDTO{
		ID:           person.ID,
		Name:         person.Name,
		Role:         person.Role,
		Availability: person.Availability,
	}
}

// ToPersonViewDTO converts a person view, including the current allocation
func ToPersonViewDTO(view services.PersonView) PersonDTO {
	dto := ToPersonDTO(view.Person)
	allocation := view.CurrentAllocation
	dto.CurrentAllocation = &allocation
	return dto
}

// ToPersonDetailDTO converts a person view with their assignments
func ToPersonDetailDTO(view services.PersonView) PersonDetailDTO {
	assignments := make([]AssignmentDTO, len(view.Person.Assignments))
	for i, a := range view.Person.Assignments {
		assignments[i] = ToAssignmentDTO(a)
	}
	return PersonDetailDTO{PersonDTO: ToPersonViewDTO(view), Assignments: assignments}
}

// ToPersonDTOs converts people to DTOs
func ToPersonDTOs(people []models.Person) []PersonDTO {
	dtos := make([]PersonDTO, len(people))
	for i, p := range people {
		dtos[i] = ToPersonDTO(p)
	}
	return dtos
}

// ToAssignmentDTO converts an Assignment model to AssignmentDTO
func ToAssignmentDTO(a models.Assignment) AssignmentDTO {
	return AssignmentDTO{
		ID:          a.ID,
		ProjectID:   a.ProjectID,
		ProjectName: a.Project.Name,
		PersonID:    a.PersonID,
		PersonName:  a.Person.Name,
		Allocation:  a.Allocation,
		StartDate:   planning.FormatDate(a.StartDate),
		EndDate:     planning.FormatDate(a.EndDate),
	}
}

// ToProjectTeamDTO converts a team and the people available to join it
func ToProjectTeamDTO(team services.ProjectTeam, available []models.Person) ProjectTeamDTO {
	members := make([]TeamMemberDTO, len(team.Members))
	for i, m := range team.Members {
		members[i] = TeamMemberDTO{
			AssignmentID:    m.Assignment.ID,
			PersonID:        m.Person.ID,
			Name:            m.Person.Name,
			Role:            m.Person.Role,
			Allocation:      m.Allocation,
			TotalAllocation: m.TotalAllocation,
			StartDate:       planning.FormatDate(m.Assignment.StartDate),
			EndDate:         planning.FormatDate(m.Assignment.EndDate),
		}
	}
	return ProjectTeamDTO{
		Project:         ToProjectDTO(team.Project),
		Team:            members,
		AvailablePeople: ToPersonDTOs(available),
	}
}

// ToDashboardDTO converts the dashboard
func ToDashboardDTO(d services.Dashboard) DashboardDTO {
	people := make([]DashboardPersonDTO, len(d.People))
	for i, p := range d.People {
		projects := make([]DashboardAssignmentDTO, len(p.Projects))
		for j, a := range p.Projects {
			projects[j] = DashboardAssignmentDTO{
				ProjectID:  a.ProjectID,
				Name:       a.Name,
				Status:     a.Status,
				Allocation: a.Allocation,
				StartDate:  planning.FormatDate(a.StartDate),
				EndDate:    planning.FormatDate(a.EndDate),
			}
		}
		people[i] = DashboardPersonDTO{
			PersonDTO: ToPersonViewDTO(services.PersonView{Person: p.Person, CurrentAllocation: p.CurrentAllocation}),
			Projects:  projects,
		}
	}

	return DashboardDTO{
		Date:           planning.FormatDate(d.Date),
		ActiveProjects: d.ActiveProjects,
		TotalPeople:    d.TotalPeople,
		AvailableCount: d.AvailableCount,
		Projects:       ToProjectDTOs(d.Projects),
		People:         people,
	}
}

// ToLeaveCalendarDTO converts the leave calendar
func ToLeaveCalendarDTO(cal services.LeaveCalendar) LeaveCalendarDTO {
	entries := make([]LeaveEntryDTO, len(cal.Entries))
	for i, e := range cal.Entries {
		entry := LeaveEntryDTO{
			ID:           e.Record.ID,
			ExternalID:   e.Record.ExternalID,
			EmployeeID:   e.Record.EmployeeID,
			EmployeeName: e.EmployeeName,
			Status:       e.Record.Status,
		}
		if e.Record.Payload != "" {
			entry.Details = json.RawMessage(e.Record.Payload)
		}
		entries[i] = entry
	}
	return LeaveCalendarDTO{Entries: entries, LastUpdated: cal.LastUpdated}
}

// ToSyncResultDTO converts a sync result
func ToSyncResultDTO(r services.SyncResult) SyncResultDTO {
	return SyncResultDTO{
		Trigger:   r.Trigger,
		FirstPage: r.FirstPage,
		Pages:     r.Pages,
		Added:     r.Added,
		LastPage:  r.LastPage,
	}
}
