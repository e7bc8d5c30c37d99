package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/resource-planning-api/internal/models"
)

func TestProjectService_CreateDefaultsAndValidation(t *testing.T) {
	env := newServiceEnv(t)

	view, err := env.projects.CreateProject(env.org.ID, ProjectInput{
		Name:      "  Discovery ",
		Type:      models.ProjectTypeInternal,
		StartDate: "2024-02-01",
		EndDate:   "2024-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Discovery", view.Project.Name)
	assert.Equal(t, models.ProjectStatusNotStarted, view.Project.Status)
	assert.Equal(t, models.ProjectStatusNotStarted, view.AutomatedStatus)
	assert.Equal(t, env.org.ID, view.Project.OrganizationID)

	bad := []ProjectInput{
		{Name: "", Type: models.ProjectTypeInternal, StartDate: "2024-01-01", EndDate: "2024-01-02"},
		{Name: "X", Type: "Side Quest", StartDate: "2024-01-01", EndDate: "2024-01-02"},
		{Name: "X", Type: models.ProjectTypeInternal, Status: "Paused", StartDate: "2024-01-01", EndDate: "2024-01-02"},
		{Name: "X", Type: models.ProjectTypeInternal, StartDate: "soon", EndDate: "2024-01-02"},
		{Name: "X", Type: models.ProjectTypeInternal, StartDate: "2024-01-03", EndDate: "2024-01-02"},
	}
	for _, input := range bad {
		_, err := env.projects.CreateProject(env.org.ID, input)
		_, ok := AsValidationError(err)
		assert.True(t, ok, "input %+v: got %v", input, err)
	}
}

func TestProjectService_UpdateCorrectsStatusOnDateBoundaries(t *testing.T) {
	env := newServiceEnv(t)
	project := env.project(t, "Launch", models.ProjectStatusNotStarted, "2024-02-01", "2024-02-28")

	tests := []struct {
		name      string
		status    models.ProjectStatus
		start     string
		end       string
		stored    models.ProjectStatus
		automated models.ProjectStatus
	}{
		{"moved to start today", models.ProjectStatusNotStarted, "2024-01-15", "2024-02-28", models.ProjectStatusActive, models.ProjectStatusActive},
		{"moved into the past", models.ProjectStatusActive, "2023-11-01", "2024-01-10", models.ProjectStatusOverdue, models.ProjectStatusOverdue},
		{"on hold starting today", models.ProjectStatusOnHold, "2024-01-15", "2024-02-28", models.ProjectStatusOnHold, models.ProjectStatusOnHold},
		{"completed in the past", models.ProjectStatusCompleted, "2023-11-01", "2024-01-10", models.ProjectStatusCompleted, models.ProjectStatusCompleted},
		{"no boundary hit", models.ProjectStatusActive, "2024-01-01", "2024-02-28", models.ProjectStatusActive, models.ProjectStatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := env.projects.UpdateProject(env.org.ID, project.ID, ProjectInput{
				Name:      "Launch",
				Type:      models.ProjectTypeExternal,
				Status:    tt.status,
				StartDate: tt.start,
				EndDate:   tt.end,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.stored, view.Project.Status)
			assert.Equal(t, tt.automated, view.AutomatedStatus)
		})
	}
}

func TestProjectService_ListAndScope(t *testing.T) {
	env := newServiceEnv(t)

	early := env.project(t, "Early", models.ProjectStatusActive, "2023-12-01", "2024-03-01")
	env.project(t, "Late", models.ProjectStatusOnHold, "2024-01-10", "2024-03-01")
	dana := env.person(t, "Dana")
	eli := env.person(t, "Eli")
	env.assign(t, early.ID, dana.ID, 10, "2024-01-01", "2024-01-31")
	env.assign(t, early.ID, eli.ID, 10, "2024-01-01", "2024-01-31")

	views, total, err := env.projects.ListProjects(ListProjectsInput{OrganizationID: env.org.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)
	assert.Equal(t, "Late", views[0].Project.Name)
	assert.Equal(t, models.ProjectStatusOnHold, views[0].AutomatedStatus)
	assert.Equal(t, 2, views[1].TeamCount)

	onHold := models.ProjectStatusOnHold
	views, total, err = env.projects.ListProjects(ListProjectsInput{OrganizationID: env.org.ID, Status: &onHold})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Late", views[0].Project.Name)

	bogus := models.ProjectStatus("Paused")
	_, _, err = env.projects.ListProjects(ListProjectsInput{OrganizationID: env.org.ID, Status: &bogus})
	_, ok := AsValidationError(err)
	assert.True(t, ok)

	// A future reference day resolves the same project differently.
	view, err := env.projects.GetProject(env.org.ID, early.ID, testNow.AddDate(0, 3, 0))
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusOverdue, view.AutomatedStatus)

	_, err = env.projects.GetProject(env.org.ID+1, early.ID, testNow)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	require.NoError(t, env.projects.DeleteProject(env.org.ID, early.ID))
	assert.ErrorIs(t, env.projects.DeleteProject(env.org.ID, early.ID), ErrProjectNotFound)

	remaining, err := env.assignments.TotalAllocation(env.org.ID, dana.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestPersonService(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.people.CreatePerson(env.org.ID, PersonInput{Name: "Dana", Role: "Wizard", Availability: models.AvailabilityFullTime})
	_, ok := AsValidationError(err)
	assert.True(t, ok)
	_, err = env.people.CreatePerson(env.org.ID, PersonInput{Name: "Dana", Role: models.PersonRoleSpecialist, Availability: "Weekends"})
	_, ok = AsValidationError(err)
	assert.True(t, ok)

	zed := env.person(t, "Zed")
	ann := env.person(t, "Ann")
	active := env.project(t, "Active", models.ProjectStatusActive, "2024-01-01", "2024-01-31")
	upcoming := env.project(t, "Upcoming", models.ProjectStatusNotStarted, "2024-01-01", "2024-01-31")
	env.assign(t, active.ID, zed.ID, 60, "2024-01-01", "2024-01-31")
	env.assign(t, upcoming.ID, zed.ID, 30, "2024-01-01", "2024-01-31")

	views, err := env.people.ListPeople(env.org.ID, testNow)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Ann", views[0].Person.Name)
	assert.Equal(t, 0, views[0].CurrentAllocation)
	assert.Equal(t, 60, views[1].CurrentAllocation)

	view, err := env.people.GetPerson(env.org.ID, zed.ID, testNow)
	require.NoError(t, err)
	assert.Len(t, view.Person.Assignments, 2)
	assert.Equal(t, 60, view.CurrentAllocation)

	updated, err := env.people.UpdatePerson(env.org.ID, ann.ID, PersonInput{
		Name:         "Ann B",
		Role:         models.PersonRoleSeniorProjectManager,
		Availability: models.AvailabilityPartTime,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)

	_, err = env.people.UpdatePerson(env.org.ID, 9999, PersonInput{
		Name:         "Nobody",
		Role:         models.PersonRoleSpecialist,
		Availability: models.AvailabilityPartTime,
	})
	assert.ErrorIs(t, err, ErrPersonNotFound)

	require.NoError(t, env.people.DeletePerson(env.org.ID, zed.ID))
	list, err := env.assignments.ListAssignments(env.org.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
