package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/resource-planning-api/internal/dto"
	apierrors "github.com/yukikurage/resource-planning-api/internal/errors"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

const onDay = "?date=2024-01-15"

func projectPayload(status models.ProjectStatus) map[string]string {
	return map[string]string{
		"name":         "Apollo",
		"project_type": string(models.ProjectTypeExternal),
		"status":       string(status),
		"start_date":   "2024-01-01",
		"end_date":     "2024-01-31",
	}
}

func TestPlanningHandlers_AssignmentLifecycle(t *testing.T) {
	env := setupHandlerTestEnv(t)
	base := fmt.Sprintf("/api/organizations/%d", env.org.ID)

	client := env.client(t)
	client.login("boss@acme.test")

	w := client.do(http.MethodPost, base+"/projects", projectPayload(models.ProjectStatusActive))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode[dto.ProjectDTO](t, w)
	assert.Equal(t, "2024-01-01", project.StartDate)

	w = client.do(http.MethodPost, base+"/people", map[string]string{
		"name":         "Ann",
		"role":         string(models.PersonRoleProjectManager),
		"availability": string(models.AvailabilityFullTime),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	person := decode[dto.PersonDTO](t, w)

	assignPath := fmt.Sprintf("%s/projects/%d/assignments", base, project.ID)
	w = client.do(http.MethodPost, assignPath, map[string]any{
		"person_id":  person.ID,
		"allocation": "50",
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assignment := decode[dto.AssignmentDTO](t, w)
	assert.Equal(t, 50, assignment.Allocation)

	w = client.do(http.MethodPost, assignPath, map[string]any{
		"person_id":  person.ID,
		"allocation": 10,
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apierrors.ErrCodeDuplicateAssignment, decode[apierrors.APIError](t, w).Code)

	allocationPath := fmt.Sprintf("%s/people/%d/allocation%s", base, person.ID, onDay)
	w = client.do(http.MethodGet, allocationPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(50), decode[map[string]any](t, w)["total_allocation"])

	w = client.do(http.MethodGet, fmt.Sprintf("%s/projects/%d%s", base, project.ID, onDay), nil)
	require.Equal(t, http.StatusOK, w.Code)
	team := decode[dto.ProjectTeamDTO](t, w)
	require.Len(t, team.Team, 1)
	assert.Equal(t, 50, team.Team[0].TotalAllocation)
	assert.Equal(t, 1, team.Project.TeamCount)
	assert.Empty(t, team.AvailablePeople)

	// Cancelling the project releases the person.
	w = client.do(http.MethodPut, fmt.Sprintf("%s/projects/%d", base, project.ID), projectPayload(models.ProjectStatusCancelled))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.ProjectStatusCancelled, decode[dto.ProjectDTO](t, w).Status)

	w = client.do(http.MethodGet, allocationPath, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode[map[string]any](t, w)["total_allocation"])

	w = client.do(http.MethodPut, fmt.Sprintf("%s/%d", assignPath, assignment.ID), map[string]any{
		"allocation": 75,
		"start_date": "2024-01-01",
		"end_date":   "2024-01-20",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "2024-01-20", decode[dto.AssignmentDTO](t, w).EndDate)

	w = client.do(http.MethodDelete, fmt.Sprintf("%s/%d", assignPath, assignment.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = client.do(http.MethodDelete, fmt.Sprintf("%s/%d", assignPath, assignment.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanningHandlers_ValidationErrors(t *testing.T) {
	env := setupHandlerTestEnv(t)
	base := fmt.Sprintf("/api/organizations/%d", env.org.ID)

	client := env.client(t)
	client.login("boss@acme.test")

	w := client.do(http.MethodPost, base+"/projects", projectPayload(models.ProjectStatusActive))
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[dto.ProjectDTO](t, w)

	w = client.do(http.MethodPost, base+"/people", map[string]string{
		"name":         "Ben",
		"role":         string(models.PersonRoleSpecialist),
		"availability": string(models.AvailabilityPartTime),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	person := decode[dto.PersonDTO](t, w)

	assignPath := fmt.Sprintf("%s/projects/%d/assignments", base, project.ID)
	tests := []struct {
		name    string
		payload map[string]any
		status  int
		field   string
	}{
		{"zero allocation", map[string]any{"person_id": person.ID, "allocation": 0, "start_date": "2024-01-01", "end_date": "2024-01-31"}, http.StatusBadRequest, "allocation"},
		{"fractional allocation", map[string]any{"person_id": person.ID, "allocation": 12.5, "start_date": "2024-01-01", "end_date": "2024-01-31"}, http.StatusBadRequest, "allocation"},
		{"bad date", map[string]any{"person_id": person.ID, "allocation": 10, "start_date": "Jan 1", "end_date": "2024-01-31"}, http.StatusBadRequest, "start_date"},
		{"missing person", map[string]any{"allocation": 10, "start_date": "2024-01-01", "end_date": "2024-01-31"}, http.StatusBadRequest, "person_id"},
		{"unknown person", map[string]any{"person_id": 9999, "allocation": 10, "start_date": "2024-01-01", "end_date": "2024-01-31"}, http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := client.do(http.MethodPost, assignPath, tt.payload)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.field != "" {
				body := decode[apierrors.APIError](t, w)
				assert.Equal(t, map[string]any{"field": tt.field}, body.Details)
			}
		})
	}

	w = client.do(http.MethodGet, base+"/projects?status=Paused", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = client.do(http.MethodGet, base+"/dashboard?date=tomorrow", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = client.do(http.MethodGet, base+"/projects/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanningHandlers_ReportsAndLists(t *testing.T) {
	env := setupHandlerTestEnv(t)
	base := fmt.Sprintf("/api/organizations/%d", env.org.ID)

	client := env.client(t)
	client.login("boss@acme.test")

	w := client.do(http.MethodPost, base+"/projects", projectPayload(models.ProjectStatusActive))
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[dto.ProjectDTO](t, w)

	for _, name := range []string{"Cleo", "Dan"} {
		w = client.do(http.MethodPost, base+"/people", map[string]string{
			"name":         name,
			"role":         string(models.PersonRoleProjectAssociate),
			"availability": string(models.AvailabilityFullTime),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = client.do(http.MethodGet, base+"/people"+onDay, nil)
	require.Equal(t, http.StatusOK, w.Code)
	people := decode[map[string][]dto.PersonDTO](t, w)["people"]
	require.Len(t, people, 2)

	w = client.do(http.MethodPost, fmt.Sprintf("%s/projects/%d/assignments", base, project.ID), map[string]any{
		"person_id":  people[0].ID,
		"allocation": 60,
		"start_date": "2024-01-01",
		"end_date":   "2024-01-31",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = client.do(http.MethodGet, base+"/projects"+onDay+"&limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.ProjectListResponse](t, w)
	assert.Equal(t, int64(1), list.TotalCount)
	assert.Equal(t, 1, list.TotalPages)
	require.Len(t, list.Projects, 1)
	assert.Equal(t, models.ProjectStatusActive, list.Projects[0].AutomatedStatus)

	w = client.do(http.MethodGet, base+"/dashboard"+onDay, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[dto.DashboardDTO](t, w)
	assert.Equal(t, "2024-01-15", dash.Date)
	assert.Equal(t, 1, dash.ActiveProjects)
	assert.Equal(t, 2, dash.TotalPeople)
	assert.Equal(t, 1, dash.AvailableCount)

	w = client.do(http.MethodGet, base+"/assignments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[map[string][]dto.AssignmentDTO](t, w)["assignments"], 1)

	w = client.do(http.MethodGet, base+"/export/allocations.csv"+onDay, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "resource_allocation_2024-01-15.csv")

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Role", "Total Allocation", "Projects"}, records[0])
	assert.Equal(t, []string{"Cleo", "Project Associate", "60%", "Apollo (60%)"}, records[1])

	w = client.do(http.MethodDelete, fmt.Sprintf("%s/people/%d", base, people[0].ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = client.do(http.MethodGet, fmt.Sprintf("%s/people/%d", base, people[0].ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalendarHandler(t *testing.T) {
	env := setupHandlerTestEnv(t)
	client := env.client(t)

	w := client.do(http.MethodGet, "/api/calendar", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	client.login("boss@acme.test")

	updated := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	env.leave.calendar = &services.LeaveCalendar{
		Entries: []services.LeaveEntry{{
			Record:       models.LeaveRecord{ID: 1, ExternalID: "77", EmployeeID: "5", Status: "approved", Payload: `{"id":77}`},
			EmployeeName: "Employee 5",
		}},
		LastUpdated: &updated,
	}
	w = client.do(http.MethodGet, "/api/calendar", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cal := decode[dto.LeaveCalendarDTO](t, w)
	require.Len(t, cal.Entries, 1)
	assert.Equal(t, "Employee 5", cal.Entries[0].EmployeeName)
	assert.JSONEq(t, `{"id":77}`, string(cal.Entries[0].Details))

	tests := []struct {
		name   string
		result *services.SyncResult
		err    error
		status int
	}{
		{"success", &services.SyncResult{Trigger: services.SyncManual, FirstPage: 1, Pages: 1, LastPage: -1}, nil, http.StatusOK},
		{"already running", nil, services.ErrSyncInProgress, http.StatusConflict},
		{"not configured", nil, services.ErrLeaveSyncDisabled, http.StatusServiceUnavailable},
		{"upstream failed", &services.SyncResult{FirstPage: 1, LastPage: 1}, fmt.Errorf("%w: 500", services.ErrLeaveFetchFailed), http.StatusBadGateway},
		{"storage failed", nil, errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.leave.result, env.leave.err = tt.result, tt.err
			w := client.do(http.MethodPost, "/api/calendar/sync", nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}
