package planning

import (
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/resource-planning-api/internal/models"
)

// The three status sets below disagree with each other. They mirror what each
// view has always done and are kept separate on purpose until product decides
// which one is right.
var (
	// AllocationExcludedStatuses drop an assignment from a person's total.
	AllocationExcludedStatuses = statusSet(
		models.ProjectStatusNotStarted,
		models.ProjectStatusCompleted,
		models.ProjectStatusCancelled,
	)

	// TeamZeroedStatuses keep an assignment in a team listing but show 0%.
	// Cancelled is deliberately absent.
	TeamZeroedStatuses = statusSet(
		models.ProjectStatusNotStarted,
		models.ProjectStatusCompleted,
	)

	// ReportExcludedStatuses drop an assignment from the allocation export.
	ReportExcludedStatuses = statusSet(
		models.ProjectStatusCompleted,
		models.ProjectStatusCancelled,
	)
)

type StatusSet map[models.ProjectStatus]struct{}

func statusSet(statuses ...models.ProjectStatus) StatusSet {
	set := make(StatusSet, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

func (s StatusSet) Contains(status models.ProjectStatus) bool {
	_, ok := s[status]
	return ok
}

// CountsTowardAllocation reports whether a preloaded assignment contributes to
// its person's total on the given day. The stored project status is used, not
// the resolved one. Assignments whose project did not load never count.
func CountsTowardAllocation(a models.Assignment, on time.Time) bool {
	if a.Project.ID == 0 {
		return false
	}
	if !Within(on, a.StartDate, a.EndDate) {
		return false
	}
	return !AllocationExcludedStatuses.Contains(a.Project.Status)
}

// TotalAllocation sums the allocation of every assignment that counts on the
// given day. The result is never capped; over 100 means over-allocated.
func TotalAllocation(assignments []models.Assignment, on time.Time) int {
	total := 0
	for _, a := range assignments {
		if CountsTowardAllocation(a, on) {
			total += a.Allocation
		}
	}
	return total
}

// TeamAllocation is the allocation displayed for an assignment in a team view:
// zero for projects that have not started or are completed, the stored value
// otherwise.
func TeamAllocation(a models.Assignment, projectStatus models.ProjectStatus) int {
	if TeamZeroedStatuses.Contains(projectStatus) {
		return 0
	}
	return a.Allocation
}

// TeamMember is one row of a project's team.
type TeamMember struct {
	Assignment      models.Assignment
	Person          models.Person
	Allocation      int
	TotalAllocation int
}

// Team builds the team listing for a project. Assignments whose person did not
// load are skipped. totals maps person id to that person's total allocation.
func Team(project models.Project, assignments []models.Assignment, totals map[uint64]int) []TeamMember {
	members := make([]TeamMember, 0, len(assignments))
	for _, a := range assignments {
		if a.ProjectID != project.ID || a.Person.ID == 0 {
			continue
		}
		members = append(members, TeamMember{
			Assignment:      a,
			Person:          a.Person,
			Allocation:      TeamAllocation(a, project.Status),
			TotalAllocation: totals[a.PersonID],
		})
	}
	return members
}

// IncludedInReport reports whether an assignment appears in the allocation export.
func IncludedInReport(a models.Assignment, on time.Time) bool {
	if a.Project.ID == 0 {
		return false
	}
	return Within(on, a.StartDate, a.EndDate) && !ReportExcludedStatuses.Contains(a.Project.Status)
}

// ParseAllocation coerces an allocation given as a JSON number or a numeric
// string into an integer. Fractions and non-numeric text are rejected.
func ParseAllocation(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	case interface{ Int64() (int64, error) }:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}
