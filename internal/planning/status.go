package planning

import (
	"time"

	"github.com/yukikurage/resource-planning-api/internal/models"
)

// ResolveStatus derives the status shown for a project from its stored status,
// its dates and the reference day. It never reads the clock.
//
// Precedence, first match wins: Cancelled, Completed, start after today (Not
// Started), end before today (Overdue), On Hold, otherwise Active. Cancelled and
// Completed hold even without dates; any other status with a missing date
// resolves to Active so a broken record never breaks a listing.
func ResolveStatus(stored models.ProjectStatus, start, end, today time.Time) models.ProjectStatus {
	switch stored {
	case models.ProjectStatusCancelled:
		return models.ProjectStatusCancelled
	case models.ProjectStatusCompleted:
		return models.ProjectStatusCompleted
	}

	if start.IsZero() || end.IsZero() || today.IsZero() {
		return models.ProjectStatusActive
	}
	start, end, today = Day(start), Day(end), Day(today)

	if start.After(today) {
		return models.ProjectStatusNotStarted
	}
	if end.Before(today) {
		return models.ProjectStatusOverdue
	}
	if stored == models.ProjectStatusOnHold {
		return models.ProjectStatusOnHold
	}
	// Active and every other stored value land here with today inside [start, end].
	return models.ProjectStatusActive
}

// ResolveStatusRaw normalizes dates given as time values or ISO strings before
// resolving. Missing dates are resolved like zero times; a value that is present
// but cannot be normalized yields Active.
func ResolveStatusRaw(stored models.ProjectStatus, start, end any, today time.Time) models.ProjectStatus {
	s, ok := rawDate(start)
	if !ok {
		return models.ProjectStatusActive
	}
	e, ok := rawDate(end)
	if !ok {
		return models.ProjectStatusActive
	}
	return ResolveStatus(stored, s, e, today)
}

// rawDate returns the zero time for a missing value and false for a value that
// is present but unparsable.
func rawDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, true
	case *time.Time:
		if d == nil {
			return time.Time{}, true
		}
	case time.Time:
		if d.IsZero() {
			return time.Time{}, true
		}
	case string:
		if d == "" {
			return time.Time{}, true
		}
	}
	t, err := NormalizeDate(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ProjectStatusFor is ResolveStatus applied to a stored project.
func ProjectStatusFor(p models.Project, today time.Time) models.ProjectStatus {
	return ResolveStatus(p.Status, p.StartDate, p.EndDate, today)
}

// CorrectStatusOnEdit applies the date-boundary correction used when a project
// is edited: starting today promotes to Active and an end date in the past
// demotes to Overdue. Statuses set by hand (On Hold, Completed, Cancelled) are
// kept as requested; the legacy edit flow shielded only On Hold and turned a
// Completed project past its end date into Overdue.
func CorrectStatusOnEdit(requested models.ProjectStatus, start, end, today time.Time) models.ProjectStatus {
	switch requested {
	case models.ProjectStatusOnHold, models.ProjectStatusCompleted, models.ProjectStatusCancelled:
		return requested
	}
	today = Day(today)
	switch {
	case Day(start).Equal(today):
		return models.ProjectStatusActive
	case Day(end).Before(today):
		return models.ProjectStatusOverdue
	}
	return requested
}
