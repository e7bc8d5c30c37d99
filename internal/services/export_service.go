package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/planning"
	"github.com/yukikurage/resource-planning-api/internal/repository"
)

var allocationReportHeader = []string{"Name", "Role", "Total Allocation", "Projects"}

// ExportService renders organization reports
type ExportService struct {
	personRepo repository.PersonRepository
	now        func() time.Time
}

// NewExportService creates a new ExportService
func NewExportService(personRepo repository.PersonRepository) *ExportService {
	return &ExportService{
		personRepo: personRepo,
		now:        time.Now,
	}
}

// AllocationRow is one person in the allocation report.
type AllocationRow struct {
	Name            string
	Role            models.PersonRole
	TotalAllocation int
	Projects        []string
}

// AllocationReport lists every person with the assignments that are current on
// the given day. Completed and cancelled projects are left out; projects that
// have not started yet are kept.
func (s *ExportService) AllocationReport(orgID uint64, on time.Time) ([]AllocationRow, error) {
	on = s.ReportDay(on)

	people, err := s.personRepo.List(orgID)
	if err != nil {
		return nil, storageError("list people", err)
	}

	rows := make([]AllocationRow, 0, len(people))
	for _, p := range people {
		row := AllocationRow{Name: p.Name, Role: p.Role, Projects: []string{}}
		for _, a := range p.Assignments {
			if !planning.IncludedInReport(a, on) {
				continue
			}
			row.TotalAllocation += a.Allocation
			row.Projects = append(row.Projects, fmt.Sprintf("%s (%d%%)", a.Project.Name, a.Allocation))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReportDay resolves the reference day of a report, today when on is zero.
func (s *ExportService) ReportDay(on time.Time) time.Time {
	if on.IsZero() {
		return s.now()
	}
	return on
}

// WriteAllocationCSV writes the report with its header row.
func WriteAllocationCSV(w io.Writer, rows []AllocationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(allocationReportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Name,
			string(r.Role),
			fmt.Sprintf("%d%%", r.TotalAllocation),
			strings.Join(r.Projects, ", "),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// AllocationReportFilename names the export file after the report day.
func AllocationReportFilename(on time.Time) string {
	return fmt.Sprintf("resource_allocation_%s.csv", planning.FormatDate(on))
}
