package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/resource-planning-api/internal/constants"
	"github.com/yukikurage/resource-planning-api/internal/hrclient"
	"github.com/yukikurage/resource-planning-api/internal/models"
	"github.com/yukikurage/resource-planning-api/internal/repository"
)

var (
	ErrSyncInProgress    = errors.New("leave sync already running")
	ErrLeaveSyncDisabled = errors.New("leave sync is not configured")
	ErrLeaveFetchFailed  = errors.New("failed to fetch leave from HR system")
)

const approvedLeaveStatus = "approved"

// endOfTransactionsPage marks a cursor that reached the last page.
const endOfTransactionsPage = -1

// LeaveFetcher fetches one page of approved time-off transactions.
type LeaveFetcher interface {
	FetchApprovedLeave(ctx context.Context, page, limit int) ([]hrclient.Transaction, error)
}

// SyncTrigger tells who started a sync run.
type SyncTrigger string

const (
	SyncManual    SyncTrigger = "manual"
	SyncScheduled SyncTrigger = "scheduled"
)

// SyncResult summarizes one sync run.
type SyncResult struct {
	Trigger   SyncTrigger
	FirstPage int
	Pages     int
	Added     int64
	LastPage  int
}

// LeaveEntry is a cached leave record ready for the calendar.
type LeaveEntry struct {
	Record       models.LeaveRecord
	EmployeeName string
}

// LeaveCalendar lists approved leave and when it was last refreshed.
type LeaveCalendar struct {
	Entries     []LeaveEntry
	LastUpdated *time.Time
}

// LeaveSyncService mirrors approved leave from the HR system into the
// database, one page at a time, resuming where the previous run stopped.
type LeaveSyncService struct {
	repo    repository.LeaveRepository
	fetcher LeaveFetcher
	logger  zerolog.Logger
	limit   int
	now     func() time.Time

	mu sync.Mutex
}

// NewLeaveSyncService creates a new LeaveSyncService. fetcher may be nil when
// the HR integration is not configured; Sync then fails with ErrLeaveSyncDisabled.
func NewLeaveSyncService(repo repository.LeaveRepository, fetcher LeaveFetcher, logger zerolog.Logger) *LeaveSyncService {
	return &LeaveSyncService{
		repo:    repo,
		fetcher: fetcher,
		logger:  logger.With().Str("component", "leave_sync").Logger(),
		limit:   constants.LeavePageLimit,
		now:     time.Now,
	}
}

// Sync fetches pages until a short page marks the end or a page fails. What
// was fetched before a failure is kept and the cursor points at the last good
// page. Only one run may be active at a time.
func (s *LeaveSyncService) Sync(ctx context.Context, trigger SyncTrigger) (*SyncResult, error) {
	if s.fetcher == nil {
		return nil, ErrLeaveSyncDisabled
	}
	if !s.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.mu.Unlock()

	state, err := s.repo.GetState(constants.LeaveSyncStateKey)
	if err != nil {
		return nil, storageError("load sync state", err)
	}

	lastPage := state.LastPage
	if lastPage == endOfTransactionsPage {
		lastPage = 0
	}
	page := lastPage + 1
	result := &SyncResult{Trigger: trigger, FirstPage: page}

	var fetchErr error
	for {
		if err := ctx.Err(); err != nil {
			fetchErr = err
			break
		}

		txs, err := s.fetcher.FetchApprovedLeave(ctx, page, s.limit)
		if err != nil {
			s.logger.Error().Err(err).Int("page", page).Msg("fetch leave page failed")
			fetchErr = err
			break
		}

		added, err := s.repo.SaveRecords(leaveRecords(txs))
		if err != nil {
			return nil, storageError("save leave records", err)
		}
		result.Added += added
		result.Pages++

		if len(txs) < s.limit {
			state.LastPage = endOfTransactionsPage
			break
		}
		state.LastPage = page
		page++
	}

	now := s.now().UTC()
	state.LastUpdated = &now
	if trigger == SyncScheduled {
		state.LastAutoFetch = &now
	}
	if err := s.repo.SaveState(state); err != nil {
		return nil, storageError("save sync state", err)
	}
	result.LastPage = state.LastPage

	s.logger.Info().
		Str("trigger", string(trigger)).
		Int("pages", result.Pages).
		Int64("added", result.Added).
		Int("last_page", result.LastPage).
		Msg("leave sync finished")

	if fetchErr != nil {
		return result, fmt.Errorf("%w: %v", ErrLeaveFetchFailed, fetchErr)
	}
	return result, nil
}

// Calendar lists cached approved leave with display names.
func (s *LeaveSyncService) Calendar() (*LeaveCalendar, error) {
	records, err := s.repo.ListByStatus(approvedLeaveStatus)
	if err != nil {
		return nil, storageError("list leave", err)
	}
	state, err := s.repo.GetState(constants.LeaveSyncStateKey)
	if err != nil {
		return nil, storageError("load sync state", err)
	}

	entries := make([]LeaveEntry, 0, len(records))
	for _, r := range records {
		name := r.EmployeeName
		if name == "" {
			name = "Employee " + r.EmployeeID
		}
		entries = append(entries, LeaveEntry{Record: r, EmployeeName: name})
	}
	return &LeaveCalendar{Entries: entries, LastUpdated: state.LastUpdated}, nil
}

// leaveRecords converts a page into records, dropping repeated ids.
func leaveRecords(txs []hrclient.Transaction) []models.LeaveRecord {
	seen := make(map[hrclient.ID]struct{}, len(txs))
	records := make([]models.LeaveRecord, 0, len(txs))
	for _, tx := range txs {
		if tx.ID == "" {
			continue
		}
		if _, dup := seen[tx.ID]; dup {
			continue
		}
		seen[tx.ID] = struct{}{}

		name := tx.Employee.Name
		if name == "" {
			name = tx.Employee.En
		}
		records = append(records, models.LeaveRecord{
			ExternalID:   string(tx.ID),
			EmployeeID:   string(tx.Employee.ID),
			EmployeeName: name,
			Status:       tx.Status,
			Payload:      string(tx.Raw),
		})
	}
	return records
}
