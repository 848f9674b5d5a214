package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/openleave/lms-backend-go/internal/domain/leave"
	"github.com/openleave/lms-backend-go/internal/pkg/kvstore"
)

const (
	DefaultRecordsKey = "lms_leaves_v1"
	DefaultResetKey   = "lms_reset_years_v1"
	DefaultAllotment  = 20
)

// Service implements leave.Ledger on top of a two-key blob store: the full
// record collection under recordsKey and the per-user reset markers under
// resetKey. Every mutation reads the whole collection, changes it in memory
// and writes it back in one step; the mutex keeps those steps from
// interleaving.
type Service struct {
	mu          sync.Mutex
	kv          kvstore.Store
	recordsKey  string
	resetKey    string
	allotment   int
	resetPolicy ResetPolicy
	now         func() time.Time
}

func NewService(kv kvstore.Store, allotment int, resetPolicy ResetPolicy) *Service {
	if allotment <= 0 {
		allotment = DefaultAllotment
	}
	if resetPolicy == nil {
		resetPolicy = CalendarYearPolicy{}
	}
	return &Service{
		kv:          kv,
		recordsKey:  DefaultRecordsKey,
		resetKey:    DefaultResetKey,
		allotment:   allotment,
		resetPolicy: resetPolicy,
		now:         time.Now,
	}
}

var _ leave.Ledger = (*Service)(nil)

// Submit runs the validation pipeline in order, short-circuiting on the
// first failure, then persists the accepted record at the head of the
// collection.
func (s *Service) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.LeaveRecord, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRecord{}, err
	}

	startDate, err := leave.ParseDate(req.StartDate)
	if err != nil {
		return leave.LeaveRecord{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := leave.ParseDate(req.EndDate)
	if err != nil {
		return leave.LeaveRecord{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	today := s.today()
	if startDate.Before(today.Time) {
		return leave.LeaveRecord{}, leave.ErrRetroactiveLeave
	}
	if endDate.Before(startDate.Time) {
		return leave.LeaveRecord{}, leave.ErrInvalidDateRange
	}

	days := startDate.DaysUntil(endDate)
	if days < 1 {
		return leave.LeaveRecord{}, leave.ErrInvalidDateRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return leave.LeaveRecord{}, err
	}

	balance, err := s.balanceLocked(records, req.Username)
	if err != nil {
		return leave.LeaveRecord{}, err
	}
	if balance <= 0 {
		return leave.LeaveRecord{}, leave.ErrInsufficientBalance
	}
	if days > balance {
		return leave.LeaveRecord{}, leave.ErrInsufficientBalance
	}

	for _, existing := range records {
		if existing.Username != req.Username || existing.Status == leave.StatusRejected {
			continue
		}
		if existing.Overlaps(startDate, endDate) {
			return leave.LeaveRecord{}, leave.ErrOverlappingLeave
		}
	}

	record := leave.LeaveRecord{
		ID:        uuid.NewString(),
		Username:  req.Username,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
		Days:      days,
		Status:    leave.StatusPending,
		AppliedAt: s.now(),
	}

	// New records go to the head: listings are most-recent-first
	records = append([]leave.LeaveRecord{record}, records...)
	if err := s.writeAll(records); err != nil {
		return leave.LeaveRecord{}, err
	}

	return record, nil
}

// Balance returns the allotment minus the days of every approved record
// the reset policy still counts.
func (s *Service) Balance(ctx context.Context, username string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return 0, err
	}
	return s.balanceLocked(records, username)
}

func (s *Service) ListByUser(ctx context.Context, username string) ([]leave.LeaveRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil, err
	}

	owned := make([]leave.LeaveRecord, 0)
	for _, record := range records {
		if record.Username == username {
			owned = append(owned, record)
		}
	}
	return owned, nil
}

func (s *Service) ListAll(ctx context.Context) ([]leave.LeaveRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readAll()
}

// SetStatus applies an admin decision. It does not re-validate balance at
// approval time and overwrites already-decided records last-write-wins;
// the caller gates the action on the record still being pending.
func (s *Service) SetStatus(ctx context.Context, req leave.SetStatusRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == req.ID {
			records[i].Status = leave.Status(req.Status)
			return s.writeAll(records)
		}
	}

	return leave.ErrRecordNotFound
}

// ResetIfNewYear advances the user's last-reset-year marker when the reset
// policy says a new year has begun, restoring the balance baseline.
func (s *Service) ResetIfNewYear(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	markers, err := s.readMarkers()
	if err != nil {
		return err
	}

	if !s.resetPolicy.ShouldReset(markers[username], s.now()) {
		return nil
	}

	markers[username] = s.now().Year()
	return s.writeMarkers(markers)
}

func (s *Service) balanceLocked(records []leave.LeaveRecord, username string) (int, error) {
	markers, err := s.readMarkers()
	if err != nil {
		return 0, err
	}

	used := 0
	for _, record := range records {
		if record.Username != username || record.Status != leave.StatusApproved {
			continue
		}
		if !s.resetPolicy.Counts(record, markers[username]) {
			continue
		}
		used += record.Days
	}
	return s.allotment - used, nil
}

func (s *Service) today() leave.Date {
	now := s.now().UTC()
	return leave.NewDate(now.Year(), now.Month(), now.Day())
}

// readAll loads the full collection. A whole-blob parse failure yields the
// empty collection; records missing required fields or carrying unparseable
// dates are dropped, and an empty status defaults to pending.
func (s *Service) readAll() ([]leave.LeaveRecord, error) {
	data, err := s.kv.Get(s.recordsKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return []leave.LeaveRecord{}, nil
		}
		return nil, fmt.Errorf("failed to read leave records: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("discarding malformed leave collection", "key", s.recordsKey, "error", err)
		return []leave.LeaveRecord{}, nil
	}

	records := make([]leave.LeaveRecord, 0, len(raw))
	for _, entry := range raw {
		var record leave.LeaveRecord
		if err := json.Unmarshal(entry, &record); err != nil {
			slog.Warn("dropping malformed leave record", "error", err)
			continue
		}
		if record.ID == "" || record.Username == "" || record.StartDate.IsZero() || record.EndDate.IsZero() {
			slog.Warn("dropping leave record with missing fields", "id", record.ID)
			continue
		}
		if record.Status == "" {
			record.Status = leave.StatusPending
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Service) writeAll(records []leave.LeaveRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode leave records: %w", err)
	}
	if err := s.kv.Set(s.recordsKey, data); err != nil {
		return fmt.Errorf("failed to persist leave records: %w", err)
	}
	return nil
}

func (s *Service) readMarkers() (map[string]int, error) {
	data, err := s.kv.Get(s.resetKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("failed to read reset markers: %w", err)
	}

	markers := map[string]int{}
	if err := json.Unmarshal(data, &markers); err != nil {
		slog.Warn("discarding malformed reset markers", "key", s.resetKey, "error", err)
		return map[string]int{}, nil
	}
	return markers, nil
}

func (s *Service) writeMarkers(markers map[string]int) error {
	data, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("failed to encode reset markers: %w", err)
	}
	if err := s.kv.Set(s.resetKey, data); err != nil {
		return fmt.Errorf("failed to persist reset markers: %w", err)
	}
	return nil
}
