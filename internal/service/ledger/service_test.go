package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/openleave/lms-backend-go/internal/domain/leave"
	"github.com/openleave/lms-backend-go/internal/pkg/kvstore"
	"github.com/openleave/lms-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*Service, *kvstore.MemoryStore) {
	kv := kvstore.NewMemoryStore()
	svc := NewService(kv, DefaultAllotment, CalendarYearPolicy{})
	svc.now = func() time.Time { return testNow }
	return svc, kv
}

func seedRecord(t *testing.T, svc *Service, record leave.LeaveRecord) {
	t.Helper()
	records, err := svc.readAll()
	require.NoError(t, err)
	require.NoError(t, svc.writeAll(append([]leave.LeaveRecord{record}, records...)))
}

func approvedRecord(id, username string, start, end leave.Date, days int) leave.LeaveRecord {
	return leave.LeaveRecord{
		ID:        id,
		Username:  username,
		StartDate: start,
		EndDate:   end,
		Days:      days,
		Status:    leave.StatusApproved,
		AppliedAt: testNow,
	}
}

// Test Submit with a valid request
func TestLedgerService_Submit_Success(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	record, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-12",
		Reason:    "family trip",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "alice", record.Username)
	assert.Equal(t, 3, record.Days)
	assert.Equal(t, leave.StatusPending, record.Status)
	assert.Equal(t, testNow, record.AppliedAt)

	// The record is persisted
	mine, err := svc.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, record, mine[0])
}

func TestLedgerService_Submit_SingleDay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	record, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-10",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, record.Days)
}

// Test Submit with end date before start date
func TestLedgerService_Submit_EndBeforeStart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-12",
		EndDate:   "2025-06-10",
	})

	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)

	// The collection is unchanged
	all, listErr := svc.ListAll(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, all)
}

// Test Submit with a start date before today
func TestLedgerService_Submit_Retroactive(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-05-30",
		EndDate:   "2025-06-02",
	})

	assert.ErrorIs(t, err, leave.ErrRetroactiveLeave)
}

func TestLedgerService_Submit_StartsToday(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	// Today itself is allowed; only earlier dates are retroactive
	record, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-01",
		EndDate:   "2025-06-01",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, record.Days)
}

// Test Submit with missing dates
func TestLedgerService_Submit_MissingDates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Submit(ctx, leave.SubmitLeaveRequest{Username: "alice"})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	details := validationErrs.ToMap()
	assert.Contains(t, details, "startDate")
	assert.Contains(t, details, "endDate")
}

// Test Submit when the balance is exhausted
func TestLedgerService_Submit_ZeroBalance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	seedRecord(t, svc, approvedRecord("r1", "alice",
		leave.NewDate(2025, time.May, 1), leave.NewDate(2025, time.May, 20), 20))

	_, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-07-01",
		EndDate:   "2025-07-01",
	})

	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
}

// Test Submit for more days than the balance allows
func TestLedgerService_Submit_ExceedsBalance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	seedRecord(t, svc, approvedRecord("r1", "alice",
		leave.NewDate(2025, time.May, 1), leave.NewDate(2025, time.May, 18), 18))

	_, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-07-01",
		EndDate:   "2025-07-03",
	})

	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
}

// Test Submit with overlapping date ranges
func TestLedgerService_Submit_Overlap(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	first, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-12",
	})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-11",
		EndDate:   "2025-06-13",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)

	// A rejected record no longer blocks the range
	require.NoError(t, svc.SetStatus(ctx, leave.SetStatusRequest{
		ID:     first.ID,
		Status: string(leave.StatusRejected),
	}))

	_, err = svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-11",
		EndDate:   "2025-06-13",
	})
	assert.NoError(t, err)
}

func TestLedgerService_Submit_OverlapOtherUserAllowed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-12",
	})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "bob",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-12",
	})
	assert.NoError(t, err)
}

// Test Balance across statuses
func TestLedgerService_Balance_OnlyApprovedCounts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	seedRecord(t, svc, approvedRecord("r1", "alice",
		leave.NewDate(2025, time.March, 3), leave.NewDate(2025, time.March, 5), 3))
	seedRecord(t, svc, approvedRecord("r2", "alice",
		leave.NewDate(2025, time.April, 7), leave.NewDate(2025, time.April, 8), 2))

	pending := approvedRecord("r3", "alice",
		leave.NewDate(2025, time.July, 1), leave.NewDate(2025, time.July, 4), 4)
	pending.Status = leave.StatusPending
	seedRecord(t, svc, pending)

	rejected := approvedRecord("r4", "alice",
		leave.NewDate(2025, time.August, 1), leave.NewDate(2025, time.August, 6), 6)
	rejected.Status = leave.StatusRejected
	seedRecord(t, svc, rejected)

	balance, err := svc.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 20-3-2, balance)

	// Another user is unaffected
	balance, err = svc.Balance(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 20, balance)
}

// Test SetStatus on an existing record
func TestLedgerService_SetStatus_Approve(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	record, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-12",
		Reason:    "family trip",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(ctx, leave.SetStatusRequest{
		ID:     record.ID,
		Status: string(leave.StatusApproved),
	}))

	mine, err := svc.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	// Only the status changed
	assert.Equal(t, leave.StatusApproved, mine[0].Status)
	record.Status = leave.StatusApproved
	assert.Equal(t, record, mine[0])
}

func TestLedgerService_SetStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	err := svc.SetStatus(ctx, leave.SetStatusRequest{
		ID:     "missing",
		Status: string(leave.StatusApproved),
	})
	assert.ErrorIs(t, err, leave.ErrRecordNotFound)
}

func TestLedgerService_SetStatus_InvalidStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	err := svc.SetStatus(ctx, leave.SetStatusRequest{
		ID:     "whatever",
		Status: "pending",
	})

	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

// Test ordering and persistence round-trip
func TestLedgerService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, kv := newTestService()

	first, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-02",
		EndDate:   "2025-06-03",
	})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-07-07",
		EndDate:   "2025-07-09",
		Reason:    "conference",
	})
	require.NoError(t, err)

	// A fresh service over the same store sees identical records,
	// most-recent-first
	reloaded := NewService(kv, DefaultAllotment, CalendarYearPolicy{})
	reloaded.now = func() time.Time { return testNow }

	all, err := reloaded.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0])
	assert.Equal(t, first, all[1])
}

// Test recovery from a corrupt collection blob
func TestLedgerService_CorruptBlobTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	svc, kv := newTestService()

	require.NoError(t, kv.Set(DefaultRecordsKey, []byte("{definitely not json")))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// Submitting over the corrupt blob works and replaces it
	_, err = svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-10",
	})
	assert.NoError(t, err)
}

// Test per-record schema discipline at the read boundary
func TestLedgerService_MalformedRecordsDropped(t *testing.T) {
	ctx := context.Background()
	svc, kv := newTestService()

	blob := `[
		{"id":"good","username":"alice","startDate":"2025-06-10","endDate":"2025-06-12","days":3,"status":"approved","appliedAt":"2025-06-01T09:00:00Z"},
		{"username":"ghost","startDate":"2025-06-20","endDate":"2025-06-21","days":2,"status":"pending","appliedAt":"2025-06-01T09:00:00Z"},
		{"id":"bad-dates","username":"alice","startDate":"not-a-date","endDate":"2025-06-21","days":2,"status":"pending","appliedAt":"2025-06-01T09:00:00Z"},
		{"id":"no-status","username":"alice","startDate":"2025-08-01","endDate":"2025-08-01","days":1,"appliedAt":"2025-06-01T09:00:00Z"}
	]`
	require.NoError(t, kv.Set(DefaultRecordsKey, []byte(blob)))

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "good", all[0].ID)

	// Missing status defaults to pending
	assert.Equal(t, "no-status", all[1].ID)
	assert.Equal(t, leave.StatusPending, all[1].Status)
}

// Test the year-end reset hook
func TestLedgerService_ResetIfNewYear(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	seedRecord(t, svc, approvedRecord("old", "alice",
		leave.NewDate(2024, time.December, 1), leave.NewDate(2024, time.December, 5), 5))

	// Before any reset every approved record counts
	balance, err := svc.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 15, balance)

	// First access in 2025 advances the marker; 2024 days stop counting
	require.NoError(t, svc.ResetIfNewYear(ctx, "alice"))
	balance, err = svc.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 20, balance)

	// A second call in the same year is a no-op
	require.NoError(t, svc.ResetIfNewYear(ctx, "alice"))
	balance, err = svc.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 20, balance)
}

func TestLedgerService_NoResetPolicy(t *testing.T) {
	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	svc := NewService(kv, DefaultAllotment, NoResetPolicy{})
	svc.now = func() time.Time { return testNow }

	seedRecord(t, svc, approvedRecord("old", "alice",
		leave.NewDate(2024, time.December, 1), leave.NewDate(2024, time.December, 5), 5))

	require.NoError(t, svc.ResetIfNewYear(ctx, "alice"))
	balance, err := svc.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 15, balance)
}

// Full walkthrough: submit, approve, balance, overlap rejection
func TestLedgerService_ApprovalScenario(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	record, err := svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-12",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, record.Days)
	assert.Equal(t, leave.StatusPending, record.Status)

	require.NoError(t, svc.SetStatus(ctx, leave.SetStatusRequest{
		ID:     record.ID,
		Status: string(leave.StatusApproved),
	}))

	balance, err := svc.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 17, balance)

	_, err = svc.Submit(ctx, leave.SubmitLeaveRequest{
		Username:  "alice",
		StartDate: "2025-06-11",
		EndDate:   "2025-06-13",
	})
	assert.ErrorIs(t, err, leave.ErrOverlappingLeave)
}
