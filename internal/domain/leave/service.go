package leave

import "context"

// Ledger owns the leave-record collection: it validates submissions,
// computes balances and applies admin status changes. It is role-agnostic;
// the HTTP layer decides who may call ListAll and SetStatus.
type Ledger interface {
	Submit(ctx context.Context, req SubmitLeaveRequest) (LeaveRecord, error)
	Balance(ctx context.Context, username string) (int, error)
	ListByUser(ctx context.Context, username string) ([]LeaveRecord, error)
	ListAll(ctx context.Context) ([]LeaveRecord, error)
	SetStatus(ctx context.Context, req SetStatusRequest) error
	ResetIfNewYear(ctx context.Context, username string) error
}
