package leave

import "errors"

var (
	ErrRecordNotFound      = errors.New("Leave record not found")
	ErrRetroactiveLeave    = errors.New("Start date cannot be before today")
	ErrInvalidDateRange    = errors.New("End date cannot be before start date")
	ErrInsufficientBalance = errors.New("Insufficient leave balance")
	ErrOverlappingLeave    = errors.New("Leave dates overlap an existing request")
	ErrInvalidStatus       = errors.New("Status must be approved or rejected")
)
