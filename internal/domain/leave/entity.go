package leave

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Decided reports whether the status is terminal. Transitions only run
// pending -> approved or pending -> rejected; neither reverts.
func (s Status) Decided() bool {
	return s == StatusApproved || s == StatusRejected
}

// Date is a calendar date, marshalled as "YYYY-MM-DD" in stored blobs.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysUntil returns the inclusive calendar-day count of [d, end].
func (d Date) DaysUntil(end Date) int {
	return int(end.Sub(d.Time)/(24*time.Hour)) + 1
}

// LeaveRecord entity. The JSON shape is the stored wire format; days is
// computed once at submission and never re-derived from the dates.
type LeaveRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	StartDate Date      `json:"startDate"`
	EndDate   Date      `json:"endDate"`
	Reason    string    `json:"reason,omitempty"`
	Days      int       `json:"days"`
	Status    Status    `json:"status"`
	AppliedAt time.Time `json:"appliedAt"`
}

// Overlaps reports whether [start, end] intersects the record's range.
func (r LeaveRecord) Overlaps(start, end Date) bool {
	return !start.After(r.EndDate.Time) && !end.Before(r.StartDate.Time)
}
