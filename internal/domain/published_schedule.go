package domain

import (
	"encoding/json"
	"time"
)

const (
	ScheduleStatusPublished  = "published"
	ScheduleStatusSuperseded = "superseded"
)

// PublishedSchedule is a point-in-time snapshot of a week's
// assignments. The payload is the serialized slot list as it stood at
// publish time; later template edits never touch it. Rows are never
// updated in place except for the status column.
type PublishedSchedule struct {
	ID          int64           `json:"id"`
	BusinessID  int64           `json:"businessID"`
	WeekStart   string          `json:"weekStart"` // YYYY-MM-DD
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	SubmittedBy int64           `json:"submittedBy"`
	Notes       string          `json:"notes"`
	Notify      bool            `json:"notify"`
	CreatedAt   time.Time       `json:"createdAt"`
	Version     int32           `json:"-"`
}
