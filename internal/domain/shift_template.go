package domain

import "time"

// ShiftTemplate is a recurring shift definition. DayOfWeek follows ISO
// numbering: 1 is Monday, 7 is Sunday. Start and end times are stored
// as "15:04" strings, the same representation the clients submit.
type ShiftTemplate struct {
	ID              int64     `json:"id"`
	BusinessID      int64     `json:"businessID"`
	Name            string    `json:"name"`
	DayOfWeek       int32     `json:"dayOfWeek"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	BreakMinutes    int32     `json:"breakMinutes"`
	RequiredOpeners int32     `json:"requiredOpeners"`
	RequiredClosers int32     `json:"requiredClosers"`
	IsActive        bool      `json:"isActive"`
	StoreLabel      string    `json:"storeLabel"`
	CreatedAt       time.Time `json:"createdAt"`
	Version         int32     `json:"-"`
}

// RequiredFor returns the staffing quota for a schedulable role.
// Unknown roles have a quota of zero, which the assignment engine
// treats as "no seat for this role".
func (st *ShiftTemplate) RequiredFor(role Role) int32 {
	switch role {
	case RoleOpener:
		return st.RequiredOpeners
	case RoleCloser:
		return st.RequiredClosers
	default:
		return 0
	}
}
