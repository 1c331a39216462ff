package schedule

import (
	"errors"
	"fmt"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
)

var (
	ErrUnknownWorker = errors.New("worker is not on the schedulable roster")
	ErrUnknownSlot   = errors.New("slot does not exist in this session")
	ErrNotAssigned   = errors.New("worker is not assigned to this slot")
	ErrUnknownPool   = errors.New("no unassigned pool for this role")
	ErrBadPoolIndex  = errors.New("pool position out of range")
)

// CapacityError reports a rejected assignment. It names the role and
// the configured quota so the UI can tell the operator exactly which
// constraint was hit.
type CapacityError struct {
	Role  domain.Role
	Limit int32
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("this shift only requires %d %s(s)", e.Limit, e.Role)
}

// ConflictError reports that another publish for the same business and
// week landed after this session was opened. The session is stale and
// must be reopened.
type ConflictError struct {
	WeekStart string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("the schedule for week %s changed since this session was opened, please reopen the builder", e.WeekStart)
}
