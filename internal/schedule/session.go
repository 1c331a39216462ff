package schedule

import (
	"sync"
	"time"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
)

// Session is one manager's in-memory builder state for one week:
// the generated slots, the per-role unassigned pools, and the roster
// index. All mutations are serialized on one mutex and either apply
// fully or reject fully; callers never observe partial state.
//
// Closing the session discards everything unpublished.
type Session struct {
	mu sync.Mutex

	Token       string
	BusinessID  int64
	WeekStart   time.Time
	WeekVersion int64 // week aggregate version observed at open

	slots   []*Slot
	workers map[int64]*domain.User
	pools   map[domain.Role][]int64

	lastTouched time.Time
}

// NewSession generates the slot list for the week and seeds the
// unassigned pools with every active schedulable worker, in roster
// order.
func NewSession(token string, businessID int64, weekStart time.Time, weekVersion int64, templates []*domain.ShiftTemplate, roster []*domain.User) *Session {
	s := &Session{
		Token:       token,
		BusinessID:  businessID,
		WeekStart:   weekStart,
		WeekVersion: weekVersion,
		slots:       GenerateSlots(templates, weekStart),
		workers:     make(map[int64]*domain.User, len(roster)),
		pools:       make(map[domain.Role][]int64),
		lastTouched: time.Now(),
	}

	for _, role := range domain.SchedulableRoles {
		s.pools[role] = make([]int64, 0)
	}
	for _, w := range roster {
		if !w.IsActive || !w.Role.IsSchedulable() {
			continue
		}
		s.workers[w.ID] = w
		s.pools[w.Role] = append(s.pools[w.Role], w.ID)
	}

	return s
}

func (s *Session) touch() {
	s.lastTouched = time.Now()
}

func (s *Session) slotByID(id string) *Slot {
	for _, slot := range s.slots {
		if slot.ID == id {
			return slot
		}
	}
	return nil
}

// locate returns the slot currently holding the worker, if any.
// Assign checks quotas before removing anything, so a rejected move
// leaves the source untouched.
func (s *Session) locate(workerID int64) (slot *Slot, index int) {
	for _, sl := range s.slots {
		if i := sl.indexOf(workerID); i >= 0 {
			return sl, i
		}
	}
	return nil, -1
}

func (s *Session) removeFromPool(role domain.Role, workerID int64) {
	pool := s.pools[role]
	for i, id := range pool {
		if id == workerID {
			s.pools[role] = append(pool[:i], pool[i+1:]...)
			return
		}
	}
}

// Assign places a worker into a slot at insertIndex. For template
// slots the live per-role count is checked against the quota first; a
// full slot rejects with *CapacityError and no state changes. A worker
// already occupying another slot is moved atomically.
func (s *Session) Assign(workerID int64, slotID string, insertIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	worker, ok := s.workers[workerID]
	if !ok {
		return ErrUnknownWorker
	}

	target := s.slotByID(slotID)
	if target == nil {
		return ErrUnknownSlot
	}

	source, sourceIndex := s.locate(workerID)

	if insertIndex < 0 {
		insertIndex = 0
	}

	// dropping a worker back where they already are is a no-op
	if source == target && sourceIndex == insertIndex {
		return nil
	}

	if target.HasTemplate() && source != target {
		required := target.Template.RequiredFor(worker.Role)
		if target.countRole(worker.Role) >= required {
			return &CapacityError{Role: worker.Role, Limit: required}
		}
	}

	// all checks passed; from here the move is applied in full
	if source != nil {
		source.Assignees = append(source.Assignees[:sourceIndex], source.Assignees[sourceIndex+1:]...)
	} else {
		s.removeFromPool(worker.Role, workerID)
	}

	if insertIndex > len(target.Assignees) {
		insertIndex = len(target.Assignees)
	}
	target.Assignees = append(target.Assignees, Assignee{})
	copy(target.Assignees[insertIndex+1:], target.Assignees[insertIndex:])
	target.Assignees[insertIndex] = Assignee{
		WorkerID: worker.ID,
		FullName: worker.FullName,
		Role:     worker.Role,
	}

	return nil
}

// Unassign removes the worker from the slot and returns them to the
// tail of their role's unassigned pool.
func (s *Session) Unassign(workerID int64, slotID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	worker, ok := s.workers[workerID]
	if !ok {
		return ErrUnknownWorker
	}

	slot := s.slotByID(slotID)
	if slot == nil {
		return ErrUnknownSlot
	}

	i := slot.indexOf(workerID)
	if i < 0 {
		return ErrNotAssigned
	}

	slot.Assignees = append(slot.Assignees[:i], slot.Assignees[i+1:]...)
	s.pools[worker.Role] = append(s.pools[worker.Role], workerID)

	return nil
}

// MoveWithinPool reorders one role's unassigned pool. It is a pure
// list operation with no quota involvement.
func (s *Session) MoveWithinPool(role domain.Role, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	pool, ok := s.pools[role]
	if !ok {
		return ErrUnknownPool
	}
	if from < 0 || from >= len(pool) || to < 0 || to >= len(pool) {
		return ErrBadPoolIndex
	}
	if from == to {
		return nil
	}

	id := pool[from]
	pool = append(pool[:from], pool[from+1:]...)
	pool = append(pool, 0)
	copy(pool[to+1:], pool[to:])
	pool[to] = id
	s.pools[role] = pool

	return nil
}

// Slots returns a copy of the slot list safe for rendering. Templates
// are shared read-only; assignee lists are copied.
func (s *Session) Slots() []*Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	out := make([]*Slot, len(s.slots))
	for i, slot := range s.slots {
		cp := *slot
		cp.Assignees = append([]Assignee(nil), slot.Assignees...)
		out[i] = &cp
	}
	return out
}

// Pools returns the ordered unassigned pools, resolved to assignees.
func (s *Session) Pools() map[domain.Role][]Assignee {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	out := make(map[domain.Role][]Assignee, len(s.pools))
	for role, ids := range s.pools {
		list := make([]Assignee, 0, len(ids))
		for _, id := range ids {
			w := s.workers[id]
			list = append(list, Assignee{WorkerID: w.ID, FullName: w.FullName, Role: w.Role})
		}
		out[role] = list
	}
	return out
}

// Expired reports whether the session has been idle longer than ttl.
func (s *Session) Expired(ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastTouched) > ttl
}
