package schedule

import (
	"encoding/json"
	"time"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
)

// RoleShortfall names one role whose assigned count is below the
// template quota.
type RoleShortfall struct {
	Role     domain.Role `json:"role"`
	Assigned int32       `json:"assigned"`
	Required int32       `json:"required"`
}

// UnderstaffedSlot is one template slot reported by the publish
// analysis. Placeholder slots are never reported; they have no quota
// to fall short of.
type UnderstaffedSlot struct {
	SlotID       string          `json:"slotID"`
	DayLabel     string          `json:"dayLabel"`
	TemplateName string          `json:"templateName"`
	Shortfalls   []RoleShortfall `json:"shortfalls"`
}

type DayBreakdown struct {
	DayIndex int        `json:"dayIndex"`
	DayLabel string     `json:"dayLabel"`
	Shifts   []DayShift `json:"shifts"`
}

type DayShift struct {
	SlotID       string     `json:"slotID"`
	TemplateName string     `json:"templateName"`
	NoTemplate   bool       `json:"noTemplate"`
	Assignees    []Assignee `json:"assignees"`
}

// Summary is what the operator reviews before committing a publish.
// Understaffing is advisory; it never blocks the publish.
type Summary struct {
	StaffedSlots      int                `json:"staffedSlots"` // slots with at least one assignee
	TotalAssignments  int                `json:"totalAssignments"`
	UnderstaffedCount int                `json:"understaffedCount"`
	Understaffed      []UnderstaffedSlot `json:"understaffed"`
	Days              []DayBreakdown     `json:"days"`
}

// Summarize analyzes the current assignment state.
func (s *Session) Summarize() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	return s.summarizeLocked()
}

func (s *Session) summarizeLocked() *Summary {
	sum := &Summary{
		Understaffed: make([]UnderstaffedSlot, 0),
		Days:         make([]DayBreakdown, 0, 7),
	}

	dayMap := make(map[int]*DayBreakdown)
	for _, slot := range s.slots {
		day, ok := dayMap[slot.DayIndex]
		if !ok {
			sum.Days = append(sum.Days, DayBreakdown{
				DayIndex: slot.DayIndex,
				DayLabel: slot.DayLabel,
				Shifts:   make([]DayShift, 0),
			})
			day = &sum.Days[len(sum.Days)-1]
			dayMap[slot.DayIndex] = day
		}

		ds := DayShift{
			SlotID:     slot.ID,
			NoTemplate: !slot.HasTemplate(),
			Assignees:  append([]Assignee(nil), slot.Assignees...),
		}
		if slot.HasTemplate() {
			ds.TemplateName = slot.Template.Name
		}
		day.Shifts = append(day.Shifts, ds)

		if len(slot.Assignees) > 0 {
			sum.StaffedSlots++
			sum.TotalAssignments += len(slot.Assignees)
		}

		if !slot.HasTemplate() {
			continue
		}

		var shortfalls []RoleShortfall
		for _, role := range domain.SchedulableRoles {
			assigned := slot.countRole(role)
			required := slot.Template.RequiredFor(role)
			if assigned < required {
				shortfalls = append(shortfalls, RoleShortfall{
					Role:     role,
					Assigned: assigned,
					Required: required,
				})
			}
		}
		if len(shortfalls) > 0 {
			sum.Understaffed = append(sum.Understaffed, UnderstaffedSlot{
				SlotID:       slot.ID,
				DayLabel:     slot.DayLabel,
				TemplateName: slot.Template.Name,
				Shortfalls:   shortfalls,
			})
		}
	}

	sum.UnderstaffedCount = len(sum.Understaffed)
	return sum
}

// Recipients returns the de-duplicated set of assigned worker ids
// across all slots, in first-appearance order. This is exactly the
// notification audience for a publish.
func (s *Session) Recipients() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.recipientsLocked()
}

func (s *Session) recipientsLocked() []int64 {
	seen := make(map[int64]bool)
	ids := make([]int64, 0)
	for _, slot := range s.slots {
		for _, a := range slot.Assignees {
			if seen[a.WorkerID] {
				continue
			}
			seen[a.WorkerID] = true
			ids = append(ids, a.WorkerID)
		}
	}
	return ids
}

type SlotSnapshot struct {
	SlotID       string     `json:"slotID"`
	DayIndex     int        `json:"dayIndex"`
	DayLabel     string     `json:"dayLabel"`
	TemplateID   int64      `json:"templateID,omitempty"`
	TemplateName string     `json:"templateName,omitempty"`
	StartTime    string     `json:"startTime,omitempty"`
	EndTime      string     `json:"endTime,omitempty"`
	BreakMinutes int32      `json:"breakMinutes,omitempty"`
	Assignees    []Assignee `json:"assignees"`
}

// Payload is the serialized form of a published week, the shape
// stored in published_schedules.payload.
type Payload struct {
	WeekStart string         `json:"weekStart"`
	Slots     []SlotSnapshot `json:"slots"`
}

// ParsePayload decodes a stored snapshot payload.
func ParsePayload(raw json.RawMessage) (*Payload, error) {
	p := &Payload{}
	if err := json.Unmarshal(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Snapshot freezes the session into a PublishedSchedule record,
// together with the summary and recipient set computed from the same
// state. All three come from one lock acquisition so the notified
// recipients always match the persisted payload. The record is not
// yet persisted; the caller owns the durability step and its failure
// semantics.
func (s *Session) Snapshot(submitterID int64, notes string, notify bool) (*domain.PublishedSchedule, *Summary, []int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	payload := Payload{
		WeekStart: s.WeekStart.Format(time.DateOnly),
		Slots:     make([]SlotSnapshot, 0, len(s.slots)),
	}
	for _, slot := range s.slots {
		snap := SlotSnapshot{
			SlotID:    slot.ID,
			DayIndex:  slot.DayIndex,
			DayLabel:  slot.DayLabel,
			Assignees: append([]Assignee(nil), slot.Assignees...),
		}
		if slot.HasTemplate() {
			snap.TemplateID = slot.Template.ID
			snap.TemplateName = slot.Template.Name
			snap.StartTime = slot.Template.StartTime
			snap.EndTime = slot.Template.EndTime
			snap.BreakMinutes = slot.Template.BreakMinutes
		}
		payload.Slots = append(payload.Slots, snap)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, nil, err
	}

	snapshot := &domain.PublishedSchedule{
		BusinessID:  s.BusinessID,
		WeekStart:   payload.WeekStart,
		Payload:     raw,
		Status:      domain.ScheduleStatusPublished,
		SubmittedBy: submitterID,
		Notes:       notes,
		Notify:      notify,
	}

	return snapshot, s.summarizeLocked(), s.recipientsLocked(), nil
}
