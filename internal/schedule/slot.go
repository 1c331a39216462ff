package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
)

// Assignee is one worker occupying a seat in a slot. The display name
// and role are denormalized from the roster so that snapshots stay
// readable after the roster changes.
type Assignee struct {
	WorkerID int64       `json:"workerID"`
	FullName string      `json:"fullName"`
	Role     domain.Role `json:"role"`
}

// Slot is one concrete, assignable instance of a shift on one day of
// the target week. A slot without a template is a placeholder so that
// every day has a droppable target; it carries no quota.
type Slot struct {
	ID        string                `json:"id"`
	DayIndex  int                   `json:"dayIndex"` // 0 (Monday) .. 6 (Sunday)
	DayLabel  string                `json:"dayLabel"`
	Template  *domain.ShiftTemplate `json:"template"`
	Assignees []Assignee            `json:"assignees"`
}

// HasTemplate reports whether the slot enforces quotas.
func (s *Slot) HasTemplate() bool {
	return s.Template != nil
}

func (s *Slot) countRole(role domain.Role) int32 {
	var n int32
	for _, a := range s.Assignees {
		if a.Role == role {
			n++
		}
	}
	return n
}

func (s *Slot) indexOf(workerID int64) int {
	for i, a := range s.Assignees {
		if a.WorkerID == workerID {
			return i
		}
	}
	return -1
}

// GenerateSlots expands templates into the slot list for the week
// starting at weekStart (a Monday). Only active templates are
// considered. Day d gets one slot per template whose day_of_week is
// d+1, ordered by start time then id; a day with no matching template
// gets exactly one template-less placeholder. Slot ids are
// deterministic ({dayIndex}-{templateIndexWithinDay}) so regeneration
// is idempotent.
//
// Two active templates sharing a day and time window both produce
// slots; split shifts are legitimate.
func GenerateSlots(templates []*domain.ShiftTemplate, weekStart time.Time) []*Slot {
	byDay := make(map[int32][]*domain.ShiftTemplate)
	for _, st := range templates {
		if !st.IsActive {
			continue
		}
		byDay[st.DayOfWeek] = append(byDay[st.DayOfWeek], st)
	}
	for _, day := range byDay {
		sort.Slice(day, func(i, j int) bool {
			if day[i].StartTime != day[j].StartTime {
				return day[i].StartTime < day[j].StartTime
			}
			return day[i].ID < day[j].ID
		})
	}

	slots := make([]*Slot, 0, 7)
	for day := 0; day < 7; day++ {
		label := weekStart.AddDate(0, 0, day).Format("Monday 2006-01-02")
		matched := byDay[int32(day+1)]

		if len(matched) == 0 {
			slots = append(slots, &Slot{
				ID:        fmt.Sprintf("%d-0", day),
				DayIndex:  day,
				DayLabel:  label,
				Assignees: make([]Assignee, 0),
			})
			continue
		}

		for i, st := range matched {
			slots = append(slots, &Slot{
				ID:        fmt.Sprintf("%d-%d", day, i),
				DayIndex:  day,
				DayLabel:  label,
				Template:  st,
				Assignees: make([]Assignee, 0),
			})
		}
	}

	return slots
}
