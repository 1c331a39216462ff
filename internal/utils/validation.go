package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
)

const shiftTimeLayout = "15:04"

// parseShiftTime accepts only the canonical zero-padded form.
// time.Parse alone would take "6:30", which is then stored verbatim
// and sorts after "14:00" in the lexicographic slot ordering.
func parseShiftTime(value string) (time.Time, error) {
	t, err := time.Parse(shiftTimeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(shiftTimeLayout) != value {
		return time.Time{}, fmt.Errorf("time %q is not zero-padded", value)
	}
	return t, nil
}

// ValidateShiftTemplate rejects a template whose fields can never
// produce a usable slot. Messages name the exact violated constraint;
// they are shown to the operator as-is.
func ValidateShiftTemplate(st *domain.ShiftTemplate) error {
	if strings.TrimSpace(st.Name) == "" {
		return errors.New("template name must not be blank")
	}

	if st.DayOfWeek < 1 || st.DayOfWeek > 7 {
		return fmt.Errorf("day of week must be between 1 (Monday) and 7 (Sunday), got %d", st.DayOfWeek)
	}

	start, err := parseShiftTime(st.StartTime)
	if err != nil {
		return fmt.Errorf("start time %q is not in HH:MM format", st.StartTime)
	}
	end, err := parseShiftTime(st.EndTime)
	if err != nil {
		return fmt.Errorf("end time %q is not in HH:MM format", st.EndTime)
	}
	if !start.Before(end) {
		return fmt.Errorf("start time %s must be before end time %s", st.StartTime, st.EndTime)
	}

	if st.BreakMinutes < 0 {
		return fmt.Errorf("break minutes must not be negative, got %d", st.BreakMinutes)
	}
	if st.RequiredOpeners < 0 {
		return fmt.Errorf("required opener count must not be negative, got %d", st.RequiredOpeners)
	}
	if st.RequiredClosers < 0 {
		return fmt.Errorf("required closer count must not be negative, got %d", st.RequiredClosers)
	}

	return nil
}

// ValidateWeekStart parses a YYYY-MM-DD week start and requires it to
// be a Monday, the fixed week-start convention of the slot generator.
func ValidateWeekStart(weekStart string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, weekStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("week start %q is not a YYYY-MM-DD date", weekStart)
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("week start %s is a %s, schedules start on Monday", weekStart, t.Weekday())
	}
	return t, nil
}
