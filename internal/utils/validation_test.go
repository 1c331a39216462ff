package utils

import (
	"strings"
	"testing"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
)

func validTemplate() *domain.ShiftTemplate {
	return &domain.ShiftTemplate{
		Name:            "Open",
		DayOfWeek:       1,
		StartTime:       "06:30",
		EndTime:         "14:30",
		BreakMinutes:    30,
		RequiredOpeners: 2,
		RequiredClosers: 0,
	}
}

func TestValidateShiftTemplate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(st *domain.ShiftTemplate)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(st *domain.ShiftTemplate) {},
		},
		{
			name:    "blank name",
			mutate:  func(st *domain.ShiftTemplate) { st.Name = "   " },
			wantErr: "name must not be blank",
		},
		{
			name:    "day too small",
			mutate:  func(st *domain.ShiftTemplate) { st.DayOfWeek = 0 },
			wantErr: "day of week",
		},
		{
			name:    "day too large",
			mutate:  func(st *domain.ShiftTemplate) { st.DayOfWeek = 8 },
			wantErr: "day of week",
		},
		{
			name:    "malformed start time",
			mutate:  func(st *domain.ShiftTemplate) { st.StartTime = "6:30am" },
			wantErr: "not in HH:MM format",
		},
		{
			name:    "malformed end time",
			mutate:  func(st *domain.ShiftTemplate) { st.EndTime = "25:00" },
			wantErr: "not in HH:MM format",
		},
		{
			name:    "non-zero-padded start time",
			mutate:  func(st *domain.ShiftTemplate) { st.StartTime = "6:30" },
			wantErr: "not in HH:MM format",
		},
		{
			name:    "non-zero-padded end time",
			mutate:  func(st *domain.ShiftTemplate) { st.EndTime = "9:05" },
			wantErr: "not in HH:MM format",
		},
		{
			name: "start equals end",
			mutate: func(st *domain.ShiftTemplate) {
				st.StartTime = "09:00"
				st.EndTime = "09:00"
			},
			wantErr: "must be before end time",
		},
		{
			name: "start after end",
			mutate: func(st *domain.ShiftTemplate) {
				st.StartTime = "15:00"
				st.EndTime = "09:00"
			},
			wantErr: "must be before end time",
		},
		{
			name:    "negative break",
			mutate:  func(st *domain.ShiftTemplate) { st.BreakMinutes = -1 },
			wantErr: "break minutes",
		},
		{
			name:    "negative openers",
			mutate:  func(st *domain.ShiftTemplate) { st.RequiredOpeners = -1 },
			wantErr: "opener count",
		},
		{
			name:    "negative closers",
			mutate:  func(st *domain.ShiftTemplate) { st.RequiredClosers = -2 },
			wantErr: "closer count",
		},
		{
			name: "zero quotas are allowed",
			mutate: func(st *domain.ShiftTemplate) {
				st.RequiredOpeners = 0
				st.RequiredClosers = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := validTemplate()
			tt.mutate(st)

			err := ValidateShiftTemplate(st)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateWeekStart(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"monday", "2026-01-05", false},
		{"sunday", "2026-01-04", true},
		{"saturday", "2026-01-10", true},
		{"not a date", "next monday", true},
		{"wrong layout", "05/01/2026", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateWeekStart(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format("2006-01-02") != tt.input {
				t.Errorf("parsed %s, want %s", got.Format("2006-01-02"), tt.input)
			}
		})
	}
}
