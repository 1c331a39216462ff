package seed

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
	"github.com/opshift-dev/shift-planner/backend/internal/repository"
)

type demoWorker struct {
	FullName string
	Username string
	Role     domain.Role
}

var demoWorkers = []demoWorker{
	{"Maya Castillo", "maya.castillo", domain.RoleOpener},
	{"Theo Brandt", "theo.brandt", domain.RoleOpener},
	{"Priya Nair", "priya.nair", domain.RoleOpener},
	{"Jonas Lindqvist", "jonas.lindqvist", domain.RoleOpener},
	{"Amara Diallo", "amara.diallo", domain.RoleCloser},
	{"Felix Ortega", "felix.ortega", domain.RoleCloser},
	{"Hana Kimura", "hana.kimura", domain.RoleCloser},
	{"Noah Brennan", "noah.brennan", domain.RoleCloser},
}

type demoShift struct {
	Name      string
	StartTime string
	EndTime   string
	Break     int32
	Openers   int32
	Closers   int32
	Days      []int32
}

// a typical counter-service week: open and close crews Monday through
// Saturday, a single combined shift on Sunday
var demoShifts = []demoShift{
	{"Open", "06:30", "14:30", 30, 2, 0, []int32{1, 2, 3, 4, 5, 6}},
	{"Midday", "11:00", "17:00", 30, 1, 1, []int32{1, 2, 3, 4, 5}},
	{"Close", "14:00", "22:00", 30, 0, 2, []int32{1, 2, 3, 4, 5, 6}},
	{"Sunday", "09:00", "18:00", 45, 1, 1, []int32{7}},
}

// SeedDemoData inserts a named roster and a full week of shift
// templates for one business. It is idempotent only in the sense that
// duplicate usernames fail individually and are logged, not fatal.
func SeedDemoData(r *repository.Repository, businessID int64, password string, emailDomainName string) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash seed password", "error", err)
		return
	}

	users := 0
	for _, w := range demoWorkers {
		user := &domain.User{
			BusinessID:   businessID,
			Username:     w.Username,
			PasswordHash: string(passwordHash),
			FullName:     w.FullName,
			Email:        w.Username + "@" + emailDomainName,
			Role:         w.Role,
		}
		if err := r.CreateUser(user); err != nil {
			slog.Error("failed to insert demo worker", "username", w.Username, "error", err)
			continue
		}
		users++
	}

	templates := 0
	for _, s := range demoShifts {
		for _, day := range s.Days {
			st := &domain.ShiftTemplate{
				BusinessID:      businessID,
				Name:            s.Name,
				DayOfWeek:       day,
				StartTime:       s.StartTime,
				EndTime:         s.EndTime,
				BreakMinutes:    s.Break,
				RequiredOpeners: s.Openers,
				RequiredClosers: s.Closers,
				IsActive:        true,
			}
			if err := r.CreateShiftTemplate(st); err != nil {
				slog.Error("failed to insert demo shift template", "name", s.Name, "day", day, "error", err)
				continue
			}
			templates++
		}
	}

	slog.Info("demo data seeded", "users", users, "shiftTemplates", templates)
}
