package domain

import (
	"time"
)

type Role string

const (
	RoleOpener  Role = "opener"
	RoleCloser  Role = "closer"
	RoleManager Role = "manager"
)

// SchedulableRoles are the roster categories that can be assigned to
// slots. Managers build schedules but never appear in them.
var SchedulableRoles = []Role{RoleOpener, RoleCloser}

func (r Role) IsSchedulable() bool {
	return r == RoleOpener || r == RoleCloser
}

type User struct {
	ID           int64     `json:"id"`
	BusinessID   int64     `json:"businessID"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
