package models

import "time"

// RolePrivileged grants visibility over every user's try-on records.
const (
	RoleStandard   = 0
	RolePrivileged = 1
)

type User struct {
	ID           int64
	Username     string
	PasswordHash []byte
	Role         int
	CreatedAt    time.Time
}

func (u User) Privileged() bool {
	return u.Role == RolePrivileged
}

type Session struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}
