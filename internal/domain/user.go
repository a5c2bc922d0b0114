package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleStandard UserRole = "standard"
	UserRoleAdmin    UserRole = "admin"
)

// User represents an authenticated account within the platform. Slot counters
// are owned by the database; in-process copies are snapshots, never mutated.
type User struct {
	ID         string
	Email      string
	Name       string
	Role       UserRole
	SlotsTotal int
	SlotsUsed  int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAdmin reports whether the user has unbounded site capacity.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// SlotsAvailable returns the remaining capacity for standard users. The value
// is advisory (for display); admission control re-checks atomically in the
// storage layer.
func (u User) SlotsAvailable() int {
	if rem := u.SlotsTotal - u.SlotsUsed; rem > 0 {
		return rem
	}
	return 0
}
