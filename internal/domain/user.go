package domain

import "time"

// UserRole distinguishes back-office admins from portal clients.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// UserStatus represents account lifecycle states.
type UserStatus string

const (
	UserStatusActive          UserStatus = "active"
	UserStatusInactive        UserStatus = "inactive"
	UserStatusSuspended       UserStatus = "suspended"
	UserStatusPendingDeletion UserStatus = "pending_deletion"
)

// User is an account in the portal. Accounts are never hard-deleted
// directly; self-service deletion parks them in pending_deletion until
// the purge job runs after DeletionDate.
type User struct {
	ID                 string
	Email              string
	FullName           string
	PasswordHash       string
	Role               UserRole
	Status             UserStatus
	MustChangePassword bool
	DeletionDate       *time.Time
	DeletionToken      *string
	LastLogin          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// adminUserTransitions lists status edges an admin may apply directly.
// Entering or leaving pending_deletion goes through the dedicated
// deletion/recovery flows, never through an admin toggle.
var adminUserTransitions = map[UserStatus][]UserStatus{
	UserStatusActive:    {UserStatusInactive, UserStatusSuspended},
	UserStatusInactive:  {UserStatusActive, UserStatusSuspended},
	UserStatusSuspended: {UserStatusActive, UserStatusInactive},
}

// CanAdminTransitionTo reports whether an admin toggle from s to next
// is a meaningful edge. Re-applying the current status is a no-op edge
// and always allowed.
func (s UserStatus) CanAdminTransitionTo(next UserStatus) bool {
	if s == next {
		return true
	}
	for _, candidate := range adminUserTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// CanLogin reports whether the account may open a session.
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive || u.Status == UserStatusInactive
}
