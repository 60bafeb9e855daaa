package domain

import "time"

type User struct {
	ID           string
	Email        string // login identifier, unique
	Username     string // unique, 3-50 chars
	PasswordHash string // argon2 encoded
	FullName     string
	IsActive     bool // inactive users cannot authenticate
	IsSuperuser  bool // gates admin operations
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch is a partial update to a user record. Nil fields are left
// unchanged. Password carries plaintext and is hashed before storage.
type UserPatch struct {
	Email       *string
	Username    *string
	Password    *string
	FullName    *string
	IsActive    *bool
	IsSuperuser *bool
}

// IsZero reports whether the patch changes nothing.
func (p UserPatch) IsZero() bool {
	return p.Email == nil && p.Username == nil && p.Password == nil &&
		p.FullName == nil && p.IsActive == nil && p.IsSuperuser == nil
}
