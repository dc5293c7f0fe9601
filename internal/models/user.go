package models

import "time"

// Roles assignable to a user account. Role changes happen through
// privileged tooling, never through the public auth endpoints.
const (
	RoleUser       = "user"
	RoleStoreAdmin = "store_admin"
	RoleAdmin      = "admin"
)

// User represents an account. OTP and reset-token fields are populated
// only while a verification or password-reset cycle is in flight.
type User struct {
	BaseModel
	Name           string     `json:"name"`
	Email          string     `gorm:"uniqueIndex" json:"email"`
	PasswordHash   string     `json:"-"`
	Role           string     `gorm:"default:user" json:"role"`
	Verified       bool       `json:"verified"`
	Archived       bool       `json:"archived"`
	OTP            *string    `json:"-"`
	OTPExpiresAt   *time.Time `json:"-"`
	ResetToken     *string    `gorm:"index" json:"-"`
	ResetExpiresAt *time.Time `json:"-"`
}

// PublicUser is the projection returned by auth endpoints; it never
// carries the password hash or any pending code.
type PublicUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

// Public builds the password-free projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID.String(),
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Verified: u.Verified,
	}
}
