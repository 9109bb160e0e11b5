package identity

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when the email belongs to a registered user.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// DefaultCountryCode applies when a registration omits its country.
const DefaultCountryCode = "US"

// User is a registered account or a transfer party created on the fly. An
// empty PasswordHash marks a party that has never registered.
type User struct {
	ID           string
	Name         string
	Email        string
	CountryCode  string
	Phone        string
	PasswordHash []byte
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Registered reports whether the user can log in.
func (u User) Registered() bool {
	return len(u.PasswordHash) > 0
}

// Profile is the client-facing view of a User.
type Profile struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	CountryCode string     `json:"country_code"`
	Phone       string     `json:"phone,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// Profile returns the public view of u.
func (u User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		CountryCode: u.CountryCode,
		Phone:       u.Phone,
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLogin,
	}
}

// Registration request structure.
type Registration struct {
	Name        string
	Email       string
	Password    string
	CountryCode string
	Phone       string
}

// Party identifies a transfer sender or recipient.
type Party struct {
	Name    string
	Country string
	Email   string
	Phone   string
}

// ProfileUpdate carries optional profile changes. Nil fields are left as is.
type ProfileUpdate struct {
	Name        *string
	CountryCode *string
	Phone       *string
}
