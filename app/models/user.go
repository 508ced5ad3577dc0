package models

import "time"

// User is the gateway-side account row.
type User struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username  string    `gorm:"size:255;not null"             json:"username"`
	Password  string    `gorm:"size:255;not null"             json:"-"` // hashed, never serialised
	Verified  bool      `gorm:"not null;default:false"        json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is the authenticated identity as seen by the client. It is
// what persists across restarts; credentials never do.
type Identity struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Credentials is the sign-in / sign-up input.
type Credentials struct {
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"nullable,confirmed"`
	Username             string `json:"username"              validate:"nullable"`
}
