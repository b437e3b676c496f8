package entity

import "time"

const (
	UserActive    = "active"
	UserSuspended = "suspended"
)

// User representa una cuenta del back-office. Es la identidad dueña de todos sus registros.
type User struct {
	ID           string    `json:"id,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"` // bcrypt, nunca en claro
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}
