package models

import "time"

// User is the authenticated account as returned by the service
type User struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// DisplayName prefers the name and falls back to the email
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
