package model

import "time"

// User represents a registered account holder.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Name         string    `json:"name,omitempty" gorm:"size:100"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Public returns the fields of the user that are safe to hand to clients.
func (u *User) Public() map[string]interface{} {
	out := map[string]interface{}{
		"id":    u.ID,
		"email": u.Email,
	}
	if u.Name != "" {
		out["name"] = u.Name
	}
	return out
}
