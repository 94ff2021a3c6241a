package models

import "time"

type AppUser struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	Password  string    `json:"password,omitempty" db:"password_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const RoleAdmin = "admin"
