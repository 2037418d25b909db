package models

import "time"

type User struct {
	ID        string
	Email     string
	Password  string
	IsActive  bool
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
