package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleInstitute Role = "institute"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleInstitute
}

// User is a locker account. Email is unique among active users.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserCode     string     `gorm:"size:64;not null" json:"user_id"`
	Email        string     `gorm:"size:255;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	FirstName    string     `gorm:"size:100;not null" json:"first_name"`
	LastName     string     `gorm:"size:100;not null" json:"last_name"`
	Role         Role       `gorm:"size:20;not null" json:"role"`
	MobileNumber string     `gorm:"size:20" json:"mobile_number"`
	DateOfBirth  *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender       string     `gorm:"size:20" json:"gender"`
	StudentID    string     `gorm:"size:64" json:"student_id,omitempty"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
