package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeletedUsername is the username of the sentinel account that stands in for
// journalists whose accounts were removed.
const DeletedUsername = "deleted"

type User struct {
	ID         UserID     `gorm:"primaryKey;autoIncrement" db:"id"`
	UUID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:ux_users_uuid" db:"uuid"`
	Username   string     `gorm:"type:text;not null;uniqueIndex:ux_users_username" db:"username"`
	FirstName  *string    `gorm:"type:text" db:"first_name"`
	LastName   *string    `gorm:"type:text" db:"last_name"`
	IsAdmin    bool       `gorm:"not null;default:false" db:"is_admin"`
	Deleted    bool       `gorm:"not null;default:false" db:"deleted"`
	LastAccess *time.Time `db:"last_access"`
	CreatedAt  time.Time  `gorm:"not null" db:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" db:"updated_at"`
}

func (User) TableName() string { return "users" }

// IsSentinel reports whether u is the placeholder account for removed users.
func (u *User) IsSentinel() bool { return u != nil && u.Deleted }

func (u *User) First() string {
	if u == nil || u.FirstName == nil {
		return ""
	}
	return *u.FirstName
}

func (u *User) Last() string {
	if u == nil || u.LastName == nil {
		return ""
	}
	return *u.LastName
}
