package domain

import "time"

type RevokedToken struct {
	JTI       string    `gorm:"type:text;primaryKey" db:"jti"`
	UserID    UserID    `gorm:"not null;index" db:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" db:"expires_at"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }

// Principal is an authenticated caller: the user plus the token presented.
type Principal struct {
	User      *User
	TokenID   string
	ExpiresAt time.Time
}
