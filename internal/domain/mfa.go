package domain

import "time"

type TotpMFA struct {
	UserID    UserID    `gorm:"primaryKey" db:"user_id"`
	Secret    string    `gorm:"type:text;not null" db:"secret"` // base32
	IsEnabled bool      `gorm:"not null;default:true" db:"is_enabled"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at"`
}

func (TotpMFA) TableName() string { return "totp_mfa" }

// UsedCode records a one-time code that was accepted. The composite key is
// what makes a replayed code lose, even under concurrent logins.
type UsedCode struct {
	CodeKey   string    `gorm:"type:text;primaryKey" db:"code_key"`
	ExpiresAt time.Time `gorm:"not null;index" db:"expires_at"`
	CreatedAt time.Time `gorm:"not null" db:"created_at"`
}

func (UsedCode) TableName() string { return "used_one_time_codes" }
