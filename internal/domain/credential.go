package domain

import "time"

type PasswordCredential struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" db:"id"`
	UserID      UserID    `gorm:"not null;uniqueIndex:ux_pwd_user" db:"user_id"`
	Algo        string    `gorm:"type:text;not null" db:"algo"`
	Hash        []byte    `gorm:"not null" db:"hash"`
	Salt        []byte    `gorm:"not null" db:"salt"`
	ParamsJSON  []byte    `gorm:"not null" db:"params_json"`
	PasswordVer int       `gorm:"not null;default:1" db:"password_ver"`
	CreatedAt   time.Time `gorm:"not null" db:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" db:"updated_at"`
}

func (PasswordCredential) TableName() string { return "password_credentials" }

func (p *PasswordCredential) GetAlgo() string       { return p.Algo }
func (p *PasswordCredential) GetHash() []byte       { return p.Hash }
func (p *PasswordCredential) GetSalt() []byte       { return p.Salt }
func (p *PasswordCredential) GetParamsJSON() []byte { return p.ParamsJSON }
func (p *PasswordCredential) GetPasswordVer() int   { return p.PasswordVer }
