package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

type Source struct {
	ID                    SourceID  `gorm:"primaryKey;autoIncrement" db:"id"`
	UUID                  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_sources_uuid" db:"uuid"`
	FilesystemID          string    `gorm:"type:text;not null;uniqueIndex:ux_sources_fsid" db:"filesystem_id"`
	JournalistDesignation string    `gorm:"type:text;not null" db:"journalist_designation"`
	PublicKey             string    `gorm:"type:text;not null" db:"public_key"`
	Fingerprint           string    `gorm:"type:text;not null" db:"fingerprint"`
	InteractionCount      int       `gorm:"not null;default:0" db:"interaction_count"`
	Flagged               bool      `gorm:"not null;default:false" db:"flagged"`
	LastUpdated           time.Time `gorm:"not null" db:"last_updated"`
	CreatedAt             time.Time `gorm:"not null" db:"created_at"`
}

func (Source) TableName() string { return "sources" }

// JournalistFilename is the designation reduced to a filename-safe token:
// lowercase letters, digits and underscores only.
func (s *Source) JournalistFilename() string {
	var b strings.Builder
	for _, r := range strings.ToLower(s.JournalistDesignation) {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		}
	}
	return b.String()
}

type SourceStar struct {
	SourceID  SourceID  `gorm:"primaryKey" db:"source_id"`
	Starred   bool      `gorm:"not null;default:false" db:"starred"`
	UpdatedAt time.Time `gorm:"not null" db:"updated_at"`
}

func (SourceStar) TableName() string { return "source_stars" }
