package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArtifactKind names the table an encrypted artifact lives in.
type ArtifactKind string

const (
	ArtifactSubmission ArtifactKind = "submission"
	ArtifactReply      ArtifactKind = "reply"
)

// MessageSuffix marks a submission as a text message rather than a file.
const MessageSuffix = "-msg.gpg"

type Submission struct {
	ID         SubmissionID `gorm:"primaryKey;autoIncrement" db:"id"`
	UUID       uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:ux_submissions_uuid" db:"uuid"`
	SourceID   SourceID     `gorm:"not null;uniqueIndex:ux_submissions_source_filename,priority:1" db:"source_id"`
	Filename   string       `gorm:"type:text;not null;uniqueIndex:ux_submissions_source_filename,priority:2" db:"filename"`
	Size       int64        `gorm:"not null" db:"size"`
	Downloaded bool         `gorm:"not null;default:false" db:"downloaded"`
	Checksum   *string      `gorm:"type:text" db:"checksum"`
	CreatedAt  time.Time    `gorm:"not null" db:"created_at"`
}

func (Submission) TableName() string { return "submissions" }

func (s *Submission) IsMessage() bool { return strings.HasSuffix(s.Filename, MessageSuffix) }

func (s *Submission) IsFile() bool { return !s.IsMessage() }

type Reply struct {
	ID              ReplyID   `gorm:"primaryKey;autoIncrement" db:"id"`
	UUID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:ux_replies_uuid" db:"uuid"`
	SourceID        SourceID  `gorm:"not null;uniqueIndex:ux_replies_source_filename,priority:1" db:"source_id"`
	JournalistID    UserID    `gorm:"not null;index" db:"journalist_id"`
	Filename        string    `gorm:"type:text;not null;uniqueIndex:ux_replies_source_filename,priority:2" db:"filename"`
	Size            int64     `gorm:"not null" db:"size"`
	Checksum        *string   `gorm:"type:text" db:"checksum"`
	DeletedBySource bool      `gorm:"not null;default:false" db:"deleted_by_source"`
	CreatedAt       time.Time `gorm:"not null" db:"created_at"`
}

func (Reply) TableName() string { return "replies" }
