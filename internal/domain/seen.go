package domain

import (
	"time"

	"github.com/google/uuid"
)

// TargetKind is the kind of resource a client asks to mark seen.
type TargetKind string

const (
	TargetFile    TargetKind = "file"
	TargetMessage TargetKind = "message"
	TargetReply   TargetKind = "reply"
)

// Artifact maps the client-facing kind onto the table holding it.
func (k TargetKind) Artifact() ArtifactKind {
	if k == TargetReply {
		return ArtifactReply
	}
	return ArtifactSubmission
}

// SeenTarget is one entry of a mark-seen request. UUID is kept as the raw
// string the client sent so that lookups can echo it back on failure.
type SeenTarget struct {
	Kind TargetKind
	UUID string
}

type SeenMark struct {
	Kind       ArtifactKind `gorm:"type:text;primaryKey" db:"kind"`
	ResourceID int64        `gorm:"primaryKey;autoIncrement:false" db:"resource_id"`
	UserUUID   uuid.UUID    `gorm:"type:uuid;primaryKey" db:"user_uuid"`
	CreatedAt  time.Time    `gorm:"not null" db:"created_at"`
}

func (SeenMark) TableName() string { return "seen_marks" }
