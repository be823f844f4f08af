package service

import (
	"context"
	"io"

	"journalist-api/internal/domain"
)

type NewUser struct {
	Username  string
	Password  string
	FirstName *string
	LastName  *string
	IsAdmin   bool
}

// UserService manages journalist accounts for the admin CLI.
type UserService interface {
	Create(ctx context.Context, u NewUser) (user *domain.User, otpURI string, err error)
	Delete(ctx context.Context, username string) (map[string]int64, error)
}

// IngestService seeds sources and submissions the way the source-facing
// side would.
type IngestService interface {
	AddSource(ctx context.Context, designation, publicKey, fingerprint string) (*domain.Source, error)
	AddSubmission(ctx context.Context, sourceUUID string, isMessage bool, body io.Reader) (*domain.Submission, error)
}
