// Package dto holds the JSON shapes of the journalist API and the parsers
// that turn raw request bodies into typed requests.
package dto

import (
	"time"
)

const APIPrefix = "/api/v1"

const (
	// ExpirationLayout is the token expiry format: UTC, second precision,
	// explicit offset.
	ExpirationLayout = "2006-01-02T15:04:05+00:00"
	// TimestampLayout is used for resource timestamps.
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
)

func FormatExpiration(t time.Time) string { return t.UTC().Format(ExpirationLayout) }

func FormatTimestamp(t time.Time) string { return t.UTC().Format(TimestampLayout) }

type Message struct {
	Message string `json:"message"`
}

type Endpoints struct {
	AuthTokenURL   string `json:"auth_token_url"`
	CurrentUserURL string `json:"current_user_url"`
	AllUsersURL    string `json:"all_users_url"`
	SubmissionsURL string `json:"submissions_url"`
	SourcesURL     string `json:"sources_url"`
	RepliesURL     string `json:"replies_url"`
	SeenURL        string `json:"seen_url"`
}

func NewEndpoints() Endpoints {
	return Endpoints{
		AuthTokenURL:   APIPrefix + "/token",
		CurrentUserURL: APIPrefix + "/user",
		AllUsersURL:    APIPrefix + "/users",
		SubmissionsURL: APIPrefix + "/submissions",
		SourcesURL:     APIPrefix + "/sources",
		RepliesURL:     APIPrefix + "/replies",
		SeenURL:        APIPrefix + "/seen",
	}
}
