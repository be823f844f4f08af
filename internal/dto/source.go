package dto

import "journalist-api/internal/domain"

type SourceKey struct {
	Type        string `json:"type"`
	Public      string `json:"public"`
	Fingerprint string `json:"fingerprint"`
}

type Source struct {
	UUID                  string    `json:"uuid"`
	URL                   string    `json:"url"`
	JournalistDesignation string    `json:"journalist_designation"`
	IsFlagged             bool      `json:"is_flagged"`
	IsStarred             bool      `json:"is_starred"`
	LastUpdated           string    `json:"last_updated"`
	InteractionCount      int       `json:"interaction_count"`
	Key                   SourceKey `json:"key"`
	NumberOfDocuments     int64     `json:"number_of_documents"`
	NumberOfMessages      int64     `json:"number_of_messages"`
	SubmissionsURL        string    `json:"submissions_url"`
	AddStarURL            string    `json:"add_star_url"`
	RemoveStarURL         string    `json:"remove_star_url"`
	RepliesURL            string    `json:"replies_url"`
}

type SourceList struct {
	Sources []Source `json:"sources"`
}

func SourceURL(src *domain.Source) string {
	return APIPrefix + "/sources/" + src.UUID.String()
}

func NewSource(src *domain.Source, starred bool, documents, messages int64) Source {
	url := SourceURL(src)
	return Source{
		UUID:                  src.UUID.String(),
		URL:                   url,
		JournalistDesignation: src.JournalistDesignation,
		IsFlagged:             src.Flagged,
		IsStarred:             starred,
		LastUpdated:           FormatTimestamp(src.LastUpdated),
		InteractionCount:      src.InteractionCount,
		Key: SourceKey{
			Type:        "PGP",
			Public:      src.PublicKey,
			Fingerprint: src.Fingerprint,
		},
		NumberOfDocuments: documents,
		NumberOfMessages:  messages,
		SubmissionsURL:    url + "/submissions",
		AddStarURL:        url + "/add_star",
		RemoveStarURL:     url + "/remove_star",
		RepliesURL:        url + "/replies",
	}
}
