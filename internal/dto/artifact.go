package dto

import (
	"journalist-api/internal/domain"

	"github.com/google/uuid"
)

type Submission struct {
	UUID          string   `json:"uuid"`
	Filename      string   `json:"filename"`
	Size          int64    `json:"size"`
	IsFile        bool     `json:"is_file"`
	IsMessage     bool     `json:"is_message"`
	IsRead        bool     `json:"is_read"`
	SeenBy        []string `json:"seen_by"`
	SourceURL     string   `json:"source_url"`
	SubmissionURL string   `json:"submission_url"`
	DownloadURL   string   `json:"download_url"`
}

type SubmissionList struct {
	Submissions []Submission `json:"submissions"`
}

// NewSubmission renders sub. src is nil for a row whose source is gone, in
// which case the source-relative URLs stay empty.
func NewSubmission(sub *domain.Submission, src *domain.Source, seenBy []uuid.UUID) Submission {
	seen := uuidStrings(seenBy)
	out := Submission{
		UUID:      sub.UUID.String(),
		Filename:  sub.Filename,
		Size:      sub.Size,
		IsFile:    sub.IsFile(),
		IsMessage: sub.IsMessage(),
		IsRead:    len(seen) > 0,
		SeenBy:    seen,
	}
	if src != nil {
		out.SourceURL = SourceURL(src)
		out.SubmissionURL = out.SourceURL + "/submissions/" + out.UUID
		out.DownloadURL = out.SubmissionURL + "/download"
	}
	return out
}

type Reply struct {
	UUID                string   `json:"uuid"`
	Filename            string   `json:"filename"`
	Size                int64    `json:"size"`
	JournalistUsername  string   `json:"journalist_username"`
	JournalistUUID      string   `json:"journalist_uuid"`
	JournalistFirstName string   `json:"journalist_first_name"`
	JournalistLastName  string   `json:"journalist_last_name"`
	IsDeletedBySource   bool     `json:"is_deleted_by_source"`
	SeenBy              []string `json:"seen_by"`
	SourceURL           string   `json:"source_url"`
	ReplyURL            string   `json:"reply_url"`
}

type ReplyList struct {
	Replies []Reply `json:"replies"`
}

// NewReply renders r authored by author, which must already be resolved to
// the sentinel when the original account is gone.
func NewReply(r *domain.Reply, src *domain.Source, author *domain.User, seenBy []uuid.UUID) Reply {
	out := Reply{
		UUID:                r.UUID.String(),
		Filename:            r.Filename,
		Size:                r.Size,
		JournalistUsername:  author.Username,
		JournalistUUID:      author.UUID.String(),
		JournalistFirstName: author.First(),
		JournalistLastName:  author.Last(),
		IsDeletedBySource:   r.DeletedBySource,
		SeenBy:              uuidStrings(seenBy),
	}
	if src != nil {
		out.SourceURL = SourceURL(src)
		out.ReplyURL = out.SourceURL + "/replies/" + out.UUID
	}
	return out
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
