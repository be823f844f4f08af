package dto

import (
	"bytes"
	"encoding/json"

	"journalist-api/internal/domain"

	"github.com/google/uuid"
)

type ReplyRequest struct {
	Reply string
	UUID  *uuid.UUID // nil when the client left the choice to the server
}

type ReplyResult struct {
	Message  string `json:"message"`
	UUID     string `json:"uuid"`
	Filename string `json:"filename"`
}

var (
	errReplyMissing   = domain.BadRequest("reply not found in request body")
	errReplyNotString = domain.BadRequest("reply field must be a string")
	errBadReplyUUID   = domain.BadRequest("uuid field is not a valid UUID")
	errNoTargets      = domain.BadRequest("Please specify the resources to mark seen.")
)

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func ParseReplyRequest(body []byte) (ReplyRequest, error) {
	var anyv any
	if err := json.Unmarshal(body, &anyv); err != nil {
		return ReplyRequest{}, domain.ErrInvalidJSON
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return ReplyRequest{}, errReplyMissing
	}
	rv, ok := raw["reply"]
	if !ok {
		return ReplyRequest{}, errReplyMissing
	}

	var req ReplyRequest
	if err := json.Unmarshal(rv, &req.Reply); err != nil {
		return ReplyRequest{}, errReplyNotString
	}

	if uv, ok := raw["uuid"]; ok && !isNull(uv) {
		var s string
		if err := json.Unmarshal(uv, &s); err != nil {
			return ReplyRequest{}, errBadReplyUUID
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return ReplyRequest{}, errBadReplyUUID
		}
		req.UUID = &id
	}
	return req, nil
}

var seenKeys = []struct {
	key  string
	kind domain.TargetKind
}{
	{"files", domain.TargetFile},
	{"messages", domain.TargetMessage},
	{"replies", domain.TargetReply},
}

// ParseSeenRequest turns {"files": [...], "messages": [...], "replies": [...]}
// into tagged targets, in that key order.
func ParseSeenRequest(body []byte) ([]domain.SeenTarget, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, domain.ErrInvalidJSON
	}
	var targets []domain.SeenTarget
	for _, k := range seenKeys {
		v, ok := raw[k.key]
		if !ok || isNull(v) {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(v, &items); err != nil {
			return nil, domain.ErrInvalidJSON
		}
		for _, item := range items {
			var id string
			if err := json.Unmarshal(item, &id); err != nil {
				id = string(bytes.TrimSpace(item))
			}
			targets = append(targets, domain.SeenTarget{Kind: k.kind, UUID: id})
		}
	}
	if len(targets) == 0 {
		return nil, errNoTargets
	}
	return targets, nil
}

// CheckOptionalJSON accepts an empty body or any well-formed JSON value.
func CheckOptionalJSON(body []byte) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if !json.Valid(body) {
		return domain.ErrInvalidJSON
	}
	return nil
}
