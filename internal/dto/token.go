package dto

import (
	"bytes"
	"encoding/json"

	"journalist-api/internal/domain"
)

type TokenRequest struct {
	Username    string
	Passphrase  string
	OneTimeCode string
}

type TokenResponse struct {
	Token               string  `json:"token"`
	Expiration          string  `json:"expiration"`
	JournalistUUID      string  `json:"journalist_uuid"`
	JournalistFirstName *string `json:"journalist_first_name"`
	JournalistLastName  *string `json:"journalist_last_name"`
}

var tokenFields = []string{"username", "passphrase", "one_time_code"}

// ParseTokenRequest decodes a token request body. Fields are checked in a
// fixed order and the first absent or null one is reported.
func ParseTokenRequest(body []byte) (TokenRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return TokenRequest{}, domain.ErrInvalidJSON
	}
	if raw == nil {
		return TokenRequest{}, domain.ErrInvalidJSON
	}
	vals := make([]string, len(tokenFields))
	for i, f := range tokenFields {
		v, ok := raw[f]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return TokenRequest{}, domain.BadRequest("%s field is missing", f)
		}
		if err := json.Unmarshal(v, &vals[i]); err != nil {
			// Non-string values cannot match a credential.
			return TokenRequest{}, domain.ErrInvalidCredentials
		}
	}
	return TokenRequest{Username: vals[0], Passphrase: vals[1], OneTimeCode: vals[2]}, nil
}
