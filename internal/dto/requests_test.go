package dto

import (
	"errors"
	"testing"

	"journalist-api/internal/domain"
)

func requestMessage(t *testing.T, err error) string {
	t.Helper()
	var re *domain.RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	return re.Message
}

func TestParseTokenRequestMissingFields(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"passphrase":"p","one_time_code":"1"}`, "username field is missing"},
		{`{"username":"u","one_time_code":"1"}`, "passphrase field is missing"},
		{`{"username":"u","passphrase":"p"}`, "one_time_code field is missing"},
		{`{"username":null,"passphrase":"p","one_time_code":"1"}`, "username field is missing"},
		{`{}`, "username field is missing"},
		{`not json`, "Please send requests in valid JSON."},
	}
	for _, tc := range tests {
		_, err := ParseTokenRequest([]byte(tc.body))
		if got := requestMessage(t, err); got != tc.want {
			t.Fatalf("body %s: expected %q, got %q", tc.body, tc.want, got)
		}
	}

	req, err := ParseTokenRequest([]byte(`{"username":"u","passphrase":"p","one_time_code":"123456"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Username != "u" || req.Passphrase != "p" || req.OneTimeCode != "123456" {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestParseReplyRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "not json", body: `{"reply":`, want: "Please send requests in valid JSON."},
		{name: "array", body: `[1,2]`, want: "reply not found in request body"},
		{name: "no reply", body: `{"uuid":null}`, want: "reply not found in request body"},
		{name: "numeric reply", body: `{"reply":42}`, want: "reply field must be a string"},
		{name: "object reply", body: `{"reply":{"text":"x"}}`, want: "reply field must be a string"},
		{name: "bad uuid", body: `{"reply":"x","uuid":"not-a-uuid"}`, want: "uuid field is not a valid UUID"},
		{name: "numeric uuid", body: `{"reply":"x","uuid":7}`, want: "uuid field is not a valid UUID"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseReplyRequest([]byte(tc.body))
			if got := requestMessage(t, err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	req, err := ParseReplyRequest([]byte(`{"reply":"armored","uuid":"0b7c8a3e-2b8f-4a0e-9d7e-6b1f49d1c9a1"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.Reply != "armored" || req.UUID == nil || req.UUID.String() != "0b7c8a3e-2b8f-4a0e-9d7e-6b1f49d1c9a1" {
		t.Fatalf("unexpected request %+v", req)
	}

	req, err = ParseReplyRequest([]byte(`{"reply":"armored","uuid":null}`))
	if err != nil || req.UUID != nil {
		t.Fatalf("null uuid should be left for the server: %+v %v", req, err)
	}
}

func TestParseSeenRequest(t *testing.T) {
	if _, err := ParseSeenRequest([]byte(`"files"`)); requestMessage(t, err) != "Please send requests in valid JSON." {
		t.Fatalf("expected invalid json for a bare string")
	}
	if _, err := ParseSeenRequest([]byte(`{"files":[],"other":["x"]}`)); requestMessage(t, err) != "Please specify the resources to mark seen." {
		t.Fatalf("expected missing targets")
	}

	targets, err := ParseSeenRequest([]byte(`{"replies":["r1"],"files":["f1"],"messages":["m1", 5]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []domain.SeenTarget{
		{Kind: domain.TargetFile, UUID: "f1"},
		{Kind: domain.TargetMessage, UUID: "m1"},
		{Kind: domain.TargetMessage, UUID: "5"},
		{Kind: domain.TargetReply, UUID: "r1"},
	}
	if len(targets) != len(want) {
		t.Fatalf("expected %d targets, got %v", len(want), targets)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("target %d: expected %+v, got %+v", i, want[i], targets[i])
		}
	}
}

func TestCheckOptionalJSON(t *testing.T) {
	for _, body := range []string{"", "  ", "{}", `{"a":1}`} {
		if err := CheckOptionalJSON([]byte(body)); err != nil {
			t.Fatalf("body %q: unexpected error %v", body, err)
		}
	}
	if err := CheckOptionalJSON([]byte("{")); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}
