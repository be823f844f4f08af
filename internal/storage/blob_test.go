package storage

import (
	"context"
	"testing"
)

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	bs, err := Open(ctx, Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if _, ok := bs.(*FS); !ok {
		t.Fatalf("expected *FS, got %T", bs)
	}

	if _, err := Open(ctx, Config{Backend: "s3"}); err == nil {
		t.Fatalf("expected missing bucket error")
	}
	if _, err := Open(ctx, Config{Backend: "tape"}); err == nil {
		t.Fatalf("expected unsupported backend error")
	}
}

func TestValidName(t *testing.T) {
	for _, tc := range []struct {
		name string
		ok   bool
	}{
		{"1-conceited_ferret-msg.gpg", true},
		{"", false},
		{".", false},
		{"..", false},
		{"a/b", false},
		{`a\b`, false},
		{"a..b", false},
		{"a\x00b", false},
	} {
		if got := validName(tc.name); got != tc.ok {
			t.Errorf("validName(%q) = %v, want %v", tc.name, got, tc.ok)
		}
	}
}
