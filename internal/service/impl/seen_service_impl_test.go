package impl

import (
	"context"
	"errors"
	"testing"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"

	"github.com/google/uuid"
)

func TestMarkSeenAllKinds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	src := e.source(t, "brave otter")
	msg := e.submission(t, src, true, "m")
	doc := e.submission(t, src, false, "d")
	res, err := NewReplyService(e.store, e.blobs, PGPArmorValidator{}).Submit(ctx, e.user, src.UUID.String(), dto.ReplyRequest{Reply: armored(t, "r")})
	if err != nil {
		t.Fatalf("submit reply: %v", err)
	}

	other := &domain.User{Username: "second"}
	if err := e.store.Users().Create(ctx, other); err != nil {
		t.Fatalf("create user: %v", err)
	}

	svc := NewSeenService(e.store)
	targets := []domain.SeenTarget{
		{Kind: domain.TargetFile, UUID: doc.UUID.String()},
		{Kind: domain.TargetMessage, UUID: msg.UUID.String()},
		{Kind: domain.TargetReply, UUID: res.UUID},
	}
	for i := 0; i < 2; i++ {
		if err := svc.MarkSeen(ctx, other, targets); err != nil {
			t.Fatalf("mark seen: %v", err)
		}
	}

	seen, err := e.store.Seen().SeenBy(ctx, domain.ArtifactSubmission, []int64{msg.ID, doc.ID})
	if err != nil {
		t.Fatalf("seen by: %v", err)
	}
	if len(seen[msg.ID]) != 1 || len(seen[doc.ID]) != 1 || seen[doc.ID][0] != other.UUID {
		t.Fatalf("unexpected submission marks %+v", seen)
	}

	r, err := e.store.Replies().GetByUUID(ctx, uuid.MustParse(res.UUID))
	if err != nil {
		t.Fatalf("reload reply: %v", err)
	}
	replySeen, err := e.store.Seen().SeenBy(ctx, domain.ArtifactReply, []int64{r.ID})
	if err != nil {
		t.Fatalf("seen by: %v", err)
	}
	want := []uuid.UUID{e.user.UUID, other.UUID}
	if len(replySeen[r.ID]) != 2 || replySeen[r.ID][0] != want[0] || replySeen[r.ID][1] != want[1] {
		t.Fatalf("expected author then reader, got %+v", replySeen[r.ID])
	}
}

func TestMarkSeenRollsBackOnUnknownTarget(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	src := e.source(t, "calm heron")
	msg := e.submission(t, src, true, "m")
	missing := uuid.NewString()

	err := NewSeenService(e.store).MarkSeen(ctx, e.user, []domain.SeenTarget{
		{Kind: domain.TargetMessage, UUID: msg.UUID.String()},
		{Kind: domain.TargetReply, UUID: missing},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	var reqErr *domain.RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "reply not found: "+missing {
		t.Fatalf("unexpected error message %v", err)
	}

	seen, err := e.store.Seen().SeenBy(ctx, domain.ArtifactSubmission, []int64{msg.ID})
	if err != nil {
		t.Fatalf("seen by: %v", err)
	}
	if len(seen[msg.ID]) != 0 {
		t.Fatalf("partial write survived rollback: %+v", seen)
	}
}

func TestMarkSeenKindMismatch(t *testing.T) {
	e := newEnv(t)
	src := e.source(t, "quiet lynx")
	doc := e.submission(t, src, false, "d")

	err := NewSeenService(e.store).MarkSeen(context.Background(), e.user, []domain.SeenTarget{
		{Kind: domain.TargetMessage, UUID: doc.UUID.String()},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("a file addressed as a message must not resolve, got %v", err)
	}
}
