package impl

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"
	"journalist-api/internal/storage"

	"github.com/google/uuid"
)

type failingPut struct {
	*storage.FS
}

func (failingPut) Put(context.Context, string, string, io.Reader) (int64, error) {
	return 0, errors.New("disk full")
}

func TestSubmitReplyStoresEverything(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	src := e.source(t, "Brave Otter")
	svc := NewReplyService(e.store, e.blobs, PGPArmorValidator{})

	body := armored(t, "ciphertext")
	res, err := svc.Submit(ctx, e.user, src.UUID.String(), dto.ReplyRequest{Reply: body})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Message != "Your reply has been stored" || res.Filename != "1-brave_otter-reply.gpg" {
		t.Fatalf("unexpected result %+v", res)
	}

	id := uuid.MustParse(res.UUID)
	r, err := e.store.Replies().GetByUUID(ctx, id)
	if err != nil {
		t.Fatalf("reload reply: %v", err)
	}
	if r.JournalistID != e.user.ID || r.Size != int64(len(body)) {
		t.Fatalf("unexpected reply row %+v", r)
	}

	seen, err := e.store.Seen().SeenBy(ctx, domain.ArtifactReply, []int64{r.ID})
	if err != nil {
		t.Fatalf("seen by: %v", err)
	}
	if len(seen[r.ID]) != 1 || seen[r.ID][0] != e.user.UUID {
		t.Fatalf("author should have seen own reply: %+v", seen)
	}

	fresh, err := e.store.Sources().GetByID(ctx, src.ID)
	if err != nil {
		t.Fatalf("reload source: %v", err)
	}
	if fresh.InteractionCount != 1 || fresh.LastUpdated.Before(src.LastUpdated) {
		t.Fatalf("source not updated: %+v", fresh)
	}
	if n, err := e.blobs.Size(ctx, src.FilesystemID, r.Filename); err != nil || n != int64(len(body)) {
		t.Fatalf("blob size %d err %v", n, err)
	}
}

func TestSubmitReplyRejectsPlaintext(t *testing.T) {
	e := newEnv(t)
	src := e.source(t, "calm heron")
	svc := NewReplyService(e.store, e.blobs, PGPArmorValidator{})

	_, err := svc.Submit(context.Background(), e.user, src.UUID.String(), dto.ReplyRequest{Reply: "hello there"})
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
	var reqErr *domain.RequestError
	if !errors.As(err, &reqErr) || reqErr.Message != "You must encrypt replies client side" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSubmitReplyUnknownSource(t *testing.T) {
	e := newEnv(t)
	svc := NewReplyService(e.store, e.blobs, PGPArmorValidator{})
	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		if _, err := svc.Submit(context.Background(), e.user, id, dto.ReplyRequest{Reply: armored(t, "x")}); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("%s: expected not found, got %v", id, err)
		}
	}
}

func TestSubmitReplyReusedUUID(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	src := e.source(t, "quiet lynx")
	svc := NewReplyService(e.store, e.blobs, PGPArmorValidator{})

	id := uuid.New()
	if _, err := svc.Submit(ctx, e.user, src.UUID.String(), dto.ReplyRequest{Reply: armored(t, "a"), UUID: &id}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(ctx, e.user, src.UUID.String(), dto.ReplyRequest{Reply: armored(t, "b"), UUID: &id})
	if !errors.Is(err, domain.ErrUUIDInUse) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected uuid conflict, got %v", err)
	}

	fresh, err := e.store.Sources().GetByID(ctx, src.ID)
	if err != nil {
		t.Fatalf("reload source: %v", err)
	}
	if fresh.InteractionCount != 1 {
		t.Fatalf("failed submit must not bump the count, got %d", fresh.InteractionCount)
	}
	if _, err := e.blobs.Size(ctx, src.FilesystemID, "2-quiet_lynx-reply.gpg"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("no blob expected for the rejected reply, got %v", err)
	}
}

func TestSubmitReplyConcurrentSameUUID(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	src := e.source(t, "swift crane")
	svc := NewReplyService(e.store, e.blobs, PGPArmorValidator{})

	id := uuid.New()
	body := armored(t, "race")
	const n = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, e.user, src.UUID.String(), dto.ReplyRequest{Reply: body, UUID: &id})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrUUIDInUse):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || conflicts != n-1 {
		t.Fatalf("expected exactly one winner, got ok=%d conflicts=%d", ok, conflicts)
	}
	replies, err := e.store.Replies().ListBySource(ctx, src.ID)
	if err != nil {
		t.Fatalf("list replies: %v", err)
	}
	if len(replies) != 1 {
		t.Fatalf("expected one reply row, got %d", len(replies))
	}
}

func TestSubmitReplyBlobFailureRollsBack(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	src := e.source(t, "bold finch")
	svc := NewReplyService(e.store, failingPut{e.blobs}, PGPArmorValidator{})

	if _, err := svc.Submit(ctx, e.user, src.UUID.String(), dto.ReplyRequest{Reply: armored(t, "x")}); err == nil {
		t.Fatalf("expected blob failure")
	}
	replies, err := e.store.Replies().ListBySource(ctx, src.ID)
	if err != nil {
		t.Fatalf("list replies: %v", err)
	}
	fresh, err := e.store.Sources().GetByID(ctx, src.ID)
	if err != nil {
		t.Fatalf("reload source: %v", err)
	}
	if len(replies) != 0 || fresh.InteractionCount != 0 {
		t.Fatalf("expected rollback, got %d replies count %d", len(replies), fresh.InteractionCount)
	}
}

func TestArmorValidator(t *testing.T) {
	v := PGPArmorValidator{}
	cases := []struct {
		name string
		body string
		want bool
	}{
		{name: "armored", body: armored(t, "payload"), want: true},
		{name: "plaintext", body: "hello", want: false},
		{name: "empty", body: "", want: false},
		{name: "header only", body: "-----BEGIN PGP MESSAGE-----\n\n-----END PGP MESSAGE-----", want: false},
		{name: "framing only", body: "-----BEGIN PGP MESSAGE-----\nwat\n-----END PGP MESSAGE-----", want: true},
		{name: "surrounding whitespace", body: "\n  -----BEGIN PGP MESSAGE-----\nwat\n-----END PGP MESSAGE-----\n", want: true},
		{name: "no end marker", body: "-----BEGIN PGP MESSAGE-----\nwat\n", want: false},
		{name: "end before begin", body: "-----END PGP MESSAGE-----\n-----BEGIN PGP MESSAGE-----\nwat", want: false},
		{name: "text before begin", body: "hi -----BEGIN PGP MESSAGE-----\nwat\n-----END PGP MESSAGE-----", want: false},
		{name: "public key block", body: "-----BEGIN PGP PUBLIC KEY BLOCK-----\n\nAAAA\n-----END PGP PUBLIC KEY BLOCK-----", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.IsEncryptedMessage(tc.body); got != tc.want {
				t.Fatalf("IsEncryptedMessage = %v, want %v", got, tc.want)
			}
		})
	}
}
