package impl

import (
	"context"

	"journalist-api/internal/domain"
	"journalist-api/internal/dto"
	"journalist-api/internal/observability/middleware"
	"journalist-api/internal/store"
)

type ResourceServiceImpl struct {
	store *store.Store
}

func NewResourceService(st *store.Store) *ResourceServiceImpl {
	return &ResourceServiceImpl{store: st}
}

func (s *ResourceServiceImpl) ListSources(ctx context.Context, _ *domain.User) ([]dto.Source, error) {
	rows, err := s.store.Sources().List(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderSources(ctx, rows)
}

func (s *ResourceServiceImpl) GetSource(ctx context.Context, _ *domain.User, sourceUUID string) (*dto.Source, error) {
	src, err := findSource(ctx, s.store, sourceUUID)
	if err != nil {
		return nil, err
	}
	out, err := s.renderSources(ctx, []*domain.Source{src})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *ResourceServiceImpl) renderSources(ctx context.Context, rows []*domain.Source) ([]dto.Source, error) {
	ids := make([]domain.SourceID, 0, len(rows))
	for _, src := range rows {
		ids = append(ids, src.ID)
	}
	starred, err := s.store.Stars().Starred(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.Sources().CountArtifacts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Source, 0, len(rows))
	for _, src := range rows {
		c := counts[src.ID]
		out = append(out, dto.NewSource(src, starred[src.ID], c.Documents, c.Messages))
	}
	return out, nil
}

func (s *ResourceServiceImpl) StarSource(ctx context.Context, user *domain.User, sourceUUID string, starred bool) error {
	src, err := findSource(ctx, s.store, sourceUUID)
	if err != nil {
		return err
	}
	if err := s.store.Stars().Set(ctx, src.ID, starred); err != nil {
		return err
	}
	middleware.Logger(ctx).Info("source star updated", "source_id", src.ID, "starred", starred, "user_id", user.ID)
	return nil
}

func (s *ResourceServiceImpl) FlagSource(ctx context.Context, user *domain.User, sourceUUID string) error {
	src, err := findSource(ctx, s.store, sourceUUID)
	if err != nil {
		return err
	}
	if err := s.store.Sources().SetFlagged(ctx, src.ID, true); err != nil {
		return err
	}
	middleware.Logger(ctx).Info("source flagged", "source_id", src.ID, "user_id", user.ID)
	return nil
}

func (s *ResourceServiceImpl) ListSubmissions(ctx context.Context, _ *domain.User) ([]dto.Submission, error) {
	rows, err := s.store.Submissions().List(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderSubmissions(ctx, rows, nil)
}

func (s *ResourceServiceImpl) ListSourceSubmissions(ctx context.Context, _ *domain.User, sourceUUID string) ([]dto.Submission, error) {
	src, err := findSource(ctx, s.store, sourceUUID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Submissions().ListBySource(ctx, src.ID)
	if err != nil {
		return nil, err
	}
	return s.renderSubmissions(ctx, rows, src)
}

func (s *ResourceServiceImpl) GetSubmission(ctx context.Context, _ *domain.User, sourceUUID, submissionUUID string) (*dto.Submission, error) {
	src, sub, err := findSourceSubmission(ctx, s.store, sourceUUID, submissionUUID)
	if err != nil {
		return nil, err
	}
	out, err := s.renderSubmissions(ctx, []*domain.Submission{sub}, src)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// renderSubmissions batches the source and seen lookups. Rows whose source
// vanished still render.
func (s *ResourceServiceImpl) renderSubmissions(ctx context.Context, rows []*domain.Submission, known *domain.Source) ([]dto.Submission, error) {
	ids := make([]int64, 0, len(rows))
	for _, sub := range rows {
		ids = append(ids, sub.ID)
	}
	seen, err := s.store.Seen().SeenBy(ctx, domain.ArtifactSubmission, ids)
	if err != nil {
		return nil, err
	}
	sourceIDs := make([]domain.SourceID, 0, len(rows))
	for _, sub := range rows {
		sourceIDs = append(sourceIDs, sub.SourceID)
	}
	sources, err := s.sourcesFor(ctx, known, sourceIDs)
	if err != nil {
		return nil, err
	}
	out := make([]dto.Submission, 0, len(rows))
	for _, sub := range rows {
		out = append(out, dto.NewSubmission(sub, sources[sub.SourceID], seen[sub.ID]))
	}
	return out, nil
}

func (s *ResourceServiceImpl) ListReplies(ctx context.Context, _ *domain.User) ([]dto.Reply, error) {
	rows, err := s.store.Replies().List(ctx)
	if err != nil {
		return nil, err
	}
	return s.renderReplies(ctx, rows, nil)
}

func (s *ResourceServiceImpl) ListSourceReplies(ctx context.Context, _ *domain.User, sourceUUID string) ([]dto.Reply, error) {
	src, err := findSource(ctx, s.store, sourceUUID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Replies().ListBySource(ctx, src.ID)
	if err != nil {
		return nil, err
	}
	return s.renderReplies(ctx, rows, src)
}

func (s *ResourceServiceImpl) GetReply(ctx context.Context, _ *domain.User, sourceUUID, replyUUID string) (*dto.Reply, error) {
	src, r, err := findSourceReply(ctx, s.store, sourceUUID, replyUUID)
	if err != nil {
		return nil, err
	}
	out, err := s.renderReplies(ctx, []*domain.Reply{r}, src)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *ResourceServiceImpl) renderReplies(ctx context.Context, rows []*domain.Reply, known *domain.Source) ([]dto.Reply, error) {
	ids := make([]int64, 0, len(rows))
	authorIDs := make([]domain.UserID, 0, len(rows))
	sourceIDs := make([]domain.SourceID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
		authorIDs = append(authorIDs, r.JournalistID)
		sourceIDs = append(sourceIDs, r.SourceID)
	}
	seen, err := s.store.Seen().SeenBy(ctx, domain.ArtifactReply, ids)
	if err != nil {
		return nil, err
	}
	authors, err := s.store.Users().GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	sources, err := s.sourcesFor(ctx, known, sourceIDs)
	if err != nil {
		return nil, err
	}

	var sentinel *domain.User
	out := make([]dto.Reply, 0, len(rows))
	for _, r := range rows {
		author := authors[r.JournalistID]
		if author == nil {
			if sentinel == nil {
				if sentinel, err = s.store.Users().EnsureDeletedSentinel(ctx); err != nil {
					return nil, err
				}
			}
			author = sentinel
		}
		out = append(out, dto.NewReply(r, sources[r.SourceID], author, seen[r.ID]))
	}
	return out, nil
}

func (s *ResourceServiceImpl) sourcesFor(ctx context.Context, known *domain.Source, ids []domain.SourceID) (map[domain.SourceID]*domain.Source, error) {
	if known != nil {
		return map[domain.SourceID]*domain.Source{known.ID: known}, nil
	}
	return s.store.Sources().GetByIDs(ctx, ids)
}

func (s *ResourceServiceImpl) ListUsers(ctx context.Context, _ *domain.User) ([]dto.UserSummary, error) {
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserSummary(u))
	}
	return out, nil
}
