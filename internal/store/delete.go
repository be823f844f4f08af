package store

import (
	"context"

	"journalist-api/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deletion reports what a delete removed. Filenames are the blobs that
// belonged to the removed rows; they are only safe to remove after commit.
type Deletion struct {
	Counts    map[string]int64
	Filenames []string
}

// DeleteConversation removes every submission and reply of the source along
// with their seen marks. With removeSource the star and the source row go too.
func (s *Store) DeleteConversation(ctx context.Context, sourceID domain.SourceID, removeSource bool) (*Deletion, error) {
	out := &Deletion{Counts: map[string]int64{}}

	err := s.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		var subs []domain.Submission
		if err := db.Select("id", "filename").Where("source_id = ?", sourceID).Find(&subs).Error; err != nil {
			return err
		}
		var replies []domain.Reply
		if err := db.Select("id", "filename").Where("source_id = ?", sourceID).Find(&replies).Error; err != nil {
			return err
		}

		subIDs := make([]int64, 0, len(subs))
		for _, sub := range subs {
			subIDs = append(subIDs, sub.ID)
			out.Filenames = append(out.Filenames, sub.Filename)
		}
		replyIDs := make([]int64, 0, len(replies))
		for _, r := range replies {
			replyIDs = append(replyIDs, r.ID)
			out.Filenames = append(out.Filenames, r.Filename)
		}

		n, err := tx.Seen().DeleteFor(ctx, domain.ArtifactSubmission, subIDs)
		if err != nil {
			return err
		}
		m, err := tx.Seen().DeleteFor(ctx, domain.ArtifactReply, replyIDs)
		if err != nil {
			return err
		}
		out.Counts["seenMarks"] = n + m

		res := db.Where("source_id = ?", sourceID).Delete(&domain.Submission{})
		if res.Error != nil {
			return res.Error
		}
		out.Counts["submissions"] = res.RowsAffected

		res = db.Where("source_id = ?", sourceID).Delete(&domain.Reply{})
		if res.Error != nil {
			return res.Error
		}
		out.Counts["replies"] = res.RowsAffected

		if !removeSource {
			return nil
		}
		if err := db.Where("source_id = ?", sourceID).Delete(&domain.SourceStar{}).Error; err != nil {
			return err
		}
		res = db.Where("id = ?", sourceID).Delete(&domain.Source{})
		if res.Error != nil {
			return res.Error
		}
		out.Counts["sources"] = res.RowsAffected
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) DeleteSubmission(ctx context.Context, sub *domain.Submission) error {
	return translate(s.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.Seen().DeleteFor(ctx, domain.ArtifactSubmission, []int64{sub.ID}); err != nil {
			return err
		}
		return tx.Submissions().Delete(ctx, sub.ID)
	}))
}

func (s *Store) DeleteReply(ctx context.Context, r *domain.Reply) error {
	return translate(s.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.Seen().DeleteFor(ctx, domain.ArtifactReply, []int64{r.ID}); err != nil {
			return err
		}
		return tx.Replies().Delete(ctx, r.ID)
	}))
}

// DeleteUserData removes the user's record and credentials. Seen marks move to
// the sentinel account; authored replies keep their journalist_id and resolve
// to the sentinel on read.
func (s *Store) DeleteUserData(ctx context.Context, user *domain.User, sentinel uuid.UUID) (map[string]int64, error) {
	deleted := map[string]int64{}

	err := s.WithTx(ctx, func(tx *Store) error {
		db := tx.DB.WithContext(ctx)

		count := func(label string, query *gorm.DB) error {
			var total int64
			if err := query.Count(&total).Error; err != nil {
				return err
			}
			deleted[label] = total
			return nil
		}

		if err := count("passwordCredentials", db.Model(&domain.PasswordCredential{}).Where("user_id = ?", user.ID)); err != nil {
			return err
		}
		if err := count("totpMfa", db.Model(&domain.TotpMFA{}).Where("user_id = ?", user.ID)); err != nil {
			return err
		}
		if err := count("revokedTokens", db.Model(&domain.RevokedToken{}).Where("user_id = ?", user.ID)); err != nil {
			return err
		}
		if err := count("replies", db.Model(&domain.Reply{}).Where("journalist_id = ?", user.ID)); err != nil {
			return err
		}

		moved, err := tx.Seen().Reassign(ctx, user.UUID, sentinel)
		if err != nil {
			return err
		}
		deleted["seenMarksReassigned"] = moved

		if err := db.Where("user_id = ?", user.ID).Delete(&domain.PasswordCredential{}).Error; err != nil {
			return err
		}
		if err := db.Where("user_id = ?", user.ID).Delete(&domain.TotpMFA{}).Error; err != nil {
			return err
		}
		if err := db.Where("user_id = ?", user.ID).Delete(&domain.RevokedToken{}).Error; err != nil {
			return err
		}
		res := db.Where("id = ?", user.ID).Delete(&domain.User{})
		if res.Error != nil {
			return res.Error
		}
		deleted["users"] = res.RowsAffected
		return nil
	})

	return deleted, translate(err)
}
