package db

import (
	"context"
	"time"

	"paprd/internal/domain"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateForRequest files a review and consumes its accepted request in one
// transaction: the request row is CAS-moved accepted -> reviewed, then the
// review is inserted. If the request was already consumed the whole write
// rolls back with ErrConflict.
func (r *ReviewRepository) CreateForRequest(ctx context.Context, review domain.Review) (*domain.Review, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	now := time.Now().UTC()
	model := ReviewModel{
		ID:              newID(),
		ReviewRequestID: review.ReviewRequestID,
		ManuscriptID:    review.ManuscriptID,
		ReviewerID:      strPtr(review.ReviewerID),
		Text:            review.Text,
		Rating:          review.Rating,
		Signature:       review.Signature,
		SubmittedAt:     now,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&ReviewRequestModel{}).
			Where("id = ? AND status = ?", review.ReviewRequestID, string(domain.RequestStatusAccepted)).
			Updates(map[string]any{"status": string(domain.RequestStatusReviewed), "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrConflict
		}
		return tx.Create(&model).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return reviewFromModel(model), nil
}

func (r *ReviewRepository) ListByManuscript(ctx context.Context, manuscriptID string) ([]domain.Review, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []ReviewModel
	err := r.db.WithContext(ctx).
		Where("manuscript_id = ?", manuscriptID).
		Order("submitted_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Review, 0, len(models))
	for _, model := range models {
		out = append(out, *reviewFromModel(model))
	}
	return out, nil
}

func reviewFromModel(model ReviewModel) *domain.Review {
	return &domain.Review{
		ID:              model.ID,
		ReviewRequestID: model.ReviewRequestID,
		ManuscriptID:    model.ManuscriptID,
		ReviewerID:      strVal(model.ReviewerID),
		Text:            model.Text,
		Rating:          model.Rating,
		Signature:       model.Signature,
		SubmittedAt:     model.SubmittedAt,
	}
}
