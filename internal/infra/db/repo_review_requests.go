package db

import (
	"context"
	"time"

	"paprd/internal/domain"

	"gorm.io/gorm"
)

type ReviewRequestRepository struct {
	db *gorm.DB
}

func NewReviewRequestRepository(db *gorm.DB) *ReviewRequestRepository {
	return &ReviewRequestRepository{db: db}
}

// CreatePending opens a review request. The partial unique index rejects a
// second live request for the same (article, reviewer) pair; the loser of a
// concurrent race observes ErrConflict.
func (r *ReviewRequestRepository) CreatePending(ctx context.Context, articleID, reviewerID string) (*domain.ReviewRequest, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	now := time.Now().UTC()
	model := ReviewRequestModel{
		ID:         newID(),
		ArticleID:  articleID,
		ReviewerID: strPtr(reviewerID),
		Status:     string(domain.RequestStatusPending),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, translate(err)
	}
	return requestFromModel(model), nil
}

func (r *ReviewRequestRepository) ListByArticleAndReviewer(ctx context.Context, articleID, reviewerID string) ([]domain.ReviewRequest, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []ReviewRequestModel
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND reviewer_id = ?", articleID, reviewerID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.ReviewRequest, 0, len(models))
	for _, model := range models {
		out = append(out, *requestFromModel(model))
	}
	return out, nil
}

// TransitionStatus is a compare-and-swap on the request status. It succeeds
// only if the row still holds the expected prior status, so two concurrent
// responses to the same request cannot both win.
func (r *ReviewRequestRepository) TransitionStatus(ctx context.Context, requestID string, from, to domain.RequestStatus) error {
	if r.db == nil {
		return errDBUnavailable
	}
	res := r.db.WithContext(ctx).Model(&ReviewRequestModel{}).
		Where("id = ? AND status = ?", requestID, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	return nil
}

func requestFromModel(model ReviewRequestModel) *domain.ReviewRequest {
	return &domain.ReviewRequest{
		ID:         model.ID,
		ArticleID:  model.ArticleID,
		ReviewerID: strVal(model.ReviewerID),
		Status:     domain.RequestStatus(model.Status),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
