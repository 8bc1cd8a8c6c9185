package db

import (
	"context"
	"time"

	"paprd/internal/domain"

	"gorm.io/gorm"
)

type RecommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) Create(ctx context.Context, rec domain.ReviewerRecommendation) (*domain.ReviewerRecommendation, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	model := RecommendationModel{
		ID:          newID(),
		ArticleID:   rec.ArticleID,
		VoucherID:   strPtr(rec.VoucherID),
		ReviewerID:  strPtr(rec.ReviewerID),
		SubmittedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, translate(err)
	}
	return recommendationFromModel(model), nil
}

func (r *RecommendationRepository) Exists(ctx context.Context, articleID, voucherID, reviewerID string) (bool, error) {
	if r.db == nil {
		return false, errDBUnavailable
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&RecommendationModel{}).
		Where("article_id = ? AND voucher_id = ? AND reviewer_id = ?", articleID, voucherID, reviewerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForReviewer reports how many distinct vouchers have endorsed this
// reviewer for the article. The solicitation policy requires at least one.
func (r *RecommendationRepository) CountForReviewer(ctx context.Context, articleID, reviewerID string) (int64, error) {
	if r.db == nil {
		return 0, errDBUnavailable
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&RecommendationModel{}).
		Where("article_id = ? AND reviewer_id = ?", articleID, reviewerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func recommendationFromModel(model RecommendationModel) *domain.ReviewerRecommendation {
	return &domain.ReviewerRecommendation{
		ID:          model.ID,
		ArticleID:   model.ArticleID,
		VoucherID:   strVal(model.VoucherID),
		ReviewerID:  strVal(model.ReviewerID),
		SubmittedAt: model.SubmittedAt,
	}
}
