package db

import (
	"context"
	"time"

	"paprd/internal/domain"

	"gorm.io/gorm"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) GetByBaseClaimName(ctx context.Context, baseClaimName string) (*domain.Article, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ArticleModel
	err := r.db.WithContext(ctx).First(&model, "base_claim_name = ?", baseClaimName).Error
	if err != nil {
		return nil, translate(err)
	}
	return articleFromModel(model), nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ArticleModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return articleFromModel(model), nil
}

// SubmitRevision persists one manuscript revision in a single transaction:
// the article row is created (first revision) or its revision counter bumped,
// then the manuscript row is inserted. Nothing commits unless both writes
// succeed, so a duplicate claim name rolls the whole submission back.
func (r *ArticleRepository) SubmitRevision(ctx context.Context, article domain.Article, m domain.Manuscript) (*domain.Article, *domain.Manuscript, error) {
	if r.db == nil {
		return nil, nil, errDBUnavailable
	}
	now := time.Now().UTC()

	var outA ArticleModel
	var outM ManuscriptModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if article.ID == "" {
			outA = ArticleModel{
				ID:                    newID(),
				BaseClaimName:         article.BaseClaimName,
				CorrespondingAuthorID: strPtr(article.CorrespondingAuthorID),
				EncryptionPassphrase:  article.EncryptionPassphrase,
				ReviewPassphrase:      article.ReviewPassphrase,
				Revision:              article.Revision,
				Status:                string(domain.ArticleStatusPending),
				CreatedAt:             now,
				UpdatedAt:             now,
			}
			if err := tx.Create(&outA).Error; err != nil {
				return err
			}
		} else {
			updates := map[string]any{
				"revision":   article.Revision,
				"status":     string(domain.ArticleStatusPending),
				"updated_at": now,
			}
			// A resubmission may rotate the escrowed passphrases; empty
			// values keep the ones already held.
			if article.EncryptionPassphrase != "" {
				updates["encryption_passphrase"] = article.EncryptionPassphrase
			}
			if article.ReviewPassphrase != "" {
				updates["review_passphrase"] = article.ReviewPassphrase
			}
			res := tx.Model(&ArticleModel{}).
				Where("id = ? AND (revision < ? OR status = ?)", article.ID, article.Revision, string(domain.ArticleStatusIncomplete)).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Revision counters only move forward.
				return domain.ErrConflict
			}
			if err := tx.First(&outA, "id = ?", article.ID).Error; err != nil {
				return err
			}
		}

		outM = ManuscriptModel{
			ID:          newID(),
			ArticleID:   outA.ID,
			ClaimName:   m.ClaimName,
			Title:       m.Title,
			Authors:     m.Authors,
			Abstract:    m.Abstract,
			Tags:        m.Tags,
			PublicKey:   m.PublicKey,
			Encrypted:   m.Encrypted,
			SubmittedAt: now,
		}
		return tx.Create(&outM).Error
	})
	if err != nil {
		return nil, nil, translate(err)
	}
	return articleFromModel(outA), manuscriptFromModel(outM), nil
}

// CurrentManuscript returns the revision with the latest submission time.
func (r *ArticleRepository) CurrentManuscript(ctx context.Context, articleID string) (*domain.Manuscript, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ManuscriptModel
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("submitted_at DESC").
		First(&model).Error
	if err != nil {
		return nil, translate(err)
	}
	return manuscriptFromModel(model), nil
}

func (r *ArticleRepository) GetManuscriptByClaimName(ctx context.Context, claimName string) (*domain.Manuscript, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ManuscriptModel
	err := r.db.WithContext(ctx).First(&model, "claim_name = ?", claimName).Error
	if err != nil {
		return nil, translate(err)
	}
	return manuscriptFromModel(model), nil
}

func articleFromModel(model ArticleModel) *domain.Article {
	return &domain.Article{
		ID:                    model.ID,
		BaseClaimName:         model.BaseClaimName,
		CorrespondingAuthorID: strVal(model.CorrespondingAuthorID),
		EncryptionPassphrase:  model.EncryptionPassphrase,
		ReviewPassphrase:      model.ReviewPassphrase,
		Reviewed:              model.Reviewed,
		Revision:              model.Revision,
		Status:                domain.ArticleStatus(model.Status),
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	}
}

func manuscriptFromModel(model ManuscriptModel) *domain.Manuscript {
	return &domain.Manuscript{
		ID:          model.ID,
		ArticleID:   model.ArticleID,
		ClaimName:   model.ClaimName,
		Title:       model.Title,
		Authors:     model.Authors,
		Abstract:    model.Abstract,
		Tags:        model.Tags,
		PublicKey:   model.PublicKey,
		Encrypted:   model.Encrypted,
		SubmittedAt: model.SubmittedAt,
	}
}
