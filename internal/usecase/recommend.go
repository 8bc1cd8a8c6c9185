package usecase

import (
	"context"
	"errors"
	"fmt"

	"paprd/internal/domain"
)

// RecommendReviewer records the caller's endorsement of a candidate reviewer
// for an article. The voucher is always the authenticated channel; the client
// never chooses who vouches.
type RecommendReviewer struct {
	Articles        ArticleRepository
	Researchers     ResearcherRepository
	Recommendations RecommendationRepository
}

func (uc *RecommendReviewer) Execute(ctx context.Context, baseClaimName, reviewerChannel, authChannel string) (*domain.ReviewerRecommendation, error) {
	if baseClaimName == "" || reviewerChannel == "" {
		return nil, fmt.Errorf("%w: article and reviewer are required", domain.ErrBadRequest)
	}
	if reviewerChannel == authChannel {
		return nil, domain.ErrSelfRecommendation
	}

	article, err := uc.Articles.GetByBaseClaimName(ctx, baseClaimName)
	if err != nil {
		return nil, err
	}
	voucher, err := uc.Researchers.GetByChannelName(ctx, authChannel)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	reviewer, err := uc.Researchers.GetByChannelName(ctx, reviewerChannel)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: reviewer %q is not registered", domain.ErrBadRequest, reviewerChannel)
		}
		return nil, err
	}

	exists, err := uc.Recommendations.Exists(ctx, article.ID, voucher.ID, reviewer.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateVouch
	}

	rec, err := uc.Recommendations.Create(ctx, domain.ReviewerRecommendation{
		ArticleID:  article.ID,
		ReviewerID: reviewer.ID,
		VoucherID:  voucher.ID,
	})
	if errors.Is(err, domain.ErrConflict) {
		// Raced a duplicate insert; the unique triple index is the backstop.
		return nil, domain.ErrDuplicateVouch
	}
	return rec, err
}
