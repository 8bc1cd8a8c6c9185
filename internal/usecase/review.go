package usecase

import (
	"context"
	"errors"
	"fmt"

	"paprd/internal/domain"
)

type ReviewSubmission struct {
	Article   string
	Text      string
	Rating    int
	Signature string
}

// SubmitReview files a review against the article's current manuscript. The
// reviewer identity comes exclusively from the access token; filing consumes
// the accepted request so a reviewer can only file once per invitation.
type SubmitReview struct {
	Articles    ArticleRepository
	Researchers ResearcherRepository
	Requests    ReviewRequestRepository
	Reviews     ReviewRepository
}

func (uc *SubmitReview) Execute(ctx context.Context, sub ReviewSubmission, authChannel string) (*domain.Review, error) {
	if sub.Article == "" || sub.Text == "" {
		return nil, fmt.Errorf("%w: article and review text are required", domain.ErrBadRequest)
	}
	if len(sub.Text) > domain.MaxReviewTextBytes {
		return nil, fmt.Errorf("%w: review text exceeds %d bytes", domain.ErrBadRequest, domain.MaxReviewTextBytes)
	}
	if sub.Rating < 1 || sub.Rating > 10 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 10", domain.ErrBadRequest)
	}

	article, err := uc.Articles.GetByBaseClaimName(ctx, sub.Article)
	if err != nil {
		return nil, err
	}
	caller, err := uc.Researchers.GetByChannelName(ctx, authChannel)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	requests, err := uc.Requests.ListByArticleAndReviewer(ctx, article.ID, caller.ID)
	if err != nil {
		return nil, err
	}
	var accepted *domain.ReviewRequest
	for i := range requests {
		if requests[i].Status == domain.RequestStatusAccepted {
			accepted = &requests[i]
			break
		}
	}
	if accepted == nil {
		return nil, fmt.Errorf("%w: no review was requested from you for this article", domain.ErrNotFound)
	}

	manuscript, err := uc.Articles.CurrentManuscript(ctx, article.ID)
	if err != nil {
		return nil, err
	}

	review, err := uc.Reviews.CreateForRequest(ctx, domain.Review{
		ReviewRequestID: accepted.ID,
		ManuscriptID:    manuscript.ID,
		ReviewerID:      caller.ID,
		Text:            sub.Text,
		Rating:          sub.Rating,
		Signature:       sub.Signature,
	})
	if errors.Is(err, domain.ErrConflict) {
		// The request was consumed by a concurrent filing.
		return nil, fmt.Errorf("%w: no review was requested from you for this article", domain.ErrNotFound)
	}
	return review, err
}
