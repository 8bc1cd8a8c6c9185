package usecase

import (
	"context"
	"errors"
	"fmt"

	"paprd/internal/domain"
)

// SolicitReview lets the corresponding author invite a reviewer. Whether the
// reviewer is eligible is decided by the policy engine; this flow only
// gathers the facts and enforces the verdict.
type SolicitReview struct {
	Articles        ArticleRepository
	Researchers     ResearcherRepository
	Requests        ReviewRequestRepository
	Recommendations RecommendationRepository
	Policy          EligibilityPolicy
}

func (uc *SolicitReview) Execute(ctx context.Context, baseClaimName, reviewerChannel, authChannel string) (*domain.ReviewRequest, error) {
	if baseClaimName == "" || reviewerChannel == "" {
		return nil, fmt.Errorf("%w: article and reviewer are required", domain.ErrBadRequest)
	}

	article, err := uc.Articles.GetByBaseClaimName(ctx, baseClaimName)
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
	if article.CorrespondingAuthorID != caller.ID {
		return nil, domain.ErrNotCorrespondingAuthor
	}

	reviewer, err := uc.Researchers.GetByChannelName(ctx, reviewerChannel)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: reviewer %q is not registered", domain.ErrBadRequest, reviewerChannel)
		}
		return nil, err
	}

	vouches, err := uc.Recommendations.CountForReviewer(ctx, article.ID, reviewer.ID)
	if err != nil {
		return nil, err
	}
	existing, err := uc.Requests.ListByArticleAndReviewer(ctx, article.ID, reviewer.ID)
	if err != nil {
		return nil, err
	}
	hasLive := false
	for _, rr := range existing {
		if rr.Status.Live() {
			hasLive = true
			break
		}
	}

	verdict, err := uc.Policy.Evaluate(ctx, domain.EligibilityInput{
		ArticleID:           article.ID,
		Reviewer:            reviewer.ChannelName,
		CorrespondingAuthor: caller.ChannelName,
		Recommended:         vouches > 0,
		HasLiveRequest:      hasLive,
	})
	if err != nil {
		return nil, err
	}
	if !verdict.Allow {
		if len(verdict.Deny) > 0 {
			return nil, fmt.Errorf("%w: %s", domain.ErrIneligibleReviewer, verdict.Deny[0].Message)
		}
		return nil, domain.ErrIneligibleReviewer
	}

	req, err := uc.Requests.CreatePending(ctx, article.ID, reviewer.ID)
	if err != nil {
		// Concurrent solicitation of the same reviewer loses on the partial
		// unique index.
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: a request for this reviewer is already open", domain.ErrIneligibleReviewer)
		}
		return nil, err
	}
	return req, nil
}

// RespondToReviewRequest records the reviewer's accept or decline answer to
// their pending request.
type RespondToReviewRequest struct {
	Articles    ArticleRepository
	Researchers ResearcherRepository
	Requests    ReviewRequestRepository
}

func (uc *RespondToReviewRequest) Execute(ctx context.Context, baseClaimName, authChannel string, accept bool) error {
	if baseClaimName == "" {
		return fmt.Errorf("%w: an article must be named", domain.ErrBadRequest)
	}
	article, err := uc.Articles.GetByBaseClaimName(ctx, baseClaimName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown article %q", domain.ErrBadRequest, baseClaimName)
		}
		return err
	}
	caller, err := uc.Researchers.GetByChannelName(ctx, authChannel)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}

	requests, err := uc.Requests.ListByArticleAndReviewer(ctx, article.ID, caller.ID)
	if err != nil {
		return err
	}
	var pending []domain.ReviewRequest
	replied := false
	for _, rr := range requests {
		switch rr.Status {
		case domain.RequestStatusPending:
			pending = append(pending, rr)
		case domain.RequestStatusAccepted, domain.RequestStatusDeclined, domain.RequestStatusReviewed:
			// Any non-pending request means this reviewer already gave an
			// answer; declining does not reopen the question.
			replied = true
		}
	}
	if len(pending) == 0 {
		if replied {
			return domain.ErrAlreadyReplied
		}
		return domain.ErrNoReviewRequested
	}
	if len(pending) > 1 {
		return fmt.Errorf("%w: multiple pending review requests for one reviewer", domain.ErrInvariantViolation)
	}

	to := domain.RequestStatusDeclined
	if accept {
		to = domain.RequestStatusAccepted
	}
	err = uc.Requests.TransitionStatus(ctx, pending[0].ID, domain.RequestStatusPending, to)
	if errors.Is(err, domain.ErrConflict) {
		// Lost a race with another reply for the same request.
		return domain.ErrAlreadyReplied
	}
	return err
}
