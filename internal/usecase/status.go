package usecase

import (
	"context"
	"errors"

	"paprd/internal/domain"
)

// ArticleStatusReport is what the corresponding author sees about their
// article: where it stands, which revision is current, and the reviews
// filed against that revision.
type ArticleStatusReport struct {
	BaseClaimName string
	Status        domain.ArticleStatus
	Revision      int
	Reviewed      bool
	Current       *domain.Manuscript
	Reviews       []domain.Review
}

// ArticleStatus reports review progress to the corresponding author.
// Escrowed passphrases never appear in the report.
type ArticleStatus struct {
	Articles    ArticleRepository
	Researchers ResearcherRepository
	Reviews     ReviewRepository
}

func (uc *ArticleStatus) Execute(ctx context.Context, baseClaimName, authChannel string) (*ArticleStatusReport, error) {
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

	report := &ArticleStatusReport{
		BaseClaimName: article.BaseClaimName,
		Status:        article.Status,
		Revision:      article.Revision,
		Reviewed:      article.Reviewed,
	}

	current, err := uc.Articles.CurrentManuscript(ctx, article.ID)
	switch {
	case err == nil:
		report.Current = current
	case errors.Is(err, domain.ErrNotFound):
		// Article row exists but no revision was ever attached.
		return report, nil
	default:
		return nil, err
	}

	reviews, err := uc.Reviews.ListByManuscript(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	report.Reviews = reviews
	return report, nil
}
