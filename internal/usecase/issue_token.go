package usecase

import (
	"context"

	"paprd/internal/domain"
)

// IssueToken implements the possession-based authentication primitive:
// anyone may ask for a token for any channel, but only the holder of the
// channel's private key can decrypt the response.
type IssueToken struct {
	Researchers ResearcherRepository
	Tokens      TokenSealer
}

func (uc *IssueToken) Execute(ctx context.Context, channelName string) (*domain.TokenBundle, error) {
	researcher, err := uc.Researchers.GetByChannelName(ctx, channelName)
	if err != nil {
		return nil, err
	}
	if researcher.PublicKey == "" {
		// Registration never completed; there is nothing to encrypt to.
		return nil, domain.ErrNoPublicKey
	}
	bundle, err := uc.Tokens.SealPair(researcher.ChannelName, researcher.PublicKey)
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}
