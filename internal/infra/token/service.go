package token

import (
	"fmt"
	"time"

	"paprd/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const (
	useAccess  = "access"
	useRefresh = "refresh"
)

type claims struct {
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// Service mints and verifies the bearer tokens and seals them to a
// researcher's channel key. Tokens are HS256 JWTs whose subject is the
// channel name.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *Service) MintAccess(channelName string) (string, error) {
	return s.mint(channelName, useAccess, s.accessTTL)
}

func (s *Service) MintRefresh(channelName string) (string, error) {
	return s.mint(channelName, useRefresh, s.refreshTTL)
}

func (s *Service) mint(channelName, use string, ttl time.Duration) (string, error) {
	now := s.now()
	c := claims{
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   channelName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

// VerifyAccess resolves a bearer access token back to a channel name.
func (s *Service) VerifyAccess(tokenString string) (string, error) {
	return s.verify(tokenString, useAccess)
}

func (s *Service) VerifyRefresh(tokenString string) (string, error) {
	return s.verify(tokenString, useRefresh)
}

func (s *Service) verify(tokenString, wantUse string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return "", domain.ErrUnauthorized
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.TokenUse != wantUse || c.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return c.Subject, nil
}

// SealPair mints an access/refresh pair and encrypts both to the given
// channel public key under one fresh ephemeral key.
func (s *Service) SealPair(channelName, channelPubKey string) (domain.TokenBundle, error) {
	access, err := s.MintAccess(channelName)
	if err != nil {
		return domain.TokenBundle{}, err
	}
	refresh, err := s.MintRefresh(channelName)
	if err != nil {
		return domain.TokenBundle{}, err
	}
	eph, err := NewEphemeral()
	if err != nil {
		return domain.TokenBundle{}, err
	}
	sealedAccess, err := eph.Seal(channelPubKey, []byte(access))
	if err != nil {
		return domain.TokenBundle{}, err
	}
	sealedRefresh, err := eph.Seal(channelPubKey, []byte(refresh))
	if err != nil {
		return domain.TokenBundle{}, err
	}
	return domain.TokenBundle{
		Access:          sealedAccess,
		Refresh:         sealedRefresh,
		EphemeralPubKey: eph.PublicKeyHex(),
	}, nil
}
