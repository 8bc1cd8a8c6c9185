package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"paprd/internal/domain"
)

// In-memory fakes shared by the flow tests. They enforce the same uniqueness
// rules the real repositories get from database indexes.

type fakeResearcherRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Researcher // keyed by channel name
	seq  int
}

func newFakeResearcherRepo() *fakeResearcherRepo {
	return &fakeResearcherRepo{rows: make(map[string]domain.Researcher)}
}

func (f *fakeResearcherRepo) Create(ctx context.Context, r domain.Researcher) (*domain.Researcher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[r.ChannelName]; ok {
		return nil, domain.ErrConflict
	}
	f.seq++
	r.ID = fmt.Sprintf("researcher-%d", f.seq)
	r.JoinedAt = time.Now().UTC()
	f.rows[r.ChannelName] = r
	return &r, nil
}

func (f *fakeResearcherRepo) GetByChannelName(ctx context.Context, channelName string) (*domain.Researcher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[channelName]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (f *fakeResearcherRepo) GetByID(ctx context.Context, id string) (*domain.Researcher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeResearcherRepo) UpdateContact(ctx context.Context, channelName, fullName, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[channelName]
	if !ok {
		return domain.ErrNotFound
	}
	if fullName != "" {
		r.FullName = fullName
	}
	if email != "" {
		r.Email = email
	}
	f.rows[channelName] = r
	return nil
}

type fakeArticleRepo struct {
	mu          sync.Mutex
	articles    map[string]domain.Article   // keyed by base claim name
	manuscripts []domain.Manuscript
	seq         int
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[string]domain.Article)}
}

func (f *fakeArticleRepo) GetByBaseClaimName(ctx context.Context, baseClaimName string) (*domain.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.articles[baseClaimName]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (f *fakeArticleRepo) SubmitRevision(ctx context.Context, article domain.Article, m domain.Manuscript) (*domain.Article, *domain.Manuscript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.manuscripts {
		if existing.ClaimName == m.ClaimName {
			return nil, nil, domain.ErrConflict
		}
	}
	now := time.Now().UTC()
	if article.ID == "" {
		f.seq++
		article.ID = fmt.Sprintf("article-%d", f.seq)
		article.Status = domain.ArticleStatusPending
		article.CreatedAt = now
	} else {
		stored, ok := f.articles[article.BaseClaimName]
		if !ok {
			return nil, nil, domain.ErrNotFound
		}
		if article.Revision <= stored.Revision && stored.Status != domain.ArticleStatusIncomplete {
			return nil, nil, domain.ErrConflict
		}
		stored.Revision = article.Revision
		stored.Status = domain.ArticleStatusPending
		if article.EncryptionPassphrase != "" {
			stored.EncryptionPassphrase = article.EncryptionPassphrase
		}
		if article.ReviewPassphrase != "" {
			stored.ReviewPassphrase = article.ReviewPassphrase
		}
		article = stored
	}
	article.UpdatedAt = now
	f.articles[article.BaseClaimName] = article

	f.seq++
	m.ID = fmt.Sprintf("manuscript-%d", f.seq)
	m.ArticleID = article.ID
	m.SubmittedAt = now
	f.manuscripts = append(f.manuscripts, m)
	return &article, &m, nil
}

func (f *fakeArticleRepo) CurrentManuscript(ctx context.Context, articleID string) (*domain.Manuscript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *domain.Manuscript
	for i := range f.manuscripts {
		m := f.manuscripts[i]
		if m.ArticleID != articleID {
			continue
		}
		if latest == nil || m.SubmittedAt.After(latest.SubmittedAt) || (m.SubmittedAt.Equal(latest.SubmittedAt) && m.ID > latest.ID) {
			latest = &f.manuscripts[i]
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	out := *latest
	return &out, nil
}

func (f *fakeArticleRepo) GetManuscriptByClaimName(ctx context.Context, claimName string) (*domain.Manuscript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.manuscripts {
		if m.ClaimName == claimName {
			out := m
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeRequestRepo struct {
	mu   sync.Mutex
	rows []domain.ReviewRequest
	seq  int
}

func (f *fakeRequestRepo) CreatePending(ctx context.Context, articleID, reviewerID string) (*domain.ReviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rr := range f.rows {
		if rr.ArticleID == articleID && rr.ReviewerID == reviewerID && rr.Status.Live() {
			return nil, domain.ErrConflict
		}
	}
	f.seq++
	rr := domain.ReviewRequest{
		ID:         fmt.Sprintf("request-%d", f.seq),
		ArticleID:  articleID,
		ReviewerID: reviewerID,
		Status:     domain.RequestStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
	f.rows = append(f.rows, rr)
	return &rr, nil
}

func (f *fakeRequestRepo) ListByArticleAndReviewer(ctx context.Context, articleID, reviewerID string) ([]domain.ReviewRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ReviewRequest, 0)
	for _, rr := range f.rows {
		if rr.ArticleID == articleID && rr.ReviewerID == reviewerID {
			out = append(out, rr)
		}
	}
	return out, nil
}

func (f *fakeRequestRepo) TransitionStatus(ctx context.Context, requestID string, from, to domain.RequestStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == requestID && f.rows[i].Status == from {
			f.rows[i].Status = to
			f.rows[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrConflict
}

func (f *fakeRequestRepo) get(id string) (domain.ReviewRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rr := range f.rows {
		if rr.ID == id {
			return rr, true
		}
	}
	return domain.ReviewRequest{}, false
}

type fakeReviewRepo struct {
	mu       sync.Mutex
	requests *fakeRequestRepo
	rows     []domain.Review
	seq      int
}

func (f *fakeReviewRepo) CreateForRequest(ctx context.Context, review domain.Review) (*domain.Review, error) {
	if f.requests != nil {
		if err := f.requests.TransitionStatus(ctx, review.ReviewRequestID, domain.RequestStatusAccepted, domain.RequestStatusReviewed); err != nil {
			return nil, err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	review.ID = fmt.Sprintf("review-%d", f.seq)
	review.SubmittedAt = time.Now().UTC()
	f.rows = append(f.rows, review)
	return &review, nil
}

func (f *fakeReviewRepo) ListByManuscript(ctx context.Context, manuscriptID string) ([]domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Review, 0)
	for _, rv := range f.rows {
		if rv.ManuscriptID == manuscriptID {
			out = append(out, rv)
		}
	}
	return out, nil
}

type fakeRecommendationRepo struct {
	mu   sync.Mutex
	rows []domain.ReviewerRecommendation
	seq  int
}

func (f *fakeRecommendationRepo) Create(ctx context.Context, rec domain.ReviewerRecommendation) (*domain.ReviewerRecommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.ArticleID == rec.ArticleID && existing.VoucherID == rec.VoucherID && existing.ReviewerID == rec.ReviewerID {
			return nil, domain.ErrConflict
		}
	}
	f.seq++
	rec.ID = fmt.Sprintf("recommendation-%d", f.seq)
	rec.SubmittedAt = time.Now().UTC()
	f.rows = append(f.rows, rec)
	return &rec, nil
}

func (f *fakeRecommendationRepo) Exists(ctx context.Context, articleID, voucherID, reviewerID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.rows {
		if rec.ArticleID == articleID && rec.VoucherID == voucherID && rec.ReviewerID == reviewerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecommendationRepo) CountForReviewer(ctx context.Context, articleID, reviewerID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, rec := range f.rows {
		if rec.ArticleID == articleID && rec.ReviewerID == reviewerID {
			count++
		}
	}
	return count, nil
}

type fakeLedger struct {
	records map[string]domain.PublicationRecord // keyed by claim name
	keys    map[string]string                   // channel name -> public key
	err     error
}

func (f *fakeLedger) Resolve(ctx context.Context, name string) (*domain.PublicationRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rec, ok := f.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: could not find claim %s", domain.ErrNotFound, name)
	}
	return &rec, nil
}

func (f *fakeLedger) ChannelPublicKey(ctx context.Context, channelName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key, ok := f.keys[channelName]
	if !ok {
		return "", fmt.Errorf("%w: could not find channel %s", domain.ErrNotFound, channelName)
	}
	return key, nil
}

type fakeSealer struct {
	err error
}

func (f *fakeSealer) SealPair(channelName, channelPubKey string) (domain.TokenBundle, error) {
	if f.err != nil {
		return domain.TokenBundle{}, f.err
	}
	return domain.TokenBundle{
		Access:          "sealed-access-for-" + channelName,
		Refresh:         "sealed-refresh-for-" + channelName,
		EphemeralPubKey: "02" + strings.Repeat("ab", 32),
	}, nil
}

// fakePolicy mirrors the embedded rego rules so flow tests do not need the
// OPA runtime.
type fakePolicy struct{}

func (fakePolicy) Evaluate(ctx context.Context, input domain.EligibilityInput) (domain.EligibilityResult, error) {
	var deny []domain.EligibilityDenial
	if input.Reviewer == input.CorrespondingAuthor {
		deny = append(deny, domain.EligibilityDenial{Code: "SELF_REVIEW", Message: "the corresponding author cannot review their own article"})
	}
	if !input.Recommended {
		deny = append(deny, domain.EligibilityDenial{Code: "NOT_RECOMMENDED", Message: "reviewer has not been recommended for this article"})
	}
	if input.HasLiveRequest {
		deny = append(deny, domain.EligibilityDenial{Code: "REQUEST_EXISTS", Message: "a request for this reviewer is already open"})
	}
	return domain.EligibilityResult{Allow: len(deny) == 0, Deny: deny}, nil
}
