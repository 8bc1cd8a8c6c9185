package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusAccepted RequestStatus = "accepted"
	RequestStatusDeclined RequestStatus = "declined"
	RequestStatusReviewed RequestStatus = "reviewed"
)

// Live reports whether the request still occupies the one live slot a
// reviewer holds per article. declined and reviewed are terminal.
func (s RequestStatus) Live() bool {
	return s == RequestStatusPending || s == RequestStatusAccepted
}

// ReviewRequest tracks one reviewer's invitation for one article.
// At most one request per (article, reviewer) may be live at a time.
type ReviewRequest struct {
	ID         string
	ArticleID  string
	ReviewerID string
	Status     RequestStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MaxReviewTextBytes bounds review text size (4 MiB, matching the stored
// column limit).
const MaxReviewTextBytes = 4 << 20

// Review is one reviewer's submitted text and rating for a manuscript.
// Creating it consumes the accepted ReviewRequest. The signature is the
// reviewer's signature over the text; it is recorded verbatim and its
// cryptographic verification is still an open contractual requirement.
type Review struct {
	ID              string
	ReviewRequestID string
	ManuscriptID    string
	ReviewerID      string
	Text            string
	Rating          int
	Signature       string
	SubmittedAt     time.Time
}

// ReviewerRecommendation is a voucher's endorsement of a candidate reviewer
// for an article. The (article, voucher, reviewer) triple is unique and a
// voucher can never recommend themselves.
type ReviewerRecommendation struct {
	ID          string
	ArticleID   string
	ReviewerID  string
	VoucherID   string
	SubmittedAt time.Time
}
