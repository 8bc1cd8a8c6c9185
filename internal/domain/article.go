package domain

import "time"

type ArticleStatus string

const (
	// ArticleStatusIncomplete marks an article row that exists but has no
	// manuscript revision attached yet.
	ArticleStatusIncomplete        ArticleStatus = "incomplete"
	ArticleStatusPending           ArticleStatus = "pending"
	ArticleStatusUnderReview       ArticleStatus = "under_review"
	ArticleStatusRevisionRequested ArticleStatus = "revision_requested"
	ArticleStatusPublished         ArticleStatus = "published"
	ArticleStatusAbandoned         ArticleStatus = "abandoned"
)

// Article is the logical manuscript identity across revisions, keyed by its
// base claim name. The passphrases are opaque secrets held in escrow so the
// reviewing server can open the protected document; they are never handed to
// reviewers in the basic flow.
type Article struct {
	ID                    string
	BaseClaimName         string
	CorrespondingAuthorID string
	EncryptionPassphrase  string
	ReviewPassphrase      string
	Reviewed              bool
	Revision              int
	Status                ArticleStatus
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Manuscript is one immutable revision of an article's content. New revisions
// create new rows; existing rows are never updated.
type Manuscript struct {
	ID          string
	ArticleID   string
	ClaimName   string
	Title       string
	Authors     string
	Abstract    string
	Tags        string
	PublicKey   string
	Encrypted   bool
	SubmittedAt time.Time
}
