package db

import "time"

type ResearcherModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	ChannelName string `gorm:"uniqueIndex;not null"`
	FullName    string
	Email       string
	PublicKey   string    `gorm:"type:text"`
	JoinedAt    time.Time `gorm:"not null"`
}

func (ResearcherModel) TableName() string { return "researchers" }

type ArticleModel struct {
	ID                    string  `gorm:"type:uuid;primaryKey"`
	BaseClaimName         string  `gorm:"uniqueIndex;not null"`
	CorrespondingAuthorID *string `gorm:"type:uuid;index"`
	EncryptionPassphrase  string
	ReviewPassphrase      string
	Reviewed              bool      `gorm:"not null"`
	Revision              int       `gorm:"not null"`
	Status                string    `gorm:"not null"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

func (ArticleModel) TableName() string { return "articles" }

type ManuscriptModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	ArticleID   string `gorm:"type:uuid;index;not null"`
	ClaimName   string `gorm:"uniqueIndex;not null"`
	Title       string `gorm:"type:text;not null"`
	Authors     string `gorm:"type:text;not null"`
	Abstract    string `gorm:"type:text"`
	Tags        string `gorm:"type:text"`
	PublicKey   string `gorm:"type:text"`
	Encrypted   bool
	SubmittedAt time.Time `gorm:"index;not null"`
}

func (ManuscriptModel) TableName() string { return "manuscripts" }

// The partial unique index closes the race on duplicate solicitations: only
// one pending or accepted request may exist per (article, reviewer).
type ReviewRequestModel struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	ArticleID  string    `gorm:"type:uuid;not null;index:uniq_live_request,unique,where:status = 'pending' OR status = 'accepted'"`
	ReviewerID *string   `gorm:"type:uuid;index:uniq_live_request,unique"`
	Status     string    `gorm:"index;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (ReviewRequestModel) TableName() string { return "review_requests" }

type ReviewModel struct {
	ID              string  `gorm:"type:uuid;primaryKey"`
	ReviewRequestID string  `gorm:"type:uuid;uniqueIndex;not null"`
	ManuscriptID    string  `gorm:"type:uuid;index;not null"`
	ReviewerID      *string `gorm:"type:uuid;index"`
	Text            string  `gorm:"type:text;not null"`
	Rating          int     `gorm:"not null"`
	Signature       string  `gorm:"type:text"`
	SubmittedAt     time.Time `gorm:"not null"`
}

func (ReviewModel) TableName() string { return "reviews" }

type RecommendationModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	ArticleID   string    `gorm:"type:uuid;not null;uniqueIndex:uniq_recommendation"`
	VoucherID   *string   `gorm:"type:uuid;uniqueIndex:uniq_recommendation"`
	ReviewerID  *string   `gorm:"type:uuid;uniqueIndex:uniq_recommendation"`
	SubmittedAt time.Time `gorm:"not null"`
}

func (RecommendationModel) TableName() string { return "reviewer_recommendations" }
