package db

import (
	"context"
	"time"

	"paprd/internal/domain"

	"gorm.io/gorm"
)

type ResearcherRepository struct {
	db *gorm.DB
}

func NewResearcherRepository(db *gorm.DB) *ResearcherRepository {
	return &ResearcherRepository{db: db}
}

func (r *ResearcherRepository) Create(ctx context.Context, res domain.Researcher) (*domain.Researcher, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	model := ResearcherModel{
		ID:          res.ID,
		ChannelName: res.ChannelName,
		FullName:    res.FullName,
		Email:       res.Email,
		PublicKey:   res.PublicKey,
		JoinedAt:    res.JoinedAt,
	}
	if model.ID == "" {
		model.ID = newID()
	}
	if model.JoinedAt.IsZero() {
		model.JoinedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return nil, translate(err)
	}
	return researcherFromModel(model), nil
}

func (r *ResearcherRepository) GetByChannelName(ctx context.Context, channelName string) (*domain.Researcher, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ResearcherModel
	err := r.db.WithContext(ctx).First(&model, "channel_name = ?", channelName).Error
	if err != nil {
		return nil, translate(err)
	}
	return researcherFromModel(model), nil
}

func (r *ResearcherRepository) GetByID(ctx context.Context, id string) (*domain.Researcher, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model ResearcherModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return researcherFromModel(model), nil
}

// UpdateContact changes the mutable profile fields only. Channel name and
// public key stay as registration left them.
func (r *ResearcherRepository) UpdateContact(ctx context.Context, channelName, fullName, email string) error {
	if r.db == nil {
		return errDBUnavailable
	}
	updates := map[string]any{}
	if fullName != "" {
		updates["full_name"] = fullName
	}
	if email != "" {
		updates["email"] = email
	}
	res := r.db.WithContext(ctx).Model(&ResearcherModel{}).
		Where("channel_name = ?", channelName).
		Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func researcherFromModel(model ResearcherModel) *domain.Researcher {
	return &domain.Researcher{
		ID:          model.ID,
		ChannelName: model.ChannelName,
		FullName:    model.FullName,
		Email:       model.Email,
		PublicKey:   model.PublicKey,
		JoinedAt:    model.JoinedAt,
	}
}
