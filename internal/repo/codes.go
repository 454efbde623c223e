package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"tienda-api/internal/domain"
)

type CodeRepo struct{ db *gorm.DB }

func NewCodeRepo(db *gorm.DB) *CodeRepo { return &CodeRepo{db: db} }

func (r *CodeRepo) Create(ctx context.Context, c *domain.VerificationCode) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Latest returns the most recently created code for (user, purpose),
// regardless of validity. Verification only ever considers this one; older
// rows go stale but are never deleted.
func (r *CodeRepo) Latest(ctx context.Context, userID uint, purpose string) (*domain.VerificationCode, error) {
	var c domain.VerificationCode
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, purpose).
		Order("created_at DESC, id DESC").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// MarkUsed flips the used flag; it is never unset.
func (r *CodeRepo) MarkUsed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&domain.VerificationCode{}).
		Where("id = ?", id).Update("used", true).Error
}
