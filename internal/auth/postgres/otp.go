package postgres

import (
	"context"
	"errors"

	otpDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/otp"
	"gorm.io/gorm"
)

type OTPRepository struct {
	db *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

func (r *OTPRepository) Create(ctx context.Context, code *otpDatamodel.Code) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// GetLatest returns the newest code for email, or nil when none exists.
func (r *OTPRepository) GetLatest(ctx context.Context, email string) (*otpDatamodel.Code, error) {
	var code otpDatamodel.Code
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").
		Order("id DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

func (r *OTPRepository) IncrementAttempts(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&otpDatamodel.Code{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
}

func (r *OTPRepository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).Where("email = ?", email).Delete(&otpDatamodel.Code{}).Error
}
