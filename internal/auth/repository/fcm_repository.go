package repository

import (
	"errors"
	"time"

	authdomain "taskboard-backend/internal/auth/domain"

	"gorm.io/gorm"
)

// fcmTokenRepository implements FCMTokenRepository on gorm.
type fcmTokenRepository struct {
	db *gorm.DB
}

func NewFCMTokenRepository(db *gorm.DB) FCMTokenRepository {
	return &fcmTokenRepository{db: db}
}

func (r *fcmTokenRepository) Save(token *authdomain.FCMToken) error {
	token.CreatedAt = time.Now()
	err := r.db.Create(token).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		// Same device re-registering is a no-op.
		return nil
	}
	return err
}

func (r *fcmTokenRepository) GetTokensByUserID(userID string) ([]*authdomain.FCMToken, error) {
	var tokens []*authdomain.FCMToken
	err := r.db.Where("user_id = ?", userID).Find(&tokens).Error
	return tokens, err
}

func (r *fcmTokenRepository) DeleteToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&authdomain.FCMToken{}).Error
}
