package repository

import (
	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/pkg/logger"
	"gorm.io/gorm"
)

type VerificationRepository interface {
	Create(verification *model.Verification) error
	FindByID(id uint) (*model.Verification, error)
	FindByStoreID(storeID uint) ([]model.Verification, error)
	FindByUserID(userID uint) ([]model.Verification, error)
	FindAll(limit int) ([]model.Verification, error)
	Delete(id uint) error
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(verification *model.Verification) error {
	logger.Debug("Creating verification in database", map[string]interface{}{
		"store_id":    verification.StoreID,
		"user_id":     verification.UserID,
		"is_verified": verification.IsVerified,
	})

	if err := r.db.Create(verification).Error; err != nil {
		logger.Error("Failed to create verification in database", err, map[string]interface{}{
			"store_id": verification.StoreID,
			"user_id":  verification.UserID,
		})
		return err
	}

	logger.Debug("Verification created in database", map[string]interface{}{
		"verification_id": verification.ID,
		"store_id":        verification.StoreID,
	})
	return nil
}

func (r *verificationRepository) FindByID(id uint) (*model.Verification, error) {
	var verification model.Verification
	if err := r.db.First(&verification, id).Error; err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *verificationRepository) FindByStoreID(storeID uint) ([]model.Verification, error) {
	var verifications []model.Verification
	err := r.db.Where("store_id = ?", storeID).
		Preload("User").
		Order("created_at DESC").
		Find(&verifications).Error
	if err != nil {
		logger.Error("Failed to find verifications by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return verifications, nil
}

func (r *verificationRepository) FindByUserID(userID uint) ([]model.Verification, error) {
	var verifications []model.Verification
	err := r.db.Where("user_id = ?", userID).
		Preload("Store").
		Order("created_at DESC").
		Find(&verifications).Error
	if err != nil {
		return nil, err
	}
	return verifications, nil
}

func (r *verificationRepository) FindAll(limit int) ([]model.Verification, error) {
	if limit < 1 {
		limit = 100
	}
	var verifications []model.Verification
	err := r.db.Preload("User").Preload("Store").
		Order("created_at DESC").
		Limit(limit).
		Find(&verifications).Error
	if err != nil {
		return nil, err
	}
	return verifications, nil
}

func (r *verificationRepository) Delete(id uint) error {
	logger.Debug("Deleting verification from database", map[string]interface{}{
		"verification_id": id,
	})

	result := r.db.Delete(&model.Verification{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete verification from database", result.Error, map[string]interface{}{
			"verification_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
