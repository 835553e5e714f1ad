package service

import (
	"errors"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/repository"
	"github.com/hjkwon/paymap-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrVerificationNotFound     = errors.New("verification not found")
	ErrVerificationAccessDenied = errors.New("not allowed to delete this verification")
)

type CreateVerificationInput struct {
	IsVerified       bool
	Comment          string
	EvidenceImageURL string
}

type VerificationService interface {
	// CreateVerification 두 번째 반환값은 stats_stale: 기록은 저장됐지만
	// 신뢰도 재계산이 실패해 집계가 낡아 있다는 표시다.
	CreateVerification(storeID, userID uint, input CreateVerificationInput) (*model.Verification, bool, error)
	GetVerificationsByStoreID(storeID uint) ([]model.Verification, error)
	GetVerificationsByUserID(userID uint) ([]model.Verification, error)
	DeleteVerification(id, requesterID uint, isAdmin bool) (bool, error)
	GetAllVerificationsAdmin(limit int) ([]model.Verification, error)
}

type verificationService struct {
	verificationRepo repository.VerificationRepository
	storeRepo        repository.StoreRepository
	userRepo         repository.UserRepository
	trustService     TrustService
}

func NewVerificationService(
	verificationRepo repository.VerificationRepository,
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	trustService TrustService,
) VerificationService {
	return &verificationService{
		verificationRepo: verificationRepo,
		storeRepo:        storeRepo,
		userRepo:         userRepo,
		trustService:     trustService,
	}
}

func (s *verificationService) CreateVerification(storeID, userID uint, input CreateVerificationInput) (*model.Verification, bool, error) {
	logger.Info("Creating verification", map[string]interface{}{
		"store_id":    storeID,
		"user_id":     userID,
		"is_verified": input.IsVerified,
	})

	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrStoreNotFound
		}
		return nil, false, err
	}

	verification := &model.Verification{
		StoreID:          storeID,
		UserID:           userID,
		IsVerified:       input.IsVerified,
		Comment:          input.Comment,
		EvidenceImageURL: input.EvidenceImageURL,
	}

	if err := s.verificationRepo.Create(verification); err != nil {
		return nil, false, err
	}

	if err := s.userRepo.IncrementVerificationCount(userID, 1); err != nil {
		logger.Warn("Failed to increment user verification count", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	// 기록은 이미 저장됐다. 재계산 실패로 기록까지 되돌리지 않는다.
	statsStale := false
	if err := s.trustService.RecomputeStoreStats(storeID); err != nil {
		logger.Warn("Trust recompute failed after verification create", map[string]interface{}{
			"store_id":        storeID,
			"verification_id": verification.ID,
			"error":           err.Error(),
		})
		statsStale = true
	}

	return verification, statsStale, nil
}

func (s *verificationService) GetVerificationsByStoreID(storeID uint) ([]model.Verification, error) {
	return s.verificationRepo.FindByStoreID(storeID)
}

func (s *verificationService) GetVerificationsByUserID(userID uint) ([]model.Verification, error) {
	return s.verificationRepo.FindByUserID(userID)
}

func (s *verificationService) DeleteVerification(id, requesterID uint, isAdmin bool) (bool, error) {
	verification, err := s.verificationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrVerificationNotFound
		}
		return false, err
	}

	if verification.UserID != requesterID && !isAdmin {
		logger.Warn("Verification delete denied", map[string]interface{}{
			"verification_id": id,
			"requester_id":    requesterID,
			"author_id":       verification.UserID,
		})
		return false, ErrVerificationAccessDenied
	}

	if err := s.verificationRepo.Delete(id); err != nil {
		return false, err
	}

	if err := s.userRepo.IncrementVerificationCount(verification.UserID, -1); err != nil {
		logger.Warn("Failed to decrement user verification count", map[string]interface{}{
			"user_id": verification.UserID,
			"error":   err.Error(),
		})
	}

	statsStale := false
	if err := s.trustService.RecomputeStoreStats(verification.StoreID); err != nil {
		logger.Warn("Trust recompute failed after verification delete", map[string]interface{}{
			"store_id": verification.StoreID,
			"error":    err.Error(),
		})
		statsStale = true
	}

	logger.Info("Verification deleted", map[string]interface{}{
		"verification_id": id,
		"store_id":        verification.StoreID,
	})
	return statsStale, nil
}

func (s *verificationService) GetAllVerificationsAdmin(limit int) ([]model.Verification, error) {
	return s.verificationRepo.FindAll(limit)
}
