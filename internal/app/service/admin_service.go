package service

import (
	"errors"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/repository"
	"github.com/hjkwon/paymap-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidTrustLevel = errors.New("trust level must be between 1 and 5")
	ErrInvalidRole       = errors.New("invalid role")
)

// DashboardStats 관리자 대시보드 집계
type DashboardStats struct {
	TotalStores    int64                       `json:"total_stores"`
	StoresByStatus map[model.StoreStatus]int64 `json:"stores_by_status"`
	TotalUsers     int64                       `json:"total_users"`
	TotalVerifications int64                   `json:"total_verifications"`
	TotalComments  int64                       `json:"total_comments"`
}

type AdminService interface {
	GetDashboardStats() (*DashboardStats, error)
	GetAllUsers() ([]model.User, error)
	UpdateUserTrustLevel(userID uint, trustLevel int) (*model.User, error)
	UpdateUserRole(userID uint, role model.UserRole) (*model.User, error)
}

type adminService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	storeRepo repository.StoreRepository
}

func NewAdminService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
) AdminService {
	return &adminService{
		db:        db,
		userRepo:  userRepo,
		storeRepo: storeRepo,
	}
}

func (s *adminService) GetDashboardStats() (*DashboardStats, error) {
	logger.Debug("Collecting dashboard stats")

	byStatus, err := s.storeRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{StoresByStatus: byStatus}
	for _, count := range byStatus {
		stats.TotalStores += count
	}

	if err := s.db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Verification{}).Count(&stats.TotalVerifications).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.StoreComment{}).Count(&stats.TotalComments).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *adminService) GetAllUsers() ([]model.User, error) {
	return s.userRepo.FindAll()
}

func (s *adminService) UpdateUserTrustLevel(userID uint, trustLevel int) (*model.User, error) {
	if trustLevel < 1 || trustLevel > 5 {
		return nil, ErrInvalidTrustLevel
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.TrustLevel = trustLevel
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User trust level updated", map[string]interface{}{
		"user_id":     userID,
		"trust_level": trustLevel,
	})
	return user, nil
}

func (s *adminService) UpdateUserRole(userID uint, role model.UserRole) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User role updated", map[string]interface{}{
		"user_id": userID,
		"role":    role,
	})
	return user, nil
}
