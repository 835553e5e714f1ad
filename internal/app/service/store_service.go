package service

import (
	"errors"
	"strings"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/repository"
	"github.com/hjkwon/paymap-backend/pkg/logger"
	"github.com/hjkwon/paymap-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrStoreNotFound      = errors.New("store not found")
	ErrStoreAccessDenied  = errors.New("not allowed to modify this store")
	ErrInvalidStoreStatus = errors.New("invalid store status")
)

// Geocoder 주소 → 좌표 변환.
// 프로덕션에서는 카카오 로컬 API, 테스트에서는 고정 좌표 스텁을 주입한다.
type Geocoder interface {
	Geocode(address string) (latitude, longitude float64, err error)
}

// StoreNotifier 가맹점 변경 이벤트를 지도 클라이언트에 push한다.
// nil이면 알림 없이 동작한다.
type StoreNotifier interface {
	NotifyStoreCreated(store *model.Store)
	NotifyStoreStatusChanged(store *model.Store)
	NotifyStoreDeleted(storeID uint)
}

type CreateStoreInput struct {
	Name             string
	Address          string
	AddressDetail    string
	Phone            string
	Category         model.StoreCategory
	SubCategory      string
	BusinessNumber   string
	ZeropaySupported bool
	BipaySupported   bool
	SourceType       model.SourceType
	SourceImageURL   string
}

type StoreListFilter struct {
	Query    string
	Category model.StoreCategory
	Statuses []model.StoreStatus // 비어 있으면 pending+verified
	Latitude  float64
	Longitude float64
	RadiusKm  float64 // 0이면 반경 필터 없음
	Page     int
	PageSize int
}

// CreateStoreResult 생성 결과와 중복 추정 안내.
// Duplicate는 참고용일 뿐 등록을 막지 않는다.
type CreateStoreResult struct {
	Store     *model.Store
	Duplicate *model.Store
}

type StoreService interface {
	CreateStore(userID uint, input CreateStoreInput) (*CreateStoreResult, error)
	GetStores(filter StoreListFilter) (*repository.StoreListResult, error)
	GetStoreByID(id uint) (*model.Store, error)
	GetStoresByUserID(userID uint) ([]model.Store, error)
	CheckDuplicate(name, address string) (*model.Store, error)
	UpdateStatus(storeID uint, status model.StoreStatus) (*model.Store, error)
	DeleteStore(storeID, requesterID uint, isAdmin bool) error
	GetAllStoresAdmin() ([]model.Store, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
	userRepo  repository.UserRepository
	geocoder  Geocoder
	notifier  StoreNotifier
}

func NewStoreService(
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
	geocoder Geocoder,
	notifier StoreNotifier,
) StoreService {
	return &storeService{
		storeRepo: storeRepo,
		userRepo:  userRepo,
		geocoder:  geocoder,
		notifier:  notifier,
	}
}

func (s *storeService) CreateStore(userID uint, input CreateStoreInput) (*CreateStoreResult, error) {
	logger.Info("Creating store", map[string]interface{}{
		"user_id": userID,
		"name":    input.Name,
	})

	// 중복 추정 검사. 등록을 막지는 않고 응답에 후보만 실어 준다.
	duplicate, err := s.storeRepo.FindPossibleDuplicate(input.Name, input.Address)
	if err != nil {
		logger.Error("Duplicate check failed", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}
	if duplicate != nil {
		logger.Info("Possible duplicate store found", map[string]interface{}{
			"existing_store_id": duplicate.ID,
			"existing_name":     duplicate.Name,
		})
	}

	// 좌표 변환 실패는 등록 실패다. (0,0)으로 저장된 가맹점은 지도에
	// 올릴 수 없어 등록 의미가 없다.
	latitude, longitude, err := s.geocoder.Geocode(input.Address)
	if err != nil {
		logger.Warn("Geocoding failed, aborting store creation", map[string]interface{}{
			"address": input.Address,
			"error":   err.Error(),
		})
		return nil, err
	}

	sourceType := input.SourceType
	if sourceType == "" {
		sourceType = model.SourceManual
	}

	store := &model.Store{
		UserID:           userID,
		Name:             strings.TrimSpace(input.Name),
		Address:          strings.TrimSpace(input.Address),
		AddressDetail:    input.AddressDetail,
		Latitude:         latitude,
		Longitude:        longitude,
		Phone:            input.Phone,
		Category:         input.Category,
		SubCategory:      input.SubCategory,
		BusinessNumber:   input.BusinessNumber,
		ZeropaySupported: input.ZeropaySupported,
		BipaySupported:   input.BipaySupported,
		TrustScore:       model.NeutralTrustScore,
		Status:           model.StatusPending,
		SourceType:       sourceType,
		SourceImageURL:   input.SourceImageURL,
	}

	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}

	if err := s.userRepo.IncrementStoreCount(userID, 1); err != nil {
		logger.Warn("Failed to increment user store count", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}

	if s.notifier != nil {
		s.notifier.NotifyStoreCreated(store)
	}

	logger.Info("Store created successfully", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
		"status":   store.Status,
	})

	return &CreateStoreResult{Store: store, Duplicate: duplicate}, nil
}

func (s *storeService) GetStores(filter StoreListFilter) (*repository.StoreListResult, error) {
	repoFilter := repository.StoreFilter{
		Query:    filter.Query,
		Category: filter.Category,
		Statuses: filter.Statuses,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	if filter.RadiusKm <= 0 {
		return s.storeRepo.FindAll(repoFilter)
	}

	// 반경 검색은 DB에서 전체 후보를 받아 하버사인 거리로 거른 뒤
	// 메모리에서 페이지를 자른다. 좌표 미확정(0,0) 가맹점은 제외한다.
	repoFilter.NoPaging = true
	result, err := s.storeRepo.FindAll(repoFilter)
	if err != nil {
		return nil, err
	}

	within := make([]model.Store, 0, len(result.Stores))
	for _, store := range result.Stores {
		if !store.HasCoordinates() {
			continue
		}
		distance := util.CalculateDistance(
			filter.Latitude, filter.Longitude,
			store.Latitude, store.Longitude,
		)
		if distance <= filter.RadiusKm {
			within = append(within, store)
		}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	total := len(within)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &repository.StoreListResult{
		Stores:     within[start:end],
		TotalCount: int64(total),
		Page:       page,
		HasMore:    total > page*pageSize,
	}, nil
}

func (s *storeService) GetStoreByID(id uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetStoresByUserID(userID uint) ([]model.Store, error) {
	return s.storeRepo.FindByUserID(userID)
}

func (s *storeService) CheckDuplicate(name, address string) (*model.Store, error) {
	return s.storeRepo.FindPossibleDuplicate(name, address)
}

func (s *storeService) UpdateStatus(storeID uint, status model.StoreStatus) (*model.Store, error) {
	logger.Info("Updating store status", map[string]interface{}{
		"store_id": storeID,
		"status":   status,
	})

	if !model.IsValidStoreStatus(string(status)) {
		return nil, ErrInvalidStoreStatus
	}

	if err := s.storeRepo.UpdateStatus(storeID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyStoreStatusChanged(store)
	}
	return store, nil
}

// DeleteStore 등록자 본인 또는 관리자만 삭제할 수 있다.
// 검증·댓글까지 한 트랜잭션으로 함께 지운다.
func (s *storeService) DeleteStore(storeID, requesterID uint, isAdmin bool) error {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}

	if store.UserID != requesterID && !isAdmin {
		logger.Warn("Store delete denied", map[string]interface{}{
			"store_id":     storeID,
			"requester_id": requesterID,
			"owner_id":     store.UserID,
		})
		return ErrStoreAccessDenied
	}

	if err := s.storeRepo.DeleteCascade(storeID); err != nil {
		logger.Error("Failed to delete store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return err
	}

	if err := s.userRepo.IncrementStoreCount(store.UserID, -1); err != nil {
		logger.Warn("Failed to decrement user store count", map[string]interface{}{
			"user_id": store.UserID,
			"error":   err.Error(),
		})
	}

	if s.notifier != nil {
		s.notifier.NotifyStoreDeleted(storeID)
	}

	logger.Info("Store deleted", map[string]interface{}{
		"store_id":     storeID,
		"requester_id": requesterID,
		"by_admin":     isAdmin && store.UserID != requesterID,
	})
	return nil
}

func (s *storeService) GetAllStoresAdmin() ([]model.Store, error) {
	return s.storeRepo.FindAllAdmin()
}
