package repository

import (
	"errors"
	"strings"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/pkg/logger"
	"gorm.io/gorm"
)

// StoreFilter 가맹점 목록 조회 조건.
// Statuses가 비어 있으면 기본 노출 대상(pending, verified)만 조회한다.
type StoreFilter struct {
	Query    string // 가맹점명/주소 부분 일치 검색
	Category model.StoreCategory
	Statuses []model.StoreStatus
	Page     int
	PageSize int
	NoPaging bool // 반경 검색 등 메모리 후처리가 필요한 경우
}

type StoreListResult struct {
	Stores     []model.Store
	TotalCount int64
	Page       int
	HasMore    bool
}

type StoreRepository interface {
	Create(store *model.Store) error
	BulkCreate(stores []model.Store, batchSize int) error
	Update(store *model.Store) error
	DeleteCascade(id uint) error
	FindByID(id uint) (*model.Store, error)
	FindAll(filter StoreFilter) (*StoreListResult, error)
	FindAllAdmin() ([]model.Store, error)
	FindByUserID(userID uint) ([]model.Store, error)
	FindPossibleDuplicate(name, address string) (*model.Store, error)
	FindAllIDs() ([]uint, error)
	UpdateStatus(id uint, status model.StoreStatus) error
	CountByStatus() (map[model.StoreStatus]int64, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":    store.Name,
		"user_id": store.UserID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":    store.Name,
			"user_id": store.UserID,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func (r *storeRepository) BulkCreate(stores []model.Store, batchSize int) error {
	logger.Info("Bulk creating stores", map[string]interface{}{
		"count":      len(stores),
		"batch_size": batchSize,
	})
	return r.db.CreateInBatches(stores, batchSize).Error
}

func (r *storeRepository) Update(store *model.Store) error {
	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}
	return nil
}

// DeleteCascade 가맹점과 이를 참조하는 검증/댓글을 한 트랜잭션으로 삭제한다.
// 가맹점 없는 검증·댓글 행이 남으면 불변식 위반이다.
func (r *storeRepository) DeleteCascade(id uint) error {
	logger.Info("Deleting store with cascade", map[string]interface{}{
		"store_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&model.Verification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", id).Delete(&model.StoreComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Store{}, id).Error
	})
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindAll(filter StoreFilter) (*StoreListResult, error) {
	logger.Debug("Finding stores", map[string]interface{}{
		"query":    filter.Query,
		"category": filter.Category,
		"statuses": filter.Statuses,
		"page":     filter.Page,
	})

	statuses := filter.Statuses
	if len(statuses) == 0 {
		// rejected/closed 가맹점은 명시적으로 요청하지 않는 한 노출하지 않는다
		statuses = []model.StoreStatus{model.StatusPending, model.StatusVerified}
	}

	query := r.db.Model(&model.Store{}).Where("status IN ?", statuses)

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("name LIKE ? OR address LIKE ?", like, like)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	query = query.Order("trust_score DESC, created_at DESC")
	if !filter.NoPaging {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	var stores []model.Store
	if err := query.Find(&stores).Error; err != nil {
		logger.Error("Failed to find stores", err)
		return nil, err
	}

	return &StoreListResult{
		Stores:     stores,
		TotalCount: total,
		Page:       page,
		HasMore:    total > int64(page*pageSize),
	}, nil
}

func (r *storeRepository) FindAllAdmin() ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.Preload("User").Order("created_at DESC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) FindByUserID(userID uint) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&stores).Error
	if err != nil {
		return nil, err
	}
	return stores, nil
}

// FindPossibleDuplicate 이름 또는 주소가 부분 일치하는 기존 가맹점을 찾는다.
// 과잉 감지(사람이 확인) 쪽을 의도적으로 택했으므로 부분 문자열 일치면 충분하다.
// 빈 입력은 전체 일치로 번지므로 중복 검사 불가로 취급한다.
func (r *storeRepository) FindPossibleDuplicate(name, address string) (*model.Store, error) {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" || address == "" {
		return nil, nil
	}

	var store model.Store
	err := r.db.
		Where("status IN ?", []model.StoreStatus{model.StatusPending, model.StatusVerified}).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)",
			"%"+name+"%", "%"+address+"%").
		First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindAllIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.Store{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *storeRepository) UpdateStatus(id uint, status model.StoreStatus) error {
	logger.Info("Updating store status", map[string]interface{}{
		"store_id": id,
		"status":   status,
	})

	result := r.db.Model(&model.Store{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *storeRepository) CountByStatus() (map[model.StoreStatus]int64, error) {
	type statusRow struct {
		Status model.StoreStatus
		Count  int64
	}

	var rows []statusRow
	err := r.db.Model(&model.Store{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.StoreStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
