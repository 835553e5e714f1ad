package repository

import (
	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/pkg/logger"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.StoreComment) error
	FindByID(id uint) (*model.StoreComment, error)
	FindByStoreID(storeID uint) ([]model.StoreComment, error)
	FindByUserID(userID uint) ([]model.StoreComment, error)
	FindAll(limit int) ([]model.StoreComment, error)
	Update(comment *model.StoreComment) error
	Delete(id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.StoreComment) error {
	logger.Debug("Creating comment in database", map[string]interface{}{
		"store_id": comment.StoreID,
		"user_id":  comment.UserID,
	})

	if err := r.db.Create(comment).Error; err != nil {
		logger.Error("Failed to create comment in database", err, map[string]interface{}{
			"store_id": comment.StoreID,
			"user_id":  comment.UserID,
		})
		return err
	}
	return nil
}

func (r *commentRepository) FindByID(id uint) (*model.StoreComment, error) {
	var comment model.StoreComment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByStoreID(storeID uint) ([]model.StoreComment, error) {
	var comments []model.StoreComment
	err := r.db.Where("store_id = ?", storeID).
		Preload("User").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to find comments by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) FindByUserID(userID uint) ([]model.StoreComment, error) {
	var comments []model.StoreComment
	err := r.db.Where("user_id = ?", userID).
		Preload("Store").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) FindAll(limit int) ([]model.StoreComment, error) {
	if limit < 1 {
		limit = 100
	}
	var comments []model.StoreComment
	err := r.db.Preload("User").Preload("Store").
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Update(comment *model.StoreComment) error {
	logger.Debug("Updating comment in database", map[string]interface{}{
		"comment_id": comment.ID,
	})

	if err := r.db.Save(comment).Error; err != nil {
		logger.Error("Failed to update comment in database", err, map[string]interface{}{
			"comment_id": comment.ID,
		})
		return err
	}
	return nil
}

func (r *commentRepository) Delete(id uint) error {
	logger.Debug("Deleting comment from database", map[string]interface{}{
		"comment_id": id,
	})

	result := r.db.Delete(&model.StoreComment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
