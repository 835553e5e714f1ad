package service

import (
	"errors"
	"time"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/repository"
	"github.com/hjkwon/paymap-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound      = errors.New("comment not found")
	ErrCommentAccessDenied  = errors.New("not allowed to modify this comment")
	ErrInvalidCommentRating = errors.New("rating must be between 1 and 5")
)

type CreateCommentInput struct {
	Content        string
	Rating         *int
	PaymentSuccess *bool
	VisitDate      *time.Time
}

type UpdateCommentInput struct {
	Content        *string
	Rating         *int
	PaymentSuccess *bool
	ClearPayment   bool // PaymentSuccess를 명시적으로 해제
	VisitDate      *time.Time
}

type CommentService interface {
	CreateComment(storeID, userID uint, input CreateCommentInput) (*model.StoreComment, bool, error)
	GetCommentsByStoreID(storeID uint) ([]model.StoreComment, error)
	UpdateComment(id, requesterID uint, input UpdateCommentInput) (*model.StoreComment, bool, error)
	DeleteComment(id, requesterID uint, isAdmin bool) (bool, error)
	GetAllCommentsAdmin(limit int) ([]model.StoreComment, error)
}

type commentService struct {
	commentRepo  repository.CommentRepository
	storeRepo    repository.StoreRepository
	trustService TrustService
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	storeRepo repository.StoreRepository,
	trustService TrustService,
) CommentService {
	return &commentService{
		commentRepo:  commentRepo,
		storeRepo:    storeRepo,
		trustService: trustService,
	}
}

func validRating(rating *int) bool {
	return rating == nil || (*rating >= 1 && *rating <= 5)
}

func (s *commentService) CreateComment(storeID, userID uint, input CreateCommentInput) (*model.StoreComment, bool, error) {
	logger.Info("Creating comment", map[string]interface{}{
		"store_id": storeID,
		"user_id":  userID,
	})

	if !validRating(input.Rating) {
		return nil, false, ErrInvalidCommentRating
	}

	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrStoreNotFound
		}
		return nil, false, err
	}

	comment := &model.StoreComment{
		StoreID:        storeID,
		UserID:         userID,
		Content:        input.Content,
		Rating:         input.Rating,
		PaymentSuccess: input.PaymentSuccess,
		VisitDate:      input.VisitDate,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, false, err
	}

	// 결제 성공 여부가 없는 댓글은 집계에 영향이 없으므로 재계산하지 않는다.
	statsStale := false
	if comment.CountsTowardTrust() {
		if err := s.trustService.RecomputeStoreStats(storeID); err != nil {
			logger.Warn("Trust recompute failed after comment create", map[string]interface{}{
				"store_id":   storeID,
				"comment_id": comment.ID,
				"error":      err.Error(),
			})
			statsStale = true
		}
	}

	return comment, statsStale, nil
}

func (s *commentService) GetCommentsByStoreID(storeID uint) ([]model.StoreComment, error) {
	return s.commentRepo.FindByStoreID(storeID)
}

func (s *commentService) UpdateComment(id, requesterID uint, input UpdateCommentInput) (*model.StoreComment, bool, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrCommentNotFound
		}
		return nil, false, err
	}

	// 수정은 작성자 본인만 가능하다 (관리자는 삭제만).
	if comment.UserID != requesterID {
		return nil, false, ErrCommentAccessDenied
	}

	if !validRating(input.Rating) {
		return nil, false, ErrInvalidCommentRating
	}

	paymentTouched := false
	if input.Content != nil {
		comment.Content = *input.Content
	}
	if input.Rating != nil {
		comment.Rating = input.Rating
	}
	if input.VisitDate != nil {
		comment.VisitDate = input.VisitDate
	}
	if input.ClearPayment {
		if comment.PaymentSuccess != nil {
			paymentTouched = true
		}
		comment.PaymentSuccess = nil
	} else if input.PaymentSuccess != nil {
		if comment.PaymentSuccess == nil || *comment.PaymentSuccess != *input.PaymentSuccess {
			paymentTouched = true
		}
		comment.PaymentSuccess = input.PaymentSuccess
	}

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, false, err
	}

	statsStale := false
	if paymentTouched {
		if err := s.trustService.RecomputeStoreStats(comment.StoreID); err != nil {
			logger.Warn("Trust recompute failed after comment update", map[string]interface{}{
				"store_id":   comment.StoreID,
				"comment_id": comment.ID,
				"error":      err.Error(),
			})
			statsStale = true
		}
	}

	return comment, statsStale, nil
}

func (s *commentService) DeleteComment(id, requesterID uint, isAdmin bool) (bool, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCommentNotFound
		}
		return false, err
	}

	if comment.UserID != requesterID && !isAdmin {
		logger.Warn("Comment delete denied", map[string]interface{}{
			"comment_id":   id,
			"requester_id": requesterID,
			"author_id":    comment.UserID,
		})
		return false, ErrCommentAccessDenied
	}

	countedTowardTrust := comment.CountsTowardTrust()

	if err := s.commentRepo.Delete(id); err != nil {
		return false, err
	}

	statsStale := false
	if countedTowardTrust {
		if err := s.trustService.RecomputeStoreStats(comment.StoreID); err != nil {
			logger.Warn("Trust recompute failed after comment delete", map[string]interface{}{
				"store_id": comment.StoreID,
				"error":    err.Error(),
			})
			statsStale = true
		}
	}

	logger.Info("Comment deleted", map[string]interface{}{
		"comment_id": id,
		"store_id":   comment.StoreID,
	})
	return statsStale, nil
}

func (s *commentService) GetAllCommentsAdmin(limit int) ([]model.StoreComment, error) {
	return s.commentRepo.FindAll(limit)
}
