package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hjkwon/paymap-backend/internal/app/service"
	"github.com/hjkwon/paymap-backend/internal/errors"
	"github.com/hjkwon/paymap-backend/internal/middleware"
)

type CommentController struct {
	commentService service.CommentService
}

func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

type CreateCommentRequest struct {
	Content        string     `json:"content" binding:"required"`
	Rating         *int       `json:"rating"`
	PaymentSuccess *bool      `json:"payment_success"`
	VisitDate      *time.Time `json:"visit_date"`
}

type UpdateCommentRequest struct {
	Content        *string    `json:"content"`
	Rating         *int       `json:"rating"`
	PaymentSuccess *bool      `json:"payment_success"`
	ClearPayment   bool       `json:"clear_payment"`
	VisitDate      *time.Time `json:"visit_date"`
}

// ListByStore GET /api/v1/stores/:id/comments
func (ctrl *CommentController) ListByStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 가맹점 ID입니다")
		return
	}

	comments, err := ctrl.commentService.GetCommentsByStoreID(uint(storeID))
	if err != nil {
		log.Error("Failed to list comments", err, map[string]interface{}{
			"store_id": storeID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// Create POST /api/v1/stores/:id/comments
func (ctrl *CommentController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 가맹점 ID입니다")
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "댓글 내용은 필수입니다")
		return
	}

	comment, statsStale, err := ctrl.commentService.CreateComment(
		uint(storeID), userID,
		service.CreateCommentInput{
			Content:        req.Content,
			Rating:         req.Rating,
			PaymentSuccess: req.PaymentSuccess,
			VisitDate:      req.VisitDate,
		},
	)
	if err != nil {
		switch err {
		case service.ErrStoreNotFound:
			errors.NotFound(c, errors.StoreNotFound, "가맹점을 찾을 수 없습니다")
		case service.ErrInvalidCommentRating:
			errors.BadRequest(c, errors.CommentInvalidRating, "평점은 1에서 5 사이여야 합니다")
		default:
			log.Error("Failed to create comment", err, map[string]interface{}{
				"store_id": storeID,
				"user_id":  userID,
			})
			errors.InternalError(c, "")
		}
		return
	}

	log.Info("Comment created", map[string]interface{}{
		"comment_id":  comment.ID,
		"store_id":    storeID,
		"stats_stale": statsStale,
	})

	response := gin.H{
		"message": "댓글이 등록되었습니다",
		"comment": comment,
	}
	if statsStale {
		response["warning"] = errors.StatsStale
		response["stats_stale"] = true
	}

	c.JSON(http.StatusCreated, response)
}

// Update PUT /api/v1/comments/:id
func (ctrl *CommentController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 댓글 ID입니다")
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "")
		return
	}

	comment, statsStale, err := ctrl.commentService.UpdateComment(
		uint(id), userID,
		service.UpdateCommentInput{
			Content:        req.Content,
			Rating:         req.Rating,
			PaymentSuccess: req.PaymentSuccess,
			ClearPayment:   req.ClearPayment,
			VisitDate:      req.VisitDate,
		},
	)
	if err != nil {
		switch err {
		case service.ErrCommentNotFound:
			errors.NotFound(c, errors.CommentNotFound, "댓글을 찾을 수 없습니다")
		case service.ErrCommentAccessDenied:
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzOwnerOnly, "작성자 본인만 수정할 수 있습니다")
		case service.ErrInvalidCommentRating:
			errors.BadRequest(c, errors.CommentInvalidRating, "평점은 1에서 5 사이여야 합니다")
		default:
			log.Error("Failed to update comment", err, map[string]interface{}{
				"comment_id": id,
			})
			errors.InternalError(c, "")
		}
		return
	}

	response := gin.H{
		"message": "댓글이 수정되었습니다",
		"comment": comment,
	}
	if statsStale {
		response["warning"] = errors.StatsStale
		response["stats_stale"] = true
	}

	c.JSON(http.StatusOK, response)
}

// Delete DELETE /api/v1/comments/:id
func (ctrl *CommentController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 댓글 ID입니다")
		return
	}

	statsStale, err := ctrl.commentService.DeleteComment(uint(id), userID, middleware.IsAdmin(c))
	if err != nil {
		switch err {
		case service.ErrCommentNotFound:
			errors.NotFound(c, errors.CommentNotFound, "댓글을 찾을 수 없습니다")
		case service.ErrCommentAccessDenied:
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzOwnerOnly, "작성자 본인 또는 관리자만 삭제할 수 있습니다")
		default:
			log.Error("Failed to delete comment", err, map[string]interface{}{
				"comment_id": id,
			})
			errors.InternalError(c, "")
		}
		return
	}

	response := gin.H{
		"message": "댓글이 삭제되었습니다",
	}
	if statsStale {
		response["warning"] = errors.StatsStale
		response["stats_stale"] = true
	}

	c.JSON(http.StatusOK, response)
}
