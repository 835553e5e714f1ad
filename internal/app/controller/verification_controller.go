package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hjkwon/paymap-backend/internal/app/service"
	"github.com/hjkwon/paymap-backend/internal/errors"
	"github.com/hjkwon/paymap-backend/internal/middleware"
)

type VerificationController struct {
	verificationService service.VerificationService
}

func NewVerificationController(verificationService service.VerificationService) *VerificationController {
	return &VerificationController{verificationService: verificationService}
}

type CreateVerificationRequest struct {
	IsVerified       *bool  `json:"is_verified" binding:"required"`
	Comment          string `json:"comment"`
	EvidenceImageURL string `json:"evidence_image_url"`
}

// ListByStore GET /api/v1/stores/:id/verifications
func (ctrl *VerificationController) ListByStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 가맹점 ID입니다")
		return
	}

	verifications, err := ctrl.verificationService.GetVerificationsByStoreID(uint(storeID))
	if err != nil {
		log.Error("Failed to list verifications", err, map[string]interface{}{
			"store_id": storeID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verifications": verifications,
		"count":         len(verifications),
	})
}

// Create POST /api/v1/stores/:id/verifications
func (ctrl *VerificationController) Create(c *gin.Context) {
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

	var req CreateVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "결제 성공 여부(is_verified)는 필수입니다")
		return
	}

	verification, statsStale, err := ctrl.verificationService.CreateVerification(
		uint(storeID), userID,
		service.CreateVerificationInput{
			IsVerified:       *req.IsVerified,
			Comment:          req.Comment,
			EvidenceImageURL: req.EvidenceImageURL,
		},
	)
	if err != nil {
		if err == service.ErrStoreNotFound {
			errors.NotFound(c, errors.StoreNotFound, "가맹점을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to create verification", err, map[string]interface{}{
			"store_id": storeID,
			"user_id":  userID,
		})
		errors.InternalError(c, "검증 기록 저장에 실패했습니다")
		return
	}

	log.Info("Verification created", map[string]interface{}{
		"verification_id": verification.ID,
		"store_id":        storeID,
		"stats_stale":     statsStale,
	})

	response := gin.H{
		"message":      "검증 기록이 저장되었습니다",
		"verification": verification,
	}
	if statsStale {
		// 기록은 저장됐으나 신뢰도 집계가 아직 이전 값이다
		response["warning"] = errors.StatsStale
		response["stats_stale"] = true
	}

	c.JSON(http.StatusCreated, response)
}

// Delete DELETE /api/v1/verifications/:id
func (ctrl *VerificationController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 검증 ID입니다")
		return
	}

	statsStale, err := ctrl.verificationService.DeleteVerification(uint(id), userID, middleware.IsAdmin(c))
	if err != nil {
		switch err {
		case service.ErrVerificationNotFound:
			errors.NotFound(c, errors.VerificationNotFound, "검증 기록을 찾을 수 없습니다")
		case service.ErrVerificationAccessDenied:
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzOwnerOnly, "작성자 본인 또는 관리자만 삭제할 수 있습니다")
		default:
			log.Error("Failed to delete verification", err, map[string]interface{}{
				"verification_id": id,
			})
			errors.InternalError(c, "")
		}
		return
	}

	response := gin.H{
		"message": "검증 기록이 삭제되었습니다",
	}
	if statsStale {
		response["warning"] = errors.StatsStale
		response["stats_stale"] = true
	}

	c.JSON(http.StatusOK, response)
}

// MyVerifications GET /api/v1/verifications/me
func (ctrl *VerificationController) MyVerifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	verifications, err := ctrl.verificationService.GetVerificationsByUserID(userID)
	if err != nil {
		log.Error("Failed to list my verifications", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verifications": verifications,
		"count":         len(verifications),
	})
}
