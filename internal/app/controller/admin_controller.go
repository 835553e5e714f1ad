package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/service"
	"github.com/hjkwon/paymap-backend/internal/errors"
	"github.com/hjkwon/paymap-backend/internal/middleware"
)

// AdminController 관리자 전용 핸들러.
// 라우터에서 RequireRole("admin")을 통과한 요청만 들어온다.
type AdminController struct {
	adminService        service.AdminService
	storeService        service.StoreService
	verificationService service.VerificationService
	commentService      service.CommentService
}

func NewAdminController(
	adminService service.AdminService,
	storeService service.StoreService,
	verificationService service.VerificationService,
	commentService service.CommentService,
) *AdminController {
	return &AdminController{
		adminService:        adminService,
		storeService:        storeService,
		verificationService: verificationService,
		commentService:      commentService,
	}
}

type UpdateTrustLevelRequest struct {
	TrustLevel int `json:"trust_level" binding:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type UpdateStoreStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetStats GET /api/v1/admin/stats
func (ctrl *AdminController) GetStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.adminService.GetDashboardStats()
	if err != nil {
		log.Error("Failed to collect dashboard stats", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// ListUsers GET /api/v1/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	users, err := ctrl.adminService.GetAllUsers()
	if err != nil {
		log.Error("Failed to list users", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// UpdateUserTrustLevel PUT /api/v1/admin/users/:id/trust-level
func (ctrl *AdminController) UpdateUserTrustLevel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 사용자 ID입니다")
		return
	}

	var req UpdateTrustLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "")
		return
	}

	user, err := ctrl.adminService.UpdateUserTrustLevel(uint(userID), req.TrustLevel)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			errors.NotFound(c, errors.ResourceNotFound, "사용자를 찾을 수 없습니다")
		case service.ErrInvalidTrustLevel:
			errors.BadRequest(c, errors.ValidationInvalidRange, "신뢰 등급은 1에서 5 사이여야 합니다")
		default:
			log.Error("Failed to update user trust level", err, map[string]interface{}{
				"target_user_id": userID,
			})
			errors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateUserRole PUT /api/v1/admin/users/:id/role
func (ctrl *AdminController) UpdateUserRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 사용자 ID입니다")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "")
		return
	}

	user, err := ctrl.adminService.UpdateUserRole(uint(userID), model.UserRole(req.Role))
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			errors.NotFound(c, errors.ResourceNotFound, "사용자를 찾을 수 없습니다")
		case service.ErrInvalidRole:
			errors.BadRequest(c, errors.ValidationInvalidInput, "역할은 user 또는 admin이어야 합니다")
		default:
			log.Error("Failed to update user role", err, map[string]interface{}{
				"target_user_id": userID,
			})
			errors.InternalError(c, "")
		}
		return
	}

	log.Info("User role changed", map[string]interface{}{
		"target_user_id": userID,
		"role":           req.Role,
	})

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// ListStores GET /api/v1/admin/stores
// 상태와 무관하게 전체 가맹점을 등록자 정보와 함께 반환한다.
func (ctrl *AdminController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stores, err := ctrl.storeService.GetAllStoresAdmin()
	if err != nil {
		log.Error("Failed to list stores for admin", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": toStoreViews(stores),
		"count":  len(stores),
	})
}

// UpdateStoreStatus PUT /api/v1/admin/stores/:id/status
func (ctrl *AdminController) UpdateStoreStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 가맹점 ID입니다")
		return
	}

	var req UpdateStoreStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "")
		return
	}

	store, err := ctrl.storeService.UpdateStatus(uint(storeID), model.StoreStatus(req.Status))
	if err != nil {
		switch err {
		case service.ErrStoreNotFound:
			errors.NotFound(c, errors.StoreNotFound, "가맹점을 찾을 수 없습니다")
		case service.ErrInvalidStoreStatus:
			errors.BadRequest(c, errors.StoreInvalidStatus, "잘못된 상태값입니다")
		default:
			log.Error("Failed to update store status", err, map[string]interface{}{
				"store_id": storeID,
			})
			errors.InternalError(c, "")
		}
		return
	}

	log.Info("Store status changed by admin", map[string]interface{}{
		"store_id": storeID,
		"status":   req.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"store": toStoreView(*store),
	})
}

// DeleteStore DELETE /api/v1/admin/stores/:id
func (ctrl *AdminController) DeleteStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	adminID, _ := middleware.GetUserID(c)

	storeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 가맹점 ID입니다")
		return
	}

	if err := ctrl.storeService.DeleteStore(uint(storeID), adminID, true); err != nil {
		if err == service.ErrStoreNotFound {
			errors.NotFound(c, errors.StoreNotFound, "가맹점을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to delete store as admin", err, map[string]interface{}{
			"store_id": storeID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "가맹점이 삭제되었습니다",
	})
}

// ListVerifications GET /api/v1/admin/verifications
func (ctrl *AdminController) ListVerifications(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	verifications, err := ctrl.verificationService.GetAllVerificationsAdmin(limit)
	if err != nil {
		log.Error("Failed to list verifications for admin", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verifications": verifications,
		"count":         len(verifications),
	})
}

// ListComments GET /api/v1/admin/comments
func (ctrl *AdminController) ListComments(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	comments, err := ctrl.commentService.GetAllCommentsAdmin(limit)
	if err != nil {
		log.Error("Failed to list comments for admin", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}
