package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/service"
	"github.com/hjkwon/paymap-backend/internal/errors"
	"github.com/hjkwon/paymap-backend/internal/middleware"
	"github.com/hjkwon/paymap-backend/pkg/util"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{storeService: storeService}
}

type CreateStoreRequest struct {
	Name             string `json:"name" binding:"required"`
	Address          string `json:"address" binding:"required"`
	AddressDetail    string `json:"address_detail"`
	Phone            string `json:"phone"`
	Category         string `json:"category" binding:"required"`
	SubCategory      string `json:"sub_category"`
	BusinessNumber   string `json:"business_number"`
	ZeropaySupported *bool  `json:"zeropay_supported"`
	BipaySupported   *bool  `json:"bipay_supported"`
	SourceType       string `json:"source_type"`
	SourceImageURL   string `json:"source_image_url"`
}

// StoreView 지도 클라이언트용 응답: 저장값에 표시용 신뢰 구간을 얹는다
type StoreView struct {
	model.Store
	TrustLevel model.TrustLevel `json:"trust_level"`
}

func toStoreView(store model.Store) StoreView {
	return StoreView{Store: store, TrustLevel: store.TrustLevel()}
}

func toStoreViews(stores []model.Store) []StoreView {
	views := make([]StoreView, len(stores))
	for i, store := range stores {
		views[i] = toStoreView(store)
	}
	return views
}

// ListStores GET /api/v1/stores
func (ctrl *StoreController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := service.StoreListFilter{
		Query:    c.Query("query"),
		Category: model.StoreCategory(c.Query("category")),
	}

	// 상태 필터: 기본값은 pending+verified, 명시 요청 시에만 재정의
	if statusParam := c.Query("status"); statusParam != "" {
		for _, s := range strings.Split(statusParam, ",") {
			s = strings.TrimSpace(s)
			if !model.IsValidStoreStatus(s) {
				errors.BadRequest(c, errors.StoreInvalidStatus, "잘못된 상태값입니다: "+s)
				return
			}
			filter.Statuses = append(filter.Statuses, model.StoreStatus(s))
		}
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.Latitude, _ = strconv.ParseFloat(c.Query("lat"), 64)
	filter.Longitude, _ = strconv.ParseFloat(c.Query("lng"), 64)
	filter.RadiusKm, _ = strconv.ParseFloat(c.Query("radius"), 64)

	result, err := ctrl.storeService.GetStores(filter)
	if err != nil {
		log.Error("Failed to list stores", err, nil)
		errors.InternalError(c, "가맹점 목록을 불러오지 못했습니다")
		return
	}

	log.Info("Stores listed", map[string]interface{}{
		"count": len(result.Stores),
		"total": result.TotalCount,
	})

	c.JSON(http.StatusOK, gin.H{
		"stores":   toStoreViews(result.Stores),
		"total":    result.TotalCount,
		"page":     result.Page,
		"has_more": result.HasMore,
	})
}

// GetStoreByID GET /api/v1/stores/:id
func (ctrl *StoreController) GetStoreByID(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 가맹점 ID입니다")
		return
	}

	store, err := ctrl.storeService.GetStoreByID(uint(id))
	if err != nil {
		if err == service.ErrStoreNotFound {
			errors.NotFound(c, errors.StoreNotFound, "가맹점을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": toStoreView(*store),
	})
}

// CheckDuplicate GET /api/v1/stores/check-duplicate
// 등록 전 중복 추정 가맹점 안내. 결과는 참고용이다.
func (ctrl *StoreController) CheckDuplicate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	name := c.Query("name")
	address := c.Query("address")

	duplicate, err := ctrl.storeService.CheckDuplicate(name, address)
	if err != nil {
		log.Error("Duplicate check failed", err, map[string]interface{}{
			"name": name,
		})
		errors.InternalError(c, "")
		return
	}

	if duplicate == nil {
		c.JSON(http.StatusOK, gin.H{
			"duplicate": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"duplicate": true,
		"store":     toStoreView(*duplicate),
	})
}

// CreateStore POST /api/v1/stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid store creation request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "가맹점명, 주소, 업종은 필수입니다")
		return
	}

	input := service.CreateStoreInput{
		Name:             req.Name,
		Address:          req.Address,
		AddressDetail:    req.AddressDetail,
		Phone:            req.Phone,
		Category:         model.StoreCategory(req.Category),
		SubCategory:      req.SubCategory,
		BusinessNumber:   req.BusinessNumber,
		ZeropaySupported: true,
		BipaySupported:   true,
		SourceType:       model.SourceType(req.SourceType),
		SourceImageURL:   req.SourceImageURL,
	}
	if req.ZeropaySupported != nil {
		input.ZeropaySupported = *req.ZeropaySupported
	}
	if req.BipaySupported != nil {
		input.BipaySupported = *req.BipaySupported
	}

	result, err := ctrl.storeService.CreateStore(userID, input)
	if err != nil {
		if err == util.ErrAddressNotFound {
			errors.BadRequest(c, errors.StoreAddressInvalid, "주소를 찾을 수 없습니다. 주소를 확인해 주세요")
			return
		}
		log.Error("Failed to create store", err, map[string]interface{}{
			"user_id": userID,
			"name":    req.Name,
		})
		errors.InternalError(c, "가맹점 등록에 실패했습니다")
		return
	}

	log.Info("Store created", map[string]interface{}{
		"store_id": result.Store.ID,
		"user_id":  userID,
	})

	response := gin.H{
		"message": "가맹점이 등록되었습니다",
		"store":   toStoreView(*result.Store),
	}
	if result.Duplicate != nil {
		response["possible_duplicate"] = toStoreView(*result.Duplicate)
	}

	c.JSON(http.StatusCreated, response)
}

// MyStores GET /api/v1/stores/me
func (ctrl *StoreController) MyStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	stores, err := ctrl.storeService.GetStoresByUserID(userID)
	if err != nil {
		log.Error("Failed to list my stores", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores": toStoreViews(stores),
		"count":  len(stores),
	})
}

// DeleteStore DELETE /api/v1/stores/:id
func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "잘못된 가맹점 ID입니다")
		return
	}

	if err := ctrl.storeService.DeleteStore(uint(id), userID, middleware.IsAdmin(c)); err != nil {
		switch err {
		case service.ErrStoreNotFound:
			errors.NotFound(c, errors.StoreNotFound, "가맹점을 찾을 수 없습니다")
		case service.ErrStoreAccessDenied:
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzOwnerOnly, "등록자 본인 또는 관리자만 삭제할 수 있습니다")
		default:
			log.Error("Failed to delete store", err, map[string]interface{}{
				"store_id": id,
			})
			errors.InternalError(c, "")
		}
		return
	}

	log.Info("Store deleted", map[string]interface{}{
		"store_id": id,
		"user_id":  userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "가맹점이 삭제되었습니다",
	})
}
