package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hjkwon/paymap-backend/internal/errors"
	"github.com/hjkwon/paymap-backend/internal/middleware"
	"github.com/hjkwon/paymap-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // evidence(기본) 또는 source
}

// GeneratePresignedURL POST /api/v1/upload/image
// 검증 증빙/등록 출처 이미지를 올릴 수 있는 presigned PUT URL을 발급한다.
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "파일명과 content_type은 필수입니다")
		return
	}

	allowedTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}
	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		errors.BadRequest(c, errors.UploadInvalidFileType, "이미지 파일만 업로드할 수 있습니다 (JPEG, PNG, GIF, WEBP)")
		return
	}

	folder := req.Folder
	switch folder {
	case "", "evidence":
		folder = "evidence"
	case "source":
	default:
		errors.BadRequest(c, errors.ValidationInvalidInput, "업로드 폴더는 evidence 또는 source만 가능합니다")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		errors.RespondWithError(c, http.StatusInternalServerError, errors.UploadFailed, "업로드 URL 발급에 실패했습니다")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"filename": req.Filename,
		"folder":   folder,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}
