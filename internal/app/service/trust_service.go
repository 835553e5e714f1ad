package service

import (
	"errors"
	"math"
	"time"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/pkg/logger"
	"gorm.io/gorm"
)

// TrustService 가맹점 신뢰도 집계.
// 검증 기록과 결제 성공 여부가 설정된 댓글을 합산해 점수를 다시 계산한다.
// 재계산은 현재 살아 있는 기록만으로 결정되므로 몇 번을 호출해도 결과가 같다.
type TrustService interface {
	RecomputeStoreStats(storeID uint) error
	RecomputeAll() (int, error)
}

type trustService struct {
	db *gorm.DB
}

func NewTrustService(db *gorm.DB) TrustService {
	return &trustService{db: db}
}

func (s *trustService) RecomputeStoreStats(storeID uint) error {
	logger.Debug("Recomputing store trust stats", map[string]interface{}{
		"store_id": storeID,
	})

	return s.db.Transaction(func(tx *gorm.DB) error {
		var store model.Store
		if err := tx.Select("id").First(&store, storeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 가맹점 삭제와 경합한 경우. 집계할 대상이 없으니 조용히 넘어간다.
				logger.Debug("Store gone before recompute, skipping", map[string]interface{}{
					"store_id": storeID,
				})
				return nil
			}
			return err
		}

		var verTotal, verPositive int64
		if err := tx.Model(&model.Verification{}).
			Where("store_id = ?", storeID).
			Count(&verTotal).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Verification{}).
			Where("store_id = ? AND is_verified = ?", storeID, true).
			Count(&verPositive).Error; err != nil {
			return err
		}

		var cmtTotal, cmtPositive int64
		if err := tx.Model(&model.StoreComment{}).
			Where("store_id = ? AND payment_success IS NOT NULL", storeID).
			Count(&cmtTotal).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.StoreComment{}).
			Where("store_id = ? AND payment_success = ?", storeID, true).
			Count(&cmtPositive).Error; err != nil {
			return err
		}

		total := verTotal + cmtTotal
		positive := verPositive + cmtPositive
		negative := total - positive

		updates := map[string]interface{}{
			"verification_count": total,
			"positive_count":     positive,
			"negative_count":     negative,
		}
		if total == 0 {
			// 신호가 하나도 없으면 중립 점수로 되돌린다.
			// last_verified_at은 건드리지 않는다: 방금 기록이 사라졌다고
			// "지금 검증됨"을 찍으면 거짓 타임스탬프가 된다.
			updates["trust_score"] = model.NeutralTrustScore
		} else {
			updates["trust_score"] = int(math.Round(float64(positive) / float64(total) * 100))
			updates["last_verified_at"] = time.Now()
		}

		if err := tx.Model(&model.Store{}).
			Where("id = ?", storeID).
			UpdateColumns(updates).Error; err != nil {
			logger.Error("Failed to update store trust stats", err, map[string]interface{}{
				"store_id": storeID,
			})
			return err
		}

		logger.Info("Store trust stats recomputed", map[string]interface{}{
			"store_id":    storeID,
			"total":       total,
			"positive":    positive,
			"negative":    negative,
			"trust_score": updates["trust_score"],
		})
		return nil
	})
}

// RecomputeAll 전체 가맹점을 순회하며 집계를 다시 계산한다.
// 개별 실패 시 요청 경로에서 남은 stats_stale 상태를 여기서 수습한다.
func (s *trustService) RecomputeAll() (int, error) {
	var ids []uint
	if err := s.db.Model(&model.Store{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	recomputed := 0
	for _, id := range ids {
		if err := s.RecomputeStoreStats(id); err != nil {
			logger.Warn("Skipping store during bulk recompute", map[string]interface{}{
				"store_id": id,
				"error":    err.Error(),
			})
			continue
		}
		recomputed++
	}

	logger.Info("Bulk trust recompute finished", map[string]interface{}{
		"total":      len(ids),
		"recomputed": recomputed,
	})
	return recomputed, nil
}
