package scheduler

import (
	"github.com/hjkwon/paymap-backend/internal/app/service"
	"github.com/hjkwon/paymap-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// StatsScheduler 신뢰도 집계 야간 재조정 스케줄러.
// 요청 경로에서 재계산이 실패해 stats_stale로 남은 가맹점을 여기서 수습한다.
type StatsScheduler struct {
	cron         *cron.Cron
	trustService service.TrustService
}

// NewStatsScheduler 집계 스케줄러 생성
func NewStatsScheduler(trustService service.TrustService) *StatsScheduler {
	return &StatsScheduler{
		cron:         cron.New(),
		trustService: trustService,
	}
}

// Start 스케줄러 시작
func (s *StatsScheduler) Start() error {
	// 매일 새벽 4시 전체 가맹점 재집계 (KST 기준, 트래픽 최저 시간대)
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		logger.Info("Starting scheduled trust stats reconciliation", nil)

		recomputed, err := s.trustService.RecomputeAll()
		if err != nil {
			logger.Error("Failed to reconcile trust stats from scheduler", err)
			return
		}

		logger.Info("Trust stats reconciliation finished", map[string]interface{}{
			"recomputed": recomputed,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for stats reconciliation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Stats scheduler started successfully (daily at 4:00 AM)", nil)

	return nil
}

// Stop 스케줄러 중지
func (s *StatsScheduler) Stop() {
	logger.Info("Stopping stats scheduler...", nil)
	s.cron.Stop()
	logger.Info("Stats scheduler stopped", nil)
}
