package service

import (
	"testing"
	"time"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTrustServiceTest(t *testing.T) (TrustService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)
	return NewTrustService(testDB), testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "hashed",
		Nickname:     "nick-" + email,
		TrustLevel:   1,
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestStore(t *testing.T, testDB *gorm.DB, userID uint, name string) *model.Store {
	store := &model.Store{
		UserID:     userID,
		Name:       name,
		Address:    "서울특별시 강남구 테헤란로 123",
		Latitude:   37.5,
		Longitude:  127.04,
		Category:   model.CategoryCafe,
		TrustScore: model.NeutralTrustScore,
		Status:     model.StatusPending,
		SourceType: model.SourceManual,
	}
	require.NoError(t, testDB.Create(store).Error)
	return store
}

func boolPtr(b bool) *bool { return &b }

func addVerification(t *testing.T, testDB *gorm.DB, storeID, userID uint, ok bool) *model.Verification {
	v := &model.Verification{StoreID: storeID, UserID: userID, IsVerified: ok}
	require.NoError(t, testDB.Create(v).Error)
	return v
}

func addComment(t *testing.T, testDB *gorm.DB, storeID, userID uint, paymentSuccess *bool) *model.StoreComment {
	c := &model.StoreComment{
		StoreID:        storeID,
		UserID:         userID,
		Content:        "결제 잘 됩니다",
		PaymentSuccess: paymentSuccess,
	}
	require.NoError(t, testDB.Create(c).Error)
	return c
}

func reloadStore(t *testing.T, testDB *gorm.DB, id uint) *model.Store {
	var store model.Store
	require.NoError(t, testDB.First(&store, id).Error)
	return &store
}

func TestTrustService_RecomputeStoreStats(t *testing.T) {
	trustService, testDB := setupTrustServiceTest(t)
	user := createTestUser(t, testDB, "trust@example.com")

	t.Run("Verifications and flagged comments are aggregated", func(t *testing.T) {
		store := createTestStore(t, testDB, user.ID, "집계카페")

		// 검증 3건(성공 2, 실패 1) + 결제 플래그 댓글 1건(성공)
		addVerification(t, testDB, store.ID, user.ID, true)
		addVerification(t, testDB, store.ID, user.ID, true)
		addVerification(t, testDB, store.ID, user.ID, false)
		addComment(t, testDB, store.ID, user.ID, boolPtr(true))

		require.NoError(t, trustService.RecomputeStoreStats(store.ID))

		got := reloadStore(t, testDB, store.ID)
		assert.Equal(t, 4, got.VerificationCount)
		assert.Equal(t, 3, got.PositiveCount)
		assert.Equal(t, 1, got.NegativeCount)
		assert.Equal(t, 75, got.TrustScore) // round(3/4*100)
		require.NotNil(t, got.LastVerifiedAt)
		assert.WithinDuration(t, time.Now(), *got.LastVerifiedAt, 5*time.Second)
	})

	t.Run("Comments without payment flag are ignored", func(t *testing.T) {
		store := createTestStore(t, testDB, user.ID, "플래그없음")

		addComment(t, testDB, store.ID, user.ID, nil)
		addComment(t, testDB, store.ID, user.ID, nil)

		require.NoError(t, trustService.RecomputeStoreStats(store.ID))

		got := reloadStore(t, testDB, store.ID)
		assert.Equal(t, 0, got.VerificationCount)
		assert.Equal(t, model.NeutralTrustScore, got.TrustScore)
		assert.Nil(t, got.LastVerifiedAt)
	})

	t.Run("Zero signals resets to neutral and keeps last_verified_at", func(t *testing.T) {
		store := createTestStore(t, testDB, user.ID, "신호소멸")
		v := addVerification(t, testDB, store.ID, user.ID, true)
		require.NoError(t, trustService.RecomputeStoreStats(store.ID))

		before := reloadStore(t, testDB, store.ID)
		require.NotNil(t, before.LastVerifiedAt)
		previousVerifiedAt := *before.LastVerifiedAt

		// 마지막 신호 삭제 후 재계산: 점수는 중립으로, 타임스탬프는 그대로
		require.NoError(t, testDB.Delete(&model.Verification{}, v.ID).Error)
		require.NoError(t, trustService.RecomputeStoreStats(store.ID))

		got := reloadStore(t, testDB, store.ID)
		assert.Equal(t, model.NeutralTrustScore, got.TrustScore)
		assert.Equal(t, 0, got.VerificationCount)
		assert.Equal(t, 0, got.PositiveCount)
		assert.Equal(t, 0, got.NegativeCount)
		require.NotNil(t, got.LastVerifiedAt)
		assert.WithinDuration(t, previousVerifiedAt, *got.LastVerifiedAt, time.Second)
	})

	t.Run("Soft-deleted comments stop counting", func(t *testing.T) {
		store := createTestStore(t, testDB, user.ID, "삭제반영")
		c := addComment(t, testDB, store.ID, user.ID, boolPtr(false))
		require.NoError(t, trustService.RecomputeStoreStats(store.ID))
		assert.Equal(t, 0, reloadStore(t, testDB, store.ID).TrustScore)

		require.NoError(t, testDB.Delete(&model.StoreComment{}, c.ID).Error)
		require.NoError(t, trustService.RecomputeStoreStats(store.ID))

		got := reloadStore(t, testDB, store.ID)
		assert.Equal(t, model.NeutralTrustScore, got.TrustScore)
		assert.Equal(t, 0, got.VerificationCount)
	})

	t.Run("Recompute is idempotent", func(t *testing.T) {
		store := createTestStore(t, testDB, user.ID, "멱등성")
		addVerification(t, testDB, store.ID, user.ID, true)
		addVerification(t, testDB, store.ID, user.ID, false)

		require.NoError(t, trustService.RecomputeStoreStats(store.ID))
		first := reloadStore(t, testDB, store.ID)

		require.NoError(t, trustService.RecomputeStoreStats(store.ID))
		second := reloadStore(t, testDB, store.ID)

		assert.Equal(t, first.TrustScore, second.TrustScore)
		assert.Equal(t, first.VerificationCount, second.VerificationCount)
		assert.Equal(t, first.PositiveCount, second.PositiveCount)
		assert.Equal(t, first.NegativeCount, second.NegativeCount)
	})

	t.Run("Counters always reconcile", func(t *testing.T) {
		store := createTestStore(t, testDB, user.ID, "불변식")
		addVerification(t, testDB, store.ID, user.ID, true)
		addComment(t, testDB, store.ID, user.ID, boolPtr(false))
		addComment(t, testDB, store.ID, user.ID, nil)

		require.NoError(t, trustService.RecomputeStoreStats(store.ID))

		got := reloadStore(t, testDB, store.ID)
		assert.Equal(t, got.VerificationCount, got.PositiveCount+got.NegativeCount)
		assert.Equal(t, 50, got.TrustScore) // round(1/2*100)
	})

	t.Run("Missing store is a no-op", func(t *testing.T) {
		assert.NoError(t, trustService.RecomputeStoreStats(99999))
	})
}

func TestTrustService_RecomputeAll(t *testing.T) {
	trustService, testDB := setupTrustServiceTest(t)
	user := createTestUser(t, testDB, "bulk@example.com")

	storeA := createTestStore(t, testDB, user.ID, "일괄A")
	storeB := createTestStore(t, testDB, user.ID, "일괄B")
	addVerification(t, testDB, storeA.ID, user.ID, true)
	addVerification(t, testDB, storeB.ID, user.ID, false)

	recomputed, err := trustService.RecomputeAll()
	require.NoError(t, err)
	assert.Equal(t, 2, recomputed)

	assert.Equal(t, 100, reloadStore(t, testDB, storeA.ID).TrustScore)
	assert.Equal(t, 0, reloadStore(t, testDB, storeB.ID).TrustScore)
}
