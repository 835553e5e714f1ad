package service

import (
	"errors"
	"testing"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/internal/app/repository"
	"github.com/hjkwon/paymap-backend/internal/db"
	"github.com/hjkwon/paymap-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubGeocoder 테스트용 고정 좌표 지오코더
type stubGeocoder struct {
	latitude  float64
	longitude float64
	err       error
}

func (g *stubGeocoder) Geocode(address string) (float64, float64, error) {
	if g.err != nil {
		return 0, 0, g.err
	}
	return g.latitude, g.longitude, nil
}

type recordingNotifier struct {
	created       []uint
	statusChanged []uint
	deleted       []uint
}

func (n *recordingNotifier) NotifyStoreCreated(store *model.Store) {
	n.created = append(n.created, store.ID)
}

func (n *recordingNotifier) NotifyStoreStatusChanged(store *model.Store) {
	n.statusChanged = append(n.statusChanged, store.ID)
}

func (n *recordingNotifier) NotifyStoreDeleted(storeID uint) {
	n.deleted = append(n.deleted, storeID)
}

func setupStoreServiceTest(t *testing.T) (StoreService, *gorm.DB, *stubGeocoder, *recordingNotifier) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	geocoder := &stubGeocoder{latitude: 37.498, longitude: 127.027}
	notifier := &recordingNotifier{}
	storeRepo := repository.NewStoreRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	storeService := NewStoreService(storeRepo, userRepo, geocoder, notifier)

	return storeService, testDB, geocoder, notifier
}

func TestStoreService_CreateStore(t *testing.T) {
	storeService, testDB, geocoder, notifier := setupStoreServiceTest(t)
	user := createTestUser(t, testDB, "owner@example.com")

	t.Run("Creates pending store with geocoded coordinates", func(t *testing.T) {
		result, err := storeService.CreateStore(user.ID, CreateStoreInput{
			Name:             "스타벅스 강남점",
			Address:          "서울특별시 강남구 강남대로 390",
			Category:         model.CategoryCafe,
			ZeropaySupported: true,
			BipaySupported:   true,
		})
		require.NoError(t, err)
		require.NotNil(t, result.Store)

		assert.Equal(t, model.StatusPending, result.Store.Status)
		assert.Equal(t, model.NeutralTrustScore, result.Store.TrustScore)
		assert.Equal(t, 37.498, result.Store.Latitude)
		assert.Equal(t, 127.027, result.Store.Longitude)
		assert.Equal(t, model.SourceManual, result.Store.SourceType)
		assert.Nil(t, result.Duplicate)
		assert.Contains(t, notifier.created, result.Store.ID)

		// 등록자 카운터 증가
		var owner model.User
		require.NoError(t, testDB.First(&owner, user.ID).Error)
		assert.Equal(t, 1, owner.StoreCount)
	})

	t.Run("Flags possible duplicate but still creates", func(t *testing.T) {
		result, err := storeService.CreateStore(user.ID, CreateStoreInput{
			Name:     "스타벅스",
			Address:  "부산광역시 해운대구 해운대로 100",
			Category: model.CategoryCafe,
		})
		require.NoError(t, err)
		require.NotNil(t, result.Store)
		require.NotNil(t, result.Duplicate)
		assert.Equal(t, "스타벅스 강남점", result.Duplicate.Name)
	})

	t.Run("Geocoding failure aborts creation", func(t *testing.T) {
		geocoder.err = util.ErrAddressNotFound
		defer func() { geocoder.err = nil }()

		var before int64
		require.NoError(t, testDB.Model(&model.Store{}).Count(&before).Error)

		result, err := storeService.CreateStore(user.ID, CreateStoreInput{
			Name:     "없는주소가게",
			Address:  "존재하지 않는 주소 999",
			Category: model.CategoryEtc,
		})
		assert.ErrorIs(t, err, util.ErrAddressNotFound)
		assert.Nil(t, result)

		var after int64
		require.NoError(t, testDB.Model(&model.Store{}).Count(&after).Error)
		assert.Equal(t, before, after)
	})
}

func TestStoreService_CheckDuplicate(t *testing.T) {
	storeService, testDB, _, _ := setupStoreServiceTest(t)
	user := createTestUser(t, testDB, "dup@example.com")
	createTestStore(t, testDB, user.ID, "커피한잔 역삼점")

	t.Run("Substring match on name", func(t *testing.T) {
		dup, err := storeService.CheckDuplicate("커피한잔", "전혀 다른 주소")
		require.NoError(t, err)
		require.NotNil(t, dup)
		assert.Equal(t, "커피한잔 역삼점", dup.Name)
	})

	t.Run("Substring match on address", func(t *testing.T) {
		dup, err := storeService.CheckDuplicate("전혀다른이름", "테헤란로 123")
		require.NoError(t, err)
		require.NotNil(t, dup)
	})

	t.Run("Blank inputs never match", func(t *testing.T) {
		dup, err := storeService.CheckDuplicate("   ", "테헤란로 123")
		require.NoError(t, err)
		assert.Nil(t, dup)
	})

	t.Run("Rejected stores are not duplicate candidates", func(t *testing.T) {
		rejected := createTestStore(t, testDB, user.ID, "반려된가게")
		require.NoError(t, testDB.Model(rejected).Update("status", model.StatusRejected).Error)

		dup, err := storeService.CheckDuplicate("반려된가게", "주소 없음")
		require.NoError(t, err)
		assert.Nil(t, dup)
	})
}

func TestStoreService_GetStores(t *testing.T) {
	storeService, testDB, _, _ := setupStoreServiceTest(t)
	user := createTestUser(t, testDB, "list@example.com")

	pending := createTestStore(t, testDB, user.ID, "대기중가게")
	verified := createTestStore(t, testDB, user.ID, "확인된가게")
	require.NoError(t, testDB.Model(verified).Update("status", model.StatusVerified).Error)
	rejected := createTestStore(t, testDB, user.ID, "반려가게")
	require.NoError(t, testDB.Model(rejected).Update("status", model.StatusRejected).Error)
	closed := createTestStore(t, testDB, user.ID, "폐업가게")
	require.NoError(t, testDB.Model(closed).Update("status", model.StatusClosed).Error)

	t.Run("Default listing shows only pending and verified", func(t *testing.T) {
		result, err := storeService.GetStores(StoreListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), result.TotalCount)

		names := make([]string, 0, len(result.Stores))
		for _, s := range result.Stores {
			names = append(names, s.Name)
		}
		assert.ElementsMatch(t, []string{pending.Name, verified.Name}, names)
	})

	t.Run("Explicit status filter overrides default", func(t *testing.T) {
		result, err := storeService.GetStores(StoreListFilter{
			Statuses: []model.StoreStatus{model.StatusRejected},
		})
		require.NoError(t, err)
		require.Len(t, result.Stores, 1)
		assert.Equal(t, rejected.Name, result.Stores[0].Name)
	})

	t.Run("Radius filter excludes far and unresolved stores", func(t *testing.T) {
		far := createTestStore(t, testDB, user.ID, "부산가게")
		require.NoError(t, testDB.Model(far).
			Updates(map[string]interface{}{"latitude": 35.1796, "longitude": 129.0756}).Error)

		unresolved := createTestStore(t, testDB, user.ID, "좌표미확정가게")
		require.NoError(t, testDB.Model(unresolved).
			Updates(map[string]interface{}{"latitude": 0, "longitude": 0}).Error)

		// 강남 좌표 기준 2km 반경
		result, err := storeService.GetStores(StoreListFilter{
			Latitude:  37.5,
			Longitude: 127.04,
			RadiusKm:  2,
		})
		require.NoError(t, err)

		for _, s := range result.Stores {
			assert.NotEqual(t, far.Name, s.Name)
			assert.NotEqual(t, unresolved.Name, s.Name)
		}
		assert.Equal(t, int64(2), result.TotalCount)
	})
}

func TestStoreService_DeleteStore(t *testing.T) {
	storeService, testDB, _, notifier := setupStoreServiceTest(t)
	owner := createTestUser(t, testDB, "del-owner@example.com")
	stranger := createTestUser(t, testDB, "del-stranger@example.com")

	t.Run("Non-owner cannot delete and nothing changes", func(t *testing.T) {
		store := createTestStore(t, testDB, owner.ID, "남의가게")
		addVerification(t, testDB, store.ID, owner.ID, true)

		err := storeService.DeleteStore(store.ID, stranger.ID, false)
		assert.ErrorIs(t, err, ErrStoreAccessDenied)

		var count int64
		require.NoError(t, testDB.Model(&model.Verification{}).Where("store_id = ?", store.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Owner delete cascades verifications and comments", func(t *testing.T) {
		store := createTestStore(t, testDB, owner.ID, "내가게")
		addVerification(t, testDB, store.ID, owner.ID, true)
		addComment(t, testDB, store.ID, stranger.ID, boolPtr(true))

		require.NoError(t, storeService.DeleteStore(store.ID, owner.ID, false))

		var verCount, cmtCount int64
		require.NoError(t, testDB.Model(&model.Verification{}).Where("store_id = ?", store.ID).Count(&verCount).Error)
		require.NoError(t, testDB.Model(&model.StoreComment{}).Where("store_id = ?", store.ID).Count(&cmtCount).Error)
		assert.Equal(t, int64(0), verCount)
		assert.Equal(t, int64(0), cmtCount)

		_, err := storeService.GetStoreByID(store.ID)
		assert.ErrorIs(t, err, ErrStoreNotFound)
		assert.Contains(t, notifier.deleted, store.ID)
	})

	t.Run("Admin can delete any store", func(t *testing.T) {
		store := createTestStore(t, testDB, owner.ID, "관리자삭제가게")
		require.NoError(t, storeService.DeleteStore(store.ID, stranger.ID, true))

		_, err := storeService.GetStoreByID(store.ID)
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})
}

func TestStoreService_UpdateStatus(t *testing.T) {
	storeService, testDB, _, notifier := setupStoreServiceTest(t)
	user := createTestUser(t, testDB, "status@example.com")
	store := createTestStore(t, testDB, user.ID, "상태변경가게")

	t.Run("Valid transition", func(t *testing.T) {
		updated, err := storeService.UpdateStatus(store.ID, model.StatusVerified)
		require.NoError(t, err)
		assert.Equal(t, model.StatusVerified, updated.Status)
		assert.Contains(t, notifier.statusChanged, store.ID)
	})

	t.Run("Any-to-any transitions are allowed", func(t *testing.T) {
		_, err := storeService.UpdateStatus(store.ID, model.StatusClosed)
		require.NoError(t, err)
		updated, err := storeService.UpdateStatus(store.ID, model.StatusPending)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, updated.Status)
	})

	t.Run("Invalid status value", func(t *testing.T) {
		_, err := storeService.UpdateStatus(store.ID, model.StoreStatus("banana"))
		assert.ErrorIs(t, err, ErrInvalidStoreStatus)
	})

	t.Run("Missing store", func(t *testing.T) {
		_, err := storeService.UpdateStatus(99999, model.StatusVerified)
		assert.ErrorIs(t, err, ErrStoreNotFound)
	})
}

func TestStoreService_GetStoresByUserID(t *testing.T) {
	storeService, testDB, _, _ := setupStoreServiceTest(t)
	mine := createTestUser(t, testDB, "mine@example.com")
	other := createTestUser(t, testDB, "other@example.com")

	createTestStore(t, testDB, mine.ID, "내등록1")
	createTestStore(t, testDB, mine.ID, "내등록2")
	createTestStore(t, testDB, other.ID, "남의등록")

	stores, err := storeService.GetStoresByUserID(mine.ID)
	require.NoError(t, err)
	assert.Len(t, stores, 2)
	for _, s := range stores {
		assert.Equal(t, mine.ID, s.UserID)
	}
}

func TestStoreService_GetStoreByID_NotFound(t *testing.T) {
	storeService, _, _, _ := setupStoreServiceTest(t)
	_, err := storeService.GetStoreByID(12345)
	assert.True(t, errors.Is(err, ErrStoreNotFound))
}
