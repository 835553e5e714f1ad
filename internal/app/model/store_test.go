package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrustLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		score int
		count int
		want  TrustLevel
	}{
		{"검증 없음", 50, 0, TrustUnverified},
		{"검증 없음 점수 무관", 100, 0, TrustUnverified},
		{"높음 경계", 70, 3, TrustHigh},
		{"높음", 100, 10, TrustHigh},
		{"중간 경계", 40, 3, TrustMedium},
		{"중간 상한", 69, 3, TrustMedium},
		{"낮음 상한", 39, 3, TrustLow},
		{"낮음", 0, 5, TrustLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrustLevelFor(tt.score, tt.count))
		})
	}
}

func TestStore_TrustLevel(t *testing.T) {
	store := &Store{TrustScore: 75, VerificationCount: 4}
	assert.Equal(t, TrustHigh, store.TrustLevel())

	// 신규 가맹점은 중립 점수여도 unverified
	fresh := &Store{TrustScore: NeutralTrustScore, VerificationCount: 0}
	assert.Equal(t, TrustUnverified, fresh.TrustLevel())
}

func TestStore_HasCoordinates(t *testing.T) {
	assert.False(t, (&Store{}).HasCoordinates())
	assert.True(t, (&Store{Latitude: 37.5, Longitude: 127.03}).HasCoordinates())
	assert.True(t, (&Store{Latitude: 0, Longitude: 127.03}).HasCoordinates())
}

func TestIsValidStoreStatus(t *testing.T) {
	for _, s := range []string{"pending", "verified", "rejected", "closed"} {
		assert.True(t, IsValidStoreStatus(s), s)
	}
	assert.False(t, IsValidStoreStatus("banana"))
	assert.False(t, IsValidStoreStatus(""))
}

func TestStoreComment_CountsTowardTrust(t *testing.T) {
	success := true
	assert.True(t, (&StoreComment{PaymentSuccess: &success}).CountsTowardTrust())
	assert.False(t, (&StoreComment{}).CountsTowardTrust())
}
