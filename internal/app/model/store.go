package model

import (
	"time"

	"gorm.io/gorm"
)

// StoreStatus 가맹점 상태
type StoreStatus string

const (
	StatusPending  StoreStatus = "pending"  // 등록 직후 (기본)
	StatusVerified StoreStatus = "verified" // 관리자 확인 완료
	StatusRejected StoreStatus = "rejected" // 반려됨 (기본 목록에서 제외)
	StatusClosed   StoreStatus = "closed"   // 폐업
)

// IsValidStoreStatus 상태값 유효성 검사
func IsValidStoreStatus(s string) bool {
	switch StoreStatus(s) {
	case StatusPending, StatusVerified, StatusRejected, StatusClosed:
		return true
	}
	return false
}

// SourceType 가맹점 등록 출처
type SourceType string

const (
	SourceManual SourceType = "manual" // 직접 입력
	SourceOCR    SourceType = "ocr"    // 이미지 인식
	SourceExcel  SourceType = "excel"  // 엑셀 일괄 등록
	SourceAPI    SourceType = "api"    // 외부 API
)

// StoreCategory 가맹점 업종
type StoreCategory string

const (
	CategoryRestaurant  StoreCategory = "음식점"
	CategoryCafe        StoreCategory = "카페"
	CategoryConvenience StoreCategory = "편의점"
	CategoryMart        StoreCategory = "마트"
	CategoryPharmacy    StoreCategory = "약국"
	CategoryHairSalon   StoreCategory = "미용실"
	CategoryHospital    StoreCategory = "병원"
	CategoryGasStation  StoreCategory = "주유소"
	CategoryEtc         StoreCategory = "기타"
)

// StoreCategories 선택 가능한 업종 목록
func StoreCategories() []StoreCategory {
	return []StoreCategory{
		CategoryRestaurant,
		CategoryCafe,
		CategoryConvenience,
		CategoryMart,
		CategoryPharmacy,
		CategoryHairSalon,
		CategoryHospital,
		CategoryGasStation,
		CategoryEtc,
	}
}

// NeutralTrustScore 검증 기록이 하나도 없는 가맹점의 기본 신뢰도.
// 0으로 두면 신규 가맹점이 최저 신뢰 가맹점처럼 보이므로 중립값 50을 사용한다.
const NeutralTrustScore = 50

type Store struct {
	ID     uint  `gorm:"primarykey" json:"id"` // 고유 가맹점 ID
	UserID uint  `gorm:"index;not null" json:"user_id"` // 등록자 ID
	User   User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`

	Name          string        `gorm:"not null;index" json:"name"`            // 가맹점명
	Address       string        `gorm:"type:text;not null;index" json:"address"` // 주소
	AddressDetail string        `json:"address_detail"`                        // 상세 주소 (동/호수 등)
	Latitude      float64       `gorm:"type:decimal(10,8);default:0" json:"latitude"`  // 위도 (WGS84, 0이면 미확정)
	Longitude     float64       `gorm:"type:decimal(11,8);default:0" json:"longitude"` // 경도 (WGS84, 0이면 미확정)
	Phone         string        `gorm:"type:varchar(30)" json:"phone"`         // 연락처
	Category      StoreCategory `gorm:"type:varchar(20);index;not null" json:"category"` // 업종
	SubCategory   string        `gorm:"type:varchar(50)" json:"sub_category"`  // 세부 업종 (자유 입력)
	BusinessNumber string       `gorm:"type:varchar(20)" json:"business_number"` // 사업자등록번호

	// 결제수단 지원 여부
	ZeropaySupported bool `gorm:"default:true" json:"zeropay_supported"` // 제로페이 지원
	BipaySupported   bool `gorm:"default:true" json:"bipay_supported"`   // 비플페이 지원

	// 신뢰도 집계 (파생값 - 재계산으로만 갱신)
	TrustScore        int        `gorm:"default:50" json:"trust_score"`        // 신뢰도 (0-100)
	VerificationCount int        `gorm:"default:0" json:"verification_count"`  // 전체 검증 수
	PositiveCount     int        `gorm:"default:0" json:"positive_count"`      // 결제 성공 수
	NegativeCount     int        `gorm:"default:0" json:"negative_count"`      // 결제 실패 수
	LastVerifiedAt    *time.Time `json:"last_verified_at,omitempty"`           // 마지막 검증 시각

	Status         StoreStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"` // 상태
	SourceType     SourceType  `gorm:"type:varchar(20);default:'manual'" json:"source_type"`   // 등록 출처
	SourceImageURL string      `gorm:"type:text" json:"source_image_url,omitempty"`            // 출처 증빙 이미지

	CreatedAt time.Time      `json:"created_at"`     // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"`     // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // 삭제 시각(소프트 삭제)
}

func (Store) TableName() string {
	return "stores"
}

// HasCoordinates (0,0)은 주소 미해석 상태를 뜻하는 센티널 값이므로
// 지도 표시나 거리 계산에 실제 좌표로 쓰면 안 된다.
func (s *Store) HasCoordinates() bool {
	return s.Latitude != 0 || s.Longitude != 0
}

// TrustLevel 지도 마커/뱃지용 신뢰도 구간
type TrustLevel string

const (
	TrustHigh       TrustLevel = "high"       // 녹색
	TrustMedium     TrustLevel = "medium"     // 노랑
	TrustLow        TrustLevel = "low"        // 빨강
	TrustUnverified TrustLevel = "unverified" // 회색
)

// TrustLevelFor 신뢰도 점수와 검증 횟수를 표시 구간으로 변환한다.
// 저장하지 않고 항상 현재 점수/횟수에서 재계산한다.
func TrustLevelFor(score, count int) TrustLevel {
	if count == 0 {
		return TrustUnverified
	}
	if score >= 70 {
		return TrustHigh
	}
	if score >= 40 {
		return TrustMedium
	}
	return TrustLow
}

// TrustLevel 현재 집계값 기준 신뢰도 구간
func (s *Store) TrustLevel() TrustLevel {
	return TrustLevelFor(s.TrustScore, s.VerificationCount)
}
