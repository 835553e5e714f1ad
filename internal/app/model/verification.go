package model

import (
	"time"
)

// Verification 결제 검증 기록.
// 한 사용자가 특정 가맹점에서 결제수단이 실제로 통했는지 보고한 단일 기록으로,
// 생성 후 수정할 수 없고 작성자 또는 관리자만 삭제할 수 있다.
type Verification struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	StoreID uint  `gorm:"not null;index" json:"store_id"` // 가맹점 ID
	Store   Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	UserID  uint  `gorm:"not null;index" json:"user_id"` // 작성자 ID
	User    User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	IsVerified       bool   `gorm:"not null" json:"is_verified"`       // 결제 성공 여부
	Comment          string `gorm:"type:text" json:"comment"`          // 한 줄 후기 (선택)
	EvidenceImageURL string `gorm:"type:text" json:"evidence_image_url,omitempty"` // 증빙 이미지 (선택)
}

func (Verification) TableName() string {
	return "verifications"
}
