package model

import (
	"time"

	"gorm.io/gorm"
)

// StoreComment 가맹점 댓글/후기.
// PaymentSuccess가 설정된 댓글만 신뢰도 집계에 반영되고,
// Rating은 표시용 정보일 뿐 신뢰도에는 영향을 주지 않는다.
type StoreComment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StoreID uint  `gorm:"not null;index" json:"store_id"` // 가맹점 ID
	Store   Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	UserID  uint  `gorm:"not null;index" json:"user_id"` // 작성자 ID
	User    User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Content        string     `gorm:"type:text;not null" json:"content"` // 댓글 내용
	Rating         *int       `json:"rating,omitempty"`                  // 평점 1-5 (선택, 표시용)
	PaymentSuccess *bool      `json:"payment_success,omitempty"`         // 결제 성공 여부 (선택, 집계 반영)
	VisitDate      *time.Time `json:"visit_date,omitempty"`              // 방문일 (선택)
}

func (StoreComment) TableName() string {
	return "store_comments"
}

// CountsTowardTrust 신뢰도 집계 대상 여부
func (c *StoreComment) CountsTowardTrust() bool {
	return c.PaymentSuccess != nil
}
