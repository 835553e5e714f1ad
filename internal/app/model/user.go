package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 사용자 권한 타입

const (
	RoleUser  UserRole = "user"  // 일반 사용자 권한
	RoleAdmin UserRole = "admin" // 관리자 권한
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                        // 사용자 ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`           // 이메일
	PasswordHash string         `gorm:"not null" json:"-"`                           // 비밀번호 해시
	Nickname     string         `gorm:"uniqueIndex;not null" json:"nickname"`        // 닉네임 (자동 생성, 수정 가능)
	AvatarURL    string         `json:"avatar_url"`                                  // 프로필 이미지 URL
	TrustLevel   int            `gorm:"default:1" json:"trust_level"`                // 신뢰 등급 (관리자가 조정)
	Role         UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"` // 권한

	// 활동 카운터
	StoreCount        int `gorm:"default:0" json:"store_count"`        // 등록한 가맹점 수
	VerificationCount int `gorm:"default:0" json:"verification_count"` // 제출한 검증 수

	CreatedAt time.Time      `json:"created_at"`     // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"`     // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // 삭제 시각(소프트 삭제)

	Stores []Store `gorm:"foreignKey:UserID" json:"stores,omitempty"` // 등록한 가맹점 목록
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 관리자 여부
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
