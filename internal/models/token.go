package models

import (
	"time"
)

// PasswordResetToken 单次有效，同一邮箱最多一个未过期令牌
type PasswordResetToken struct {
	Token     string    `json:"-" gorm:"primaryKey;size:64"`
	Email     string    `json:"email" gorm:"size:100;not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

// VerificationToken 邮箱验证令牌，机制同上
type VerificationToken struct {
	Token     string    `json:"-" gorm:"primaryKey;size:64"`
	Email     string    `json:"email" gorm:"size:100;not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}
