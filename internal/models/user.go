package models

import (
	"time"
)

type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Username      string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;size:100;not null"`
	PasswordHash  string    `json:"-" gorm:"size:255;not null"`
	EmailVerified bool      `json:"email_verified" gorm:"default:false"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联
	Items []Item `json:"items,omitempty" gorm:"foreignKey:OwnerID"`
	Lists []List `json:"lists,omitempty" gorm:"foreignKey:OwnerID"`
}

type UserRegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UserLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyConfirmRequest struct {
	Token string `json:"token" validate:"required"`
}
