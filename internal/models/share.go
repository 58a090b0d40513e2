package models

import (
	"time"
)

// SharedItem 条目级授权，(user_id, item_id) 唯一
type SharedItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:uk_shared_items"`
	ItemID    uint      `json:"item_id" gorm:"not null;uniqueIndex:uk_shared_items;index"`
	SharedBy  uint      `json:"shared_by" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	// 关联
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Item Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

// SharedList 清单级授权，(user_id, list_id) 唯一
type SharedList struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:uk_shared_lists"`
	ListID    uint      `json:"list_id" gorm:"not null;uniqueIndex:uk_shared_lists;index"`
	SharedBy  uint      `json:"shared_by" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`

	// 关联
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	List List `json:"list,omitempty" gorm:"foreignKey:ListID"`
}

const (
	ShareTokenKindItem = "item"
	ShareTokenKindList = "list"
)

// ShareToken 匿名分享令牌：持有即可访问，不绑定身份
type ShareToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Token     string    `json:"token" gorm:"size:64;uniqueIndex;not null"`
	Kind      string    `json:"kind" gorm:"size:10;not null"`
	EntityID  uint      `json:"entity_id" gorm:"not null;index"`
	CreatorID uint      `json:"creator_id" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

type ShareCreateRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ShareTokenResponse struct {
	Token     string    `json:"token"`
	ShareURL  string    `json:"share_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
