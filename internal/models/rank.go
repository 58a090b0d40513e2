package models

import (
	"time"
)

// ItemRank 用户在某个上下文（清单）内对条目的手工排序。
// rank 为字典序可比较的排序键，插入新位置时无需重排已有行。
type ItemRank struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:uk_item_ranks"`
	ContextID uint      `json:"context_id" gorm:"not null;uniqueIndex:uk_item_ranks;index"`
	ItemID    uint      `json:"item_id" gorm:"not null;uniqueIndex:uk_item_ranks"`
	Rank      string    `json:"rank" gorm:"size:128;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RankUpdate struct {
	ItemID uint   `json:"item_id" validate:"required"`
	Rank   string `json:"rank" validate:"required,max=128"`
}

type ReorderRequest struct {
	Updates []RankUpdate `json:"updates" validate:"required,min=1,max=500,dive"`
}
