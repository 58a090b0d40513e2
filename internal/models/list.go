package models

import (
	"time"
)

// List 普通清单与智能清单共用一张表：
// 智能清单带 FilterTags，成员为携带全部过滤标签的条目；
// FilterHash 为排序后的过滤标签 ID 列表，(owner_id, filter_hash)
// 唯一索引保证同一标签组合不会重复建智能清单。
type List struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OwnerID    uint      `json:"owner_id" gorm:"not null;index;uniqueIndex:uk_lists_owner_filter"`
	Title      string    `json:"title" gorm:"size:255;not null"`
	FilterHash *string   `json:"-" gorm:"size:500;uniqueIndex:uk_lists_owner_filter"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联
	Owner      User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	FilterTags []Tag        `json:"filter_tags,omitempty" gorm:"many2many:list_filter_tags;"`
	Items      []Item       `json:"items,omitempty" gorm:"many2many:list_items;"`
	Shares     []SharedList `json:"shares,omitempty" gorm:"foreignKey:ListID"`

	// 计算字段
	ItemCount int  `json:"item_count" gorm:"-"`
	IsSmart   bool `json:"is_smart" gorm:"-"`
}

type ListCreateRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}

type ListUpdateRequest struct {
	Title *string `json:"title" validate:"omitempty,max=255"`
}

type ListResolveRequest struct {
	Tags []string `json:"tags" validate:"required,min=1,max=20,dive,tagname,max=50"`
}

type ListPreviewRequest struct {
	Tags []string `form:"tags"`
}

type ListPreviewResponse struct {
	Items        []Item `json:"items"`
	MatchingTags []Tag  `json:"matching_tags"`
}
