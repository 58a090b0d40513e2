package models

import (
	"time"
)

type Item struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OwnerID   uint      `json:"owner_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	ImageURL  *string   `json:"image_url" gorm:"size:500"`
	Link      *string   `json:"link" gorm:"size:500"`
	Location  *string   `json:"location" gorm:"size:255"`
	IsChecked bool      `json:"is_checked" gorm:"default:false;index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Owner  User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Tags   []Tag        `json:"tags,omitempty" gorm:"many2many:item_tags;"`
	Shares []SharedItem `json:"shares,omitempty" gorm:"foreignKey:ItemID"`

	// 计算字段
	Rank string `json:"rank,omitempty" gorm:"-"`
}

type ItemCreateRequest struct {
	Title    string   `json:"title" validate:"required,max=255"`
	Content  string   `json:"content"`
	ImageURL *string  `json:"image_url" validate:"omitempty,url"`
	Link     *string  `json:"link" validate:"omitempty,url"`
	Location *string  `json:"location" validate:"omitempty,max=255"`
	Tags     []string `json:"tags" validate:"dive,tagname,max=50"`
	// 所属智能清单，其过滤标签会并入新条目
	ListID *uint `json:"list_id"`
}

// ItemUpdateRequest 部分更新：仅应用请求中出现的字段
type ItemUpdateRequest struct {
	Title     *string   `json:"title" validate:"omitempty,max=255"`
	Content   *string   `json:"content"`
	ImageURL  *string   `json:"image_url" validate:"omitempty,url"`
	Link      *string   `json:"link" validate:"omitempty,url"`
	Location  *string   `json:"location" validate:"omitempty,max=255"`
	IsChecked *bool     `json:"is_checked"`
	Tags      *[]string `json:"tags" validate:"omitempty,dive,tagname,max=50"`
}

type ItemListRequest struct {
	Page    int    `form:"page" validate:"min=1"`
	Limit   int    `form:"limit" validate:"min=1,max=100"`
	TagID   *uint  `form:"tag_id"`
	Checked *bool  `form:"checked"`
	Search  string `form:"search"`
	Sort    string `form:"sort" validate:"omitempty,oneof=created_at updated_at title"`
	Order   string `form:"order" validate:"omitempty,oneof=asc desc"`
}

type ImportRow struct {
	Title   string   `json:"title" validate:"required,max=255"`
	Content string   `json:"content"`
	Link    *string  `json:"link" validate:"omitempty,url"`
	Tags    []string `json:"tags" validate:"dive,tagname,max=50"`
}

type ImportRequest struct {
	ContextID uint        `json:"context_id" validate:"required"`
	Items     []ImportRow `json:"items" validate:"required,min=1,max=200,dive"`
}

type UserStats struct {
	TotalItems     int64 `json:"total_items"`
	CheckedItems   int64 `json:"checked_items"`
	UncheckedItems int64 `json:"unchecked_items"`
	TotalLists     int64 `json:"total_lists"`
	SmartLists     int64 `json:"smart_lists"`
	TagsUsed       int64 `json:"tags_used"`
	SharesGiven    int64 `json:"shares_given"`
	SharesReceived int64 `json:"shares_received"`
}
