package models

import (
	"time"
)

// Tag 全局标签表，name 存储归一化（去空格+小写）后的值
type Tag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex:uk_tags_name"`
	CreatedAt time.Time `json:"created_at"`

	// 关联
	Items []Item `json:"items,omitempty" gorm:"many2many:item_tags;"`
	Lists []List `json:"lists,omitempty" gorm:"many2many:list_filter_tags;"`

	// 计算字段
	ItemCount int `json:"item_count,omitempty" gorm:"-"`
}

func (Tag) TableName() string {
	return "tags"
}
