// internal/services/tag_service.go
package services

import (
	"fmt"

	"github.com/Longchamps99/list-app-sub001/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// FindOrCreate 按归一化后的名称取或建标签。
// 通过 name 唯一索引 + ON CONFLICT DO NOTHING 落库，
// 并发同名调用不会产生重复行。
func (s *TagService) FindOrCreate(tx *gorm.DB, name string) (*models.Tag, error) {
	normalized := NormalizeTagName(name)
	if normalized == "" {
		return nil, failf("标签名不能为空")
	}

	tag := models.Tag{Name: normalized}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tag).Error
	if err != nil {
		return nil, err
	}

	// 冲突时插入被跳过，回读已存在的行
	if tag.ID == 0 {
		if err := tx.Where("name = ?", normalized).First(&tag).Error; err != nil {
			return nil, err
		}
	}

	return &tag, nil
}

// FindOrCreateAll 解析一组标签名，去重后返回对应标签
func (s *TagService) FindOrCreateAll(tx *gorm.DB, names []string) ([]models.Tag, error) {
	seen := make(map[string]bool)
	var tags []models.Tag

	for _, name := range names {
		normalized := NormalizeTagName(name)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true

		tag, err := s.FindOrCreate(tx, normalized)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	return tags, nil
}

// TagWithCount 用于接收联表查询结果
type TagWithCount struct {
	models.Tag
	ItemCount int `gorm:"column:item_count"`
}

// GetTags 返回该用户条目用到的标签及条目数量
func (s *TagService) GetTags(userID uint) ([]models.Tag, error) {
	var tagsWithCount []TagWithCount

	err := s.db.Table("tags").
		Select("tags.*, COUNT(DISTINCT item_tags.item_id) as item_count").
		Joins("JOIN item_tags ON tags.id = item_tags.tag_id").
		Joins("JOIN items ON item_tags.item_id = items.id").
		Where("items.owner_id = ?", userID).
		Group("tags.id, tags.name, tags.created_at").
		Order("tags.name").
		Find(&tagsWithCount).Error

	if err != nil {
		return nil, err
	}

	var tags []models.Tag
	for _, tagWithCount := range tagsWithCount {
		tag := tagWithCount.Tag
		tag.ItemCount = tagWithCount.ItemCount
		tags = append(tags, tag)
	}

	return tags, nil
}

// MergeDuplicates 离线修复工具：合并仅大小写不同的重复标签。
// 将重复标签的条目关联和清单过滤关联全部改指到规范行，
// 确认旧行无任何残留引用后才删除。只应从 cmd/tagfix 调用。
func (s *TagService) MergeDuplicates() (int, error) {
	merged := 0

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var tags []models.Tag
		if err := tx.Order("id").Find(&tags).Error; err != nil {
			return err
		}

		// 归一化名称 -> 规范标签（最早创建的小写行优先）
		canonical := make(map[string]*models.Tag)
		var duplicates []models.Tag
		for i := range tags {
			normalized := NormalizeTagName(tags[i].Name)
			existing, ok := canonical[normalized]
			if !ok {
				canonical[normalized] = &tags[i]
				continue
			}
			if existing.Name != normalized && tags[i].Name == normalized {
				// 已登记的不是小写行，换成小写行，原先的变为重复
				duplicates = append(duplicates, *existing)
				canonical[normalized] = &tags[i]
			} else {
				duplicates = append(duplicates, tags[i])
			}
		}

		for _, dup := range duplicates {
			normalized := NormalizeTagName(dup.Name)
			target := canonical[normalized]

			if err := reassignTag(tx, "item_tags", "item_id", dup.ID, target.ID); err != nil {
				return err
			}
			if err := reassignTag(tx, "list_filter_tags", "list_id", dup.ID, target.ID); err != nil {
				return err
			}

			// 前置条件：无残留引用才允许删除
			var remaining int64
			if err := tx.Table("item_tags").Where("tag_id = ?", dup.ID).Count(&remaining).Error; err != nil {
				return err
			}
			if remaining > 0 {
				return fmt.Errorf("标签 %d 仍有 %d 条关联，拒绝删除", dup.ID, remaining)
			}

			if err := tx.Delete(&models.Tag{}, dup.ID).Error; err != nil {
				return err
			}

			// 规范行名称也统一成小写
			if target.Name != normalized {
				if err := tx.Model(&models.Tag{}).Where("id = ?", target.ID).Update("name", normalized).Error; err != nil {
					return err
				}
				target.Name = normalized
			}

			logrus.WithFields(logrus.Fields{
				"from": dup.ID,
				"to":   target.ID,
				"name": normalized,
			}).Info("重复标签已合并")
			merged++
		}

		return nil
	})

	return merged, err
}

// reassignTag 把关联表中 fromID 的行改指到 toID，目标已有同样关联时直接删除
func reassignTag(tx *gorm.DB, table, entityColumn string, fromID, toID uint) error {
	// 先删掉会与目标冲突的行
	dupSQL := fmt.Sprintf(
		"DELETE FROM %s WHERE tag_id = ? AND %s IN (SELECT %s FROM (SELECT %s FROM %s WHERE tag_id = ?) conflicted)",
		table, entityColumn, entityColumn, entityColumn, table)
	if err := tx.Exec(dupSQL, fromID, toID).Error; err != nil {
		return err
	}

	updateSQL := fmt.Sprintf("UPDATE %s SET tag_id = ? WHERE tag_id = ?", table)
	return tx.Exec(updateSQL, toID, fromID).Error
}
