// internal/services/import_service.go - 批量导入
package services

import (
	"github.com/Longchamps99/list-app-sub001/internal/analytics"
	"github.com/Longchamps99/list-app-sub001/internal/models"

	"gorm.io/gorm"
)

type ImportService struct {
	db        *gorm.DB
	tags      *TagService
	tagger    *Tagger
	ranks     *RankService
	analytics *analytics.Client
}

func NewImportService(db *gorm.DB, tags *TagService, tagger *Tagger, ranks *RankService, ac *analytics.Client) *ImportService {
	return &ImportService{
		db:        db,
		tags:      tags,
		tagger:    tagger,
		ranks:     ranks,
		analytics: ac,
	}
}

// Import 整批导入：条目、标签关联、排序行在同一个事务内写入，
// 任何一步失败整批回滚，不会留下半成品
func (s *ImportService) Import(userID, contextID uint, rows []models.ImportRow) ([]models.Item, error) {
	if len(rows) == 0 {
		return nil, failf("导入列表不能为空")
	}

	// 上下文清单必须属于导入者
	var list models.List
	err := s.db.Preload("FilterTags").
		Where("id = ? AND owner_id = ?", contextID, userID).
		First(&list).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, failf("清单不存在")
		}
		return nil, err
	}

	var contextTags []string
	for _, tag := range list.FilterTags {
		contextTags = append(contextTags, tag.Name)
	}

	var items []models.Item
	err = s.db.Transaction(func(tx *gorm.DB) error {
		itemIDs := make([]uint, 0, len(rows))

		for _, row := range rows {
			item := models.Item{
				OwnerID: userID,
				Title:   row.Title,
				Content: row.Content,
				Link:    row.Link,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			autoTags := s.tagger.Suggest(row.Title, row.Content)
			finalTags := s.tagger.Merge(row.Tags, contextTags, autoTags)

			tags, err := s.tags.FindOrCreateAll(tx, finalTags)
			if err != nil {
				return err
			}
			if len(tags) > 0 {
				if err := tx.Model(&item).Association("Tags").Append(tags); err != nil {
					return err
				}
			}

			// 普通清单补上显式成员关系
			if list.FilterHash == nil {
				if err := tx.Exec("INSERT INTO list_items (list_id, item_id) VALUES (?, ?)", list.ID, item.ID).Error; err != nil {
					return err
				}
			}

			items = append(items, item)
			itemIDs = append(itemIDs, item.ID)
		}

		ranks, err := s.ranks.AppendSequential(tx, userID, contextID, itemIDs)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].Rank = ranks[i]
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.analytics.Capture(userID, "items_imported", map[string]interface{}{
		"context_id": contextID,
		"count":      len(items),
	})

	return items, nil
}
