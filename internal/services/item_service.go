// internal/services/item_service.go
package services

import (
	"fmt"
	"math"

	"github.com/Longchamps99/list-app-sub001/internal/analytics"
	"github.com/Longchamps99/list-app-sub001/internal/models"

	"gorm.io/gorm"
)

type ItemService struct {
	db        *gorm.DB
	tags      *TagService
	shares    *ShareService
	tagger    *Tagger
	analytics *analytics.Client
}

func NewItemService(db *gorm.DB, tags *TagService, shares *ShareService, tagger *Tagger, ac *analytics.Client) *ItemService {
	return &ItemService{
		db:        db,
		tags:      tags,
		shares:    shares,
		tagger:    tagger,
		analytics: ac,
	}
}

// CreateItem 建条目：用户标签、所属清单的过滤标签和自动标签
// 合并后统一落库，整个过程在一个事务内
func (s *ItemService) CreateItem(userID uint, req *models.ItemCreateRequest) (*models.Item, error) {
	// 上下文标签：来自所属智能清单的过滤标签
	var contextTags []string
	if req.ListID != nil {
		var list models.List
		err := s.db.Preload("FilterTags").
			Where("id = ? AND owner_id = ?", *req.ListID, userID).
			First(&list).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, failf("清单不存在")
			}
			return nil, err
		}
		for _, tag := range list.FilterTags {
			contextTags = append(contextTags, tag.Name)
		}
	}

	autoTags := s.tagger.Suggest(req.Title, req.Content)
	finalTags := s.tagger.Merge(req.Tags, contextTags, autoTags)

	item := models.Item{
		OwnerID:  userID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Link:     req.Link,
		Location: req.Location,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		tags, err := s.tags.FindOrCreateAll(tx, finalTags)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&item).Association("Tags").Append(tags); err != nil {
				return err
			}
		}

		// 普通清单的显式成员关系
		if req.ListID != nil {
			var filterCount int64
			if err := tx.Table("list_filter_tags").Where("list_id = ?", *req.ListID).Count(&filterCount).Error; err != nil {
				return err
			}
			if filterCount == 0 {
				if err := tx.Exec("INSERT INTO list_items (list_id, item_id) VALUES (?, ?)", *req.ListID, item.ID).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.db.Preload("Tags").First(&item, item.ID)

	s.analytics.Capture(userID, "item_created", map[string]interface{}{
		"item_id":   item.ID,
		"tag_count": len(item.Tags),
	})

	return &item, nil
}

// GetItem 属主或被共享者可读
func (s *ItemService) GetItem(userID, itemID uint) (*models.Item, error) {
	if _, err := s.shares.AuthorizeItem(userID, itemID); err != nil {
		return nil, err
	}

	var item models.Item
	if err := s.db.Preload("Tags").First(&item, itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem 部分更新：只应用请求中出现的字段。
// 属主和被共享者都有写权限。
func (s *ItemService) UpdateItem(userID, itemID uint, req *models.ItemUpdateRequest) (*models.Item, error) {
	if _, err := s.shares.AuthorizeItem(userID, itemID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Link != nil {
		updates["link"] = *req.Link
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.IsChecked != nil {
		updates["is_checked"] = *req.IsChecked
	}

	var item models.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&item).Updates(updates).Error; err != nil {
				return err
			}
		}

		// 标签字段出现时整体替换
		if req.Tags != nil {
			if err := tx.Model(&item).Association("Tags").Clear(); err != nil {
				return err
			}
			tags, err := s.tags.FindOrCreateAll(tx, *req.Tags)
			if err != nil {
				return err
			}
			if len(tags) > 0 {
				if err := tx.Model(&item).Association("Tags").Append(tags); err != nil {
					return err
				}
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.db.Preload("Tags").First(&item, item.ID)

	return &item, nil
}

// SetChecked 勾选/取消勾选
func (s *ItemService) SetChecked(userID, itemID uint, checked bool) error {
	if _, err := s.shares.AuthorizeItem(userID, itemID); err != nil {
		return err
	}

	return s.db.Model(&models.Item{}).Where("id = ?", itemID).
		Update("is_checked", checked).Error
}

// DeleteItem 硬删除，仅属主可操作；
// 标签关联、共享授权、分享令牌、排序行一并清理
func (s *ItemService) DeleteItem(userID, itemID uint) error {
	access, err := s.shares.AuthorizeItem(userID, itemID)
	if err != nil {
		return err
	}
	if access != AccessOwner {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}

		if err := tx.Model(&item).Association("Tags").Clear(); err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM list_items WHERE item_id = ?", itemID).Error; err != nil {
			return err
		}

		if err := tx.Where("item_id = ?", itemID).Delete(&models.SharedItem{}).Error; err != nil {
			return err
		}

		if err := tx.Where("kind = ? AND entity_id = ?", models.ShareTokenKindItem, itemID).
			Delete(&models.ShareToken{}).Error; err != nil {
			return err
		}

		if err := tx.Where("item_id = ?", itemID).Delete(&models.ItemRank{}).Error; err != nil {
			return err
		}

		return tx.Delete(&item).Error
	})
}

// GetItems 自有条目列表，支持搜索/标签/勾选状态过滤和分页
func (s *ItemService) GetItems(userID uint, req *models.ItemListRequest) ([]models.Item, *models.Pagination, error) {
	var items []models.Item
	var total int64

	query := s.db.Model(&models.Item{}).Where("items.owner_id = ?", userID)

	if req.Search != "" {
		query = query.Where("title ILIKE ? OR content ILIKE ?", "%"+req.Search+"%", "%"+req.Search+"%")
	}

	if req.Checked != nil {
		query = query.Where("is_checked = ?", *req.Checked)
	}

	if req.TagID != nil {
		query = query.Joins("JOIN item_tags ON items.id = item_tags.item_id").
			Where("item_tags.tag_id = ?", *req.TagID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (req.Page - 1) * req.Limit
	pages := int(math.Ceil(float64(total) / float64(req.Limit)))

	orderBy := "created_at DESC"
	if req.Sort != "" {
		direction := "DESC"
		if req.Order == "asc" {
			direction = "ASC"
		}
		orderBy = fmt.Sprintf("%s %s", req.Sort, direction)
	}

	err := query.Preload("Tags").
		Order(orderBy).Limit(req.Limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, nil, err
	}

	pagination := &models.Pagination{
		Page:  req.Page,
		Limit: req.Limit,
		Total: int(total),
		Pages: pages,
	}

	return items, pagination, nil
}

// GetSharedWithMe 别人共享给我的条目
func (s *ItemService) GetSharedWithMe(userID uint) ([]models.Item, error) {
	var items []models.Item
	err := s.db.Preload("Tags").
		Joins("JOIN shared_items ON shared_items.item_id = items.id").
		Where("shared_items.user_id = ?", userID).
		Order("items.created_at DESC").
		Find(&items).Error
	return items, err
}

// GetUserStats 聚合统计
func (s *ItemService) GetUserStats(userID uint) (*models.UserStats, error) {
	var stats models.UserStats

	if err := s.db.Model(&models.Item{}).Where("owner_id = ?", userID).Count(&stats.TotalItems).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Item{}).Where("owner_id = ? AND is_checked = ?", userID, true).Count(&stats.CheckedItems).Error; err != nil {
		return nil, err
	}
	stats.UncheckedItems = stats.TotalItems - stats.CheckedItems

	if err := s.db.Model(&models.List{}).Where("owner_id = ?", userID).Count(&stats.TotalLists).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.List{}).Where("owner_id = ? AND filter_hash IS NOT NULL", userID).Count(&stats.SmartLists).Error; err != nil {
		return nil, err
	}

	if err := s.db.Table("item_tags").
		Joins("JOIN items ON items.id = item_tags.item_id").
		Where("items.owner_id = ?", userID).
		Distinct("item_tags.tag_id").
		Count(&stats.TagsUsed).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.SharedItem{}).Where("shared_by = ?", userID).Count(&stats.SharesGiven).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.SharedItem{}).Where("user_id = ?", userID).Count(&stats.SharesReceived).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
