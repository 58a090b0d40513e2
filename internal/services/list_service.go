// internal/services/list_service.go - 清单与智能清单
package services

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Longchamps99/list-app-sub001/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListService struct {
	db     *gorm.DB
	tags   *TagService
	shares *ShareService
}

func NewListService(db *gorm.DB, tags *TagService, shares *ShareService) *ListService {
	return &ListService{db: db, tags: tags, shares: shares}
}

// filterHash 过滤标签集合的规范形式：ID 升序去重后用逗号连接。
// 集合相等 ⇔ hash 相等，(owner_id, filter_hash) 唯一索引
// 即为同一标签组合去重的并发保护。
func filterHash(tagIDs []uint) string {
	ids := make([]int, 0, len(tagIDs))
	seen := make(map[uint]bool)
	for _, id := range tagIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, int(id))
		}
	}
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// smartListTitle 形如 "#travel + #summer"
func smartListTitle(names []string) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = "#" + name
	}
	return strings.Join(parts, " + ")
}

// Resolve 按标签组合取或建智能清单。解析幂等：同一属主、
// 同一标签集合（与顺序无关）始终得到同一个清单。
func (s *ListService) Resolve(ownerID uint, tagNames []string) (*models.List, error) {
	if len(tagNames) == 0 {
		return nil, failf("标签列表不能为空")
	}

	var list models.List
	err := s.db.Transaction(func(tx *gorm.DB) error {
		tags, err := s.tags.FindOrCreateAll(tx, tagNames)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			return failf("标签列表不能为空")
		}

		tagIDs := make([]uint, len(tags))
		names := make([]string, len(tags))
		for i, tag := range tags {
			tagIDs[i] = tag.ID
			names[i] = tag.Name
		}
		hash := filterHash(tagIDs)

		// 先按集合精确匹配查已有清单
		if err := tx.Where("owner_id = ? AND filter_hash = ?", ownerID, hash).First(&list).Error; err == nil {
			return nil
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		list = models.List{
			OwnerID:    ownerID,
			Title:      smartListTitle(names),
			FilterHash: &hash,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "filter_hash"}},
			DoNothing: true,
		}).Create(&list).Error; err != nil {
			return err
		}

		// 并发建同一组合时插入被跳过，回读赢家
		if list.ID == 0 {
			return tx.Where("owner_id = ? AND filter_hash = ?", ownerID, hash).First(&list).Error
		}

		return tx.Model(&list).Association("FilterTags").Append(tags)
	})

	if err != nil {
		return nil, err
	}

	list.IsSmart = true
	return &list, nil
}

// Preview 返回属主名下携带全部指定标签的条目（AND 语义）。
// 空标签列表返回空结果，绝不回退为"全部条目"。
func (s *ListService) Preview(ownerID uint, tagNames []string) (*models.ListPreviewResponse, error) {
	resp := &models.ListPreviewResponse{
		Items:        []models.Item{},
		MatchingTags: []models.Tag{},
	}

	if len(tagNames) == 0 {
		return resp, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		tags, err := s.tags.FindOrCreateAll(tx, tagNames)
		if err != nil {
			return err
		}
		resp.MatchingTags = tags

		tagIDs := make([]uint, len(tags))
		for i, tag := range tags {
			tagIDs[i] = tag.ID
		}

		items, err := matchItems(tx, ownerID, tagIDs)
		if err != nil {
			return err
		}
		resp.Items = items
		return nil
	})

	if err != nil {
		return nil, err
	}

	return resp, nil
}

// matchItemIDs AND 语义的成员查询：命中全部 tagIDs 的条目 ID
func matchItemIDs(tx *gorm.DB, ownerID uint, tagIDs []uint) ([]uint, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}

	var itemIDs []uint
	err := tx.Table("item_tags").
		Select("item_tags.item_id").
		Joins("JOIN items ON items.id = item_tags.item_id").
		Where("items.owner_id = ? AND item_tags.tag_id IN ?", ownerID, tagIDs).
		Group("item_tags.item_id").
		Having("COUNT(DISTINCT item_tags.tag_id) = ?", len(tagIDs)).
		Scan(&itemIDs).Error
	return itemIDs, err
}

func matchItems(tx *gorm.DB, ownerID uint, tagIDs []uint) ([]models.Item, error) {
	itemIDs, err := matchItemIDs(tx, ownerID, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		return []models.Item{}, nil
	}

	var items []models.Item
	err = tx.Preload("Tags").Where("id IN ?", itemIDs).
		Order("created_at DESC").Find(&items).Error
	return items, err
}

// Counts 每个智能清单的成员数量；无过滤标签的清单按显式成员数计
func (s *ListService) Counts(ownerID uint) (map[uint]int, error) {
	var lists []models.List
	if err := s.db.Preload("FilterTags").Where("owner_id = ?", ownerID).Find(&lists).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(lists))
	for _, list := range lists {
		count, err := s.countList(&list, ownerID)
		if err != nil {
			return nil, err
		}
		counts[list.ID] = count
	}

	return counts, nil
}

func (s *ListService) countList(list *models.List, ownerID uint) (int, error) {
	if len(list.FilterTags) == 0 {
		if list.FilterHash != nil {
			// 智能清单不应出现零过滤标签；按安全默认计 0，不泄露全部条目
			return 0, nil
		}
		var count int64
		if err := s.db.Table("list_items").Where("list_id = ?", list.ID).Count(&count).Error; err != nil {
			return 0, err
		}
		return int(count), nil
	}

	tagIDs := make([]uint, len(list.FilterTags))
	for i, tag := range list.FilterTags {
		tagIDs[i] = tag.ID
	}

	itemIDs, err := matchItemIDs(s.db, ownerID, tagIDs)
	if err != nil {
		return 0, err
	}
	return len(itemIDs), nil
}

// CreateList 普通清单（无过滤标签，显式成员）
func (s *ListService) CreateList(ownerID uint, req *models.ListCreateRequest) (*models.List, error) {
	list := models.List{
		OwnerID: ownerID,
		Title:   req.Title,
	}
	if err := s.db.Create(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// GetLists 自有与被共享的清单，附成员数量
func (s *ListService) GetLists(userID uint) ([]models.List, error) {
	var lists []models.List
	err := s.db.Preload("FilterTags").
		Where("owner_id = ?", userID).
		Or("id IN (?)", s.db.Model(&models.SharedList{}).Select("list_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}

	for i := range lists {
		lists[i].IsSmart = lists[i].FilterHash != nil
		count, err := s.countList(&lists[i], lists[i].OwnerID)
		if err != nil {
			return nil, err
		}
		lists[i].ItemCount = count
	}

	return lists, nil
}

// GetList 取单个清单；智能清单的成员动态计算
func (s *ListService) GetList(userID, listID uint) (*models.List, error) {
	if _, err := s.shares.AuthorizeList(userID, listID); err != nil {
		return nil, err
	}

	var list models.List
	if err := s.db.Preload("FilterTags").First(&list, listID).Error; err != nil {
		return nil, err
	}
	list.IsSmart = list.FilterHash != nil

	if list.IsSmart {
		tagIDs := make([]uint, len(list.FilterTags))
		for i, tag := range list.FilterTags {
			tagIDs[i] = tag.ID
		}
		items, err := matchItems(s.db, list.OwnerID, tagIDs)
		if err != nil {
			return nil, err
		}
		list.Items = items
	} else {
		if err := s.db.Preload("Items.Tags").First(&list, listID).Error; err != nil {
			return nil, err
		}
		list.IsSmart = false
	}

	list.ItemCount = len(list.Items)
	return &list, nil
}

// UpdateList 部分更新，属主或被共享者
func (s *ListService) UpdateList(userID, listID uint, req *models.ListUpdateRequest) (*models.List, error) {
	if _, err := s.shares.AuthorizeList(userID, listID); err != nil {
		return nil, err
	}

	var list models.List
	if err := s.db.First(&list, listID).Error; err != nil {
		return nil, err
	}

	if req.Title != nil {
		if err := s.db.Model(&list).Update("title", *req.Title).Error; err != nil {
			return nil, err
		}
	}

	return &list, nil
}

// DeleteList 仅属主；过滤标签、显式成员、共享、令牌、排序一并清理
func (s *ListService) DeleteList(userID, listID uint) error {
	access, err := s.shares.AuthorizeList(userID, listID)
	if err != nil {
		return err
	}
	if access != AccessOwner {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var list models.List
		if err := tx.First(&list, listID).Error; err != nil {
			return err
		}

		if err := tx.Model(&list).Association("FilterTags").Clear(); err != nil {
			return err
		}

		if err := tx.Exec("DELETE FROM list_items WHERE list_id = ?", listID).Error; err != nil {
			return err
		}

		if err := tx.Where("list_id = ?", listID).Delete(&models.SharedList{}).Error; err != nil {
			return err
		}

		if err := tx.Where("kind = ? AND entity_id = ?", models.ShareTokenKindList, listID).
			Delete(&models.ShareToken{}).Error; err != nil {
			return err
		}

		if err := tx.Where("context_id = ?", listID).Delete(&models.ItemRank{}).Error; err != nil {
			return err
		}

		return tx.Delete(&list).Error
	})
}

// AddItem 普通清单的显式成员，幂等
func (s *ListService) AddItem(userID, listID, itemID uint) error {
	if _, err := s.shares.AuthorizeList(userID, listID); err != nil {
		return err
	}
	if _, err := s.shares.AuthorizeItem(userID, itemID); err != nil {
		return err
	}

	var list models.List
	if err := s.db.First(&list, listID).Error; err != nil {
		return err
	}
	if list.FilterHash != nil {
		return failf("智能清单的成员由标签决定，不能手工添加")
	}

	return s.db.Exec(
		"INSERT INTO list_items (list_id, item_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		listID, itemID).Error
}

func (s *ListService) RemoveItem(userID, listID, itemID uint) error {
	if _, err := s.shares.AuthorizeList(userID, listID); err != nil {
		return err
	}

	return s.db.Exec("DELETE FROM list_items WHERE list_id = ? AND item_id = ?", listID, itemID).Error
}
