// internal/services/rank_service.go - 条目手工排序
package services

import (
	"time"

	"github.com/Longchamps99/list-app-sub001/internal/models"
	"github.com/Longchamps99/list-app-sub001/pkg/lexorank"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RankService struct {
	db *gorm.DB
}

func NewRankService(db *gorm.DB) *RankService {
	return &RankService{db: db}
}

// Reorder 批量 upsert 排序键：一个事务内全部成功或全部失败。
// 排序键由调用方计算，这里只负责持久化；
// (user_id, context_id, item_id) 唯一索引保证重复提交幂等。
func (s *RankService) Reorder(userID, contextID uint, updates []models.RankUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	rows := make([]models.ItemRank, len(updates))
	now := time.Now()
	for i, update := range updates {
		rows[i] = models.ItemRank{
			UserID:    userID,
			ContextID: contextID,
			ItemID:    update.ItemID,
			Rank:      update.Rank,
			UpdatedAt: now,
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "context_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rank", "updated_at"}),
		}).Create(&rows).Error
	})
}

// AppendSequential 为一批新条目按导入顺序分配递增排序键。
// 上下文为空时从固定中间键起步，否则接在现有最大键之后。
// 必须在调用方的事务内执行。
func (s *RankService) AppendSequential(tx *gorm.DB, userID, contextID uint, itemIDs []uint) ([]string, error) {
	var last models.ItemRank
	next := lexorank.Middle()
	err := tx.Where("user_id = ? AND context_id = ?", userID, contextID).
		Order("rank DESC").First(&last).Error
	if err == nil {
		next = lexorank.Next(last.Rank)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	ranks := make([]string, len(itemIDs))
	now := time.Now()
	for i, itemID := range itemIDs {
		row := models.ItemRank{
			UserID:    userID,
			ContextID: contextID,
			ItemID:    itemID,
			Rank:      next,
			UpdatedAt: now,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, err
		}
		ranks[i] = next
		next = lexorank.Next(next)
	}

	return ranks, nil
}

// GetOrdered 上下文内按排序键升序返回条目
func (s *RankService) GetOrdered(userID, contextID uint) ([]models.Item, error) {
	type rankedItem struct {
		models.Item
		ItemRank string `gorm:"column:item_rank"`
	}

	var ranked []rankedItem
	err := s.db.Table("items").
		Select("items.*, item_ranks.rank as item_rank").
		Joins("JOIN item_ranks ON item_ranks.item_id = items.id").
		Where("item_ranks.user_id = ? AND item_ranks.context_id = ?", userID, contextID).
		Order("item_ranks.rank ASC").
		Scan(&ranked).Error
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, len(ranked))
	for i, row := range ranked {
		items[i] = row.Item
		items[i].Rank = row.ItemRank
	}

	return items, nil
}
