// internal/services/share_service.go - 所有权与共享授权
package services

import (
	"time"

	"github.com/Longchamps99/list-app-sub001/internal/models"
	"github.com/Longchamps99/list-app-sub001/internal/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Access 授权结果
type Access int

const (
	AccessDenied Access = iota
	AccessShared
	AccessOwner
)

const shareTokenLifetime = 7 * 24 * time.Hour

type ShareService struct {
	db *gorm.DB
}

func NewShareService(db *gorm.DB) *ShareService {
	return &ShareService{db: db}
}

// AuthorizeItem 判定用户对条目的访问级别。
// 条目不存在返回 ErrNotFound；既非属主也无共享授权返回 ErrForbidden。
func (s *ShareService) AuthorizeItem(userID, itemID uint) (Access, error) {
	var item models.Item
	if err := s.db.Select("id, owner_id").First(&item, itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return AccessDenied, ErrNotFound
		}
		return AccessDenied, err
	}

	if item.OwnerID == userID {
		return AccessOwner, nil
	}

	var count int64
	if err := s.db.Model(&models.SharedItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error; err != nil {
		return AccessDenied, err
	}
	if count > 0 {
		return AccessShared, nil
	}

	return AccessDenied, ErrForbidden
}

// AuthorizeList 同 AuthorizeItem，对象为清单
func (s *ShareService) AuthorizeList(userID, listID uint) (Access, error) {
	var list models.List
	if err := s.db.Select("id, owner_id").First(&list, listID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return AccessDenied, ErrNotFound
		}
		return AccessDenied, err
	}

	if list.OwnerID == userID {
		return AccessOwner, nil
	}

	var count int64
	if err := s.db.Model(&models.SharedList{}).
		Where("user_id = ? AND list_id = ?", userID, listID).
		Count(&count).Error; err != nil {
		return AccessDenied, err
	}
	if count > 0 {
		return AccessShared, nil
	}

	return AccessDenied, ErrForbidden
}

// ShareItem 属主把条目共享给 targetEmail 对应的用户，重复共享幂等
func (s *ShareService) ShareItem(ownerID, itemID uint, targetEmail string) (*models.SharedItem, error) {
	access, err := s.AuthorizeItem(ownerID, itemID)
	if err != nil {
		return nil, err
	}
	if access != AccessOwner {
		return nil, ErrForbidden
	}

	var target models.User
	if err := s.db.Where("email = ? AND is_active = ?", targetEmail, true).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, failf("目标用户不存在")
		}
		return nil, err
	}
	if target.ID == ownerID {
		return nil, failf("不能共享给自己")
	}

	share := models.SharedItem{
		UserID:   target.ID,
		ItemID:   itemID,
		SharedBy: ownerID,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoNothing: true,
	}).Create(&share).Error
	if err != nil {
		return nil, err
	}

	if share.ID == 0 {
		if err := s.db.Where("user_id = ? AND item_id = ?", target.ID, itemID).First(&share).Error; err != nil {
			return nil, err
		}
	}

	return &share, nil
}

func (s *ShareService) UnshareItem(ownerID, itemID uint, targetEmail string) error {
	access, err := s.AuthorizeItem(ownerID, itemID)
	if err != nil {
		return err
	}
	if access != AccessOwner {
		return ErrForbidden
	}

	var target models.User
	if err := s.db.Where("email = ?", targetEmail).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return failf("目标用户不存在")
		}
		return err
	}

	return s.db.Where("user_id = ? AND item_id = ?", target.ID, itemID).
		Delete(&models.SharedItem{}).Error
}

// ShareList 清单共享，语义同 ShareItem
func (s *ShareService) ShareList(ownerID, listID uint, targetEmail string) (*models.SharedList, error) {
	access, err := s.AuthorizeList(ownerID, listID)
	if err != nil {
		return nil, err
	}
	if access != AccessOwner {
		return nil, ErrForbidden
	}

	var target models.User
	if err := s.db.Where("email = ? AND is_active = ?", targetEmail, true).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, failf("目标用户不存在")
		}
		return nil, err
	}
	if target.ID == ownerID {
		return nil, failf("不能共享给自己")
	}

	share := models.SharedList{
		UserID:   target.ID,
		ListID:   listID,
		SharedBy: ownerID,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "list_id"}},
		DoNothing: true,
	}).Create(&share).Error
	if err != nil {
		return nil, err
	}

	if share.ID == 0 {
		if err := s.db.Where("user_id = ? AND list_id = ?", target.ID, listID).First(&share).Error; err != nil {
			return nil, err
		}
	}

	return &share, nil
}

func (s *ShareService) UnshareList(ownerID, listID uint, targetEmail string) error {
	access, err := s.AuthorizeList(ownerID, listID)
	if err != nil {
		return err
	}
	if access != AccessOwner {
		return ErrForbidden
	}

	var target models.User
	if err := s.db.Where("email = ?", targetEmail).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return failf("目标用户不存在")
		}
		return err
	}

	return s.db.Where("user_id = ? AND list_id = ?", target.ID, listID).
		Delete(&models.SharedList{}).Error
}

// CreateToken 生成匿名分享令牌。条目允许属主或被共享者创建，
// 清单仅限属主。令牌为定长十六进制串，默认 7 天有效。
func (s *ShareService) CreateToken(creatorID uint, kind string, entityID uint) (*models.ShareToken, error) {
	switch kind {
	case models.ShareTokenKindItem:
		// 条目：属主或被共享者都可以创建令牌
		if _, err := s.AuthorizeItem(creatorID, entityID); err != nil {
			// 令牌路径一律报"不存在"，避免向未授权方确认实体存在
			if err == ErrForbidden {
				return nil, ErrNotFound
			}
			return nil, err
		}
	case models.ShareTokenKindList:
		access, err := s.AuthorizeList(creatorID, entityID)
		if err != nil {
			if err == ErrForbidden {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if access != AccessOwner {
			return nil, ErrNotFound
		}
	default:
		return nil, failf("无效的分享类型")
	}

	tokenString, err := utils.GenerateRandomString(32)
	if err != nil {
		return nil, err
	}

	token := models.ShareToken{
		Token:     tokenString,
		Kind:      kind,
		EntityID:  entityID,
		CreatorID: creatorID,
		ExpiresAt: time.Now().Add(shareTokenLifetime),
	}

	if err := s.db.Create(&token).Error; err != nil {
		return nil, err
	}

	return &token, nil
}

// RedeemedEntity 令牌兑换结果
type RedeemedEntity struct {
	Kind string       `json:"kind"`
	Item *models.Item `json:"item,omitempty"`
	List *models.List `json:"list,omitempty"`
}

// Redeem 凭令牌取回实体。过期令牌当场清除并报"不存在"。
func (s *ShareService) Redeem(tokenString string) (*RedeemedEntity, error) {
	var token models.ShareToken
	if err := s.db.Where("token = ?", tokenString).First(&token).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if time.Now().After(token.ExpiresAt) {
		s.db.Delete(&token)
		return nil, ErrNotFound
	}

	switch token.Kind {
	case models.ShareTokenKindItem:
		var item models.Item
		if err := s.db.Preload("Tags").First(&item, token.EntityID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &RedeemedEntity{Kind: token.Kind, Item: &item}, nil
	case models.ShareTokenKindList:
		var list models.List
		if err := s.db.Preload("FilterTags").First(&list, token.EntityID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}

		// 智能清单的成员动态计算，普通清单读显式成员
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
		} else if err := s.db.Preload("Items.Tags").First(&list, token.EntityID).Error; err != nil {
			return nil, err
		}

		list.ItemCount = len(list.Items)
		return &RedeemedEntity{Kind: token.Kind, List: &list}, nil
	}

	return nil, ErrNotFound
}
