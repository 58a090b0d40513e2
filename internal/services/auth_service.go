// internal/services/auth_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Longchamps99/list-app-sub001/internal/mail"
	"github.com/Longchamps99/list-app-sub001/internal/models"
	"github.com/Longchamps99/list-app-sub001/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	resetTokenLifetime  = time.Hour
	verifyTokenLifetime = 24 * time.Hour
)

type AuthService struct {
	db     *gorm.DB
	mailer mail.Sender
}

func NewAuthService(db *gorm.DB, mailer mail.Sender) *AuthService {
	return &AuthService{db: db, mailer: mailer}
}

func (s *AuthService) Register(req *models.UserRegisterRequest) (*models.User, error) {
	// 检查用户名是否存在
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, failf("用户名已存在")
	}

	// 检查邮箱是否存在
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, failf("邮箱已存在")
	}

	// 加密密码
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *AuthService) Login(req *models.UserLoginRequest) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, failf("邮箱或密码错误")
	}
	if err != nil {
		return nil, err
	}

	// 验证密码
	valid, err := utils.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, failf("邮箱或密码错误")
	}

	return &user, nil
}

func (s *AuthService) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ? AND is_active = ?", userID, true).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// RequestPasswordReset 签发重置令牌并投递邮件。
// 邮箱不存在时静默返回：调用方对两种情况回同一句话，防止账号枚举。
// 同一邮箱的旧令牌在签发新令牌时删除。
func (s *AuthService) RequestPasswordReset(email string) error {
	var user models.User
	err := s.db.Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	tokenString := strings.ReplaceAll(uuid.NewString(), "-", "")

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.PasswordResetToken{
			Token:     tokenString,
			Email:     email,
			ExpiresAt: time.Now().Add(resetTokenLifetime),
		}).Error
	})
	if err != nil {
		return err
	}

	html := fmt.Sprintf(`<p>您好 %s，</p><p>请使用以下令牌重置密码（1 小时内有效）：</p><p><b>%s</b></p>`,
		user.Username, tokenString)
	if err := s.mailer.Send(email, "重置密码", html); err != nil {
		logrus.WithError(err).Error("重置密码邮件发送失败")
		return err
	}

	return nil
}

// ConfirmPasswordReset 校验令牌并改密。过期令牌当场清除并拒绝。
func (s *AuthService) ConfirmPasswordReset(tokenString, newPassword string) error {
	var token models.PasswordResetToken
	err := s.db.Where("token = ?", tokenString).First(&token).Error
	if err == gorm.ErrRecordNotFound {
		return failf("令牌无效或已过期")
	}
	if err != nil {
		return err
	}

	if time.Now().After(token.ExpiresAt) {
		s.db.Delete(&token)
		return failf("令牌无效或已过期")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).Where("email = ?", token.Email).
			Update("password_hash", hashedPassword)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return failf("令牌无效或已过期")
		}
		return tx.Delete(&token).Error
	})
}

// RequestVerification 邮箱验证令牌，机制同密码重置
func (s *AuthService) RequestVerification(email string) error {
	var user models.User
	err := s.db.Where("email = ? AND is_active = ?", email, true).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}

	tokenString := strings.ReplaceAll(uuid.NewString(), "-", "")

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).Delete(&models.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.VerificationToken{
			Token:     tokenString,
			Email:     email,
			ExpiresAt: time.Now().Add(verifyTokenLifetime),
		}).Error
	})
	if err != nil {
		return err
	}

	html := fmt.Sprintf(`<p>您好 %s，</p><p>请使用以下令牌完成邮箱验证（24 小时内有效）：</p><p><b>%s</b></p>`,
		user.Username, tokenString)
	if err := s.mailer.Send(email, "验证邮箱", html); err != nil {
		logrus.WithError(err).Error("验证邮件发送失败")
		return err
	}

	return nil
}

func (s *AuthService) ConfirmVerification(tokenString string) error {
	var token models.VerificationToken
	err := s.db.Where("token = ?", tokenString).First(&token).Error
	if err == gorm.ErrRecordNotFound {
		return failf("令牌无效或已过期")
	}
	if err != nil {
		return err
	}

	if time.Now().After(token.ExpiresAt) {
		s.db.Delete(&token)
		return failf("令牌无效或已过期")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("email = ?", token.Email).
			Update("email_verified", true).Error; err != nil {
			return err
		}
		return tx.Delete(&token).Error
	})
}

// DeleteAccount 注销账号：条目、清单及其全部附属数据级联清理
func (s *AuthService) DeleteAccount(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var itemIDs []uint
		if err := tx.Model(&models.Item{}).Where("owner_id = ?", userID).Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		var listIDs []uint
		if err := tx.Model(&models.List{}).Where("owner_id = ?", userID).Pluck("id", &listIDs).Error; err != nil {
			return err
		}

		if len(itemIDs) > 0 {
			if err := tx.Exec("DELETE FROM item_tags WHERE item_id IN ?", itemIDs).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM list_items WHERE item_id IN ?", itemIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("item_id IN ?", itemIDs).Delete(&models.SharedItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("kind = ? AND entity_id IN ?", models.ShareTokenKindItem, itemIDs).
				Delete(&models.ShareToken{}).Error; err != nil {
				return err
			}
			if err := tx.Where("item_id IN ?", itemIDs).Delete(&models.ItemRank{}).Error; err != nil {
				return err
			}
		}

		if len(listIDs) > 0 {
			if err := tx.Exec("DELETE FROM list_filter_tags WHERE list_id IN ?", listIDs).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM list_items WHERE list_id IN ?", listIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("list_id IN ?", listIDs).Delete(&models.SharedList{}).Error; err != nil {
				return err
			}
			if err := tx.Where("kind = ? AND entity_id IN ?", models.ShareTokenKindList, listIDs).
				Delete(&models.ShareToken{}).Error; err != nil {
				return err
			}
		}

		// 本人持有的共享授权与排序
		if err := tx.Where("user_id = ?", userID).Delete(&models.SharedItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.SharedList{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ItemRank{}).Error; err != nil {
			return err
		}

		if err := tx.Where("owner_id = ?", userID).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", userID).Delete(&models.List{}).Error; err != nil {
			return err
		}

		if err := tx.Where("email = ?", user.Email).Delete(&models.PasswordResetToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("email = ?", user.Email).Delete(&models.VerificationToken{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}
