package services

import (
	"testing"
	"time"

	"github.com/Longchamps99/list-app-sub001/internal/models"
	"github.com/Longchamps99/list-app-sub001/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMailer 记录投递的邮件，实现 mail.Sender
type recordingMailer struct {
	sent []struct {
		to      string
		subject string
	}
}

func (m *recordingMailer) Send(to, subject, html string) error {
	m.sent = append(m.sent, struct {
		to      string
		subject string
	}{to, subject})
	return nil
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	authService := NewAuthService(db, &recordingMailer{})

	user, err := authService.Register(&models.UserRegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	logged, err := authService.Login(&models.UserLoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	authService := NewAuthService(db, &recordingMailer{})

	_, err := authService.Register(&models.UserRegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = authService.Register(&models.UserRegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "secret123",
	})
	assert.Error(t, err)

	_, err = authService.Register(&models.UserRegisterRequest{
		Username: "alice2", Email: "alice@example.com", Password: "secret123",
	})
	assert.Error(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	authService := NewAuthService(db, &recordingMailer{})

	_, err := authService.Register(&models.UserRegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = authService.Login(&models.UserLoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	assert.Error(t, err)

	// 未注册邮箱与密码错误返回同样的错误信息
	_, err = authService.Login(&models.UserLoginRequest{
		Email: "nobody@example.com", Password: "secret123",
	})
	assert.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	db := newTestDB(t)
	mailer := &recordingMailer{}
	authService := NewAuthService(db, mailer)

	_, err := authService.Register(&models.UserRegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.RequestPasswordReset("alice@example.com"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0].to)

	var token models.PasswordResetToken
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&token).Error)

	require.NoError(t, authService.ConfirmPasswordReset(token.Token, "newsecret"))

	// 令牌一次性，改密后失效
	assert.Error(t, authService.ConfirmPasswordReset(token.Token, "again"))

	_, err = authService.Login(&models.UserLoginRequest{
		Email: "alice@example.com", Password: "newsecret",
	})
	require.NoError(t, err)
	_, err = authService.Login(&models.UserLoginRequest{
		Email: "alice@example.com", Password: "secret123",
	})
	assert.Error(t, err)
}

func TestPasswordResetSilentOnUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	mailer := &recordingMailer{}
	authService := NewAuthService(db, mailer)

	// 未注册邮箱：不报错也不发信，防止账号枚举
	require.NoError(t, authService.RequestPasswordReset("nobody@example.com"))
	assert.Empty(t, mailer.sent)
}

func TestPasswordResetReissueInvalidatesOldToken(t *testing.T) {
	db := newTestDB(t)
	authService := NewAuthService(db, &recordingMailer{})

	_, err := authService.Register(&models.UserRegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.RequestPasswordReset("alice@example.com"))
	var old models.PasswordResetToken
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&old).Error)

	require.NoError(t, authService.RequestPasswordReset("alice@example.com"))

	var count int64
	require.NoError(t, db.Model(&models.PasswordResetToken{}).
		Where("email = ?", "alice@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.Error(t, authService.ConfirmPasswordReset(old.Token, "newsecret"))
}

func TestPasswordResetExpiredTokenIsPurged(t *testing.T) {
	db := newTestDB(t)
	authService := NewAuthService(db, &recordingMailer{})

	_, err := authService.Register(&models.UserRegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.RequestPasswordReset("alice@example.com"))

	require.NoError(t, db.Model(&models.PasswordResetToken{}).
		Where("email = ?", "alice@example.com").
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	var token models.PasswordResetToken
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&token).Error)

	assert.Error(t, authService.ConfirmPasswordReset(token.Token, "newsecret"))

	var count int64
	require.NoError(t, db.Model(&models.PasswordResetToken{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEmailVerificationFlow(t *testing.T) {
	db := newTestDB(t)
	mailer := &recordingMailer{}
	authService := NewAuthService(db, mailer)

	user, err := authService.Register(&models.UserRegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.False(t, user.EmailVerified)

	require.NoError(t, authService.RequestVerification("alice@example.com"))
	require.Len(t, mailer.sent, 1)

	var token models.VerificationToken
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&token).Error)

	require.NoError(t, authService.ConfirmVerification(token.Token))

	verified, err := authService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)

	// 已验证用户再次请求：静默返回，不再发信
	require.NoError(t, authService.RequestVerification("alice@example.com"))
	assert.Len(t, mailer.sent, 1)
}

func TestDeleteAccountCascades(t *testing.T) {
	db := newTestDB(t)
	authService := NewAuthService(db, &recordingMailer{})
	listService := newListService(db)
	shareService := NewShareService(db)

	password, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	user := models.User{
		Username: "alice", Email: "alice@example.com",
		PasswordHash: password, IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	guest := createTestUser(t, db, "guest", "guest@example.com")

	item := createTestItem(t, db, user.ID, "item", "travel")
	_, err = shareService.ShareItem(user.ID, item.ID, guest.Email)
	require.NoError(t, err)
	_, err = shareService.CreateToken(user.ID, models.ShareTokenKindItem, item.ID)
	require.NoError(t, err)

	smart, err := listService.Resolve(user.ID, []string{"travel"})
	require.NoError(t, err)
	_, err = shareService.ShareList(user.ID, smart.ID, guest.Email)
	require.NoError(t, err)

	require.NoError(t, authService.RequestPasswordReset("alice@example.com"))

	require.NoError(t, authService.DeleteAccount(user.ID))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Item{}).Where("owner_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.List{}).Where("owner_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.SharedItem{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.SharedList{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.ShareToken{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.PasswordResetToken{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Table("item_tags").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Table("list_filter_tags").Count(&count).Error)
	assert.Zero(t, count)

	// 其他用户不受影响
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", guest.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
