package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Longchamps99/list-app-sub001/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Item{},
		&models.List{},
		&models.SharedItem{},
		&models.SharedList{},
		&models.ShareToken{},
		&models.ItemRank{},
		&models.PasswordResetToken{},
		&models.VerificationToken{},
	)
	require.NoError(t, err)

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "test-hash",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestItem(t *testing.T, db *gorm.DB, ownerID uint, title string, tagNames ...string) *models.Item {
	t.Helper()

	item := models.Item{
		OwnerID: ownerID,
		Title:   title,
	}
	require.NoError(t, db.Create(&item).Error)

	if len(tagNames) > 0 {
		tagService := NewTagService(db)
		tags, err := tagService.FindOrCreateAll(db, tagNames)
		require.NoError(t, err)
		require.NoError(t, db.Model(&item).Association("Tags").Append(tags))
	}

	return &item
}
