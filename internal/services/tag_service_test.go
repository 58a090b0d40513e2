package services

import (
	"testing"

	"github.com/Longchamps99/list-app-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateNormalizesName(t *testing.T) {
	db := newTestDB(t)
	tagService := NewTagService(db)

	tag, err := tagService.FindOrCreate(db, "  Groceries ")
	require.NoError(t, err)
	assert.Equal(t, "groceries", tag.Name)
	assert.NotZero(t, tag.ID)
}

func TestFindOrCreateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	tagService := NewTagService(db)

	first, err := tagService.FindOrCreate(db, "Food")
	require.NoError(t, err)

	// 同名不同写法必须命中同一行
	second, err := tagService.FindOrCreate(db, "FOOD")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindOrCreateRejectsEmptyName(t *testing.T) {
	db := newTestDB(t)
	tagService := NewTagService(db)

	_, err := tagService.FindOrCreate(db, "   ")
	assert.Error(t, err)
}

func TestFindOrCreateAllDeduplicates(t *testing.T) {
	db := newTestDB(t)
	tagService := NewTagService(db)

	tags, err := tagService.FindOrCreateAll(db, []string{"Work", "work", "", "Health", " WORK "})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "work", tags[0].Name)
	assert.Equal(t, "health", tags[1].Name)
}

func TestGetTagsCountsOwnItemsOnly(t *testing.T) {
	db := newTestDB(t)
	tagService := NewTagService(db)

	owner := createTestUser(t, db, "owner", "owner@example.com")
	other := createTestUser(t, db, "other", "other@example.com")

	createTestItem(t, db, owner.ID, "Buy milk", "groceries", "food")
	createTestItem(t, db, owner.ID, "Buy bread", "groceries")
	createTestItem(t, db, other.ID, "Their item", "groceries")

	tags, err := tagService.GetTags(owner.ID)
	require.NoError(t, err)
	require.Len(t, tags, 2)

	// 按名称排序：food 在前
	assert.Equal(t, "food", tags[0].Name)
	assert.Equal(t, 1, tags[0].ItemCount)
	assert.Equal(t, "groceries", tags[1].Name)
	assert.Equal(t, 2, tags[1].ItemCount)
}

func TestGetTagsEmptyForNewUser(t *testing.T) {
	db := newTestDB(t)
	tagService := NewTagService(db)

	user := createTestUser(t, db, "fresh", "fresh@example.com")

	tags, err := tagService.GetTags(user.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestMergeDuplicatesCollapsesCaseVariants(t *testing.T) {
	db := newTestDB(t)
	tagService := NewTagService(db)

	owner := createTestUser(t, db, "owner", "owner@example.com")

	// 绕过 FindOrCreate 直接造出大小写重复的脏数据
	upper := models.Tag{Name: "Groceries"}
	lower := models.Tag{Name: "groceries"}
	require.NoError(t, db.Create(&upper).Error)
	require.NoError(t, db.Create(&lower).Error)

	item := createTestItem(t, db, owner.ID, "Buy milk")
	require.NoError(t, db.Model(item).Association("Tags").Append(&upper))

	both := createTestItem(t, db, owner.ID, "Buy bread")
	require.NoError(t, db.Model(both).Association("Tags").Append(&upper, &lower))

	merged, err := tagService.MergeDuplicates()
	require.NoError(t, err)
	assert.Equal(t, 1, merged)

	var remaining []models.Tag
	require.NoError(t, db.Order("id").Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "groceries", remaining[0].Name)
	assert.Equal(t, lower.ID, remaining[0].ID)

	// 两个条目都指向规范行，且无重复关联
	var linked int64
	require.NoError(t, db.Table("item_tags").Where("tag_id = ?", lower.ID).Count(&linked).Error)
	assert.Equal(t, int64(2), linked)
}
