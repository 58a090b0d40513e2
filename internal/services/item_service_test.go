package services

import (
	"testing"

	"github.com/Longchamps99/list-app-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newItemService(db *gorm.DB) *ItemService {
	tagService := NewTagService(db)
	shareService := NewShareService(db)
	return NewItemService(db, tagService, shareService, NewTagger(), nil)
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}

func TestCreateItemMergesAutoTags(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)

	user := createTestUser(t, db, "user", "user@example.com")

	item, err := itemService.CreateItem(user.ID, &models.ItemCreateRequest{
		Title: "Buy milk and bread",
		Tags:  []string{"Urgent"},
	})
	require.NoError(t, err)

	// 用户标签 + 自动标签，落库时全部归一化为小写
	assert.ElementsMatch(t, []string{"urgent", "groceries", "food"}, tagNames(item.Tags))
}

func TestCreateItemFallbackTag(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)

	user := createTestUser(t, db, "user", "user@example.com")

	item, err := itemService.CreateItem(user.ID, &models.ItemCreateRequest{
		Title: "Something unclassifiable",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"misc"}, tagNames(item.Tags))
}

func TestCreateItemInheritsSmartListContext(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)
	listService := newListService(db)

	user := createTestUser(t, db, "user", "user@example.com")

	smart, err := listService.Resolve(user.ID, []string{"travel", "summer"})
	require.NoError(t, err)

	item, err := itemService.CreateItem(user.ID, &models.ItemCreateRequest{
		Title:  "Book the hotel",
		ListID: &smart.ID,
	})
	require.NoError(t, err)

	// 上下文标签直接让新条目进入该智能清单
	assert.Subset(t, tagNames(item.Tags), []string{"travel", "summer"})

	got, err := listService.GetList(user.ID, smart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, item.ID, got.Items[0].ID)
}

func TestCreateItemIntoPlainListAddsMembership(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)
	listService := newListService(db)

	user := createTestUser(t, db, "user", "user@example.com")

	plain, err := listService.CreateList(user.ID, &models.ListCreateRequest{Title: "Plain"})
	require.NoError(t, err)

	item, err := itemService.CreateItem(user.ID, &models.ItemCreateRequest{
		Title:  "A member",
		ListID: &plain.ID,
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Table("list_items").
		Where("list_id = ? AND item_id = ?", plain.ID, item.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateItemRejectsForeignList(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)
	listService := newListService(db)

	owner := createTestUser(t, db, "owner", "owner@example.com")
	other := createTestUser(t, db, "other", "other@example.com")

	plain, err := listService.CreateList(owner.ID, &models.ListCreateRequest{Title: "Plain"})
	require.NoError(t, err)

	_, err = itemService.CreateItem(other.ID, &models.ItemCreateRequest{
		Title:  "sneaky",
		ListID: &plain.ID,
	})
	assert.Error(t, err)
}

func TestUpdateItemPartialFields(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)

	user := createTestUser(t, db, "user", "user@example.com")

	item, err := itemService.CreateItem(user.ID, &models.ItemCreateRequest{
		Title:   "original title",
		Content: "original content",
	})
	require.NoError(t, err)

	newTitle := "updated title"
	updated, err := itemService.UpdateItem(user.ID, item.ID, &models.ItemUpdateRequest{
		Title: &newTitle,
	})
	require.NoError(t, err)

	// 未出现的字段保持原值
	assert.Equal(t, "updated title", updated.Title)
	assert.Equal(t, "original content", updated.Content)
}

func TestUpdateItemReplacesTagsWhenPresent(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)

	user := createTestUser(t, db, "user", "user@example.com")
	item := createTestItem(t, db, user.ID, "item", "old1", "old2")

	newTags := []string{"New"}
	updated, err := itemService.UpdateItem(user.ID, item.ID, &models.ItemUpdateRequest{
		Tags: &newTags,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, tagNames(updated.Tags))

	// tags 字段缺席时关联不动
	updated, err = itemService.UpdateItem(user.ID, item.ID, &models.ItemUpdateRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, tagNames(updated.Tags))
}

func TestSetChecked(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)

	user := createTestUser(t, db, "user", "user@example.com")
	item := createTestItem(t, db, user.ID, "item")

	require.NoError(t, itemService.SetChecked(user.ID, item.ID, true))

	got, err := itemService.GetItem(user.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, got.IsChecked)
}

func TestUpdateItemSharedUserCanWrite(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)
	shareService := NewShareService(db)

	owner := createTestUser(t, db, "owner", "owner@example.com")
	guest := createTestUser(t, db, "guest", "guest@example.com")
	item := createTestItem(t, db, owner.ID, "item")

	_, err := shareService.ShareItem(owner.ID, item.ID, guest.Email)
	require.NoError(t, err)

	newTitle := "edited by guest"
	updated, err := itemService.UpdateItem(guest.ID, item.ID, &models.ItemUpdateRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "edited by guest", updated.Title)
}

func TestDeleteItemOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)
	shareService := NewShareService(db)

	owner := createTestUser(t, db, "owner", "owner@example.com")
	guest := createTestUser(t, db, "guest", "guest@example.com")
	item := createTestItem(t, db, owner.ID, "item")

	_, err := shareService.ShareItem(owner.ID, item.ID, guest.Email)
	require.NoError(t, err)

	err = itemService.DeleteItem(guest.ID, item.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, itemService.DeleteItem(owner.ID, item.ID))

	_, err = itemService.GetItem(owner.ID, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteItemCascades(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)
	shareService := NewShareService(db)
	rankService := NewRankService(db)

	owner := createTestUser(t, db, "owner", "owner@example.com")
	guest := createTestUser(t, db, "guest", "guest@example.com")
	item := createTestItem(t, db, owner.ID, "item", "travel")

	_, err := shareService.ShareItem(owner.ID, item.ID, guest.Email)
	require.NoError(t, err)
	_, err = shareService.CreateToken(owner.ID, models.ShareTokenKindItem, item.ID)
	require.NoError(t, err)
	require.NoError(t, rankService.Reorder(owner.ID, 0, []models.RankUpdate{
		{ItemID: item.ID, Rank: "i"},
	}))

	require.NoError(t, itemService.DeleteItem(owner.ID, item.ID))

	var count int64
	require.NoError(t, db.Table("item_tags").Where("item_id = ?", item.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.SharedItem{}).Where("item_id = ?", item.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.ShareToken{}).Where("entity_id = ?", item.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.ItemRank{}).Where("item_id = ?", item.ID).Count(&count).Error)
	assert.Zero(t, count)

	// 全局标签注册表不受影响
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetItemsFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)

	user := createTestUser(t, db, "user", "user@example.com")
	tagged := createTestItem(t, db, user.ID, "tagged", "travel")
	createTestItem(t, db, user.ID, "plain one")
	checked := createTestItem(t, db, user.ID, "done")
	require.NoError(t, itemService.SetChecked(user.ID, checked.ID, true))

	var travel models.Tag
	require.NoError(t, db.Where("name = ?", "travel").First(&travel).Error)

	items, pagination, err := itemService.GetItems(user.ID, &models.ItemListRequest{
		Page: 1, Limit: 10, TagID: &travel.ID,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, tagged.ID, items[0].ID)
	assert.Equal(t, 1, pagination.Total)

	isChecked := true
	items, _, err = itemService.GetItems(user.ID, &models.ItemListRequest{
		Page: 1, Limit: 10, Checked: &isChecked,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, checked.ID, items[0].ID)

	items, pagination, err = itemService.GetItems(user.ID, &models.ItemListRequest{
		Page: 1, Limit: 2,
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, pagination.Total)
	assert.Equal(t, 2, pagination.Pages)
}

func TestGetSharedWithMe(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)
	shareService := NewShareService(db)

	owner := createTestUser(t, db, "owner", "owner@example.com")
	guest := createTestUser(t, db, "guest", "guest@example.com")

	shared := createTestItem(t, db, owner.ID, "shared")
	createTestItem(t, db, owner.ID, "private")

	_, err := shareService.ShareItem(owner.ID, shared.ID, guest.Email)
	require.NoError(t, err)

	items, err := itemService.GetSharedWithMe(guest.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, shared.ID, items[0].ID)
}

func TestGetUserStats(t *testing.T) {
	db := newTestDB(t)
	itemService := newItemService(db)
	listService := newListService(db)
	shareService := NewShareService(db)

	user := createTestUser(t, db, "user", "user@example.com")
	guest := createTestUser(t, db, "guest", "guest@example.com")

	a := createTestItem(t, db, user.ID, "a", "travel")
	createTestItem(t, db, user.ID, "b", "travel", "summer")
	require.NoError(t, itemService.SetChecked(user.ID, a.ID, true))

	_, err := listService.Resolve(user.ID, []string{"travel"})
	require.NoError(t, err)
	_, err = listService.CreateList(user.ID, &models.ListCreateRequest{Title: "Plain"})
	require.NoError(t, err)

	_, err = shareService.ShareItem(user.ID, a.ID, guest.Email)
	require.NoError(t, err)

	stats, err := itemService.GetUserStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalItems)
	assert.Equal(t, int64(1), stats.CheckedItems)
	assert.Equal(t, int64(1), stats.UncheckedItems)
	assert.Equal(t, int64(2), stats.TotalLists)
	assert.Equal(t, int64(1), stats.SmartLists)
	assert.Equal(t, int64(2), stats.TagsUsed)
	assert.Equal(t, int64(1), stats.SharesGiven)
	assert.Equal(t, int64(0), stats.SharesReceived)

	guestStats, err := itemService.GetUserStats(guest.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), guestStats.SharesReceived)
}
