package services

import (
	"sort"
	"testing"

	"github.com/Longchamps99/list-app-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorderPersistsRanks(t *testing.T) {
	db := newTestDB(t)
	rankService := NewRankService(db)

	user := createTestUser(t, db, "user", "user@example.com")
	first := createTestItem(t, db, user.ID, "first")
	second := createTestItem(t, db, user.ID, "second")

	err := rankService.Reorder(user.ID, 0, []models.RankUpdate{
		{ItemID: first.ID, Rank: "i"},
		{ItemID: second.ID, Rank: "r"},
	})
	require.NoError(t, err)

	items, err := rankService.GetOrdered(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
}

func TestReorderUpsertIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	rankService := NewRankService(db)

	user := createTestUser(t, db, "user", "user@example.com")
	item := createTestItem(t, db, user.ID, "item")

	updates := []models.RankUpdate{{ItemID: item.ID, Rank: "i"}}
	require.NoError(t, rankService.Reorder(user.ID, 0, updates))
	require.NoError(t, rankService.Reorder(user.ID, 0, updates))

	var count int64
	require.NoError(t, db.Model(&models.ItemRank{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReorderLastWriteWins(t *testing.T) {
	db := newTestDB(t)
	rankService := NewRankService(db)

	user := createTestUser(t, db, "user", "user@example.com")
	first := createTestItem(t, db, user.ID, "first")
	second := createTestItem(t, db, user.ID, "second")

	require.NoError(t, rankService.Reorder(user.ID, 0, []models.RankUpdate{
		{ItemID: first.ID, Rank: "i"},
		{ItemID: second.ID, Rank: "r"},
	}))
	// 再提交一次，把 first 移到 second 之后
	require.NoError(t, rankService.Reorder(user.ID, 0, []models.RankUpdate{
		{ItemID: first.ID, Rank: "r4"},
	}))

	items, err := rankService.GetOrdered(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

func TestReorderScopedToContext(t *testing.T) {
	db := newTestDB(t)
	rankService := NewRankService(db)

	user := createTestUser(t, db, "user", "user@example.com")
	item := createTestItem(t, db, user.ID, "item")

	require.NoError(t, rankService.Reorder(user.ID, 1, []models.RankUpdate{
		{ItemID: item.ID, Rank: "i"},
	}))

	items, err := rankService.GetOrdered(user.ID, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAppendSequentialStartsAtMiddle(t *testing.T) {
	db := newTestDB(t)
	rankService := NewRankService(db)

	user := createTestUser(t, db, "user", "user@example.com")
	a := createTestItem(t, db, user.ID, "a")
	b := createTestItem(t, db, user.ID, "b")

	ranks, err := rankService.AppendSequential(db, user.ID, 0, []uint{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, "i", ranks[0])
	assert.Less(t, ranks[0], ranks[1])
}

func TestAppendSequentialExtendsExistingOrder(t *testing.T) {
	db := newTestDB(t)
	rankService := NewRankService(db)

	user := createTestUser(t, db, "user", "user@example.com")
	existing := createTestItem(t, db, user.ID, "existing")
	require.NoError(t, rankService.Reorder(user.ID, 0, []models.RankUpdate{
		{ItemID: existing.ID, Rank: "r"},
	}))

	a := createTestItem(t, db, user.ID, "a")
	b := createTestItem(t, db, user.ID, "b")
	c := createTestItem(t, db, user.ID, "c")

	ranks, err := rankService.AppendSequential(db, user.ID, 0, []uint{a.ID, b.ID, c.ID})
	require.NoError(t, err)
	require.Len(t, ranks, 3)

	// 新键全部排在已有最大键之后，且内部保持导入顺序
	for _, rank := range ranks {
		assert.Greater(t, rank, "r")
	}
	assert.True(t, sort.StringsAreSorted(ranks))

	items, err := rankService.GetOrdered(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, existing.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
	assert.Equal(t, b.ID, items[2].ID)
	assert.Equal(t, c.ID, items[3].ID)
}
