package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestGroceryKeywords(t *testing.T) {
	tagger := NewTagger()

	labels := tagger.Suggest("Buy milk and bread", "")
	assert.ElementsMatch(t, []string{"Groceries", "Food"}, labels)
}

func TestSuggestIsCaseInsensitive(t *testing.T) {
	tagger := NewTagger()

	assert.ElementsMatch(t, []string{"Vacation", "Summer"}, tagger.Suggest("Book the FLIGHT", ""))
	assert.ElementsMatch(t, []string{"Work"}, tagger.Suggest("", "prepare the quarterly REPORT"))
}

func TestSuggestMatchesContentToo(t *testing.T) {
	tagger := NewTagger()

	labels := tagger.Suggest("Monday plan", "gym session at 7")
	assert.ElementsMatch(t, []string{"Health"}, labels)
}

func TestSuggestFallback(t *testing.T) {
	tagger := NewTagger()

	assert.Equal(t, []string{"Misc"}, tagger.Suggest("random thing", "nothing specific"))
}

func TestSuggestMultipleCategories(t *testing.T) {
	tagger := NewTagger()

	labels := tagger.Suggest("buy milk before the flight", "")
	assert.ElementsMatch(t, []string{"Groceries", "Food", "Vacation", "Summer"}, labels)
}

func TestMergeDeduplicatesExactStrings(t *testing.T) {
	tagger := NewTagger()

	merged := tagger.Merge(
		[]string{"urgent", "food"},
		[]string{"food", "travel"},
		[]string{"Food", "Misc"},
	)

	// 按精确字符串去重，大小写归一化在落库时处理
	assert.Equal(t, []string{"urgent", "food", "travel", "Food", "Misc"}, merged)
}

func TestMergeSkipsEmptyStrings(t *testing.T) {
	tagger := NewTagger()

	merged := tagger.Merge([]string{"", "a"}, nil, []string{""})
	assert.Equal(t, []string{"a"}, merged)
}

func TestMergePreservesDisplayOrder(t *testing.T) {
	tagger := NewTagger()

	merged := tagger.Merge([]string{"user"}, []string{"context"}, []string{"auto"})
	assert.Equal(t, []string{"user", "context", "auto"}, merged)
}

func TestNormalizeTagName(t *testing.T) {
	assert.Equal(t, "groceries", NormalizeTagName("  Groceries "))
	assert.Equal(t, "food", NormalizeTagName("FOOD"))
	assert.Equal(t, "", NormalizeTagName("   "))
}
