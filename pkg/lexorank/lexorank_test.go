package lexorank

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddle(t *testing.T) {
	assert.Equal(t, "i", Middle())
}

func TestNextIsStrictlyIncreasing(t *testing.T) {
	key := Middle()
	for i := 0; i < 200; i++ {
		next := Next(key)
		require.Greater(t, next, key, "Next(%q) = %q", key, next)
		key = next
	}
}

func TestBetweenProducesIntermediateKey(t *testing.T) {
	cases := []struct {
		prev, next string
	}{
		{"", ""},
		{"a", "b"},
		{"a", "a1"},
		{"az", "b"},
		{"i", "r"},
		{"zzz", ""},
		{"", "1"},
		{"aaaa", "aaab"},
	}

	for _, tc := range cases {
		got := Between(tc.prev, tc.next)
		if tc.prev != "" {
			assert.Greater(t, got, tc.prev, "Between(%q, %q)", tc.prev, tc.next)
		}
		if tc.next != "" {
			assert.Less(t, got, tc.next, "Between(%q, %q)", tc.prev, tc.next)
		}
	}
}

func TestBetweenNeverExhausts(t *testing.T) {
	// 在同一对相邻键之间反复插入，始终能生成新键
	lo, hi := "a", "b"
	for i := 0; i < 100; i++ {
		mid := Between(lo, hi)
		require.Greater(t, mid, lo)
		require.Less(t, mid, hi)
		hi = mid
	}
}

func TestGeneratedKeysNeverEndWithMinChar(t *testing.T) {
	key := Middle()
	for i := 0; i < 100; i++ {
		require.False(t, strings.HasSuffix(key, "0"), "key %q ends with min char", key)
		key = Next(key)
	}
}

func TestSequentialKeysSortStably(t *testing.T) {
	keys := make([]string, 0, 50)
	key := Middle()
	for i := 0; i < 50; i++ {
		keys = append(keys, key)
		key = Next(key)
	}

	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)

	assert.Equal(t, keys, sorted)
}
