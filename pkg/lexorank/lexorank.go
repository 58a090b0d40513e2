// pkg/lexorank/lexorank.go - 字典序排序键生成
package lexorank

const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
const base = len(alphabet)

// Middle 返回初始排序键
func Middle() string {
	return Between("", "")
}

// Next 返回严格大于 key 的下一个排序键
func Next(key string) string {
	return Between(key, "")
}

// Prev 返回严格小于 key 的排序键
func Prev(key string) string {
	return Between("", key)
}

// Between 返回严格介于 prev 和 next 之间的排序键。
// prev 为空表示下界，next 为空表示上界。要求 prev < next。
// 生成的键不会以最小字符结尾，保证任意两个键之间永远可以再插入。
func Between(prev, next string) string {
	var rank []byte
	nextOpen := next == ""

	for i := 0; ; i++ {
		p := 0
		if i < len(prev) {
			p = indexOf(prev[i])
		}
		n := base
		if !nextOpen && i < len(next) {
			n = indexOf(next[i])
		} else if !nextOpen && i >= len(next) {
			n = base
		}

		if p == n {
			rank = append(rank, alphabet[p])
			continue
		}

		mid := (p + n) / 2
		if mid == p {
			// 相邻字符，沿用 prev 的字符，之后上界放开
			rank = append(rank, alphabet[p])
			nextOpen = true
			continue
		}

		rank = append(rank, alphabet[mid])
		return string(rank)
	}
}

func indexOf(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	default:
		return 0
	}
}
