// internal/services/tagger.go - 关键词自动打标
package services

import (
	"strings"
)

// Tagger 根据标题和内容推断标签。规则分类器：
// 文本进、标签集出，后续可替换为真正的模型。
type Tagger struct{}

func NewTagger() *Tagger {
	return &Tagger{}
}

type keywordRule struct {
	keywords []string
	labels   []string
}

var taggerRules = []keywordRule{
	{
		keywords: []string{"milk", "bread", "eggs", "grocery", "groceries", "supermarket", "vegetables", "fruit"},
		labels:   []string{"Groceries", "Food"},
	},
	{
		keywords: []string{"flight", "hotel", "travel", "trip", "beach", "passport", "vacation"},
		labels:   []string{"Vacation", "Summer"},
	},
	{
		keywords: []string{"meeting", "report", "deadline", "presentation", "office", "client"},
		labels:   []string{"Work"},
	},
	{
		keywords: []string{"gym", "workout", "yoga", "running", "exercise", "fitness"},
		labels:   []string{"Health"},
	},
}

const fallbackLabel = "Misc"

// Suggest 对 title+content 做大小写不敏感的关键词匹配，
// 无任何命中时返回兜底标签
func (t *Tagger) Suggest(title, content string) []string {
	text := strings.ToLower(title + " " + content)

	var labels []string
	seen := make(map[string]bool)
	for _, rule := range taggerRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				for _, label := range rule.labels {
					if !seen[label] {
						seen[label] = true
						labels = append(labels, label)
					}
				}
				break
			}
		}
	}

	if len(labels) == 0 {
		return []string{fallbackLabel}
	}

	return labels
}

// Merge 合并用户标签、清单上下文标签和自动标签。
// 按精确字符串去重，归一化在 Tag 落库时统一处理；
// 顺序 user → context → auto 仅影响展示。
func (t *Tagger) Merge(userTags, contextTags, autoTags []string) []string {
	merged := make([]string, 0, len(userTags)+len(contextTags)+len(autoTags))
	seen := make(map[string]bool)

	for _, group := range [][]string{userTags, contextTags, autoTags} {
		for _, tag := range group {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			merged = append(merged, tag)
		}
	}

	return merged
}

// NormalizeTagName 标签归一化：去空格 + 小写
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
