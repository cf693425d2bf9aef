package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripMarkup 去掉标题中嵌入的 HTML 标签（如搜索高亮 <b>、<em>）
func StripMarkup(s string) string {
	if !strings.Contains(s, "<") && !strings.Contains(s, "&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
