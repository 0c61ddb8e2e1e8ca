package generator

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n(.*?)\n?```$")

// cleanMarkup 去掉模型常见的包裹：首尾空白、Markdown 代码块。
func cleanMarkup(raw string) string {
	s := strings.TrimSpace(raw)
	if m := fenceRe.FindStringSubmatch(s); len(m) == 2 {
		s = strings.TrimSpace(m[1])
	}
	return s
}

// cleanText 用于纯文本回复（例如搜索词、决策名），去掉引号和代码块。
func cleanText(raw string) string {
	s := cleanMarkup(raw)
	s = strings.Trim(s, "\"'`")
	return strings.TrimSpace(s)
}
