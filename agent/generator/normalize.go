package generator

import (
	"regexp"
	"strings"
)

var (
	leadingFenceRe  = regexp.MustCompile("(?i)^```\\w*\n?")
	trailingFenceRe = regexp.MustCompile("(?i)\n?```$")
)

// StripCodeFence 剥离模型输出中的markdown代码围栏。
// 规则：去掉开头的围栏（三个反引号，可带语言标签如sql），去掉结尾围栏，
// 再做首尾空白裁剪。只处理首尾围栏，语句中间的反引号不动。
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFenceRe.ReplaceAllString(s, "")
	s = trailingFenceRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
