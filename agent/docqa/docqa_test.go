package docqa

import (
	"testing"

	"github.com/Malowking/askdb/pkg/schema"
	"github.com/stretchr/testify/assert"
)

// TestBuildContext 测试文档上下文拼接
func TestBuildContext(t *testing.T) {
	t.Run("拼接检索片段", func(t *testing.T) {
		docs := []*schema.Document{
			{ID: "1", Content: "SSO stands for Single Sign-On."},
			{ID: "2", Content: "Login uses OAuth2."},
		}
		assert.Equal(t,
			"SSO stands for Single Sign-On.\n\n---\n\nLogin uses OAuth2.",
			BuildContext(docs))
	})

	t.Run("无结果时返回兜底提示", func(t *testing.T) {
		assert.Equal(t, "No relevant content found.", BuildContext(nil))
		assert.Equal(t, "No relevant content found.", BuildContext([]*schema.Document{}))
	})
}
