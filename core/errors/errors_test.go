package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAppError 测试业务错误的创建与提取
func TestAppError(t *testing.T) {
	t.Run("Newf格式化消息", func(t *testing.T) {
		err := Newf(ErrRetrievalFailed, "collection '%s' not found", "schema_vectors")
		assert.Equal(t, ErrRetrievalFailed, err.Code)
		assert.Contains(t, err.Error(), "schema_vectors")
	})

	t.Run("从包装链中提取业务错误", func(t *testing.T) {
		inner := New(ErrInvalidParameter, "bad input")
		wrapped := fmt.Errorf("handler: %w", inner)

		assert.True(t, IsAppError(wrapped))
		got := GetAppError(wrapped)
		require.NotNil(t, got)
		assert.Equal(t, ErrInvalidParameter, got.Code)
	})

	t.Run("普通错误不是业务错误", func(t *testing.T) {
		err := fmt.Errorf("plain failure")
		assert.False(t, IsAppError(err))
		assert.Nil(t, GetAppError(err))
	})

	t.Run("错误码映射HTTP状态码", func(t *testing.T) {
		assert.Equal(t, 400, ErrInvalidParameter.HTTPStatusCode())
		assert.Equal(t, 404, ErrNotFound.HTTPStatusCode())
		assert.Equal(t, 500, ErrRouteFailed.HTTPStatusCode())
	})
}
