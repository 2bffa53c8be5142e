package cmd

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/Malowking/askdb/core/errors"
	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/stretchr/testify/assert"
)

// TestStatusForError 测试对外错误契约的状态码映射：
// 参数问题400，管道故障500；执行级错误在响应体内收敛，不产生Go错误，保持200
func TestStatusForError(t *testing.T) {
	t.Run("缺少question的校验错误返回400", func(t *testing.T) {
		err := gerror.NewCode(gcode.CodeValidationFailed, "Missing question")
		assert.Equal(t, http.StatusBadRequest, statusForError(err))
	})

	t.Run("业务参数错误返回400", func(t *testing.T) {
		err := apperrors.Newf(apperrors.ErrInvalidParameter, "embedding apiKey is required")
		assert.Equal(t, http.StatusBadRequest, statusForError(err))
	})

	t.Run("管道各阶段故障返回500", func(t *testing.T) {
		for _, code := range []apperrors.ErrCode{
			apperrors.ErrRouteFailed,
			apperrors.ErrGenerateFailed,
			apperrors.ErrAnswerFailed,
			apperrors.ErrRetrievalFailed,
			apperrors.ErrIndexingFailed,
		} {
			err := apperrors.Newf(code, "stage failed")
			assert.Equal(t, http.StatusInternalServerError, statusForError(err), "code=%d", code)
		}
	})

	t.Run("包装后的业务错误仍按错误码映射", func(t *testing.T) {
		err := fmt.Errorf("bootstrap: %w", apperrors.New(apperrors.ErrInvalidParameter, "bad input"))
		assert.Equal(t, http.StatusBadRequest, statusForError(err))
	})

	t.Run("未知错误返回500", func(t *testing.T) {
		assert.Equal(t, http.StatusInternalServerError, statusForError(gerror.New("boom")))
	})

	t.Run("无错误保持200", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, statusForError(nil))
	})
}
