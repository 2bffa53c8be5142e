package answer

import (
	"testing"

	"github.com/Malowking/askdb/agent/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildUserPrompt 测试合成提示词的组装
func TestBuildUserPrompt(t *testing.T) {
	t.Run("成功结果包含行数和采样", func(t *testing.T) {
		execution := &executor.ExecutionResult{
			Rows:     []map[string]any{{"count": int64(5)}},
			RowCount: 1,
		}

		got, err := buildUserPrompt("How many users are there?", execution, "SELECT COUNT(*) AS count FROM users", 15)
		require.NoError(t, err)
		assert.Contains(t, got, "User question: How many users are there?")
		assert.Contains(t, got, "Query returned 1 row(s)")
		assert.Contains(t, got, `"count": 5`)
		assert.Contains(t, got, "SQL used:\nSELECT COUNT(*) AS count FROM users")
	})

	t.Run("错误结果包含失败描述", func(t *testing.T) {
		execution := &executor.ExecutionResult{Error: `column "missing" does not exist`}

		got, err := buildUserPrompt("q", execution, "SELECT missing FROM users", 15)
		require.NoError(t, err)
		assert.Contains(t, got, `Query failed: column "missing" does not exist`)
		assert.NotContains(t, got, "Query returned")
	})

	t.Run("采样行数受上限约束", func(t *testing.T) {
		rows := make([]map[string]any, 20)
		for i := range rows {
			rows[i] = map[string]any{"id": i}
		}
		execution := &executor.ExecutionResult{Rows: rows, RowCount: 20}

		got, err := buildUserPrompt("q", execution, "SELECT id FROM users", 15)
		require.NoError(t, err)
		assert.Contains(t, got, "Query returned 20 row(s)")
		assert.Contains(t, got, `"id": 14`)
		assert.NotContains(t, got, `"id": 15`)
	})

	t.Run("无SQL时省略SQL段", func(t *testing.T) {
		execution := &executor.ExecutionResult{Rows: []map[string]any{}, RowCount: 0}

		got, err := buildUserPrompt("q", execution, "", 15)
		require.NoError(t, err)
		assert.NotContains(t, got, "SQL used")
	})
}
