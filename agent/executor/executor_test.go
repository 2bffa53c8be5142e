package executor

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidator 测试只读校验
func TestValidator(t *testing.T) {
	ctx := context.Background()
	v := NewValidator()

	t.Run("SELECT语句通过", func(t *testing.T) {
		assert.NoError(t, v.Validate(ctx, "SELECT COUNT(*) FROM users"))
	})

	t.Run("小写select通过", func(t *testing.T) {
		assert.NoError(t, v.Validate(ctx, "select id, name from users"))
	})

	t.Run("带前后空白通过", func(t *testing.T) {
		assert.NoError(t, v.Validate(ctx, "  \nSELECT 1 FROM users\n  "))
	})

	t.Run("列名含created_at不误伤", func(t *testing.T) {
		assert.NoError(t, v.Validate(ctx, "SELECT created_at FROM audit_login ORDER BY created_at DESC"))
	})

	t.Run("UPDATE语句拒绝", func(t *testing.T) {
		err := v.Validate(ctx, "UPDATE users SET name = 'x'")
		assert.ErrorIs(t, err, ErrNotSelect)
	})

	t.Run("DROP语句拒绝", func(t *testing.T) {
		err := v.Validate(ctx, "DROP TABLE users")
		assert.ErrorIs(t, err, ErrNotSelect)
	})

	t.Run("空语句拒绝", func(t *testing.T) {
		err := v.Validate(ctx, "   ")
		assert.ErrorIs(t, err, ErrNotSelect)
	})
}

// TestExecute 测试执行器的本地错误收敛
func TestExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("非SELECT语句不触碰数据库", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		e := NewExecutor(mock)
		result := e.Execute(ctx, "DROP TABLE users")

		assert.False(t, result.OK())
		assert.Equal(t, "Only SELECT queries are allowed", result.Error)
		assert.Nil(t, result.Rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("计数查询返回行映射", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))

		e := NewExecutor(mock)
		result := e.Execute(ctx, "SELECT COUNT(*) AS count FROM users")

		require.True(t, result.OK(), "unexpected error: %s", result.Error)
		assert.Equal(t, 1, result.RowCount)
		require.Len(t, result.Rows, 1)
		assert.Equal(t, int64(5), result.Rows[0]["count"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("多行多列结果", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id, name FROM users").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
				AddRow(int64(1), "alice").
				AddRow(int64(2), "bob"))

		e := NewExecutor(mock)
		result := e.Execute(ctx, "SELECT id, name FROM users")

		require.True(t, result.OK())
		assert.Equal(t, 2, result.RowCount)
		assert.Equal(t, "alice", result.Rows[0]["name"])
		assert.Equal(t, int64(2), result.Rows[1]["id"])
	})

	t.Run("空结果集RowCount为0", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT id FROM users").
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		e := NewExecutor(mock)
		result := e.Execute(ctx, "SELECT id FROM users WHERE id = -1")

		require.True(t, result.OK())
		assert.Equal(t, 0, result.RowCount)
		assert.NotNil(t, result.Rows)
		assert.Empty(t, result.Rows)
	})

	t.Run("执行失败收敛为Error字段", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT missing FROM users").
			WillReturnError(errors.New(`column "missing" does not exist`))

		e := NewExecutor(mock)
		result := e.Execute(ctx, "SELECT missing FROM users")

		assert.False(t, result.OK())
		assert.Contains(t, result.Error, "does not exist")
		assert.Nil(t, result.Rows)
	})
}
