package schemactx

import (
	"context"
	"testing"

	"github.com/Malowking/askdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRetriever struct {
	docs []*schema.Document
	err  error
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string, topK int) ([]*schema.Document, error) {
	return s.docs, s.err
}

// TestBuild 测试schema上下文构建
func TestBuild(t *testing.T) {
	ctx := context.Background()
	fallbackTables := []string{"users", "permissions", "users_permissions", "audit_login"}

	t.Run("按检索顺序拼接片段", func(t *testing.T) {
		r := &stubRetriever{docs: []*schema.Document{
			{ID: "1", Content: "CREATE TABLE users (id SERIAL PRIMARY KEY);"},
			{ID: "2", Content: "CREATE TABLE permissions (id SERIAL PRIMARY KEY);"},
		}}
		b := NewBuilder(r, 8, fallbackTables)

		got, err := b.Build(ctx, "How many users?")
		require.NoError(t, err)
		assert.Equal(t,
			"CREATE TABLE users (id SERIAL PRIMARY KEY);\n\n---\n\nCREATE TABLE permissions (id SERIAL PRIMARY KEY);",
			got)
	})

	t.Run("重复片段不做去重", func(t *testing.T) {
		r := &stubRetriever{docs: []*schema.Document{
			{ID: "1", Content: "chunk"},
			{ID: "2", Content: "chunk"},
		}}
		b := NewBuilder(r, 8, fallbackTables)

		got, err := b.Build(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, "chunk\n\n---\n\nchunk", got)
	})

	t.Run("检索无结果时回退到表清单", func(t *testing.T) {
		b := NewBuilder(&stubRetriever{}, 8, fallbackTables)

		got, err := b.Build(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, "No schema context found. Available tables: users, permissions, users_permissions, audit_login.", got)
	})

	t.Run("检索失败向上传播", func(t *testing.T) {
		b := NewBuilder(&stubRetriever{err: assert.AnError}, 8, fallbackTables)

		_, err := b.Build(ctx, "q")
		assert.Error(t, err)
	})
}
