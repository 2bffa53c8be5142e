package vector_store

import (
	"context"
	"fmt"
	"testing"

	"github.com/Malowking/askdb/core/config"
	"github.com/Malowking/askdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVectorStoreInterface 测试两种数据库是否都实现了接口
func TestVectorStoreInterface(t *testing.T) {
	t.Run("Milvus实现VectorStore接口", func(t *testing.T) {
		var _ VectorStore = (*MilvusStore)(nil)
	})

	t.Run("PostgreSQL实现VectorStore接口", func(t *testing.T) {
		var _ VectorStore = (*PostgresStore)(nil)
	})
}

// TestFactoryCreation 测试工厂函数
func TestFactoryCreation(t *testing.T) {
	ctx := context.Background()

	t.Run("pgvector类型缺少连接池应该失败", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.VectorStore.Type = "pgvector"

		store, err := NewVectorStore(ctx, cfg, nil)
		assert.Error(t, err)
		assert.Nil(t, store)
	})

	t.Run("不支持的类型", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.VectorStore.Type = "unsupported"

		store, err := NewVectorStore(ctx, cfg, nil)
		assert.Error(t, err)
		assert.Nil(t, store)
		assert.Contains(t, err.Error(), "unsupported vector store type")
	})

	t.Run("空配置应该失败", func(t *testing.T) {
		store, err := NewVectorStore(ctx, nil, nil)
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

// TestSanitizeTableName 测试表名清理
func TestSanitizeTableName(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"schema_vectors", "schema_vectors"},
		{"html_vectors", "html_vectors"},
		{"my-collection", "my_collection"},
		{"my collection; DROP TABLE users", "my_collection__DROP_TABLE_users"},
		{"集合", "__"},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("input=%s", c.input), func(t *testing.T) {
			assert.Equal(t, c.expected, sanitizeTableName(c.input))
		})
	}
}

// stubStore 内存桩实现，用于测试Retriever的逻辑
type stubStore struct {
	exists bool
	docs   []*schema.Document
}

func (s *stubStore) Setup(ctx context.Context) error { return nil }
func (s *stubStore) CreateCollection(ctx context.Context, name string, dim int) error {
	return nil
}
func (s *stubStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	return s.exists, nil
}
func (s *stubStore) DeleteCollection(ctx context.Context, name string) error { return nil }
func (s *stubStore) InsertVectors(ctx context.Context, name string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	return nil, nil
}
func (s *stubStore) Search(ctx context.Context, name string, vector []float32, topK int, minScore float64) ([]*schema.Document, error) {
	return s.docs, nil
}

// stubEmbedder 固定向量的embedding桩
type stubEmbedder struct{}

func (e *stubEmbedder) EmbedStrings(ctx context.Context, texts []string, dimensions int) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = make([]float32, dimensions)
	}
	return result, nil
}

// TestRetriever 测试检索器行为
func TestRetriever(t *testing.T) {
	ctx := context.Background()

	t.Run("集合不存在时返回空结果", func(t *testing.T) {
		store := &stubStore{exists: false}
		r, err := NewRetriever(store, &stubEmbedder{}, "schema_vectors", 1024, 0)
		require.NoError(t, err)

		docs, err := r.Retrieve(ctx, "用户表有哪些字段", 8)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("按ID去重并截断到topK", func(t *testing.T) {
		store := &stubStore{
			exists: true,
			docs: []*schema.Document{
				{ID: "a", Content: "chunk-a", Score: 0.9},
				{ID: "a", Content: "chunk-a-dup", Score: 0.85},
				{ID: "b", Content: "chunk-b", Score: 0.8},
				{ID: "c", Content: "chunk-c", Score: 0.7},
			},
		}
		r, err := NewRetriever(store, &stubEmbedder{}, "schema_vectors", 1024, 0)
		require.NoError(t, err)

		docs, err := r.Retrieve(ctx, "query", 2)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "a", docs[0].ID)
		assert.Equal(t, "chunk-a", docs[0].Content)
		assert.Equal(t, "b", docs[1].ID)
	})

	t.Run("非法参数", func(t *testing.T) {
		_, err := NewRetriever(nil, &stubEmbedder{}, "c", 1024, 0)
		assert.Error(t, err)

		_, err = NewRetriever(&stubStore{}, nil, "c", 1024, 0)
		assert.Error(t, err)

		_, err = NewRetriever(&stubStore{}, &stubEmbedder{}, "", 1024, 0)
		assert.Error(t, err)
	})
}

// TestMilvusScoreNormalization 测试milvus分数到相似度的归一化与阈值过滤
func TestMilvusScoreNormalization(t *testing.T) {
	t.Run("L2距离转相似度", func(t *testing.T) {
		assert.InDelta(t, 1.0, float64(toSimilarity("L2", 0)), 1e-6)

		near := toSimilarity("L2", 0.1)
		far := toSimilarity("L2", 5.0)
		assert.Greater(t, near, far, "距离越小相似度应该越高")
	})

	t.Run("COSINE和IP原样返回", func(t *testing.T) {
		assert.Equal(t, float32(0.87), toSimilarity("COSINE", 0.87))
		assert.Equal(t, float32(12.5), toSimilarity("IP", 12.5))
	})

	t.Run("L2下阈值过滤保留最近的结果", func(t *testing.T) {
		// milvus返回的是距离，归一化后再过滤，保留的必须是距离最小的片段
		docs := []*schema.Document{
			{ID: "near", Score: toSimilarity("L2", 0.1)},
			{ID: "far", Score: toSimilarity("L2", 5.0)},
		}

		filtered := filterByMinScore(docs, 0.5)
		require.Len(t, filtered, 1)
		assert.Equal(t, "near", filtered[0].ID)
	})

	t.Run("阈值为0时不过滤", func(t *testing.T) {
		docs := []*schema.Document{{ID: "a", Score: 0}}
		assert.Len(t, filterByMinScore(docs, 0), 1)
	})
}
