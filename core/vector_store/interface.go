package vector_store

import (
	"context"

	"github.com/Malowking/askdb/pkg/schema"
)

// VectorStoreType 向量数据库类型
type VectorStoreType string

const (
	VectorStoreTypeMilvus     VectorStoreType = "milvus"
	VectorStoreTypePostgreSQL VectorStoreType = "pgvector"
)

// VectorStore 向量数据库接口
type VectorStore interface {
	// Setup 准备底层数据库（pgvector扩展 / milvus database）
	Setup(ctx context.Context) error

	// CreateCollection 创建集合
	CreateCollection(ctx context.Context, collectionName string, dim int) error

	// CollectionExists 检查集合是否存在
	CollectionExists(ctx context.Context, collectionName string) (bool, error)

	// DeleteCollection 删除集合
	DeleteCollection(ctx context.Context, collectionName string) error

	// InsertVectors 插入向量数据，返回每个chunk的ID
	InsertVectors(ctx context.Context, collectionName string, chunks []*schema.Document, vectors [][]float32) ([]string, error)

	// Search 向量相似度搜索，按分数降序返回至多topK个结果，过滤低于minScore的结果
	Search(ctx context.Context, collectionName string, vector []float32, topK int, minScore float64) ([]*schema.Document, error)
}
