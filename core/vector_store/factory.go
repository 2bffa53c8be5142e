package vector_store

import (
	"context"
	"fmt"

	"github.com/Malowking/askdb/core/config"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewVectorStore 根据配置创建向量存储实例。
// pgvector模式复用传入的连接池；milvus模式自行建立客户端连接。
func NewVectorStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (VectorStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	g.Log().Infof(ctx, "Initializing vector store with type: %s", cfg.VectorStore.Type)

	switch VectorStoreType(cfg.VectorStore.Type) {
	case VectorStoreTypePostgreSQL:
		if pool == nil {
			return nil, fmt.Errorf("postgres pool is required for pgvector store")
		}
		return NewPostgresStore(pool, cfg.VectorStore.MetricType)
	case VectorStoreTypeMilvus:
		return InitializeMilvusStore(ctx, &cfg.Milvus, cfg.VectorStore.MetricType)
	default:
		return nil, fmt.Errorf("unsupported vector store type: %s. Supported types: pgvector, milvus", cfg.VectorStore.Type)
	}
}
