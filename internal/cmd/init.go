package cmd

import (
	"context"
	"fmt"

	"github.com/Malowking/askdb/agent/answer"
	"github.com/Malowking/askdb/agent/docqa"
	"github.com/Malowking/askdb/agent/executor"
	"github.com/Malowking/askdb/agent/generator"
	"github.com/Malowking/askdb/agent/pipeline"
	"github.com/Malowking/askdb/agent/router"
	"github.com/Malowking/askdb/agent/schemactx"
	"github.com/Malowking/askdb/core/common"
	"github.com/Malowking/askdb/core/config"
	"github.com/Malowking/askdb/core/llm"
	"github.com/Malowking/askdb/core/vector_store"
	"github.com/Malowking/askdb/indexer"
	"github.com/Malowking/askdb/internal/controller/askdb"
	"github.com/Malowking/askdb/internal/dao"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/jackc/pgx/v5/pgxpool"
)

// bootstrap 构建全部组件。配置在启动时加载一次，所有依赖显式注入，
// 组件内部不做任何全局查找。
func bootstrap(ctx context.Context) (*askdb.ControllerV1, error) {
	g.Log().Info(ctx, "Validating application configuration...")
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	// 业务数据库（问答日志）
	if err := dao.InitDB(&cfg.Postgres); err != nil {
		return nil, fmt.Errorf("database connection initialization failed: %w", err)
	}

	// pgx连接池：查询执行 + pgvector存储共用
	g.Log().Infof(ctx, "Connecting to PostgreSQL at: %s:%s, database: %s",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.Database)
	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	// 向量存储
	store, err := vector_store.NewVectorStore(ctx, cfg, pool)
	if err != nil {
		return nil, fmt.Errorf("vector store initialization failed: %w", err)
	}
	if err := store.Setup(ctx); err != nil {
		return nil, fmt.Errorf("vector store setup failed: %w", err)
	}

	// Embedding客户端
	embedder, err := common.NewEmbedding(ctx, &cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedder initialization failed: %w", err)
	}

	// 文本生成模型
	chatModel, err := llm.NewChatModel(ctx, &cfg.Chat)
	if err != nil {
		return nil, fmt.Errorf("chat model initialization failed: %w", err)
	}

	// 两个语料各一个检索器
	schemaRetriever, err := vector_store.NewRetriever(store, embedder,
		cfg.Pipeline.SchemaCollection, cfg.Embedding.Dim, cfg.Pipeline.MinScore)
	if err != nil {
		return nil, fmt.Errorf("schema retriever initialization failed: %w", err)
	}
	docRetriever, err := vector_store.NewRetriever(store, embedder,
		cfg.Pipeline.DocCollection, cfg.Embedding.Dim, cfg.Pipeline.MinScore)
	if err != nil {
		return nil, fmt.Errorf("doc retriever initialization failed: %w", err)
	}

	// 问答管道
	p := pipeline.NewPipeline(
		router.NewRouter(chatModel),
		schemactx.NewBuilder(schemaRetriever, cfg.Pipeline.SchemaTopK, cfg.Pipeline.FallbackTables),
		generator.NewGenerator(chatModel),
		executor.NewExecutor(pool),
		answer.NewSynthesizer(chatModel, cfg.Pipeline.MaxSampleRows),
		docqa.NewAgent(docRetriever, chatModel, cfg.Pipeline.DocTopK),
	)

	// 语料索引器
	idx := indexer.NewIndexer(store, embedder, cfg.Embedding.Dim)

	g.Log().Info(ctx, "✓ All components initialized successfully")
	return askdb.NewV1(cfg, p, schemaRetriever, docRetriever, idx), nil
}
