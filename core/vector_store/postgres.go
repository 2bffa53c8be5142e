package vector_store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Malowking/askdb/pkg/schema"
	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PostgresStore PostgreSQL向量数据库实现
type PostgresStore struct {
	pool       *pgxpool.Pool
	schema     string // 向量数据存储的 schema
	metricType string // COSINE / L2 / IP
}

// NewPostgresStore 创建PostgreSQL向量存储实例
func NewPostgresStore(pool *pgxpool.Pool, metricType string) (VectorStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres pool cannot be nil")
	}
	if metricType == "" {
		metricType = "COSINE"
	}

	return &PostgresStore{
		pool:       pool,
		schema:     "vectors", // 使用独立的 vectors schema
		metricType: metricType,
	}, nil
}

// Setup 确保 pgvector 扩展和 vectors schema 可用
func (p *PostgresStore) Setup(ctx context.Context) error {
	// 1. 检查 pgvector 扩展是否已安装
	var extensionExists bool
	err := p.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector')").Scan(&extensionExists)
	if err != nil {
		return fmt.Errorf("failed to check pgvector extension: %w", err)
	}

	// 只在扩展不存在时尝试创建
	if !extensionExists {
		g.Log().Infof(ctx, "pgvector extension not found, attempting to create...")
		_, err = p.pool.Exec(ctx, "CREATE EXTENSION vector")
		if err != nil {
			return fmt.Errorf("failed to create pgvector extension: %w. Please ensure pgvector is installed for your PostgreSQL version", err)
		}
		g.Log().Infof(ctx, "pgvector extension created successfully")
	}

	// 2. 创建独立的 vectors schema
	_, err = p.pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", p.schema))
	if err != nil {
		return fmt.Errorf("failed to create vectors schema: %w", err)
	}

	g.Log().Infof(ctx, "PostgreSQL ready with pgvector extension and '%s' schema", p.schema)
	return nil
}

// CreateCollection 创建集合（表）
func (p *PostgresStore) CreateCollection(ctx context.Context, collectionName string, dimension int) error {
	// 清理表名，防止SQL注入
	tableName := sanitizeTableName(collectionName)
	fullTableName := fmt.Sprintf("%s.%s", p.schema, tableName)

	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			vector VECTOR(%d) NOT NULL,
			metadata JSONB DEFAULT '{}',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`, fullTableName, dimension)
	if _, err := p.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", fullTableName, err)
	}

	// HNSW 索引，按配置的距离度量选择操作符类
	var opClass string
	switch strings.ToUpper(p.metricType) {
	case "L2":
		opClass = "vector_l2_ops"
	case "IP", "INNER_PRODUCT":
		opClass = "vector_ip_ops"
	default:
		opClass = "vector_cosine_ops"
	}

	createIndexSQL := fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS idx_%s_vector ON %s USING hnsw (vector %s)",
		tableName, fullTableName, opClass,
	)
	if _, err := p.pool.Exec(ctx, createIndexSQL); err != nil {
		return fmt.Errorf("failed to create index on table %s: %w", fullTableName, err)
	}

	g.Log().Infof(ctx, "Table '%s' created with dimension %d and HNSW index (%s)", fullTableName, dimension, opClass)
	return nil
}

// CollectionExists 检查集合（表）是否存在
func (p *PostgresStore) CollectionExists(ctx context.Context, collectionName string) (bool, error) {
	tableName := sanitizeTableName(collectionName)

	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2)",
		p.schema, tableName,
	).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("failed to check if table %s.%s exists: %w", p.schema, tableName, err)
	}

	return exists, nil
}

// DeleteCollection 删除集合（表）
func (p *PostgresStore) DeleteCollection(ctx context.Context, collectionName string) error {
	tableName := sanitizeTableName(collectionName)
	fullTableName := fmt.Sprintf("%s.%s", p.schema, tableName)

	_, err := p.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", fullTableName))
	if err != nil {
		return fmt.Errorf("failed to drop table %s: %w", fullTableName, err)
	}

	g.Log().Infof(ctx, "Table '%s' deleted", fullTableName)
	return nil
}

// InsertVectors 插入向量数据
func (p *PostgresStore) InsertVectors(ctx context.Context, collectionName string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}

	tableName := sanitizeTableName(collectionName)
	fullTableName := fmt.Sprintf("%s.%s", p.schema, tableName)

	ids := make([]string, len(chunks))

	// 准备批量插入
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertSQL := fmt.Sprintf(`
		INSERT INTO %s (id, content, vector, metadata)
		VALUES ($1, $2, $3, $4)
	`, fullTableName)

	for idx, chunk := range chunks {
		// 生成chunk ID（如果不存在）
		if len(chunk.ID) == 0 {
			chunk.ID = uuid.New().String()
		}
		ids[idx] = chunk.ID

		// 截断文本（如果需要）
		content := truncateString(chunk.Content, 65535)

		// 转换向量为pgvector格式
		pgVector := pgvector.NewVector(vectors[idx])

		// 序列化metadata
		meta := chunk.MetaData
		if meta == nil {
			meta = map[string]any{}
		}
		metaBytes, err := sonic.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}

		_, err = tx.Exec(ctx, insertSQL, chunk.ID, content, pgVector, metaBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to insert vector for chunk %s: %w", chunk.ID, err)
		}
	}

	// 提交事务
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	g.Log().Infof(ctx, "Successfully inserted %d vectors into table '%s'", len(chunks), fullTableName)
	return ids, nil
}

// Search 向量相似度搜索
func (p *PostgresStore) Search(ctx context.Context, collectionName string, vector []float32, topK int, minScore float64) ([]*schema.Document, error) {
	tableName := sanitizeTableName(collectionName)
	fullTableName := fmt.Sprintf("%s.%s", p.schema, tableName)

	queryVector := pgvector.NewVector(vector)

	// 根据metricType选择pgvector操作符和分数计算方式
	var scoreCalc, orderBy string
	switch strings.ToUpper(p.metricType) {
	case "COSINE":
		// 余弦距离: 0=相同, 2=相反
		scoreCalc = "1 - (vector <=> $1)" // 转换为相似度: 1=相同, -1=相反
		orderBy = "vector <=> $1"
	case "L2":
		// 欧氏距离: 0=相同, 越大越远
		scoreCalc = "1 / (1 + (vector <-> $1))" // 归一化: 1=相同, 接近0=很远
		orderBy = "vector <-> $1"
	case "IP", "INNER_PRODUCT":
		// 内积: 值越大越相似
		scoreCalc = "(vector <#> $1)"
		orderBy = "vector <#> $1 DESC"
	default:
		g.Log().Warningf(ctx, "Unknown metricType '%s', using COSINE as default", p.metricType)
		scoreCalc = "1 - (vector <=> $1)"
		orderBy = "vector <=> $1"
	}

	searchSQL := fmt.Sprintf(`
		SELECT id, content, metadata,
		       %s as similarity_score
		FROM %s
		WHERE %s >= $2
		ORDER BY %s
		LIMIT $3
	`, scoreCalc, fullTableName, scoreCalc, orderBy)

	rows, err := p.pool.Query(ctx, searchSQL, queryVector, minScore, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to execute vector search: %w", err)
	}
	defer rows.Close()

	var results []*schema.Document
	for rows.Next() {
		var id, content string
		var metadataBytes []byte
		var score float64

		if err := rows.Scan(&id, &content, &metadataBytes, &score); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		doc := &schema.Document{
			ID:       id,
			Content:  content,
			MetaData: make(map[string]any),
			Score:    float32(score),
		}

		// 解析metadata
		if len(metadataBytes) > 0 {
			var metadata map[string]any
			if err := sonic.Unmarshal(metadataBytes, &metadata); err == nil {
				for k, v := range metadata {
					doc.MetaData[k] = v
				}
			}
		}

		results = append(results, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	// 按相似度排序
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

// Helper functions

// sanitizeTableName 简单的表名清理：只允许字母、数字和下划线
func sanitizeTableName(name string) string {
	var result strings.Builder
	for _, char := range name {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_' {
			result.WriteRune(char)
		} else {
			result.WriteRune('_')
		}
	}
	return result.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
