package vector_store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Malowking/askdb/core/config"
	"github.com/Malowking/askdb/pkg/schema"
	"github.com/bytedance/sonic"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"
)

// MilvusStore Milvus向量数据库实现
type MilvusStore struct {
	client     *milvusclient.Client
	database   string
	metricType string // COSINE / L2 / IP
}

// InitializeMilvusStore 连接Milvus并创建存储实例
func InitializeMilvusStore(ctx context.Context, cfg *config.MilvusConfig, metricType string) (VectorStore, error) {
	if cfg == nil || cfg.Address == "" {
		return nil, fmt.Errorf("milvus.address is required but not found in config file. Please check your config.yaml file and ensure milvus.address is properly set")
	}
	if metricType == "" {
		metricType = "COSINE"
	}

	database := cfg.Database
	if database == "" {
		database = "default"
	}

	g.Log().Infof(ctx, "Connecting to Milvus at: %s, database: %s", cfg.Address, database)

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{
		Address: cfg.Address,
		DBName:  database,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create milvus client (address: %s, database: %s): %w", cfg.Address, database, err)
	}

	return &MilvusStore{
		client:     client,
		database:   database,
		metricType: metricType,
	}, nil
}

// metric 集合索引使用的milvus度量类型
func (m *MilvusStore) metric() entity.MetricType {
	switch strings.ToUpper(m.metricType) {
	case "L2":
		return entity.L2
	case "IP", "INNER_PRODUCT":
		return entity.IP
	default:
		return entity.COSINE
	}
}

// Setup 创建数据库（如果不存在）
func (m *MilvusStore) Setup(ctx context.Context) error {
	dbNames, err := m.client.ListDatabase(ctx, milvusclient.NewListDatabaseOption())
	if err != nil {
		return fmt.Errorf("failed to list databases: %w", err)
	}

	for _, name := range dbNames {
		if strings.EqualFold(name, m.database) {
			g.Log().Infof(ctx, "Database '%s' already exists, skipping creation", m.database)
			return nil
		}
	}

	// 数据库不存在，创建
	err = m.client.CreateDatabase(ctx, milvusclient.NewCreateDatabaseOption(m.database))
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	g.Log().Infof(ctx, "Database '%s' created successfully", m.database)
	return nil
}

// collectionFields 文本分片集合的字段定义
func collectionFields(dim int) []*entity.Field {
	dimStr := fmt.Sprintf("%d", dim)
	return []*entity.Field{
		{
			Name:        "id",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "256"},
			PrimaryKey:  true,
			AutoID:      false,
			Description: "Chunk unique ID (primary key)",
		},
		{
			Name:        "content",
			DataType:    entity.FieldTypeVarChar,
			TypeParams:  map[string]string{"max_length": "65535"},
			Description: "Chunk content",
		},
		{
			Name:        "vector",
			DataType:    entity.FieldTypeFloatVector,
			TypeParams:  map[string]string{"dim": dimStr},
			Description: "Chunk embedding vector",
		},
		{
			Name:        "metadata",
			DataType:    entity.FieldTypeJSON,
			Description: "Additional metadata (JSON)",
		},
	}
}

// CreateCollection 创建集合
func (m *MilvusStore) CreateCollection(ctx context.Context, collectionName string, dim int) error {
	collSchema := &entity.Schema{
		CollectionName: collectionName,
		Description:    "存储文本分片及其向量",
		AutoID:         false,
		Fields:         collectionFields(dim),
	}

	// 创建集合，并设置vector为索引
	err := m.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(collectionName, collSchema).WithIndexOptions(
		milvusclient.NewCreateIndexOption(collectionName, "vector", index.NewHNSWIndex(m.metric(), 64, 128))))
	if err != nil {
		return fmt.Errorf("failed to create Milvus collection: %w", err)
	}

	// Load collection into memory
	_, err = m.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(collectionName))
	if err != nil {
		return fmt.Errorf("failed to load Milvus collection: %w", err)
	}

	g.Log().Infof(ctx, "Collection '%s' created with dimension %d, index built and loaded", collectionName, dim)
	return nil
}

// CollectionExists 检查集合是否存在
func (m *MilvusStore) CollectionExists(ctx context.Context, collectionName string) (bool, error) {
	has, err := m.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(collectionName))
	if err != nil {
		return false, fmt.Errorf("failed to check if collection exists: %w", err)
	}
	return has, nil
}

// DeleteCollection 删除集合
func (m *MilvusStore) DeleteCollection(ctx context.Context, collectionName string) error {
	err := m.client.DropCollection(ctx, milvusclient.NewDropCollectionOption(collectionName))
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	g.Log().Infof(ctx, "Collection '%s' deleted", collectionName)
	return nil
}

// InsertVectors 插入向量数据 - 直接使用float32向量
func (m *MilvusStore) InsertVectors(ctx context.Context, collectionName string, chunks []*schema.Document, vectors [][]float32) ([]string, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return []string{}, nil
	}

	ids := make([]string, len(chunks))
	contents := make([]string, len(chunks))
	metadataList := make([][]byte, len(chunks))

	for idx, chunk := range chunks {
		// 生成chunk ID（如果不存在）
		if len(chunk.ID) == 0 {
			chunk.ID = uuid.New().String()
		}
		ids[idx] = chunk.ID

		// 截断文本（如果需要）
		contents[idx] = truncateString(chunk.Content, 65535)

		// 序列化metadata
		metaBytes, err := marshalMetadata(chunk.MetaData)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataList[idx] = metaBytes
	}

	dim := len(vectors[0])

	columns := []column.Column{
		column.NewColumnVarChar("id", ids),
		column.NewColumnVarChar("content", contents),
		column.NewColumnFloatVector("vector", dim, vectors),
		column.NewColumnJSONBytes("metadata", metadataList),
	}

	insertOpt := milvusclient.NewColumnBasedInsertOption(collectionName, columns...)
	result, err := m.client.Insert(ctx, insertOpt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert vectors: %w", err)
	}

	g.Log().Infof(ctx, "Successfully inserted %d vectors into collection '%s'", result.InsertCount, collectionName)
	return ids, nil
}

// Search 向量相似度搜索
func (m *MilvusStore) Search(ctx context.Context, collectionName string, vector []float32, topK int, minScore float64) ([]*schema.Document, error) {
	entityVectors := []entity.Vector{entity.FloatVector(vector)}

	searchOpt := milvusclient.NewSearchOption(collectionName, topK, entityVectors).
		WithANNSField("vector").
		WithOutputFields("id", "content", "metadata").
		WithConsistencyLevel(entity.ClBounded)

	results, err := m.client.Search(ctx, searchOpt)
	if err != nil {
		return nil, fmt.Errorf("search has error: %w", err)
	}

	if len(results) == 0 {
		return []*schema.Document{}, nil
	}

	docs, err := convertResultsToDocuments(results[0].Fields, results[0].Scores)
	if err != nil {
		return nil, err
	}

	// 统一为相似度口径后再按阈值过滤；结果顺序沿用milvus的最优优先排序
	for _, doc := range docs {
		doc.Score = toSimilarity(m.metricType, doc.Score)
	}
	return filterByMinScore(docs, minScore), nil
}

// toSimilarity 把milvus返回的原始分数统一成越大越相似的相似度。
// L2返回的是距离（越小越近），做 1/(1+d) 归一化，与pgvector后端口径一致；
// COSINE和IP本身就是相似度，原样返回。
func toSimilarity(metricType string, score float32) float32 {
	if strings.ToUpper(metricType) == "L2" {
		return 1 / (1 + score)
	}
	return score
}

// filterByMinScore 过滤相似度低于阈值的结果，阈值为0时不过滤
func filterByMinScore(docs []*schema.Document, minScore float64) []*schema.Document {
	if minScore <= 0 {
		return docs
	}
	filtered := make([]*schema.Document, 0, len(docs))
	for _, doc := range docs {
		if float64(doc.Score) >= minScore {
			filtered = append(filtered, doc)
		}
	}
	return filtered
}

// convertResultsToDocuments 转换搜索结果为文档
func convertResultsToDocuments(columns []column.Column, scores []float32) ([]*schema.Document, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	// 确定文档数量
	numDocs := columns[0].Len()
	result := make([]*schema.Document, numDocs)
	for i := range result {
		result[i] = &schema.Document{
			MetaData: make(map[string]any),
		}
	}

	// 设置分数
	for i := 0; i < numDocs && i < len(scores); i++ {
		result[i].Score = scores[i]
	}

	// 处理各列数据
	for _, col := range columns {
		switch col.Name() {
		case "id":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, fmt.Errorf("failed to get id: %w", err)
				}
				if str, ok := val.(string); ok {
					result[i].ID = str
				}
			}
		case "content":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					return nil, fmt.Errorf("failed to get content: %w", err)
				}
				if str, ok := val.(string); ok {
					result[i].Content = str
				}
			}
		case "metadata":
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil || val == nil {
					continue
				}

				// 处理JSON格式的metadata
				switch v := val.(type) {
				case string:
					var metadata map[string]any
					if err := sonic.Unmarshal([]byte(v), &metadata); err == nil {
						for k, mv := range metadata {
							result[i].MetaData[k] = mv
						}
					}
				case []byte:
					var metadata map[string]any
					if err := sonic.Unmarshal(v, &metadata); err == nil {
						for k, mv := range metadata {
							result[i].MetaData[k] = mv
						}
					}
				}
			}
		default:
			// 其他字段添加到metadata
			for i := 0; i < col.Len(); i++ {
				val, err := col.Get(i)
				if err != nil {
					continue
				}
				result[i].MetaData[col.Name()] = val
			}
		}
	}

	return result, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if len(metadata) == 0 {
		return []byte("{}"), nil
	}
	return sonic.Marshal(metadata)
}
