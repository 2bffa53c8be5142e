package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/gogf/gf/v2/frame/g"
)

// Config 应用配置。启动时从配置文件加载一次，之后通过引用传递给各组件，
// 组件内部不再访问全局配置（避免隐式依赖）。
type Config struct {
	Chat        ChatConfig        // 文本生成模型配置
	Embedding   EmbeddingConfig   // Embedding模型配置
	Postgres    PostgresConfig    // 业务数据库 + pgvector 配置
	Milvus      MilvusConfig      // Milvus配置（vectorStore.type=milvus时使用）
	VectorStore VectorStoreConfig // 向量库选择
	Pipeline    PipelineConfig    // 问答管道配置
}

// ChatConfig 文本生成模型配置
type ChatConfig struct {
	Provider string // 模型提供方: openai / qwen
	APIKey   string
	BaseURL  string
	Model    string
}

// EmbeddingConfig Embedding模型配置
type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Dim     int // 向量维度
}

// EmbeddingConfig 实现 embedding config 接口
func (c *EmbeddingConfig) GetAPIKey() string         { return c.APIKey }
func (c *EmbeddingConfig) GetBaseURL() string        { return c.BaseURL }
func (c *EmbeddingConfig) GetEmbeddingModel() string { return c.Model }

// PostgresConfig PostgreSQL连接配置
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConnString 构建连接字符串（去掉空密码的 password= 参数）
func (c *PostgresConfig) ConnString() string {
	if c.Password != "" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Database, c.SSLMode)
}

// MilvusConfig Milvus连接配置
type MilvusConfig struct {
	Address  string
	Database string
}

// VectorStoreConfig 向量库选择配置
type VectorStoreConfig struct {
	Type       string // pgvector / milvus
	MetricType string // 向量相似度度量类型，如 "COSINE", "L2", "IP"，默认 "COSINE"
}

// PipelineConfig 问答管道配置
type PipelineConfig struct {
	SchemaCollection string   // schema语料集合名
	DocCollection    string   // 文档语料集合名
	SchemaTopK       int      // schema检索数量（默认8）
	DocTopK          int      // 文档检索数量（默认6）
	MinScore         float64  // 检索分数阈值（默认0，不过滤）
	FallbackTables   []string // 检索无结果时兜底的表名列表
	MaxSampleRows    int      // 合成答案时采样的最大行数（默认15）
}

// Load 从配置文件加载并校验配置。整个进程只在启动时调用一次。
func Load(ctx context.Context) (*Config, error) {
	cfg := &Config{
		Chat: ChatConfig{
			Provider: g.Cfg().MustGet(ctx, "chat.provider", "openai").String(),
			APIKey:   g.Cfg().MustGet(ctx, "chat.apiKey", "").String(),
			BaseURL:  g.Cfg().MustGet(ctx, "chat.baseURL", "").String(),
			Model:    g.Cfg().MustGet(ctx, "chat.model", "").String(),
		},
		Embedding: EmbeddingConfig{
			APIKey:  g.Cfg().MustGet(ctx, "embedding.apiKey", "").String(),
			BaseURL: g.Cfg().MustGet(ctx, "embedding.baseURL", "").String(),
			Model:   g.Cfg().MustGet(ctx, "embedding.model", "").String(),
			Dim:     g.Cfg().MustGet(ctx, "embedding.dim", 1024).Int(),
		},
		Postgres: PostgresConfig{
			Host:     g.Cfg().MustGet(ctx, "postgres.host", "").String(),
			Port:     g.Cfg().MustGet(ctx, "postgres.port", "5432").String(),
			User:     g.Cfg().MustGet(ctx, "postgres.user", "").String(),
			Password: g.Cfg().MustGet(ctx, "postgres.password", "").String(),
			Database: g.Cfg().MustGet(ctx, "postgres.database", "").String(),
			SSLMode:  g.Cfg().MustGet(ctx, "postgres.sslmode", "disable").String(),
		},
		Milvus: MilvusConfig{
			Address:  g.Cfg().MustGet(ctx, "milvus.address", "").String(),
			Database: g.Cfg().MustGet(ctx, "milvus.database", "default").String(),
		},
		VectorStore: VectorStoreConfig{
			Type:       g.Cfg().MustGet(ctx, "vectorStore.type", "pgvector").String(),
			MetricType: g.Cfg().MustGet(ctx, "vectorStore.metricType", "COSINE").String(),
		},
		Pipeline: PipelineConfig{
			SchemaCollection: g.Cfg().MustGet(ctx, "pipeline.schemaCollection", "schema_vectors").String(),
			DocCollection:    g.Cfg().MustGet(ctx, "pipeline.docCollection", "html_vectors").String(),
			SchemaTopK:       g.Cfg().MustGet(ctx, "pipeline.schemaTopK", 8).Int(),
			DocTopK:          g.Cfg().MustGet(ctx, "pipeline.docTopK", 6).Int(),
			MinScore:         g.Cfg().MustGet(ctx, "pipeline.minScore", 0.0).Float64(),
			FallbackTables:   g.Cfg().MustGet(ctx, "pipeline.fallbackTables", defaultFallbackTables).Strings(),
			MaxSampleRows:    g.Cfg().MustGet(ctx, "pipeline.maxSampleRows", 15).Int(),
		},
	}

	if err := cfg.validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

var defaultFallbackTables = []string{"users", "permissions", "users_permissions", "audit_login"}

// validate 校验必需配置项
func (c *Config) validate(ctx context.Context) error {
	var missingConfigs []string
	var warnings []string

	if c.Chat.APIKey == "" {
		missingConfigs = append(missingConfigs, "chat.apiKey")
	}
	if c.Chat.Model == "" {
		missingConfigs = append(missingConfigs, "chat.model")
	}
	if c.Chat.Provider != "openai" && c.Chat.Provider != "qwen" {
		missingConfigs = append(missingConfigs, "chat.provider (must be openai or qwen)")
	}

	if c.Embedding.APIKey == "" {
		missingConfigs = append(missingConfigs, "embedding.apiKey")
	}
	if c.Embedding.BaseURL == "" {
		missingConfigs = append(missingConfigs, "embedding.baseURL")
	}
	if c.Embedding.Model == "" {
		missingConfigs = append(missingConfigs, "embedding.model")
	}

	if c.Postgres.Host == "" {
		missingConfigs = append(missingConfigs, "postgres.host")
	}
	if c.Postgres.User == "" {
		missingConfigs = append(missingConfigs, "postgres.user")
	}
	if c.Postgres.Database == "" {
		missingConfigs = append(missingConfigs, "postgres.database")
	}

	if c.VectorStore.Type == "milvus" && c.Milvus.Address == "" {
		missingConfigs = append(missingConfigs, "milvus.address")
	}

	if c.Chat.BaseURL == "" {
		warnings = append(warnings, "chat.baseURL is not set, the provider default endpoint will be used")
	}

	if len(warnings) > 0 {
		g.Log().Warningf(ctx, "Configuration warnings:\n- %s", strings.Join(warnings, "\n- "))
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configuration items:\n- %s\n\nPlease check your config.yaml file and ensure all required settings are properly configured", strings.Join(missingConfigs, "\n- "))
	}

	g.Log().Info(ctx, "✓ All required configuration items are present")
	return nil
}
