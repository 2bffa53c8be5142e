package indexer

import (
	"context"
	"strings"

	"github.com/Malowking/askdb/core/errors"
	"github.com/Malowking/askdb/core/vector_store"
	"github.com/Malowking/askdb/pkg/schema"
	"github.com/cloudwego/eino-ext/components/document/parser/html"
	"github.com/cloudwego/eino-ext/components/document/transformer/splitter/recursive"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/gogf/gf/v2/frame/g"
)

const (
	htmlChunkSize    = 400
	htmlChunkOverlap = 80
)

// Embedder 批量向量化接口，common.CustomEmbedder实现了该接口
type Embedder interface {
	EmbedStrings(ctx context.Context, texts []string, dimensions int) ([][]float32, error)
}

// Indexer 语料索引器：切分、向量化并写入向量库
type Indexer struct {
	store    vector_store.VectorStore
	embedder Embedder
	dim      int
}

func NewIndexer(store vector_store.VectorStore, embedder Embedder, dim int) *Indexer {
	return &Indexer{
		store:    store,
		embedder: embedder,
		dim:      dim,
	}
}

// IndexSchema 索引数据库schema文本。集合整体重建（先删后建），
// schema语料小且变更不频繁，重建比增量合并简单可靠。
func (i *Indexer) IndexSchema(ctx context.Context, collection, schemaText string) (int, error) {
	chunks := ChunkSchema(schemaText)
	g.Log().Infof(ctx, "schema切分完成，共 %d 个片段", len(chunks))

	if err := i.resetCollection(ctx, collection); err != nil {
		return 0, err
	}
	return i.embedAndInsert(ctx, collection, chunks)
}

// IndexHTML 索引HTML文档。解析为纯文本后递归切分，追加写入集合
// （集合不存在时自动创建）。source用于标记片段来源。
func (i *Indexer) IndexHTML(ctx context.Context, collection, source, htmlContent string) (int, error) {
	htmlParser, err := html.NewParser(ctx, &html.Config{})
	if err != nil {
		return 0, errors.Newf(errors.ErrIndexingFailed, "创建HTML解析器失败: %v", err)
	}

	parsed, err := htmlParser.Parse(ctx, strings.NewReader(htmlContent))
	if err != nil {
		return 0, errors.Newf(errors.ErrIndexingFailed, "HTML解析失败: %v", err)
	}

	splitter, err := recursive.NewSplitter(ctx, &recursive.Config{
		ChunkSize:   htmlChunkSize,
		OverlapSize: htmlChunkOverlap,
		Separators:  []string{"\n", "。", "?", "？", "!", "！"},
	})
	if err != nil {
		return 0, errors.Newf(errors.ErrIndexingFailed, "创建分割器失败: %v", err)
	}

	split, err := splitter.Transform(ctx, parsed)
	if err != nil {
		return 0, errors.Newf(errors.ErrIndexingFailed, "文档切分失败: %v", err)
	}

	chunks := convertDocuments(split, source)
	if len(chunks) == 0 {
		g.Log().Warningf(ctx, "HTML文档 %s 切分后无有效片段", source)
		return 0, nil
	}
	g.Log().Infof(ctx, "HTML文档 %s 切分完成，共 %d 个片段", source, len(chunks))

	if err := i.ensureCollection(ctx, collection); err != nil {
		return 0, err
	}
	return i.embedAndInsert(ctx, collection, chunks)
}

// resetCollection 重建集合
func (i *Indexer) resetCollection(ctx context.Context, collection string) error {
	exists, err := i.store.CollectionExists(ctx, collection)
	if err != nil {
		return errors.Newf(errors.ErrIndexingFailed, "检查集合失败: %v", err)
	}
	if exists {
		if err := i.store.DeleteCollection(ctx, collection); err != nil {
			return errors.Newf(errors.ErrIndexingFailed, "删除旧集合失败: %v", err)
		}
	}
	if err := i.store.CreateCollection(ctx, collection, i.dim); err != nil {
		return errors.Newf(errors.ErrIndexingFailed, "创建集合失败: %v", err)
	}
	return nil
}

// ensureCollection 确保集合存在
func (i *Indexer) ensureCollection(ctx context.Context, collection string) error {
	exists, err := i.store.CollectionExists(ctx, collection)
	if err != nil {
		return errors.Newf(errors.ErrIndexingFailed, "检查集合失败: %v", err)
	}
	if !exists {
		if err := i.store.CreateCollection(ctx, collection, i.dim); err != nil {
			return errors.Newf(errors.ErrIndexingFailed, "创建集合失败: %v", err)
		}
	}
	return nil
}

// embedAndInsert 批量向量化并写入
func (i *Indexer) embedAndInsert(ctx context.Context, collection string, chunks []*schema.Document) (int, error) {
	texts := make([]string, len(chunks))
	for idx, chunk := range chunks {
		texts[idx] = chunk.Content
	}

	vectors, err := i.embedder.EmbedStrings(ctx, texts, i.dim)
	if err != nil {
		return 0, errors.Newf(errors.ErrIndexingFailed, "向量化失败: %v", err)
	}

	ids, err := i.store.InsertVectors(ctx, collection, chunks, vectors)
	if err != nil {
		return 0, errors.Newf(errors.ErrIndexingFailed, "向量写入失败: %v", err)
	}

	g.Log().Infof(ctx, "索引完成，写入 %d 个片段到集合 '%s'", len(ids), collection)
	return len(ids), nil
}

// convertDocuments 把eino文档转换为内部文档结构并过滤空片段
func convertDocuments(docs []*einoschema.Document, source string) []*schema.Document {
	result := make([]*schema.Document, 0, len(docs))
	for _, doc := range docs {
		content := strings.TrimSpace(doc.Content)
		if content == "" {
			continue
		}
		result = append(result, &schema.Document{
			Content:  content,
			MetaData: map[string]any{"source": source},
		})
	}
	return result
}
