package vector_store

import (
	"context"

	"github.com/Malowking/askdb/core/common"
	"github.com/Malowking/askdb/core/errors"
	"github.com/Malowking/askdb/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// Embedder 查询向量化接口，common.CustomEmbedder实现了该接口
type Embedder interface {
	EmbedStrings(ctx context.Context, texts []string, dimensions int) ([][]float32, error)
}

// Retriever 单个集合上的语义检索器。
// 集合不存在时返回空结果而不是报错，空库启动属于正常状态。
type Retriever struct {
	store      VectorStore
	embedder   Embedder
	collection string
	dim        int
	minScore   float64
}

// NewRetriever 创建检索器实例
func NewRetriever(store VectorStore, embedder Embedder, collection string, dim int, minScore float64) (*Retriever, error) {
	if store == nil {
		return nil, errors.Newf(errors.ErrInvalidParameter, "vector store cannot be nil")
	}
	if embedder == nil {
		return nil, errors.Newf(errors.ErrInvalidParameter, "embedder cannot be nil")
	}
	if collection == "" {
		return nil, errors.Newf(errors.ErrInvalidParameter, "collection name cannot be empty")
	}

	return &Retriever{
		store:      store,
		embedder:   embedder,
		collection: collection,
		dim:        dim,
		minScore:   minScore,
	}, nil
}

// Collection 返回检索器绑定的集合名称
func (r *Retriever) Collection() string {
	return r.collection
}

// Retrieve 对查询文本做向量化后在集合内检索，按分数降序返回至多topK个去重结果
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]*schema.Document, error) {
	if topK <= 0 {
		topK = 5
	}

	// 集合不存在（尚未索引）时直接返回空结果
	exists, err := r.store.CollectionExists(ctx, r.collection)
	if err != nil {
		return nil, errors.Newf(errors.ErrRetrievalFailed, "failed to check collection '%s': %v", r.collection, err)
	}
	if !exists {
		g.Log().Infof(ctx, "Collection '%s' not found, returning empty result", r.collection)
		return []*schema.Document{}, nil
	}

	// 生成查询向量
	vectors, err := r.embedder.EmbedStrings(ctx, []string{query}, r.dim)
	if err != nil {
		return nil, errors.Newf(errors.ErrRetrievalFailed, "embedding has error: %v", err)
	}
	if len(vectors) != 1 {
		return nil, errors.Newf(errors.ErrRetrievalFailed, "invalid return length of vector, got=%d, expected=1", len(vectors))
	}

	results, err := r.store.Search(ctx, r.collection, vectors[0], topK, r.minScore)
	if err != nil {
		return nil, errors.Newf(errors.ErrRetrievalFailed, "vector search failed on '%s': %v", r.collection, err)
	}

	// 去重（Search已按分数降序排列）
	results = common.RemoveDuplicates(results, func(doc *schema.Document) string {
		return doc.ID
	})

	if len(results) > topK {
		results = results[:topK]
	}

	g.Log().Debugf(ctx, "Retrieved %d documents from collection '%s'", len(results), r.collection)
	return results, nil
}
