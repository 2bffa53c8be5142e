package askdb

import (
	"context"

	v1 "github.com/Malowking/askdb/api/askdb/v1"
	"github.com/Malowking/askdb/core/vector_store"
	"github.com/gogf/gf/v2/frame/g"
)

// Retrieve 检索调试接口：直接查看指定语料的检索结果，用于排查检索质量
func (c *ControllerV1) Retrieve(ctx context.Context, req *v1.RetrieveReq) (res *v1.RetrieveRes, err error) {
	var (
		retriever *vector_store.Retriever
		topK      = req.TopK
	)
	switch req.Corpus {
	case "schema":
		retriever = c.schemaRetriever
		if topK <= 0 {
			topK = c.cfg.Pipeline.SchemaTopK
		}
	default:
		retriever = c.docRetriever
		if topK <= 0 {
			topK = c.cfg.Pipeline.DocTopK
		}
	}

	g.Log().Infof(ctx, "检索调试 - corpus: %s, topK: %d, query: %s", req.Corpus, topK, req.Query)

	docs, err := retriever.Retrieve(ctx, req.Query, topK)
	if err != nil {
		return nil, err
	}

	chunks := make([]*v1.RetrievedChunk, 0, len(docs))
	for _, doc := range docs {
		chunks = append(chunks, &v1.RetrievedChunk{
			ID:       doc.ID,
			Content:  doc.Content,
			Score:    doc.Score,
			MetaData: doc.MetaData,
		})
	}

	return &v1.RetrieveRes{Chunks: chunks}, nil
}
