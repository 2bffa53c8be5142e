package schemactx

import (
	"context"
	"fmt"
	"strings"

	"github.com/Malowking/askdb/agent/common"
	"github.com/Malowking/askdb/pkg/schema"
	"github.com/gogf/gf/v2/frame/g"
)

// Retriever schema语料检索接口，vector_store.Retriever实现了该接口
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]*schema.Document, error)
}

// Builder 基于schema语料向量检索构建SQL生成所需的上下文
type Builder struct {
	retriever      Retriever
	topK           int
	fallbackTables []string
}

func NewBuilder(retriever Retriever, topK int, fallbackTables []string) *Builder {
	if topK <= 0 {
		topK = 8
	}
	return &Builder{
		retriever:      retriever,
		topK:           topK,
		fallbackTables: fallbackTables,
	}
}

// Build 检索与问题相关的schema片段并按检索顺序拼接。
// 检索无结果时回退到已知表名列表的最小描述，保证生成器始终有上下文可用。
// 拼接不做去重，重复片段按原样保留。
func (b *Builder) Build(ctx context.Context, question string) (string, error) {
	docs, err := b.retriever.Retrieve(ctx, question, b.topK)
	if err != nil {
		return "", err
	}

	if len(docs) == 0 {
		fallback := fmt.Sprintf("No schema context found. Available tables: %s.",
			strings.Join(b.fallbackTables, ", "))
		g.Log().Warningf(ctx, "schema检索无结果，使用兜底表清单: %v", b.fallbackTables)
		return fallback, nil
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.Content)
	}

	g.Log().Infof(ctx, "schema检索返回 %d 个片段", len(docs))
	return strings.Join(parts, common.ChunkSeparator), nil
}
