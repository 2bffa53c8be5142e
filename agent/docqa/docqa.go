package docqa

import (
	"context"
	"fmt"
	"strings"

	"github.com/Malowking/askdb/agent/common"
	"github.com/Malowking/askdb/core/errors"
	"github.com/Malowking/askdb/core/llm"
	"github.com/Malowking/askdb/pkg/schema"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/gogf/gf/v2/frame/g"
)

const systemPrompt = `You are a helpful assistant. Answer the user's question in natural language using ONLY the following context from documentation or web content. Be concise. If the context does not contain the answer, say so. Do not make up information.`

// Retriever 文档语料检索接口，vector_store.Retriever实现了该接口
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]*schema.Document, error)
}

// Agent 文档问答分支：检索文档片段并仅基于检索内容合成回答
type Agent struct {
	retriever Retriever
	cm        einoModel.BaseChatModel
	topK      int
}

func NewAgent(retriever Retriever, cm einoModel.BaseChatModel, topK int) *Agent {
	if topK <= 0 {
		topK = 6
	}
	return &Agent{
		retriever: retriever,
		cm:        cm,
		topK:      topK,
	}
}

// Answer 检索相关文档片段后合成回答。
// 检索无结果时上下文回退为固定提示，模型会据此告知用户没有相关内容。
// 检索失败和模型调用失败都属于基础设施故障，直接向上传播。
func (a *Agent) Answer(ctx context.Context, question string) (string, error) {
	docs, err := a.retriever.Retrieve(ctx, question, a.topK)
	if err != nil {
		return "", err
	}

	contextText := BuildContext(docs)
	g.Log().Infof(ctx, "文档检索返回 %d 个片段", len(docs))

	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)
	result, err := llm.Generate(ctx, a.cm, systemPrompt, user)
	if err != nil {
		return "", errors.Newf(errors.ErrAnswerFailed, "文档问答合成失败: %v", err)
	}
	return result, nil
}

// BuildContext 拼接检索片段，无结果时返回固定兜底提示
func BuildContext(docs []*schema.Document) string {
	if len(docs) == 0 {
		return common.NoContextAnswer
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.Content)
	}
	return strings.Join(parts, common.ChunkSeparator)
}
