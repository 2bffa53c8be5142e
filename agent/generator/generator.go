package generator

import (
	"context"

	"github.com/Malowking/askdb/core/errors"
	"github.com/Malowking/askdb/core/llm"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/gogf/gf/v2/frame/g"
)

const systemPrompt = `You are a PostgreSQL expert. Given a user question and the relevant database schema, output ONLY a valid PostgreSQL SELECT query. No explanation, no markdown, no code block wrapper.
Rules:
- Use only the tables/columns mentioned in the schema context.
- Prefer JOINs over subqueries when listing related data.
- Use table aliases if helpful (e.g. u for users, p for permissions).
- Return only one SQL statement.
- Do not use INSERT, UPDATE, DELETE, or DDL. Only SELECT.`

// Generator 自然语言转SQL生成器
type Generator struct {
	cm einoModel.BaseChatModel
}

func NewGenerator(cm einoModel.BaseChatModel) *Generator {
	return &Generator{cm: cm}
}

// Generate 根据问题和schema上下文生成单条只读SELECT语句。
// 模型不能保证遵守"无markdown"指令，输出先做围栏剥离再使用。
// 剥离后为空字符串时返回空SQL，由编排层短路处理；模型调用失败则直接向上传播。
func (g2 *Generator) Generate(ctx context.Context, question, schemaContext string) (string, error) {
	system := systemPrompt + "\n\nSchema context:\n" + schemaContext

	raw, err := llm.Generate(ctx, g2.cm, system, question)
	if err != nil {
		return "", errors.Newf(errors.ErrGenerateFailed, "SQL生成失败: %v", err)
	}

	sql := StripCodeFence(raw)
	if sql == "" {
		g.Log().Warningf(ctx, "SQL生成结果为空 - 原始输出: %q", raw)
		return "", nil
	}

	g.Log().Infof(ctx, "SQL生成完成: %s", sql)
	return sql, nil
}
