package answer

import (
	"context"
	"fmt"

	"github.com/Malowking/askdb/agent/executor"
	"github.com/Malowking/askdb/core/errors"
	"github.com/Malowking/askdb/core/llm"
	"github.com/bytedance/sonic"
	einoModel "github.com/cloudwego/eino/components/model"
)

const systemPrompt = "You are a helpful data assistant. Answer the user's question in natural language based on the query results. Be concise. If they asked for counts or lists, summarize clearly. If there was an error, explain it in plain language and suggest what might be wrong (e.g. column name)."

// Synthesizer 把查询执行结果合成为自然语言回答
type Synthesizer struct {
	cm            einoModel.BaseChatModel
	maxSampleRows int
}

func NewSynthesizer(cm einoModel.BaseChatModel, maxSampleRows int) *Synthesizer {
	if maxSampleRows <= 0 {
		maxSampleRows = 15
	}
	return &Synthesizer{cm: cm, maxSampleRows: maxSampleRows}
}

// Synthesize 根据执行结果合成回答。
// 执行出错时由模型把底层错误翻译成用户能理解的解释和修正建议；
// 成功时只向模型提供采样行，结构化的rows/rowCount仍以响应字段为准，
// 文字回答中的数字不保证精确。
func (s *Synthesizer) Synthesize(ctx context.Context, question string, execution *executor.ExecutionResult, sql string) (string, error) {
	user, err := buildUserPrompt(question, execution, sql, s.maxSampleRows)
	if err != nil {
		return "", err
	}

	result, err := llm.Generate(ctx, s.cm, systemPrompt, user)
	if err != nil {
		return "", errors.Newf(errors.ErrAnswerFailed, "回答合成失败: %v", err)
	}
	return result, nil
}

// buildUserPrompt 组装用户消息：问题 + 执行结果摘要 + 使用的SQL
func buildUserPrompt(question string, execution *executor.ExecutionResult, sql string, maxSampleRows int) (string, error) {
	var dataSummary string
	if !execution.OK() {
		dataSummary = fmt.Sprintf("Query failed: %s", execution.Error)
	} else {
		sample := execution.Rows
		if len(sample) > maxSampleRows {
			sample = sample[:maxSampleRows]
		}
		sampleJSON, err := sonic.MarshalIndent(sample, "", "  ")
		if err != nil {
			return "", errors.Newf(errors.ErrAnswerFailed, "结果采样序列化失败: %v", err)
		}
		dataSummary = fmt.Sprintf("Query returned %d row(s). Sample:\n%s", execution.RowCount, string(sampleJSON))
	}

	user := fmt.Sprintf("User question: %s\n\n%s", question, dataSummary)
	if sql != "" {
		user += fmt.Sprintf("\n\nSQL used:\n%s", sql)
	}
	return user, nil
}
