package llm

import (
	"context"

	"github.com/Malowking/askdb/core/config"
	"github.com/Malowking/askdb/core/errors"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino-ext/components/model/qwen"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// NewChatModel 根据配置创建文本生成模型。
// 提供方在配置中显式指定（openai / qwen），启动时构造一次，之后注入各组件。
func NewChatModel(ctx context.Context, cfg *config.ChatConfig) (einoModel.BaseChatModel, error) {
	if cfg == nil || cfg.APIKey == "" || cfg.Model == "" {
		return nil, errors.Newf(errors.ErrModelNotConfigured, "chat model is not configured (apiKey/model required)")
	}

	switch cfg.Provider {
	case "qwen":
		cm, err := qwen.NewChatModel(ctx, &qwen.ChatModelConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, errors.Newf(errors.ErrModelNotConfigured, "failed to create qwen chat model: %v", err)
		}
		return cm, nil
	case "openai", "":
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, errors.Newf(errors.ErrModelNotConfigured, "failed to create openai chat model: %v", err)
		}
		return cm, nil
	default:
		return nil, errors.Newf(errors.ErrModelNotConfigured, "unsupported chat provider: %s", cfg.Provider)
	}
}

// Generate 以 system + user 两条消息调用模型，返回生成的文本内容。
func Generate(ctx context.Context, cm einoModel.BaseChatModel, system, user string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}

	resp, err := cm.Generate(ctx, messages)
	if err != nil {
		return "", errors.Newf(errors.ErrLLMCallFailed, "LLM调用失败: %v", err)
	}
	if resp == nil {
		return "", errors.Newf(errors.ErrLLMCallFailed, "LLM返回空响应")
	}
	return resp.Content, nil
}
