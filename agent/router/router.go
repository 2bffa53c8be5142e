package router

import (
	"context"
	"strings"

	"github.com/Malowking/askdb/agent/common"
	"github.com/Malowking/askdb/core/errors"
	"github.com/Malowking/askdb/core/llm"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/gogf/gf/v2/frame/g"
)

const routerPrompt = `You are a router. Given the user's message, decide which agent should handle it.

- "html_rag": Simple questions about general knowledge, documentation, definitions, how-to, or content that can be answered from documentation/web pages. Examples: "What is SSO?", "How does login work?", "What are the project guidelines?"
- "sql_agent": Questions that require querying a database (lists, counts, who has what, filtering data). Examples: "How many users?", "List all permissions", "Which users have permission X?"

Reply with exactly one word: html_rag or sql_agent. No other text.`

// Router 单标签分类路由器，决定问题走文档问答还是数据库查询分支
type Router struct {
	cm einoModel.BaseChatModel
}

func NewRouter(cm einoModel.BaseChatModel) *Router {
	return &Router{cm: cm}
}

// Route 对问题做二分类。分类器输出做归一化（trim+小写）后按是否包含"sql"
// 判定：命中走数据库查询分支，否则一律回退到文档问答分支。
// 误把数据库问题路由到文档分支只会得到"无相关内容"的回答，代价可控；
// 反向误路由则会生成无意义的SQL，所以默认偏向文档分支。
func (r *Router) Route(ctx context.Context, question string) (common.Route, error) {
	raw, err := llm.Generate(ctx, r.cm, routerPrompt, question)
	if err != nil {
		return "", errors.Newf(errors.ErrRouteFailed, "路由分类失败: %v", err)
	}

	route := Normalize(raw)
	g.Log().Infof(ctx, "路由决策 - 原始输出: %q, 路由: %s", raw, route)
	return route, nil
}

// Normalize 归一化分类器原始输出并映射到路由标签
func Normalize(raw string) common.Route {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(normalized, "sql") {
		return common.RouteDatabaseQuery
	}
	return common.RouteDocumentQA
}
