package common

// Route 问答管道路由标签
type Route string

const (
	// RouteDocumentQA 文档问答分支（基于已索引的文档语料）
	RouteDocumentQA Route = "html_rag"
	// RouteDatabaseQuery 数据库查询分支（schema检索 → SQL生成 → 执行 → 合成）
	RouteDatabaseQuery Route = "sql_agent"
)

const (
	// ChunkSeparator 检索片段拼接分隔符
	ChunkSeparator = "\n\n---\n\n"

	// NoSQLAnswer SQL生成为空时的兜底回答
	NoSQLAnswer = "I couldn't generate a SQL query for that question."

	// NoContextAnswer 文档检索无结果时的兜底上下文
	NoContextAnswer = "No relevant content found."
)
