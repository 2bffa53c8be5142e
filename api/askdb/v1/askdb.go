package v1

import (
	"github.com/gogf/gf/v2/frame/g"
)

// ============ 问答接口 ============

// QueryReq 问答请求
type QueryReq struct {
	g.Meta   `path:"/query" method:"post" tags:"query" summary:"问答入口" no_wrap_resp:"true"`
	Question string `json:"question" v:"required#Missing question"` // 用户问题
}

// QueryRes 问答响应（对外契约，不做统一包装）
type QueryRes struct {
	Route    string           `json:"route"`    // 路由: html_rag / sql_agent
	Answer   string           `json:"answer"`   // 自然语言回答
	SQL      *string          `json:"sql"`      // 使用的SQL（文档分支为null）
	Rows     []map[string]any `json:"rows"`     // 查询结果行
	RowCount *int             `json:"rowCount"` // 行数
	Error    *string          `json:"error"`    // 执行错误（已在answer中解释）
}

// HealthReq 健康检查请求
type HealthReq struct {
	g.Meta `path:"/health" method:"get" tags:"query" summary:"健康检查" no_wrap_resp:"true"`
}

// HealthRes 健康检查响应
type HealthRes struct {
	OK bool `json:"ok"`
}

// ============ 检索调试接口 ============

// RetrieveReq 检索调试请求
type RetrieveReq struct {
	g.Meta `path:"/api/v1/retriever" method:"post" tags:"retriever" summary:"检索调试"`
	Query  string `json:"query" v:"required#查询内容不能为空"` // 查询文本
	Corpus string `json:"corpus" v:"required|in:schema,doc#语料类型不能为空|语料类型只能是schema或doc"` // 语料: schema / doc
	TopK   int    `json:"topK"` // 返回数量（默认按语料配置）
}

// RetrievedChunk 检索片段
type RetrievedChunk struct {
	ID       string         `json:"id"`       // 片段ID
	Content  string         `json:"content"`  // 片段内容
	Score    float32        `json:"score"`    // 相似度分数
	MetaData map[string]any `json:"metaData"` // 元数据
}

// RetrieveRes 检索调试响应
type RetrieveRes struct {
	Chunks []*RetrievedChunk `json:"chunks"` // 检索结果
}

// ============ 索引接口 ============

// IndexSchemaReq schema索引请求
type IndexSchemaReq struct {
	g.Meta `path:"/api/v1/index/schema" method:"post" tags:"index" summary:"索引数据库schema"`
	Schema string `json:"schema" v:"required#schema内容不能为空"` // schema.sql文本内容
}

// IndexSchemaRes schema索引响应
type IndexSchemaRes struct {
	Chunks int `json:"chunks"` // 写入的片段数
}

// IndexHTMLReq HTML文档索引请求
type IndexHTMLReq struct {
	g.Meta `path:"/api/v1/index/html" method:"post" tags:"index" summary:"索引HTML文档"`
	Source string `json:"source" v:"required#文档来源不能为空"` // 文档来源标识（如文件名）
	HTML   string `json:"html" v:"required#HTML内容不能为空"` // HTML内容
}

// IndexHTMLRes HTML文档索引响应
type IndexHTMLRes struct {
	Chunks int `json:"chunks"` // 写入的片段数
}

// ============ 日志接口 ============

// QueryLogsReq 问答日志查询请求
type QueryLogsReq struct {
	g.Meta `path:"/api/v1/query/logs" method:"get" tags:"query" summary:"查询最近的问答日志"`
	Limit  int `json:"limit"` // 返回条数（默认50，上限200）
}

// QueryLogItem 问答日志条目
type QueryLogItem struct {
	ID         string `json:"id"`
	Question   string `json:"question"`
	Route      string `json:"route"`
	Answer     string `json:"answer"`
	SQL        string `json:"sql"`
	RowCount   *int   `json:"rowCount"`
	Error      string `json:"error"`
	DurationMs int64  `json:"durationMs"`
	CreateTime string `json:"createTime"`
}

// QueryLogsRes 问答日志查询响应
type QueryLogsRes struct {
	Logs []*QueryLogItem `json:"logs"`
}
