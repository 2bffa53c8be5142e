package schema

// Document 表示一个可检索的文本片段（chunk）
type Document struct {
	// ID 片段唯一标识
	ID string `json:"id,omitempty"`
	// Content 片段内容
	Content string `json:"content"`
	// MetaData 片段元数据（来源表名、文档类型等）
	MetaData map[string]interface{} `json:"metadata,omitempty"`
	// Score 相关性得分（检索时使用）- 使用float32以直接与向量库兼容
	Score float32 `json:"score"`
}
