package errors

// ErrCode 业务错误码类型
type ErrCode int

const (
	// 通用错误 1000-1999
	ErrInvalidParameter ErrCode = 1001 // 参数错误
	ErrInternalError    ErrCode = 1002 // 内部错误
	ErrNotFound         ErrCode = 1003 // 资源未找到
	ErrOperationFailed  ErrCode = 1004 // 操作失败

	// 模型相关 2000-2999
	ErrModelNotConfigured ErrCode = 2001 // 模型未配置
	ErrLLMCallFailed      ErrCode = 2002 // LLM调用失败
	ErrEmbeddingFailed    ErrCode = 2003 // Embedding失败

	// 路由/管道相关 3000-3999
	ErrRouteFailed    ErrCode = 3001 // 问题路由失败
	ErrGenerateFailed ErrCode = 3002 // SQL生成失败
	ErrAnswerFailed   ErrCode = 3003 // 答案合成失败

	// 向量数据库 5000-5999
	ErrVectorStoreInit ErrCode = 5001 // 向量库初始化失败
	ErrVectorSearch    ErrCode = 5002 // 向量搜索失败
	ErrVectorInsert    ErrCode = 5003 // 向量插入失败

	// 数据库相关 6000-6999
	ErrDatabaseQuery ErrCode = 6001 // 数据库查询失败
	ErrDatabaseInit  ErrCode = 6002 // 数据库初始化失败

	// 检索相关 9000-9999
	ErrRetrievalFailed ErrCode = 9001 // 检索失败
	ErrIndexingFailed  ErrCode = 9002 // 语料索引失败
)

// HTTPStatusCode 返回错误码对应的HTTP状态码
func (e ErrCode) HTTPStatusCode() int {
	switch e {
	case ErrInvalidParameter:
		return 400
	case ErrNotFound:
		return 404
	default:
		return 500
	}
}
