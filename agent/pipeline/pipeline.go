package pipeline

import (
	"context"

	"github.com/Malowking/askdb/agent/common"
	"github.com/Malowking/askdb/agent/executor"
	"github.com/gogf/gf/v2/frame/g"
)

// Response 问答管道对外响应契约。
// 200响应的Error字段仍可能有值（执行失败但已在Answer里解释过），
// 只有管道完全无法产出回答时才以错误形式向上传播。
type Response struct {
	Route    common.Route     `json:"route"`
	Answer   string           `json:"answer"`
	SQL      *string          `json:"sql"`
	Rows     []map[string]any `json:"rows"`
	RowCount *int             `json:"rowCount"`
	Error    *string          `json:"error"`
}

// Router 路由决策接口
type Router interface {
	Route(ctx context.Context, question string) (common.Route, error)
}

// SchemaContextBuilder schema上下文构建接口
type SchemaContextBuilder interface {
	Build(ctx context.Context, question string) (string, error)
}

// SQLGenerator SQL生成接口
type SQLGenerator interface {
	Generate(ctx context.Context, question, schemaContext string) (string, error)
}

// SQLExecutor SQL执行接口
type SQLExecutor interface {
	Execute(ctx context.Context, sql string) *executor.ExecutionResult
}

// AnswerSynthesizer 回答合成接口
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, question string, execution *executor.ExecutionResult, sql string) (string, error)
}

// DocQA 文档问答分支接口
type DocQA interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Pipeline 问答管道编排器。每次调用内部严格顺序执行，分支选定后不回退、
// 不重路由；各阶段之间没有跨请求状态。
type Pipeline struct {
	router      Router
	schemaCtx   SchemaContextBuilder
	generator   SQLGenerator
	executor    SQLExecutor
	synthesizer AnswerSynthesizer
	docQA       DocQA
}

func NewPipeline(router Router, schemaCtx SchemaContextBuilder, generator SQLGenerator,
	sqlExecutor SQLExecutor, synthesizer AnswerSynthesizer, docQA DocQA) *Pipeline {
	return &Pipeline{
		router:      router,
		schemaCtx:   schemaCtx,
		generator:   generator,
		executor:    sqlExecutor,
		synthesizer: synthesizer,
		docQA:       docQA,
	}
}

// Run 执行完整问答管道：路由 → 数据库查询分支或文档问答分支。
// 只有执行器失败在分支内收敛；路由、检索、生成、合成的失败都是
// 基础设施故障，直接向上传播，不产出部分响应。
func (p *Pipeline) Run(ctx context.Context, question string) (*Response, error) {
	route, err := p.router.Route(ctx, question)
	if err != nil {
		return nil, err
	}

	if route == common.RouteDatabaseQuery {
		return p.runDatabaseQuery(ctx, question)
	}
	return p.runDocumentQA(ctx, question)
}

// runDatabaseQuery 数据库查询分支：schema检索 → SQL生成 → 执行 → 合成
func (p *Pipeline) runDatabaseQuery(ctx context.Context, question string) (*Response, error) {
	schemaContext, err := p.schemaCtx.Build(ctx, question)
	if err != nil {
		return nil, err
	}

	sql, err := p.generator.Generate(ctx, question, schemaContext)
	if err != nil {
		return nil, err
	}

	// 生成为空时短路：固定回答，不触发执行
	if sql == "" {
		g.Log().Warningf(ctx, "SQL生成为空，短路返回固定回答 - question: %s", question)
		return &Response{
			Route:  common.RouteDatabaseQuery,
			Answer: common.NoSQLAnswer,
		}, nil
	}

	execution := p.executor.Execute(ctx, sql)

	answer, err := p.synthesizer.Synthesize(ctx, question, execution, sql)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Route:  common.RouteDatabaseQuery,
		Answer: answer,
		SQL:    &sql,
	}
	if execution.OK() {
		resp.Rows = execution.Rows
		rowCount := execution.RowCount
		resp.RowCount = &rowCount
	} else {
		execErr := execution.Error
		resp.Error = &execErr
	}
	return resp, nil
}

// runDocumentQA 文档问答分支：检索 → 合成
func (p *Pipeline) runDocumentQA(ctx context.Context, question string) (*Response, error) {
	answer, err := p.docQA.Answer(ctx, question)
	if err != nil {
		return nil, err
	}

	return &Response{
		Route:  common.RouteDocumentQA,
		Answer: answer,
	}, nil
}
