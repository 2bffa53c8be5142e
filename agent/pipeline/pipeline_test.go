package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Malowking/askdb/agent/common"
	"github.com/Malowking/askdb/agent/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRouter struct {
	route common.Route
	err   error
	calls int
}

func (s *stubRouter) Route(ctx context.Context, question string) (common.Route, error) {
	s.calls++
	return s.route, s.err
}

type stubSchemaCtx struct {
	context string
	err     error
}

func (s *stubSchemaCtx) Build(ctx context.Context, question string) (string, error) {
	return s.context, s.err
}

type stubGenerator struct {
	sql string
	err error
}

func (s *stubGenerator) Generate(ctx context.Context, question, schemaContext string) (string, error) {
	return s.sql, s.err
}

type stubExecutor struct {
	result *executor.ExecutionResult
	calls  int
}

func (s *stubExecutor) Execute(ctx context.Context, sql string) *executor.ExecutionResult {
	s.calls++
	return s.result
}

type stubSynthesizer struct {
	answer string
	err    error
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, question string, execution *executor.ExecutionResult, sql string) (string, error) {
	return s.answer, s.err
}

type stubDocQA struct {
	answer string
	err    error
	calls  int
}

func (s *stubDocQA) Answer(ctx context.Context, question string) (string, error) {
	s.calls++
	return s.answer, s.err
}

// TestRunDatabaseQuery 测试数据库查询分支
func TestRunDatabaseQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("计数场景完整链路", func(t *testing.T) {
		exec := &stubExecutor{result: &executor.ExecutionResult{
			Rows:     []map[string]any{{"count": int64(5)}},
			RowCount: 1,
		}}
		p := NewPipeline(
			&stubRouter{route: common.RouteDatabaseQuery},
			&stubSchemaCtx{context: "CREATE TABLE users (id SERIAL PRIMARY KEY);"},
			&stubGenerator{sql: "SELECT COUNT(*) AS count FROM users"},
			exec,
			&stubSynthesizer{answer: "There are 5 users."},
			&stubDocQA{},
		)

		resp, err := p.Run(ctx, "How many users are there?")
		require.NoError(t, err)
		assert.Equal(t, common.RouteDatabaseQuery, resp.Route)
		assert.True(t, strings.Contains(resp.Answer, "5"))
		require.NotNil(t, resp.SQL)
		assert.Contains(t, *resp.SQL, "users")
		require.NotNil(t, resp.RowCount)
		assert.Equal(t, 1, *resp.RowCount)
		assert.Equal(t, int64(5), resp.Rows[0]["count"])
		assert.Nil(t, resp.Error)
	})

	t.Run("生成为空时短路且不执行", func(t *testing.T) {
		exec := &stubExecutor{result: &executor.ExecutionResult{}}
		p := NewPipeline(
			&stubRouter{route: common.RouteDatabaseQuery},
			&stubSchemaCtx{context: "ctx"},
			&stubGenerator{sql: ""},
			exec,
			&stubSynthesizer{answer: "should not be called"},
			&stubDocQA{},
		)

		resp, err := p.Run(ctx, "q")
		require.NoError(t, err)
		assert.Equal(t, "I couldn't generate a SQL query for that question.", resp.Answer)
		assert.Nil(t, resp.SQL)
		assert.Nil(t, resp.Rows)
		assert.Nil(t, resp.RowCount)
		assert.Nil(t, resp.Error)
		assert.Zero(t, exec.calls)
	})

	t.Run("执行失败在分支内收敛", func(t *testing.T) {
		exec := &stubExecutor{result: &executor.ExecutionResult{
			Error: `relation "userz" does not exist`,
		}}
		p := NewPipeline(
			&stubRouter{route: common.RouteDatabaseQuery},
			&stubSchemaCtx{context: "ctx"},
			&stubGenerator{sql: "SELECT * FROM userz"},
			exec,
			&stubSynthesizer{answer: "The table name looks wrong, did you mean users?"},
			&stubDocQA{},
		)

		resp, err := p.Run(ctx, "q")
		require.NoError(t, err)
		require.NotNil(t, resp.Error)
		assert.Contains(t, *resp.Error, "userz")
		assert.Nil(t, resp.Rows)
		assert.Nil(t, resp.RowCount)
		assert.NotEmpty(t, resp.Answer)
	})

	t.Run("固定输入下结果可重现", func(t *testing.T) {
		build := func() *Pipeline {
			return NewPipeline(
				&stubRouter{route: common.RouteDatabaseQuery},
				&stubSchemaCtx{context: "ctx"},
				&stubGenerator{sql: "SELECT COUNT(*) FROM users"},
				&stubExecutor{result: &executor.ExecutionResult{Rows: []map[string]any{}, RowCount: 0}},
				&stubSynthesizer{answer: "answer"},
				&stubDocQA{},
			)
		}

		first, err := build().Run(ctx, "How many users?")
		require.NoError(t, err)
		second, err := build().Run(ctx, "How many users?")
		require.NoError(t, err)

		assert.Equal(t, first.Route, second.Route)
		assert.Equal(t, *first.SQL, *second.SQL)
	})
}

// TestRunDocumentQA 测试文档问答分支
func TestRunDocumentQA(t *testing.T) {
	ctx := context.Background()

	t.Run("文档分支不产出SQL字段", func(t *testing.T) {
		docQA := &stubDocQA{answer: "SSO stands for Single Sign-On."}
		p := NewPipeline(
			&stubRouter{route: common.RouteDocumentQA},
			&stubSchemaCtx{},
			&stubGenerator{},
			&stubExecutor{},
			&stubSynthesizer{},
			docQA,
		)

		resp, err := p.Run(ctx, "What is SSO?")
		require.NoError(t, err)
		assert.Equal(t, common.RouteDocumentQA, resp.Route)
		assert.Equal(t, "SSO stands for Single Sign-On.", resp.Answer)
		assert.Nil(t, resp.SQL)
		assert.Nil(t, resp.Rows)
		assert.Nil(t, resp.RowCount)
		assert.Nil(t, resp.Error)
		assert.Equal(t, 1, docQA.calls)
	})
}

// TestFatalErrors 测试基础设施故障直接向上传播
func TestFatalErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("路由失败无部分响应", func(t *testing.T) {
		p := NewPipeline(
			&stubRouter{err: errors.New("classification service unavailable")},
			&stubSchemaCtx{},
			&stubGenerator{},
			&stubExecutor{},
			&stubSynthesizer{},
			&stubDocQA{},
		)

		resp, err := p.Run(ctx, "q")
		assert.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("合成失败向上传播", func(t *testing.T) {
		p := NewPipeline(
			&stubRouter{route: common.RouteDatabaseQuery},
			&stubSchemaCtx{context: "ctx"},
			&stubGenerator{sql: "SELECT 1 FROM users"},
			&stubExecutor{result: &executor.ExecutionResult{Rows: []map[string]any{}, RowCount: 0}},
			&stubSynthesizer{err: errors.New("llm down")},
			&stubDocQA{},
		)

		resp, err := p.Run(ctx, "q")
		assert.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("文档检索失败向上传播", func(t *testing.T) {
		p := NewPipeline(
			&stubRouter{route: common.RouteDocumentQA},
			&stubSchemaCtx{},
			&stubGenerator{},
			&stubExecutor{},
			&stubSynthesizer{},
			&stubDocQA{err: errors.New("vector store unreachable")},
		)

		resp, err := p.Run(ctx, "q")
		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}
