package executor

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/jackc/pgx/v5"
)

// ExecutionResult 查询执行结果。成功时Rows/RowCount有值且Error为空，
// 失败时只有Error有值，不存在部分填充的中间状态。
type ExecutionResult struct {
	Rows     []map[string]any
	RowCount int
	Error    string
}

// OK 是否执行成功
func (r *ExecutionResult) OK() bool {
	return r.Error == ""
}

// DB 查询执行所需的最小数据库接口，*pgxpool.Pool实现了该接口
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Executor 只读SQL执行器
type Executor struct {
	db        DB
	validator *Validator
}

func NewExecutor(db DB) *Executor {
	return &Executor{
		db:        db,
		validator: NewValidator(),
	}
}

// Execute 校验并执行只读查询。
// 校验失败和执行失败都不向上抛错，统一收敛为ExecutionResult.Error，
// 生成的SQL质量不可控，坏查询属于常规情况，由合成器解释给用户。
func (e *Executor) Execute(ctx context.Context, sql string) *ExecutionResult {
	if err := e.validator.Validate(ctx, sql); err != nil {
		g.Log().Warningf(ctx, "SQL校验未通过: %v, sql: %s", err, sql)
		return &ExecutionResult{Error: err.Error()}
	}

	rows, err := e.db.Query(ctx, sql)
	if err != nil {
		g.Log().Warningf(ctx, "SQL执行失败: %v, sql: %s", err, sql)
		return &ExecutionResult{Error: err.Error()}
	}
	defer rows.Close()

	result, err := collectRows(rows)
	if err != nil {
		g.Log().Warningf(ctx, "结果集读取失败: %v, sql: %s", err, sql)
		return &ExecutionResult{Error: err.Error()}
	}

	g.Log().Infof(ctx, "SQL执行成功，返回 %d 行", result.RowCount)
	return result
}

// collectRows 把pgx结果集转成通用的行映射列表。
// 行数不设上限，超大结果集会原样透传。
func collectRows(rows pgx.Rows) (*ExecutionResult, error) {
	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = string(fd.Name)
	}

	collected := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(values) {
				row[col] = values[i]
			}
		}
		collected = append(collected, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &ExecutionResult{
		Rows:     collected,
		RowCount: len(collected),
	}, nil
}
