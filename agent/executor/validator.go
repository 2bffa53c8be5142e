package executor

import (
	"context"
	"errors"
	"strings"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/xwb1989/sqlparser"
)

// ErrNotSelect 非SELECT语句一律拒绝
var ErrNotSelect = errors.New("Only SELECT queries are allowed")

// Validator 只读SQL校验器。
// 前缀检查是硬性前置条件；sqlparser解析是辅助校验，解析失败不拦截
// （解析器是MySQL方言，合法的PostgreSQL语法可能解析不了）。
// 注意：前缀检查防不住注入，生产环境应配合数据库只读角色做纵深防御。
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate 校验SQL是否为只读SELECT语句
func (v *Validator) Validate(ctx context.Context, sql string) error {
	// 1. 硬性前置条件：首关键字必须是SELECT
	trimmed := strings.TrimSpace(sql)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return ErrNotSelect
	}

	// 2. 辅助校验：能解析时确认语句类型
	stmt, err := sqlparser.Parse(trimmed)
	if err != nil {
		g.Log().Debugf(ctx, "sqlparser无法解析语句（可能是PostgreSQL方言），跳过结构校验: %v", err)
		return nil
	}

	switch stmt.(type) {
	case *sqlparser.Select, *sqlparser.Union:
		return nil
	default:
		return ErrNotSelect
	}
}
