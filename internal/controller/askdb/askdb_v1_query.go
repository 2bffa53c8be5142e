package askdb

import (
	"context"
	"time"

	"github.com/Malowking/askdb/agent/pipeline"
	v1 "github.com/Malowking/askdb/api/askdb/v1"
	"github.com/Malowking/askdb/internal/dao"
	gormModel "github.com/Malowking/askdb/internal/model/gorm"
	"github.com/gogf/gf/v2/frame/g"
)

// Query 问答入口。管道级故障直接返回错误（500），
// 执行级错误包含在响应的error字段里（200）。
func (c *ControllerV1) Query(ctx context.Context, req *v1.QueryReq) (res *v1.QueryRes, err error) {
	g.Log().Infof(ctx, "收到问答请求: %s", req.Question)
	start := time.Now()

	result, err := c.pipeline.Run(ctx, req.Question)
	if err != nil {
		g.Log().Errorf(ctx, "问答管道执行失败: %v", err)
		return nil, err
	}

	res = &v1.QueryRes{
		Route:    string(result.Route),
		Answer:   result.Answer,
		SQL:      result.SQL,
		Rows:     result.Rows,
		RowCount: result.RowCount,
		Error:    result.Error,
	}

	// 异步落日志，失败不影响响应
	go c.writeQueryLog(req.Question, result, time.Since(start))

	return res, nil
}

// writeQueryLog 写入问答日志
func (c *ControllerV1) writeQueryLog(question string, result *pipeline.Response, duration time.Duration) {
	ctx := context.Background()

	log := &gormModel.QueryLog{
		Question:   question,
		Route:      string(result.Route),
		Answer:     result.Answer,
		RowCount:   result.RowCount,
		DurationMs: duration.Milliseconds(),
	}
	if result.SQL != nil {
		log.SQL = *result.SQL
	}
	if result.Error != nil {
		log.Error = *result.Error
	}

	_ = dao.QueryLogs.Create(ctx, log)
}
