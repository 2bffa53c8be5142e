package askdb

import (
	"context"

	v1 "github.com/Malowking/askdb/api/askdb/v1"
	"github.com/Malowking/askdb/internal/dao"
)

// QueryLogs 查询最近的问答日志
func (c *ControllerV1) QueryLogs(ctx context.Context, req *v1.QueryLogsReq) (res *v1.QueryLogsRes, err error) {
	logs, err := dao.QueryLogs.ListRecent(ctx, req.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]*v1.QueryLogItem, 0, len(logs))
	for _, log := range logs {
		item := &v1.QueryLogItem{
			ID:         log.ID,
			Question:   log.Question,
			Route:      log.Route,
			Answer:     log.Answer,
			SQL:        log.SQL,
			RowCount:   log.RowCount,
			Error:      log.Error,
			DurationMs: log.DurationMs,
		}
		if log.CreateTime != nil {
			item.CreateTime = log.CreateTime.Format("2006-01-02 15:04:05")
		}
		items = append(items, item)
	}

	return &v1.QueryLogsRes{Logs: items}, nil
}
