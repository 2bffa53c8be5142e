package dao

import (
	"context"

	gormModel "github.com/Malowking/askdb/internal/model/gorm"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/google/uuid"
)

// QueryLogDAO 问答日志数据访问对象
type QueryLogDAO struct{}

var QueryLogs = &QueryLogDAO{}

// Create 写入一条问答日志。日志失败不应影响主流程，由调用方决定是否忽略错误。
func (d *QueryLogDAO) Create(ctx context.Context, log *gormModel.QueryLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if err := GetDB().WithContext(ctx).Create(log).Error; err != nil {
		g.Log().Errorf(ctx, "写入问答日志失败: %v", err)
		return err
	}
	return nil
}

// ListRecent 查询最近的问答日志
func (d *QueryLogDAO) ListRecent(ctx context.Context, limit int) ([]*gormModel.QueryLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []*gormModel.QueryLog
	if err := GetDB().WithContext(ctx).
		Order("create_time DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		g.Log().Errorf(ctx, "查询问答日志失败: %v", err)
		return nil, err
	}
	return logs, nil
}
