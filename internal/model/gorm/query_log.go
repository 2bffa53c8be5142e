package gorm

import (
	"time"

	"gorm.io/gorm"
)

// QueryLog 问答请求日志。每次管道调用落一条，用于排查路由决策
// 和生成SQL的质量，结构化字段与对外响应契约一致。
type QueryLog struct {
	ID         string     `gorm:"primaryKey;column:id;type:varchar(64)" json:"id"`
	Question   string     `gorm:"column:question;type:text;not null" json:"question"`
	Route      string     `gorm:"column:route;type:varchar(32);not null" json:"route"`
	Answer     string     `gorm:"column:answer;type:text" json:"answer"`
	SQL        string     `gorm:"column:sql;type:text" json:"sql"`
	RowCount   *int       `gorm:"column:row_count" json:"rowCount"`
	Error      string     `gorm:"column:error;type:text" json:"error"`
	DurationMs int64      `gorm:"column:duration_ms" json:"durationMs"`
	CreateTime *time.Time `gorm:"column:create_time;autoCreateTime" json:"createTime"`
}

// TableName 设置表名
func (QueryLog) TableName() string {
	return "query_logs"
}

// Migrate 自动迁移表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&QueryLog{})
}
