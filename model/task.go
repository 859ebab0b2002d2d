package model

import (
	"time"
)

type Tasks struct {
	TaskID      int64     `gorm:"column:task_id;primaryKey;autoIncrement"`
	BoardID     string    `gorm:"column:board_id;type:varchar(10);not null;index:idx_tasks_board"`
	TaskName    string    `gorm:"column:task_name;type:varchar(100);not null"`
	Description *string   `gorm:"column:description;type:text"`
	StatusID    int64     `gorm:"column:status_id;not null;index:idx_tasks_status"`
	CreateBy    string    `gorm:"column:create_by;type:varchar(36)"`
	CreateAt    time.Time `gorm:"column:create_at;autoCreateTime"`
}

func (Tasks) TableName() string {
	return "tasks"
}

// TaskRef identifies a task whose status is being migrated.
type TaskRef struct {
	TaskID   int64
	StatusID int64
}
