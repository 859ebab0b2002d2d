package dto

import (
	"time"

	"taskboard/model"
)

type CreateTaskRequest struct {
	TaskName    string `json:"task_name"`
	Description string `json:"description"`
	StatusID    *int64 `json:"status_id"`
}

type TaskResponse struct {
	TaskID      int64     `json:"task_id"`
	BoardID     string    `json:"board_id"`
	TaskName    string    `json:"task_name"`
	Description *string   `json:"description"`
	StatusID    int64     `json:"status_id"`
	CreateBy    string    `json:"create_by"`
	CreateAt    time.Time `json:"create_at"`
}

func NewTaskResponse(t model.Tasks) TaskResponse {
	return TaskResponse{
		TaskID:      t.TaskID,
		BoardID:     t.BoardID,
		TaskName:    t.TaskName,
		Description: t.Description,
		StatusID:    t.StatusID,
		CreateBy:    t.CreateBy,
		CreateAt:    t.CreateAt,
	}
}

func NewTaskResponses(tasks []model.Tasks) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}
