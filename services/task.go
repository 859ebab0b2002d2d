package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"taskboard/apperrors"
	"taskboard/model"
	"taskboard/repository"
)

type taskInput struct {
	Title       string `json:"task_name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

var taskMessages = fieldMessages{
	"task_name.required": "task name is required",
	"task_name.max":      "task name must be at most 100 characters",
	"description.max":    "task description must be at most 2000 characters",
}

type TaskService struct {
	policy   *Policy
	tasks    TaskStore
	statuses StatusStore
	log      *slog.Logger
}

func NewTaskService(policy *Policy, tasks TaskStore, statuses StatusStore, log *slog.Logger) *TaskService {
	return &TaskService{policy: policy, tasks: tasks, statuses: statuses, log: log}
}

// Create adds a task. Without a status it lands on "No Status".
func (s *TaskService) Create(ctx context.Context, boardID, requesterID, title, description string, statusID *int64) (model.Tasks, error) {
	_, capability, err := s.policy.Resolve(ctx, boardID, requesterID)
	if err != nil {
		return model.Tasks{}, err
	}
	if !capability.CanEdit() {
		return model.Tasks{}, apperrors.Unauthorized("you do not have write access to this board")
	}
	input := taskInput{Title: strings.TrimSpace(title), Description: strings.TrimSpace(description)}
	if fields := validateInput(input, taskMessages); len(fields) > 0 {
		return model.Tasks{}, apperrors.InvalidFields(fields...)
	}

	var status model.Status
	if statusID == nil {
		status, err = s.statuses.FindByName(ctx, boardID, model.StatusNoStatus)
	} else {
		status, err = s.statuses.Get(ctx, boardID, *statusID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Tasks{}, apperrors.Invalid("status_id", "status does not belong to this board")
		}
		return model.Tasks{}, err
	}

	task := model.Tasks{
		BoardID:     boardID,
		TaskName:    input.Title,
		Description: optional(input.Description),
		StatusID:    status.StatusID,
		CreateBy:    requesterID,
	}
	if err := s.tasks.Create(ctx, &task); err != nil {
		return model.Tasks{}, err
	}
	s.log.Info("task created", "board_id", boardID, "task_id", task.TaskID, "status_id", task.StatusID)
	return task, nil
}

func (s *TaskService) List(ctx context.Context, boardID, requesterID string) ([]model.Tasks, error) {
	_, capability, err := s.policy.Resolve(ctx, boardID, requesterID)
	if err != nil {
		return nil, err
	}
	if !capability.CanView() {
		return nil, apperrors.Unauthorized("you do not have access to this board")
	}
	return s.tasks.List(ctx, boardID)
}
