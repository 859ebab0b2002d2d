package repository

import (
	"context"

	"gorm.io/gorm"

	"taskboard/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Tasks) error {
	return translate(r.db.WithContext(ctx).Create(task).Error)
}

func (r *TaskRepository) List(ctx context.Context, boardID string) ([]model.Tasks, error) {
	var tasks []model.Tasks
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("task_id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindByStatus returns references to every task currently on statusID.
func (r *TaskRepository) FindByStatus(ctx context.Context, statusID int64) ([]model.TaskRef, error) {
	var refs []model.TaskRef
	err := r.db.WithContext(ctx).Model(&model.Tasks{}).
		Select("task_id, status_id").
		Where("status_id = ?", statusID).
		Order("task_id ASC").
		Scan(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// ReassignStatus moves the given tasks to newStatusID as one statement.
// Callers needing atomicity with other writes pass a transaction handle.
func (r *TaskRepository) ReassignStatus(ctx context.Context, refs []model.TaskRef, newStatusID int64) (int64, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.TaskID)
	}
	result := r.db.WithContext(ctx).Model(&model.Tasks{}).
		Where("task_id IN ?", ids).
		Update("status_id", newStatusID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
