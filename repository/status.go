package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"taskboard/model"
)

type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// List returns the board's statuses in board order.
func (r *StatusRepository) List(ctx context.Context, boardID string) ([]model.Status, error) {
	var statuses []model.Status
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position ASC, status_id ASC").
		Find(&statuses).Error
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *StatusRepository) Get(ctx context.Context, boardID string, statusID int64) (model.Status, error) {
	var status model.Status
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND status_id = ?", boardID, statusID).
		First(&status).Error
	return status, translate(err)
}

// FindByName matches name case-insensitively within the board.
func (r *StatusRepository) FindByName(ctx context.Context, boardID, name string) (model.Status, error) {
	var status model.Status
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND name_key = ?", boardID, model.StatusNameKey(name)).
		First(&status).Error
	return status, translate(err)
}

// NameTaken reports whether another status on the board already uses name.
// excludeID is ignored when zero.
func (r *StatusRepository) NameTaken(ctx context.Context, boardID, name string, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Status{}).
		Where("board_id = ? AND name_key = ?", boardID, model.StatusNameKey(name))
	if excludeID != 0 {
		query = query.Where("status_id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create appends the status after the board's existing ones.
func (r *StatusRepository) Create(ctx context.Context, status *model.Status) error {
	status.NameKey = model.StatusNameKey(status.Name)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos sql.NullInt64
		if err := tx.Model(&model.Status{}).
			Where("board_id = ?", status.BoardID).
			Select("MAX(position)").
			Row().Scan(&maxPos); err != nil {
			return err
		}
		if maxPos.Valid {
			status.Position = int(maxPos.Int64) + 1
		}
		return tx.Create(status).Error
	})
	return translate(err)
}

// Update persists name and description.
func (r *StatusRepository) Update(ctx context.Context, status *model.Status) error {
	status.NameKey = model.StatusNameKey(status.Name)
	result := r.db.WithContext(ctx).Model(&model.Status{}).
		Where("board_id = ? AND status_id = ?", status.BoardID, status.StatusID).
		Updates(map[string]any{
			"name":        status.Name,
			"name_key":    status.NameKey,
			"description": status.Description,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a status that no task references. The reference check runs
// inside the deleting transaction.
func (r *StatusRepository) Delete(ctx context.Context, boardID string, statusID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		refs, err := NewTaskRepository(tx).FindByStatus(ctx, statusID)
		if err != nil {
			return err
		}
		if len(refs) > 0 {
			return ErrStatusInUse
		}
		return deleteStatus(tx, boardID, statusID)
	})
}

// DeleteAndTransfer moves every task on statusID to newStatusID and deletes
// statusID. Either both happen or neither does.
func (r *StatusRepository) DeleteAndTransfer(ctx context.Context, boardID string, statusID, newStatusID int64) (int64, error) {
	var moved int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Status{}).
			Where("board_id = ? AND status_id = ?", boardID, newStatusID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		tasks := NewTaskRepository(tx)
		refs, err := tasks.FindByStatus(ctx, statusID)
		if err != nil {
			return err
		}
		if moved, err = tasks.ReassignStatus(ctx, refs, newStatusID); err != nil {
			return err
		}
		return deleteStatus(tx, boardID, statusID)
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

// CountTasks returns the number of tasks per status id on the board.
func (r *StatusRepository) CountTasks(ctx context.Context, boardID string) (map[int64]int64, error) {
	var rows []struct {
		StatusID int64
		Total    int64
	}
	err := r.db.WithContext(ctx).Model(&model.Tasks{}).
		Select("status_id, COUNT(*) AS total").
		Where("board_id = ?", boardID).
		Group("status_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.StatusID] = row.Total
	}
	return counts, nil
}

func deleteStatus(tx *gorm.DB, boardID string, statusID int64) error {
	result := tx.Where("board_id = ? AND status_id = ?", boardID, statusID).Delete(&model.Status{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
