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

const (
	msgStatusNameRequired   = "status name is required"
	msgStatusNameTooLong    = "status name must be at most 50 characters"
	msgStatusNameTaken      = "status name must be unique within the board"
	msgStatusDescTooLong    = "status description must be at most 200 characters"
	msgStatusNotModifiable  = "default status cannot be modified"
	msgStatusNotDeletable   = "default status cannot be deleted"
	msgTransferNotSpecified = "destination status for task transfer not specified"
	msgTransferToSelf       = "destination status must differ from the deleted status"
)

type statusInput struct {
	Name        string `json:"name" validate:"required,max=50"`
	Description string `json:"description" validate:"max=200"`
}

// statusUpdateInput allows a blank name, which keeps the current one.
type statusUpdateInput struct {
	Name        string `json:"name" validate:"omitempty,max=50"`
	Description string `json:"description" validate:"max=200"`
}

var statusMessages = fieldMessages{
	"name.required":   msgStatusNameRequired,
	"name.max":        msgStatusNameTooLong,
	"description.max": msgStatusDescTooLong,
}

// StatusManager owns each board's status taxonomy.
type StatusManager struct {
	policy   *Policy
	statuses StatusStore
	log      *slog.Logger
}

func NewStatusManager(policy *Policy, statuses StatusStore, log *slog.Logger) *StatusManager {
	return &StatusManager{policy: policy, statuses: statuses, log: log}
}

func (m *StatusManager) List(ctx context.Context, boardID, requesterID string) ([]model.Status, error) {
	if err := m.authorize(ctx, boardID, requesterID, false); err != nil {
		return nil, err
	}
	return m.statuses.List(ctx, boardID)
}

func (m *StatusManager) GetByID(ctx context.Context, boardID string, statusID int64, requesterID string) (model.Status, error) {
	if err := m.authorize(ctx, boardID, requesterID, false); err != nil {
		return model.Status{}, err
	}
	status, err := m.statuses.Get(ctx, boardID, statusID)
	if err != nil {
		return model.Status{}, storeError(err, "status not found")
	}
	return status, nil
}

// CountTasks returns the number of tasks on each status of the board.
func (m *StatusManager) CountTasks(ctx context.Context, boardID, requesterID string) (map[int64]int64, error) {
	if err := m.authorize(ctx, boardID, requesterID, false); err != nil {
		return nil, err
	}
	return m.statuses.CountTasks(ctx, boardID)
}

// Create adds a status. All validation failures are reported together.
func (m *StatusManager) Create(ctx context.Context, boardID, requesterID, name, description string) (model.Status, error) {
	if err := m.authorize(ctx, boardID, requesterID, true); err != nil {
		return model.Status{}, err
	}
	input := statusInput{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	fields := validateInput(input, statusMessages)
	if input.Name != "" {
		taken, err := m.statuses.NameTaken(ctx, boardID, input.Name, 0)
		if err != nil {
			return model.Status{}, err
		}
		if taken {
			fields = append(fields, apperrors.FieldError{Field: "name", Message: msgStatusNameTaken})
		}
	}
	if len(fields) > 0 {
		return model.Status{}, apperrors.InvalidFields(fields...)
	}

	status := model.Status{BoardID: boardID, Name: input.Name, Description: optional(input.Description)}
	if err := m.statuses.Create(ctx, &status); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Status{}, apperrors.Invalid("name", msgStatusNameTaken)
		}
		return model.Status{}, err
	}
	m.log.Info("status created", "board_id", boardID, "status_id", status.StatusID)
	return status, nil
}

// Update renames a status and replaces its description. A blank name keeps
// the current one. Default statuses reject every edit.
func (m *StatusManager) Update(ctx context.Context, boardID string, statusID int64, requesterID, name, description string) (model.Status, error) {
	if err := m.authorize(ctx, boardID, requesterID, true); err != nil {
		return model.Status{}, err
	}
	current, err := m.statuses.Get(ctx, boardID, statusID)
	if err != nil {
		return model.Status{}, storeError(err, "status not found")
	}

	var fields []apperrors.FieldError
	if current.Protected {
		fields = append(fields, apperrors.FieldError{Field: "status", Message: msgStatusNotModifiable})
	}
	input := statusUpdateInput{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	fields = append(fields, validateInput(input, statusMessages)...)
	if input.Name != "" {
		taken, err := m.statuses.NameTaken(ctx, boardID, input.Name, statusID)
		if err != nil {
			return model.Status{}, err
		}
		if taken {
			fields = append(fields, apperrors.FieldError{Field: "name", Message: msgStatusNameTaken})
		}
	}
	if len(fields) > 0 {
		return model.Status{}, apperrors.InvalidFields(fields...)
	}

	updated := current
	if input.Name != "" {
		updated.Name = input.Name
	}
	updated.Description = optional(input.Description)
	if err := m.statuses.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return model.Status{}, apperrors.Invalid("name", msgStatusNameTaken)
		case errors.Is(err, repository.ErrNotFound):
			return model.Status{}, apperrors.NotFound("status not found")
		}
		return model.Status{}, err
	}
	m.log.Info("status updated", "board_id", boardID, "status_id", statusID)
	return updated, nil
}

// Delete removes a status no task refers to and returns it.
func (m *StatusManager) Delete(ctx context.Context, boardID string, statusID int64, requesterID string) (model.Status, error) {
	if err := m.authorize(ctx, boardID, requesterID, true); err != nil {
		return model.Status{}, err
	}
	status, err := m.statuses.Get(ctx, boardID, statusID)
	if err != nil {
		return model.Status{}, storeError(err, "status not found")
	}
	if status.Protected {
		return model.Status{}, apperrors.Invalid("status", msgStatusNotDeletable)
	}
	if err := m.statuses.Delete(ctx, boardID, statusID); err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusInUse):
			return model.Status{}, apperrors.Invalid("new_status_id", msgTransferNotSpecified)
		case errors.Is(err, repository.ErrNotFound):
			return model.Status{}, apperrors.NotFound("status not found")
		}
		return model.Status{}, err
	}
	m.log.Info("status deleted", "board_id", boardID, "status_id", statusID)
	return status, nil
}

// DeleteAndTransfer moves every task on statusID to newStatusID and removes
// statusID. It returns the removed status and how many tasks moved.
func (m *StatusManager) DeleteAndTransfer(ctx context.Context, boardID string, statusID, newStatusID int64, requesterID string) (model.Status, int64, error) {
	if err := m.authorize(ctx, boardID, requesterID, true); err != nil {
		return model.Status{}, 0, err
	}
	status, err := m.statuses.Get(ctx, boardID, statusID)
	if err != nil {
		return model.Status{}, 0, storeError(err, "status not found")
	}
	if _, err := m.statuses.Get(ctx, boardID, newStatusID); err != nil {
		return model.Status{}, 0, storeError(err, "destination status not found")
	}
	if status.Protected {
		return model.Status{}, 0, apperrors.Invalid("status", msgStatusNotDeletable)
	}
	if statusID == newStatusID {
		return model.Status{}, 0, apperrors.Invalid("new_status_id", msgTransferToSelf)
	}
	moved, err := m.statuses.DeleteAndTransfer(ctx, boardID, statusID, newStatusID)
	if err != nil {
		return model.Status{}, 0, storeError(err, "status not found")
	}
	m.log.Info("status deleted with transfer", "board_id", boardID, "status_id", statusID, "new_status_id", newStatusID, "moved", moved)
	return status, moved, nil
}

func (m *StatusManager) authorize(ctx context.Context, boardID, requesterID string, edit bool) error {
	_, capability, err := m.policy.Resolve(ctx, boardID, requesterID)
	if err != nil {
		return err
	}
	if edit && !capability.CanEdit() {
		return apperrors.Unauthorized("you do not have write access to this board")
	}
	if !edit && !capability.CanView() {
		return apperrors.Unauthorized("you do not have access to this board")
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
