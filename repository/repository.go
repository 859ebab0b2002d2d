// Package repository implements the board stores on top of gorm. Every
// multi-row mutation runs in a single transaction.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"taskboard/model"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrNotPending is returned when an invitation was already answered.
	ErrNotPending = errors.New("collaborator is not pending")
	// ErrStillPending is returned when changing the right of an unanswered invitation.
	ErrStillPending = errors.New("invitation has not been answered")
	// ErrGrantMissing is returned when a pending row has no pending grant.
	ErrGrantMissing = errors.New("pending grant not found")
	// ErrStatusInUse is returned when deleting a status that tasks still reference.
	ErrStatusInUse = errors.New("status is referenced by tasks")
)

// Models lists every table managed by AutoMigrate, parents first.
func Models() []any {
	return []any{
		&model.User{},
		&model.Board{},
		&model.Status{},
		&model.Tasks{},
		&model.Collaborator{},
		&model.PendingGrant{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isDuplicate(err):
		return ErrDuplicate
	default:
		return err
	}
}

// isDuplicate recognises unique violations. TranslateError covers both
// drivers; the message checks catch connections opened without it.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
