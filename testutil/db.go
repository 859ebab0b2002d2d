// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"taskboard/model"
	"taskboard/repository"
)

// OpenDB creates a migrated SQLite database in a temp dir.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "taskboard.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser registers a user in the directory.
func CreateUser(t *testing.T, db *gorm.DB, name, email string) model.User {
	t.Helper()
	user := model.User{Name: name, Email: email}
	if err := repository.NewUserRepository(db).Create(context.Background(), &user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

// CreateBoard creates a private board with default statuses.
func CreateBoard(t *testing.T, db *gorm.DB, owner model.User, name string) model.Board {
	t.Helper()
	board := model.Board{BoardName: name, OwnerID: owner.UserID, Visibility: model.VisibilityPrivate}
	if _, err := repository.NewBoardRepository(db).CreateWithDefaults(context.Background(), &board); err != nil {
		t.Fatalf("create board %s: %v", name, err)
	}
	return board
}

// CreateTask places a task on the given status.
func CreateTask(t *testing.T, db *gorm.DB, boardID string, statusID int64, title string) model.Tasks {
	t.Helper()
	task := model.Tasks{BoardID: boardID, TaskName: title, StatusID: statusID}
	if err := repository.NewTaskRepository(db).Create(context.Background(), &task); err != nil {
		t.Fatalf("create task %s: %v", title, err)
	}
	return task
}

// StatusID returns the id of the named status on the board.
func StatusID(t *testing.T, db *gorm.DB, boardID, name string) int64 {
	t.Helper()
	status, err := repository.NewStatusRepository(db).FindByName(context.Background(), boardID, name)
	if err != nil {
		t.Fatalf("find status %q: %v", name, err)
	}
	return status.StatusID
}
