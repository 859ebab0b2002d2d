package services_test

import (
	"context"
	"strings"
	"testing"

	"taskboard/apperrors"
	"taskboard/model"
	"taskboard/repository"
	"taskboard/testutil"
)

func TestNewBoardHasDefaultStatuses(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")
	ctx := context.Background()

	board, seeded, err := f.boards.Create(ctx, owner.UserID, "  Roadmap ", "")
	mustNotErr(t, err, "create board")
	if board.BoardName != "Roadmap" || board.Visibility != model.VisibilityPrivate {
		t.Fatalf("board = %+v", board)
	}
	if len(seeded) != 4 {
		t.Fatalf("seeded = %d, want 4", len(seeded))
	}

	statuses, err := f.statuses.List(ctx, board.BoardID, owner.UserID)
	mustNotErr(t, err, "list")
	var names []string
	for _, s := range statuses {
		names = append(names, s.Name)
	}
	if got := strings.Join(names, ","); got != "No Status,To Do,Doing,Done" {
		t.Fatalf("statuses = %s", got)
	}
}

func TestCreateBoardValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")

	_, _, err := f.boards.Create(context.Background(), owner.UserID, "   ", "secret")
	wantKind(t, err, apperrors.KindInvalidField)
	if len(apperrors.FieldsOf(err)) != 2 {
		t.Fatalf("fields = %+v, want name and visibility", apperrors.FieldsOf(err))
	}

	_, _, err = f.boards.Create(context.Background(), owner.UserID, "Plan\r\nBcc: attacker@evil.test", "")
	wantKind(t, err, apperrors.KindInvalidField)
	if !hasFieldMessage(err, "board_name", "board name must not contain line breaks") {
		t.Fatalf("fields = %+v, want line break rejection", apperrors.FieldsOf(err))
	}
}

func TestCreateStatusValidation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")
	board := testutil.CreateBoard(t, f.db, owner, "Roadmap")
	ctx := context.Background()

	_, err := f.statuses.Create(ctx, board.BoardID, owner.UserID, "to do", "")
	wantKind(t, err, apperrors.KindInvalidField)
	if !hasFieldMessage(err, "name", "status name must be unique within the board") {
		t.Fatalf("fields = %+v", apperrors.FieldsOf(err))
	}

	_, err = f.statuses.Create(ctx, board.BoardID, owner.UserID, " ", strings.Repeat("x", 201))
	wantKind(t, err, apperrors.KindInvalidField)
	if !hasFieldMessage(err, "name", "status name is required") ||
		!hasFieldMessage(err, "description", "status description must be at most 200 characters") {
		t.Fatalf("fields = %+v, want both violations", apperrors.FieldsOf(err))
	}

	_, err = f.statuses.Create(ctx, board.BoardID, owner.UserID, strings.Repeat("é", 51), "")
	wantKind(t, err, apperrors.KindInvalidField)

	_, err = f.statuses.Create(ctx, "missing", owner.UserID, "Review", "")
	wantKind(t, err, apperrors.KindNotFound)

	status, err := f.statuses.Create(ctx, board.BoardID, owner.UserID, "  Review ", "   ")
	mustNotErr(t, err, "create")
	if status.Name != "Review" || status.Description != nil || status.Protected {
		t.Fatalf("status = %+v", status)
	}
}

func TestProtectedStatusesCannotChange(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")
	board := testutil.CreateBoard(t, f.db, owner, "Roadmap")
	ctx := context.Background()
	done := testutil.StatusID(t, f.db, board.BoardID, "Done")
	noStatus := testutil.StatusID(t, f.db, board.BoardID, "No Status")

	_, err := f.statuses.Update(ctx, board.BoardID, done, owner.UserID, "Complete", "")
	wantKind(t, err, apperrors.KindInvalidField)
	if !hasFieldMessage(err, "status", "default status cannot be modified") {
		t.Fatalf("fields = %+v", apperrors.FieldsOf(err))
	}

	_, err = f.statuses.Update(ctx, board.BoardID, noStatus, owner.UserID, "to do", "")
	wantKind(t, err, apperrors.KindInvalidField)
	if !hasFieldMessage(err, "status", "default status cannot be modified") ||
		!hasFieldMessage(err, "name", "status name must be unique within the board") {
		t.Fatalf("fields = %+v, want protection and uniqueness together", apperrors.FieldsOf(err))
	}

	_, err = f.statuses.Delete(ctx, board.BoardID, done, owner.UserID)
	wantKind(t, err, apperrors.KindInvalidField)
	if !hasFieldMessage(err, "status", "default status cannot be deleted") {
		t.Fatalf("fields = %+v", apperrors.FieldsOf(err))
	}

	_, _, err = f.statuses.DeleteAndTransfer(ctx, board.BoardID, noStatus, done, owner.UserID)
	wantKind(t, err, apperrors.KindInvalidField)
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")
	board := testutil.CreateBoard(t, f.db, owner, "Roadmap")
	ctx := context.Background()
	doing := testutil.StatusID(t, f.db, board.BoardID, "Doing")

	updated, err := f.statuses.Update(ctx, board.BoardID, doing, owner.UserID, "  ", " in progress ")
	mustNotErr(t, err, "update description only")
	if updated.Name != "Doing" || updated.Description == nil || *updated.Description != "in progress" {
		t.Fatalf("updated = %+v", updated)
	}

	updated, err = f.statuses.Update(ctx, board.BoardID, doing, owner.UserID, "DOING", "")
	mustNotErr(t, err, "rename to own name in another case")
	if updated.Name != "DOING" || updated.Description != nil {
		t.Fatalf("updated = %+v", updated)
	}

	_, err = f.statuses.Update(ctx, board.BoardID, doing, owner.UserID, "To Do", "")
	wantKind(t, err, apperrors.KindInvalidField)

	_, err = f.statuses.Update(ctx, board.BoardID, 9999, owner.UserID, "x", "")
	wantKind(t, err, apperrors.KindNotFound)

	got, err := f.statuses.GetByID(ctx, board.BoardID, doing, owner.UserID)
	mustNotErr(t, err, "get")
	if got.Name != "DOING" {
		t.Fatalf("stored name = %q, want DOING", got.Name)
	}
}

func TestDeleteStatusWithTasksNeedsTransfer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")
	board := testutil.CreateBoard(t, f.db, owner, "Roadmap")
	ctx := context.Background()
	doing := testutil.StatusID(t, f.db, board.BoardID, "Doing")
	todo := testutil.StatusID(t, f.db, board.BoardID, "To Do")
	testutil.CreateTask(t, f.db, board.BoardID, doing, "first")
	testutil.CreateTask(t, f.db, board.BoardID, doing, "second")

	_, err := f.statuses.Delete(ctx, board.BoardID, doing, owner.UserID)
	wantKind(t, err, apperrors.KindInvalidField)
	if !hasFieldMessage(err, "new_status_id", "destination status for task transfer not specified") {
		t.Fatalf("fields = %+v", apperrors.FieldsOf(err))
	}

	_, _, err = f.statuses.DeleteAndTransfer(ctx, board.BoardID, doing, doing, owner.UserID)
	wantKind(t, err, apperrors.KindInvalidField)
	_, _, err = f.statuses.DeleteAndTransfer(ctx, board.BoardID, doing, 9999, owner.UserID)
	wantKind(t, err, apperrors.KindNotFound)

	removed, moved, err := f.statuses.DeleteAndTransfer(ctx, board.BoardID, doing, todo, owner.UserID)
	mustNotErr(t, err, "delete and transfer")
	if removed.StatusID != doing || moved != 2 {
		t.Fatalf("removed %d moved %d, want %d and 2", removed.StatusID, moved, doing)
	}

	refs, err := repository.NewTaskRepository(f.db).FindByStatus(ctx, todo)
	mustNotErr(t, err, "find by status")
	if len(refs) != 2 {
		t.Fatalf("tasks on To Do = %d, want 2", len(refs))
	}
	statuses, err := f.statuses.List(ctx, board.BoardID, owner.UserID)
	mustNotErr(t, err, "list")
	for _, s := range statuses {
		if s.StatusID == doing {
			t.Fatal("deleted status still listed")
		}
	}
}

func TestTransferIntoProtectedStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")
	board := testutil.CreateBoard(t, f.db, owner, "Roadmap")
	ctx := context.Background()
	todo := testutil.StatusID(t, f.db, board.BoardID, "To Do")
	done := testutil.StatusID(t, f.db, board.BoardID, "Done")
	testutil.CreateTask(t, f.db, board.BoardID, todo, "ship")

	_, moved, err := f.statuses.DeleteAndTransfer(ctx, board.BoardID, todo, done, owner.UserID)
	mustNotErr(t, err, "transfer into Done")
	if moved != 1 {
		t.Fatalf("moved = %d, want 1", moved)
	}
}

func TestDeleteUnusedStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")
	board := testutil.CreateBoard(t, f.db, owner, "Roadmap")
	ctx := context.Background()
	todo := testutil.StatusID(t, f.db, board.BoardID, "To Do")

	removed, err := f.statuses.Delete(ctx, board.BoardID, todo, owner.UserID)
	mustNotErr(t, err, "delete")
	if removed.Name != "To Do" {
		t.Fatalf("removed = %q", removed.Name)
	}
	_, err = f.statuses.Delete(ctx, board.BoardID, todo, owner.UserID)
	wantKind(t, err, apperrors.KindNotFound)
}

func TestStatusWritesNeedWriteAccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")
	reader := testutil.CreateUser(t, f.db, "Ana", "a@b.com")
	writer := testutil.CreateUser(t, f.db, "Wes", "w@b.com")
	board := testutil.CreateBoard(t, f.db, owner, "Roadmap")
	ctx := context.Background()

	for _, inv := range []struct {
		user  model.User
		right string
	}{{reader, "READ"}, {writer, "WRITE"}} {
		_, err := f.manager.Invite(ctx, board.BoardID, owner.UserID, inv.user.Email, inv.right)
		mustNotErr(t, err, "invite")
		_, err = f.manager.Accept(ctx, board.BoardID, inv.user.UserID)
		mustNotErr(t, err, "accept")
	}

	_, err := f.statuses.List(ctx, board.BoardID, reader.UserID)
	mustNotErr(t, err, "reader list")
	_, err = f.statuses.Create(ctx, board.BoardID, reader.UserID, "Review", "")
	wantKind(t, err, apperrors.KindUnauthorized)
	_, err = f.statuses.Create(ctx, board.BoardID, writer.UserID, "Review", "")
	mustNotErr(t, err, "writer create")
}

func TestTaskDefaultsToNoStatus(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")
	board := testutil.CreateBoard(t, f.db, owner, "Roadmap")
	other := testutil.CreateBoard(t, f.db, owner, "Other")
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, board.BoardID, owner.UserID, "write docs", "", nil)
	mustNotErr(t, err, "create task")
	if task.StatusID != testutil.StatusID(t, f.db, board.BoardID, "No Status") {
		t.Fatalf("status id = %d, want No Status", task.StatusID)
	}

	foreign := testutil.StatusID(t, f.db, other.BoardID, "Doing")
	_, err = f.tasks.Create(ctx, board.BoardID, owner.UserID, "misplaced", "", &foreign)
	wantKind(t, err, apperrors.KindInvalidField)

	counts, err := f.statuses.CountTasks(ctx, board.BoardID, owner.UserID)
	mustNotErr(t, err, "count")
	if counts[task.StatusID] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestDeleteBoardOwnerOnly(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "Olivia", "owner@example.com")
	stranger := testutil.CreateUser(t, f.db, "Sam", "s@b.com")
	board := testutil.CreateBoard(t, f.db, owner, "Roadmap")
	ctx := context.Background()

	wantKind(t, f.boards.Delete(ctx, board.BoardID, stranger.UserID), apperrors.KindUnauthorized)
	mustNotErr(t, f.boards.Delete(ctx, board.BoardID, owner.UserID), "delete")
	_, _, err := f.boards.Get(ctx, board.BoardID, owner.UserID)
	wantKind(t, err, apperrors.KindNotFound)
}
