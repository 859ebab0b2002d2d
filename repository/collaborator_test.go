package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard/model"
	"taskboard/repository"
	"taskboard/testutil"
)

func invite(t *testing.T, repo *repository.CollaboratorRepository, board model.Board, user model.User, right model.AccessRight) {
	t.Helper()
	now := time.Now()
	collab := model.Collaborator{BoardID: board.BoardID, UserID: user.UserID, Name: user.Name, Email: user.Email, AddedOn: now}
	grant := model.PendingGrant{BoardID: board.BoardID, UserID: user.UserID, AccessRight: right, InvitedBy: board.OwnerID, CreatedAt: now}
	if err := repo.CreateInvitation(context.Background(), &collab, &grant); err != nil {
		t.Fatalf("create invitation: %v", err)
	}
}

func TestCreateInvitationWritesRowAndGrant(t *testing.T) {
	t.Parallel()

	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com")
	guest := testutil.CreateUser(t, db, "Guest", "guest@example.com")
	board := testutil.CreateBoard(t, db, owner, "Sprint")
	repo := repository.NewCollaboratorRepository(db)
	ctx := context.Background()

	invite(t, repo, board, guest, model.AccessWrite)

	collab, err := repo.Get(ctx, board.BoardID, guest.UserID)
	if err != nil {
		t.Fatalf("get collaborator: %v", err)
	}
	if collab.AccessRight != model.AccessPending {
		t.Fatalf("access right = %s, want PENDING", collab.AccessRight)
	}
	grant, err := repo.GetGrant(ctx, board.BoardID, guest.UserID)
	if err != nil {
		t.Fatalf("get grant: %v", err)
	}
	if grant.AccessRight != model.AccessWrite {
		t.Fatalf("grant right = %s, want WRITE", grant.AccessRight)
	}
}

func TestCreateInvitationDuplicateLeavesNoExtraGrant(t *testing.T) {
	t.Parallel()

	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com")
	guest := testutil.CreateUser(t, db, "Guest", "guest@example.com")
	board := testutil.CreateBoard(t, db, owner, "Sprint")
	repo := repository.NewCollaboratorRepository(db)
	ctx := context.Background()

	invite(t, repo, board, guest, model.AccessRead)

	now := time.Now()
	collab := model.Collaborator{BoardID: board.BoardID, UserID: guest.UserID, Name: guest.Name, Email: guest.Email, AddedOn: now}
	grant := model.PendingGrant{BoardID: board.BoardID, UserID: guest.UserID, AccessRight: model.AccessWrite, InvitedBy: owner.UserID, CreatedAt: now}
	err := repo.CreateInvitation(ctx, &collab, &grant)
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("duplicate invitation error = %v, want %v", err, repository.ErrDuplicate)
	}

	stored, err := repo.GetGrant(ctx, board.BoardID, guest.UserID)
	if err != nil {
		t.Fatalf("get grant: %v", err)
	}
	if stored.AccessRight != model.AccessRead {
		t.Fatalf("grant right = %s, want original READ", stored.AccessRight)
	}
}

func TestAcceptInvitationAppliesGrant(t *testing.T) {
	t.Parallel()

	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com")
	guest := testutil.CreateUser(t, db, "Guest", "guest@example.com")
	board := testutil.CreateBoard(t, db, owner, "Sprint")
	repo := repository.NewCollaboratorRepository(db)
	ctx := context.Background()

	invite(t, repo, board, guest, model.AccessWrite)

	collab, err := repo.AcceptInvitation(ctx, board.BoardID, guest.UserID)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if collab.AccessRight != model.AccessWrite {
		t.Fatalf("access right = %s, want WRITE", collab.AccessRight)
	}
	if _, err := repo.GetGrant(ctx, board.BoardID, guest.UserID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("grant after accept error = %v, want not found", err)
	}

	if _, err := repo.AcceptInvitation(ctx, board.BoardID, guest.UserID); !errors.Is(err, repository.ErrGrantMissing) {
		t.Fatalf("second accept error = %v, want %v", err, repository.ErrGrantMissing)
	}
}

func TestDeclineInvitationRemovesBoth(t *testing.T) {
	t.Parallel()

	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com")
	guest := testutil.CreateUser(t, db, "Guest", "guest@example.com")
	board := testutil.CreateBoard(t, db, owner, "Sprint")
	repo := repository.NewCollaboratorRepository(db)
	ctx := context.Background()

	invite(t, repo, board, guest, model.AccessRead)

	if err := repo.DeclineInvitation(ctx, board.BoardID, guest.UserID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if _, err := repo.Get(ctx, board.BoardID, guest.UserID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("collaborator after decline error = %v, want not found", err)
	}
	if _, err := repo.GetGrant(ctx, board.BoardID, guest.UserID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("grant after decline error = %v, want not found", err)
	}
}

func TestAcceptRollsBackWhenRowNotPending(t *testing.T) {
	t.Parallel()

	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com")
	guest := testutil.CreateUser(t, db, "Guest", "guest@example.com")
	board := testutil.CreateBoard(t, db, owner, "Sprint")
	repo := repository.NewCollaboratorRepository(db)
	ctx := context.Background()

	invite(t, repo, board, guest, model.AccessRead)
	// Simulate legacy data: an answered row with a leftover grant.
	if err := db.Model(&model.Collaborator{}).
		Where("board_id = ? AND user_id = ?", board.BoardID, guest.UserID).
		Update("access_right", model.AccessRead).Error; err != nil {
		t.Fatalf("force access right: %v", err)
	}

	if _, err := repo.AcceptInvitation(ctx, board.BoardID, guest.UserID); !errors.Is(err, repository.ErrNotPending) {
		t.Fatalf("accept error = %v, want %v", err, repository.ErrNotPending)
	}
	if _, err := repo.GetGrant(ctx, board.BoardID, guest.UserID); err != nil {
		t.Fatalf("grant should survive the rolled back accept: %v", err)
	}
}

func TestUpdateAccessRightRejectsPending(t *testing.T) {
	t.Parallel()

	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com")
	guest := testutil.CreateUser(t, db, "Guest", "guest@example.com")
	board := testutil.CreateBoard(t, db, owner, "Sprint")
	repo := repository.NewCollaboratorRepository(db)
	ctx := context.Background()

	invite(t, repo, board, guest, model.AccessRead)
	if _, err := repo.UpdateAccessRight(ctx, board.BoardID, guest.UserID, model.AccessWrite); !errors.Is(err, repository.ErrStillPending) {
		t.Fatalf("update pending error = %v, want %v", err, repository.ErrStillPending)
	}

	if _, err := repo.AcceptInvitation(ctx, board.BoardID, guest.UserID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	collab, err := repo.UpdateAccessRight(ctx, board.BoardID, guest.UserID, model.AccessWrite)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if collab.AccessRight != model.AccessWrite {
		t.Fatalf("access right = %s, want WRITE", collab.AccessRight)
	}
}

func TestDeleteRemovesPendingGrant(t *testing.T) {
	t.Parallel()

	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com")
	guest := testutil.CreateUser(t, db, "Guest", "guest@example.com")
	board := testutil.CreateBoard(t, db, owner, "Sprint")
	repo := repository.NewCollaboratorRepository(db)
	ctx := context.Background()

	invite(t, repo, board, guest, model.AccessRead)
	if err := repo.Delete(ctx, board.BoardID, guest.UserID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetGrant(ctx, board.BoardID, guest.UserID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("grant after delete error = %v, want not found", err)
	}
	if err := repo.Delete(ctx, board.BoardID, guest.UserID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete error = %v, want not found", err)
	}
}

func TestOrphanGrantDetection(t *testing.T) {
	t.Parallel()

	db := testutil.OpenDB(t)
	owner := testutil.CreateUser(t, db, "Owner", "owner@example.com")
	healthy := testutil.CreateUser(t, db, "Healthy", "healthy@example.com")
	stray := testutil.CreateUser(t, db, "Stray", "stray@example.com")
	board := testutil.CreateBoard(t, db, owner, "Sprint")
	repo := repository.NewCollaboratorRepository(db)
	ctx := context.Background()

	invite(t, repo, board, healthy, model.AccessRead)
	invite(t, repo, board, stray, model.AccessWrite)
	// Break the pair for stray: the row is gone, the grant remains.
	if err := db.Where("board_id = ? AND user_id = ?", board.BoardID, stray.UserID).
		Delete(&model.Collaborator{}).Error; err != nil {
		t.Fatalf("delete row: %v", err)
	}

	orphans, err := repo.OrphanGrants(ctx)
	if err != nil {
		t.Fatalf("orphan grants: %v", err)
	}
	if len(orphans) != 1 || orphans[0].UserID != stray.UserID {
		t.Fatalf("orphans = %+v, want only stray", orphans)
	}

	removed, err := repo.DeleteOrphanGrant(ctx, board.BoardID, healthy.UserID)
	if err != nil {
		t.Fatalf("delete healthy grant: %v", err)
	}
	if removed {
		t.Fatal("a grant backed by a pending row must not be removed")
	}
	removed, err = repo.DeleteOrphanGrant(ctx, board.BoardID, stray.UserID)
	if err != nil || !removed {
		t.Fatalf("delete orphan grant = %v, %v; want true, nil", removed, err)
	}
}
