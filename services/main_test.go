package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"gorm.io/gorm"

	"taskboard/apperrors"
	"taskboard/model"
	"taskboard/repository"
	"taskboard/services"
	"taskboard/testutil"
)

type sentMessage struct {
	To, Subject, Body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (f *fakeNotifier) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{To: to, Subject: subject, Body: body})
	return nil
}

type fakeMirror struct {
	mu      sync.Mutex
	put     []model.Collaborator
	deleted []string
	err     error
}

func (f *fakeMirror) PutCollaborator(_ context.Context, c model.Collaborator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.put = append(f.put, c)
	return f.err
}

func (f *fakeMirror) DeleteCollaborator(_ context.Context, boardID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, boardID+"/"+userID)
	return f.err
}

func (f *fakeMirror) DeleteBoard(_ context.Context, boardID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, boardID)
	return f.err
}

type fixture struct {
	db       *gorm.DB
	notifier *fakeNotifier
	mirror   *fakeMirror
	collabs  *repository.CollaboratorRepository
	manager  *services.CollaborationManager
	statuses *services.StatusManager
	boards   *services.BoardService
	tasks    *services.TaskService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	boardRepo := repository.NewBoardRepository(db)
	collabRepo := repository.NewCollaboratorRepository(db)
	statusRepo := repository.NewStatusRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	policy := services.NewPolicy(boardRepo, collabRepo)
	notifier := &fakeNotifier{}
	mirror := &fakeMirror{}
	log := discardLogger()

	return &fixture{
		db:       db,
		notifier: notifier,
		mirror:   mirror,
		collabs:  collabRepo,
		manager: services.NewCollaborationManager(services.CollaborationDeps{
			Policy:     policy,
			Boards:     boardRepo,
			Collabs:    collabRepo,
			Users:      repository.NewUserRepository(db),
			Notifier:   notifier,
			Mirror:     mirror,
			AppBaseURL: "https://app.example.com/",
			Log:        log,
		}),
		statuses: services.NewStatusManager(policy, statusRepo, log),
		boards:   services.NewBoardService(boardRepo, policy, mirror, log),
		tasks:    services.NewTaskService(policy, taskRepo, statusRepo, log),
	}
}

func wantKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := apperrors.KindOf(err); got != kind {
		t.Fatalf("error kind = %s (%v), want %s", got, err, kind)
	}
}

func hasFieldMessage(err error, field, message string) bool {
	for _, f := range apperrors.FieldsOf(err) {
		if f.Field == field && f.Message == message {
			return true
		}
	}
	return false
}

func mustNotErr(t *testing.T, err error, what string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", what, err)
	}
}

var errBoom = errors.New("boom")
