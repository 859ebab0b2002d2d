// Package services holds the board, collaboration, status and task managers
// together with the ports they consume and their Firebase/SMTP adapters.
package services

import (
	"context"

	"taskboard/model"
)

// Identity is the caller resolved from an access token.
type Identity struct {
	UserID string `json:"oid"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// IdentityOf converts a directory entry into an Identity.
func IdentityOf(u model.User) Identity {
	return Identity{UserID: u.UserID, Name: u.Name, Email: u.Email}
}

// UserDirectory is the shared identity directory.
type UserDirectory interface {
	Get(ctx context.Context, userID string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

type BoardStore interface {
	CreateWithDefaults(ctx context.Context, board *model.Board) ([]model.Status, error)
	Get(ctx context.Context, boardID string) (model.Board, error)
	Exists(ctx context.Context, boardID string) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]model.Board, error)
	Delete(ctx context.Context, boardID string) error
}

type CollaboratorStore interface {
	Get(ctx context.Context, boardID, userID string) (model.Collaborator, error)
	List(ctx context.Context, boardID string) ([]model.Collaborator, error)
	ListPendingForUser(ctx context.Context, userID string) ([]model.Collaborator, error)
	GetGrant(ctx context.Context, boardID, userID string) (model.PendingGrant, error)
	ListGrants(ctx context.Context, boardID string) ([]model.PendingGrant, error)
	CreateInvitation(ctx context.Context, collab *model.Collaborator, grant *model.PendingGrant) error
	AcceptInvitation(ctx context.Context, boardID, userID string) (model.Collaborator, error)
	DeclineInvitation(ctx context.Context, boardID, userID string) error
	UpdateAccessRight(ctx context.Context, boardID, userID string, right model.AccessRight) (model.Collaborator, error)
	Delete(ctx context.Context, boardID, userID string) error
}

type StatusStore interface {
	List(ctx context.Context, boardID string) ([]model.Status, error)
	Get(ctx context.Context, boardID string, statusID int64) (model.Status, error)
	FindByName(ctx context.Context, boardID, name string) (model.Status, error)
	NameTaken(ctx context.Context, boardID, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, status *model.Status) error
	Update(ctx context.Context, status *model.Status) error
	Delete(ctx context.Context, boardID string, statusID int64) error
	DeleteAndTransfer(ctx context.Context, boardID string, statusID, newStatusID int64) (int64, error)
	CountTasks(ctx context.Context, boardID string) (map[int64]int64, error)
}

// GrantAuditStore finds and repairs broken PENDING row and grant pairs.
type GrantAuditStore interface {
	OrphanGrants(ctx context.Context) ([]model.PendingGrant, error)
	UngrantedPending(ctx context.Context) ([]model.Collaborator, error)
	DeleteOrphanGrant(ctx context.Context, boardID, userID string) (bool, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *model.Tasks) error
	List(ctx context.Context, boardID string) ([]model.Tasks, error)
	FindByStatus(ctx context.Context, statusID int64) ([]model.TaskRef, error)
}

// Notifier delivers one message to one address. Implementations are
// best-effort; callers decide whether a failure matters.
type Notifier interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

// CollaboratorMirror projects committed collaborator changes to a read model.
type CollaboratorMirror interface {
	PutCollaborator(ctx context.Context, collab model.Collaborator) error
	DeleteCollaborator(ctx context.Context, boardID, userID string) error
	DeleteBoard(ctx context.Context, boardID string) error
}
