package services

import (
	"context"
	"errors"

	"taskboard/apperrors"
	"taskboard/model"
	"taskboard/repository"
)

// Role is the caller's relationship to a board.
type Role int

const (
	RoleNone Role = iota
	RoleOwner
	RoleCollaborator
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "OWNER"
	case RoleCollaborator:
		return "COLLABORATOR"
	default:
		return "NONE"
	}
}

// Capability is what a caller may do on one board. Right is only meaningful
// for RoleCollaborator.
type Capability struct {
	Role   Role
	Right  model.AccessRight
	Public bool
}

func (c Capability) IsOwner() bool {
	return c.Role == RoleOwner
}

// IsMember reports an owner or a collaborator who answered the invitation.
func (c Capability) IsMember() bool {
	return c.Role == RoleOwner || (c.Role == RoleCollaborator && c.Right != model.AccessPending)
}

// CanView allows members and anyone when the board is public.
func (c Capability) CanView() bool {
	return c.IsMember() || c.Public
}

func (c Capability) CanEdit() bool {
	return c.Role == RoleOwner || (c.Role == RoleCollaborator && c.Right == model.AccessWrite)
}

// Policy resolves capabilities. Every authorization decision in this package
// and in the controllers goes through it.
type Policy struct {
	boards  BoardStore
	collabs CollaboratorStore
}

func NewPolicy(boards BoardStore, collabs CollaboratorStore) *Policy {
	return &Policy{boards: boards, collabs: collabs}
}

// Resolve loads the board and the caller's capability on it. A missing board
// is NotFound.
func (p *Policy) Resolve(ctx context.Context, boardID, userID string) (model.Board, Capability, error) {
	board, err := p.boards.Get(ctx, boardID)
	if err != nil {
		return model.Board{}, Capability{}, storeError(err, "board not found")
	}
	capability := Capability{Public: board.IsPublic()}
	if userID == "" {
		return board, capability, nil
	}
	if board.OwnerID == userID {
		capability.Role = RoleOwner
		return board, capability, nil
	}
	collab, err := p.collabs.Get(ctx, boardID, userID)
	switch {
	case err == nil:
		capability.Role = RoleCollaborator
		capability.Right = collab.AccessRight
	case !errors.Is(err, repository.ErrNotFound):
		return model.Board{}, Capability{}, err
	}
	return board, capability, nil
}

// storeError maps repository sentinels to the error taxonomy.
func storeError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(notFound)
	default:
		return err
	}
}
