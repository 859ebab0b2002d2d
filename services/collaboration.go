package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"taskboard/apperrors"
	"taskboard/model"
	"taskboard/repository"
)

// CollaboratorView is a collaborator row as shown to callers. RequestedRight
// is set only while the row is PENDING and carries the right the invitation
// offers; AccessRight itself stays PENDING until the invitee accepts.
type CollaboratorView struct {
	model.Collaborator
	RequestedRight model.AccessRight
}

// Invitation is a pending invitation as seen by the invitee.
type Invitation struct {
	BoardID        string
	BoardName      string
	InviterName    string
	RequestedRight model.AccessRight
	InvitedOn      time.Time
}

type inviteInput struct {
	Email       string `json:"email" validate:"required,email"`
	AccessRight string `json:"access_right" validate:"required,oneof=READ WRITE"`
}

var inviteMessages = fieldMessages{
	"email.required":        "email is required",
	"email.email":           "email is not a valid address",
	"access_right.required": "access right is required",
	"access_right.oneof":    "access right must be READ or WRITE",
}

// CollaborationDeps wires a CollaborationManager.
type CollaborationDeps struct {
	Policy     *Policy
	Boards     BoardStore
	Collabs    CollaboratorStore
	Users      UserDirectory
	Notifier   Notifier
	Mirror     CollaboratorMirror
	AppBaseURL string
	Log        *slog.Logger
	Now        func() time.Time
}

// CollaborationManager runs the invitation and access-right workflow.
type CollaborationManager struct {
	policy     *Policy
	boards     BoardStore
	collabs    CollaboratorStore
	users      UserDirectory
	notifier   Notifier
	mirror     CollaboratorMirror
	appBaseURL string
	log        *slog.Logger
	now        func() time.Time
}

func NewCollaborationManager(deps CollaborationDeps) *CollaborationManager {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &CollaborationManager{
		policy:     deps.Policy,
		boards:     deps.Boards,
		collabs:    deps.Collabs,
		users:      deps.Users,
		notifier:   deps.Notifier,
		mirror:     deps.Mirror,
		appBaseURL: strings.TrimRight(deps.AppBaseURL, "/"),
		log:        deps.Log,
		now:        now,
	}
}

// List returns the board's collaborators. Members and visitors of a public
// board may list them.
func (m *CollaborationManager) List(ctx context.Context, boardID, requesterID string) ([]CollaboratorView, error) {
	if err := m.authorizeView(ctx, boardID, requesterID); err != nil {
		return nil, err
	}
	rows, err := m.collabs.List(ctx, boardID)
	if err != nil {
		return nil, err
	}
	grants, err := m.collabs.ListGrants(ctx, boardID)
	if err != nil {
		return nil, err
	}
	requested := make(map[string]model.AccessRight, len(grants))
	for _, g := range grants {
		requested[g.UserID] = g.AccessRight
	}
	views := make([]CollaboratorView, 0, len(rows))
	for _, row := range rows {
		view := CollaboratorView{Collaborator: row}
		if row.IsPending() {
			view.RequestedRight = requested[row.UserID]
		}
		views = append(views, view)
	}
	return views, nil
}

// Get returns one collaborator under the same rules as List.
func (m *CollaborationManager) Get(ctx context.Context, boardID, collabID, requesterID string) (CollaboratorView, error) {
	if err := m.authorizeView(ctx, boardID, requesterID); err != nil {
		return CollaboratorView{}, err
	}
	row, err := m.collabs.Get(ctx, boardID, collabID)
	if err != nil {
		return CollaboratorView{}, storeError(err, "collaborator not found")
	}
	return m.view(ctx, row)
}

// Invite creates a PENDING collaborator and its grant. A notification failure
// does not undo the invitation: the committed collaborator is returned
// together with an EmailSendFailure error.
func (m *CollaborationManager) Invite(ctx context.Context, boardID, inviterID, email, accessRight string) (CollaboratorView, error) {
	board, capability, err := m.policy.Resolve(ctx, boardID, inviterID)
	if err != nil {
		return CollaboratorView{}, err
	}
	if !capability.IsOwner() {
		return CollaboratorView{}, apperrors.Unauthorized("only the board owner can invite collaborators")
	}

	input := inviteInput{
		Email:       strings.TrimSpace(email),
		AccessRight: strings.ToUpper(strings.TrimSpace(accessRight)),
	}
	if fields := validateInput(input, inviteMessages); len(fields) > 0 {
		return CollaboratorView{}, apperrors.InvalidFields(fields...)
	}
	right, _ := model.ParseGrantableRight(input.AccessRight)

	target, err := m.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return CollaboratorView{}, storeError(err, "no user is registered with this email")
	}
	if target.UserID == board.OwnerID {
		return CollaboratorView{}, apperrors.Conflict("the board owner cannot be invited")
	}
	if _, err := m.collabs.Get(ctx, boardID, target.UserID); err == nil {
		return CollaboratorView{}, apperrors.Conflict("user is already a collaborator or has a pending invitation")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return CollaboratorView{}, err
	}
	inviter, err := m.users.Get(ctx, inviterID)
	if err != nil {
		return CollaboratorView{}, storeError(err, "inviter not found")
	}

	now := m.now()
	collab := model.Collaborator{
		BoardID: boardID,
		UserID:  target.UserID,
		Name:    target.Name,
		Email:   target.Email,
		AddedOn: now,
	}
	grant := model.PendingGrant{
		BoardID:     boardID,
		UserID:      target.UserID,
		AccessRight: right,
		InvitedBy:   inviterID,
		CreatedAt:   now,
	}
	if err := m.collabs.CreateInvitation(ctx, &collab, &grant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return CollaboratorView{}, apperrors.Conflict("user is already a collaborator or has a pending invitation")
		}
		return CollaboratorView{}, err
	}
	m.log.Info("collaborator invited", "board_id", boardID, "user_id", target.UserID, "requested_right", right)
	m.mirrorPut(ctx, collab)

	view := CollaboratorView{Collaborator: collab, RequestedRight: right}
	subject, body := InvitationMessage(inviter.Name, board, right, m.appBaseURL)
	if err := m.notifier.Send(ctx, target.Email, subject, body); err != nil {
		m.log.Warn("invitation notification failed", "board_id", boardID, "user_id", target.UserID, "error", err)
		return view, apperrors.EmailSendFailure(err)
	}
	return view, nil
}

// Accept applies the pending grant of userID's invitation.
func (m *CollaborationManager) Accept(ctx context.Context, boardID, userID string) (CollaboratorView, error) {
	if err := m.checkAnswerable(ctx, boardID, userID); err != nil {
		return CollaboratorView{}, err
	}
	collab, err := m.collabs.AcceptInvitation(ctx, boardID, userID)
	if err != nil {
		return CollaboratorView{}, answerError(err)
	}
	m.log.Info("invitation accepted", "board_id", boardID, "user_id", userID, "access_right", collab.AccessRight)
	m.mirrorPut(ctx, collab)
	return CollaboratorView{Collaborator: collab}, nil
}

// Decline removes userID's invitation and its grant.
func (m *CollaborationManager) Decline(ctx context.Context, boardID, userID string) error {
	if err := m.checkAnswerable(ctx, boardID, userID); err != nil {
		return err
	}
	if err := m.collabs.DeclineInvitation(ctx, boardID, userID); err != nil {
		return answerError(err)
	}
	m.log.Info("invitation declined", "board_id", boardID, "user_id", userID)
	m.mirrorDelete(ctx, boardID, userID)
	return nil
}

// UpdateAccessRight changes an answered collaborator's right. Owner only.
func (m *CollaborationManager) UpdateAccessRight(ctx context.Context, boardID, collabID, newRight, requesterID string) (CollaboratorView, error) {
	_, capability, err := m.policy.Resolve(ctx, boardID, requesterID)
	if err != nil {
		return CollaboratorView{}, err
	}
	if !capability.IsOwner() {
		return CollaboratorView{}, apperrors.Unauthorized("only the board owner can change access rights")
	}
	right, ok := model.ParseGrantableRight(newRight)
	if !ok {
		return CollaboratorView{}, apperrors.Invalid("access_right", "access right must be READ or WRITE")
	}
	collab, err := m.collabs.UpdateAccessRight(ctx, boardID, collabID, right)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return CollaboratorView{}, apperrors.NotFound("collaborator not found")
	case errors.Is(err, repository.ErrStillPending):
		return CollaboratorView{}, apperrors.Conflict("the invitation has not been answered yet")
	case err != nil:
		return CollaboratorView{}, err
	}
	m.log.Info("access right updated", "board_id", boardID, "user_id", collabID, "access_right", right)
	m.mirrorPut(ctx, collab)
	return CollaboratorView{Collaborator: collab}, nil
}

// Remove deletes a collaborator. The owner may remove anyone; a collaborator
// may remove themself whatever their right.
func (m *CollaborationManager) Remove(ctx context.Context, boardID, collabID, requesterID string) error {
	_, capability, err := m.policy.Resolve(ctx, boardID, requesterID)
	if err != nil {
		return err
	}
	self := requesterID == collabID && capability.Role == RoleCollaborator
	if !capability.IsOwner() && !self {
		return apperrors.Unauthorized("only the board owner or the collaborator themself can remove a collaborator")
	}
	if err := m.collabs.Delete(ctx, boardID, collabID); err != nil {
		return storeError(err, "collaborator not found")
	}
	m.log.Info("collaborator removed", "board_id", boardID, "user_id", collabID, "by", requesterID)
	m.mirrorDelete(ctx, boardID, collabID)
	return nil
}

// ListInvitations returns the unanswered invitations addressed to userID.
func (m *CollaborationManager) ListInvitations(ctx context.Context, userID string) ([]Invitation, error) {
	rows, err := m.collabs.ListPendingForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	invitations := make([]Invitation, 0, len(rows))
	for _, row := range rows {
		board, err := m.boards.Get(ctx, row.BoardID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		inv := Invitation{BoardID: board.BoardID, BoardName: board.BoardName, InvitedOn: row.AddedOn}
		grant, err := m.collabs.GetGrant(ctx, row.BoardID, userID)
		switch {
		case err == nil:
			inv.RequestedRight = grant.AccessRight
			if inviter, err := m.users.Get(ctx, grant.InvitedBy); err == nil {
				inv.InviterName = inviter.Name
			}
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, nil
}

func (m *CollaborationManager) authorizeView(ctx context.Context, boardID, requesterID string) error {
	_, capability, err := m.policy.Resolve(ctx, boardID, requesterID)
	if err != nil {
		return err
	}
	if !capability.CanView() {
		return apperrors.Unauthorized("you do not have access to this board")
	}
	return nil
}

func (m *CollaborationManager) view(ctx context.Context, row model.Collaborator) (CollaboratorView, error) {
	view := CollaboratorView{Collaborator: row}
	if !row.IsPending() {
		return view, nil
	}
	grant, err := m.collabs.GetGrant(ctx, row.BoardID, row.UserID)
	switch {
	case err == nil:
		view.RequestedRight = grant.AccessRight
	case !errors.Is(err, repository.ErrNotFound):
		return CollaboratorView{}, err
	}
	return view, nil
}

// checkAnswerable runs the accept/decline preconditions before any write.
// The store repeats them inside its transaction.
func (m *CollaborationManager) checkAnswerable(ctx context.Context, boardID, userID string) error {
	row, err := m.collabs.Get(ctx, boardID, userID)
	if err != nil {
		return storeError(err, "invitation not found")
	}
	if !row.IsPending() {
		return apperrors.Conflict("the invitation has already been answered")
	}
	if _, err := m.collabs.GetGrant(ctx, boardID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.Conflict("the invitation has no pending grant")
		}
		return err
	}
	return nil
}

func answerError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotPending):
		return apperrors.Conflict("the invitation has already been answered")
	case errors.Is(err, repository.ErrGrantMissing):
		return apperrors.Conflict("the invitation has no pending grant")
	default:
		return storeError(err, "invitation not found")
	}
}

func (m *CollaborationManager) mirrorPut(ctx context.Context, collab model.Collaborator) {
	if err := m.mirror.PutCollaborator(ctx, collab); err != nil {
		m.log.Warn("mirror collaborator update failed", "board_id", collab.BoardID, "user_id", collab.UserID, "error", err)
	}
}

func (m *CollaborationManager) mirrorDelete(ctx context.Context, boardID, userID string) {
	if err := m.mirror.DeleteCollaborator(ctx, boardID, userID); err != nil {
		m.log.Warn("mirror collaborator delete failed", "board_id", boardID, "user_id", userID, "error", err)
	}
}
