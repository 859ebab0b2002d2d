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

type boardInput struct {
	Name       string `json:"board_name" validate:"required,max=120,singleline"`
	Visibility string `json:"visibility" validate:"omitempty,oneof=PRIVATE PUBLIC"`
}

var boardMessages = fieldMessages{
	"board_name.required":   "board name is required",
	"board_name.max":        "board name must be at most 120 characters",
	"board_name.singleline": "board name must not contain line breaks",
	"visibility.oneof":      "visibility must be PRIVATE or PUBLIC",
}

type BoardService struct {
	boards BoardStore
	policy *Policy
	mirror CollaboratorMirror
	log    *slog.Logger
}

func NewBoardService(boards BoardStore, policy *Policy, mirror CollaboratorMirror, log *slog.Logger) *BoardService {
	return &BoardService{boards: boards, policy: policy, mirror: mirror, log: log}
}

// Create stores a board owned by ownerID together with its default statuses.
func (s *BoardService) Create(ctx context.Context, ownerID, name, visibility string) (model.Board, []model.Status, error) {
	input := boardInput{
		Name:       strings.TrimSpace(name),
		Visibility: strings.ToUpper(strings.TrimSpace(visibility)),
	}
	if fields := validateInput(input, boardMessages); len(fields) > 0 {
		return model.Board{}, nil, apperrors.InvalidFields(fields...)
	}
	vis, _ := model.ParseVisibility(input.Visibility)

	board := model.Board{BoardName: input.Name, OwnerID: ownerID, Visibility: vis}
	statuses, err := s.boards.CreateWithDefaults(ctx, &board)
	if err != nil {
		return model.Board{}, nil, err
	}
	s.log.Info("board created", "board_id", board.BoardID, "owner_id", ownerID)
	return board, statuses, nil
}

// Get returns a board the requester may view.
func (s *BoardService) Get(ctx context.Context, boardID, requesterID string) (model.Board, Capability, error) {
	board, capability, err := s.policy.Resolve(ctx, boardID, requesterID)
	if err != nil {
		return model.Board{}, Capability{}, err
	}
	if !capability.CanView() {
		return model.Board{}, Capability{}, apperrors.Unauthorized("you do not have access to this board")
	}
	return board, capability, nil
}

func (s *BoardService) ListForUser(ctx context.Context, userID string) ([]model.Board, error) {
	return s.boards.ListForUser(ctx, userID)
}

// Delete removes the board and everything on it. Only the owner may do this.
func (s *BoardService) Delete(ctx context.Context, boardID, requesterID string) error {
	_, capability, err := s.policy.Resolve(ctx, boardID, requesterID)
	if err != nil {
		return err
	}
	if !capability.IsOwner() {
		return apperrors.Unauthorized("only the board owner can delete the board")
	}
	if err := s.boards.Delete(ctx, boardID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("board not found")
		}
		return err
	}
	if err := s.mirror.DeleteBoard(ctx, boardID); err != nil {
		s.log.Warn("mirror board delete failed", "board_id", boardID, "error", err)
	}
	s.log.Info("board deleted", "board_id", boardID)
	return nil
}
