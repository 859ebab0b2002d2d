package repository

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskboard/model"
)

const boardIDLength = 10

var boardIDEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// NewBoardID returns a short lowercase code derived from a random UUID.
func NewBoardID() (string, error) {
	id, err := uuid.NewRandomFromReader(rand.Reader)
	if err != nil {
		return "", err
	}
	return strings.ToLower(boardIDEncoding.EncodeToString(id[:]))[:boardIDLength], nil
}

// CreateWithDefaults inserts the board and seeds its default statuses in one
// transaction. A colliding id is retried with a fresh code.
func (r *BoardRepository) CreateWithDefaults(ctx context.Context, board *model.Board) ([]model.Status, error) {
	var statuses []model.Status
	const attempts = 3
	var err error
	for i := 0; i < attempts; i++ {
		if board.BoardID == "" || i > 0 {
			if board.BoardID, err = NewBoardID(); err != nil {
				return nil, err
			}
		}
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(board).Error; err != nil {
				return err
			}
			seeded, err := SeedDefaults(tx, board.BoardID)
			if err != nil {
				return err
			}
			statuses = seeded
			return nil
		})
		if err = translate(err); !errors.Is(err, ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (r *BoardRepository) Get(ctx context.Context, boardID string) (model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).First(&board).Error
	return board, translate(err)
}

func (r *BoardRepository) Exists(ctx context.Context, boardID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Board{}).Where("board_id = ?", boardID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListForUser returns boards the user owns or collaborates on (non-pending).
func (r *BoardRepository) ListForUser(ctx context.Context, userID string) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Or("board_id IN (?)", r.db.Model(&model.Collaborator{}).
			Select("board_id").
			Where("user_id = ? AND access_right <> ?", userID, model.AccessPending)).
		Order("created_at ASC").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

// Delete removes the board with its tasks, statuses, grants and collaborators.
func (r *BoardRepository) Delete(ctx context.Context, boardID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", boardID).Delete(&model.Tasks{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&model.Status{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&model.PendingGrant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", boardID).Delete(&model.Collaborator{}).Error; err != nil {
			return err
		}
		result := tx.Where("board_id = ?", boardID).Delete(&model.Board{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SeedDefaults inserts the default statuses of a new board. It runs inside the
// board creation transaction and must be called once per board.
func SeedDefaults(tx *gorm.DB, boardID string) ([]model.Status, error) {
	now := time.Now()
	statuses := make([]model.Status, 0, len(model.DefaultStatuses))
	for i, def := range model.DefaultStatuses {
		desc := def.Description
		statuses = append(statuses, model.Status{
			BoardID:     boardID,
			Name:        def.Name,
			NameKey:     model.StatusNameKey(def.Name),
			Description: &desc,
			Protected:   def.Protected,
			Position:    i,
			CreatedAt:   now,
		})
	}
	if err := tx.Create(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}
