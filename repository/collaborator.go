package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"taskboard/model"
)

type CollaboratorRepository struct {
	db *gorm.DB
}

func NewCollaboratorRepository(db *gorm.DB) *CollaboratorRepository {
	return &CollaboratorRepository{db: db}
}

func (r *CollaboratorRepository) Get(ctx context.Context, boardID, userID string) (model.Collaborator, error) {
	var collab model.Collaborator
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&collab).Error
	return collab, translate(err)
}

// List returns the board's collaborators ordered by the time they were added.
func (r *CollaboratorRepository) List(ctx context.Context, boardID string) ([]model.Collaborator, error) {
	var collabs []model.Collaborator
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("added_on ASC, user_id ASC").
		Find(&collabs).Error
	if err != nil {
		return nil, err
	}
	return collabs, nil
}

// ListPendingForUser returns the unanswered invitations addressed to userID.
func (r *CollaboratorRepository) ListPendingForUser(ctx context.Context, userID string) ([]model.Collaborator, error) {
	var collabs []model.Collaborator
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND access_right = ?", userID, model.AccessPending).
		Order("added_on ASC").
		Find(&collabs).Error
	if err != nil {
		return nil, err
	}
	return collabs, nil
}

func (r *CollaboratorRepository) GetGrant(ctx context.Context, boardID, userID string) (model.PendingGrant, error) {
	var grant model.PendingGrant
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&grant).Error
	return grant, translate(err)
}

func (r *CollaboratorRepository) ListGrants(ctx context.Context, boardID string) ([]model.PendingGrant, error) {
	var grants []model.PendingGrant
	if err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

// CreateInvitation writes the PENDING collaborator row and its grant in one
// transaction. An existing row for the pair yields ErrDuplicate.
func (r *CollaboratorRepository) CreateInvitation(ctx context.Context, collab *model.Collaborator, grant *model.PendingGrant) error {
	collab.AccessRight = model.AccessPending
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(collab).Error; err != nil {
			return err
		}
		return tx.Create(grant).Error
	})
	return translate(err)
}

// AcceptInvitation applies the pending grant to the row and removes the grant.
func (r *CollaboratorRepository) AcceptInvitation(ctx context.Context, boardID, userID string) (model.Collaborator, error) {
	var collab model.Collaborator
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		grant, err := consumeGrant(tx, boardID, userID)
		if err != nil {
			return err
		}
		result := tx.Model(&model.Collaborator{}).
			Where("board_id = ? AND user_id = ? AND access_right = ?", boardID, userID, model.AccessPending).
			Update("access_right", grant.AccessRight)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotPending
		}
		return tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&collab).Error
	})
	if err != nil {
		return model.Collaborator{}, translate(err)
	}
	return collab, nil
}

// DeclineInvitation removes both the PENDING row and its grant.
func (r *CollaboratorRepository) DeclineInvitation(ctx context.Context, boardID, userID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := consumeGrant(tx, boardID, userID); err != nil {
			return err
		}
		result := tx.Where("board_id = ? AND user_id = ? AND access_right = ?", boardID, userID, model.AccessPending).
			Delete(&model.Collaborator{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotPending
		}
		return nil
	})
	return translate(err)
}

// UpdateAccessRight changes the right of an answered invitation. PENDING rows
// are left untouched and reported as ErrStillPending.
func (r *CollaboratorRepository) UpdateAccessRight(ctx context.Context, boardID, userID string, right model.AccessRight) (model.Collaborator, error) {
	var collab model.Collaborator
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&collab).Error; err != nil {
			return err
		}
		if collab.IsPending() {
			return ErrStillPending
		}
		if err := tx.Model(&collab).Update("access_right", right).Error; err != nil {
			return err
		}
		collab.AccessRight = right
		return nil
	})
	if err != nil {
		return model.Collaborator{}, translate(err)
	}
	return collab, nil
}

// Delete removes the collaborator row together with any pending grant.
func (r *CollaboratorRepository) Delete(ctx context.Context, boardID, userID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).Delete(&model.PendingGrant{}).Error; err != nil {
			return err
		}
		result := tx.Where("board_id = ? AND user_id = ?", boardID, userID).Delete(&model.Collaborator{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}

// OrphanGrants returns grants whose collaborator row is missing or no longer
// PENDING.
func (r *CollaboratorRepository) OrphanGrants(ctx context.Context) ([]model.PendingGrant, error) {
	var grants []model.PendingGrant
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (?)", r.db.Model(&model.Collaborator{}).
			Select("1").
			Where("collaborator.board_id = pending_grant.board_id AND collaborator.user_id = pending_grant.user_id AND collaborator.access_right = ?", model.AccessPending)).
		Find(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

// UngrantedPending returns PENDING rows that have no grant.
func (r *CollaboratorRepository) UngrantedPending(ctx context.Context) ([]model.Collaborator, error) {
	var collabs []model.Collaborator
	err := r.db.WithContext(ctx).
		Where("access_right = ?", model.AccessPending).
		Where("NOT EXISTS (?)", r.db.Model(&model.PendingGrant{}).
			Select("1").
			Where("pending_grant.board_id = collaborator.board_id AND pending_grant.user_id = collaborator.user_id")).
		Find(&collabs).Error
	if err != nil {
		return nil, err
	}
	return collabs, nil
}

// DeleteOrphanGrant removes a grant only while it is still orphaned.
func (r *CollaboratorRepository) DeleteOrphanGrant(ctx context.Context, boardID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Where("NOT EXISTS (?)", r.db.Model(&model.Collaborator{}).
			Select("1").
			Where("collaborator.board_id = ? AND collaborator.user_id = ? AND collaborator.access_right = ?", boardID, userID, model.AccessPending)).
		Delete(&model.PendingGrant{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func consumeGrant(tx *gorm.DB, boardID, userID string) (model.PendingGrant, error) {
	var grant model.PendingGrant
	if err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.PendingGrant{}, ErrGrantMissing
		}
		return model.PendingGrant{}, err
	}
	result := tx.Where("board_id = ? AND user_id = ?", boardID, userID).Delete(&model.PendingGrant{})
	if result.Error != nil {
		return model.PendingGrant{}, result.Error
	}
	if result.RowsAffected == 0 {
		return model.PendingGrant{}, ErrGrantMissing
	}
	return grant, nil
}
