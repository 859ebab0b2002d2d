package model

import (
	"strings"
	"time"
)

// AccessRight is the right a collaborator holds on a board.
type AccessRight string

const (
	AccessRead    AccessRight = "READ"
	AccessWrite   AccessRight = "WRITE"
	AccessPending AccessRight = "PENDING"
)

// ParseGrantableRight parses READ or WRITE, case-insensitively. PENDING is
// never grantable.
func ParseGrantableRight(s string) (AccessRight, bool) {
	switch AccessRight(strings.ToUpper(strings.TrimSpace(s))) {
	case AccessRead:
		return AccessRead, true
	case AccessWrite:
		return AccessWrite, true
	default:
		return "", false
	}
}

// Collaborator is a non-owner participant of a board. A PENDING row always
// has a matching PendingGrant; both are written and removed together.
type Collaborator struct {
	BoardID     string      `gorm:"column:board_id;type:varchar(10);primaryKey"`
	UserID      string      `gorm:"column:user_id;type:varchar(36);primaryKey;index:idx_collaborator_user"`
	AccessRight AccessRight `gorm:"column:access_right;type:varchar(10);not null"`
	Name        string      `gorm:"column:name;type:varchar(100);not null"`
	Email       string      `gorm:"column:email;type:varchar(254);not null"`
	AddedOn     time.Time   `gorm:"column:added_on;not null"`
}

func (Collaborator) TableName() string {
	return "collaborator"
}

// IsPending reports whether the invitation is still unanswered.
func (c Collaborator) IsPending() bool {
	return c.AccessRight == AccessPending
}

// PendingGrant holds the right offered by an invitation until the invitee
// accepts or declines it.
type PendingGrant struct {
	BoardID     string      `gorm:"column:board_id;type:varchar(10);primaryKey"`
	UserID      string      `gorm:"column:user_id;type:varchar(36);primaryKey"`
	AccessRight AccessRight `gorm:"column:access_right;type:varchar(10);not null"`
	InvitedBy   string      `gorm:"column:invited_by;type:varchar(36);not null"`
	CreatedAt   time.Time   `gorm:"column:created_at;not null"`
}

func (PendingGrant) TableName() string {
	return "pending_grant"
}
