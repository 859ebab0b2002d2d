package model

import (
	"strings"
	"time"
)

// Visibility controls whether non-members may read a board.
type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

// ParseVisibility accepts PRIVATE/PUBLIC in any case; blank means PRIVATE.
func ParseVisibility(s string) (Visibility, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(VisibilityPrivate):
		return VisibilityPrivate, true
	case string(VisibilityPublic):
		return VisibilityPublic, true
	default:
		return "", false
	}
}

type Board struct {
	BoardID    string     `gorm:"column:board_id;type:varchar(10);primaryKey"`
	BoardName  string     `gorm:"column:board_name;type:varchar(120);not null"`
	OwnerID    string     `gorm:"column:owner_id;type:varchar(36);not null;index:idx_board_owner"`
	Visibility Visibility `gorm:"column:visibility;type:varchar(10);not null;default:'PRIVATE'"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`

	// Relations. The foreign keys live on the child tables; the slices are
	// never loaded.
	Owner         User           `gorm:"foreignKey:OwnerID;references:UserID;constraint:OnUpdate:CASCADE"`
	Statuses      []Status       `gorm:"foreignKey:BoardID;references:BoardID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	Tasks         []Tasks        `gorm:"foreignKey:BoardID;references:BoardID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	Collaborators []Collaborator `gorm:"foreignKey:BoardID;references:BoardID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
	PendingGrants []PendingGrant `gorm:"foreignKey:BoardID;references:BoardID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE"`
}

func (Board) TableName() string {
	return "board"
}

// IsPublic reports whether the board is readable by anyone.
func (b Board) IsPublic() bool {
	return b.Visibility == VisibilityPublic
}
