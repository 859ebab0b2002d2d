package model

import (
	"strings"
	"time"
)

// Names of the statuses seeded on every new board.
const (
	StatusNoStatus = "No Status"
	StatusToDo     = "To Do"
	StatusDoing    = "Doing"
	StatusDone     = "Done"
)

type Status struct {
	StatusID    int64     `gorm:"column:status_id;primaryKey;autoIncrement"`
	BoardID     string    `gorm:"column:board_id;type:varchar(10);not null;uniqueIndex:uq_status_board_name,priority:1"`
	Name        string    `gorm:"column:name;type:varchar(50);not null"`
	NameKey     string    `gorm:"column:name_key;type:varchar(50);not null;uniqueIndex:uq_status_board_name,priority:2"`
	Description *string   `gorm:"column:description;type:varchar(200)"`
	Protected   bool      `gorm:"column:protected;not null;default:false"`
	Position    int       `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	// Relations. Tasks keep their status until moved; deleting a referenced
	// status is refused.
	Tasks []Tasks `gorm:"foreignKey:StatusID;references:StatusID;constraint:OnUpdate:CASCADE"`
}

func (Status) TableName() string {
	return "status"
}

// StatusNameKey is the case-insensitive key used for uniqueness.
func StatusNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultStatus describes one of the seeded statuses.
type DefaultStatus struct {
	Name        string
	Description string
	Protected   bool
}

// DefaultStatuses lists the seeded statuses in board order.
var DefaultStatuses = []DefaultStatus{
	{Name: StatusNoStatus, Description: "A status has not been assigned", Protected: true},
	{Name: StatusToDo, Description: "The task is included in the project"},
	{Name: StatusDoing, Description: "The task is being worked on by the contributor"},
	{Name: StatusDone, Description: "The task has been completed", Protected: true},
}
