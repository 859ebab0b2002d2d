package model

import "time"

// User is an entry of the shared identity directory. Email is stored
// lower-cased so lookups by address are case-insensitive.
type User struct {
	UserID    string    `gorm:"column:user_id;type:varchar(36);primaryKey" json:"oid"`
	Name      string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(254);not null;uniqueIndex:uq_user_email" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_on"`
}

func (User) TableName() string {
	return "user"
}
