package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FullName   string         `gorm:"size:100;not null" json:"fullname"`
	Email      string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password   string         `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role       string         `gorm:"size:50;default:user" json:"role"` // admin, user
	Skills     string         `gorm:"size:1000" json:"skills"`          // comma-separated skill tags
	Bio        string         `gorm:"size:1000" json:"bio"`
	ProfilePic string         `gorm:"size:500" json:"profile_pic"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// SkillList returns the user's skills as a cleaned slice.
func (u *User) SkillList() []string {
	return SplitTags(u.Skills)
}
