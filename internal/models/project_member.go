package models

import (
	"time"
)

// Membership roles within a project.
const (
	MemberRoleCreator = "creator"
	MemberRoleMember  = "member"
)

// ProjectMember is one row of a project's member roster. The unique index on
// (project_id, user_id) gives the roster set semantics: inserting an existing
// member is a conflict, never a second row.
type ProjectMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"project_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_project_user;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role      string    `gorm:"size:20;default:member" json:"role"` // creator, member
	CreatedAt time.Time `json:"created_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
