package models

import (
	"time"

	"gorm.io/gorm"
)

// Project status values.
const (
	ProjectStatusOpen   = "open"
	ProjectStatusClosed = "closed"
)

// Project capacity bounds.
const (
	DefaultMaxMembers = 5
	MemberLimit       = 10
	SkillLimit        = 10
)

// Project is a collaboration opportunity with required skills and a capped
// member roster.
type Project struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Title          string          `gorm:"uniqueIndex;size:100;not null" json:"title"`
	Description    string          `gorm:"size:1000;not null" json:"description"`
	RequiredSkills string          `gorm:"size:1000;not null" json:"required_skills"` // comma-separated skill tags
	Status         string          `gorm:"size:20;default:open" json:"status"`        // open, closed
	CreatedBy      uint            `gorm:"index;not null" json:"created_by"`
	Creator        *User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	MaxMembers     int             `gorm:"default:5" json:"max_members"`
	Members        []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }

// SkillList returns the required skills as a cleaned slice.
func (p *Project) SkillList() []string {
	return SplitTags(p.RequiredSkills)
}

// IsFull reports whether the roster has reached capacity, given the current
// member count. Derived on read, never stored.
func (p *Project) IsFull(memberCount int) bool {
	return memberCount >= p.MaxMembers
}
