package models

import (
	"time"
)

// JoinRequest status values. pending is the initial state; accepted and
// rejected are terminal.
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusRejected = "rejected"
)

// JoinRequest is a requester's bid to join a project, resolved exactly once
// by the project creator.
//
// There is deliberately no unique index on (project_id, requester_id): the
// policy is one pending request per pair at a time, enforced transactionally
// at creation, so a requester may ask again after a rejection or a
// cancellation.
type JoinRequest struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ProjectID       uint      `gorm:"index;not null" json:"project_id"`
	Project         *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	RequesterID     uint      `gorm:"index;not null" json:"requester_id"`
	Requester       *User     `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Status          string    `gorm:"size:20;default:pending;index" json:"status"` // pending, accepted, rejected
	Message         string    `gorm:"size:500" json:"message"`
	ResponseMessage string    `gorm:"size:500" json:"response_message"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (JoinRequest) TableName() string { return "join_requests" }

// IsPending reports whether the request can still be resolved or cancelled.
func (r *JoinRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}
