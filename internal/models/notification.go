package models

import (
	"time"
)

// Notification kinds.
const (
	NotifyRequestReceived = "request_received"
	NotifyRequestAccepted = "request_accepted"
	NotifyRequestRejected = "request_rejected"
)

// Notification is an in-app message produced by the join-request lifecycle.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Kind      string    `gorm:"size:50;not null" json:"kind"`
	Title     string    `gorm:"size:200" json:"title"`
	Body      string    `gorm:"size:1000" json:"body"`
	ProjectID *uint     `json:"project_id"`
	RequestID *uint     `json:"request_id"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
