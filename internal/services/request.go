package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/logger"
	"github.com/collabhub/backend/pkg/response"
)

// Resolution actions.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

const maxMessageLen = 500

// RequestService owns the join-request lifecycle: creation guards, the
// pending -> accepted/rejected transition, and the membership mutation on
// acceptance.
type RequestService struct {
	db    *gorm.DB
	queue TaskQueue
}

func NewRequestService(db *gorm.DB, queue TaskQueue) *RequestService {
	return &RequestService{db: db, queue: queue}
}

type ResolveRequestInput struct {
	Action          string `json:"action" binding:"required,oneof=accept reject"`
	ResponseMessage string `json:"response_message" binding:"max=500"`
}

// Create files a pending join request. All guards run inside one
// transaction, in order, first failure wins:
// project exists, not full, not the creator, project open, not already a
// member, no pending request for the pair.
//
// The project row is read FOR UPDATE so concurrent creations and
// acceptances against the same project serialize on mysql/postgres; the
// sqlite driver drops the locking clause and relies on its single writer.
func (s *RequestService) Create(projectID, requesterID uint, message string) (*RequestView, error) {
	if len(message) > maxMessageLen {
		return nil, response.NewBadRequest("Message cannot exceed 500 characters")
	}

	var request models.JoinRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("Project not found")
			}
			return err
		}

		count, err := memberCount(tx, project.ID)
		if err != nil {
			return err
		}
		if project.IsFull(count) {
			return response.NewBadRequest("Project has reached maximum member limit")
		}

		if project.CreatedBy == requesterID {
			return response.NewBadRequest("You cannot join your own project")
		}

		if project.Status != models.ProjectStatusOpen {
			return response.NewBadRequest("Project is not accepting new members")
		}

		var membership int64
		if err := tx.Model(&models.ProjectMember{}).
			Where("project_id = ? AND user_id = ?", project.ID, requesterID).
			Count(&membership).Error; err != nil {
			return err
		}
		if membership > 0 {
			return response.NewBadRequest("You are already a member of this project")
		}

		var pending int64
		if err := tx.Model(&models.JoinRequest{}).
			Where("project_id = ? AND requester_id = ? AND status = ?",
				project.ID, requesterID, models.RequestStatusPending).
			Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return response.NewConflict("You have already requested to join this project")
		}

		request = models.JoinRequest{
			ProjectID:   project.ID,
			RequesterID: requesterID,
			Status:      models.RequestStatusPending,
			Message:     message,
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Project").Preload("Project.Creator").Preload("Requester").
		First(&request, request.ID).Error; err != nil {
		return nil, err
	}

	if request.Project != nil && request.Requester != nil {
		s.notify(&NotifyTask{
			UserID:    request.Project.CreatedBy,
			Kind:      models.NotifyRequestReceived,
			Title:     "New join request",
			Body:      fmt.Sprintf("%s requested to join %q", request.Requester.FullName, request.Project.Title),
			ProjectID: &request.ProjectID,
			RequestID: &request.ID,
		})
	}

	return toRequestView(&request), nil
}

// Resolve performs the single pending -> accepted/rejected transition. Only
// the project creator may resolve, and only once per request. On accept the
// project row is locked FOR UPDATE and the capacity re-checked inside the
// same transaction that inserts the membership row, so two racing
// acceptances of the last slot cannot both commit; the membership write
// precedes the status write.
func (s *RequestService) Resolve(requestID, actorID uint, in *ResolveRequestInput) (*RequestView, error) {
	if in.Action != ActionAccept && in.Action != ActionReject {
		return nil, response.NewBadRequest("Invalid action")
	}
	if len(in.ResponseMessage) > maxMessageLen {
		return nil, response.NewBadRequest("Response message cannot exceed 500 characters")
	}

	var request models.JoinRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("Request not found")
			}
			return err
		}

		var project models.Project
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&project, request.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("Request not found")
			}
			return err
		}

		if project.CreatedBy != actorID {
			return response.NewForbidden("Only project creator can handle join requests")
		}

		if !request.IsPending() {
			return response.NewBadRequest("This request has already been handled")
		}

		if in.Action == ActionAccept {
			count, err := memberCount(tx, project.ID)
			if err != nil {
				return err
			}
			if project.IsFull(count) {
				return response.NewBadRequest("Project has reached maximum member limit")
			}

			// Find-or-create keeps the roster a set: a replayed insert is a
			// no-op, never a duplicate row.
			member := models.ProjectMember{
				ProjectID: request.ProjectID,
				UserID:    request.RequesterID,
				Role:      models.MemberRoleMember,
			}
			if err := tx.Where("project_id = ? AND user_id = ?", request.ProjectID, request.RequesterID).
				FirstOrCreate(&member).Error; err != nil {
				return err
			}
			request.Status = models.RequestStatusAccepted
		} else {
			request.Status = models.RequestStatusRejected
		}

		request.ResponseMessage = in.ResponseMessage
		return tx.Model(&models.JoinRequest{}).
			Where("id = ?", request.ID).
			Updates(map[string]interface{}{
				"status":           request.Status,
				"response_message": request.ResponseMessage,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Project").Preload("Project.Creator").Preload("Requester").
		First(&request, request.ID).Error; err != nil {
		return nil, err
	}

	kind := models.NotifyRequestAccepted
	verb := "accepted"
	if request.Status == models.RequestStatusRejected {
		kind = models.NotifyRequestRejected
		verb = "rejected"
	}
	if request.Project != nil {
		s.notify(&NotifyTask{
			UserID:    request.RequesterID,
			Kind:      kind,
			Title:     fmt.Sprintf("Join request %s", verb),
			Body:      fmt.Sprintf("Your request to join %q was %s", request.Project.Title, verb),
			ProjectID: &request.ProjectID,
			RequestID: &request.ID,
		})
	}

	return toRequestView(&request), nil
}

// Cancel deletes the caller's own still-pending request. Anything else —
// wrong owner, already resolved, unknown id — surfaces as the same
// undiscriminated not-found.
func (s *RequestService) Cancel(requestID, requesterID uint) error {
	result := s.db.Where("id = ? AND requester_id = ? AND status = ?",
		requestID, requesterID, models.RequestStatusPending).
		Delete(&models.JoinRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("Request not found or cannot be cancelled")
	}
	return nil
}

// ProjectRequests returns all requests on a project, any status, for the
// project creator only.
func (s *RequestService) ProjectRequests(projectID, actorID uint) ([]*RequestView, error) {
	var project models.Project
	if err := s.db.Where("id = ? AND created_by = ?", projectID, actorID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Project not found or you are not authorized")
		}
		return nil, err
	}

	var requests []models.JoinRequest
	if err := s.db.Preload("Requester").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	views := make([]*RequestView, 0, len(requests))
	for i := range requests {
		views = append(views, toRequestView(&requests[i]))
	}
	return views, nil
}

// MyRequests returns the caller's own requests, any status, joined with
// project and creator summaries.
func (s *RequestService) MyRequests(requesterID uint) ([]*RequestView, error) {
	var requests []models.JoinRequest
	if err := s.db.Preload("Project").Preload("Project.Creator").
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	views := make([]*RequestView, 0, len(requests))
	for i := range requests {
		views = append(views, toRequestView(&requests[i]))
	}
	return views, nil
}

// PairStatus returns the status of the most recent request the user filed
// for the project, or nil when none exists. Absence is not an error.
func (s *RequestService) PairStatus(projectID, requesterID uint) (*string, error) {
	var request models.JoinRequest
	err := s.db.Where("project_id = ? AND requester_id = ?", projectID, requesterID).
		Order("created_at DESC, id DESC").
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request.Status, nil
}

func memberCount(tx *gorm.DB, projectID uint) (int, error) {
	var count int64
	err := tx.Model(&models.ProjectMember{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return int(count), err
}

// notify enqueues a notification; delivery failures never fail the
// lifecycle operation.
func (s *RequestService) notify(task *NotifyTask) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).Uint("user_id", task.UserID).Str("kind", task.Kind).
			Msg("failed to enqueue notification")
	}
}
