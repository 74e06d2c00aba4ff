package services

import (
	"net/http"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/collabhub/backend/internal/models"
)

// captureQueue records enqueued tasks synchronously for assertions.
type captureQueue struct {
	tasks []*NotifyTask
}

func (q *captureQueue) Enqueue(task *NotifyTask) error { q.tasks = append(q.tasks, task); return nil }
func (q *captureQueue) IsAsync() bool                  { return false }
func (q *captureQueue) Close() error                   { return nil }

type requestFixture struct {
	db      *gorm.DB
	svc     *RequestService
	queue   *captureQueue
	creator *models.User
	bob     *models.User
	project *models.Project
}

func newRequestFixture(t *testing.T, maxMembers int) *requestFixture {
	t.Helper()

	db := newTestDB(t)
	creator := createTestUser(t, db, "creator@example.com", []string{"go"})
	bob := createTestUser(t, db, "bob@example.com", []string{"go"})
	project := createTestProject(t, db, creator, "Fixture Project", maxMembers)
	queue := &captureQueue{}

	return &requestFixture{
		db:      db,
		svc:     NewRequestService(db, queue),
		queue:   queue,
		creator: creator,
		bob:     bob,
		project: project,
	}
}

func TestRequestService_Create(t *testing.T) {
	f := newRequestFixture(t, 5)

	view, err := f.svc.Create(f.project.ID, f.bob.ID, "I would love to help")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if view.Status != models.RequestStatusPending {
		t.Errorf("Status = %q, expected %q", view.Status, models.RequestStatusPending)
	}
	if view.Message != "I would love to help" {
		t.Errorf("Message = %q", view.Message)
	}
	if view.Project == nil || view.Project.ID != f.project.ID {
		t.Error("request view missing project summary")
	}
	if view.Requester == nil || view.Requester.ID != f.bob.ID {
		t.Error("request view missing requester summary")
	}

	// The creator is notified
	if len(f.queue.tasks) != 1 {
		t.Fatalf("expected 1 notification task, got %d", len(f.queue.tasks))
	}
	task := f.queue.tasks[0]
	if task.UserID != f.creator.ID {
		t.Errorf("notification target = %d, expected creator %d", task.UserID, f.creator.ID)
	}
	if task.Kind != models.NotifyRequestReceived {
		t.Errorf("notification kind = %q, expected %q", task.Kind, models.NotifyRequestReceived)
	}
}

func TestRequestService_Create_ProjectNotFound(t *testing.T) {
	f := newRequestFixture(t, 5)

	_, err := f.svc.Create(9999, f.bob.ID, "")
	wantAppError(t, err, http.StatusNotFound, "Project not found")
}

func TestRequestService_Create_SelfJoin(t *testing.T) {
	f := newRequestFixture(t, 5)

	_, err := f.svc.Create(f.project.ID, f.creator.ID, "")
	wantAppError(t, err, http.StatusBadRequest, "You cannot join your own project")
}

func TestRequestService_Create_ClosedProject(t *testing.T) {
	f := newRequestFixture(t, 5)
	f.db.Model(f.project).Update("status", models.ProjectStatusClosed)

	_, err := f.svc.Create(f.project.ID, f.bob.ID, "")
	wantAppError(t, err, http.StatusBadRequest, "Project is not accepting new members")
}

func TestRequestService_Create_AlreadyMember(t *testing.T) {
	f := newRequestFixture(t, 5)
	if err := f.db.Create(&models.ProjectMember{
		ProjectID: f.project.ID,
		UserID:    f.bob.ID,
		Role:      models.MemberRoleMember,
	}).Error; err != nil {
		t.Fatalf("failed to add member: %v", err)
	}

	_, err := f.svc.Create(f.project.ID, f.bob.ID, "")
	wantAppError(t, err, http.StatusBadRequest, "You are already a member of this project")
}

func TestRequestService_Create_DuplicatePending(t *testing.T) {
	f := newRequestFixture(t, 5)

	if _, err := f.svc.Create(f.project.ID, f.bob.ID, ""); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	_, err := f.svc.Create(f.project.ID, f.bob.ID, "")
	wantAppError(t, err, http.StatusBadRequest, "You have already requested to join this project")
}

func TestRequestService_Create_FullProject(t *testing.T) {
	// maxMembers=1 means the creator already fills the project.
	f := newRequestFixture(t, 1)

	_, err := f.svc.Create(f.project.ID, f.bob.ID, "")
	wantAppError(t, err, http.StatusBadRequest, "Project has reached maximum member limit")
}

func TestRequestService_Create_CapacityCheckedBeforeSelfJoin(t *testing.T) {
	// Guard order: a full project reports capacity even to its own creator.
	f := newRequestFixture(t, 1)

	_, err := f.svc.Create(f.project.ID, f.creator.ID, "")
	wantAppError(t, err, http.StatusBadRequest, "Project has reached maximum member limit")
}

func TestRequestService_Resolve_Accept(t *testing.T) {
	f := newRequestFixture(t, 5)
	view, err := f.svc.Create(f.project.ID, f.bob.ID, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	f.queue.tasks = nil

	resolved, err := f.svc.Resolve(view.ID, f.creator.ID, &ResolveRequestInput{
		Action:          ActionAccept,
		ResponseMessage: "Welcome aboard",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Status != models.RequestStatusAccepted {
		t.Errorf("Status = %q, expected %q", resolved.Status, models.RequestStatusAccepted)
	}
	if resolved.ResponseMessage != "Welcome aboard" {
		t.Errorf("ResponseMessage = %q", resolved.ResponseMessage)
	}

	var count int64
	f.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", f.project.ID, f.bob.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one membership row, got %d", count)
	}

	// The requester is notified
	if len(f.queue.tasks) != 1 {
		t.Fatalf("expected 1 notification task, got %d", len(f.queue.tasks))
	}
	if f.queue.tasks[0].UserID != f.bob.ID {
		t.Errorf("notification target = %d, expected requester %d", f.queue.tasks[0].UserID, f.bob.ID)
	}
	if f.queue.tasks[0].Kind != models.NotifyRequestAccepted {
		t.Errorf("notification kind = %q", f.queue.tasks[0].Kind)
	}
}

func TestRequestService_Resolve_Reject(t *testing.T) {
	f := newRequestFixture(t, 5)
	view, _ := f.svc.Create(f.project.ID, f.bob.ID, "")

	resolved, err := f.svc.Resolve(view.ID, f.creator.ID, &ResolveRequestInput{
		Action:          ActionReject,
		ResponseMessage: "Team is set, sorry",
	})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved.Status != models.RequestStatusRejected {
		t.Errorf("Status = %q, expected %q", resolved.Status, models.RequestStatusRejected)
	}

	// Rejection never touches the roster
	var count int64
	f.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", f.project.ID, f.bob.ID).
		Count(&count)
	if count != 0 {
		t.Errorf("reject should not add membership, got %d rows", count)
	}
}

func TestRequestService_Resolve_NotFound(t *testing.T) {
	f := newRequestFixture(t, 5)

	_, err := f.svc.Resolve(9999, f.creator.ID, &ResolveRequestInput{Action: ActionAccept})
	wantAppError(t, err, http.StatusNotFound, "Request not found")
}

func TestRequestService_Resolve_NotCreator(t *testing.T) {
	f := newRequestFixture(t, 5)
	view, _ := f.svc.Create(f.project.ID, f.bob.ID, "")

	_, err := f.svc.Resolve(view.ID, f.bob.ID, &ResolveRequestInput{Action: ActionAccept})
	wantAppError(t, err, http.StatusForbidden, "Only project creator can handle join requests")
}

func TestRequestService_Resolve_ExactlyOnce(t *testing.T) {
	f := newRequestFixture(t, 5)
	view, _ := f.svc.Create(f.project.ID, f.bob.ID, "")

	if _, err := f.svc.Resolve(view.ID, f.creator.ID, &ResolveRequestInput{Action: ActionReject}); err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}

	_, err := f.svc.Resolve(view.ID, f.creator.ID, &ResolveRequestInput{Action: ActionAccept})
	wantAppError(t, err, http.StatusBadRequest, "This request has already been handled")

	// Status stays at the first resolution
	var request models.JoinRequest
	f.db.First(&request, view.ID)
	if request.Status != models.RequestStatusRejected {
		t.Errorf("Status = %q, expected to stay %q", request.Status, models.RequestStatusRejected)
	}
}

func TestRequestService_Resolve_InvalidAction(t *testing.T) {
	f := newRequestFixture(t, 5)
	view, _ := f.svc.Create(f.project.ID, f.bob.ID, "")

	_, err := f.svc.Resolve(view.ID, f.creator.ID, &ResolveRequestInput{Action: "approve"})
	wantAppError(t, err, http.StatusBadRequest, "Invalid action")
}

func TestRequestService_Resolve_CapacityRecheck(t *testing.T) {
	// maxMembers=2: creator + one slot. Two pending requests, both accepted in
	// turn; the second acceptance must fail the capacity re-check.
	f := newRequestFixture(t, 2)
	carol := createTestUser(t, f.db, "carol@example.com", []string{"go"})

	bobReq, err := f.svc.Create(f.project.ID, f.bob.ID, "")
	if err != nil {
		t.Fatalf("Create(bob) error = %v", err)
	}
	carolReq, err := f.svc.Create(f.project.ID, carol.ID, "")
	if err != nil {
		t.Fatalf("Create(carol) error = %v", err)
	}

	if _, err := f.svc.Resolve(bobReq.ID, f.creator.ID, &ResolveRequestInput{Action: ActionAccept}); err != nil {
		t.Fatalf("Resolve(bob) error = %v", err)
	}

	_, err = f.svc.Resolve(carolReq.ID, f.creator.ID, &ResolveRequestInput{Action: ActionAccept})
	wantAppError(t, err, http.StatusBadRequest, "Project has reached maximum member limit")

	// Carol's request is still pending and can be rejected
	var request models.JoinRequest
	f.db.First(&request, carolReq.ID)
	if request.Status != models.RequestStatusPending {
		t.Errorf("losing request status = %q, expected to stay pending", request.Status)
	}
	if _, err := f.svc.Resolve(carolReq.ID, f.creator.ID, &ResolveRequestInput{Action: ActionReject}); err != nil {
		t.Errorf("rejecting the losing request should work: %v", err)
	}
}

func TestRequestService_Resolve_RosterNeverExceedsLimit(t *testing.T) {
	// maxMembers=2: creator + one slot. Three pending requests, all accepted
	// in turn; the project row is locked for each acceptance, so exactly one
	// succeeds and the roster lands at the limit.
	f := newRequestFixture(t, 2)
	carol := createTestUser(t, f.db, "carol@example.com", []string{"go"})
	dave := createTestUser(t, f.db, "dave@example.com", []string{"go"})

	accepted := 0
	for _, userID := range []uint{f.bob.ID, carol.ID, dave.ID} {
		view, err := f.svc.Create(f.project.ID, userID, "")
		if err != nil {
			t.Fatalf("Create(%d) error = %v", userID, err)
		}
		if _, err := f.svc.Resolve(view.ID, f.creator.ID, &ResolveRequestInput{Action: ActionAccept}); err == nil {
			accepted++
		} else {
			wantAppError(t, err, http.StatusBadRequest, "Project has reached maximum member limit")
		}
	}

	if accepted != 1 {
		t.Errorf("expected exactly 1 acceptance, got %d", accepted)
	}
	var count int64
	f.db.Model(&models.ProjectMember{}).Where("project_id = ?", f.project.ID).Count(&count)
	if count != 2 {
		t.Errorf("roster size = %d, expected the limit of 2", count)
	}
}

func TestRequestService_Cancel(t *testing.T) {
	f := newRequestFixture(t, 5)
	view, _ := f.svc.Create(f.project.ID, f.bob.ID, "")

	if err := f.svc.Cancel(view.ID, f.bob.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	var count int64
	f.db.Model(&models.JoinRequest{}).Where("id = ?", view.ID).Count(&count)
	if count != 0 {
		t.Error("cancelled request should be deleted")
	}
}

func TestRequestService_Cancel_NotOwnerOrResolved(t *testing.T) {
	f := newRequestFixture(t, 5)
	view, _ := f.svc.Create(f.project.ID, f.bob.ID, "")

	// Someone else cannot cancel
	err := f.svc.Cancel(view.ID, f.creator.ID)
	wantAppError(t, err, http.StatusNotFound, "Request not found or cannot be cancelled")

	// A resolved request cannot be cancelled either
	if _, err := f.svc.Resolve(view.ID, f.creator.ID, &ResolveRequestInput{Action: ActionReject}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	err = f.svc.Cancel(view.ID, f.bob.ID)
	wantAppError(t, err, http.StatusNotFound, "Request not found or cannot be cancelled")
}

func TestRequestService_ReRequestAfterRejection(t *testing.T) {
	f := newRequestFixture(t, 5)
	view, _ := f.svc.Create(f.project.ID, f.bob.ID, "")

	if _, err := f.svc.Resolve(view.ID, f.creator.ID, &ResolveRequestInput{Action: ActionReject}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// A new request is allowed once the previous one is no longer pending
	if _, err := f.svc.Create(f.project.ID, f.bob.ID, "second try"); err != nil {
		t.Fatalf("re-request after rejection should be allowed: %v", err)
	}
}

func TestRequestService_ProjectRequests(t *testing.T) {
	f := newRequestFixture(t, 5)
	f.svc.Create(f.project.ID, f.bob.ID, "")

	views, err := f.svc.ProjectRequests(f.project.ID, f.creator.ID)
	if err != nil {
		t.Fatalf("ProjectRequests() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("ProjectRequests() returned %d, expected 1", len(views))
	}
	if views[0].Requester == nil || views[0].Requester.ID != f.bob.ID {
		t.Error("request missing requester summary")
	}

	// Non-creator gets an undiscriminated not-found
	_, err = f.svc.ProjectRequests(f.project.ID, f.bob.ID)
	wantAppError(t, err, http.StatusNotFound, "Project not found or you are not authorized")
}

func TestRequestService_MyRequests(t *testing.T) {
	f := newRequestFixture(t, 5)
	f.svc.Create(f.project.ID, f.bob.ID, "")

	views, err := f.svc.MyRequests(f.bob.ID)
	if err != nil {
		t.Fatalf("MyRequests() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("MyRequests() returned %d, expected 1", len(views))
	}
	if views[0].Project == nil || views[0].Project.ID != f.project.ID {
		t.Error("request missing project summary")
	}

	other, err := f.svc.MyRequests(f.creator.ID)
	if err != nil {
		t.Fatalf("MyRequests(creator) error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("creator has no requests, got %d", len(other))
	}
}

func TestRequestService_PairStatus(t *testing.T) {
	f := newRequestFixture(t, 5)

	status, err := f.svc.PairStatus(f.project.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("PairStatus() error = %v", err)
	}
	if status != nil {
		t.Errorf("expected nil status when no request exists, got %q", *status)
	}

	view, _ := f.svc.Create(f.project.ID, f.bob.ID, "")
	status, err = f.svc.PairStatus(f.project.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("PairStatus() error = %v", err)
	}
	if status == nil || *status != models.RequestStatusPending {
		t.Errorf("expected pending status, got %v", status)
	}

	f.svc.Resolve(view.ID, f.creator.ID, &ResolveRequestInput{Action: ActionAccept})
	status, _ = f.svc.PairStatus(f.project.ID, f.bob.ID)
	if status == nil || *status != models.RequestStatusAccepted {
		t.Errorf("expected accepted status, got %v", status)
	}
}

func TestRequestService_PairStatus_LatestWinsOnEqualTimestamps(t *testing.T) {
	// A rejected request and a fresh re-request can carry the same
	// created_at when filed within the clock's resolution; the newer row
	// (higher id) must win.
	f := newRequestFixture(t, 5)

	first, _ := f.svc.Create(f.project.ID, f.bob.ID, "")
	if _, err := f.svc.Resolve(first.ID, f.creator.ID, &ResolveRequestInput{Action: ActionReject}); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := f.svc.Create(f.project.ID, f.bob.ID, "second try")
	if err != nil {
		t.Fatalf("re-request error = %v", err)
	}

	now := time.Now()
	for _, id := range []uint{first.ID, second.ID} {
		if err := f.db.Model(&models.JoinRequest{}).Where("id = ?", id).
			Update("created_at", now).Error; err != nil {
			t.Fatalf("failed to align timestamps: %v", err)
		}
	}

	status, err := f.svc.PairStatus(f.project.ID, f.bob.ID)
	if err != nil {
		t.Fatalf("PairStatus() error = %v", err)
	}
	if status == nil || *status != models.RequestStatusPending {
		t.Errorf("expected the newer pending request to win, got %v", status)
	}
}
