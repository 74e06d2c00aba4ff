package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/pkg/response"
)

type RequestHandler struct {
	requestService *services.RequestService
}

func NewRequestHandler(db *gorm.DB, queue services.TaskQueue) *RequestHandler {
	return &RequestHandler{
		requestService: services.NewRequestService(db, queue),
	}
}

// Join files a pending join request for a project
// POST /api/v1/need/join/:projectId
func (h *RequestHandler) Join(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	// The body is optional; a bare POST files a request with no message.
	// EOF means no body at all, which includes chunked requests where
	// ContentLength is unknown.
	var body struct {
		Message string `json:"message" binding:"max=500"`
	}
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(c, "Message cannot exceed 500 characters")
			return
		}
	}

	request, err := h.requestService.Create(projectID, middleware.GetUserID(c), body.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Join request sent successfully", gin.H{"request": request})
}

// Resolve accepts or rejects a pending join request
// PUT /api/v1/need/request/:requestId
func (h *RequestHandler) Resolve(c *gin.Context) {
	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		return
	}

	var in services.ResolveRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "Invalid action")
		return
	}

	request, err := h.requestService.Resolve(requestID, middleware.GetUserID(c), &in)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, fmt.Sprintf("Request %sed successfully", in.Action), gin.H{"request": request})
}

// Cancel deletes the caller's own pending request
// DELETE /api/v1/request/:requestId
func (h *RequestHandler) Cancel(c *gin.Context) {
	requestID, ok := parseIDParam(c, "requestId")
	if !ok {
		return
	}

	if err := h.requestService.Cancel(requestID, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Request cancelled successfully", nil)
}

// ProjectRequests lists all requests on a project the caller created
// GET /api/v1/request/project/:projectId
func (h *RequestHandler) ProjectRequests(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	requests, err := h.requestService.ProjectRequests(projectID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Project requests fetched successfully", gin.H{"requests": requests})
}

// MyRequests lists the caller's own requests
// GET /api/v1/request/my-requests
func (h *RequestHandler) MyRequests(c *gin.Context) {
	requests, err := h.requestService.MyRequests(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Your requests fetched successfully", gin.H{"requests": requests})
}

// Status returns the caller's latest request status for a project, null when
// none exists
// GET /api/v1/request/status/:projectId
func (h *RequestHandler) Status(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}

	status, err := h.requestService.PairStatus(projectID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Request status fetched successfully", gin.H{"status": status})
}

// parseIDParam reads a positive numeric path parameter; on failure it writes
// the 400 response and returns ok=false.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return uint(id), true
}
