package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/pkg/response"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
	}
}

// Create registers a new project with the caller as creator
// POST /api/v1/need
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Title, description and required skills are mandatory")
		return
	}

	project, err := h.projectService.Create(&req, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Project created successfully", gin.H{"project": project})
}

// List returns all projects, optionally filtered by status and skills
// GET /api/v1/need?status=&skills=
func (h *ProjectHandler) List(c *gin.Context) {
	var req services.ProjectListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	projects, err := h.projectService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Projects fetched successfully", gin.H{"projects": projects})
}

// MyProjects returns the projects created by the caller
// GET /api/v1/need/my-projects
func (h *ProjectHandler) MyProjects(c *gin.Context) {
	user, projects, err := h.projectService.MyProjects(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Your projects fetched successfully", gin.H{
		"user":     user,
		"projects": projects,
	})
}

// JoinedProjects returns projects the caller joined but did not create
// GET /api/v1/need/joined-projects
func (h *ProjectHandler) JoinedProjects(c *gin.Context) {
	projects, err := h.projectService.JoinedProjects(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Joined projects fetched successfully", gin.H{"projects": projects})
}

// Matching returns open projects overlapping the caller's skills
// GET /api/v1/need/matching
func (h *ProjectHandler) Matching(c *gin.Context) {
	projects, err := h.projectService.Matching(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Matching projects fetched successfully", gin.H{"projects": projects})
}
