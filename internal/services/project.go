package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/pkg/response"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectRequest struct {
	Title          string `json:"title" binding:"required,min=3,max=100"`
	Description    string `json:"description" binding:"required,min=10,max=1000"`
	RequiredSkills string `json:"required_skills" binding:"required"` // comma-separated
	Status         string `json:"status" binding:"omitempty,oneof=open closed"`
	MaxMembers     int    `json:"max_members" binding:"omitempty,min=1,max=10"`
}

type ProjectListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=open closed"`
	Skills string `form:"skills"` // comma-separated, any-of match
}

// Create creates a project with the creator as the sole initial member.
func (s *ProjectService) Create(req *CreateProjectRequest, userID uint) (*ProjectView, error) {
	skills := models.SplitTags(req.RequiredSkills)
	if len(skills) == 0 || len(skills) > models.SkillLimit {
		return nil, response.NewBadRequest("Project must have between 1 and 10 required skills")
	}

	var count int64
	if err := s.db.Model(&models.Project{}).Where("title = ?", req.Title).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, response.NewConflict("Project with this title already exists")
	}

	status := req.Status
	if status == "" {
		status = models.ProjectStatusOpen
	}
	maxMembers := req.MaxMembers
	if maxMembers == 0 {
		maxMembers = models.DefaultMaxMembers
	}

	project := models.Project{
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: models.JoinTags(skills),
		Status:         status,
		CreatedBy:      userID,
		MaxMembers:     maxMembers,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return response.NewConflict("Project with this title already exists")
			}
			return err
		}
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    userID,
			Role:      models.MemberRoleCreator,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		return nil, err
	}

	return s.getView(project.ID)
}

// List returns projects newest-first, optionally filtered by status and by
// any-of required skills.
func (s *ProjectService) List(req *ProjectListRequest) ([]*ProjectView, error) {
	query := s.db.Preload("Creator").Preload("Members.User")
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}

	wanted := models.SplitTags(req.Skills)

	views := make([]*ProjectView, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		if len(wanted) > 0 && !models.TagsOverlap(wanted, p.SkillList()) {
			continue
		}
		views = append(views, toProjectView(p, true))
	}
	return views, nil
}

// MyProjects returns the caller's summary and the projects they created.
func (s *ProjectService) MyProjects(userID uint) (*UserBrief, []*ProjectView, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, response.NewNotFound("User not found")
		}
		return nil, nil, err
	}

	var projects []models.Project
	if err := s.db.Preload("Members.User").
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, nil, err
	}

	views := make([]*ProjectView, 0, len(projects))
	for i := range projects {
		views = append(views, toProjectView(&projects[i], false))
	}
	return toUserBrief(&user), views, nil
}

// JoinedProjects returns projects where the user is on the roster but is not
// the creator.
func (s *ProjectService) JoinedProjects(userID uint) ([]*ProjectView, error) {
	var projects []models.Project
	err := s.db.Preload("Creator").Preload("Members.User").
		Joins("JOIN project_members pm ON pm.project_id = projects.id").
		Where("pm.user_id = ? AND projects.created_by <> ?", userID, userID).
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	views := make([]*ProjectView, 0, len(projects))
	for i := range projects {
		views = append(views, toProjectView(&projects[i], true))
	}
	return views, nil
}

// Matching returns open projects the user has not created and not joined,
// sharing at least one required skill with the user's skills.
func (s *ProjectService) Matching(userID uint) ([]*ProjectView, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("User not found")
		}
		return nil, err
	}
	userSkills := user.SkillList()

	var projects []models.Project
	err := s.db.Preload("Creator").Preload("Members.User").
		Where("status = ? AND created_by <> ?", models.ProjectStatusOpen, userID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	views := make([]*ProjectView, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		if !models.TagsOverlap(userSkills, p.SkillList()) {
			continue
		}
		if isMember(p, userID) {
			continue
		}
		views = append(views, toProjectView(p, true))
	}
	return views, nil
}

func isMember(p *models.Project, userID uint) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func (s *ProjectService) getView(id uint) (*ProjectView, error) {
	var project models.Project
	if err := s.db.Preload("Creator").Preload("Members.User").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Project not found")
		}
		return nil, err
	}
	return toProjectView(&project, true), nil
}
