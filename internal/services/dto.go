package services

import (
	"time"

	"github.com/collabhub/backend/internal/models"
)

// UserBrief is the creator summary joined into project and request views.
type UserBrief struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

func toUserBrief(u *models.User) *UserBrief {
	if u == nil {
		return nil
	}
	return &UserBrief{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

// MemberView is the member/requester summary, including skills.
type MemberView struct {
	ID       uint     `json:"id"`
	FullName string   `json:"fullname"`
	Email    string   `json:"email"`
	Skills   []string `json:"skills"`
	Role     string   `json:"role,omitempty"`
}

func toMemberView(u *models.User, role string) *MemberView {
	if u == nil {
		return nil
	}
	return &MemberView{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Skills:   u.SkillList(),
		Role:     role,
	}
}

// ProjectView is the read shape of a project. IsFull is derived from the
// roster at assembly time, never read from storage.
type ProjectView struct {
	ID             uint         `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	RequiredSkills []string     `json:"required_skills"`
	Status         string       `json:"status"`
	MaxMembers     int          `json:"max_members"`
	MemberCount    int          `json:"member_count"`
	IsFull         bool         `json:"is_full"`
	Creator        *UserBrief   `json:"creator,omitempty"`
	Members        []MemberView `json:"members,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// toProjectView assembles a view from a project with Creator and
// Members.User preloaded. withMembers controls whether the roster is
// included or only counted.
func toProjectView(p *models.Project, withMembers bool) *ProjectView {
	view := &ProjectView{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		RequiredSkills: p.SkillList(),
		Status:         p.Status,
		MaxMembers:     p.MaxMembers,
		MemberCount:    len(p.Members),
		IsFull:         p.IsFull(len(p.Members)),
		Creator:        toUserBrief(p.Creator),
		CreatedAt:      p.CreatedAt,
	}
	if withMembers {
		members := make([]MemberView, 0, len(p.Members))
		for _, m := range p.Members {
			if mv := toMemberView(m.User, m.Role); mv != nil {
				members = append(members, *mv)
			}
		}
		view.Members = members
	}
	return view
}

// RequestView is the read shape of a join request, joined with the project
// and requester summaries the caller needs for display.
type RequestView struct {
	ID              uint         `json:"id"`
	Status          string       `json:"status"`
	Message         string       `json:"message,omitempty"`
	ResponseMessage string       `json:"response_message,omitempty"`
	Project         *ProjectView `json:"project,omitempty"`
	Requester       *MemberView  `json:"requester,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

func toRequestView(r *models.JoinRequest) *RequestView {
	view := &RequestView{
		ID:              r.ID,
		Status:          r.Status,
		Message:         r.Message,
		ResponseMessage: r.ResponseMessage,
		Requester:       toMemberView(r.Requester, ""),
		CreatedAt:       r.CreatedAt,
	}
	if r.Project != nil {
		view.Project = toProjectView(r.Project, false)
	}
	return view
}
