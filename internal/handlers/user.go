package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/collabhub/backend/internal/config"
	"github.com/collabhub/backend/internal/middleware"
	"github.com/collabhub/backend/internal/services"
	"github.com/collabhub/backend/pkg/response"
)

// sessionMaxAge is the cookie lifetime in seconds (1 day, matching the
// token expiry).
const sessionMaxAge = 24 * 60 * 60

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB, cfg *config.Config) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db, &cfg.JWT),
	}
}

// Register handles account creation
// POST /api/v1/user/register
func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Something is missing")
		return
	}

	if err := h.userService.Register(&req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Account created successfully", nil)
}

// Login verifies credentials and sets the session cookie
// POST /api/v1/user/login
func (h *UserHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Email and password are required")
		return
	}

	result, err := h.userService.Login(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, result.Token, sessionMaxAge, "/", "", false, true)

	user := result.User
	response.OK(c, services.WelcomeMessage(user), gin.H{
		"user": gin.H{
			"id":          user.ID,
			"fullname":    user.FullName,
			"email":       user.Email,
			"role":        user.Role,
			"skills":      user.SkillList(),
			"bio":         user.Bio,
			"profile_pic": user.ProfilePic,
		},
	})
}

// Logout clears the session cookie
// POST|GET /api/v1/user/logout
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	response.OK(c, "Logged out Successfully.", nil)
}
