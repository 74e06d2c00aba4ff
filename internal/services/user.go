package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/collabhub/backend/internal/config"
	"github.com/collabhub/backend/internal/models"
	"github.com/collabhub/backend/internal/utils"
	"github.com/collabhub/backend/pkg/response"
)

type UserService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewUserService(db *gorm.DB, jwtCfg *config.JWTConfig) *UserService {
	return &UserService{db: db, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	FullName   string   `json:"fullname" binding:"required,max=100"`
	Email      string   `json:"email" binding:"required,email"`
	Password   string   `json:"password" binding:"required,min=6,max=72"`
	Role       string   `json:"role" binding:"omitempty,oneof=user admin"`
	Skills     []string `json:"skills" binding:"required,min=1"`
	Bio        string   `json:"bio" binding:"max=1000"`
	ProfilePic string   `json:"profile_pic" binding:"max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token    string
	ExpireAt time.Time
	User     *models.User
}

// Register creates a local account with a bcrypt-hashed password.
func (s *UserService) Register(req *RegisterRequest) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return response.NewConflict("User already exists")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return err
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	user := models.User{
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   hashed,
		Role:       role,
		Skills:     models.JoinTags(req.Skills),
		Bio:        req.Bio,
		ProfilePic: req.ProfilePic,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.NewConflict("User already exists")
		}
		return err
	}
	return nil
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(req *LoginRequest) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("User not found")
		}
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("Invalid credentials")
	}

	expireHours := s.jwtConfig.ExpireHour
	if expireHours <= 0 {
		expireHours = 24
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, expireHours)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:    token,
		ExpireAt: time.Now().Add(time.Duration(expireHours) * time.Hour),
		User:     &user,
	}, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// WelcomeMessage builds the login greeting.
func WelcomeMessage(user *models.User) string {
	return fmt.Sprintf("Welcome back %s", user.FullName)
}
