package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/tmorell/chorus/internal/config"
	"github.com/tmorell/chorus/internal/models"
	"github.com/tmorell/chorus/internal/utils"
	"gorm.io/gorm"
)

// AuthService issues the bearer tokens the rest of the API trusts for
// caller identity. Deliberately minimal: register, login, current user.
type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

// Register creates an account and returns a session token.
func (s *AuthService) Register(req *RegisterRequest) (*LoginResponse, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, err
	}

	return s.issueToken(&user)
}

// Login authenticates by username and password.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	var user models.User
	err := s.db.Where("username = ?", req.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", ErrAccessDenied)
		}
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, fmt.Errorf("%w: invalid username or password", ErrAccessDenied)
	}

	return s.issueToken(&user)
}

// Me returns the authenticated user's profile.
func (s *AuthService) Me(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) issueToken(user *models.User) (*LoginResponse, error) {
	hours := s.jwtConfig.ExpireHour
	if hours <= 0 {
		hours = 24
	}

	token, err := utils.GenerateToken(user.ID, user.Username, hours)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:    token,
		User:     user,
		ExpireAt: time.Now().Add(time.Duration(hours) * time.Hour),
	}, nil
}
