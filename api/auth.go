package api

import (
	"strings"

	"github.com/Shr3y4sm/SpendSmart/config"
	"github.com/Shr3y4sm/SpendSmart/database"
	"github.com/Shr3y4sm/SpendSmart/middleware"
	"github.com/Shr3y4sm/SpendSmart/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=80" example:"testuser"`
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"password123"`
	FullName string `json:"full_name" binding:"max=150" example:"Test User"`
}

// LoginRequest is the login payload; username may also be an email address.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"testuser"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// Register creates a new account.
// @Summary Register a new user
// @Description Creates an account and starts a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "registration info"
// @Success 201 {object} Response{data=models.User} "account created"
// @Failure 400 {object} Response "invalid input or duplicate username/email"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid registration data"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		BadRequest(c, "Username already exists")
		return
	}
	if err := database.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		BadRequest(c, "Email already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "Failed to hash password")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		FullName: strings.TrimSpace(req.FullName),
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "Failed to create account"))
		return
	}

	if !h.startSession(c, &user) {
		return
	}
	Created(c, "Registration successful", user)
}

// Login authenticates a user and starts a session.
// @Summary Log in
// @Description Verifies credentials and sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} Response{data=models.User} "logged in"
// @Failure 401 {object} Response "invalid username or password"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid login data"))
		return
	}

	var user models.User
	if err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error; err != nil {
		Unauthorized(c, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		Unauthorized(c, "Invalid username or password")
		return
	}

	if !h.startSession(c, &user) {
		return
	}
	SuccessWithMessage(c, "Login successful", user)
}

// Logout ends the session.
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} Response "logged out"
// @Router /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c)
	SuccessWithMessage(c, "Logged out", nil)
}

// Profile returns the authenticated user.
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Success 200 {object} Response{data=models.User}
// @Failure 401 {object} Response "not logged in"
// @Router /api/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		NotFound(c, "User not found")
		return
	}
	Success(c, user)
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) bool {
	token, err := middleware.GenerateToken(user.ID, user.Username, h.cfg.Auth.ExpireTime)
	if err != nil {
		InternalError(c, "Failed to create session")
		return false
	}
	middleware.SetSessionCookie(c, token, h.cfg.Auth.ExpireTime)
	return true
}
