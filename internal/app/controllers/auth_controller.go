package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajayk/studisdb/internal/app/models/dto"
	"github.com/ajayk/studisdb/internal/app/services"
	"github.com/ajayk/studisdb/internal/middleware"
)

// AuthController handles registration and login.
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController.
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a user account with a bcrypt-hashed password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration information"
// @Success 201 {object} dto.APIResponse "User created"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.authService.Register(ctx, req.Email, req.Password, req.RoleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(rec))
}

// Login handles user login
// @Summary Log in
// @Description Verifies credentials and returns a signed JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse "Access token"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	token, expiresIn, err := c.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.TokenResponse{Token: token, ExpiresIn: expiresIn}))
}
