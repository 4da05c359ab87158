package dto

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ann@example.edu"`
	Password string `json:"password" binding:"required,min=6" example:"s3cret!"`
	RoleID   string `json:"roleId" binding:"omitempty"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued access token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn" example:"86400"`
}
