package dto

import "github.com/shopspring/decimal"

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest is the body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest is the body for POST /api/auth/googleLogin.
// This is a trust-on-claim bridge: the email is taken as-is, no ID token
// verification happens here.
type GoogleLoginRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserSummary is the compact user representation returned by auth endpoints.
type UserSummary struct {
	ID      string           `json:"id"`
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Balance *decimal.Decimal `json:"balance,omitempty"`
}

// AuthResponse is the success payload for register/login/googleLogin.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}
