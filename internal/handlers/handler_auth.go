package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dlezama/banca_simple_app/internal/apperrors"
	portssvc "github.com/dlezama/banca_simple_app/internal/core/ports/services"
	"github.com/dlezama/banca_simple_app/internal/dto"
	"github.com/dlezama/banca_simple_app/internal/middleware"
	"github.com/dlezama/banca_simple_app/internal/platform/config"
	"github.com/dlezama/banca_simple_app/internal/utils"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService portssvc.UserSvcFacade
	jwtSecret   string
	jwtDuration time.Duration
	jwtIssuer   string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		userService: us,
		jwtSecret:   cfg.JWTSecret,
		jwtDuration: cfg.JWTExpiryDuration,
		jwtIssuer:   cfg.JWTIssuer,
	}
}

// MessageResponse is a generic message payload for handlers.
type MessageResponse struct {
	Message string `json:"message"`
}

func (h *AuthHandler) issueToken(c *gin.Context, userID string) (string, bool) {
	token, err := utils.GenerateJWT(userID, h.jwtSecret, h.jwtDuration, h.jwtIssuer)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error al generar el token"})
		return "", false
	}
	return token, true
}

// Register godoc
// @Summary Register new user
// @Description Creates a new account with zero balance and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Solicitud inválida: " + err.Error()})
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "El usuario ya existe"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to register user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error al registrar el usuario"})
		return
	}

	token, ok := h.issueToken(c, user.UserID)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Message: "Usuario creado exitosamente",
		Token:   token,
		User:    dto.UserSummary{ID: user.UserID, Name: user.Name, Email: user.Email},
	})
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Solicitud inválida: " + err.Error()})
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, MessageResponse{Message: "Usuario no encontrado"})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, MessageResponse{Message: "Contraseña incorrecta"})
		default:
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to authenticate user", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error al iniciar sesión"})
		}
		return
	}

	token, ok := h.issueToken(c, user.UserID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "Inicio de sesión exitoso",
		Token:   token,
		User:    dto.UserSummary{ID: user.UserID, Name: user.Name, Email: user.Email},
	})
}

// GoogleLogin godoc
// @Summary Google bridge login
// @Description Bridges a Google email claim to a local account, creating one if absent. Not a verified OAuth flow.
// @Tags auth
// @Accept json
// @Produce json
// @Param googleLogin body dto.GoogleLoginRequest true "Google Claim"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} MessageResponse
// @Router /auth/googleLogin [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Solicitud inválida: " + err.Error()})
		return
	}

	user, err := h.userService.FindOrCreateGoogleUser(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Falta email de Google"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to bridge google login", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error en login con Google"})
		return
	}

	token, ok := h.issueToken(c, user.UserID)
	if !ok {
		return
	}

	balance := user.Balance
	c.JSON(http.StatusOK, dto.AuthResponse{
		Message: "Login Google unificado",
		Token:   token,
		User:    dto.UserSummary{ID: user.UserID, Name: user.Name, Email: user.Email, Balance: &balance},
	})
}

// Me godoc
// @Summary Current user
// @Description Returns the authenticated user, password excluded.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]dto.UserResponse
// @Failure 401 {object} MessageResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "No se proporcionó un token de autenticación"})
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, MessageResponse{Message: "Usuario no encontrado"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to load current user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error al obtener datos del usuario"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserResponse(user)})
}
