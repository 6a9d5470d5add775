package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dlezama/banca_simple_app/internal/apperrors"
	portssvc "github.com/dlezama/banca_simple_app/internal/core/ports/services"
	"github.com/dlezama/banca_simple_app/internal/dto"
	"github.com/dlezama/banca_simple_app/internal/middleware"
)

// AdminHandler exposes the admin-only operations. Routes using it must sit
// behind RequireRole(domain.RoleAdmin).
type AdminHandler struct {
	userService   portssvc.UserSvcFacade
	ledgerService portssvc.LedgerSvcFacade
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(us portssvc.UserSvcFacade, ls portssvc.LedgerSvcFacade) *AdminHandler {
	return &AdminHandler{userService: us, ledgerService: ls}
}

// ChangeRole godoc
// @Summary Change a user's role
// @Description Assigns user or admin to the target user. employee is modeled but not assignable here.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param changeRole body dto.ChangeRoleRequest true "Target user and role"
// @Success 200 {object} dto.ChangeRoleResponse
// @Failure 400 {object} MessageResponse
// @Failure 403 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /account/admin/change-role [patch]
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	var req dto.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Solicitud inválida: " + err.Error()})
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), req.UserID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, MessageResponse{Message: "Rol inválido"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, MessageResponse{Message: "Usuario no encontrado"})
		default:
			logger := middleware.GetLoggerFromCtx(c.Request.Context())
			logger.Error("Failed to change role", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error al actualizar el rol"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ChangeRoleResponse{
		Message: "Rol actualizado con éxito",
		User:    dto.ToUserResponse(user),
	})
}

// ListUsers godoc
// @Summary List all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UserResponse
// @Failure 403 {object} MessageResponse
// @Router /account/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list users", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error al obtener los usuarios"})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponseList(users))
}

// ListAllTransactions godoc
// @Summary List every user's transaction history
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UserTransactions
// @Failure 403 {object} MessageResponse
// @Router /account/admin/transactions [get]
func (h *AdminHandler) ListAllTransactions(c *gin.Context) {
	histories, err := h.ledgerService.ListAllTransactions(c.Request.Context())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list all transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error al obtener las transacciones"})
		return
	}

	c.JSON(http.StatusOK, histories)
}
