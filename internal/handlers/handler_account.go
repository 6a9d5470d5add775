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

// AccountHandler exposes the ledger operations on the authenticated account.
type AccountHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ls portssvc.LedgerSvcFacade) *AccountHandler {
	return &AccountHandler{ledgerService: ls}
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, MessageResponse{Message: "No se proporcionó un token de autenticación"})
		return "", false
	}
	return userID, true
}

// translateLedgerError maps domain errors to client responses; anything else
// is logged and surfaced as a generic 500.
func translateLedgerError(c *gin.Context, err error, insufficientMsg string, notFoundMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "El monto debe ser mayor a 0"})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, MessageResponse{Message: insufficientMsg})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Message: notFoundMsg})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Ledger operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "Error interno del servidor"})
	}
}

// Deposit godoc
// @Summary Deposit funds
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param deposit body dto.AmountRequest true "Amount"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} MessageResponse
// @Router /account/deposit [post]
func (h *AccountHandler) Deposit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Solicitud inválida: " + err.Error()})
		return
	}

	balance, err := h.ledgerService.Deposit(c.Request.Context(), userID, req.Amount)
	if err != nil {
		translateLedgerError(c, err, "Fondos insuficientes", "Usuario no encontrado")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		Message: "Depósito realizado con éxito",
		Balance: balance,
	})
}

// Withdraw godoc
// @Summary Withdraw funds
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param withdraw body dto.AmountRequest true "Amount"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} MessageResponse
// @Router /account/withdraw [post]
func (h *AccountHandler) Withdraw(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Solicitud inválida: " + err.Error()})
		return
	}

	balance, err := h.ledgerService.Withdraw(c.Request.Context(), userID, req.Amount)
	if err != nil {
		translateLedgerError(c, err, "Fondos insuficientes", "Usuario no encontrado")
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		Message: "Retiro realizado con éxito",
		Balance: balance,
	})
}

// Transfer godoc
// @Summary Transfer funds to another user
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transfer body dto.TransferRequest true "Recipient and amount"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /account/transfer [post]
func (h *AccountHandler) Transfer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Message: "Solicitud inválida: " + err.Error()})
		return
	}

	result, err := h.ledgerService.Transfer(c.Request.Context(), userID, req.RecipientEmail, req.Amount)
	if err != nil {
		translateLedgerError(c, err, "Fondos insuficientes para la transferencia", "Usuario receptor no encontrado")
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{
		Message:          "Transferencia realizada con éxito",
		SenderBalance:    result.SenderBalance,
		RecipientBalance: result.RecipientBalance,
	})
}

// GetBalance godoc
// @Summary Current balance
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /account/balance [get]
func (h *AccountHandler) GetBalance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		translateLedgerError(c, err, "Fondos insuficientes", "Usuario no encontrado")
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

// GetTransactions godoc
// @Summary Transaction history
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.TransactionsResponse
// @Router /account/transactions [get]
func (h *AccountHandler) GetTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	transactions, err := h.ledgerService.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		translateLedgerError(c, err, "Fondos insuficientes", "Usuario no encontrado")
		return
	}

	c.JSON(http.StatusOK, dto.TransactionsResponse{Transactions: transactions})
}
