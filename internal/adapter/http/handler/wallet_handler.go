package handler

import (
	"errors"
	"sort"

	"cinema-wallet/internal/adapter/http/dto"
	"cinema-wallet/internal/core/domain"
	"cinema-wallet/internal/core/ports"
	"cinema-wallet/pkg/apperror"
	"cinema-wallet/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler exposes wallet commands and queries over HTTP.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Create handles POST /api/v1/wallets.
func (h *WalletHandler) Create(c *gin.Context) {
	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)
	if req.InitialAmount.IsNegative() {
		response.Error(c, apperror.Validation("initial_amount must not be negative"))
		return
	}

	cmd := domain.CreateWallet{WalletID: req.WalletID, InitialAmount: req.InitialAmount}
	event, err := h.walletSvc.Execute(c.Request.Context(), req.WalletID, cmd)
	if err != nil {
		h.commandError(c, err)
		return
	}

	response.Created(c, dto.CommandOutcomeResponse{
		WalletID:  req.WalletID,
		EventType: event.EventType(),
		Amount:    req.InitialAmount.String(),
	})
}

// Deposit handles POST /api/v1/wallets/:id/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	dto.SanitizeStruct(&req)

	walletID := c.Param("id")
	cmd := domain.DepositFunds{CommandID: req.CommandID, Amount: req.Amount}
	event, err := h.walletSvc.Execute(c.Request.Context(), walletID, cmd)
	if err != nil {
		h.commandError(c, err)
		return
	}

	response.OK(c, dto.CommandOutcomeResponse{
		WalletID:  walletID,
		EventType: event.EventType(),
		Amount:    req.Amount.String(),
	})
}

// Charge handles POST /api/v1/wallets/:id/charge.
// Insufficient balance is not an error: the outcome reports the
// wallet-charge-rejected event with HTTP 200.
func (h *WalletHandler) Charge(c *gin.Context) {
	var req dto.ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	dto.SanitizeStruct(&req)

	walletID := c.Param("id")
	cmd := domain.ChargeWallet{CommandID: req.CommandID, Amount: req.Amount, ExpenseID: req.ExpenseID}
	event, err := h.walletSvc.Execute(c.Request.Context(), walletID, cmd)
	if err != nil {
		h.commandError(c, err)
		return
	}

	out := dto.CommandOutcomeResponse{
		WalletID:  walletID,
		EventType: event.EventType(),
		ExpenseID: req.ExpenseID,
	}
	if charged, ok := event.(domain.WalletCharged); ok {
		out.Amount = charged.Amount.String()
	}
	response.OK(c, out)
}

// Refund handles POST /api/v1/wallets/:id/refund.
func (h *WalletHandler) Refund(c *gin.Context) {
	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	dto.SanitizeStruct(&req)

	walletID := c.Param("id")
	cmd := domain.Refund{CommandID: req.CommandID, ExpenseID: req.ExpenseID}
	event, err := h.walletSvc.Execute(c.Request.Context(), walletID, cmd)
	if err != nil {
		h.commandError(c, err)
		return
	}

	out := dto.CommandOutcomeResponse{
		WalletID:  walletID,
		EventType: event.EventType(),
		ExpenseID: req.ExpenseID,
	}
	if refunded, ok := event.(domain.WalletRefunded); ok {
		out.Amount = refunded.Amount.String()
	}
	response.OK(c, out)
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	wallet, err := h.walletSvc.GetWallet(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.commandError(c, err)
		return
	}

	expenses := make([]dto.ExpenseResponse, 0, len(wallet.Expenses))
	for _, e := range wallet.Expenses {
		expenses = append(expenses, dto.ExpenseResponse{ExpenseID: e.ExpenseID, Amount: e.Amount.String()})
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ExpenseID < expenses[j].ExpenseID })

	response.OK(c, dto.WalletResponse{
		WalletID: wallet.ID,
		Balance:  wallet.Balance.String(),
		Expenses: expenses,
	})
}

func (h *WalletHandler) commandError(c *gin.Context, err error) {
	var cmdErr domain.CommandError
	if errors.As(err, &cmdErr) {
		response.Error(c, apperror.FromCommandError(err))
		return
	}
	if errors.Is(err, ports.ErrVersionConflict) {
		response.Error(c, apperror.ErrConcurrencyConflict(err))
		return
	}
	response.Error(c, apperror.InternalError(err))
}
