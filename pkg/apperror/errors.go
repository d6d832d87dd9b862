package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"cinema-wallet/internal/core/domain"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Wallet command rejections (WLT) ----

func ErrDuplicatedCommand() *AppError {
	return New("DUPLICATED_COMMAND", "Command has already been processed", http.StatusConflict)
}

func ErrWalletNotExists() *AppError {
	return New("WALLET_NOT_EXISTS", "Wallet does not exist", http.StatusNotFound)
}

func ErrWalletAlreadyExists() *AppError {
	return New("WALLET_ALREADY_EXISTS", "Wallet already exists", http.StatusConflict)
}

func ErrDepositLEZero() *AppError {
	return New("DEPOSIT_LE_ZERO", "Deposit amount must be positive", http.StatusBadRequest)
}

func ErrExpenseNotExists() *AppError {
	return New("EXPENSE_NOT_EXISTS", "Expense does not exist", http.StatusNotFound)
}

// ---- Read model (RES) ----

func ErrNotFound(entity string) *AppError {
	return New("RES_001", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// ErrConcurrencyConflict signals a lost optimistic-append race; the caller may retry.
func ErrConcurrencyConflict(err error) *AppError {
	return Wrap("SYS_002", "Concurrent modification, retry the command", http.StatusConflict, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("REQ_001", message, http.StatusBadRequest)
}

// FromCommandError maps a domain decision rejection onto its transport error.
// Non-command errors come back as SYS_001.
func FromCommandError(err error) *AppError {
	var cmdErr domain.CommandError
	if !errors.As(err, &cmdErr) {
		return InternalError(err)
	}
	switch cmdErr {
	case domain.ErrDuplicatedCommand:
		return ErrDuplicatedCommand()
	case domain.ErrWalletNotExists:
		return ErrWalletNotExists()
	case domain.ErrWalletAlreadyExists:
		return ErrWalletAlreadyExists()
	case domain.ErrDepositLEZero:
		return ErrDepositLEZero()
	case domain.ErrExpenseNotExists:
		return ErrExpenseNotExists()
	default:
		return InternalError(err)
	}
}
