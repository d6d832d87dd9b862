package domain

// CommandError is a definitive rejection from the decision engine: the command
// was fully evaluated and found invalid. No event is emitted, no state changes,
// and retrying without changing the command will not help.
type CommandError string

func (e CommandError) Error() string { return string(e) }

const (
	ErrDuplicatedCommand   CommandError = "DUPLICATED_COMMAND"
	ErrWalletNotExists     CommandError = "WALLET_NOT_EXISTS"
	ErrWalletAlreadyExists CommandError = "WALLET_ALREADY_EXISTS"
	ErrDepositLEZero       CommandError = "DEPOSIT_LE_ZERO"
	ErrExpenseNotExists    CommandError = "EXPENSE_NOT_EXISTS"

	// ErrUnknownCommand guards the default branch of command dispatch; it can
	// only fire if a new variant is added without a matching decide case.
	ErrUnknownCommand CommandError = "UNKNOWN_COMMAND"
)
