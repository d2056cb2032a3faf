package ledger

import "errors"

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrManagerNotFound      = errors.New("manager not found")
	ErrClientNotFound       = errors.New("client not found")
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrCrossManagerTransfer = errors.New("cross-manager transfer forbidden")
	ErrSelfTransfer         = errors.New("self transfer forbidden")
	ErrPaymentDeclined      = errors.New("payment declined")
	ErrTransactionNotFound  = errors.New("transaction not found")
)
