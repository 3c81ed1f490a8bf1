package domain

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAccountExists       = errors.New("account already exists")
	ErrMissingExchangeRate = errors.New("missing exchange rate")
	ErrInvalidCurrency     = errors.New("invalid currency code")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrSameAccount         = errors.New("source and destination accounts must differ")
	ErrLockTimeout         = errors.New("timed out waiting for account lock")
	ErrTransferFailed      = errors.New("failed to process transfer")
	ErrInvalidTransition   = errors.New("invalid transaction status transition")
)
