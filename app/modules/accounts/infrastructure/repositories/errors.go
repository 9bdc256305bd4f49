package accountsdb

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNoRowsAffected is returned when a conditional write matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
	// ErrInsufficientFunds is returned when a debit would drive currency below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
