package services

import "errors"

// Domain rejections the handlers map to 4xx responses. Anything else that
// bubbles out of a service is an internal error.
var (
	ErrNotFound        = errors.New("not found")
	ErrVersionConflict = errors.New("balance changed since scan, re-run reconciliation")
	ErrInvalidInput    = errors.New("invalid input")
	ErrCreditLimit     = errors.New("credit limit exceeded")
)
