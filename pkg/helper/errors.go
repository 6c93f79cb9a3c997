package helper

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIntent marks a malformed trade request: ambiguous exact
	// amount, bad address, or an amount string the token cannot represent.
	ErrInvalidIntent = errors.New("invalid swap intent")

	// ErrPoolUnavailable marks a pair that does not exist or holds no
	// liquidity for the requested trade.
	ErrPoolUnavailable = errors.New("pool unavailable")

	// ErrInsufficientBalance marks a signer balance below the required
	// input; the swap is rejected before any transaction is submitted.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

func wrapInvalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidIntent, fmt.Sprintf(format, args...))
}

func wrapUnavailable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPoolUnavailable, fmt.Sprintf(format, args...))
}
