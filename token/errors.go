package token

import (
	"errors"

	"github.com/nspcc-dev/nep17-ledger/allowance"
	"github.com/nspcc-dev/nep17-ledger/ledger"
)

var (
	// ErrInsufficientBalance is returned when a transfer would drive balance of
	// the sender negative.
	ErrInsufficientBalance = ledger.ErrInsufficientBalance

	// ErrAllowanceExceeded is returned when a delegated transfer would consume
	// more than the spender is allowed to.
	ErrAllowanceExceeded = allowance.ErrAllowanceExceeded

	// ErrOverflow is returned when a balance would exceed ledger.MaxBalance.
	ErrOverflow = ledger.ErrOverflow

	// ErrInvalidAmount is returned for nil or negative amounts.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidDecimals is returned for negative token precision.
	ErrInvalidDecimals = errors.New("invalid decimals")
)
