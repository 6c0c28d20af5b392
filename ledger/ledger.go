package ledger

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// MaxBalance is the largest balance an account can hold. It matches the
// maximum value of a NeoVM integer.
var MaxBalance = new(big.Int).Sub(
	new(big.Int).Lsh(big.NewInt(1), uint(stackitem.MaxBigIntegerSizeBits-1)),
	big.NewInt(1),
)

var (
	// ErrInsufficientBalance is returned when a debit would drive a balance
	// negative.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrOverflow is returned when a credit would push a balance above
	// MaxBalance.
	ErrOverflow = errors.New("balance overflow")
)

// Ledger maps accounts to balances.
type Ledger struct {
	balances map[util.Uint160]*big.Int
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{
		balances: make(map[util.Uint160]*big.Int),
	}
}

// BalanceOf returns balance of the account. Missing accounts hold zero. The
// result is a copy and may be modified freely.
func (l *Ledger) BalanceOf(acc util.Uint160) *big.Int {
	if b, ok := l.balances[acc]; ok {
		return new(big.Int).Set(b)
	}

	return new(big.Int)
}

// Credit increases balance of the account by amount. Credit fails with
// ErrOverflow if the result would exceed MaxBalance, the balance is left
// untouched in this case.
func (l *Ledger) Credit(acc util.Uint160, amount *big.Int) error {
	res, err := l.credited(acc, amount)
	if err != nil {
		return err
	}

	l.set(acc, res)

	return nil
}

// Debit decreases balance of the account by amount. Debit fails with
// ErrInsufficientBalance if the account holds less than amount, the balance
// is left untouched in this case.
func (l *Ledger) Debit(acc util.Uint160, amount *big.Int) error {
	res, err := l.debited(acc, amount)
	if err != nil {
		return err
	}

	l.set(acc, res)

	return nil
}

// CheckMove checks whether Move with the same arguments would succeed without
// changing anything.
func (l *Ledger) CheckMove(from, to util.Uint160, amount *big.Int) error {
	if _, err := l.debited(from, amount); err != nil {
		return err
	}

	// debit is applied first, so the credit of the same entry restores the
	// original value and can't overflow
	if from != to {
		if _, err := l.credited(to, amount); err != nil {
			return err
		}
	}

	return nil
}

// Move debits from and credits to by amount. Either both balances change or
// none does. Moving to the same account leaves its balance as is.
func (l *Ledger) Move(from, to util.Uint160, amount *big.Int) error {
	if err := l.CheckMove(from, to, amount); err != nil {
		return err
	}

	// checked above
	if err := l.Debit(from, amount); err != nil {
		panic(fmt.Sprintf("debit after successful check: %v", err))
	}

	if err := l.Credit(to, amount); err != nil {
		panic(fmt.Sprintf("credit after successful check: %v", err))
	}

	return nil
}

// Len returns number of accounts with non-zero balance.
func (l *Ledger) Len() int {
	return len(l.balances)
}

// Iterate passes each non-zero balance into f in ascending account order.
// Balances are copies.
func (l *Ledger) Iterate(f func(acc util.Uint160, balance *big.Int)) {
	accs := make([]util.Uint160, 0, len(l.balances))
	for acc := range l.balances {
		accs = append(accs, acc)
	}

	slices.SortFunc(accs, func(a, b util.Uint160) int {
		return bytes.Compare(a[:], b[:])
	})

	for i := range accs {
		f(accs[i], new(big.Int).Set(l.balances[accs[i]]))
	}
}

func (l *Ledger) credited(acc util.Uint160, amount *big.Int) (*big.Int, error) {
	res := l.BalanceOf(acc)
	res.Add(res, amount)

	if res.Cmp(MaxBalance) > 0 {
		return nil, fmt.Errorf("%w: %s + %s exceeds %s", ErrOverflow, l.BalanceOf(acc), amount, MaxBalance)
	}

	return res, nil
}

func (l *Ledger) debited(acc util.Uint160, amount *big.Int) (*big.Int, error) {
	res := l.BalanceOf(acc)
	if res.Cmp(amount) < 0 {
		return nil, fmt.Errorf("%w: have %s, need %s", ErrInsufficientBalance, res, amount)
	}

	return res.Sub(res, amount), nil
}

func (l *Ledger) set(acc util.Uint160, balance *big.Int) {
	if balance.Sign() == 0 {
		delete(l.balances, acc)
		return
	}

	l.balances[acc] = balance
}
