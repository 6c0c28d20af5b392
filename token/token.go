package token

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/nep17-ledger/allowance"
	"github.com/nspcc-dev/nep17-ledger/ledger"
	"go.uber.org/zap"
)

// Default token metadata.
const (
	DefaultSymbol   = "TOKEN"
	DefaultDecimals = 0
)

// Token is a fungible token with fixed total supply.
type Token struct {
	log *zap.Logger

	symbol   string
	decimals int
	supply   *big.Int

	mtx        sync.RWMutex
	balances   *ledger.Ledger
	allowances *allowance.Registry
}

// Option configures Token on creation.
type Option func(*Token)

// WithLogger sets logger for committed operations. By default, nothing is
// logged.
func WithLogger(l *zap.Logger) Option {
	return func(t *Token) {
		t.log = l
	}
}

// WithSymbol sets ticker symbol of the token. Defaults to DefaultSymbol.
func WithSymbol(s string) Option {
	return func(t *Token) {
		t.symbol = s
	}
}

// WithDecimals sets number of decimals used to represent amounts to users.
// Defaults to DefaultDecimals. It doesn't affect accounting. Negative values
// make New fail with ErrInvalidDecimals.
func WithDecimals(d int) Option {
	return func(t *Token) {
		t.decimals = d
	}
}

// New creates Token with the given total supply credited to the creator.
// New fails with ErrInvalidAmount for nil or negative supply and with
// ErrOverflow if the supply exceeds ledger.MaxBalance. Negative decimals
// are rejected with ErrInvalidDecimals.
func New(initialSupply *big.Int, creator util.Uint160, opts ...Option) (*Token, error) {
	if err := checkAmount(initialSupply); err != nil {
		return nil, fmt.Errorf("initial supply: %w", err)
	}

	t := &Token{
		log:        zap.NewNop(),
		symbol:     DefaultSymbol,
		decimals:   DefaultDecimals,
		supply:     new(big.Int).Set(initialSupply),
		balances:   ledger.New(),
		allowances: allowance.New(),
	}

	for _, o := range opts {
		o(t)
	}

	if t.log == nil {
		t.log = zap.NewNop()
	}

	if t.decimals < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDecimals, t.decimals)
	}

	if err := t.balances.Credit(creator, t.supply); err != nil {
		return nil, fmt.Errorf("initial supply: %w", err)
	}

	t.log.Debug("token created",
		zap.String("symbol", t.symbol),
		zap.String("creator", address.Uint160ToString(creator)),
		zap.Stringer("supply", t.supply))

	return t, nil
}

// Symbol returns ticker symbol of the token.
func (t *Token) Symbol() string {
	return t.symbol
}

// Decimals returns precision of token amounts.
func (t *Token) Decimals() int {
	return t.decimals
}

// TotalSupply returns the amount of tokens in existence. It never changes
// after New.
func (t *Token) TotalSupply() *big.Int {
	return new(big.Int).Set(t.supply)
}

// BalanceOf returns balance of the account, zero for unknown accounts.
func (t *Token) BalanceOf(acc util.Uint160) *big.Int {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	return t.balances.BalanceOf(acc)
}

// Allowance returns the amount spender may still move out of the owner's
// balance with TransferFrom.
func (t *Token) Allowance(owner, spender util.Uint160) *big.Int {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	return t.allowances.Allowance(owner, spender)
}

// Transfer moves value from the caller's balance to the recipient's one.
// Transfer fails with ErrInsufficientBalance if the caller holds less than
// value. Zero and self transfers are allowed.
func (t *Token) Transfer(caller, to util.Uint160, value *big.Int) error {
	if err := checkAmount(value); err != nil {
		return err
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	if err := t.balances.Move(caller, to, value); err != nil {
		return err
	}

	t.log.Debug("transferred",
		zap.String("from", address.Uint160ToString(caller)),
		zap.String("to", address.Uint160ToString(to)),
		zap.Stringer("amount", value))

	return nil
}

// Approve allows spender to move up to value out of the caller's balance. Any
// previous allowance of the spender is replaced, not increased. Balance of
// the caller is not checked.
func (t *Token) Approve(caller, spender util.Uint160, value *big.Int) error {
	if err := checkAmount(value); err != nil {
		return err
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	t.allowances.Set(caller, spender, value)

	t.log.Debug("approved",
		zap.String("owner", address.Uint160ToString(caller)),
		zap.String("spender", address.Uint160ToString(spender)),
		zap.Stringer("amount", value))

	return nil
}

// TransferFrom moves value from one account to another on behalf of the
// calling spender. It fails with ErrAllowanceExceeded if the spender is
// allowed less than value, and with ErrInsufficientBalance if the owner holds
// less than value. The allowance is decreased only if the balances were moved.
func (t *Token) TransferFrom(spender, from, to util.Uint160, value *big.Int) error {
	if err := checkAmount(value); err != nil {
		return err
	}

	t.mtx.Lock()
	defer t.mtx.Unlock()

	if err := t.allowances.Check(from, spender, value); err != nil {
		return err
	}

	if err := t.balances.Move(from, to, value); err != nil {
		return err
	}

	if err := t.allowances.Consume(from, spender, value); err != nil {
		// allowance was checked under the same lock
		panic(fmt.Sprintf("allowance changed during transfer: %v", err))
	}

	t.log.Debug("transferred from",
		zap.String("spender", address.Uint160ToString(spender)),
		zap.String("from", address.Uint160ToString(from)),
		zap.String("to", address.Uint160ToString(to)),
		zap.Stringer("amount", value))

	return nil
}

// IterateState passes every non-zero balance into fb and then every non-zero
// allowance into fa, both taken from the same state. Order is the same as in
// IterateBalances and IterateAllowances. Callbacks must not call methods of t.
func (t *Token) IterateState(fb func(acc util.Uint160, balance *big.Int), fa func(owner, spender util.Uint160, value *big.Int)) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	t.balances.Iterate(fb)
	t.allowances.Iterate(fa)
}

// IterateBalances passes every non-zero balance into f in ascending account
// order. f must not call methods of t.
func (t *Token) IterateBalances(f func(acc util.Uint160, balance *big.Int)) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	t.balances.Iterate(f)
}

// IterateAllowances passes every non-zero allowance into f ordered by owner,
// then by spender. f must not call methods of t.
func (t *Token) IterateAllowances(f func(owner, spender util.Uint160, value *big.Int)) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	t.allowances.Iterate(f)
}

func checkAmount(v *big.Int) error {
	if v == nil {
		return fmt.Errorf("%w: nil", ErrInvalidAmount)
	}

	if v.Sign() < 0 {
		return fmt.Errorf("%w: negative %s", ErrInvalidAmount, v)
	}

	return nil
}
