package main

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/nep17-ledger/token"
	"go.uber.org/zap"
)

// expectedErrors maps names usable in the 'expect' field of the scenario step
// to token errors.
var expectedErrors = map[string]error{
	"InsufficientBalance": token.ErrInsufficientBalance,
	"AllowanceExceeded":   token.ErrAllowanceExceeded,
	"Overflow":            token.ErrOverflow,
	"InvalidAmount":       token.ErrInvalidAmount,
}

// runner executes scenario steps against a single token.
type runner struct {
	log  *zap.Logger
	accs *accounts
	tok  *token.Token
	prec int
}

func newRunner(log *zap.Logger, sc scenario) (*runner, error) {
	accs, err := newAccounts(sc.Accounts)
	if err != nil {
		return nil, fmt.Errorf("init accounts: %w", err)
	}

	creator, err := accs.resolve(sc.Token.Creator)
	if err != nil {
		return nil, fmt.Errorf("token creator: %w", err)
	}

	supply, err := fixedn.FromString(sc.Token.Supply, sc.Token.Decimals)
	if err != nil {
		return nil, fmt.Errorf("decode token supply: %w", err)
	}

	opts := []token.Option{
		token.WithLogger(log),
		token.WithDecimals(sc.Token.Decimals),
	}
	if sc.Token.Symbol != "" {
		opts = append(opts, token.WithSymbol(sc.Token.Symbol))
	}

	tok, err := token.New(supply, creator, opts...)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	return &runner{
		log:  log,
		accs: accs,
		tok:  tok,
		prec: sc.Token.Decimals,
	}, nil
}

// run executes all steps in order. It stops at the first step which outcome
// differs from the expected one.
func (x *runner) run(steps []step) error {
	for i := range steps {
		err := x.execute(steps[i])
		if err != nil {
			return fmt.Errorf("step #%d (%s): %w", i, steps[i].Op, err)
		}
	}

	return nil
}

func (x *runner) execute(st step) error {
	caller, err := x.accs.resolve(st.Caller)
	if err != nil {
		return fmt.Errorf("caller: %w", err)
	}

	amount, err := fixedn.FromString(st.Amount, x.prec)
	if err != nil {
		return fmt.Errorf("decode amount: %w", err)
	}

	fields := []zap.Field{
		zap.String("op", st.Op),
		zap.String("caller", st.Caller),
		zap.String("amount", st.Amount),
	}

	var opErr error

	switch st.Op {
	case opTransfer:
		to, err := x.accs.resolve(st.To)
		if err != nil {
			return fmt.Errorf("recipient: %w", err)
		}

		fields = append(fields, zap.String("to", st.To))
		opErr = x.tok.Transfer(caller, to, amount)
	case opApprove:
		spender, err := x.accs.resolve(st.Spender)
		if err != nil {
			return fmt.Errorf("spender: %w", err)
		}

		fields = append(fields, zap.String("spender", st.Spender))
		opErr = x.tok.Approve(caller, spender, amount)
	case opTransferFrom:
		from, err := x.accs.resolve(st.From)
		if err != nil {
			return fmt.Errorf("sender: %w", err)
		}

		to, err := x.accs.resolve(st.To)
		if err != nil {
			return fmt.Errorf("recipient: %w", err)
		}

		fields = append(fields, zap.String("from", st.From), zap.String("to", st.To))
		opErr = x.tok.TransferFrom(caller, from, to, amount)
	default:
		return fmt.Errorf("unsupported operation '%s'", st.Op)
	}

	if opErr != nil {
		x.log.Info("operation failed", append(fields, zap.Error(opErr))...)
	} else {
		x.log.Info("operation succeeded", fields...)
	}

	if st.Expect == "" {
		if opErr != nil {
			return fmt.Errorf("unexpected failure: %w", opErr)
		}
	} else if exp := expectedErrors[st.Expect]; !errors.Is(opErr, exp) {
		return fmt.Errorf("expected %s, got %v", st.Expect, opErr)
	}

	if err := x.checkSupply(); err != nil {
		return err
	}

	return x.checkState(st)
}

// checkSupply ensures that balances sum up to the total supply.
func (x *runner) checkSupply() error {
	sum := new(big.Int)
	x.tok.IterateBalances(func(_ util.Uint160, b *big.Int) {
		sum.Add(sum, b)
	})

	if supply := x.tok.TotalSupply(); sum.Cmp(supply) != 0 {
		return fmt.Errorf("balances sum up to %s, total supply is %s",
			fixedn.ToString(sum, x.prec), fixedn.ToString(supply, x.prec))
	}

	return nil
}

func (x *runner) checkState(st step) error {
	for name, exp := range st.Balances {
		acc, err := x.accs.resolve(name)
		if err != nil {
			return fmt.Errorf("balance check: %w", err)
		}

		if err := x.checkAmount(exp, x.tok.BalanceOf(acc)); err != nil {
			return fmt.Errorf("balance of '%s': %w", name, err)
		}
	}

	for _, c := range st.Allowances {
		owner, err := x.accs.resolve(c.Owner)
		if err != nil {
			return fmt.Errorf("allowance check: %w", err)
		}

		spender, err := x.accs.resolve(c.Spender)
		if err != nil {
			return fmt.Errorf("allowance check: %w", err)
		}

		if err := x.checkAmount(c.Amount, x.tok.Allowance(owner, spender)); err != nil {
			return fmt.Errorf("allowance of '%s' over '%s': %w", c.Spender, c.Owner, err)
		}
	}

	return nil
}

func (x *runner) checkAmount(exp string, got *big.Int) error {
	v, err := fixedn.FromString(exp, x.prec)
	if err != nil {
		return fmt.Errorf("decode expected amount: %w", err)
	}

	if v.Cmp(got) != 0 {
		return fmt.Errorf("expected %s, got %s", exp, fixedn.ToString(got, x.prec))
	}

	return nil
}

// logBalances writes all non-zero balances into the log.
func (x *runner) logBalances() {
	symbol := x.tok.Symbol()

	x.tok.IterateBalances(func(acc util.Uint160, b *big.Int) {
		x.log.Info("balance",
			zap.String("account", x.accs.name(acc)),
			zap.String("amount", fixedn.ToString(b, x.prec)),
			zap.String("symbol", symbol))
	})
}
