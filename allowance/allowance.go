// Package allowance stores amounts spenders are allowed to move out of
// owners' balances.
//
// An allowance is a pre-authorization, not an escrow: nothing is reserved from
// the owner's balance, so the owner may still spend below the allowed amount.
// Setting an allowance overwrites the previous value.
//
// Registry is not safe for concurrent use.
package allowance

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ErrAllowanceExceeded is returned when a spender tries to consume more than
// it was allowed to.
var ErrAllowanceExceeded = errors.New("allowance exceeded")

type pair struct {
	owner, spender util.Uint160
}

// Registry maps (owner, spender) pairs to allowed amounts.
type Registry struct {
	allowances map[pair]*big.Int
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		allowances: make(map[pair]*big.Int),
	}
}

// Allowance returns the amount spender may still move out of the owner's
// balance. Defaults to zero. The result is a copy.
func (r *Registry) Allowance(owner, spender util.Uint160) *big.Int {
	if v, ok := r.allowances[pair{owner, spender}]; ok {
		return new(big.Int).Set(v)
	}

	return new(big.Int)
}

// Set replaces allowance of the spender over the owner's balance with value.
// Values do not accumulate.
func (r *Registry) Set(owner, spender util.Uint160, value *big.Int) {
	r.set(pair{owner, spender}, new(big.Int).Set(value))
}

// Check returns ErrAllowanceExceeded if spender is allowed to move less than
// amount from the owner's balance.
func (r *Registry) Check(owner, spender util.Uint160, amount *big.Int) error {
	if cur := r.Allowance(owner, spender); cur.Cmp(amount) < 0 {
		return fmt.Errorf("%w: allowed %s, need %s", ErrAllowanceExceeded, cur, amount)
	}

	return nil
}

// Consume decreases allowance of the spender by amount. Consume fails with
// ErrAllowanceExceeded and changes nothing if the allowance is insufficient.
func (r *Registry) Consume(owner, spender util.Uint160, amount *big.Int) error {
	if err := r.Check(owner, spender, amount); err != nil {
		return err
	}

	cur := r.Allowance(owner, spender)
	r.set(pair{owner, spender}, cur.Sub(cur, amount))

	return nil
}

// Iterate passes each non-zero allowance into f ordered by owner, then by
// spender. Values are copies.
func (r *Registry) Iterate(f func(owner, spender util.Uint160, value *big.Int)) {
	ps := make([]pair, 0, len(r.allowances))
	for p := range r.allowances {
		ps = append(ps, p)
	}

	slices.SortFunc(ps, func(a, b pair) int {
		if c := bytes.Compare(a.owner[:], b.owner[:]); c != 0 {
			return c
		}
		return bytes.Compare(a.spender[:], b.spender[:])
	})

	for i := range ps {
		f(ps[i].owner, ps[i].spender, new(big.Int).Set(r.allowances[ps[i]]))
	}
}

func (r *Registry) set(p pair, value *big.Int) {
	if value.Sign() == 0 {
		delete(r.allowances, p)
		return
	}

	r.allowances[p] = value
}
