package ledger

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

var (
	accA = util.Uint160{1}
	accB = util.Uint160{2}
	accC = util.Uint160{3}
)

func TestLedger_BalanceOf(t *testing.T) {
	l := New()

	require.Zero(t, l.BalanceOf(accA).Sign())
	require.Zero(t, l.Len())

	require.NoError(t, l.Credit(accA, big.NewInt(10)))

	b := l.BalanceOf(accA)
	require.EqualValues(t, 10, b.Int64())

	// returned value must not alias the stored one
	b.SetInt64(1000)
	require.EqualValues(t, 10, l.BalanceOf(accA).Int64())
}

func TestLedger_Credit(t *testing.T) {
	t.Run("overflow", func(t *testing.T) {
		l := New()

		require.NoError(t, l.Credit(accA, MaxBalance))
		err := l.Credit(accA, big.NewInt(1))
		require.ErrorIs(t, err, ErrOverflow)
		require.Zero(t, l.BalanceOf(accA).Cmp(MaxBalance))
	})

	t.Run("zero", func(t *testing.T) {
		l := New()

		require.NoError(t, l.Credit(accA, new(big.Int)))
		require.Zero(t, l.Len())
	})
}

func TestLedger_Debit(t *testing.T) {
	l := New()
	require.NoError(t, l.Credit(accA, big.NewInt(10)))

	err := l.Debit(accA, big.NewInt(11))
	require.ErrorIs(t, err, ErrInsufficientBalance)
	require.EqualValues(t, 10, l.BalanceOf(accA).Int64())

	require.NoError(t, l.Debit(accA, big.NewInt(4)))
	require.EqualValues(t, 6, l.BalanceOf(accA).Int64())

	require.NoError(t, l.Debit(accA, big.NewInt(6)))
	require.Zero(t, l.BalanceOf(accA).Sign())
	require.Zero(t, l.Len(), "drained account must be removed")

	require.ErrorIs(t, l.Debit(accB, big.NewInt(1)), ErrInsufficientBalance)
}

func TestLedger_Move(t *testing.T) {
	for _, tc := range []struct {
		name     string
		from, to util.Uint160
		amount   int64
		err      error
		expA     int64
		expB     int64
	}{
		{name: "regular", from: accA, to: accB, amount: 30, expA: 70, expB: 30},
		{name: "all", from: accA, to: accB, amount: 100, expA: 0, expB: 100},
		{name: "zero", from: accA, to: accB, amount: 0, expA: 100, expB: 0},
		{name: "self", from: accA, to: accA, amount: 50, expA: 100, expB: 0},
		{name: "self whole balance", from: accA, to: accA, amount: 100, expA: 100, expB: 0},
		{name: "insufficient", from: accA, to: accB, amount: 101, err: ErrInsufficientBalance, expA: 100, expB: 0},
		{name: "self insufficient", from: accA, to: accA, amount: 101, err: ErrInsufficientBalance, expA: 100, expB: 0},
		{name: "empty sender", from: accB, to: accA, amount: 1, err: ErrInsufficientBalance, expA: 100, expB: 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := New()
			require.NoError(t, l.Credit(accA, big.NewInt(100)))

			require.ErrorIs(t, l.CheckMove(tc.from, tc.to, big.NewInt(tc.amount)), tc.err)

			err := l.Move(tc.from, tc.to, big.NewInt(tc.amount))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
			} else {
				require.NoError(t, err)
			}

			require.EqualValues(t, tc.expA, l.BalanceOf(accA).Int64())
			require.EqualValues(t, tc.expB, l.BalanceOf(accB).Int64())
		})
	}

	t.Run("overflow", func(t *testing.T) {
		l := New()
		require.NoError(t, l.Credit(accA, big.NewInt(1)))
		require.NoError(t, l.Credit(accB, MaxBalance))

		err := l.Move(accA, accB, big.NewInt(1))
		require.ErrorIs(t, err, ErrOverflow)
		require.EqualValues(t, 1, l.BalanceOf(accA).Int64())
		require.Zero(t, l.BalanceOf(accB).Cmp(MaxBalance))
	})

	t.Run("bounds", func(t *testing.T) {
		l := New()
		require.NoError(t, l.Credit(accA, MaxBalance))
		require.NoError(t, l.Credit(accB, big.NewInt(1)))

		require.NotPanics(t, func() {
			require.NoError(t, l.Move(accA, accA, MaxBalance))
			require.NoError(t, l.Move(accB, accB, big.NewInt(1)))
			require.NoError(t, l.Move(accA, accC, MaxBalance))
			require.NoError(t, l.Move(accB, accA, big.NewInt(1)))
		})

		require.Zero(t, l.BalanceOf(accC).Cmp(MaxBalance))
		require.EqualValues(t, 1, l.BalanceOf(accA).Int64())
		require.Zero(t, l.BalanceOf(accB).Sign())
		require.Equal(t, 2, l.Len())
	})
}

func TestLedger_Iterate(t *testing.T) {
	l := New()
	require.NoError(t, l.Credit(accB, big.NewInt(2)))
	require.NoError(t, l.Credit(accA, big.NewInt(1)))

	var accs []util.Uint160
	sum := new(big.Int)

	l.Iterate(func(acc util.Uint160, b *big.Int) {
		accs = append(accs, acc)
		sum.Add(sum, b)
		b.SetInt64(0)
	})

	require.Equal(t, []util.Uint160{accA, accB}, accs)
	require.EqualValues(t, 3, sum.Int64())
	require.EqualValues(t, 2, l.BalanceOf(accB).Int64())
}
