package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/nep17-ledger/report"
	"github.com/nspcc-dev/nep17-ledger/token"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRun(t *testing.T) {
	for _, name := range []string{
		"allowance",
		"decimals",
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()

			err := _run(zaptest.NewLogger(t), filepath.Join("testdata", name+".yml"), dir, name)
			require.NoError(t, err)

			sc, err := readScenario(filepath.Join("testdata", name+".yml"))
			require.NoError(t, err)

			r, err := report.Read(dir, report.ID{Label: name, Step: uint32(len(sc.Steps))})
			require.NoError(t, err)
			require.Equal(t, sc.Token.Symbol, r.Symbol)
			require.Equal(t, sc.Token.Decimals, r.Decimals)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		err := _run(zaptest.NewLogger(t), filepath.Join("testdata", "missing.yml"), "", "")
		require.Error(t, err)
	})
}

func TestExitCode(t *testing.T) {
	dir := t.TempDir()

	for _, tc := range []struct {
		name string
		args []string
		code int
	}{
		{name: "help", args: []string{"-h"}, code: 0},
		{name: "unknown flag", args: []string{"-unknown"}, code: 2},
		{name: "no scenario", code: 1},
		{name: "missing scenario", args: []string{"-scenario", filepath.Join("testdata", "missing.yml")}, code: 1},
		{name: "passed", args: []string{"-scenario", filepath.Join("testdata", "allowance.yml")}, code: 0},
		{name: "report", args: []string{"-scenario", filepath.Join("testdata", "decimals.yml"), "-report", dir}, code: 0},
		// same report ID again
		{name: "report exists", args: []string{"-scenario", filepath.Join("testdata", "decimals.yml"), "-report", dir}, code: 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.code, run(tc.args))
		})
	}
}

func runScenario(t *testing.T, src string) error {
	sc, err := decodeScenario(strings.NewReader(src))
	require.NoError(t, err)

	r, err := newRunner(zaptest.NewLogger(t), sc)
	if err != nil {
		return err
	}

	return r.run(sc.Steps)
}

func TestRunner(t *testing.T) {
	const header = `
token: {supply: "100", creator: alice}
accounts: {alice: "", bob: ""}
steps:
`

	t.Run("unexpected failure", func(t *testing.T) {
		err := runScenario(t, header+`
  - {op: transfer, caller: alice, to: bob, amount: "101"}
`)
		require.ErrorIs(t, err, token.ErrInsufficientBalance)
		require.ErrorContains(t, err, "step #0")
	})

	t.Run("unexpected success", func(t *testing.T) {
		err := runScenario(t, header+`
  - {op: transfer, caller: alice, to: bob, amount: "100", expect: InsufficientBalance}
`)
		require.ErrorContains(t, err, "expected InsufficientBalance")
	})

	t.Run("wrong error", func(t *testing.T) {
		err := runScenario(t, header+`
  - {op: transferFrom, caller: bob, from: alice, to: bob, amount: "1", expect: InsufficientBalance}
`)
		require.ErrorContains(t, err, "expected InsufficientBalance")
	})

	t.Run("state mismatch", func(t *testing.T) {
		err := runScenario(t, header+`
  - {op: transfer, caller: alice, to: bob, amount: "10", balances: {bob: "11"}}
`)
		require.ErrorContains(t, err, "balance of 'bob'")

		err = runScenario(t, header+`
  - op: approve
    caller: alice
    spender: bob
    amount: "10"
    allowances: [{owner: alice, spender: bob, amount: "20"}]
`)
		require.ErrorContains(t, err, "allowance of 'bob' over 'alice'")
	})

	t.Run("unknown account", func(t *testing.T) {
		err := runScenario(t, header+`
  - {op: transfer, caller: carol, to: bob, amount: "1"}
`)
		require.ErrorContains(t, err, "unknown account 'carol'")
	})

	t.Run("raw address", func(t *testing.T) {
		addr := address.Uint160ToString(util.Uint160{1, 2, 3})

		err := runScenario(t, header+`
  - {op: transfer, caller: alice, to: `+addr+`, amount: "60", balances: {alice: "40", `+addr+`: "60"}}
`)
		require.NoError(t, err)
	})

	t.Run("overflow", func(t *testing.T) {
		sc, err := decodeScenario(strings.NewReader(`
token: {supply: "1` + strings.Repeat("0", 80) + `", creator: alice}
accounts: {alice: ""}
`))
		require.NoError(t, err)

		_, err = newRunner(zaptest.NewLogger(t), sc)
		require.ErrorIs(t, err, expectedErrors["Overflow"])
	})
}

func TestDecodeScenario(t *testing.T) {
	for _, tc := range []struct {
		name, src, err string
	}{
		{name: "no supply", src: `token: {creator: a}`, err: "missing token supply"},
		{name: "no creator", src: `token: {supply: "1"}`, err: "missing token creator"},
		{name: "negative decimals", src: `token: {supply: "1", creator: a, decimals: -1}`, err: "negative token decimals"},
		{name: "unknown op", src: `{token: {supply: "1", creator: a}, steps: [{op: mint, caller: a, amount: "1"}]}`, err: "unsupported operation 'mint'"},
		{name: "no caller", src: `{token: {supply: "1", creator: a}, steps: [{op: transfer, to: a, amount: "1"}]}`, err: "missing caller"},
		{name: "no amount", src: `{token: {supply: "1", creator: a}, steps: [{op: transfer, caller: a, to: a}]}`, err: "missing amount"},
		{name: "no spender", src: `{token: {supply: "1", creator: a}, steps: [{op: approve, caller: a, amount: "1"}]}`, err: "missing spender"},
		{name: "no sender", src: `{token: {supply: "1", creator: a}, steps: [{op: transferFrom, caller: a, to: a, amount: "1"}]}`, err: "missing sender"},
		{name: "unknown error", src: `{token: {supply: "1", creator: a}, steps: [{op: transfer, caller: a, to: a, amount: "1", expect: Oops}]}`, err: "unknown expected error 'Oops'"},
		{name: "unknown field", src: `{token: {supply: "1", creator: a, owner: b}}`, err: "owner"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decodeScenario(strings.NewReader(tc.src))
			require.ErrorContains(t, err, tc.err)
		})
	}
}

func TestAccounts(t *testing.T) {
	addr := address.Uint160ToString(util.Uint160{7})

	accs, err := newAccounts(map[string]string{
		"alice": "",
		"bob":   "",
		"carol": addr,
	})
	require.NoError(t, err)

	alice, err := accs.resolve("alice")
	require.NoError(t, err)
	bob, err := accs.resolve("bob")
	require.NoError(t, err)
	require.NotEqual(t, alice, bob)

	carol, err := accs.resolve("carol")
	require.NoError(t, err)
	require.Equal(t, util.Uint160{7}, carol)
	require.Equal(t, "carol", accs.name(carol))

	raw, err := accs.resolve(address.Uint160ToString(util.Uint160{8}))
	require.NoError(t, err)
	require.Equal(t, util.Uint160{8}, raw)
	require.Equal(t, address.Uint160ToString(raw), accs.name(raw))

	_, err = accs.resolve("dave")
	require.Error(t, err)

	t.Run("duplicate", func(t *testing.T) {
		_, err := newAccounts(map[string]string{"a": addr, "b": addr})
		require.ErrorContains(t, err, "same account")
	})

	t.Run("invalid address", func(t *testing.T) {
		_, err := newAccounts(map[string]string{"a": "not an address"})
		require.Error(t, err)
	})
}
