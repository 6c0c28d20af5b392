package report

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/util"
)

// ID is a unique identifier of the report.
type ID struct {
	// Label of the report source (e.g. scenario name).
	Label string
	// Number of operations applied to the token before the report was taken.
	Step uint32
}

// String returns hyphen-separated ID fields.
func (x ID) String() string {
	return x.Label + sep + strconv.FormatUint(uint64(x.Step), 10)
}

// Source is a token which state can be reported.
type Source interface {
	Symbol() string
	Decimals() int
	TotalSupply() *big.Int
	// IterateState passes balances into fb and allowances into fa, both from
	// the same state.
	IterateState(fb func(acc util.Uint160, balance *big.Int), fa func(owner, spender util.Uint160, value *big.Int))
}

// checkDecimals returns an error for precision amounts can't be formatted with.
func checkDecimals(prec int) error {
	if prec < 0 {
		return fmt.Errorf("negative decimals %d", prec)
	}
	return nil
}

// tokenInfo is a JSON-encoded token metadata.
type tokenInfo struct {
	Symbol      string `json:"symbol"`
	Decimals    int    `json:"decimals"`
	TotalSupply string `json:"totalSupply"`
	Accounts    int    `json:"accounts"`
	Allowances  int    `json:"allowances"`
}

// record kinds of the ledger CSV.
const (
	kindBalance   = "balance"
	kindAllowance = "allowance"
)

const (
	// word separator used in report file naming
	sep = "-"
	// suffix of file with token metadata
	tokenFileSuffix = "token.json"
	// suffix of file with ledger records
	ledgerFileSuffix = "ledger.csv"
)

// reportStreams groups data streams for report files.
type reportStreams struct {
	token, ledger io.ReadWriteCloser
}

func (x *reportStreams) close() {
	_ = x.ledger.Close()
	_ = x.token.Close()
}

// initReportStreams opens data streams for the report files located in the
// specified directory. If read flag is set, streams are read-only. Otherwise,
// files must not exist, and streams are write only.
func initReportStreams(s *reportStreams, dir string, id ID, read bool) error {
	pathToken := filepath.Join(dir, strings.Join([]string{id.String(), tokenFileSuffix}, sep))
	pathLedger := filepath.Join(dir, strings.Join([]string{id.String(), ledgerFileSuffix}, sep))

	var (
		flag int
		perm os.FileMode
		err  error
	)

	if read {
		flag = os.O_RDONLY
	} else {
		flag = os.O_CREATE | os.O_EXCL | os.O_WRONLY
		perm = 0600
	}

	s.token, err = os.OpenFile(pathToken, flag, perm)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}

	s.ledger, err = os.OpenFile(pathLedger, flag, perm)
	if err != nil {
		_ = s.token.Close()
		if !read {
			_ = os.Remove(pathToken)
		}
		return fmt.Errorf("open ledger file: %w", err)
	}

	return nil
}
