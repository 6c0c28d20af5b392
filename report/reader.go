package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Balance is a reported account balance.
type Balance struct {
	Account util.Uint160
	Amount  *big.Int
}

// Allowance is a reported spender allowance.
type Allowance struct {
	Owner   util.Uint160
	Spender util.Uint160
	Amount  *big.Int
}

// Report is a token state read from the report files.
type Report struct {
	Symbol      string
	Decimals    int
	TotalSupply *big.Int
	Balances    []Balance
	Allowances  []Allowance
}

// Read reads report with the specified ID from the given directory.
func Read(dir string, id ID) (*Report, error) {
	var s reportStreams

	err := initReportStreams(&s, dir, id, true)
	if err != nil {
		return nil, err
	}

	defer s.close()

	var res Report

	err = res.fromStreams(s.token, s.ledger)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", id, err)
	}

	return &res, nil
}

func (x *Report) fromStreams(rToken, rLedger io.Reader) error {
	var info tokenInfo

	err := json.NewDecoder(rToken).Decode(&info)
	if err != nil {
		return fmt.Errorf("decode token info from JSON: %w", err)
	}

	err = checkDecimals(info.Decimals)
	if err != nil {
		return err
	}

	x.Symbol = info.Symbol
	x.Decimals = info.Decimals

	x.TotalSupply, err = fixedn.FromString(info.TotalSupply, info.Decimals)
	if err != nil {
		return fmt.Errorf("decode total supply: %w", err)
	}

	r := csv.NewReader(rLedger)
	r.FieldsPerRecord = 4
	r.ReuseRecord = true

	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("read next CSV record: %w", err)
		}

		// out-of-range safety guaranteed by csv settings
		amount, err := fixedn.FromString(rec[3], info.Decimals)
		if err != nil {
			return fmt.Errorf("decode amount '%s': %w", rec[3], err)
		}

		owner, err := address.StringToUint160(rec[1])
		if err != nil {
			return fmt.Errorf("decode address '%s': %w", rec[1], err)
		}

		switch rec[0] {
		case kindBalance:
			x.Balances = append(x.Balances, Balance{Account: owner, Amount: amount})
		case kindAllowance:
			spender, err := address.StringToUint160(rec[2])
			if err != nil {
				return fmt.Errorf("decode address '%s': %w", rec[2], err)
			}

			x.Allowances = append(x.Allowances, Allowance{Owner: owner, Spender: spender, Amount: amount})
		default:
			return fmt.Errorf("unknown record kind '%s'", rec[0])
		}
	}

	if len(x.Balances) != info.Accounts {
		return fmt.Errorf("ledger has %d balances, token info declares %d", len(x.Balances), info.Accounts)
	}

	if len(x.Allowances) != info.Allowances {
		return fmt.Errorf("ledger has %d allowances, token info declares %d", len(x.Allowances), info.Allowances)
	}

	return nil
}
