package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Creator writes token reports. Resulting Creator should be closed when
// finished working with it.
type Creator struct {
	reportStreams
}

// NewCreator returns Creator which writes report with the specified ID into
// the given directory. NewCreator fails if report with provided ID already
// exists.
func NewCreator(dir string, id ID) (*Creator, error) {
	var res Creator

	err := initReportStreams(&res.reportStreams, dir, id, false)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

// Write saves current state of the token into the report files.
func (x *Creator) Write(src Source) error {
	prec := src.Decimals()
	if err := checkDecimals(prec); err != nil {
		return err
	}

	info := tokenInfo{
		Symbol:      src.Symbol(),
		Decimals:    prec,
		TotalSupply: fixedn.ToString(src.TotalSupply(), prec),
	}

	var err error

	w := csv.NewWriter(x.reportStreams.ledger)

	src.IterateState(func(acc util.Uint160, balance *big.Int) {
		info.Accounts++
		if err == nil {
			err = w.Write([]string{kindBalance, address.Uint160ToString(acc), "", fixedn.ToString(balance, prec)})
		}
	}, func(owner, spender util.Uint160, value *big.Int) {
		info.Allowances++
		if err == nil {
			err = w.Write([]string{kindAllowance, address.Uint160ToString(owner), address.Uint160ToString(spender), fixedn.ToString(value, prec)})
		}
	})

	if err != nil {
		return fmt.Errorf("write ledger record as CSV data: %w", err)
	}

	w.Flush()

	err = w.Error()
	if err != nil {
		return fmt.Errorf("flush CSV data: %w", err)
	}

	jEnc := json.NewEncoder(x.reportStreams.token)
	jEnc.SetIndent("", " ")

	err = jEnc.Encode(info)
	if err != nil {
		return fmt.Errorf("encode token info to JSON: %w", err)
	}

	return nil
}

// Close releases underlying resources of the Creator and makes it unusable.
func (x *Creator) Close() {
	x.close()
}
