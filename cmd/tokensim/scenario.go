package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Supported scenario operations.
const (
	opTransfer     = "transfer"
	opApprove      = "approve"
	opTransferFrom = "transferFrom"
)

// scenario is a YAML-encoded sequence of token operations.
type scenario struct {
	Token tokenConfig `yaml:"token"`
	// Account aliases. Empty values are replaced with addresses of freshly
	// generated keys, other values must be Neo N3 addresses.
	Accounts map[string]string `yaml:"accounts"`
	Steps    []step            `yaml:"steps"`
}

type tokenConfig struct {
	Symbol   string `yaml:"symbol"`
	Decimals int    `yaml:"decimals"`
	Supply   string `yaml:"supply"`
	Creator  string `yaml:"creator"`
}

// step is a single token operation invoked by the caller. Amounts are decimal
// strings with the token's precision.
type step struct {
	Op      string `yaml:"op"`
	Caller  string `yaml:"caller"`
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Spender string `yaml:"spender"`
	Amount  string `yaml:"amount"`

	// Name of the expected error, empty for success.
	Expect string `yaml:"expect"`

	// Expected state after the step.
	Balances   map[string]string `yaml:"balances"`
	Allowances []allowanceCheck  `yaml:"allowances"`
}

type allowanceCheck struct {
	Owner   string `yaml:"owner"`
	Spender string `yaml:"spender"`
	Amount  string `yaml:"amount"`
}

func readScenario(path string) (scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return scenario{}, fmt.Errorf("open scenario file: %w", err)
	}
	defer f.Close()

	return decodeScenario(f)
}

func decodeScenario(r io.Reader) (scenario, error) {
	var sc scenario

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err := dec.Decode(&sc)
	if err != nil {
		return sc, fmt.Errorf("decode scenario from YAML: %w", err)
	}

	return sc, sc.validate()
}

func (sc scenario) validate() error {
	if sc.Token.Supply == "" {
		return errors.New("missing token supply")
	}

	if sc.Token.Creator == "" {
		return errors.New("missing token creator")
	}

	if sc.Token.Decimals < 0 {
		return fmt.Errorf("negative token decimals %d", sc.Token.Decimals)
	}

	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step #%d: %w", i, err)
		}
	}

	return nil
}

func (st step) validate() error {
	if st.Caller == "" {
		return errors.New("missing caller")
	}

	if st.Amount == "" {
		return errors.New("missing amount")
	}

	switch st.Op {
	case opTransfer:
		if st.To == "" {
			return errors.New("missing recipient")
		}
	case opApprove:
		if st.Spender == "" {
			return errors.New("missing spender")
		}
	case opTransferFrom:
		if st.From == "" || st.To == "" {
			return errors.New("missing sender or recipient")
		}
	default:
		return fmt.Errorf("unsupported operation '%s'", st.Op)
	}

	if st.Expect != "" {
		if _, ok := expectedErrors[st.Expect]; !ok {
			return fmt.Errorf("unknown expected error '%s'", st.Expect)
		}
	}

	return nil
}
