package main

import (
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// accounts resolves names used in the scenario into account script hashes.
// It is the only source of caller identities for the token.
type accounts struct {
	byName map[string]util.Uint160
	names  map[util.Uint160]string
}

func newAccounts(aliases map[string]string) (*accounts, error) {
	res := &accounts{
		byName: make(map[string]util.Uint160, len(aliases)),
		names:  make(map[util.Uint160]string, len(aliases)),
	}

	for name, addr := range aliases {
		var acc util.Uint160

		if addr == "" {
			k, err := keys.NewPrivateKey()
			if err != nil {
				return nil, fmt.Errorf("generate key for '%s': %w", name, err)
			}

			acc = k.GetScriptHash()
		} else {
			var err error

			acc, err = address.StringToUint160(addr)
			if err != nil {
				return nil, fmt.Errorf("decode address of '%s': %w", name, err)
			}
		}

		if other, ok := res.names[acc]; ok {
			return nil, fmt.Errorf("'%s' and '%s' refer to the same account", name, other)
		}

		res.byName[name] = acc
		res.names[acc] = name
	}

	return res, nil
}

// resolve returns account declared under the name. Names that are not
// declared are decoded as Neo N3 addresses.
func (x *accounts) resolve(name string) (util.Uint160, error) {
	if acc, ok := x.byName[name]; ok {
		return acc, nil
	}

	acc, err := address.StringToUint160(name)
	if err != nil {
		return acc, fmt.Errorf("unknown account '%s'", name)
	}

	return acc, nil
}

// name returns alias of the account if any, its address otherwise.
func (x *accounts) name(acc util.Uint160) string {
	if n, ok := x.names[acc]; ok {
		return n
	}

	return address.Uint160ToString(acc)
}
