// Package discriminator selects the account binding that applies to raw
// account data.
package discriminator

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/smartcontractkit/chainparser/pkg/idl/plan"
)

// ErrUnknownAccountDiscriminant is returned when no account binding matches the
// leading bytes of the data.
var ErrUnknownAccountDiscriminant = errors.New("unknown account discriminant")

// Matcher finds account bindings by discriminator. Bindings are tried in
// declaration order and the first match wins, so bindings that share a
// discriminator resolve to the earliest one.
type Matcher struct {
	accounts []plan.AccountPlan
	shortest int
	longest  int
}

func NewMatcher(accounts []plan.AccountPlan) *Matcher {
	m := &Matcher{accounts: accounts, shortest: -1}
	for _, acc := range accounts {
		n := len(acc.Discriminator)
		if m.shortest == -1 || n < m.shortest {
			m.shortest = n
		}
		if n > m.longest {
			m.longest = n
		}
	}
	if m.shortest == -1 {
		m.shortest = 0
	}
	return m
}

// Match returns the first binding whose discriminator prefixes data. Decoding
// of the account body starts at len(acc.Discriminator).
func (m *Matcher) Match(data []byte) (plan.AccountPlan, error) {
	if len(m.accounts) == 0 {
		return plan.AccountPlan{}, fmt.Errorf("%w: no accounts declared", ErrUnknownAccountDiscriminant)
	}
	if len(data) < m.shortest {
		return plan.AccountPlan{}, fmt.Errorf("%w: %d bytes is shorter than any discriminator", ErrUnknownAccountDiscriminant, len(data))
	}
	for _, acc := range m.accounts {
		if len(acc.Discriminator) > 0 && bytes.HasPrefix(data, acc.Discriminator) {
			return acc, nil
		}
	}
	head := data
	if len(head) > m.longest {
		head = head[:m.longest]
	}
	return plan.AccountPlan{}, fmt.Errorf("%w: %x", ErrUnknownAccountDiscriminant, head)
}

// ByName returns the binding of the named account.
func (m *Matcher) ByName(name string) (plan.AccountPlan, bool) {
	for _, acc := range m.accounts {
		if acc.Name == name {
			return acc, true
		}
	}
	return plan.AccountPlan{}, false
}

// AccountName reports which account data belongs to without decoding it.
func (m *Matcher) AccountName(data []byte) (string, bool) {
	acc, err := m.Match(data)
	if err != nil {
		return "", false
	}
	return acc.Name, true
}
