package runtime

import (
	"fmt"
	"sort"

	"github.com/aretw0/pintape/pkg/domain"
)

// Policy names.
const (
	PolicyPositional = "positional"
	PolicyDeferred   = "deferred"
)

// DefaultPolicy is the authoritative transition table.
const DefaultPolicy = PolicyPositional

// Reason keys used in rule templates.
const (
	ReasonDigit    = "digit"
	ReasonEmpty    = "empty"
	ReasonShort    = "short"
	ReasonAccept   = "accept"
	ReasonOverflow = "overflow"
	ReasonInvalid  = "invalid"
	ReasonDrain    = "drain"
	ReasonEnd      = "end"
	ReasonTainted  = "tainted"
	ReasonDecide   = "decide"
)

// Policy is a complete transition table over (State, SymbolClass).
type Policy struct {
	Name        string
	Description string

	// States lists every state the policy declares, in diagram order.
	States []domain.State

	rules map[domain.RuleKey]domain.Rule
	order []domain.RuleKey
}

// NewPolicy builds a policy from rules. A later rule for the same key replaces an earlier one.
func NewPolicy(name, description string, states []domain.State, rules ...domain.Rule) *Policy {
	p := &Policy{
		Name:        name,
		Description: description,
		States:      states,
		rules:       make(map[domain.RuleKey]domain.Rule, len(rules)),
	}
	for _, r := range rules {
		key := domain.RuleKey{From: r.From, Class: r.Class}
		if _, exists := p.rules[key]; !exists {
			p.order = append(p.order, key)
		}
		p.rules[key] = r
	}
	return p
}

// Lookup returns the rule for (s, c).
func (p *Policy) Lookup(s domain.State, c domain.SymbolClass) (domain.Rule, bool) {
	r, ok := p.rules[domain.RuleKey{From: s, Class: c}]
	return r, ok
}

// Rules returns the rules in declaration order.
func (p *Policy) Rules() []domain.Rule {
	out := make([]domain.Rule, 0, len(p.order))
	for _, k := range p.order {
		out = append(out, p.rules[k])
	}
	return out
}

var registry = map[string]func() *Policy{
	PolicyPositional: Positional,
	PolicyDeferred:   Deferred,
}

// PolicyNames returns the registered policy names, sorted.
func PolicyNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PolicyByName returns a fresh instance of the named policy.
func PolicyByName(name string) (*Policy, error) {
	if name == "" {
		name = DefaultPolicy
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", domain.ErrUnknownPolicy, name, PolicyNames())
	}
	return ctor(), nil
}

func isPINLength(n int) bool {
	return n == 4 || n == 6
}

// Positional rejects as soon as the input can no longer be a 4 or 6 digit PIN.
// Acceptance is decided by the state reached when BLANK is read.
func Positional() *Policy {
	last := len(domain.CountingStates) - 1
	var rules []domain.Rule

	for n, s := range domain.CountingStates {
		digit := domain.Rule{From: s, Class: domain.ClassDigit, Consume: true, CountDigit: true}
		if n < last {
			digit.To = domain.CountingStates[n+1]
			digit.Reason = ReasonDigit
		} else {
			digit.To = domain.StateReject
			digit.Reason = ReasonOverflow
		}

		blank := domain.Rule{From: s, Class: domain.ClassBlank, To: domain.StateReject, Reason: ReasonShort}
		switch {
		case isPINLength(n):
			blank.To = domain.StateAccept
			blank.Reason = ReasonAccept
		case n == 0:
			blank.Reason = ReasonEmpty
		}

		other := domain.Rule{From: s, Class: domain.ClassOther, To: domain.StateReject, Consume: true, Reason: ReasonInvalid}

		rules = append(rules, digit, blank, other)
	}

	states := append(append([]domain.State{}, domain.CountingStates...), domain.StateAccept, domain.StateReject)
	return NewPolicy(PolicyPositional,
		"Rejects on the first invalid symbol; accepts on BLANK from q4 or q6.",
		states, rules...)
}

// Deferred keeps reading after an invalid symbol (through q7) and only consults the
// digits-read counter once BLANK is reached (through check).
func Deferred() *Policy {
	last := len(domain.CountingStates) - 1
	var rules []domain.Rule

	for n, s := range domain.CountingStates {
		digit := domain.Rule{From: s, Class: domain.ClassDigit, Consume: true, CountDigit: true}
		if n < last {
			digit.To = domain.CountingStates[n+1]
			digit.Reason = ReasonDigit
		} else {
			digit.To = domain.StateQ7
			digit.Reason = ReasonDrain
		}
		rules = append(rules,
			digit,
			domain.Rule{From: s, Class: domain.ClassBlank, To: domain.StateCheck, Reason: ReasonEnd},
			domain.Rule{From: s, Class: domain.ClassOther, To: domain.StateQ7, Consume: true, Reason: ReasonDrain},
		)
	}

	rules = append(rules,
		domain.Rule{From: domain.StateQ7, Class: domain.ClassDigit, To: domain.StateQ7, Consume: true, CountDigit: true, Reason: ReasonDrain},
		domain.Rule{From: domain.StateQ7, Class: domain.ClassBlank, To: domain.StateReject, Reason: ReasonTainted},
		domain.Rule{From: domain.StateQ7, Class: domain.ClassOther, To: domain.StateQ7, Consume: true, Reason: ReasonDrain},
		domain.Rule{
			From: domain.StateCheck, Class: domain.ClassBlank, To: domain.StateAccept, Reason: ReasonDecide,
			Decide: func(digitsRead int) domain.State {
				if isPINLength(digitsRead) {
					return domain.StateAccept
				}
				return domain.StateReject
			},
		},
		// check never consumes, so only BLANK can be under the cursor there.
		domain.Rule{From: domain.StateCheck, Class: domain.ClassDigit, To: domain.StateReject, Consume: true, Reason: ReasonInvalid},
		domain.Rule{From: domain.StateCheck, Class: domain.ClassOther, To: domain.StateReject, Consume: true, Reason: ReasonInvalid},
	)

	states := append(append([]domain.State{}, domain.CountingStates...),
		domain.StateQ7, domain.StateCheck, domain.StateAccept, domain.StateReject)
	return NewPolicy(PolicyDeferred,
		"Reads the whole tape; decides by the digit count at end of input.",
		states, rules...)
}
