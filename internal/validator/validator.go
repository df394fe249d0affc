package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/pintape/internal/runtime"
	"github.com/aretw0/pintape/pkg/domain"
)

// ValidatePolicy checks that a transition table is total over its non-terminal states,
// that no rule leaves a terminal state, that BLANK is never consumed, and that every
// declared state is reachable from the start state.
func ValidatePolicy(p *runtime.Policy) error {
	var errors []string

	declared := make(map[domain.State]bool, len(p.States))
	for _, s := range p.States {
		declared[s] = true
	}
	if !declared[domain.StartState] {
		errors = append(errors, fmt.Sprintf("start state '%s' is not declared", domain.StartState))
	}

	for _, s := range p.States {
		for _, c := range domain.Classes {
			_, ok := p.Lookup(s, c)
			switch {
			case s.IsTerminal() && ok:
				errors = append(errors, fmt.Sprintf("terminal state '%s' has a rule for %s", s, c))
			case !s.IsTerminal() && !ok:
				errors = append(errors, fmt.Sprintf("state '%s' has no rule for %s", s, c))
			}
		}
	}

	for _, r := range p.Rules() {
		if !declared[r.From] {
			errors = append(errors, fmt.Sprintf("rule source '%s' is not declared", r.From))
		}
		for _, target := range r.Targets() {
			if !declared[target] {
				errors = append(errors, fmt.Sprintf("rule %s/%s targets undeclared state '%s'", r.From, r.Class, target))
			}
		}
		if r.Class == domain.ClassBlank && r.Consume {
			errors = append(errors, fmt.Sprintf("rule %s/%s consumes the blank", r.From, r.Class))
		}
	}

	// Crawl from the start state.
	visited := map[domain.State]bool{}
	queue := []domain.State{domain.StartState}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		for _, c := range domain.Classes {
			r, ok := p.Lookup(current, c)
			if !ok {
				continue
			}
			for _, target := range r.Targets() {
				if !visited[target] {
					queue = append(queue, target)
				}
			}
		}
	}
	for _, s := range p.States {
		if !visited[s] {
			errors = append(errors, fmt.Sprintf("state '%s' is unreachable from '%s'", s, domain.StartState))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
