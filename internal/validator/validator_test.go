package validator_test

import (
	"testing"

	"github.com/aretw0/pintape/internal/runtime"
	"github.com/aretw0/pintape/internal/validator"
	"github.com/aretw0/pintape/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePolicy_Builtins(t *testing.T) {
	for _, name := range runtime.PolicyNames() {
		p, err := runtime.PolicyByName(name)
		require.NoError(t, err)
		assert.NoError(t, validator.ValidatePolicy(p), name)
	}
}

func TestValidatePolicy_Violations(t *testing.T) {
	p := runtime.NewPolicy("broken", "",
		[]domain.State{domain.StateQ0, domain.StateQ1, domain.StateAccept, domain.StateReject},
		domain.Rule{From: domain.StateQ0, Class: domain.ClassDigit, To: domain.StateQ2, Consume: true},
		domain.Rule{From: domain.StateQ0, Class: domain.ClassBlank, To: domain.StateAccept, Consume: true},
		domain.Rule{From: domain.StateAccept, Class: domain.ClassOther, To: domain.StateReject},
	)

	err := validator.ValidatePolicy(p)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "state 'q0' has no rule for other")
	assert.Contains(t, msg, "state 'q1' has no rule for digit")
	assert.Contains(t, msg, "terminal state 'accept' has a rule for other")
	assert.Contains(t, msg, "rule q0/digit targets undeclared state 'q2'")
	assert.Contains(t, msg, "rule q0/blank consumes the blank")
	assert.Contains(t, msg, "state 'q1' is unreachable from 'q0'")
}
