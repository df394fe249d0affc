package domain

// Rule is one cell of a transition table: what happens in From on a symbol of Class.
type Rule struct {
	From  State       `json:"from" yaml:"from"`
	Class SymbolClass `json:"class" yaml:"class"`
	To    State       `json:"to" yaml:"to"`

	// Consume advances the cursor past the symbol.
	Consume bool `json:"consume" yaml:"consume"`

	// CountDigit increments the digits-read counter.
	CountDigit bool `json:"count_digit" yaml:"count_digit"`

	// Decide, when set, replaces To with a choice based on the digits-read counter
	// (after CountDigit has been applied). To then names the default target used
	// for diagrams.
	Decide func(digitsRead int) State `json:"-" yaml:"-"`

	// Reason is a message template for the trace. See runtime.FormatMessage.
	Reason string `json:"reason" yaml:"reason"`
}

// Targets returns every state the rule may lead to.
func (r Rule) Targets() []State {
	if r.Decide == nil {
		return []State{r.To}
	}
	return []State{StateAccept, StateReject}
}

// RuleKey indexes a transition table.
type RuleKey struct {
	From  State
	Class SymbolClass
}
