package runtime

import (
	"fmt"

	"github.com/aretw0/pintape/pkg/domain"
)

// FormatMessage renders the trace line for an applied rule.
func FormatMessage(r domain.Rule, e *domain.TransitionEvent) string {
	switch r.Reason {
	case ReasonDigit:
		return fmt.Sprintf("digit %q read | %s → %s | digits: %d", e.SymbolText(), e.From, e.To, e.DigitsRead)
	case ReasonEmpty:
		return "empty input → reject"
	case ReasonShort:
		return fmt.Sprintf("only %d %s → reject", e.DigitsRead, plural(e.DigitsRead, "digit", "digits"))
	case ReasonAccept:
		return fmt.Sprintf("%d-digit PIN → accept", e.DigitsRead)
	case ReasonOverflow:
		return "more than 6 digits → reject"
	case ReasonInvalid:
		return fmt.Sprintf("invalid symbol %q → reject", e.SymbolText())
	case ReasonDrain:
		return fmt.Sprintf("symbol %q skipped | %s → %s | digits: %d", e.SymbolText(), e.From, e.To, e.DigitsRead)
	case ReasonEnd:
		return fmt.Sprintf("end of tape | %s → %s | digits: %d", e.From, e.To, e.DigitsRead)
	case ReasonTainted:
		return "tape contained invalid symbols → reject"
	case ReasonDecide:
		return fmt.Sprintf("%d %s counted → %s", e.DigitsRead, plural(e.DigitsRead, "digit", "digits"), e.To)
	default:
		return fmt.Sprintf("%s | %s → %s", e.SymbolText(), e.From, e.To)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
