package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/pintape/pkg/domain"
)

// RenderReport builds a Markdown report of one validation: the input, the verdict
// and the full trace as a table.
func RenderReport(input, policy string, verdict domain.Verdict, events []domain.TransitionEvent) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# PIN check: `%s`\n\n", escapeCode(input)))
	sb.WriteString(fmt.Sprintf("- **Policy**: %s\n", policy))
	sb.WriteString(fmt.Sprintf("- **Verdict**: %s\n", verdictLabel(verdict)))
	sb.WriteString(fmt.Sprintf("- **Steps**: %d\n\n", len(events)))

	if len(events) == 0 {
		sb.WriteString("_No transitions were applied._\n")
		return sb.String()
	}

	sb.WriteString("| # | From | Symbol | To | Digits | Written | Note |\n")
	sb.WriteString("|---|------|--------|----|--------|---------|------|\n")
	for _, e := range events {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d | %d | %s |\n",
			e.Seq, e.From, escapeCell(e.SymbolText()), e.To, e.DigitsRead, e.Written, escapeCell(e.Message)))
	}
	return sb.String()
}

// RenderPolicyTable builds a Markdown grid of a transition table: one row per state,
// one column per symbol class.
func RenderPolicyTable(name, description string, states []domain.State, rules []domain.Rule) string {
	cells := make(map[domain.RuleKey]domain.Rule, len(rules))
	for _, r := range rules {
		cells[domain.RuleKey{From: r.From, Class: r.Class}] = r
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Policy: %s\n\n%s\n\n", name, description))

	sb.WriteString("| State |")
	for _, c := range domain.Classes {
		sb.WriteString(fmt.Sprintf(" %s |", c))
	}
	sb.WriteString("\n|-------|")
	for range domain.Classes {
		sb.WriteString("----|")
	}
	sb.WriteString("\n")

	for _, s := range states {
		if s.IsTerminal() {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s |", s))
		for _, c := range domain.Classes {
			r, ok := cells[domain.RuleKey{From: s, Class: c}]
			if !ok {
				sb.WriteString(" - |")
				continue
			}
			sb.WriteString(fmt.Sprintf(" %s |", cellText(r)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func cellText(r domain.Rule) string {
	targets := r.Targets()
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = string(t)
	}
	text := strings.Join(names, " / ")
	if r.Consume {
		text += " ▸"
	}
	return text
}

func verdictLabel(v domain.Verdict) string {
	switch v {
	case domain.VerdictAccepted:
		return "✓ valid PIN"
	case domain.VerdictRejected:
		return "✗ invalid PIN"
	default:
		return "… pending"
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func escapeCode(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}
