package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/pintape/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []domain.State
	CurrentState  domain.State
}

// OverlayFromEvents builds an overlay from a trace: every state entered is visited,
// the last one is current.
func OverlayFromEvents(events []domain.TransitionEvent) *GraphOverlay {
	overlay := &GraphOverlay{CurrentState: domain.StartState}
	if len(events) == 0 {
		return overlay
	}
	overlay.VisitedStates = append(overlay.VisitedStates, events[0].From)
	for _, e := range events {
		overlay.VisitedStates = append(overlay.VisitedStates, e.To)
	}
	overlay.CurrentState = events[len(events)-1].To
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart from a transition table.
// It applies semantic styling:
// - Start: ((Circle))
// - Accept: (((Double circle)))
// - Reject: [/Parallelogram/]
// - Default: (Rounded)
// Edges that lead to reject are dotted. Rules sharing an edge are merged into one label.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(states []domain.State, rules []domain.Rule, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, s := range states {
		safeID := sanitizeMermaidID(string(s))

		opener, closer := "(", ")"
		switch s {
		case domain.StartState:
			opener, closer = "((", "))"
		case domain.StateAccept:
			opener, closer = "(((", ")))"
		case domain.StateReject:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, s, closer))
	}

	type edge struct{ from, to domain.State }
	var order []edge
	labels := make(map[edge][]string)
	for _, r := range rules {
		for _, to := range r.Targets() {
			e := edge{r.From, to}
			if _, seen := labels[e]; !seen {
				order = append(order, e)
			}
			labels[e] = append(labels[e], edgeLabel(r, to))
		}
	}

	for _, e := range order {
		label := strings.Join(labels[e], ", ")
		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if e.to == domain.StateReject {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(string(e.from)), arrow, sanitizeMermaidID(string(e.to))))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, s := range overlay.VisitedStates {
			safeID := sanitizeMermaidID(string(s))
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentState != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(string(overlay.CurrentState))))
		}
	}

	return sb.String()
}

func edgeLabel(r domain.Rule, to domain.State) string {
	label := string(r.Class)
	if r.Decide != nil {
		switch to {
		case domain.StateAccept:
			label += " [4|6 digits]"
		default:
			label += " [otherwise]"
		}
	}
	return label
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
