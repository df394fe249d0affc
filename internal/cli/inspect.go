package cli

import (
	"errors"
	"fmt"

	"github.com/aretw0/pintape/internal/presentation/graph"
	"github.com/aretw0/pintape/internal/presentation/tui"
	"github.com/aretw0/pintape/internal/validator"
)

// RenderGraph prints the Mermaid diagram of the active policy. With a non-empty
// input, the states visited while validating it are highlighted.
func RenderGraph(opts Options, input string) (err error) {
	a, err := newApp(opts, PresentNone)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	var overlay *graph.GraphOverlay
	if input != "" {
		_, events, err := a.machine.Validate(input)
		if err != nil {
			return err
		}
		overlay = graph.OverlayFromEvents(events)
	}

	p := a.machine.Policy()
	fmt.Fprint(opts.stdout(), graph.GenerateMermaid(p.States, p.Rules(), overlay))
	return nil
}

// Explain prints a Markdown report of how input is validated.
func Explain(opts Options, input string) (err error) {
	a, err := newApp(opts, PresentNone)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	verdict, events, err := a.machine.Validate(input)
	if err != nil {
		return err
	}
	return a.render(tui.RenderReport(input, a.machine.Policy().Name, verdict, events))
}

// Table validates the active policy and prints it as a state × class grid.
func Table(opts Options) (err error) {
	a, err := newApp(opts, PresentNone)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.Close()) }()

	p := a.machine.Policy()
	if err := validator.ValidatePolicy(p); err != nil {
		return fmt.Errorf("policy %s is invalid: %w", p.Name, err)
	}
	return a.render(tui.RenderPolicyTable(p.Name, p.Description, p.States, p.Rules()))
}

func (a *app) render(markdown string) error {
	out, err := tui.NewRenderer(a.cfg.Color)(markdown)
	if err != nil {
		a.logger.Warn("markdown rendering failed, printing raw", "err", err)
		out = markdown
	}
	_, err = fmt.Fprint(a.opts.stdout(), out)
	return err
}
