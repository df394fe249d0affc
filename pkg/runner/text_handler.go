package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/aretw0/pintape/pkg/domain"
	"github.com/muesli/termenv"
)

// Console colours.
const (
	colorSuccess = "#00ff88"
	colorError   = "#ff0080"
	colorInfo    = "#818cf8"
)

// TextHandler writes console lines ("> message"), coloured by outcome.
type TextHandler struct {
	Writer io.Writer

	out   *termenv.Output
	color bool
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithColor forces colour on or off. By default colour follows the terminal profile.
func WithColor(enabled bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.color = enabled
	}
}

// NewTextHandler creates a handler writing to w (stdout when nil).
func NewTextHandler(w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if w == nil {
		w = os.Stdout
	}
	out := termenv.NewOutput(w)
	h := &TextHandler{
		Writer: w,
		out:    out,
		color:  out.Profile != termenv.Ascii,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) line(hex, msg string) error {
	text := "> " + msg
	if h.color && hex != "" {
		text = h.out.String(text).Foreground(h.out.Color(hex)).String()
	}
	_, err := fmt.Fprintln(h.Writer, text)
	return err
}

func (h *TextHandler) Loaded(ctx context.Context, e *domain.LoadEvent) error {
	if e.Err != nil {
		return h.line(colorError, "✗ error: "+e.Err.Error())
	}
	if err := h.line(colorSuccess, fmt.Sprintf("✓ tape loaded: %q", e.Input)); err != nil {
		return err
	}
	return h.line("", fmt.Sprintf("→ length: %d characters", utf8.RuneCountInString(e.Input)))
}

func (h *TextHandler) Transition(ctx context.Context, e *domain.TransitionEvent) error {
	switch e.To {
	case domain.StateAccept:
		return h.line(colorSuccess, "✓ "+e.Message)
	case domain.StateReject:
		return h.line(colorError, "✗ "+e.Message)
	default:
		return h.line("", "→ "+e.Message)
	}
}

func (h *TextHandler) Halted(ctx context.Context, v domain.Verdict, last *domain.TransitionEvent) error {
	if v == domain.VerdictAccepted {
		return h.line(colorSuccess, "✓ valid PIN")
	}
	return h.line(colorError, "✗ invalid PIN")
}

func (h *TextHandler) Notice(ctx context.Context, n domain.Notice) error {
	switch n {
	case domain.NoticeNotLoaded:
		return h.line(colorError, "✗ load an input first")
	case domain.NoticeFinished:
		return h.line(colorInfo, "ℹ the machine has already finished")
	}
	return nil
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.line(colorInfo, msg)
}
