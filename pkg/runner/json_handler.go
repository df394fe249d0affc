package runner

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/aretw0/pintape/pkg/domain"
)

// Record is one NDJSON line emitted by JSONHandler.
type Record struct {
	Type    string                  `json:"type"`
	Input   string                  `json:"input,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Event   *domain.TransitionEvent `json:"event,omitempty"`
	Symbol  string                  `json:"symbol,omitempty"`
	Verdict domain.Verdict          `json:"verdict,omitempty"`
	Notice  domain.Notice           `json:"notice,omitempty"`
	Message string                  `json:"message,omitempty"`
}

// Record types.
const (
	RecordLoad       = "load"
	RecordTransition = "transition"
	RecordVerdict    = "verdict"
	RecordNotice     = "notice"
	RecordSystem     = "system"
)

// JSONHandler writes one JSON object per line.
type JSONHandler struct {
	Writer  io.Writer
	Encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONHandler creates a handler for JSON output (stdout when w is nil).
func NewJSONHandler(w io.Writer) *JSONHandler {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{Writer: w, Encoder: enc}
}

func (h *JSONHandler) emit(rec Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(rec)
}

func (h *JSONHandler) Loaded(ctx context.Context, e *domain.LoadEvent) error {
	rec := Record{Type: RecordLoad, Input: e.Input}
	if e.Err != nil {
		rec.Error = e.Err.Error()
	}
	return h.emit(rec)
}

func (h *JSONHandler) Transition(ctx context.Context, e *domain.TransitionEvent) error {
	return h.emit(Record{Type: RecordTransition, Event: e, Symbol: e.SymbolText()})
}

func (h *JSONHandler) Halted(ctx context.Context, v domain.Verdict, last *domain.TransitionEvent) error {
	return h.emit(Record{Type: RecordVerdict, Verdict: v})
}

func (h *JSONHandler) Notice(ctx context.Context, n domain.Notice) error {
	return h.emit(Record{Type: RecordNotice, Notice: n})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.emit(Record{Type: RecordSystem, Message: msg})
}
