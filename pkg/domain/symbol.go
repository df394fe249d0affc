package domain

import "unicode/utf8"

// MaxInputLength is the default limit on input characters accepted by Load.
const MaxInputLength = 10

// Symbol is one cell of the tape: a character of the input, or Blank.
type Symbol rune

// Blank marks the end of the tape. It lies outside the Unicode range so it can never
// collide with a typed character.
const Blank Symbol = -1

// BlankGlyph is how Blank is displayed.
const BlankGlyph = "□"

func (s Symbol) String() string {
	if s == Blank {
		return BlankGlyph
	}
	return string(rune(s))
}

// SymbolClass partitions symbols for the transition function.
type SymbolClass string

const (
	ClassDigit SymbolClass = "digit"
	ClassBlank SymbolClass = "blank"
	ClassOther SymbolClass = "other"
)

// Classes lists every class, in table column order.
var Classes = []SymbolClass{ClassDigit, ClassBlank, ClassOther}

// Classify returns the class of s. Only ASCII 0-9 count as digits.
func Classify(s Symbol) SymbolClass {
	switch {
	case s == Blank:
		return ClassBlank
	case s >= '0' && s <= '9':
		return ClassDigit
	default:
		return ClassOther
	}
}

// Tape is the loaded input followed by a single Blank. It is never mutated after
// construction.
type Tape struct {
	input   string
	symbols []Symbol
}

// NewTape splits input into runes and appends Blank.
func NewTape(input string) Tape {
	symbols := make([]Symbol, 0, utf8.RuneCountInString(input)+1)
	for _, r := range input {
		symbols = append(symbols, Symbol(r))
	}
	symbols = append(symbols, Blank)
	return Tape{input: input, symbols: symbols}
}

// Len returns the number of cells, including the trailing Blank.
func (t Tape) Len() int {
	return len(t.symbols)
}

// At returns the symbol at i and whether i is within bounds.
func (t Tape) At(i int) (Symbol, bool) {
	if i < 0 || i >= len(t.symbols) {
		return 0, false
	}
	return t.symbols[i], true
}

// Input returns the raw string the tape was built from.
func (t Tape) Input() string {
	return t.input
}

// Symbols returns a copy of the cells.
func (t Tape) Symbols() []Symbol {
	out := make([]Symbol, len(t.symbols))
	copy(out, t.symbols)
	return out
}

// Empty reports whether the tape holds no cells (nothing loaded).
func (t Tape) Empty() bool {
	return len(t.symbols) == 0
}
