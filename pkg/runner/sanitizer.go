package runner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLineSize bounds a single line read from a console or batch file.
const MaxLineSize = 1024

var (
	ErrLineTooLarge = errors.New("line exceeds maximum allowed size")
	ErrInvalidUTF8  = errors.New("line contains invalid UTF-8 sequences")
)

// SanitizeLine prepares a line of user input for Load: it enforces a size limit,
// validates UTF-8, strips control characters and trims surrounding whitespace.
// Length rules of the automaton itself are left to Load.
func SanitizeLine(line string) (string, error) {
	if len(line) > MaxLineSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrLineTooLarge, len(line), MaxLineSize)
	}
	if !utf8.ValidString(line) {
		return "", ErrInvalidUTF8
	}

	// Fast path: if no control chars, only trim.
	clean := true
	for _, r := range line {
		if unicode.IsControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return strings.TrimSpace(line), nil
	}

	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String()), nil
}
