package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// ErrInputTooLong is matched by InputTooLongError.
var ErrInputTooLong = errors.New("input too long")

// ErrUnknownPolicy is returned when a transition policy name is not registered.
var ErrUnknownPolicy = errors.New("unknown policy")

// InvalidInputError is returned by Load for input that cannot form a tape.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InputTooLongError is returned by Load when the input exceeds the configured limit.
type InputTooLongError struct {
	Length int
	Max    int
}

func (e *InputTooLongError) Error() string {
	return fmt.Sprintf("input too long: %d characters (max %d)", e.Length, e.Max)
}

func (e *InputTooLongError) Is(target error) bool {
	return target == ErrInputTooLong
}
