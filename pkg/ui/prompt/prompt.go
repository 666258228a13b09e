// Package prompt provides the interactive questions pcc asks while
// classifying catalog dependencies.
//
// Prompter is the seam between the classification flow and the terminal:
// the CLI uses the bubbletea implementation returned by NewTerminal, tests
// drive the flow with a scripted implementation.
package prompt

import (
	"context"
	"errors"
)

// ErrCancelled is returned by every prompt the user aborts (Ctrl+C or Esc).
// It is a normal outcome, not a failure.
var ErrCancelled = errors.New("operation cancelled")

// Option is one selectable entry of a Select or MultiSelect prompt.
type Option struct {
	Value string
	Label string
	// Hint is shown dimmed next to the label.
	Hint string
}

// Prompter asks the user questions.
type Prompter interface {
	// MultiSelect returns the values of the chosen options. With required
	// set, an empty selection is refused.
	MultiSelect(ctx context.Context, message string, options []Option, required bool) ([]string, error)
	// Select returns the value of the chosen option.
	Select(ctx context.Context, message string, options []Option) (string, error)
	// Input returns free text accepted by validate. A nil validate accepts
	// anything.
	Input(ctx context.Context, message, placeholder string, validate func(string) error) (string, error)
	// Confirm returns the yes/no answer, defaulting to initial.
	Confirm(ctx context.Context, message string, initial bool) (bool, error)
}

// IsCancelled reports whether err is, or wraps, ErrCancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
