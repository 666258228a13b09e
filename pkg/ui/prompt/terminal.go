package prompt

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultPageSize is the number of options visible at once.
const DefaultPageSize = 12

// Terminal asks questions with bubbletea programs reading from In and
// rendering to Out.
type Terminal struct {
	in       io.Reader
	out      io.Writer
	pageSize int
}

// NewTerminal returns a Prompter over in and out. A pageSize below one uses
// DefaultPageSize.
func NewTerminal(in io.Reader, out io.Writer, pageSize int) *Terminal {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Terminal{in: in, out: out, pageSize: pageSize}
}

var _ Prompter = (*Terminal)(nil)

// MultiSelect implements Prompter.
func (t *Terminal) MultiSelect(ctx context.Context, message string, options []Option, required bool) ([]string, error) {
	m, err := t.run(ctx, newListModel(message, options, true, required, t.pageSize))
	if err != nil {
		return nil, err
	}
	return m.(*listModel).values(), nil
}

// Select implements Prompter.
func (t *Terminal) Select(ctx context.Context, message string, options []Option) (string, error) {
	m, err := t.run(ctx, newListModel(message, options, false, true, t.pageSize))
	if err != nil {
		return "", err
	}
	values := m.(*listModel).values()
	if len(values) == 0 {
		return "", ErrCancelled
	}
	return values[0], nil
}

// Input implements Prompter.
func (t *Terminal) Input(ctx context.Context, message, placeholder string, validate func(string) error) (string, error) {
	m, err := t.run(ctx, newInputModel(message, placeholder, validate))
	if err != nil {
		return "", err
	}
	return m.(*inputModel).value(), nil
}

// Confirm implements Prompter.
func (t *Terminal) Confirm(ctx context.Context, message string, initial bool) (bool, error) {
	m, err := t.run(ctx, newConfirmModel(message, initial))
	if err != nil {
		return false, err
	}
	return m.(*confirmModel).answer, nil
}

// cancellable is implemented by every prompt model.
type cancellable interface {
	tea.Model
	cancelled() bool
}

func (t *Terminal) run(ctx context.Context, model cancellable) (tea.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil, ErrCancelled
		}
		return nil, err
	}
	if m, ok := final.(cancellable); !ok || m.cancelled() {
		return nil, ErrCancelled
	}
	return final, nil
}
