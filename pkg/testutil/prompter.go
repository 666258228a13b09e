package testutil

import (
	"context"
	"fmt"

	"github.com/arthur-debert/pcc/pkg/ui/prompt"
)

// Answer is one canned response replayed by ScriptedPrompter.
type Answer struct {
	Kind   string
	Values []string
	Value  string
	Yes    bool
	Cancel bool
}

// Answer kinds.
const (
	KindMultiSelect = "multiselect"
	KindSelect      = "select"
	KindInput       = "input"
	KindConfirm     = "confirm"
)

// Pick answers a MultiSelect prompt.
func Pick(values ...string) Answer {
	return Answer{Kind: KindMultiSelect, Values: values}
}

// Choose answers a Select prompt.
func Choose(value string) Answer {
	return Answer{Kind: KindSelect, Value: value}
}

// Type answers an Input prompt.
func Type(value string) Answer {
	return Answer{Kind: KindInput, Value: value}
}

// Confirm answers a Confirm prompt.
func Confirm(yes bool) Answer {
	return Answer{Kind: KindConfirm, Yes: yes}
}

// Cancel aborts the prompt of the given kind.
func Cancel(kind string) Answer {
	return Answer{Kind: kind, Cancel: true}
}

// ScriptedPrompter implements prompt.Prompter by replaying answers in order.
// A prompt of the wrong kind, or one asked after the script ran out, fails
// with an error naming the message.
type ScriptedPrompter struct {
	answers []Answer
	// Asked records every prompt message in order.
	Asked []string
	// Options records the options offered by each Select and MultiSelect.
	Options [][]prompt.Option
	// Rejected records Input answers refused by the validator.
	Rejected []string
}

// NewScriptedPrompter returns a prompter replaying answers.
func NewScriptedPrompter(answers ...Answer) *ScriptedPrompter {
	return &ScriptedPrompter{answers: answers}
}

// Remaining returns the number of answers not consumed yet.
func (p *ScriptedPrompter) Remaining() int {
	return len(p.answers)
}

func (p *ScriptedPrompter) next(kind, message string) (Answer, error) {
	p.Asked = append(p.Asked, message)
	if len(p.answers) == 0 {
		return Answer{}, fmt.Errorf("unexpected %s prompt %q: script exhausted", kind, message)
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	if a.Kind != kind {
		return Answer{}, fmt.Errorf("unexpected %s prompt %q: scripted %s", kind, message, a.Kind)
	}
	if a.Cancel {
		return Answer{}, prompt.ErrCancelled
	}
	return a, nil
}

func (p *ScriptedPrompter) MultiSelect(_ context.Context, message string, options []prompt.Option, required bool) ([]string, error) {
	p.Options = append(p.Options, options)
	a, err := p.next(KindMultiSelect, message)
	if err != nil {
		return nil, err
	}
	if required && len(a.Values) == 0 {
		return nil, fmt.Errorf("empty selection for required prompt %q", message)
	}
	return a.Values, nil
}

func (p *ScriptedPrompter) Select(_ context.Context, message string, options []prompt.Option) (string, error) {
	p.Options = append(p.Options, options)
	a, err := p.next(KindSelect, message)
	if err != nil {
		return "", err
	}
	for _, o := range options {
		if o.Value == a.Value {
			return a.Value, nil
		}
	}
	return "", fmt.Errorf("scripted value %q is not an option of %q", a.Value, message)
}

// Input keeps consuming Input answers until one passes validate, the way a
// user retypes after a validation message.
func (p *ScriptedPrompter) Input(_ context.Context, message, _ string, validate func(string) error) (string, error) {
	for {
		a, err := p.next(KindInput, message)
		if err != nil {
			return "", err
		}
		if validate != nil {
			if verr := validate(a.Value); verr != nil {
				p.Rejected = append(p.Rejected, a.Value)
				continue
			}
		}
		return a.Value, nil
	}
}

func (p *ScriptedPrompter) Confirm(_ context.Context, message string, _ bool) (bool, error) {
	a, err := p.next(KindConfirm, message)
	if err != nil {
		return false, err
	}
	return a.Yes, nil
}

var _ prompt.Prompter = (*ScriptedPrompter)(nil)
