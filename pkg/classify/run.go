package classify

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pcc/pkg/catalog"
	"github.com/arthur-debert/pcc/pkg/logging"
	"github.com/arthur-debert/pcc/pkg/types"
	"github.com/arthur-debert/pcc/pkg/ui/prompt"
	"github.com/arthur-debert/pcc/pkg/workspace"
	"github.com/rs/zerolog"
)

// Category is a catalog name offered in the selection prompt.
type Category struct {
	Name        string
	Description string
}

// Options configures Run.
type Options struct {
	// Categories are offered after the catalogs already in the document.
	Categories []Category
	// Usage feeds the consumer hint of every dependency. Nil shows no hint.
	Usage types.UsageIndex
}

// Reason tells why Run stopped.
type Reason int

const (
	// ReasonConfirmed means the user accepted writing the session.
	ReasonConfirmed Reason = iota
	// ReasonNothingAssigned means no dependency was assigned.
	ReasonNothingAssigned
	// ReasonDeclined means the user refused the final write.
	ReasonDeclined
)

// Outcome is the result of a classification run that was not cancelled.
type Outcome struct {
	Session Session
	Reason  Reason
	// Definition is set when Reason is ReasonConfirmed.
	Definition *types.CatalogDefinition
}

// Confirmed reports whether the session should be written.
func (o *Outcome) Confirmed() bool {
	return o.Reason == ReasonConfirmed
}

// Run asks the user to split the flat catalog of doc into named catalogs.
// A cancelled prompt returns prompt.ErrCancelled. doc is only read.
func Run(ctx context.Context, p prompt.Prompter, doc *workspace.Document, opts Options) (*Outcome, error) {
	logger := logging.GetLogger("classify")
	defer logging.LogOperationStart(logger, "classify")()

	s := NewSession(doc)
	for !s.Done() {
		next, err := round(ctx, p, s, opts, logger)
		if err != nil {
			return nil, err
		}
		s = next
		if s.Done() {
			break
		}

		more, err := p.Confirm(ctx, MsgContinue, false)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	if len(s.batches) == 0 {
		return &Outcome{Session: s, Reason: ReasonNothingAssigned}, nil
	}

	write, err := p.Confirm(ctx, fmt.Sprintf(MsgConfirmWrite, filepath.Base(doc.Path())), true)
	if err != nil {
		return nil, err
	}
	if !write {
		return &Outcome{Session: s, Reason: ReasonDeclined}, nil
	}

	logger.Info().Strs("categories", s.Categories()).Msg("Classification confirmed")
	return &Outcome{Session: s, Reason: ReasonConfirmed, Definition: s.Definition()}, nil
}

// round asks for one batch. An empty selection or a refused placement
// leaves the session unchanged.
func round(ctx context.Context, p prompt.Prompter, s Session, opts Options, logger zerolog.Logger) (Session, error) {
	options := make([]prompt.Option, 0, len(s.remaining))
	for _, e := range s.remaining {
		opt := prompt.Option{
			Value: e.Name,
			Label: fmt.Sprintf("%s (%s)", e.Name, e.Version),
		}
		if opts.Usage != nil {
			opt.Hint = catalog.FormatUsage(opts.Usage, e.Name, catalog.DefaultUsageFormat)
		}
		options = append(options, opt)
	}

	choice, err := p.MultiSelect(ctx, MsgSelectDependencies, options, false)
	if err != nil {
		return s, err
	}
	if len(choice) == 0 {
		logger.Debug().Msg("Round skipped")
		return s, nil
	}

	name, err := chooseCatalog(ctx, p, s, opts.Categories)
	if err != nil {
		return s, err
	}

	ok, err := p.Confirm(ctx, fmt.Sprintf(MsgPlaceInCatalog, name), true)
	if err != nil {
		return s, err
	}
	if !ok {
		return s, nil
	}

	next, err := s.Assign(choice, name)
	if err != nil {
		return s, err
	}
	logger.Debug().Str("catalog", name).Strs("dependencies", choice).Msg("Dependencies assigned")
	return next, nil
}

// chooseCatalog offers the known catalogs, then the configured categories,
// then a free-form name.
func chooseCatalog(ctx context.Context, p prompt.Prompter, s Session, categories []Category) (string, error) {
	describe := make(map[string]string, len(categories))
	for _, c := range categories {
		describe[strings.ToLower(c.Name)] = c.Description
	}

	var options []prompt.Option
	seen := make(map[string]bool)
	for _, name := range s.existing {
		if seen[name] {
			continue
		}
		seen[name] = true
		options = append(options, prompt.Option{Value: name, Label: name, Hint: describe[strings.ToLower(name)]})
	}
	for _, c := range categories {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		options = append(options, prompt.Option{Value: c.Name, Label: c.Name, Hint: c.Description})
	}
	options = append(options, prompt.Option{Value: NewCatalogValue, Label: MsgNewCatalogLabel})

	name, err := p.Select(ctx, MsgSelectCatalog, options)
	if err != nil {
		return "", err
	}
	if name != NewCatalogValue {
		return name, nil
	}

	name, err = p.Input(ctx, MsgNewCatalogInput, "", func(v string) error {
		return ValidateName(v, seen)
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}

// ValidateName checks a typed catalog name against the names already
// offered.
func ValidateName(name string, taken map[string]bool) error {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return errors.New(ErrMsgEmptyName)
	case strings.Contains(name, ":"):
		return errors.New(ErrMsgReservedColon)
	case taken[name]:
		return errors.New(ErrMsgExistingName)
	}
	return nil
}
