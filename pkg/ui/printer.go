// Package ui renders pcc output: status lines, dependency tables, backup
// listings and markdown notices.
//
// A Printer either styles its output for a terminal (pterm prefixes and
// tables, lipgloss styles, glamour markdown) or writes plain text, so that
// piped output and tests see stable content.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/pcc/pkg/ui/styles"
	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
)

// Printer writes user facing output.
type Printer struct {
	out    io.Writer
	styled bool
	width  int
}

// NewPrinter returns a printer writing to out. FormatAuto is resolved
// against out.
func NewPrinter(out io.Writer, format Format) *Printer {
	p := &Printer{
		out:    out,
		styled: Resolve(format, out) == FormatTerminal,
	}
	if p.styled {
		p.width = pterm.GetTerminalWidth()
	}
	return p
}

// Styled reports whether the printer emits terminal styling.
func (p *Printer) Styled() bool {
	return p.styled
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Println writes a raw line.
func (p *Printer) Println(a ...interface{}) {
	_, _ = fmt.Fprintln(p.out, a...)
}

// Intro opens a flow with a title line.
func (p *Printer) Intro(title string) {
	if p.styled {
		p.Println(styles.Render("Muted", "┌ ") + styles.Render("Title", title))
		return
	}
	p.Println(title)
}

// Outro closes a flow.
func (p *Printer) Outro(msg string) {
	if p.styled {
		p.Println(styles.Render("Muted", "└ ") + msg)
		return
	}
	p.Println(msg)
}

// Section prints a heading above a table.
func (p *Printer) Section(title string) {
	if p.styled {
		p.Println(styles.Render("Title", "["+title+"]"))
		return
	}
	p.Println("[" + title + "]")
}

// Success prints a success message.
func (p *Printer) Success(msg string) {
	if p.styled {
		_, _ = fmt.Fprint(p.out, pterm.Success.Sprintln(msg))
		return
	}
	p.Println(msg)
}

// Info prints an informational message.
func (p *Printer) Info(msg string) {
	if p.styled {
		_, _ = fmt.Fprint(p.out, pterm.Info.Sprintln(msg))
		return
	}
	p.Println(msg)
}

// Warning prints a warning.
func (p *Printer) Warning(msg string) {
	if p.styled {
		_, _ = fmt.Fprint(p.out, pterm.Warning.Sprintln(msg))
		return
	}
	p.Println("warning: " + msg)
}

// Error prints an error message.
func (p *Printer) Error(msg string) {
	if p.styled {
		_, _ = fmt.Fprint(p.out, pterm.Error.Sprintln(msg))
		return
	}
	p.Println("error: " + msg)
}

// Table prints rows under header. Nothing is printed for zero rows.
func (p *Printer) Table(header []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	data := make(pterm.TableData, 0, len(rows)+1)
	data = append(data, header)
	data = append(data, rows...)

	table := pterm.DefaultTable.WithHasHeader().WithData(data)
	if p.styled {
		table = table.WithBoxed()
	} else {
		plain := pterm.NewStyle()
		table = table.
			WithStyle(plain).
			WithHeaderStyle(plain).
			WithSeparatorStyle(plain).
			WithHeaderRowSeparatorStyle(plain)
	}

	rendered, err := table.Srender()
	if err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	p.Println(strings.TrimRight(rendered, "\n"))
	return nil
}

// Markdown renders content with glamour on a terminal and prints it as is
// otherwise.
func (p *Printer) Markdown(content string) {
	if !p.styled {
		p.Println(strings.TrimRight(content, "\n"))
		return
	}

	options := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if p.width > 0 {
		options = append(options, glamour.WithWordWrap(p.width))
	}
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		p.Println(content)
		return
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		p.Println(content)
		return
	}
	_, _ = fmt.Fprint(p.out, rendered)
}

// Progress starts a spinner on a terminal and returns the function that
// stops it with a final message. Without styling only the final message
// is printed.
func (p *Printer) Progress(text string) func(done string) {
	if !p.styled {
		return func(done string) {
			if done != "" {
				p.Println(done)
			}
		}
	}

	spinner, err := pterm.DefaultSpinner.WithWriter(p.out).WithRemoveWhenDone(true).Start(text)
	if err != nil {
		return func(done string) { p.Success(done) }
	}
	return func(done string) {
		_ = spinner.Stop()
		if done != "" {
			p.Success(done)
		}
	}
}
