// Package presenter renders hrassist command output: status lines, tables,
// skill trees and JSON documents, with color when the terminal supports it.
package presenter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/skillsys/hrassist/pkg/skills"
)

// ColorMode selects when output is colored
type ColorMode int

const (
	// ColorAuto colors output when stdout is a terminal
	ColorAuto ColorMode = iota
	// ColorAlways forces colored output
	ColorAlways
	// ColorNever disables colored output
	ColorNever
)

// TerminalPresenter writes user-facing output. Errors go to errorOutput,
// everything else to output. Quiet mode silences everything but errors and
// document output (JSON, tables, trees).
type TerminalPresenter struct {
	output      io.Writer
	errorOutput io.Writer
	input       io.Reader
	colorMode   ColorMode
	quiet       bool
}

// New creates a presenter on the process standard streams
func New() *TerminalPresenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions creates a presenter on custom writers
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *TerminalPresenter {
	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	}

	return &TerminalPresenter{
		output:      output,
		errorOutput: errorOutput,
		input:       os.Stdin,
		colorMode:   colorMode,
	}
}

// SetInput replaces the reader used by Confirm
func (p *TerminalPresenter) SetInput(r io.Reader) {
	p.input = r
}

func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}

	switch os.Getenv("HRASSIST_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Error writes err to the error output
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}

	c := color.New(color.FgRed, color.Bold)
	if context != "" {
		c.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
	} else {
		c.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
	}
}

// Success writes a confirmation line
func (p *TerminalPresenter) Success(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen, color.Bold).Fprintf(p.output, "✓ %s\n", message)
}

// Warning writes a warning line
func (p *TerminalPresenter) Warning(message string) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow, color.Bold).Fprintf(p.output, "⚠ %s\n", message)
}

// Info writes a plain line
func (p *TerminalPresenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.output, message)
}

// Section writes an underlined header
func (p *TerminalPresenter) Section(title string) {
	if p.quiet {
		return
	}
	c := color.New(color.Bold)
	c.Fprintln(p.output, title)
	c.Fprintln(p.output, strings.Repeat("-", len(title)))
}

// Confirm asks a yes/no question; anything but y or yes is a no
func (p *TerminalPresenter) Confirm(question string) bool {
	color.New(color.FgCyan).Fprintf(p.output, "%s [y/N]: ", question)

	answer, err := bufio.NewReader(p.input).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// Table writes rows aligned under a bold header
func (p *TerminalPresenter) Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(p.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, color.New(color.Bold).Sprint(strings.Join(headers, "\t")))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// Tree writes a skill file tree, one entry per line, indented by depth
func (p *TerminalPresenter) Tree(name string, entries []skills.TreeEntry) {
	color.New(color.Bold).Fprintf(p.output, "%s/\n", name)
	p.writeTree(entries, 1)
}

func (p *TerminalPresenter) writeTree(entries []skills.TreeEntry, depth int) {
	indent := strings.Repeat("  ", depth)
	dirColor := color.New(color.FgBlue, color.Bold)
	for _, e := range entries {
		base := e.Path[strings.LastIndex(e.Path, "/")+1:]
		if e.Type == skills.EntryTypeDir {
			dirColor.Fprintf(p.output, "%s%s/\n", indent, base)
			p.writeTree(e.Children, depth+1)
			continue
		}
		fmt.Fprintf(p.output, "%s%s (%d bytes)\n", indent, base, e.Size)
	}
}

// JSON writes v as indented JSON
func (p *TerminalPresenter) JSON(v any) error {
	enc := json.NewEncoder(p.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Stream writes text without a trailing newline, for incremental output
func (p *TerminalPresenter) Stream(text string) {
	fmt.Fprint(p.output, text)
}

// SetQuiet enables or disables quiet mode
func (p *TerminalPresenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet reports whether quiet mode is enabled
func (p *TerminalPresenter) IsQuiet() bool {
	return p.quiet
}

var defaultPresenter = New()

// Error writes err using the default presenter.
func Error(err error, context string) { defaultPresenter.Error(err, context) }

// Success writes a confirmation using the default presenter.
func Success(message string) { defaultPresenter.Success(message) }

// Warning writes a warning using the default presenter.
func Warning(message string) { defaultPresenter.Warning(message) }

// Info writes a line using the default presenter.
func Info(message string) { defaultPresenter.Info(message) }

// Section writes a header using the default presenter.
func Section(title string) { defaultPresenter.Section(title) }

// Confirm asks a yes/no question using the default presenter.
func Confirm(question string) bool { return defaultPresenter.Confirm(question) }

// Table writes rows using the default presenter.
func Table(headers []string, rows [][]string) { defaultPresenter.Table(headers, rows) }

// Tree writes a skill tree using the default presenter.
func Tree(name string, entries []skills.TreeEntry) { defaultPresenter.Tree(name, entries) }

// JSON writes v using the default presenter.
func JSON(v any) error { return defaultPresenter.JSON(v) }

// Stream writes partial text using the default presenter.
func Stream(text string) { defaultPresenter.Stream(text) }

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) { defaultPresenter.SetQuiet(quiet) }

// IsQuiet reports quiet mode of the default presenter.
func IsQuiet() bool { return defaultPresenter.IsQuiet() }
