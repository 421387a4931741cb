// Package cli provides terminal utilities for the storefront app: colored
// output, interactive prompts and the confirmation gate used before
// destructive cart actions.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
)

// Terminal reads prompts from in and writes to out.
type Terminal struct {
	in       *bufio.Reader
	out      io.Writer
	colorize bool
}

// NewTerminal creates a terminal over the given streams.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:       bufio.NewReader(in),
		out:      out,
		colorize: isTerminal(out),
	}
}

// DisableColor disables colored output.
func (t *Terminal) DisableColor() *Terminal {
	t.colorize = false
	return t
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func (t *Terminal) paint(color, s string) string {
	if !t.colorize {
		return s
	}
	return color + s + ColorReset
}

// Printf writes formatted text.
func (t *Terminal) Printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

// Println writes a line.
func (t *Terminal) Println(args ...interface{}) {
	fmt.Fprintln(t.out, args...)
}

// Title writes a bold section heading.
func (t *Terminal) Title(s string) {
	fmt.Fprintln(t.out, t.paint(ColorBold, s))
}

// Success writes a green message.
func (t *Terminal) Success(format string, args ...interface{}) {
	fmt.Fprintln(t.out, t.paint(ColorGreen, fmt.Sprintf(format, args...)))
}

// Errorf writes a red message.
func (t *Terminal) Errorf(format string, args ...interface{}) {
	fmt.Fprintln(t.out, t.paint(ColorRed, fmt.Sprintf(format, args...)))
}

// Warnf writes a yellow message.
func (t *Terminal) Warnf(format string, args ...interface{}) {
	fmt.Fprintln(t.out, t.paint(ColorYellow, fmt.Sprintf(format, args...)))
}

// Prompt asks for one line of input and returns it trimmed.
func (t *Terminal) Prompt(label string) string {
	fmt.Fprintf(t.out, "%s: ", label)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

// PromptInt asks for an integer.
func (t *Terminal) PromptInt(label string) (int, error) {
	raw := t.Prompt(label)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("cli: %q is not a number", raw)
	}
	return n, nil
}

// Confirm asks a yes/no question and returns true only on an explicit yes.
func (t *Terminal) Confirm(prompt string) bool {
	fmt.Fprintf(t.out, "%s [y/N]: ", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Money formats an amount the way the storefront displays prices.
func Money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
