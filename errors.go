// Completion: 100% - Diagnostics complete
package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xyproto/las/internal/asm"
	"github.com/xyproto/las/internal/pe"
)

// ErrorLevel is how serious a diagnostic is
type ErrorLevel int

const (
	LevelWarning ErrorLevel = iota
	LevelError
)

var levelNames = [...]string{LevelWarning: "warning", LevelError: "error"}

func (l ErrorLevel) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ErrorCategory says which stage of a build failed
type ErrorCategory int

const (
	CategorySyntax   ErrorCategory = iota // a statement did not match the table
	CategoryImage                         // the image could not be laid out
	CategoryIO                            // the output file could not be written
	CategoryInternal                      // anything else
)

var categoryNames = [...]string{
	CategorySyntax:   "syntax",
	CategoryImage:    "image",
	CategoryIO:       "io",
	CategoryInternal: "internal",
}

func (c ErrorCategory) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// SourceLocation points at a statement in an assembly file
type SourceLocation struct {
	File   string
	Line   int
	Column int
	Length int // bytes to underline
}

func (loc SourceLocation) String() string {
	pos := fmt.Sprintf("%d:%d", loc.Line, loc.Column)
	if loc.File != "" {
		pos = loc.File + ":" + pos
	}
	return pos
}

// ErrorContext is the extra text printed under a diagnostic
type ErrorContext struct {
	SourceLine string // the offending line, verbatim
	Suggestion string // printed after "help:"
	HelpText   string // printed after "note:"
}

// CompilerError is a diagnostic ready to be shown to the user
type CompilerError struct {
	Level    ErrorLevel
	Category ErrorCategory
	Message  string
	Location SourceLocation
	Context  ErrorContext
	Err      error // the error being reported
}

func (e *CompilerError) Error() string {
	if e.Location.Line == 0 {
		return e.Message
	}
	return e.Location.String() + ": " + e.Message
}

func (e *CompilerError) Unwrap() error {
	return e.Err
}

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[1;31m"
	ansiGreen = "\033[1;32m"
	ansiBlue  = "\033[1;34m"
	ansiCyan  = "\033[1;36m"
)

// Format renders the diagnostic with a source excerpt and a caret under the
// statement, in the style of rustc
func (e *CompilerError) Format(useColor bool) string {
	paint := func(code, text string) string {
		if !useColor {
			return text
		}
		return code + text + ansiReset
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%s\n", paint(ansiRed, e.Level.String()+": "), e.Message)

	if e.Location.Line > 0 {
		fmt.Fprintf(&sb, "%s\n", paint(ansiBlue, "  --> "+e.Location.String()))
	}

	if e.Context.SourceLine != "" {
		gutter := strconv.Itoa(e.Location.Line)
		blank := strings.Repeat(" ", len(gutter)+1)
		fmt.Fprintf(&sb, "%s|\n", blank)
		fmt.Fprintf(&sb, "%s | %s\n", gutter, e.Context.SourceLine)
		fmt.Fprintf(&sb, "%s| ", blank)
		if e.Location.Column > 0 {
			sb.WriteString(strings.Repeat(" ", e.Location.Column-1))
			sb.WriteString(paint(ansiRed, strings.Repeat("^", max(e.Location.Length, 1))))
		}
		sb.WriteByte('\n')
	}

	if e.Context.Suggestion != "" {
		fmt.Fprintf(&sb, "%s%s\n", paint(ansiGreen, "   help: "), e.Context.Suggestion)
	}
	if e.Context.HelpText != "" {
		fmt.Fprintf(&sb, "%s%s\n", paint(ansiCyan, "   note: "), e.Context.HelpText)
	}
	return sb.String()
}

// sourceLine extracts a specific line from source code
func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[lineNum-1], "\r")
}

// diagnose wraps err from encoding or building filename into a CompilerError
func diagnose(err error, filename, source string) *CompilerError {
	var ce *CompilerError
	if errors.As(err, &ce) {
		return ce
	}

	var umErr *asm.UnrecognizedMnemonicError
	if errors.As(err, &umErr) {
		diag := &CompilerError{
			Level:    LevelError,
			Category: CategorySyntax,
			Message:  fmt.Sprintf("unrecognized instruction %q", umErr.Statement),
			Location: SourceLocation{
				File:   filename,
				Line:   umErr.Line,
				Column: umErr.Column,
				Length: len(umErr.Statement),
			},
			Context: ErrorContext{
				SourceLine: sourceLine(source, umErr.Line),
				HelpText:   "statements must match a table entry exactly; run 'las table' to list them",
			},
			Err: err,
		}
		if len(umErr.Suggestions) > 0 {
			diag.Context.Suggestion = fmt.Sprintf("did you mean '%s'?", umErr.Suggestions[0])
		}
		return diag
	}

	diag := &CompilerError{
		Level:    LevelError,
		Category: CategoryInternal,
		Message:  err.Error(),
		Err:      err,
	}
	switch {
	case errors.Is(err, pe.ErrImageTooLarge):
		diag.Category = CategoryImage
		diag.Context.HelpText = "raise the staging buffer limit with LAS_MAX_IMAGE_SIZE"
	case errors.Is(err, pe.ErrInvalidArgument):
		diag.Category = CategoryImage
	case errors.Is(err, pe.ErrIO):
		diag.Category = CategoryIO
	}
	return diag
}
