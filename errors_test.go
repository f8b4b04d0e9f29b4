package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/xyproto/las/internal/asm"
	"github.com/xyproto/las/internal/pe"
)

func TestDiagnoseUnrecognizedMnemonic(t *testing.T) {
	source := "push rbp\npush rbp;pusj rax\nret\n"
	_, err := asm.Encode(source)
	if err == nil {
		t.Fatal("expected an encoding error")
	}

	ce := diagnose(err, "prog.s", source)
	if ce.Category != CategorySyntax || ce.Level != LevelError {
		t.Errorf("got %s %s, want syntax error", ce.Category, ce.Level)
	}
	if ce.Location.Line != 2 || ce.Location.Column != 10 || ce.Location.Length != len("pusj rax") {
		t.Errorf("location = %+v", ce.Location)
	}
	if ce.Context.SourceLine != "push rbp;pusj rax" {
		t.Errorf("source line = %q", ce.Context.SourceLine)
	}
	if ce.Context.Suggestion != "did you mean 'push rax'?" {
		t.Errorf("suggestion = %q", ce.Context.Suggestion)
	}
	if !errors.Is(ce, asm.ErrUnrecognizedMnemonic) {
		t.Error("diagnostic should unwrap to ErrUnrecognizedMnemonic")
	}
	if got := ce.Error(); got != `prog.s:2:10: unrecognized instruction "pusj rax"` {
		t.Errorf("Error() = %q", got)
	}

	if again := diagnose(ce, "other.s", ""); again != ce {
		t.Error("diagnose should pass an existing CompilerError through")
	}
}

func TestCompilerErrorFormat(t *testing.T) {
	source := "push rbp\npush rbp;pusj rax\n"
	_, err := asm.Encode(source)
	ce := diagnose(err, "prog.s", source)

	plain := ce.Format(false)
	for _, want := range []string{
		"error: unrecognized instruction \"pusj rax\"\n",
		"  --> prog.s:2:10\n",
		"2 | push rbp;pusj rax\n",
		"  |          ^^^^^^^^\n",
		"   help: did you mean 'push rax'?\n",
		"   note: ",
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("formatted error is missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "\033[") {
		t.Error("plain output should not contain escape codes")
	}

	colored := ce.Format(true)
	if !strings.Contains(colored, "\033[1;31merror: \033[0m") {
		t.Errorf("colored output is missing the red header:\n%q", colored)
	}
}

func TestDiagnoseImageErrors(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCategory
	}{
		{&pe.ImageTooLargeError{FileSize: 0x2200, Capacity: 0x2000}, CategoryImage},
		{fmt.Errorf("empty: %w", pe.ErrInvalidArgument), CategoryImage},
		{&pe.IOError{Op: "write", Path: "out.exe", Err: errors.New("disk full")}, CategoryIO},
		{errors.New("something else"), CategoryInternal},
	}
	for _, tt := range tests {
		ce := diagnose(tt.err, "prog.s", "ret")
		if ce.Category != tt.want {
			t.Errorf("diagnose(%v): category %s, want %s", tt.err, ce.Category, tt.want)
		}
		if ce.Location.Line != 0 || ce.Error() != tt.err.Error() {
			t.Errorf("diagnose(%v): Error() = %q", tt.err, ce.Error())
		}
		if !errors.Is(ce, tt.err) {
			t.Errorf("diagnose(%v) should wrap the original error", tt.err)
		}
	}
}

func TestSourceLine(t *testing.T) {
	source := "ret\r\nnop\n"
	tests := []struct {
		line int
		want string
	}{
		{1, "ret"},
		{2, "nop"},
		{3, ""},
		{4, ""},
		{0, ""},
	}
	for _, tt := range tests {
		if got := sourceLine(source, tt.line); got != tt.want {
			t.Errorf("sourceLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
