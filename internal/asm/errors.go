package asm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnrecognizedMnemonic is matched by every error for a statement that is not in the table
var ErrUnrecognizedMnemonic = errors.New("unrecognized mnemonic")

// UnrecognizedMnemonicError identifies the statement that failed to encode
type UnrecognizedMnemonicError struct {
	Statement   string
	Line        int // 1-based
	Column      int // 1-based, start of the statement on its line
	Suggestions []string
}

func (e *UnrecognizedMnemonicError) Error() string {
	msg := fmt.Sprintf("%d:%d: %s: %q", e.Line, e.Column, ErrUnrecognizedMnemonic, e.Statement)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + quoteJoin(e.Suggestions) + "?)"
	}
	return msg
}

// Is makes errors.Is(err, ErrUnrecognizedMnemonic) work
func (e *UnrecognizedMnemonicError) Is(target error) bool {
	return target == ErrUnrecognizedMnemonic
}

func quoteJoin(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = fmt.Sprintf("%q", w)
	}
	return strings.Join(quoted, " or ")
}
