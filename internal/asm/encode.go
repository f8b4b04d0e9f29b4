// Completion: 100% - Encoder complete
package asm

import (
	"fmt"
	"io"
	"strings"

	"github.com/xyproto/las/internal/engine"
)

// encode.go - statement splitting and table-driven emission
//
// Source text is split into statements at newlines and semicolons. A
// trailing \r is dropped from each line so CRLF files work, and empty
// statements are skipped. Everything else must equal a table mnemonic byte
// for byte, blanks included. One unknown statement fails the whole unit.

// maxSuggestions is how many "did you mean" candidates an error carries
const maxSuggestions = 3

// Statement is one encoded source statement
type Statement struct {
	Line     int // 1-based source line
	Column   int // 1-based column of the first byte
	Offset   int // offset of Encoding in the machine code
	Text     string
	Encoding []byte
}

type sourceStatement struct {
	line   int
	column int
	text   string
}

func splitStatements(source string) []sourceStatement {
	var stmts []sourceStatement
	for lineIndex, line := range strings.Split(source, "\n") {
		line = strings.TrimSuffix(line, "\r")
		column := 1
		for _, part := range strings.Split(line, ";") {
			if part != "" {
				stmts = append(stmts, sourceStatement{
					line:   lineIndex + 1,
					column: column,
					text:   part,
				})
			}
			column += len(part) + 1
		}
	}
	return stmts
}

// MaxOutputSize is an upper bound on the code produced by n statements
func MaxOutputSize(n int) int {
	return n * MaxEncodingLength
}

// Listing encodes source and returns every statement with its offset and bytes
func Listing(source string) ([]Statement, error) {
	stmts := splitStatements(source)
	listing := make([]Statement, 0, len(stmts))
	offset := 0
	for _, stmt := range stmts {
		inst, ok := Lookup(stmt.text)
		if !ok {
			return nil, &UnrecognizedMnemonicError{
				Statement:   stmt.text,
				Line:        stmt.line,
				Column:      stmt.column,
				Suggestions: engine.SimilarWords(stmt.text, Mnemonics(), maxSuggestions),
			}
		}
		listing = append(listing, Statement{
			Line:     stmt.line,
			Column:   stmt.column,
			Offset:   offset,
			Text:     stmt.text,
			Encoding: append([]byte(nil), inst.Encoding...),
		})
		offset += inst.Len()
	}
	return listing, nil
}

// Encode translates source into machine code, statements in order.
// On error no bytes are returned.
func Encode(source string) ([]byte, error) {
	listing, err := Listing(source)
	if err != nil {
		return nil, err
	}
	size := 0
	for _, stmt := range listing {
		size += len(stmt.Encoding)
	}
	code := make([]byte, 0, size)
	for _, stmt := range listing {
		code = append(code, stmt.Encoding...)
	}
	return code, nil
}

// EncodeReader reads all of r and encodes it
func EncodeReader(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	return Encode(string(data))
}
