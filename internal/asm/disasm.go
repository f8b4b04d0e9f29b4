package asm

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// DecodedInstruction is one instruction recovered from machine code
type DecodedInstruction struct {
	Offset int
	Bytes  []byte
	Op     string // lower case opcode name, "push"
	Text   string // Intel syntax, "push rax"
}

// Disassemble decodes 64-bit code until it is exhausted.
// Instructions decoded before a failure are returned along with the error.
func Disassemble(code []byte) ([]DecodedInstruction, error) {
	var decoded []DecodedInstruction
	for offset := 0; offset < len(code); {
		inst, err := x86asm.Decode(code[offset:], 64)
		if err != nil {
			return decoded, fmt.Errorf("failed to decode at offset 0x%x: %w", offset, err)
		}
		if inst.Op == 0 {
			// a cut-off instruction comes back as its first byte with no Op
			return decoded, fmt.Errorf("failed to decode at offset 0x%x: %w", offset, x86asm.ErrTruncated)
		}
		decoded = append(decoded, DecodedInstruction{
			Offset: offset,
			Bytes:  code[offset : offset+inst.Len],
			Op:     strings.ToLower(inst.Op.String()),
			Text:   x86asm.IntelSyntax(inst, uint64(offset), nil),
		})
		offset += inst.Len
	}
	return decoded, nil
}
