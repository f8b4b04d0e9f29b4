// Completion: 100% - Instruction table complete
package asm

// Fixed-form x86-64 instructions.
//
// Each entry is a complete statement, operands included. "mov rax, rbx" is
// one opaque key, not "mov" plus two register operands.

// MaxEncodingLength is the longest encoding an Instruction may have
const MaxEncodingLength = 10

// Instruction maps one mnemonic to its machine code
type Instruction struct {
	Mnemonic string
	Encoding []byte
}

// Len returns the number of bytes the instruction encodes to
func (i Instruction) Len() int {
	return len(i.Encoding)
}

// instructionTable is ordered by lookup priority. Mnemonics are unique.
var instructionTable = []Instruction{
	// Control
	{"cli", []byte{0xFA}},
	{"sti", []byte{0xFB}},
	{"hlt", []byte{0xF4}},
	{"nop", []byte{0x90}},
	{"ret", []byte{0xC3}},
	{"syscall", []byte{0x0F, 0x05}},

	// Stack: PUSH 0x50+reg, POP 0x58+reg
	{"push rax", []byte{0x50}},
	{"push rbx", []byte{0x53}},
	{"push rcx", []byte{0x51}},
	{"push rdx", []byte{0x52}},
	{"push rbp", []byte{0x55}},
	{"push rsi", []byte{0x56}},
	{"push rdi", []byte{0x57}},
	{"push rsp", []byte{0x54}},
	{"pop rax", []byte{0x58}},
	{"pop rbx", []byte{0x5B}},
	{"pop rcx", []byte{0x59}},
	{"pop rdx", []byte{0x5A}},
	{"pop rbp", []byte{0x5D}},
	{"pop rsi", []byte{0x5E}},
	{"pop rdi", []byte{0x5F}},
	{"pop rsp", []byte{0x5C}},

	// Arithmetic / logical, REX.W + opcode + ModR/M (11 src dst)
	{"xor rax, rax", []byte{0x48, 0x31, 0xC0}},
	{"xor rcx, rcx", []byte{0x48, 0x31, 0xC9}},
	{"xor rdx, rdx", []byte{0x48, 0x31, 0xD2}},
	{"add rax, rbx", []byte{0x48, 0x01, 0xD8}},
	{"sub rax, rbx", []byte{0x48, 0x29, 0xD8}},
	{"inc rax", []byte{0x48, 0xFF, 0xC0}},
	{"dec rax", []byte{0x48, 0xFF, 0xC8}},

	// Moves, MOV r/m64, r64 (0x89)
	{"mov rax, rbx", []byte{0x48, 0x89, 0xD8}},
	{"mov rbx, rax", []byte{0x48, 0x89, 0xC3}},
	{"mov rcx, rax", []byte{0x48, 0x89, 0xC1}},
	{"mov rax, rcx", []byte{0x48, 0x89, 0xC8}},

	// Indirect call and jump, 0xFF /2 and /4
	{"call rax", []byte{0xFF, 0xD0}},
	{"jmp rax", []byte{0xFF, 0xE0}},
	{"jmp rcx", []byte{0xFF, 0xE1}},
}

// Table returns a copy of the instruction table in lookup order
func Table() []Instruction {
	table := make([]Instruction, len(instructionTable))
	for i, inst := range instructionTable {
		table[i] = Instruction{
			Mnemonic: inst.Mnemonic,
			Encoding: append([]byte(nil), inst.Encoding...),
		}
	}
	return table
}

// Mnemonics returns every mnemonic in lookup order
func Mnemonics() []string {
	names := make([]string, len(instructionTable))
	for i, inst := range instructionTable {
		names[i] = inst.Mnemonic
	}
	return names
}

// Lookup finds the instruction whose mnemonic equals s exactly.
// The returned encoding is shared with the table and must not be modified.
func Lookup(s string) (Instruction, bool) {
	for _, inst := range instructionTable {
		if inst.Mnemonic == s {
			return inst, true
		}
	}
	return Instruction{}, false
}
