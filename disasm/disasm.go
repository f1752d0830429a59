// Package disasm renders raw 8080 opcode bytes as assembly mnemonics, for
// the trace log and the interactive debugger. It has no effect on
// execution; Disassemble is pure and side-effect free.
package disasm

import "fmt"

// regNames indexes the eight 8080 register-field encodings used throughout
// the opcode map: B C D E H L M A, where M means memory-via-HL.
var regNames = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

// rpNames indexes the four register-pair encodings used by LXI/DAD/INX/DCX
// et al. PSW only ever appears in PUSH/POP, handled separately.
var rpNames = [4]string{"B", "D", "H", "SP"}

// table holds one entry per opcode. Every entry starts as a NOP formatter;
// the bytes init does not override (the ten official "unused" opcodes, and
// 0x20/0x30, which the cpu package rejects as RIM/SIM) disassemble as NOP.
var table [256]func(op1, op2 byte) string

func init() {
	for i := range table {
		table[i] = func(byte, byte) string { return "NOP" }
	}

	table[0x00] = func(byte, byte) string { return "NOP" }
	table[0x76] = func(byte, byte) string { return "HLT" }
	table[0x07] = func(byte, byte) string { return "RLC" }
	table[0x0f] = func(byte, byte) string { return "RRC" }
	table[0x17] = func(byte, byte) string { return "RAL" }
	table[0x1f] = func(byte, byte) string { return "RAR" }
	table[0x27] = func(byte, byte) string { return "DAA" }
	table[0x2f] = func(byte, byte) string { return "CMA" }
	table[0x37] = func(byte, byte) string { return "STC" }
	table[0x3f] = func(byte, byte) string { return "CMC" }
	table[0xe9] = func(byte, byte) string { return "PCHL" }
	table[0xf9] = func(byte, byte) string { return "SPHL" }
	table[0xeb] = func(byte, byte) string { return "XCHG" }
	table[0xe3] = func(byte, byte) string { return "XTHL" }
	table[0xf3] = func(byte, byte) string { return "DI" }
	table[0xfb] = func(byte, byte) string { return "EI" }
	table[0xc9] = func(byte, byte) string { return "RET" }
	table[0xcd] = func(lo, hi byte) string { return addr("CALL", lo, hi) }
	table[0xc3] = func(lo, hi byte) string { return addr("JMP", lo, hi) }
	table[0x32] = func(lo, hi byte) string { return addr("STA", lo, hi) }
	table[0x3a] = func(lo, hi byte) string { return addr("LDA", lo, hi) }
	table[0x22] = func(lo, hi byte) string { return addr("SHLD", lo, hi) }
	table[0x2a] = func(lo, hi byte) string { return addr("LHLD", lo, hi) }

	// MOV r1,r2: 01dddsss, d/s in [0,7]x[0,7] except 0x76 (HLT, set above).
	for d := byte(0); d < 8; d++ {
		for s := byte(0); s < 8; s++ {
			op := 0x40 | d<<3 | s
			if op == 0x76 {
				continue
			}
			dst, src := regNames[d], regNames[s]
			table[op] = func(byte, byte) string { return fmt.Sprintf("MOV %s,%s", dst, src) }
		}
	}

	// MVI r,d8: 00ddd110
	for d := byte(0); d < 8; d++ {
		dst := regNames[d]
		table[0x06|d<<3] = func(imm, _ byte) string { return fmt.Sprintf("MVI %s,#$%02x", dst, imm) }
	}

	// INR/DCR r: 00ddd100 / 00ddd101
	for d := byte(0); d < 8; d++ {
		dst := regNames[d]
		table[0x04|d<<3] = func(byte, byte) string { return "INR " + dst }
		table[0x05|d<<3] = func(byte, byte) string { return "DCR " + dst }
	}

	// register-pair group: LXI/INX/DCX/DAD/STAX/LDAX/PUSH/POP
	for p := byte(0); p < 4; p++ {
		rp := rpNames[p]
		table[0x01|p<<4] = func(lo, hi byte) string { return fmt.Sprintf("LXI %s,#$%04x", rp, word(lo, hi)) }
		table[0x03|p<<4] = func(byte, byte) string { return "INX " + rp }
		table[0x0b|p<<4] = func(byte, byte) string { return "DCX " + rp }
		table[0x09|p<<4] = func(byte, byte) string { return "DAD " + rp }
	}
	table[0x02] = func(byte, byte) string { return "STAX B" }
	table[0x12] = func(byte, byte) string { return "STAX D" }
	table[0x0a] = func(byte, byte) string { return "LDAX B" }
	table[0x1a] = func(byte, byte) string { return "LDAX D" }

	pushPopNames := [4]string{"B", "D", "H", "PSW"}
	for p := byte(0); p < 4; p++ {
		rp := pushPopNames[p]
		table[0xc5|p<<4] = func(byte, byte) string { return "PUSH " + rp }
		table[0xc1|p<<4] = func(byte, byte) string { return "POP " + rp }
	}

	// ALU a,r group: 10ooorrr, ooo selects the operation.
	aluNames := [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
	for o := byte(0); o < 8; o++ {
		for r := byte(0); r < 8; r++ {
			op := 0x80 | o<<3 | r
			mnem, src := aluNames[o], regNames[r]
			table[op] = func(byte, byte) string { return mnem + " " + src }
		}
	}

	// ALU a,#imm group: 11ooo110
	aluImmNames := [8]string{"ADI", "ACI", "SUI", "SBI", "ANI", "XRI", "ORI", "CPI"}
	for o := byte(0); o < 8; o++ {
		mnem := aluImmNames[o]
		table[0xc6|o<<3] = func(imm, _ byte) string { return fmt.Sprintf("%s #$%02x", mnem, imm) }
	}

	// RST n: 11nnn111
	for n := byte(0); n < 8; n++ {
		n := n
		table[0xc7|n<<3] = func(byte, byte) string { return fmt.Sprintf("RST %d", n) }
	}

	// conditional JMP/CALL/RET: 11ccc010/100/000, ccc selects the condition.
	ccNames := [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
	for c := byte(0); c < 8; c++ {
		cc := ccNames[c]
		table[0xc2|c<<3] = func(lo, hi byte) string { return fmt.Sprintf("J%s $%04x", cc, word(lo, hi)) }
		table[0xc4|c<<3] = func(lo, hi byte) string { return fmt.Sprintf("C%s $%04x", cc, word(lo, hi)) }
		table[0xc0|c<<3] = func(byte, byte) string { return "R" + cc }
	}

	table[0xd3] = func(imm, _ byte) string { return fmt.Sprintf("OUT #$%02x", imm) }
	table[0xdb] = func(imm, _ byte) string { return fmt.Sprintf("IN #$%02x", imm) }
}

func word(lo, hi byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func addr(mnemonic string, lo, hi byte) string {
	return fmt.Sprintf("%s $%04x", mnemonic, word(lo, hi))
}

// Disassemble formats a three-byte instruction window as a mnemonic.
// op[1] and op[2] are consulted only for opcodes whose length is 2 or 3;
// callers may pass zeros for the bytes past the end of a shorter
// instruction.
func Disassemble(op [3]byte) string {
	return table[op[0]](op[1], op[2])
}
