package cpu

import "github.com/ScottAndre/spinv-emulator/mask"

// RegID names one of the eight operand slots MOV, the ALU group, INR/DCR
// and MVI select between. M is not a physical register: it is the byte at
// the address formed by H and L, routed through memory on every access.
type RegID byte

const (
	RegB RegID = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegM
	RegA
)

// RegPair names one of the four 16-bit register pairs used by
// LXI/INX/DCX/DAD/PUSH/POP/STAX/LDAX. SP only ever appears on its own in
// LXI/INX/DCX/DAD; PUSH/POP use PSW instead of SP in that slot.
type RegPair byte

const (
	PairBC RegPair = iota
	PairDE
	PairHL
	PairSP
)

// Flags holds the five condition bits the 8080 actually implements. There
// is deliberately no unified "Flags byte" field: PSW packing only happens
// at the two places that need it (PUSH PSW, POP PSW), and forcing every
// flag read through a byte would just make the 40-odd instructions that
// touch one or two flags clumsier to write.
type Flags struct {
	Z  bool // zero
	S  bool // sign (bit 7 of the result)
	P  bool // parity (even number of set bits)
	CY bool // carry
	AC bool // auxiliary carry (BCD half-carry, consumed by DAA)
}

// PSW bit positions (1-indexed, MSB-first, per mask's convention) within the
// packed Program Status Word byte pushed by PUSH PSW and read back by POP
// PSW. Position 7 is wired high and positions 3 and 5 are wired low on real
// hardware; POP PSW ignores them on read, but PUSH PSW must still produce
// them for a byte-identical round trip through memory.
const (
	pswPosS         = mask.I1
	pswPosZ         = mask.I2
	pswPosAC        = mask.I4
	pswPosP         = mask.I6
	pswPosAlwaysOne = mask.I7
	pswPosCY        = mask.I8
)

// Byte packs Flags into the Program Status Word layout.
func (f Flags) Byte() byte {
	b := mask.Set(0, pswPosAlwaysOne, 1)
	if f.CY {
		b = mask.Set(b, pswPosCY, 1)
	}
	if f.P {
		b = mask.Set(b, pswPosP, 1)
	}
	if f.AC {
		b = mask.Set(b, pswPosAC, 1)
	}
	if f.Z {
		b = mask.Set(b, pswPosZ, 1)
	}
	if f.S {
		b = mask.Set(b, pswPosS, 1)
	}
	return b
}

// FlagsFromByte unpacks a Program Status Word byte back into Flags,
// discarding the wired bits.
func FlagsFromByte(b byte) Flags {
	return Flags{
		CY: mask.IsSet(b, pswPosCY),
		P:  mask.IsSet(b, pswPosP),
		AC: mask.IsSet(b, pswPosAC),
		Z:  mask.IsSet(b, pswPosZ),
		S:  mask.IsSet(b, pswPosS),
	}
}
