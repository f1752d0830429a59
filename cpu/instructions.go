package cpu

import (
	"fmt"

	"github.com/ScottAndre/spinv-emulator/interrupt"
	"github.com/ScottAndre/spinv-emulator/mask"
	"github.com/ScottAndre/spinv-emulator/mem"
	"github.com/ScottAndre/spinv-emulator/ports"
)

// execute decodes op[0] and carries out the instruction. op[1] and op[2]
// are only meaningful for opcodes whose length is 2 or 3; Step has already
// advanced PC past the whole instruction by the time execute runs, so call
// and jump targets below are absolute, not PC-relative.
//
// The ten official "unused" opcodes (0x08, 0x10, 0x18, 0x28, 0x38, 0xcb,
// 0xd9, 0xdd, 0xed, 0xfd) fall through to the default case and execute as
// NOP. 0x20 and 0x30 (the 8085's RIM/SIM) are not treated that way: they
// return an error.
func (c *Cpu) execute(m *mem.Memory, bank *ports.Bank, interrupts *interrupt.Latch, op [3]byte) error {
	switch op[0] {
	case 0x00: // NOP

	case 0x01:
		c.lxi(PairBC, mask.Word(op[1], op[2]))
	case 0x02:
		c.stax(m, PairBC)
	case 0x03:
		c.inx(PairBC)
	case 0x04:
		c.inr(m, RegB)
	case 0x05:
		c.dcr(m, RegB)
	case 0x06:
		c.setReg(RegB, m, op[1])
	case 0x07:
		c.rlc()
	case 0x09:
		c.dad(PairBC)
	case 0x0a:
		c.ldax(m, PairBC)
	case 0x0b:
		c.dcx(PairBC)
	case 0x0c:
		c.inr(m, RegC)
	case 0x0d:
		c.dcr(m, RegC)
	case 0x0e:
		c.setReg(RegC, m, op[1])
	case 0x0f:
		c.rrc()

	case 0x11:
		c.lxi(PairDE, mask.Word(op[1], op[2]))
	case 0x12:
		c.stax(m, PairDE)
	case 0x13:
		c.inx(PairDE)
	case 0x14:
		c.inr(m, RegD)
	case 0x15:
		c.dcr(m, RegD)
	case 0x16:
		c.setReg(RegD, m, op[1])
	case 0x17:
		c.ral()
	case 0x19:
		c.dad(PairDE)
	case 0x1a:
		c.ldax(m, PairDE)
	case 0x1b:
		c.dcx(PairDE)
	case 0x1c:
		c.inr(m, RegE)
	case 0x1d:
		c.dcr(m, RegE)
	case 0x1e:
		c.setReg(RegE, m, op[1])
	case 0x1f:
		c.rar()

	case 0x20:
		return unimplemented8085Only(op[0], "RIM")
	case 0x21:
		c.lxi(PairHL, mask.Word(op[1], op[2]))
	case 0x22:
		c.shld(m, mask.Word(op[1], op[2]))
	case 0x23:
		c.inx(PairHL)
	case 0x24:
		c.inr(m, RegH)
	case 0x25:
		c.dcr(m, RegH)
	case 0x26:
		c.setReg(RegH, m, op[1])
	case 0x27:
		c.daa()
	case 0x29:
		c.dad(PairHL)
	case 0x2a:
		c.lhld(m, mask.Word(op[1], op[2]))
	case 0x2b:
		c.dcx(PairHL)
	case 0x2c:
		c.inr(m, RegL)
	case 0x2d:
		c.dcr(m, RegL)
	case 0x2e:
		c.setReg(RegL, m, op[1])
	case 0x2f:
		c.cma()

	case 0x30:
		return unimplemented8085Only(op[0], "SIM")
	case 0x31:
		c.SP = mask.Word(op[1], op[2])
	case 0x32:
		c.sta(m, mask.Word(op[1], op[2]))
	case 0x33:
		c.SP++
	case 0x34:
		c.inr(m, RegM)
	case 0x35:
		c.dcr(m, RegM)
	case 0x36:
		c.setReg(RegM, m, op[1])
	case 0x37:
		c.Flags.CY = true
	case 0x39:
		c.dad(PairSP)
	case 0x3a:
		c.lda(m, mask.Word(op[1], op[2]))
	case 0x3b:
		c.SP--
	case 0x3c:
		c.inr(m, RegA)
	case 0x3d:
		c.dcr(m, RegA)
	case 0x3e:
		c.setReg(RegA, m, op[1])
	case 0x3f:
		c.Flags.CY = !c.Flags.CY

	case 0x76:
		c.Halted = true

	case 0xc3:
		c.jmp(mask.Word(op[1], op[2]))
	case 0xc9:
		c.ret(m)
	case 0xcd:
		c.call(m, mask.Word(op[1], op[2]))

	case 0xc6:
		c.add(op[1], false)
	case 0xce:
		c.add(op[1], true)
	case 0xd6:
		c.sub(op[1], false)
	case 0xde:
		c.sub(op[1], true)
	case 0xe6:
		c.and(op[1])
	case 0xee:
		c.xor(op[1])
	case 0xf6:
		c.or(op[1])
	case 0xfe:
		c.cmp(op[1])

	case 0xd3:
		c.out(bank, op[1])
	case 0xdb:
		c.in(bank, op[1])

	case 0xe3:
		c.xthl(m)
	case 0xe9:
		c.pchl()
	case 0xeb:
		c.xchg()
	case 0xf9:
		c.sphl()

	case 0xf3:
		interrupts.Disable()
	case 0xfb:
		interrupts.Enable()

	default:
		c.executeGrouped(m, op)
	}
	return nil
}

// executeGrouped handles every opcode whose meaning is a regular function
// of its bit pattern: MOV, the two ALU-over-register groups, PUSH/POP, the
// conditional jump/call/return families and RST. Opcodes that land here
// but match none of these patterns are the unused ones and execute as
// NOP, same as the explicit cases in execute.
func (c *Cpu) executeGrouped(m *mem.Memory, op [3]byte) {
	b := op[0]
	switch {
	case b >= 0x40 && b <= 0x7f: // MOV d,s (0x76 is HLT, handled before reaching here)
		dst := RegID((b >> 3) & 0x07)
		src := RegID(b & 0x07)
		c.mov(m, dst, src)

	case b >= 0x80 && b <= 0xbf: // ADD/ADC/SUB/SBB/ANA/XRA/ORA/CMP r
		op := (b >> 3) & 0x07
		r := RegID(b & 0x07)
		v := c.reg(r, m)
		switch op {
		case 0:
			c.add(v, false)
		case 1:
			c.add(v, true)
		case 2:
			c.sub(v, false)
		case 3:
			c.sub(v, true)
		case 4:
			c.and(v)
		case 5:
			c.xor(v)
		case 6:
			c.or(v)
		case 7:
			c.cmp(v)
		}

	case b&0xc7 == 0xc7: // RST n
		n := (b >> 3) & 0x07
		c.rst(m, n)

	case b&0xc7 == 0xc0: // conditional RET
		cc := (b >> 3) & 0x07
		c.condRet(m, cc)

	case b&0xc7 == 0xc2: // conditional JMP
		cc := (b >> 3) & 0x07
		c.condJmp(cc, mask.Word(op[1], op[2]))

	case b&0xc7 == 0xc4: // conditional CALL
		cc := (b >> 3) & 0x07
		c.condCall(m, cc, mask.Word(op[1], op[2]))

	case b&0xcf == 0xc5: // PUSH rp
		c.pushGroup(m, (b>>4)&0x03)

	case b&0xcf == 0xc1: // POP rp
		c.popGroup(m, (b>>4)&0x03)

	default:
		// unused opcode: behaves as NOP
	}
}

func unimplemented8085Only(opcode byte, name string) error {
	return fmt.Errorf("%s (opcode %#02x) is an 8085 instruction, not implemented on this core", name, opcode)
}

// --- flag helpers ---

func (c *Cpu) setZSP(v byte) {
	c.Flags.Z = v == 0
	c.Flags.S = v&0x80 != 0
	c.Flags.P = mask.Parity(v)
}

func (c *Cpu) setZSPCY(result uint16) {
	c.Flags.Z = result&0x00ff == 0
	c.Flags.S = result&0x0080 == 0x0080
	c.Flags.P = mask.Parity(byte(result))
	c.Flags.CY = result&0x0100 == 0x0100
}

func twoComp(b byte) byte {
	return ^b + 1
}

// --- register-pair / immediate load ---

func (c *Cpu) lxi(p RegPair, imm uint16) { c.setRegPairWord(p, imm) }

func (c *Cpu) inx(p RegPair) { c.setRegPairWord(p, c.regPairWord(p)+1) }
func (c *Cpu) dcx(p RegPair) { c.setRegPairWord(p, c.regPairWord(p)-1) }

func (c *Cpu) dad(p RegPair) {
	result := uint32(c.regPairWord(PairHL)) + uint32(c.regPairWord(p))
	c.setRegPairWord(PairHL, uint16(result))
	c.Flags.CY = result&0x00010000 != 0
}

// --- increment / decrement ---

func (c *Cpu) inr(m *mem.Memory, r RegID) {
	v := c.reg(r, m) + 1
	c.setReg(r, m, v)
	c.setZSP(v)
	ac := ((v - 1) & 0x0f) + 1
	c.Flags.AC = ac&0x10 == 0x10
}

func (c *Cpu) dcr(m *mem.Memory, r RegID) {
	v := c.reg(r, m) - 1
	c.setReg(r, m, v)
	c.setZSP(v)
	ac := ((v + 1) & 0x0f) + 0x0f
	c.Flags.AC = ac&0x10 == 0x10
}

// --- arithmetic ---

func (c *Cpu) add(v byte, withCarry bool) {
	var carry byte
	if withCarry && c.Flags.CY {
		carry = 1
	}
	ac := (c.A & 0x0f) + (v & 0x0f) + carry
	result := uint16(c.A) + uint16(v) + uint16(carry)
	c.setZSPCY(result)
	c.Flags.AC = ac&0x10 == 0x10
	c.A = byte(result)
}

// subtract computes A - v (- borrow, if withBorrow and CY is set) and
// updates all five flags, returning the 16-bit result so cmp can reuse it
// without writing back to A.
func (c *Cpu) subtract(v byte, withBorrow bool) uint16 {
	var borrow byte
	if withBorrow && c.Flags.CY {
		borrow = 1
	}
	effective := v + borrow
	ac := (c.A & 0x0f) + (twoComp(effective) & 0x0f)
	result := uint16(c.A) - uint16(v) - uint16(borrow)
	c.setZSPCY(result)
	c.Flags.AC = ac&0x10 == 0x10
	return result
}

func (c *Cpu) sub(v byte, withBorrow bool) { c.A = byte(c.subtract(v, withBorrow)) }
func (c *Cpu) cmp(v byte)                  { c.subtract(v, false) }

func (c *Cpu) and(v byte) {
	c.A &= v
	c.setZSP(c.A)
	c.Flags.CY = false
	c.Flags.AC = false
}

func (c *Cpu) or(v byte) {
	c.A |= v
	c.setZSP(c.A)
	c.Flags.CY = false
	c.Flags.AC = false
}

func (c *Cpu) xor(v byte) {
	c.A ^= v
	c.setZSP(c.A)
	c.Flags.CY = false
	c.Flags.AC = false
}

func (c *Cpu) cma() { c.A = ^c.A }

// daa adjusts A into valid packed-BCD form after an 8-bit addition or
// subtraction, per the two-step algorithm the 8080 microcode implements:
// the low nibble is corrected first (feeding AC), then the high nibble
// (feeding CY).
func (c *Cpu) daa() {
	low := c.A & 0x0f
	if low > 9 || c.Flags.AC {
		sum := low + 6
		c.Flags.AC = sum&0x10 == 0x10
		low = sum
	}

	result := uint16(c.A&0xf0) + uint16(low)
	high := byte((result & 0x00f0) >> 4)
	if high > 9 || c.Flags.CY {
		sum := high + 6
		c.Flags.CY = sum&0x10 == 0x10
		high = sum
	}

	result = (result & 0xff0f) + (uint16(high) << 4)
	c.A = byte(result)
	c.setZSP(c.A)
}

// --- rotates ---

func (c *Cpu) rlc() {
	hi := c.A >> 7
	c.Flags.CY = hi == 1
	c.A = c.A<<1 | hi
}

func (c *Cpu) rrc() {
	lo := c.A & 0x01
	c.Flags.CY = lo == 1
	c.A = c.A>>1 | lo<<7
}

func (c *Cpu) ral() {
	hi := c.A >> 7
	var cin byte
	if c.Flags.CY {
		cin = 1
	}
	c.A = c.A<<1 | cin
	c.Flags.CY = hi == 1
}

func (c *Cpu) rar() {
	lo := c.A & 0x01
	var cin byte
	if c.Flags.CY {
		cin = 1
	}
	c.A = c.A>>1 | cin<<7
	c.Flags.CY = lo == 1
}

// --- move / load / store ---

func (c *Cpu) mov(m *mem.Memory, dst, src RegID) { c.setReg(dst, m, c.reg(src, m)) }

func (c *Cpu) sta(m *mem.Memory, addr uint16) { m.Write(addr, c.A) }
func (c *Cpu) lda(m *mem.Memory, addr uint16) { c.A = m.Read(addr) }

func (c *Cpu) stax(m *mem.Memory, p RegPair) { m.Write(c.regPairWord(p), c.A) }
func (c *Cpu) ldax(m *mem.Memory, p RegPair) { c.A = m.Read(c.regPairWord(p)) }

func (c *Cpu) shld(m *mem.Memory, addr uint16) {
	m.Write(addr, c.L)
	m.Write(addr+1, c.H)
}

func (c *Cpu) lhld(m *mem.Memory, addr uint16) {
	c.L = m.Read(addr)
	c.H = m.Read(addr + 1)
}

// --- stack ---

var pushPopOrder = [4]RegPair{PairBC, PairDE, PairHL, PairSP} // PairSP slot means PSW here

func (c *Cpu) pushGroup(m *mem.Memory, group byte) {
	if group == 3 {
		c.push(m, c.A, c.Flags.Byte())
		return
	}
	p := pushPopOrder[group]
	low, high := c.regPairLowHigh(p)
	c.push(m, *high, *low)
}

func (c *Cpu) popGroup(m *mem.Memory, group byte) {
	if group == 3 {
		psw, a := c.pop(m)
		c.Flags = FlagsFromByte(psw)
		c.A = a
		return
	}
	p := pushPopOrder[group]
	low, high := c.regPairLowHigh(p)
	*low, *high = c.pop(m)
}

func (c *Cpu) xthl(m *mem.Memory) {
	l, h := c.L, c.H
	c.L = m.Read(c.SP)
	c.H = m.Read(c.SP + 1)
	m.Write(c.SP, l)
	m.Write(c.SP+1, h)
}

func (c *Cpu) xchg() {
	c.H, c.D = c.D, c.H
	c.L, c.E = c.E, c.L
}

func (c *Cpu) sphl() { c.SP = c.hl() }
func (c *Cpu) pchl() { c.PC = c.hl() }

// --- jumps, calls, returns ---

func (c *Cpu) jmp(addr uint16) { c.PC = addr }

// condition evaluates one of the eight three-bit condition codes shared by
// conditional JMP, CALL and RET: NZ Z NC C PO PE P M, in that bit order.
func (c *Cpu) condition(cc byte) bool {
	switch cc {
	case 0:
		return !c.Flags.Z
	case 1:
		return c.Flags.Z
	case 2:
		return !c.Flags.CY
	case 3:
		return c.Flags.CY
	case 4:
		return !c.Flags.P
	case 5:
		return c.Flags.P
	case 6:
		return !c.Flags.S
	case 7:
		return c.Flags.S
	}
	panic(fmt.Sprintf("condition: bad condition code %d", cc))
}

func (c *Cpu) condJmp(cc byte, addr uint16) {
	if c.condition(cc) {
		c.PC = addr
	}
}

func (c *Cpu) condCall(m *mem.Memory, cc byte, addr uint16) {
	if c.condition(cc) {
		c.call(m, addr)
	} else {
		c.setCycleOverride(failedConditionalCallCycles)
	}
}

func (c *Cpu) condRet(m *mem.Memory, cc byte) {
	if c.condition(cc) {
		c.ret(m)
	} else {
		c.setCycleOverride(failedConditionalRetCycles)
	}
}

func (c *Cpu) rst(m *mem.Memory, n byte) { c.call(m, uint16(n)*8) }

func (c *Cpu) setCycleOverride(v byte) {
	c.cycleOverride = v
	c.cycleOverrideSet = true
}

// --- I/O ---

func (c *Cpu) in(bank *ports.Bank, port byte)  { c.A = bank.Read(port) }
func (c *Cpu) out(bank *ports.Bank, port byte) { bank.Write(port, c.A) }
