// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

type logicFunc func(a, b uint32) uint32

func opAnd(a, b uint32) uint32 { return a & b }
func opOr(a, b uint32) uint32  { return a | b }
func opEor(a, b uint32) uint32 { return a ^ b }

// logic implements AND and OR in both directions, and EOR.
func (cpu *CPU) logic(op uint16, fn logicFunc) {
	s := size6(op)
	dn := (op >> 9) & 7
	ea := cpu.ea(op, s)

	if op&0x0100 == 0 {
		// <ea>,Dn
		v := fn(cpu.read(&ea), cpu.reg.D[dn]) & s.mask()
		cpu.reg.D[dn] = cpu.reg.D[dn]&^s.mask() | v
		cpu.setLogicFlags(s, v)
		cpu.cycles += 4
		if s == Long {
			cpu.cycles += 2
		}
		return
	}

	// Dn,<ea>
	v := fn(cpu.read(&ea), cpu.reg.D[dn]) & s.mask()
	cpu.write(&ea, v)
	cpu.setLogicFlags(s, v)
	cpu.cycles += 8
	if s == Long {
		cpu.cycles += 4
	}
}

// AND <ea>,Dn and AND Dn,<ea>
func (cpu *CPU) and(op uint16) { cpu.logic(op, opAnd) }

// OR <ea>,Dn and OR Dn,<ea>
func (cpu *CPU) or(op uint16) { cpu.logic(op, opOr) }

// EOR Dn,<ea>
func (cpu *CPU) eor(op uint16) { cpu.logic(op, opEor) }

// logicImm implements the immediate logical forms.
func (cpu *CPU) logicImm(op uint16, fn logicFunc) {
	s := size6(op)
	imm := cpu.immediate(s)
	dst := cpu.ea(op, s)
	v := fn(cpu.read(&dst), imm) & s.mask()
	cpu.write(&dst, v)
	cpu.setLogicFlags(s, v)
	cpu.cycles += 8
	if s == Long {
		cpu.cycles += 8
	}
}

// ANDI #<data>,<ea>
func (cpu *CPU) andi(op uint16) { cpu.logicImm(op, opAnd) }

// ORI #<data>,<ea>
func (cpu *CPU) ori(op uint16) { cpu.logicImm(op, opOr) }

// EORI #<data>,<ea>
func (cpu *CPU) eori(op uint16) { cpu.logicImm(op, opEor) }

// logicCCR applies an immediate byte to the condition codes.
func (cpu *CPU) logicCCR(fn logicFunc) {
	imm := uint32(cpu.fetchWord()) & 0xff
	cpu.setCCR(uint16(fn(uint32(cpu.reg.SR), imm)))
	cpu.cycles += 20
}

// logicSR applies an immediate word to the status register.
func (cpu *CPU) logicSR(fn logicFunc) {
	cpu.requireSupervisor()
	imm := uint32(cpu.fetchWord())
	cpu.setSR(uint16(fn(uint32(cpu.reg.SR), imm)))
	cpu.cycles += 20
}

// ANDI #<data>,CCR
func (cpu *CPU) andiCCR(op uint16) { cpu.logicCCR(opAnd) }

// ORI #<data>,CCR
func (cpu *CPU) oriCCR(op uint16) { cpu.logicCCR(opOr) }

// EORI #<data>,CCR
func (cpu *CPU) eoriCCR(op uint16) { cpu.logicCCR(opEor) }

// ANDI #<data>,SR
func (cpu *CPU) andiSR(op uint16) { cpu.logicSR(opAnd) }

// ORI #<data>,SR
func (cpu *CPU) oriSR(op uint16) { cpu.logicSR(opOr) }

// EORI #<data>,SR
func (cpu *CPU) eoriSR(op uint16) { cpu.logicSR(opEor) }

// NOT <ea>
func (cpu *CPU) not(op uint16) {
	s := size6(op)
	dst := cpu.ea(op, s)
	v := ^cpu.read(&dst) & s.mask()
	cpu.write(&dst, v)
	cpu.setLogicFlags(s, v)
	cpu.cycles += unaryCycles(&dst)
}

// bitOp decodes the bit number and operand of BTST, BCHG, BCLR and BSET.
// Data register operands are 32 bits wide; memory operands are bytes.
func (cpu *CPU) bitOp(op uint16) (dst operand, bit uint32) {
	if op&0x0100 != 0 {
		bit = cpu.reg.D[(op>>9)&7]
	} else {
		bit = uint32(cpu.fetchWord())
	}

	s := Byte
	if (op>>3)&7 == 0 {
		s = Long
	}
	dst = cpu.ea(op, s)
	bit %= uint32(s) * 8

	cpu.setFlag(ZeroBit, cpu.read(&dst)&(1<<bit) == 0)
	cpu.cycles += 4
	if s == Long {
		cpu.cycles += 2
	}
	return dst, bit
}

// BTST
func (cpu *CPU) btst(op uint16) {
	cpu.bitOp(op)
}

// BCHG
func (cpu *CPU) bchg(op uint16) {
	dst, bit := cpu.bitOp(op)
	cpu.write(&dst, cpu.read(&dst)^(1<<bit))
	cpu.cycles += 4
}

// BCLR
func (cpu *CPU) bclr(op uint16) {
	dst, bit := cpu.bitOp(op)
	cpu.write(&dst, cpu.read(&dst)&^(1<<bit))
	cpu.cycles += 4
}

// BSET
func (cpu *CPU) bset(op uint16) {
	dst, bit := cpu.bitOp(op)
	cpu.write(&dst, cpu.read(&dst)|(1<<bit))
	cpu.cycles += 4
}

// Scc <ea>
func (cpu *CPU) scc(op uint16) {
	dst := cpu.ea(op, Byte)
	var v uint32
	if cpu.testCondition(op >> 8) {
		v = 0xff
	}
	cpu.write(&dst, v)
	cpu.cycles += 4
	if dst.mode != modeDataReg {
		cpu.cycles += 4
	}
}

// TAS <ea>
func (cpu *CPU) tas(op uint16) {
	dst := cpu.ea(op, Byte)
	v := cpu.read(&dst)
	cpu.setLogicFlags(Byte, v)
	cpu.write(&dst, v|0x80)
	cpu.cycles += 4
	if dst.mode != modeDataReg {
		cpu.cycles += 10
	}
}
