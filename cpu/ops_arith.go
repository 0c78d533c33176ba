// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// arith computes dst+src or dst-src and applies the matching flag rules.
func (cpu *CPU) arith(fo flagOp, s Size, src, dst uint32) uint32 {
	var res uint32
	switch fo {
	case flagAdd:
		res = dst + src
	case flagAddX:
		res = dst + src + boolToUint32(cpu.flag(ExtendBit))
	case flagSubX, flagNegX:
		res = dst - src - boolToUint32(cpu.flag(ExtendBit))
	default:
		res = dst - src
	}
	res &= s.mask()
	cpu.setArithFlags(fo, s, src, dst, res)
	return res
}

// addSub implements ADD and SUB in both directions.
func (cpu *CPU) addSub(op uint16, fo flagOp) {
	s := size6(op)
	dn := (op >> 9) & 7
	ea := cpu.ea(op, s)

	if op&0x0100 == 0 {
		// <ea>,Dn
		v := cpu.arith(fo, s, cpu.read(&ea), cpu.reg.D[dn]&s.mask())
		cpu.reg.D[dn] = cpu.reg.D[dn]&^s.mask() | v
		cpu.cycles += 4
		if s == Long {
			cpu.cycles += 2
		}
		return
	}

	// Dn,<ea>
	v := cpu.arith(fo, s, cpu.reg.D[dn]&s.mask(), cpu.read(&ea))
	cpu.write(&ea, v)
	cpu.cycles += 8
	if s == Long {
		cpu.cycles += 4
	}
}

// ADD <ea>,Dn and ADD Dn,<ea>
func (cpu *CPU) add(op uint16) { cpu.addSub(op, flagAdd) }

// SUB <ea>,Dn and SUB Dn,<ea>
func (cpu *CPU) sub(op uint16) { cpu.addSub(op, flagSub) }

// addrSize decodes the size bit of ADDA, SUBA and CMPA.
func addrSize(op uint16) Size {
	if op&0x0100 != 0 {
		return Long
	}
	return Word
}

// ADDA <ea>,An
func (cpu *CPU) adda(op uint16) {
	s := addrSize(op)
	src := cpu.ea(op, s)
	cpu.reg.A[(op>>9)&7] += signExtend(cpu.read(&src), s)
	cpu.cycles += 8
}

// SUBA <ea>,An
func (cpu *CPU) suba(op uint16) {
	s := addrSize(op)
	src := cpu.ea(op, s)
	cpu.reg.A[(op>>9)&7] -= signExtend(cpu.read(&src), s)
	cpu.cycles += 8
}

// CMPA <ea>,An
func (cpu *CPU) cmpa(op uint16) {
	s := addrSize(op)
	src := cpu.ea(op, s)
	cpu.arith(flagCmp, Long, signExtend(cpu.read(&src), s), cpu.reg.A[(op>>9)&7])
	cpu.cycles += 6
}

// immArith implements the immediate arithmetic forms.
func (cpu *CPU) immArith(op uint16, fo flagOp) {
	s := size6(op)
	imm := cpu.immediate(s)
	dst := cpu.ea(op, s)
	v := cpu.arith(fo, s, imm, cpu.read(&dst))
	if fo != flagCmp {
		cpu.write(&dst, v)
	}
	cpu.cycles += 8
	if s == Long {
		cpu.cycles += 6
	}
}

// ADDI #<data>,<ea>
func (cpu *CPU) addi(op uint16) { cpu.immArith(op, flagAdd) }

// SUBI #<data>,<ea>
func (cpu *CPU) subi(op uint16) { cpu.immArith(op, flagSub) }

// CMPI #<data>,<ea>
func (cpu *CPU) cmpi(op uint16) { cpu.immArith(op, flagCmp) }

// quick implements ADDQ and SUBQ. Address register destinations are
// always updated in full and leave the condition codes alone.
func (cpu *CPU) quick(op uint16, fo flagOp) {
	s := size6(op)
	data := uint32((op >> 9) & 7)
	if data == 0 {
		data = 8
	}

	dst := cpu.ea(op, s)
	if dst.mode == modeAddrReg {
		if fo == flagAdd {
			cpu.reg.A[dst.reg] += data
		} else {
			cpu.reg.A[dst.reg] -= data
		}
		cpu.cycles += 8
		return
	}

	v := cpu.arith(fo, s, data, cpu.read(&dst))
	cpu.write(&dst, v)
	cpu.cycles += 4
	if s == Long || dst.mode != modeDataReg {
		cpu.cycles += 4
	}
}

// ADDQ #<data>,<ea>
func (cpu *CPU) addq(op uint16) { cpu.quick(op, flagAdd) }

// SUBQ #<data>,<ea>
func (cpu *CPU) subq(op uint16) { cpu.quick(op, flagSub) }

// extended implements ADDX and SUBX in the Dy,Dx and -(Ay),-(Ax) forms.
func (cpu *CPU) extended(op uint16, fo flagOp) {
	s := size6(op)
	rx, ry := (op>>9)&7, op&7

	mode := uint16(0)
	if op&0x0008 != 0 {
		mode = 4 << 3
	}
	src := cpu.ea(mode|ry, s)
	dst := cpu.ea(mode|rx, s)
	v := cpu.arith(fo, s, cpu.read(&src), cpu.read(&dst))
	cpu.write(&dst, v)

	switch {
	case mode != 0:
		cpu.cycles += 6
	case s == Long:
		cpu.cycles += 8
	default:
		cpu.cycles += 4
	}
}

// ADDX Dy,Dx and ADDX -(Ay),-(Ax)
func (cpu *CPU) addx(op uint16) { cpu.extended(op, flagAddX) }

// SUBX Dy,Dx and SUBX -(Ay),-(Ax)
func (cpu *CPU) subx(op uint16) { cpu.extended(op, flagSubX) }

// CMP <ea>,Dn
func (cpu *CPU) cmp(op uint16) {
	s := size6(op)
	src := cpu.ea(op, s)
	cpu.arith(flagCmp, s, cpu.read(&src), cpu.reg.D[(op>>9)&7]&s.mask())
	cpu.cycles += 4
	if s == Long {
		cpu.cycles += 2
	}
}

// CMPM (Ay)+,(Ax)+
func (cpu *CPU) cmpm(op uint16) {
	s := size6(op)
	src := cpu.ea(3<<3|op&7, s)
	dst := cpu.ea(3<<3|(op>>9)&7, s)
	cpu.arith(flagCmp, s, cpu.read(&src), cpu.read(&dst))
	cpu.cycles += 4
}

// NEG <ea>
func (cpu *CPU) neg(op uint16) {
	s := size6(op)
	dst := cpu.ea(op, s)
	cpu.write(&dst, cpu.arith(flagNeg, s, cpu.read(&dst), 0))
	cpu.cycles += unaryCycles(&dst)
}

// NEGX <ea>
func (cpu *CPU) negx(op uint16) {
	s := size6(op)
	dst := cpu.ea(op, s)
	cpu.write(&dst, cpu.arith(flagNegX, s, cpu.read(&dst), 0))
	cpu.cycles += unaryCycles(&dst)
}

// CLR <ea>
func (cpu *CPU) clr(op uint16) {
	s := size6(op)
	dst := cpu.ea(op, s)
	cpu.write(&dst, 0)
	cpu.setLogicFlags(s, 0)
	cpu.cycles += unaryCycles(&dst)
}

// TST <ea>
func (cpu *CPU) tst(op uint16) {
	s := size6(op)
	src := cpu.ea(op, s)
	cpu.setLogicFlags(s, cpu.read(&src))
	cpu.cycles += 4
}

func unaryCycles(op *operand) int {
	switch {
	case op.mode == modeDataReg && op.size == Long:
		return 6
	case op.mode == modeDataReg:
		return 4
	case op.size == Long:
		return 12
	default:
		return 8
	}
}

// MULU <ea>,Dn
func (cpu *CPU) mulu(op uint16) {
	src := cpu.ea(op, Word)
	dn := (op >> 9) & 7
	v := cpu.read(&src) * (cpu.reg.D[dn] & 0xffff)
	cpu.reg.D[dn] = v
	cpu.setLogicFlags(Long, v)
	cpu.cycles += 70
}

// MULS <ea>,Dn
func (cpu *CPU) muls(op uint16) {
	src := cpu.ea(op, Word)
	dn := (op >> 9) & 7
	v := uint32(int32(int16(cpu.read(&src))) * int32(int16(cpu.reg.D[dn])))
	cpu.reg.D[dn] = v
	cpu.setLogicFlags(Long, v)
	cpu.cycles += 70
}

// DIVU <ea>,Dn. On overflow V is set and Dn is unchanged.
func (cpu *CPU) divu(op uint16) {
	src := cpu.ea(op, Word)
	dn := (op >> 9) & 7
	divisor := cpu.read(&src)
	if divisor == 0 {
		cpu.setFlag(CarryBit, false)
		cpu.fail(ErrDivideByZero)
	}

	dividend := cpu.reg.D[dn]
	q, r := dividend/divisor, dividend%divisor
	cpu.setFlag(CarryBit, false)
	if q > 0xffff {
		cpu.setFlag(OverflowBit, true)
		cpu.cycles += 10
		return
	}

	cpu.reg.D[dn] = r<<16 | q
	cpu.setLogicFlags(Word, q)
	cpu.cycles += 140
}

// DIVS <ea>,Dn. On overflow V is set and Dn is unchanged.
func (cpu *CPU) divs(op uint16) {
	src := cpu.ea(op, Word)
	dn := (op >> 9) & 7
	divisor := int64(int16(cpu.read(&src)))
	if divisor == 0 {
		cpu.setFlag(CarryBit, false)
		cpu.fail(ErrDivideByZero)
	}

	dividend := int64(int32(cpu.reg.D[dn]))
	q, r := dividend/divisor, dividend%divisor
	cpu.setFlag(CarryBit, false)
	if q < -0x8000 || q > 0x7fff {
		cpu.setFlag(OverflowBit, true)
		cpu.cycles += 16
		return
	}

	v := uint32(r)<<16 | uint32(q)&0xffff
	cpu.reg.D[dn] = v
	cpu.setLogicFlags(Word, v)
	cpu.cycles += 158
}

// CHK <ea>,Dn. Raises the bounds check exception when Dn is negative or
// greater than the operand.
func (cpu *CPU) chk(op uint16) {
	s := Word
	if op&0x0080 == 0 {
		s = Long
	}
	src := cpu.ea(op, s)
	bound := int32(signExtend(cpu.read(&src), s))
	v := int32(signExtend(cpu.reg.D[(op>>9)&7], s))
	cpu.cycles += 10

	switch {
	case v < 0:
		cpu.setFlag(NegativeBit, true)
		cpu.fail(ErrBoundsCheck)
	case v > bound:
		cpu.setFlag(NegativeBit, false)
		cpu.fail(ErrBoundsCheck)
	}
}
