// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// flagOp selects the condition code rules applied to an arithmetic result.
type flagOp byte

const (
	flagAdd flagOp = iota
	flagAddX
	flagSub
	flagSubX
	flagCmp
	flagNeg
	flagNegX
)

// setArithFlags updates the condition codes after res = dst op src. For
// the negations src is the operand and dst is zero. Only the bits of size
// s are considered.
func (cpu *CPU) setArithFlags(op flagOp, s Size, src, dst, res uint32) {
	msb := s.msb()
	sm := src&msb != 0
	dm := dst&msb != 0
	rm := res&msb != 0

	var v, c bool
	switch op {
	case flagAdd, flagAddX:
		v = sm && dm && !rm || !sm && !dm && rm
		c = sm && dm || !rm && dm || sm && !rm
	default:
		v = !sm && dm && !rm || sm && !dm && rm
		c = sm && !dm || rm && !dm || sm && rm
	}

	cpu.setFlag(NegativeBit, rm)
	cpu.setFlag(OverflowBit, v)
	cpu.setFlag(CarryBit, c)

	zero := res&s.mask() == 0
	switch op {
	case flagAddX, flagSubX, flagNegX:
		if !zero {
			cpu.setFlag(ZeroBit, false)
		}
	default:
		cpu.setFlag(ZeroBit, zero)
	}

	if op != flagCmp {
		cpu.setFlag(ExtendBit, c)
	}
}

// setLogicFlags sets N and Z from v and clears V and C. X is unaffected.
func (cpu *CPU) setLogicFlags(s Size, v uint32) {
	cpu.setFlag(NegativeBit, v&s.msb() != 0)
	cpu.setFlag(ZeroBit, v&s.mask() == 0)
	cpu.setFlag(OverflowBit, false)
	cpu.setFlag(CarryBit, false)
}

// testCondition evaluates one of the sixteen condition codes.
func (cpu *CPU) testCondition(cc uint16) bool {
	c := cpu.flag(CarryBit)
	v := cpu.flag(OverflowBit)
	z := cpu.flag(ZeroBit)
	n := cpu.flag(NegativeBit)

	switch cc & 15 {
	case 0x0: // T
		return true
	case 0x1: // F
		return false
	case 0x2: // HI
		return !c && !z
	case 0x3: // LS
		return c || z
	case 0x4: // CC
		return !c
	case 0x5: // CS
		return c
	case 0x6: // NE
		return !z
	case 0x7: // EQ
		return z
	case 0x8: // VC
		return !v
	case 0x9: // VS
		return v
	case 0xa: // PL
		return !n
	case 0xb: // MI
		return n
	case 0xc: // GE
		return n == v
	case 0xd: // LT
		return n != v
	case 0xe: // GT
		return !z && n == v
	default: // LE
		return z || n != v
	}
}
