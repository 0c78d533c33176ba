// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// bcdAdd returns the packed BCD sum dst+src+x and the decimal carry.
func bcdAdd(src, dst, x uint32) (uint32, bool) {
	res := src&0x0f + dst&0x0f + x
	if res > 9 {
		res += 6
	}
	res += src&0xf0 + dst&0xf0
	carry := res > 0x99
	if carry {
		res -= 0xa0
	}
	return res & 0xff, carry
}

// bcdSub returns the packed BCD difference dst-src-x and the decimal
// borrow.
func bcdSub(src, dst, x uint32) (uint32, bool) {
	res := dst&0x0f - src&0x0f - x
	if res > 9 {
		res -= 6
	}
	res += dst&0xf0 - src&0xf0
	borrow := res > 0x99
	if borrow {
		res += 0xa0
	}
	return res & 0xff, borrow
}

// setBCDFlags updates the condition codes after a BCD operation. Z is only
// ever cleared.
func (cpu *CPU) setBCDFlags(res uint32, carry bool) {
	if res != 0 {
		cpu.setFlag(ZeroBit, false)
	}
	cpu.setFlag(NegativeBit, res&0x80 != 0)
	cpu.setFlag(OverflowBit, false)
	cpu.setFlag(CarryBit, carry)
	cpu.setFlag(ExtendBit, carry)
}

// bcd implements ABCD and SBCD in the Dy,Dx and -(Ay),-(Ax) forms.
func (cpu *CPU) bcd(op uint16, fn func(src, dst, x uint32) (uint32, bool)) {
	mode := uint16(0)
	if op&0x0008 != 0 {
		mode = 4 << 3
	}
	src := cpu.ea(mode|op&7, Byte)
	dst := cpu.ea(mode|(op>>9)&7, Byte)

	res, carry := fn(cpu.read(&src), cpu.read(&dst), boolToUint32(cpu.flag(ExtendBit)))
	cpu.write(&dst, res)
	cpu.setBCDFlags(res, carry)

	cpu.cycles += 6
}

// ABCD Dy,Dx and ABCD -(Ay),-(Ax)
func (cpu *CPU) abcd(op uint16) { cpu.bcd(op, bcdAdd) }

// SBCD Dy,Dx and SBCD -(Ay),-(Ax)
func (cpu *CPU) sbcd(op uint16) { cpu.bcd(op, bcdSub) }

// NBCD <ea>
func (cpu *CPU) nbcd(op uint16) {
	dst := cpu.ea(op, Byte)
	res, borrow := bcdSub(cpu.read(&dst), 0, boolToUint32(cpu.flag(ExtendBit)))
	cpu.write(&dst, res)
	cpu.setBCDFlags(res, borrow)
	cpu.cycles += 6
}
