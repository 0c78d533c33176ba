// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "github.com/sirupsen/logrus"

// shiftKind selects the shift or rotate variant. The values match the
// type field of the register and memory encodings.
type shiftKind byte

const (
	shiftAS  shiftKind = iota // arithmetic shift
	shiftLS                   // logical shift
	shiftROX                  // rotate through extend
	shiftRO                   // rotate
)

var shiftNames = [...]string{"AS", "LS", "ROX", "RO"}

func (k shiftKind) String() string {
	return shiftNames[k&3]
}

// shiftMnemonic names a shift variant the way it is written in assembly,
// e.g. LSL.W.
func shiftMnemonic(kind shiftKind, left bool, s Size) string {
	dir := "R"
	if left {
		dir = "L"
	}
	return kind.String() + dir + s.String()
}

// shift applies count single-bit steps of kind to the low s bytes of v and
// updates the condition codes. It returns the shifted value.
func (cpu *CPU) shift(kind shiftKind, left bool, s Size, v uint32, count int) uint32 {
	if cpu.log.IsLevelEnabled(logrus.TraceLevel) {
		cpu.log.WithFields(logrus.Fields{
			"op":    shiftMnemonic(kind, left, s),
			"count": count,
		}).Trace("shift")
	}

	mask := s.mask()
	msb := s.msb()
	v &= mask

	if count == 0 {
		if kind == shiftROX {
			cpu.setFlag(CarryBit, cpu.flag(ExtendBit))
			return v
		}
		cpu.setLogicFlags(s, v)
		return v
	}

	x := cpu.flag(ExtendBit)
	var out, overflow bool
	for i := 0; i < count; i++ {
		if left {
			out = v&msb != 0
			next := (v << 1) & mask
			switch kind {
			case shiftRO:
				next |= boolToUint32(out)
			case shiftROX:
				next |= boolToUint32(x)
				x = out
			}
			if kind == shiftAS && (next^v)&msb != 0 {
				overflow = true
			}
			v = next
		} else {
			out = v&1 != 0
			next := v >> 1
			switch kind {
			case shiftAS:
				next |= v & msb
			case shiftRO:
				if out {
					next |= msb
				}
			case shiftROX:
				if x {
					next |= msb
				}
				x = out
			}
			v = next
		}
	}

	cpu.setFlag(NegativeBit, v&msb != 0)
	cpu.setFlag(ZeroBit, v == 0)
	cpu.setFlag(OverflowBit, overflow)
	cpu.setFlag(CarryBit, out)
	switch kind {
	case shiftRO:
	case shiftROX:
		cpu.setFlag(ExtendBit, x)
	default:
		cpu.setFlag(ExtendBit, out)
	}
	return v
}

// ASd, LSd, ROXd and ROd on a data register.
func (cpu *CPU) shiftRegister(op uint16) {
	s := size6(op)
	kind := shiftKind((op >> 3) & 3)
	left := op&0x0100 != 0
	dy := op & 7

	var count int
	if op&0x0020 != 0 {
		count = int(cpu.reg.D[(op>>9)&7] % 64)
	} else {
		count = int((op >> 9) & 7)
		if count == 0 {
			count = 8
		}
	}

	v := cpu.shift(kind, left, s, cpu.reg.D[dy], count)
	cpu.reg.D[dy] = cpu.reg.D[dy]&^s.mask() | v

	cpu.cycles += 6 + 2*count
	if s == Long {
		cpu.cycles += 2
	}
}

// Single-bit ASd, LSd, ROXd and ROd on a memory word.
func (cpu *CPU) shiftMemory(op uint16) {
	kind := shiftKind((op >> 9) & 3)
	left := op&0x0100 != 0

	dst := cpu.ea(op, Word)
	v := cpu.shift(kind, left, Word, cpu.read(&dst), 1)
	cpu.write(&dst, v)
	cpu.cycles += 8
}
