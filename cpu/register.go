// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// Registers contains the state of all M680x0 programmer-visible registers.
type Registers struct {
	D   [8]uint32 // data registers
	A   [8]uint32 // address registers; A[7] is the active stack pointer
	PC  uint32    // program counter
	SR  uint16    // status register (system byte + condition codes)
	USP uint32    // user stack pointer
	SSP uint32    // supervisor stack pointer
}

// Bits assigned to the status register
const (
	CarryBit      uint16 = 1 << 0
	OverflowBit   uint16 = 1 << 1
	ZeroBit       uint16 = 1 << 2
	NegativeBit   uint16 = 1 << 3
	ExtendBit     uint16 = 1 << 4
	MasterBit     uint16 = 1 << 12
	SupervisorBit uint16 = 1 << 13
	Trace0Bit     uint16 = 1 << 14
	Trace1Bit     uint16 = 1 << 15

	ccrMask   uint16 = 0x001f
	iplMask   uint16 = 0x0700
	iplShift         = 8
	traceMask        = Trace1Bit | Trace0Bit
)

// Supervisor returns true if the registers are in supervisor state.
func (r *Registers) Supervisor() bool {
	return r.SR&SupervisorBit != 0
}

// IPL returns the interrupt priority mask held in the status register.
func (r *Registers) IPL() int {
	return int(r.SR&iplMask) >> iplShift
}

// String formats the registers the way the host displays them.
func (r *Registers) String() string {
	s := fmt.Sprintf("PC=%08X SR=%04X [%s] USP=%08X SSP=%08X\n", r.PC, r.SR, srString(r.SR), r.USP, r.SSP)
	for i := 0; i < 8; i++ {
		s += fmt.Sprintf("D%d=%08X ", i, r.D[i])
	}
	s += "\n"
	for i := 0; i < 8; i++ {
		s += fmt.Sprintf("A%d=%08X ", i, r.A[i])
	}
	return s
}

func srString(sr uint16) string {
	c := func(bit uint16, ch byte) byte {
		if sr&bit != 0 {
			return ch
		}
		return '-'
	}
	return fmt.Sprintf("%c%c%c%c%d %c%c%c%c%c",
		c(Trace1Bit, 'T'), c(Trace0Bit, 't'), c(SupervisorBit, 'S'), c(MasterBit, 'M'),
		(sr&iplMask)>>iplShift,
		c(ExtendBit, 'X'), c(NegativeBit, 'N'), c(ZeroBit, 'Z'), c(OverflowBit, 'V'), c(CarryBit, 'C'))
}

func boolToUint32(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

// flag returns true if the status register bit is set.
func (cpu *CPU) flag(bit uint16) bool {
	return cpu.reg.SR&bit != 0
}

func (cpu *CPU) setFlag(bit uint16, on bool) {
	if on {
		cpu.reg.SR |= bit
	} else {
		cpu.reg.SR &^= bit
	}
}

// setSR replaces the status register, swapping the active stack pointer
// when the supervisor bit changes.
func (cpu *CPU) setSR(v uint16) {
	v &= cpu.Model.srMask()
	if (cpu.reg.SR^v)&SupervisorBit != 0 {
		if v&SupervisorBit != 0 {
			cpu.reg.USP = cpu.reg.A[7]
			cpu.reg.A[7] = cpu.reg.SSP
		} else {
			cpu.reg.SSP = cpu.reg.A[7]
			cpu.reg.A[7] = cpu.reg.USP
		}
	}
	cpu.reg.SR = v
}

func (cpu *CPU) setCCR(v uint16) {
	cpu.reg.SR = cpu.reg.SR&^ccrMask | v&ccrMask
}
