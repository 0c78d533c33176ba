// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// The Memory interface presents an interface to the CPU through which all
// memory accesses occur. *memory.AddressSpace implements it.
type Memory interface {
	// LoadByte loads a single byte from the address and returns it.
	LoadByte(addr uint32) (byte, error)

	// LoadWord loads a big-endian word from an even address.
	LoadWord(addr uint32) (uint16, error)

	// LoadLong loads a big-endian long from an even address.
	LoadLong(addr uint32) (uint32, error)

	// LoadWordUnchecked loads a word without checking alignment.
	LoadWordUnchecked(addr uint32) (uint16, error)

	// StoreByte stores a byte to the requested address.
	StoreByte(addr uint32, v byte) error

	// StoreWord stores a big-endian word to an even address.
	StoreWord(addr uint32, v uint16) error

	// StoreLong stores a big-endian long to an even address.
	StoreLong(addr uint32, v uint32) error
}

// Size is the width of an operand.
type Size uint8

// Operand sizes
const (
	Byte Size = 1
	Word Size = 2
	Long Size = 4
)

func (s Size) mask() uint32 {
	switch s {
	case Byte:
		return 0xff
	case Word:
		return 0xffff
	default:
		return 0xffffffff
	}
}

func (s Size) msb() uint32 {
	return 1 << (uint(s)*8 - 1)
}

func (s Size) String() string {
	switch s {
	case Byte:
		return ".B"
	case Word:
		return ".W"
	default:
		return ".L"
	}
}

// signExtend widens the low s bytes of v to 32 bits.
func signExtend(v uint32, s Size) uint32 {
	switch s {
	case Byte:
		return uint32(int32(int8(v)))
	case Word:
		return uint32(int32(int16(v)))
	default:
		return v
	}
}

// size6 decodes the standard size field in bits 7-6.
func size6(op uint16) Size {
	switch (op >> 6) & 3 {
	case 0:
		return Byte
	case 1:
		return Word
	default:
		return Long
	}
}

// load reads a value of size s. Failures unwind the instruction.
func (cpu *CPU) load(addr uint32, s Size) uint32 {
	var v uint32
	var err error
	switch s {
	case Byte:
		var b byte
		b, err = cpu.Mem.LoadByte(addr)
		v = uint32(b)
	case Word:
		var w uint16
		w, err = cpu.Mem.LoadWord(addr)
		v = uint32(w)
	default:
		v, err = cpu.Mem.LoadLong(addr)
	}
	if err != nil {
		cpu.memFault(err, false)
	}
	return v
}

// store writes a value of size s through the active store function, which
// notifies the debugger when one is attached.
func (cpu *CPU) store(addr uint32, s Size, v uint32) {
	cpu.storeFn(cpu, addr, s, v)
}

func (cpu *CPU) storeNormal(addr uint32, s Size, v uint32) {
	var err error
	switch s {
	case Byte:
		err = cpu.Mem.StoreByte(addr, byte(v))
	case Word:
		err = cpu.Mem.StoreWord(addr, uint16(v))
	default:
		err = cpu.Mem.StoreLong(addr, v)
	}
	if err != nil {
		cpu.memFault(err, false)
	}
}

func (cpu *CPU) storeDebugger(addr uint32, s Size, v uint32) {
	cpu.storeNormal(addr, s, v)
	cpu.debugger.onDataStore(cpu, addr, s, v)
}

// fetchWord reads the next instruction-stream word and advances the PC.
func (cpu *CPU) fetchWord() uint16 {
	w, err := cpu.Mem.LoadWordUnchecked(cpu.reg.PC)
	if err != nil {
		cpu.memFault(err, true)
	}
	cpu.reg.PC += 2
	return w
}

func (cpu *CPU) fetchLong() uint32 {
	hi := cpu.fetchWord()
	lo := cpu.fetchWord()
	return uint32(hi)<<16 | uint32(lo)
}

func (cpu *CPU) push(s Size, v uint32) {
	if s == Byte {
		s = Word
	}
	cpu.reg.A[7] -= uint32(s)
	cpu.store(cpu.reg.A[7], s, v)
}

func (cpu *CPU) pop(s Size) uint32 {
	if s == Byte {
		s = Word
	}
	v := cpu.load(cpu.reg.A[7], s)
	cpu.reg.A[7] += uint32(s)
	return v
}
