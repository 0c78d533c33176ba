// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// An addrMode is one of the twelve effective addressing modes.
type addrMode byte

const (
	modeDataReg     addrMode = iota // Dn
	modeAddrReg                     // An
	modeIndirect                    // (An)
	modePostInc                     // (An)+
	modePreDec                      // -(An)
	modeDisp                        // (d16,An)
	modeIndex                       // (d8,An,Xn) and full extension forms
	modeAbsShort                    // (xxx).W
	modeAbsLong                     // (xxx).L
	modePCDisp                      // (d16,PC)
	modePCIndex                     // (d8,PC,Xn) and full extension forms
	modeImmediate                   // #<data>
)

// decodeMode converts the 3-bit mode and register fields of an EA into an
// addressing mode.
func decodeMode(mode, reg uint16) (addrMode, bool) {
	if mode < 7 {
		return addrMode(mode), true
	}
	switch reg {
	case 0:
		return modeAbsShort, true
	case 1:
		return modeAbsLong, true
	case 2:
		return modePCDisp, true
	case 3:
		return modePCIndex, true
	case 4:
		return modeImmediate, true
	}
	return 0, false
}

// An eaClass is a set of addressing modes an instruction accepts.
type eaClass uint16

const (
	eaDataReg eaClass = 1 << iota
	eaAddrReg
	eaIndirect
	eaPostIncrement
	eaPreDecrement
	eaDisp
	eaIndex
	eaAbsShort
	eaAbsLong
	eaPCDisp
	eaPCIndex
	eaImmediate

	eaAll              = eaImmediate<<1 - 1
	eaData             = eaAll &^ eaAddrReg
	eaMemory           = eaAll &^ (eaDataReg | eaAddrReg)
	eaControl          = eaIndirect | eaDisp | eaIndex | eaAbsShort | eaAbsLong | eaPCDisp | eaPCIndex
	eaAlterable        = eaAll &^ (eaPCDisp | eaPCIndex | eaImmediate)
	eaDataAlterable    = eaAlterable &^ eaAddrReg
	eaMemoryAlterable  = eaAlterable & eaMemory
	eaControlAlterable = eaControl & eaAlterable
)

func (c eaClass) allows(m addrMode) bool {
	return c&(1<<m) != 0
}

// An operand is a resolved effective address.
type operand struct {
	mode addrMode
	reg  int
	size Size
	addr uint32 // memory address for memory modes
	imm  uint32 // value for immediate mode
}

// eaCycles holds the 68000 address calculation cost for byte/word and
// long operands.
var eaCycles = [...][2]int{
	modeDataReg:   {0, 0},
	modeAddrReg:   {0, 0},
	modeIndirect:  {4, 8},
	modePostInc:   {4, 8},
	modePreDec:    {6, 10},
	modeDisp:      {8, 12},
	modeIndex:     {10, 14},
	modeAbsShort:  {8, 12},
	modeAbsLong:   {12, 16},
	modePCDisp:    {8, 12},
	modePCIndex:   {10, 14},
	modeImmediate: {4, 8},
}

// resolveEA decodes the EA field in the low 6 bits of field for an operand
// of size s. Extension words are consumed from the instruction stream.
// Post-increment and pre-decrement adjust the address register unless
// probe is set. It returns the operand, the cycles charged and the number
// of extension bytes consumed.
func (cpu *CPU) resolveEA(field uint16, s Size, probe bool) (op operand, cycles, bytes int) {
	m, ok := decodeMode((field>>3)&7, field&7)
	if !ok {
		cpu.fail(ErrIllegalInstruction)
	}

	op = operand{mode: m, reg: int(field & 7), size: s}
	pc := cpu.reg.PC
	long := 0
	if s == Long {
		long = 1
	}
	cycles = eaCycles[m][long]

	switch m {
	case modeDataReg, modeAddrReg:

	case modeIndirect:
		op.addr = cpu.reg.A[op.reg]

	case modePostInc:
		op.addr = cpu.reg.A[op.reg]
		if !probe {
			cpu.reg.A[op.reg] += stepSize(op.reg, s)
		}

	case modePreDec:
		op.addr = cpu.reg.A[op.reg] - stepSize(op.reg, s)
		if !probe {
			cpu.reg.A[op.reg] = op.addr
		}

	case modeDisp:
		op.addr = cpu.reg.A[op.reg] + signExtend(uint32(cpu.fetchWord()), Word)

	case modeIndex:
		var extra int
		op.addr, extra = cpu.indexedAddress(cpu.reg.A[op.reg])
		cycles += extra

	case modeAbsShort:
		op.addr = signExtend(uint32(cpu.fetchWord()), Word)

	case modeAbsLong:
		op.addr = cpu.fetchLong()

	case modePCDisp:
		op.addr = pc + signExtend(uint32(cpu.fetchWord()), Word)

	case modePCIndex:
		var extra int
		op.addr, extra = cpu.indexedAddress(pc)
		cycles += extra

	case modeImmediate:
		switch s {
		case Byte:
			op.imm = uint32(cpu.fetchWord()) & 0xff
		case Word:
			op.imm = uint32(cpu.fetchWord())
		default:
			op.imm = cpu.fetchLong()
		}
	}

	return op, cycles, int(cpu.reg.PC - pc)
}

// stepSize returns the post-increment/pre-decrement adjustment. A7 always
// moves by at least 2 to keep the stack pointer even.
func stepSize(reg int, s Size) uint32 {
	if reg == 7 && s == Byte {
		return 2
	}
	return uint32(s)
}

// indexedAddress decodes a brief or full extension word. base is the
// address register value, or the address of the extension word for
// PC-relative forms. It returns the address and any cycles beyond the
// brief-format cost.
func (cpu *CPU) indexedAddress(base uint32) (uint32, int) {
	ext := cpu.fetchWord()

	index := cpu.reg.D[(ext>>12)&7]
	if ext&0x8000 != 0 {
		index = cpu.reg.A[(ext>>12)&7]
	}
	if ext&0x0800 == 0 {
		index = signExtend(index, Word)
	}

	if cpu.Model < MC68020 {
		return base + signExtend(uint32(ext), Byte) + index, 0
	}

	index <<= (ext >> 9) & 3
	if ext&0x0100 == 0 {
		return base + signExtend(uint32(ext), Byte) + index, 0
	}

	// Full extension word format.
	extra := 4
	if ext&0x0080 != 0 {
		base = 0
	}
	if ext&0x0040 != 0 {
		index = 0
	}

	var bd uint32
	switch (ext >> 4) & 3 {
	case 0:
		cpu.fail(ErrIllegalInstruction)
	case 2:
		bd = signExtend(uint32(cpu.fetchWord()), Word)
		extra += 4
	case 3:
		bd = cpu.fetchLong()
		extra += 8
	}

	iis := ext & 7
	if iis == 0 {
		return base + bd + index, extra
	}
	if iis == 4 || (ext&0x0040 != 0 && iis > 3) {
		cpu.fail(ErrIllegalInstruction)
	}

	var od uint32
	switch iis & 3 {
	case 2:
		od = signExtend(uint32(cpu.fetchWord()), Word)
		extra += 4
	case 3:
		od = cpu.fetchLong()
		extra += 8
	}
	extra += 8

	if iis&4 == 0 {
		// Pre-indexed memory indirect.
		return cpu.load(base+bd+index, Long) + od, extra
	}
	// Post-indexed memory indirect.
	return cpu.load(base+bd, Long) + index + od, extra
}

// ea resolves an EA field and charges its cycles to the instruction.
func (cpu *CPU) ea(field uint16, s Size) operand {
	op, cycles, _ := cpu.resolveEA(field, s, false)
	cpu.cycles += cycles
	return op
}

// read returns the value of an operand, truncated to its size.
func (cpu *CPU) read(op *operand) uint32 {
	switch op.mode {
	case modeDataReg:
		return cpu.reg.D[op.reg] & op.size.mask()
	case modeAddrReg:
		return cpu.reg.A[op.reg] & op.size.mask()
	case modeImmediate:
		return op.imm
	default:
		return cpu.load(op.addr, op.size)
	}
}

// write stores a value to an operand. Data register writes replace only
// the low bytes covered by the operand size; address register writes
// replace the whole register.
func (cpu *CPU) write(op *operand, v uint32) {
	switch op.mode {
	case modeDataReg:
		mask := op.size.mask()
		cpu.reg.D[op.reg] = cpu.reg.D[op.reg]&^mask | v&mask
	case modeAddrReg:
		cpu.reg.A[op.reg] = v
	case modeImmediate, modePCDisp, modePCIndex:
		panic("write to non-alterable operand")
	default:
		cpu.store(op.addr, op.size, v&op.size.mask())
	}
}
