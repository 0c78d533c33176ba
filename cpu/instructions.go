// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "sync"

type instfunc func(c *CPU, op uint16)

// An Instruction describes a CPU instruction, including its name and the
// function that implements it.
type Instruction struct {
	Name string
	fn   instfunc
}

// An InstructionSet maps every 16-bit opcode to the instruction that
// executes it.
type InstructionSet struct {
	Model        Model
	instructions [65536]*Instruction
}

// Lookup retrieves an instruction by opcode.
func (s *InstructionSet) Lookup(opcode uint16) *Instruction {
	return s.instructions[opcode]
}

// sizeField identifies where an instruction encodes its operand size.
type sizeField byte

const (
	sizeNone sizeField = iota
	sizeStd            // bits 7-6: 00=B 01=W 10=L
	sizeMove           // bits 13-12: 01=B 11=W 10=L
)

// opcodeData declares one instruction encoding. Every opcode matching
// (op & mask) == match, whose EA field (bits 5-0) is a mode allowed by
// ea, and which passes valid, is routed to fn.
type opcodeData struct {
	name  string
	match uint16
	mask  uint16
	ea    eaClass // 0 when bits 5-0 are not an EA field
	size  sizeField
	model Model // earliest model implementing the instruction
	valid func(op uint16) bool
	fn    instfunc
}

func noSize3(op uint16) bool { return op&0xc0 != 0xc0 }

func validMove(op uint16) bool {
	m, ok := decodeMode((op>>6)&7, (op>>9)&7)
	return ok && eaDataAlterable.allows(m)
}

// Entries are matched in order; the first entry claiming an opcode wins.
var data = []opcodeData{
	// Immediate and bit operations
	{name: "ORI", match: 0x003c, mask: 0xffff, fn: (*CPU).oriCCR},
	{name: "ORI", match: 0x007c, mask: 0xffff, fn: (*CPU).oriSR},
	{name: "ANDI", match: 0x023c, mask: 0xffff, fn: (*CPU).andiCCR},
	{name: "ANDI", match: 0x027c, mask: 0xffff, fn: (*CPU).andiSR},
	{name: "EORI", match: 0x0a3c, mask: 0xffff, fn: (*CPU).eoriCCR},
	{name: "EORI", match: 0x0a7c, mask: 0xffff, fn: (*CPU).eoriSR},
	{name: "ORI", match: 0x0000, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).ori},
	{name: "ANDI", match: 0x0200, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).andi},
	{name: "SUBI", match: 0x0400, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).subi},
	{name: "ADDI", match: 0x0600, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).addi},
	{name: "EORI", match: 0x0a00, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).eori},
	{name: "CMPI", match: 0x0c00, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).cmpi},
	{name: "BTST", match: 0x0800, mask: 0xffc0, ea: eaData &^ eaImmediate, fn: (*CPU).btst},
	{name: "BCHG", match: 0x0840, mask: 0xffc0, ea: eaDataAlterable, fn: (*CPU).bchg},
	{name: "BCLR", match: 0x0880, mask: 0xffc0, ea: eaDataAlterable, fn: (*CPU).bclr},
	{name: "BSET", match: 0x08c0, mask: 0xffc0, ea: eaDataAlterable, fn: (*CPU).bset},
	{name: "MOVEP", match: 0x0108, mask: 0xf138, fn: (*CPU).movep},
	{name: "BTST", match: 0x0100, mask: 0xf1c0, ea: eaData, fn: (*CPU).btst},
	{name: "BCHG", match: 0x0140, mask: 0xf1c0, ea: eaDataAlterable, fn: (*CPU).bchg},
	{name: "BCLR", match: 0x0180, mask: 0xf1c0, ea: eaDataAlterable, fn: (*CPU).bclr},
	{name: "BSET", match: 0x01c0, mask: 0xf1c0, ea: eaDataAlterable, fn: (*CPU).bset},

	// Moves
	{name: "MOVEA", match: 0x2040, mask: 0xf1c0, ea: eaAll, size: sizeMove, fn: (*CPU).movea},
	{name: "MOVEA", match: 0x3040, mask: 0xf1c0, ea: eaAll, size: sizeMove, fn: (*CPU).movea},
	{name: "MOVE", match: 0x1000, mask: 0xf000, ea: eaAll, size: sizeMove, valid: validMove, fn: (*CPU).move},
	{name: "MOVE", match: 0x2000, mask: 0xf000, ea: eaAll, size: sizeMove, valid: validMove, fn: (*CPU).move},
	{name: "MOVE", match: 0x3000, mask: 0xf000, ea: eaAll, size: sizeMove, valid: validMove, fn: (*CPU).move},
	{name: "MOVEQ", match: 0x7000, mask: 0xf100, fn: (*CPU).moveq},

	// Miscellaneous
	{name: "ILLEGAL", match: 0x4afc, mask: 0xffff, fn: (*CPU).illegal},
	{name: "RESET", match: 0x4e70, mask: 0xffff, fn: (*CPU).resetInst},
	{name: "NOP", match: 0x4e71, mask: 0xffff, fn: (*CPU).nop},
	{name: "STOP", match: 0x4e72, mask: 0xffff, fn: (*CPU).stop},
	{name: "RTE", match: 0x4e73, mask: 0xffff, fn: (*CPU).rte},
	{name: "RTD", match: 0x4e74, mask: 0xffff, model: MC68010, fn: (*CPU).rtd},
	{name: "RTS", match: 0x4e75, mask: 0xffff, fn: (*CPU).rts},
	{name: "TRAPV", match: 0x4e76, mask: 0xffff, fn: (*CPU).trapv},
	{name: "RTR", match: 0x4e77, mask: 0xffff, fn: (*CPU).rtr},
	{name: "TRAP", match: 0x4e40, mask: 0xfff0, fn: (*CPU).trap},
	{name: "LINK", match: 0x4e50, mask: 0xfff8, fn: (*CPU).link},
	{name: "LINK", match: 0x4808, mask: 0xfff8, model: MC68020, fn: (*CPU).linkLong},
	{name: "UNLK", match: 0x4e58, mask: 0xfff8, fn: (*CPU).unlk},
	{name: "MOVE", match: 0x4e60, mask: 0xfff0, fn: (*CPU).moveUSP},
	{name: "JSR", match: 0x4e80, mask: 0xffc0, ea: eaControl, fn: (*CPU).jsr},
	{name: "JMP", match: 0x4ec0, mask: 0xffc0, ea: eaControl, fn: (*CPU).jmp},
	{name: "MOVE", match: 0x40c0, mask: 0xffc0, ea: eaDataAlterable, fn: (*CPU).moveFromSR},
	{name: "MOVE", match: 0x42c0, mask: 0xffc0, ea: eaDataAlterable, model: MC68010, fn: (*CPU).moveFromCCR},
	{name: "MOVE", match: 0x44c0, mask: 0xffc0, ea: eaData, fn: (*CPU).moveToCCR},
	{name: "MOVE", match: 0x46c0, mask: 0xffc0, ea: eaData, fn: (*CPU).moveToSR},
	{name: "NEGX", match: 0x4000, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).negx},
	{name: "CLR", match: 0x4200, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).clr},
	{name: "NEG", match: 0x4400, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).neg},
	{name: "NOT", match: 0x4600, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).not},
	{name: "EXT", match: 0x4880, mask: 0xfff8, fn: (*CPU).ext},
	{name: "EXT", match: 0x48c0, mask: 0xfff8, fn: (*CPU).ext},
	{name: "EXTB", match: 0x49c0, mask: 0xfff8, model: MC68020, fn: (*CPU).ext},
	{name: "SWAP", match: 0x4840, mask: 0xfff8, fn: (*CPU).swap},
	{name: "PEA", match: 0x4840, mask: 0xffc0, ea: eaControl, fn: (*CPU).pea},
	{name: "NBCD", match: 0x4800, mask: 0xffc0, ea: eaDataAlterable, fn: (*CPU).nbcd},
	{name: "MOVEM", match: 0x4880, mask: 0xff80, ea: eaControlAlterable | eaPreDecrement, fn: (*CPU).movemToMem},
	{name: "MOVEM", match: 0x4c80, mask: 0xff80, ea: eaControl | eaPostIncrement, fn: (*CPU).movemToReg},
	{name: "TAS", match: 0x4ac0, mask: 0xffc0, ea: eaDataAlterable, fn: (*CPU).tas},
	{name: "TST", match: 0x4a00, mask: 0xff00, ea: eaAll, size: sizeStd, model: MC68020, valid: noSize3, fn: (*CPU).tst},
	{name: "TST", match: 0x4a00, mask: 0xff00, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).tst},
	{name: "CHK", match: 0x4180, mask: 0xf1c0, ea: eaData, fn: (*CPU).chk},
	{name: "CHK", match: 0x4100, mask: 0xf1c0, ea: eaData, model: MC68020, fn: (*CPU).chk},
	{name: "LEA", match: 0x41c0, mask: 0xf1c0, ea: eaControl, fn: (*CPU).lea},

	// Quick arithmetic, conditionals and branches
	{name: "DBcc", match: 0x50c8, mask: 0xf0f8, fn: (*CPU).dbcc},
	{name: "Scc", match: 0x50c0, mask: 0xf0c0, ea: eaDataAlterable, fn: (*CPU).scc},
	{name: "ADDQ", match: 0x5000, mask: 0xf100, ea: eaAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).addq},
	{name: "SUBQ", match: 0x5100, mask: 0xf100, ea: eaAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).subq},
	{name: "BRA", match: 0x6000, mask: 0xff00, fn: (*CPU).bra},
	{name: "BSR", match: 0x6100, mask: 0xff00, fn: (*CPU).bsr},
	{name: "Bcc", match: 0x6000, mask: 0xf000, fn: (*CPU).bcc},

	// Logical, multiply, divide and BCD
	{name: "DIVU", match: 0x80c0, mask: 0xf1c0, ea: eaData, fn: (*CPU).divu},
	{name: "DIVS", match: 0x81c0, mask: 0xf1c0, ea: eaData, fn: (*CPU).divs},
	{name: "SBCD", match: 0x8100, mask: 0xf1f0, fn: (*CPU).sbcd},
	{name: "OR", match: 0x8000, mask: 0xf100, ea: eaData, size: sizeStd, valid: noSize3, fn: (*CPU).or},
	{name: "OR", match: 0x8100, mask: 0xf100, ea: eaMemoryAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).or},
	{name: "MULU", match: 0xc0c0, mask: 0xf1c0, ea: eaData, fn: (*CPU).mulu},
	{name: "MULS", match: 0xc1c0, mask: 0xf1c0, ea: eaData, fn: (*CPU).muls},
	{name: "ABCD", match: 0xc100, mask: 0xf1f0, fn: (*CPU).abcd},
	{name: "EXG", match: 0xc140, mask: 0xf1f8, fn: (*CPU).exg},
	{name: "EXG", match: 0xc148, mask: 0xf1f8, fn: (*CPU).exg},
	{name: "EXG", match: 0xc188, mask: 0xf1f8, fn: (*CPU).exg},
	{name: "AND", match: 0xc000, mask: 0xf100, ea: eaData, size: sizeStd, valid: noSize3, fn: (*CPU).and},
	{name: "AND", match: 0xc100, mask: 0xf100, ea: eaMemoryAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).and},

	// Add, subtract and compare
	{name: "SUBA", match: 0x90c0, mask: 0xf0c0, ea: eaAll, fn: (*CPU).suba},
	{name: "SUBX", match: 0x9100, mask: 0xf130, size: sizeStd, valid: noSize3, fn: (*CPU).subx},
	{name: "SUB", match: 0x9000, mask: 0xf100, ea: eaAll, size: sizeStd, valid: noSize3, fn: (*CPU).sub},
	{name: "SUB", match: 0x9100, mask: 0xf100, ea: eaMemoryAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).sub},
	{name: "CMPA", match: 0xb0c0, mask: 0xf0c0, ea: eaAll, fn: (*CPU).cmpa},
	{name: "CMPM", match: 0xb108, mask: 0xf138, size: sizeStd, valid: noSize3, fn: (*CPU).cmpm},
	{name: "EOR", match: 0xb100, mask: 0xf100, ea: eaDataAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).eor},
	{name: "CMP", match: 0xb000, mask: 0xf100, ea: eaAll, size: sizeStd, valid: noSize3, fn: (*CPU).cmp},
	{name: "ADDA", match: 0xd0c0, mask: 0xf0c0, ea: eaAll, fn: (*CPU).adda},
	{name: "ADDX", match: 0xd100, mask: 0xf130, size: sizeStd, valid: noSize3, fn: (*CPU).addx},
	{name: "ADD", match: 0xd000, mask: 0xf100, ea: eaAll, size: sizeStd, valid: noSize3, fn: (*CPU).add},
	{name: "ADD", match: 0xd100, mask: 0xf100, ea: eaMemoryAlterable, size: sizeStd, valid: noSize3, fn: (*CPU).add},

	// Shifts and rotates
	{name: "SHIFT", match: 0xe0c0, mask: 0xf8c0, ea: eaMemoryAlterable, fn: (*CPU).shiftMemory},
	{name: "SHIFT", match: 0xe000, mask: 0xf000, valid: noSize3, fn: (*CPU).shiftRegister},
}

var unusedInstructions = [...]*Instruction{
	{Name: "???", fn: (*CPU).illegal},
	{Name: "LINEA", fn: (*CPU).lineA},
	{Name: "LINEF", fn: (*CPU).lineF},
}

// Create an instruction set for a CPU model.
func newInstructionSet(model Model) *InstructionSet {
	set := &InstructionSet{Model: model}

	for i := range data {
		d := &data[i]
		if d.model > model {
			continue
		}
		inst := &Instruction{Name: d.name, fn: d.fn}

		// Enumerate every opcode whose fixed bits match.
		free := ^d.mask
		for x := uint16(0); ; {
			op := d.match | x
			if set.instructions[op] == nil && d.accepts(op) {
				set.instructions[op] = inst
			}
			x = (x - free) & free
			if x == 0 {
				break
			}
		}
	}

	for op := range set.instructions {
		if set.instructions[op] != nil {
			continue
		}
		switch op >> 12 {
		case 0xa:
			set.instructions[op] = unusedInstructions[1]
		case 0xf:
			set.instructions[op] = unusedInstructions[2]
		default:
			set.instructions[op] = unusedInstructions[0]
		}
	}
	return set
}

// accepts returns true if the opcode is a valid encoding of d.
func (d *opcodeData) accepts(op uint16) bool {
	if d.valid != nil && !d.valid(op) {
		return false
	}
	if d.ea == 0 {
		return true
	}

	m, ok := decodeMode((op>>3)&7, op&7)
	if !ok || !d.ea.allows(m) {
		return false
	}

	// Address registers can't be byte-sized operands.
	if m == modeAddrReg {
		switch {
		case d.size == sizeStd && size6(op) == Byte:
			return false
		case d.size == sizeMove && (op>>12)&3 == 1:
			return false
		}
	}
	return true
}

var (
	instructionSets [3]*InstructionSet
	instructionOnce [3]sync.Once
)

// GetInstructionSet returns an instruction set for the requested CPU
// model.
func GetInstructionSet(model Model) *InstructionSet {
	instructionOnce[model].Do(func() {
		// Lazy-create the instruction set.
		instructionSets[model] = newInstructionSet(model)
	})
	return instructionSets[model]
}
