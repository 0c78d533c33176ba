// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// moveSize decodes the size field in bits 13-12 of a MOVE opcode.
func moveSize(op uint16) Size {
	switch (op >> 12) & 3 {
	case 1:
		return Byte
	case 3:
		return Word
	default:
		return Long
	}
}

// immediate fetches an immediate operand of size s.
func (cpu *CPU) immediate(s Size) uint32 {
	switch s {
	case Byte:
		return uint32(cpu.fetchWord()) & 0xff
	case Word:
		return uint32(cpu.fetchWord())
	default:
		return cpu.fetchLong()
	}
}

// MOVE <ea>,<ea>
func (cpu *CPU) move(op uint16) {
	s := moveSize(op)
	src := cpu.ea(op, s)
	v := cpu.read(&src)

	// The destination field has its mode and register swapped.
	field := (op>>6)&7<<3 | (op>>9)&7
	dst := cpu.ea(field, s)
	cpu.write(&dst, v)

	cpu.setLogicFlags(s, v)
	cpu.cycles += 4
}

// MOVEA <ea>,An
func (cpu *CPU) movea(op uint16) {
	s := moveSize(op)
	src := cpu.ea(op, s)
	cpu.reg.A[(op>>9)&7] = signExtend(cpu.read(&src), s)
	cpu.cycles += 4
}

// MOVEQ #<data>,Dn
func (cpu *CPU) moveq(op uint16) {
	v := signExtend(uint32(op), Byte)
	cpu.reg.D[(op>>9)&7] = v
	cpu.setLogicFlags(Long, v)
	cpu.cycles += 4
}

// MOVE SR,<ea>. Privileged from the 68010 on.
func (cpu *CPU) moveFromSR(op uint16) {
	if cpu.Model >= MC68010 {
		cpu.requireSupervisor()
	}
	dst := cpu.ea(op, Word)
	cpu.write(&dst, uint32(cpu.reg.SR))
	cpu.cycles += 6
}

// MOVE CCR,<ea>
func (cpu *CPU) moveFromCCR(op uint16) {
	dst := cpu.ea(op, Word)
	cpu.write(&dst, uint32(cpu.reg.SR&ccrMask))
	cpu.cycles += 6
}

// MOVE <ea>,CCR
func (cpu *CPU) moveToCCR(op uint16) {
	src := cpu.ea(op, Word)
	cpu.setCCR(uint16(cpu.read(&src)))
	cpu.cycles += 12
}

// MOVE <ea>,SR
func (cpu *CPU) moveToSR(op uint16) {
	cpu.requireSupervisor()
	src := cpu.ea(op, Word)
	cpu.setSR(uint16(cpu.read(&src)))
	cpu.cycles += 12
}

// MOVE USP,An and MOVE An,USP
func (cpu *CPU) moveUSP(op uint16) {
	cpu.requireSupervisor()
	r := op & 7
	if op&0x0008 != 0 {
		cpu.reg.A[r] = cpu.reg.USP
	} else {
		cpu.reg.USP = cpu.reg.A[r]
	}
	cpu.cycles += 4
}

// LEA <ea>,An
func (cpu *CPU) lea(op uint16) {
	src := cpu.ea(op, Long)
	cpu.reg.A[(op>>9)&7] = src.addr
	cpu.cycles += 4
}

// PEA <ea>
func (cpu *CPU) pea(op uint16) {
	src := cpu.ea(op, Long)
	cpu.push(Long, src.addr)
	cpu.cycles += 8
}

// EXG Rx,Ry
func (cpu *CPU) exg(op uint16) {
	rx, ry := (op>>9)&7, op&7
	switch (op >> 3) & 0x1f {
	case 0x08:
		cpu.reg.D[rx], cpu.reg.D[ry] = cpu.reg.D[ry], cpu.reg.D[rx]
	case 0x09:
		cpu.reg.A[rx], cpu.reg.A[ry] = cpu.reg.A[ry], cpu.reg.A[rx]
	default:
		cpu.reg.D[rx], cpu.reg.A[ry] = cpu.reg.A[ry], cpu.reg.D[rx]
	}
	cpu.cycles += 6
}

// SWAP Dn
func (cpu *CPU) swap(op uint16) {
	r := op & 7
	v := cpu.reg.D[r]<<16 | cpu.reg.D[r]>>16
	cpu.reg.D[r] = v
	cpu.setLogicFlags(Long, v)
	cpu.cycles += 4
}

// EXT.W, EXT.L and EXTB.L
func (cpu *CPU) ext(op uint16) {
	r := op & 7
	v := cpu.reg.D[r]
	switch (op >> 6) & 7 {
	case 2:
		v = cpu.reg.D[r]&0xffff0000 | signExtend(v, Byte)&0xffff
		cpu.setLogicFlags(Word, v)
	case 3:
		v = signExtend(v, Word)
		cpu.setLogicFlags(Long, v)
	default:
		v = signExtend(v, Byte)
		cpu.setLogicFlags(Long, v)
	}
	cpu.reg.D[r] = v
	cpu.cycles += 4
}

// movemSize decodes the size bit of MOVEM.
func movemSize(op uint16) Size {
	if op&0x0040 != 0 {
		return Long
	}
	return Word
}

// MOVEM <list>,<ea>
func (cpu *CPU) movemToMem(op uint16) {
	list := cpu.fetchWord()
	s := movemSize(op)

	dst, cycles, _ := cpu.resolveEA(op, s, true)
	cpu.cycles += cycles

	n := 0
	if dst.mode == modePreDec {
		// The register list is reversed: bit 0 is A7 and bit 15 is D0.
		base := cpu.reg.A[dst.reg]
		addr := base
		for i := 0; i < 16; i++ {
			if list&(1<<i) == 0 {
				continue
			}
			r := 15 - i
			addr -= uint32(s)
			v := cpu.regN(r)
			if r == 8+dst.reg && cpu.Model >= MC68020 {
				v = base - uint32(s)
			}
			cpu.store(addr, s, v)
			n++
		}
		cpu.reg.A[dst.reg] = addr
	} else {
		addr := dst.addr
		for r := 0; r < 16; r++ {
			if list&(1<<r) == 0 {
				continue
			}
			cpu.store(addr, s, cpu.regN(r))
			addr += uint32(s)
			n++
		}
	}

	cpu.cycles += 8 + n*int(s)*2
}

// MOVEM <ea>,<list>
func (cpu *CPU) movemToReg(op uint16) {
	list := cpu.fetchWord()
	s := movemSize(op)

	src, cycles, _ := cpu.resolveEA(op, s, true)
	cpu.cycles += cycles

	addr := src.addr
	n := 0
	for r := 0; r < 16; r++ {
		if list&(1<<r) == 0 {
			continue
		}
		v := signExtend(cpu.load(addr, s), s)
		if r < 8 {
			cpu.reg.D[r] = v
		} else {
			cpu.reg.A[r-8] = v
		}
		addr += uint32(s)
		n++
	}
	if src.mode == modePostInc {
		cpu.reg.A[src.reg] = addr
	}

	cpu.cycles += 12 + n*int(s)*2
}

// regN returns D0-D7 for n in 0-7 and A0-A7 for n in 8-15.
func (cpu *CPU) regN(n int) uint32 {
	if n < 8 {
		return cpu.reg.D[n]
	}
	return cpu.reg.A[n-8]
}

// MOVEP Dx,(d16,Ay) and MOVEP (d16,Ay),Dx
func (cpu *CPU) movep(op uint16) {
	dx := (op >> 9) & 7
	addr := cpu.reg.A[op&7] + signExtend(uint32(cpu.fetchWord()), Word)

	n := 2
	if op&0x0040 != 0 {
		n = 4
	}

	if op&0x0080 != 0 {
		v := cpu.reg.D[dx]
		for i := n - 1; i >= 0; i-- {
			cpu.store(addr, Byte, v>>(8*i))
			addr += 2
		}
	} else {
		var v uint32
		for i := 0; i < n; i++ {
			v = v<<8 | cpu.load(addr, Byte)
			addr += 2
		}
		if n == 2 {
			v |= cpu.reg.D[dx] &^ 0xffff
		}
		cpu.reg.D[dx] = v
	}

	cpu.cycles += 8 + 4*n
}
