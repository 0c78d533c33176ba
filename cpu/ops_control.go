// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// requireSupervisor fails with a privilege violation in user mode.
func (cpu *CPU) requireSupervisor() {
	if !cpu.flag(SupervisorBit) {
		cpu.fail(ErrPrivilegeViolation)
	}
}

// branchTarget decodes the displacement of BRA, BSR and Bcc. An 8-bit
// displacement of 0 selects a 16-bit extension word; $FF selects a 32-bit
// one on the 68020.
func (cpu *CPU) branchTarget(op uint16) uint32 {
	base := cpu.reg.PC
	switch disp := op & 0xff; {
	case disp == 0:
		return base + signExtend(uint32(cpu.fetchWord()), Word)
	case disp == 0xff && cpu.Model >= MC68020:
		return base + cpu.fetchLong()
	default:
		return base + signExtend(uint32(disp), Byte)
	}
}

// BRA <label>
func (cpu *CPU) bra(op uint16) {
	cpu.reg.PC = cpu.branchTarget(op)
	cpu.cycles += 10
}

// BSR <label>
func (cpu *CPU) bsr(op uint16) {
	target := cpu.branchTarget(op)
	cpu.push(Long, cpu.reg.PC)
	cpu.reg.PC = target
	cpu.cycles += 18
}

// Bcc <label>
func (cpu *CPU) bcc(op uint16) {
	target := cpu.branchTarget(op)
	if cpu.testCondition(op >> 8) {
		cpu.reg.PC = target
		cpu.cycles += 10
		return
	}
	cpu.cycles += 8
}

// DBcc Dn,<label>
func (cpu *CPU) dbcc(op uint16) {
	base := cpu.reg.PC
	target := base + signExtend(uint32(cpu.fetchWord()), Word)
	if cpu.testCondition(op >> 8) {
		cpu.cycles += 12
		return
	}

	r := op & 7
	count := uint16(cpu.reg.D[r]) - 1
	cpu.reg.D[r] = cpu.reg.D[r]&0xffff0000 | uint32(count)
	if count == 0xffff {
		cpu.cycles += 14
		return
	}
	cpu.reg.PC = target
	cpu.cycles += 10
}

// JMP <ea>
func (cpu *CPU) jmp(op uint16) {
	dst := cpu.ea(op, Long)
	cpu.reg.PC = dst.addr
	cpu.cycles += 4
}

// JSR <ea>
func (cpu *CPU) jsr(op uint16) {
	dst := cpu.ea(op, Long)
	cpu.push(Long, cpu.reg.PC)
	cpu.reg.PC = dst.addr
	cpu.cycles += 12
}

// RTS
func (cpu *CPU) rts(op uint16) {
	cpu.reg.PC = cpu.pop(Long)
	cpu.cycles += 16
}

// RTR
func (cpu *CPU) rtr(op uint16) {
	cpu.setCCR(uint16(cpu.pop(Word)))
	cpu.reg.PC = cpu.pop(Long)
	cpu.cycles += 20
}

// RTD #<displacement>
func (cpu *CPU) rtd(op uint16) {
	disp := signExtend(uint32(cpu.fetchWord()), Word)
	cpu.reg.PC = cpu.pop(Long)
	cpu.reg.A[7] += disp
	cpu.cycles += 16
}

// RTE
func (cpu *CPU) rte(op uint16) {
	cpu.returnFromException()
	cpu.cycles += 20
}

// LINK An,#<displacement>
func (cpu *CPU) link(op uint16) {
	cpu.linkFrame(op&7, signExtend(uint32(cpu.fetchWord()), Word))
	cpu.cycles += 16
}

// LINK.L An,#<displacement>
func (cpu *CPU) linkLong(op uint16) {
	cpu.linkFrame(op&7, cpu.fetchLong())
	cpu.cycles += 20
}

func (cpu *CPU) linkFrame(r uint16, disp uint32) {
	cpu.push(Long, cpu.reg.A[r])
	cpu.reg.A[r] = cpu.reg.A[7]
	cpu.reg.A[7] += disp
}

// UNLK An
func (cpu *CPU) unlk(op uint16) {
	r := op & 7
	cpu.reg.A[7] = cpu.reg.A[r]
	cpu.reg.A[r] = cpu.pop(Long)
	cpu.cycles += 12
}

// TRAP #<vector>
func (cpu *CPU) trap(op uint16) {
	cpu.cycles += 4
	cpu.trigger(Trap(int(op&15)), AuxData{})
}

// TRAPV
func (cpu *CPU) trapv(op uint16) {
	cpu.cycles += 4
	if cpu.flag(OverflowBit) {
		cpu.trigger(IRQTrapV, AuxData{})
	}
}

// NOP
func (cpu *CPU) nop(op uint16) {
	cpu.cycles += 4
}

// ILLEGAL and every unassigned opcode.
func (cpu *CPU) illegal(op uint16) {
	cpu.fail(ErrIllegalInstruction)
}

// Unassigned opcodes beginning with $A.
func (cpu *CPU) lineA(op uint16) {
	cpu.rewind(IRQLineA)
	cpu.trigger(IRQLineA, AuxData{})
}

// Unassigned opcodes beginning with $F.
func (cpu *CPU) lineF(op uint16) {
	cpu.rewind(IRQLineF)
	cpu.trigger(IRQLineF, AuxData{})
}

// STOP #<data>
func (cpu *CPU) stop(op uint16) {
	cpu.requireSupervisor()
	sr := cpu.fetchWord()
	cpu.setSR(sr)
	cpu.stopped = true
	cpu.cycles += 4
}

// RESET asserts the external reset line. The CPU itself is unaffected.
func (cpu *CPU) resetInst(op uint16) {
	cpu.requireSupervisor()
	if cpu.resetHandler != nil {
		cpu.resetHandler.OnReset(cpu)
	}
	cpu.cycles += 132
}
