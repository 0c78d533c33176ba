// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// An IRQ describes one exception source: its number, priority group,
// numeric priority and vector. IRQ values are immutable.
type IRQ struct {
	number   int
	group    int
	priority int
	name     string
}

// Number returns the IRQ number. The vector is derived from it.
func (q IRQ) Number() int { return q.number }

// Group returns the priority group: 0 (reset, bus and address errors),
// 1 (trace, autovectors, illegal and privilege) or 2 (arithmetic, bounds
// and trap).
func (q IRQ) Group() int { return q.group }

// Priority returns the numeric priority used to order delivery.
func (q IRQ) Priority() int { return q.priority }

// Vector returns the address of the IRQ's exception vector.
func (q IRQ) Vector() uint32 {
	if q.number == 0 {
		return 4
	}
	return 8 + uint32(q.number-1)*4
}

func (q IRQ) String() string {
	return q.name
}

// autovectorLevel returns the interrupt level of an autovectored IRQ, or 0.
func (q IRQ) autovectorLevel() int {
	if q.number >= autovectorBase+1 && q.number <= autovectorBase+7 {
		return q.number - autovectorBase
	}
	return 0
}

const (
	autovectorBase = 23 // IRQ number of autovector level n is 23+n
	trapBase       = 31 // IRQ number of TRAP #n is 31+n
)

// The IRQ catalogue.
var (
	IRQReset              = IRQ{number: 0, group: 0, priority: 100, name: "reset"}
	IRQBusError           = IRQ{number: 1, group: 0, priority: 99, name: "bus error"}
	IRQAddressError       = IRQ{number: 2, group: 0, priority: 98, name: "address error"}
	IRQIllegalInstruction = IRQ{number: 3, group: 1, priority: 80, name: "illegal instruction"}
	IRQDivideByZero       = IRQ{number: 4, group: 2, priority: 70, name: "divide by zero"}
	IRQBoundsCheck        = IRQ{number: 5, group: 2, priority: 70, name: "CHK"}
	IRQTrapV              = IRQ{number: 6, group: 2, priority: 70, name: "TRAPV"}
	IRQPrivilegeViolation = IRQ{number: 7, group: 1, priority: 79, name: "privilege violation"}
	IRQTrace              = IRQ{number: 8, group: 1, priority: 88, name: "trace"}
	IRQLineA              = IRQ{number: 9, group: 1, priority: 80, name: "line 1010 emulator"}
	IRQLineF              = IRQ{number: 10, group: 1, priority: 80, name: "line 1111 emulator"}
)

// Autovector returns the IRQ for autovectored interrupt level 1 through 7.
func Autovector(level int) (IRQ, error) {
	if level < 1 || level > 7 {
		return IRQ{}, ErrBadAutovector
	}
	return IRQ{
		number:   autovectorBase + level,
		group:    1,
		priority: 80 + level,
		name:     fmt.Sprintf("level %d autovector", level),
	}, nil
}

// Trap returns the IRQ raised by the TRAP #n instruction.
func Trap(n int) IRQ {
	n &= 15
	return IRQ{
		number:   trapBase + n,
		group:    2,
		priority: 70,
		name:     fmt.Sprintf("TRAP #%d", n),
	}
}

// AuxData carries the extra information stacked by group 0 exceptions.
type AuxData struct {
	Address     uint32 // faulting access address
	IR          uint16 // instruction word being executed
	Write       bool   // the faulting access was a write
	Instruction bool   // the faulting access was an instruction fetch
}

// statusWord builds the special status word of a group 0 frame: R/W in
// bit 4, I/N in bit 3 and the function code in bits 2-0.
func (a AuxData) statusWord(sr uint16) uint16 {
	var w uint16
	if !a.Write {
		w |= 1 << 4
	}
	if !a.Instruction {
		w |= 1 << 3
	}
	fc := uint16(1)
	if a.Instruction {
		fc = 2
	}
	if sr&SupervisorBit != 0 {
		fc += 4
	}
	return w | fc
}

type pendingIRQ struct {
	irq IRQ
	aux AuxData
}

const maxPending = 10

// Exception processing cycle costs.
func exceptionCycles(irq IRQ) int {
	switch {
	case irq.group == 0:
		return 50
	case irq.autovectorLevel() != 0:
		return 44
	case irq == IRQDivideByZero:
		return 38
	case irq == IRQBoundsCheck:
		return 40
	default:
		return 34
	}
}

// trigger raises an exception. Reset is unconditional. Anything else is
// queued when an IRQ of equal or higher priority is active, or when it is
// an autovector masked by the status register; otherwise it is delivered
// immediately.
func (cpu *CPU) trigger(irq IRQ, aux AuxData) {
	if irq == IRQReset {
		cpu.reset()
		return
	}

	if cpu.deferred(irq) {
		cpu.queue(irq, aux)
		return
	}

	cpu.deliver(irq, aux)
}

// deferred reports whether trigger would queue irq instead of delivering
// it.
func (cpu *CPU) deferred(irq IRQ) bool {
	return (cpu.active != nil && cpu.active.priority >= irq.priority) || cpu.masked(irq)
}

// rewind points the PC back at the current instruction when irq will be
// delivered, so the exception frame reports the instruction's address. A
// queued exception leaves the PC past the instruction.
func (cpu *CPU) rewind(irq IRQ) {
	if !cpu.deferred(irq) {
		cpu.reg.PC = cpu.instPC
	}
}

func (cpu *CPU) masked(irq IRQ) bool {
	level := irq.autovectorLevel()
	return level != 0 && level < 7 && level <= cpu.reg.IPL()
}

func (cpu *CPU) queue(irq IRQ, aux AuxData) {
	if len(cpu.pending) == maxPending {
		cpu.log.WithError(ErrPendingOverrun).WithFields(logrus.Fields{"irq": irq.name, "pc": cpu.reg.PC}).
			Warn("dropping interrupt")
		return
	}
	cpu.pending = append(cpu.pending, pendingIRQ{irq: irq, aux: aux})
	cpu.log.WithFields(logrus.Fields{"irq": irq.name, "pending": len(cpu.pending)}).Debug("interrupt queued")
}

// deliver vectors into an exception handler.
func (cpu *CPU) deliver(irq IRQ, aux AuxData) {
	oldSR := cpu.reg.SR
	pc := cpu.reg.PC
	if irq == IRQAddressError && pc&1 != 0 {
		pc++
	}

	sr := (oldSR | SupervisorBit) &^ traceMask
	if level := irq.autovectorLevel(); level != 0 {
		sr = sr&^iplMask | uint16(level)<<iplShift
	}
	cpu.setSR(sr)

	cpu.push(Long, pc)
	cpu.push(Word, uint32(oldSR))
	if irq.group == 0 {
		cpu.push(Word, uint32(aux.IR))
		cpu.push(Long, aux.Address)
		cpu.push(Word, uint32(aux.statusWord(oldSR)))
	}

	active := irq
	cpu.active = &active
	cpu.stopped = false

	handler := cpu.load(irq.Vector(), Long)
	if handler == 0 {
		cpu.log.WithFields(logrus.Fields{"irq": irq.name, "vector": irq.Vector()}).
			Warn("uninitialized exception vector")
	}
	cpu.reg.PC = handler
	cpu.cycles += exceptionCycles(irq)

	cpu.log.WithFields(logrus.Fields{
		"irq":     irq.name,
		"vector":  irq.Vector(),
		"pc":      pc,
		"sr":      oldSR,
		"handler": handler,
	}).Debug("exception")
}

// checkPending delivers the highest-priority deliverable pending IRQ when
// it outranks the active one.
func (cpu *CPU) checkPending() {
	best := -1
	for i, p := range cpu.pending {
		if cpu.masked(p.irq) {
			continue
		}
		if best < 0 || p.irq.priority > cpu.pending[best].irq.priority {
			best = i
		}
	}
	if best < 0 {
		return
	}

	p := cpu.pending[best]
	if cpu.active != nil && p.irq.priority <= cpu.active.priority {
		return
	}
	cpu.pending = append(cpu.pending[:best], cpu.pending[best+1:]...)
	cpu.deliver(p.irq, p.aux)
}

// returnFromException implements RTE.
func (cpu *CPU) returnFromException() {
	if !cpu.flag(SupervisorBit) {
		cpu.fail(ErrPrivilegeViolation)
	}
	sr := uint16(cpu.pop(Word))
	pc := cpu.pop(Long)
	cpu.setSR(sr)
	cpu.reg.PC = pc
	cpu.active = nil
}

// reset discards all pending and active interrupts and reloads the
// supervisor stack pointer and PC from the first two vectors.
func (cpu *CPU) reset() {
	cpu.pending = cpu.pending[:0]
	cpu.active = nil
	cpu.stopped = false
	cpu.halted = false

	if !cpu.flag(SupervisorBit) {
		cpu.reg.USP = cpu.reg.A[7]
	}
	cpu.reg.SR = SupervisorBit | iplMask
	cpu.reg.SSP = cpu.load(0, Long)
	cpu.reg.A[7] = cpu.reg.SSP
	cpu.reg.PC = cpu.load(4, Long)
	cpu.cycles += 40

	cpu.log.WithFields(logrus.Fields{"ssp": cpu.reg.SSP, "pc": cpu.reg.PC}).Debug("reset")
}
