// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/go68k/memory"
)

// Guest-visible faults. These never escape Tick; each is converted into
// the matching hardware exception.
var (
	ErrIllegalInstruction = errors.New("illegal instruction")
	ErrDivideByZero       = errors.New("divide by zero")
	ErrBoundsCheck        = errors.New("bounds check")
	ErrPrivilegeViolation = errors.New("privilege violation")
)

// Errors returned to the caller driving the CPU.
var (
	ErrHalted         = errors.New("cpu halted by double fault")
	ErrBadAutovector  = errors.New("autovector level out of range")
	ErrPendingOverrun = errors.New("pending interrupt stack full")
)

// An InternalError reports a defect in the emulator itself. Emulation
// stops when one is returned.
type InternalError struct {
	Opcode    uint16   // opcode being executed
	PC        uint32   // address of the opcode
	Backtrace []uint32 // recently fetched PCs, oldest first
	Cause     any      // recovered value
}

func (e *InternalError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "internal error executing $%04X at $%08X: %v", e.Opcode, e.PC, e.Cause)
	if len(e.Backtrace) > 0 {
		b.WriteString("\nbacktrace:")
		for _, pc := range e.Backtrace {
			fmt.Fprintf(&b, " $%08X", pc)
		}
	}
	return b.String()
}

// A fault unwinds the current instruction back to the tick boundary.
type fault struct {
	err    error
	aux    AuxData
	rewind bool // report the faulting instruction's own address
}

// fail abandons the current instruction with a guest-visible fault.
func (cpu *CPU) fail(err error) {
	panic(&fault{
		err:    err,
		rewind: errors.Is(err, ErrIllegalInstruction) || errors.Is(err, ErrPrivilegeViolation),
	})
}

// memFault converts a memory error into a fault carrying the access
// details needed by a group 0 exception frame.
func (cpu *CPU) memFault(err error, fetch bool) {
	f := &fault{err: err}
	f.aux.IR = cpu.opcode
	f.aux.Instruction = fetch
	var ae *memory.AccessError
	if errors.As(err, &ae) {
		f.aux.Address = ae.Addr
		f.aux.Write = ae.IsWrite()
	}
	panic(f)
}

// irqForError maps a guest-visible error onto the exception it raises.
func irqForError(err error) IRQ {
	switch {
	case errors.Is(err, memory.ErrBadAlignment):
		return IRQAddressError
	case errors.Is(err, memory.ErrWriteProtected), errors.Is(err, memory.ErrPageFault):
		return IRQBusError
	case errors.Is(err, ErrDivideByZero):
		return IRQDivideByZero
	case errors.Is(err, ErrBoundsCheck):
		return IRQBoundsCheck
	case errors.Is(err, ErrPrivilegeViolation):
		return IRQPrivilegeViolation
	default:
		return IRQIllegalInstruction
	}
}
