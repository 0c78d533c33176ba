// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements an M680x0 CPU instruction set and emulator.
//
// The CPU is driven one clock cycle at a time by Tick. Each instruction
// executes on the tick its predecessor's cycle countdown expires. Faults
// raised by an instruction (illegal opcodes, misaligned or protected
// accesses, division by zero and so on) never escape Tick: they are turned
// into guest exceptions and vectored through the exception table in memory.
// Only defects in the emulator itself are returned as errors.
//
// A CPU is not safe for concurrent use. Peripherals running on other
// goroutines request interrupts through an InterruptBridge.
package cpu

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/go68k/memory"
	"github.com/sirupsen/logrus"
)

// Model selects the CPU generation.
type Model byte

const (
	// MC68000 is the original 16/32-bit CPU.
	MC68000 Model = iota

	// MC68010 adds privileged MOVE from SR, MOVE from CCR and RTD.
	MC68010

	// MC68020 adds full extension word addressing, scaled indexes, 32-bit
	// branch displacements, EXTB.L, CHK.L and LINK.L.
	MC68020
)

var modelNames = []string{"68000", "68010", "68020"}

func (m Model) String() string {
	if int(m) < len(modelNames) {
		return modelNames[m]
	}
	return "unknown"
}

// ParseModel converts a name such as "68020" or "mc68010" into a Model.
func ParseModel(s string) (Model, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "mc")
	for i, n := range modelNames {
		if s == n {
			return Model(i), nil
		}
	}
	return MC68000, fmt.Errorf("unknown cpu model '%s'", s)
}

func (m Model) srMask() uint16 {
	if m >= MC68020 {
		return 0xf71f
	}
	return 0xa71f
}

// ResetHandler is an interface implemented by types that wish to be
// notified when the RESET instruction asserts the external reset line.
type ResetHandler interface {
	OnReset(cpu *CPU)
}

// CPU represents a single M680x0 CPU. It contains a pointer to the
// memory associated with the CPU.
type CPU struct {
	Model        Model           // CPU generation
	Mem          Memory          // assigned memory
	InstSet      *InstructionSet // instruction set used by the CPU
	reg          Registers
	totalCycles  uint64 // ticks elapsed
	cyclesLeft   int    // ticks until the next instruction executes
	cycles       int    // cost of the instruction being executed
	opcode       uint16
	instPC       uint32
	pending      []pendingIRQ
	active       *IRQ
	stopped      bool
	halted       bool
	broken       *InternalError
	trace        backtrace
	log          *logrus.Logger
	debugger     *Debugger
	bridge       *InterruptBridge
	resetHandler ResetHandler
	storeFn      func(cpu *CPU, addr uint32, s Size, v uint32)
}

// NewCPU creates an emulated CPU bound to the specified memory. The CPU
// starts in supervisor mode with interrupts masked; call Reset once the
// vector table is in memory.
func NewCPU(model Model, m Memory) *CPU {
	cpu := &CPU{
		Model:   model,
		Mem:     m,
		InstSet: GetInstructionSet(model),
		log:     newSilentLogger(),
		storeFn: (*CPU).storeNormal,
		pending: make([]pendingIRQ, 0, maxPending),
	}
	cpu.reg.SR = SupervisorBit | iplMask
	return cpu
}

func newSilentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SetLogger subscribes a logger to CPU events. Per-instruction tracing is
// emitted only at trace level.
func (cpu *CPU) SetLogger(l *logrus.Logger) {
	if l == nil {
		l = newSilentLogger()
	}
	cpu.log = l
}

// Registers returns a copy of the register file. USP and SSP both hold
// their current values regardless of which one A7 aliases.
func (cpu *CPU) Registers() Registers {
	r := cpu.reg
	if r.Supervisor() {
		r.SSP = r.A[7]
	} else {
		r.USP = r.A[7]
	}
	return r
}

// SetState replaces the register file. A[7] is taken as the active stack
// pointer for the privilege level in r.SR.
func (cpu *CPU) SetState(r Registers) {
	r.SR &= cpu.Model.srMask()
	r.PC &^= 1
	cpu.reg = r
	if r.Supervisor() {
		cpu.reg.SSP = r.A[7]
	} else {
		cpu.reg.USP = r.A[7]
	}
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint32) {
	cpu.reg.PC = addr
}

// PC returns the program counter.
func (cpu *CPU) PC() uint32 {
	return cpu.reg.PC
}

// Cycles returns the number of ticks elapsed.
func (cpu *CPU) Cycles() uint64 {
	return cpu.totalCycles
}

// CyclesRemaining returns the number of ticks before the next instruction
// executes.
func (cpu *CPU) CyclesRemaining() int {
	return cpu.cyclesLeft
}

// Backtrace returns the addresses of the most recently fetched
// instructions, oldest first.
func (cpu *CPU) Backtrace() []uint32 {
	return cpu.trace.entries()
}

// Pending returns the queued IRQs in arrival order.
func (cpu *CPU) Pending() []IRQ {
	irqs := make([]IRQ, len(cpu.pending))
	for i, p := range cpu.pending {
		irqs[i] = p.irq
	}
	return irqs
}

// Active returns the IRQ currently being serviced, if any.
func (cpu *CPU) Active() (IRQ, bool) {
	if cpu.active == nil {
		return IRQ{}, false
	}
	return *cpu.active, true
}

// Stopped returns true while the CPU waits in a STOP instruction.
func (cpu *CPU) Stopped() bool {
	return cpu.stopped
}

// Halted returns true after a double fault. Only Reset recovers.
func (cpu *CPU) Halted() bool {
	return cpu.halted
}

// AttachResetHandler attaches a handler that is called whenever the RESET
// instruction is executed.
func (cpu *CPU) AttachResetHandler(handler ResetHandler) {
	cpu.resetHandler = handler
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores data
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeFn = (*CPU).storeDebugger
}

// DetachDebugger detaches the current debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeFn = (*CPU).storeNormal
}

// AttachInterruptBridge connects a bridge through which peripherals raise
// autovectored interrupts. Requests are consumed at instruction
// boundaries.
func (cpu *CPU) AttachInterruptBridge(b *InterruptBridge) {
	cpu.bridge = b
}

// Reset triggers the reset exception.
func (cpu *CPU) Reset() error {
	cpu.broken = nil
	cpu.halted = false
	cpu.trace = backtrace{}
	return cpu.guard(cpu.reset)
}

// Trigger raises an exception from outside the instruction stream. A reset
// is accepted even when the CPU is halted or broken.
func (cpu *CPU) Trigger(irq IRQ, aux AuxData) error {
	if irq == IRQReset {
		return cpu.Reset()
	}
	if err := cpu.blocked(); err != nil {
		return err
	}
	return cpu.guard(func() { cpu.trigger(irq, aux) })
}

// RaiseAutovector requests an autovectored interrupt at level 1 through 7.
func (cpu *CPU) RaiseAutovector(level int) error {
	irq, err := Autovector(level)
	if err != nil {
		return err
	}
	return cpu.Trigger(irq, AuxData{})
}

// Tick advances the CPU by one clock cycle.
func (cpu *CPU) Tick() error {
	_, err := cpu.tick()
	return err
}

// Step runs ticks until the CPU executes one instruction. A stopped CPU
// returns as soon as its cycle countdown expires.
func (cpu *CPU) Step() error {
	for {
		executed, err := cpu.tick()
		if err != nil || executed {
			return err
		}
		if cpu.stopped && cpu.cyclesLeft == 0 {
			return nil
		}
	}
}

func (cpu *CPU) blocked() error {
	switch {
	case cpu.broken != nil:
		return cpu.broken
	case cpu.halted:
		return ErrHalted
	}
	return nil
}

func (cpu *CPU) tick() (executed bool, err error) {
	if err := cpu.blocked(); err != nil {
		return false, err
	}

	cpu.totalCycles++
	if cpu.cyclesLeft > 0 {
		cpu.cyclesLeft--
		if cpu.cyclesLeft > 0 {
			return false, nil
		}
	}

	if cpu.stopped {
		return false, cpu.guard(cpu.pollInterrupts)
	}
	return true, cpu.guard(cpu.execute)
}

// guard runs fn and converts any fault it raises into an exception. The
// cycles consumed are added to the countdown.
func (cpu *CPU) guard(fn func()) (err error) {
	cpu.cycles = 0
	defer func() {
		if r := recover(); r != nil {
			err = cpu.recoverFault(r)
		}
		cpu.cyclesLeft += cpu.cycles
	}()
	fn()
	return nil
}

// execute fetches, decodes and executes a single instruction.
func (cpu *CPU) execute() {
	pc := cpu.reg.PC
	cpu.instPC = pc
	if pc&1 != 0 {
		panic(&fault{
			err: memory.ErrBadAlignment,
			aux: AuxData{Address: pc, IR: cpu.opcode, Instruction: true},
		})
	}

	cpu.trace.record(pc)
	traced := cpu.flag(Trace1Bit)

	cpu.opcode = cpu.fetchWord()
	inst := cpu.InstSet.Lookup(cpu.opcode)
	if cpu.log.IsLevelEnabled(logrus.TraceLevel) {
		cpu.log.WithFields(logrus.Fields{
			"pc":     fmt.Sprintf("$%08X", pc),
			"opcode": fmt.Sprintf("$%04X", cpu.opcode),
			"inst":   inst.Name,
		}).Trace("step")
	}
	inst.fn(cpu, cpu.opcode)

	if traced {
		cpu.trigger(IRQTrace, AuxData{})
	}
	cpu.pollInterrupts()

	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.reg.PC)
	}
}

// pollInterrupts consumes bridge requests and delivers pending IRQs.
func (cpu *CPU) pollInterrupts() {
	if cpu.bridge != nil {
		for _, level := range cpu.bridge.take() {
			irq, _ := Autovector(level)
			cpu.trigger(irq, AuxData{})
		}
	}
	cpu.checkPending()
}

func (cpu *CPU) recoverFault(r any) error {
	f, ok := r.(*fault)
	if !ok {
		return cpu.internalError(r)
	}
	return cpu.raise(f)
}

// raise vectors a fault into its exception handler. A fault while
// building a group 0 frame halts the CPU.
func (cpu *CPU) raise(f *fault) error {
	irq := irqForError(f.err)
	if f.rewind {
		cpu.rewind(irq)
	}
	for {
		nested, err := cpu.tryTrigger(irq, f.aux)
		switch {
		case err != nil:
			return err
		case nested == nil:
			return nil
		case irq.group == 0:
			cpu.halted = true
			cpu.log.WithFields(logrus.Fields{
				"irq":   irq.name,
				"pc":    cpu.instPC,
				"fault": nested.err.Error(),
			}).Warn("double fault, cpu halted")
			return ErrHalted
		}
		irq, f = irqForError(nested.err), nested
	}
}

func (cpu *CPU) tryTrigger(irq IRQ, aux AuxData) (nested *fault, err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*fault); ok {
				nested = f
				return
			}
			err = cpu.internalError(r)
		}
	}()
	cpu.trigger(irq, aux)
	return nil, nil
}

func (cpu *CPU) internalError(r any) error {
	e := &InternalError{
		Opcode:    cpu.opcode,
		PC:        cpu.instPC,
		Backtrace: cpu.trace.entries(),
		Cause:     r,
	}
	cpu.broken = e
	cpu.log.WithFields(logrus.Fields{
		"opcode":    fmt.Sprintf("$%04X", e.Opcode),
		"pc":        fmt.Sprintf("$%08X", e.PC),
		"backtrace": e.Backtrace,
	}).Errorf("internal error: %v", r)
	return e
}
