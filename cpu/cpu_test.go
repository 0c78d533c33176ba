// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/beevik/go68k/cpu"
	"github.com/beevik/go68k/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	origin     = 0x1000
	stackTop   = 0x8000
	handlerOrg = 0x4000
)

// handler returns the address every test vector table entry points to.
func handler(irq cpu.IRQ) uint32 {
	return handlerOrg + irq.Vector()
}

// loadCPU builds a CPU whose reset vectors start it at origin with the
// supervisor stack at stackTop. Every other vector points into a handler
// area so tests can see which exception was taken.
func loadCPU(t *testing.T, model cpu.Model, code ...uint16) (*cpu.CPU, *memory.AddressSpace) {
	t.Helper()

	mem := memory.NewAddressSpace(nil)
	require.NoError(t, mem.StoreLong(0, stackTop))
	require.NoError(t, mem.StoreLong(4, origin))
	for v := uint32(8); v < 0x400; v += 4 {
		require.NoError(t, mem.StoreLong(v, handlerOrg+v))
	}

	addr := uint32(origin)
	for _, w := range code {
		require.NoError(t, mem.StoreWord(addr, w))
		addr += 2
	}

	c := cpu.NewCPU(model, mem)
	require.NoError(t, c.Reset())
	return c, mem
}

func stepCPU(t *testing.T, c *cpu.CPU, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		require.NoError(t, c.Step())
	}
}

// setReg applies fn to a copy of the CPU's registers and writes it back.
func setReg(c *cpu.CPU, fn func(r *cpu.Registers)) {
	r := c.Registers()
	fn(&r)
	c.SetState(r)
}

func ipl(c *cpu.CPU) int {
	r := c.Registers()
	return r.IPL()
}

func ccr(c *cpu.CPU) uint16 {
	return c.Registers().SR & 0x1f
}

const (
	flagC = cpu.CarryBit
	flagV = cpu.OverflowBit
	flagZ = cpu.ZeroBit
	flagN = cpu.NegativeBit
	flagX = cpu.ExtendBit
)

func TestResetVectors(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4e71)
	r := c.Registers()
	assert.Equal(uint32(origin), r.PC)
	assert.Equal(uint32(stackTop), r.A[7])
	assert.Equal(uint16(0x2700), r.SR)
}

func TestTickCountdown(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4e71, 0x4e71)
	assert.Equal(40, c.CyclesRemaining())

	stepCPU(t, c, 1)
	assert.Equal(uint64(40), c.Cycles())
	assert.Equal(uint32(origin+2), c.PC())
	assert.Equal(4, c.CyclesRemaining())

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Tick())
		assert.Equal(uint32(origin+2), c.PC())
	}
	require.NoError(t, c.Tick())
	assert.Equal(uint32(origin+4), c.PC())
	assert.Equal(uint64(44), c.Cycles())
}

func TestAddByteOverflow(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000,
		0x707f, // MOVEQ #$7F,D0
		0x7201, // MOVEQ #1,D1
		0xd001, // ADD.B D1,D0
	)
	stepCPU(t, c, 3)

	assert.Equal(uint32(0x80), c.Registers().D[0])
	assert.Equal(flagN|flagV, ccr(c))
}

func TestSubFlags(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000,
		0x7001, // MOVEQ #1,D0
		0x7202, // MOVEQ #2,D1
		0x9041, // SUB.W D1,D0
		0xb041, // CMP.W D1,D0
	)
	stepCPU(t, c, 3)
	assert.Equal(uint32(0x0000ffff), c.Registers().D[0])
	assert.Equal(flagX|flagN|flagC, ccr(c))

	// CMP leaves X alone.
	stepCPU(t, c, 1)
	assert.Equal(flagX|flagN, ccr(c))
}

func TestNegate(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000,
		0x7080, // MOVEQ #-128,D0
		0x4400, // NEG.B D0
		0x7000, // MOVEQ #0,D0
		0x4480, // NEG.L D0
	)
	stepCPU(t, c, 2)
	assert.Equal(uint32(0xffffff80), c.Registers().D[0])
	assert.Equal(flagX|flagN|flagV|flagC, ccr(c))

	stepCPU(t, c, 2)
	assert.Equal(uint32(0), c.Registers().D[0])
	assert.Equal(flagZ, ccr(c))
}

func TestStackPointerByteStep(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68000,
		0x7042, // MOVEQ #$42,D0
		0x1f00, // MOVE.B D0,-(A7)
		0x121f, // MOVE.B (A7)+,D1
	)

	stepCPU(t, c, 2)
	assert.Equal(uint32(stackTop-2), c.Registers().A[7])
	b, err := mem.LoadByte(stackTop - 2)
	assert.NoError(err)
	assert.Equal(byte(0x42), b)

	stepCPU(t, c, 1)
	assert.Equal(uint32(stackTop), c.Registers().A[7])
	assert.Equal(uint32(0x42), c.Registers().D[1])
}

func TestDivideByZero(t *testing.T) {
	for _, op := range []uint16{0x80c1, 0x81c1} { // DIVU D1,D0 and DIVS D1,D0
		assert := assert.New(t)

		c, mem := loadCPU(t, cpu.MC68000,
			0x7005, // MOVEQ #5,D0
			0x7200, // MOVEQ #0,D1
			op,
		)
		stepCPU(t, c, 3)

		assert.Equal(handler(cpu.IRQDivideByZero), c.PC())
		assert.Equal(uint32(0x14), cpu.IRQDivideByZero.Vector())
		assert.Equal(uint32(5), c.Registers().D[0])

		pc, err := mem.LoadLong(stackTop - 4)
		assert.NoError(err)
		assert.Equal(uint32(origin+6), pc)
	}
}

func TestDivide(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000,
		0x7064, // MOVEQ #100,D0
		0x7207, // MOVEQ #7,D1
		0x80c1, // DIVU D1,D0
		0x70f9, // MOVEQ #-7,D0
		0x7402, // MOVEQ #2,D2
		0x81c2, // DIVS D2,D0
	)
	stepCPU(t, c, 3)
	assert.Equal(uint32(0x0002000e), c.Registers().D[0])

	stepCPU(t, c, 3)
	assert.Equal(uint32(0xfffffffd), c.Registers().D[0])
	assert.Equal(flagN, ccr(c))
}

func TestDivideOverflow(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x80c1) // DIVU D1,D0
	setReg(c, func(r *cpu.Registers) {
		r.D[0] = 0x00100000
		r.D[1] = 1
	})
	stepCPU(t, c, 1)

	assert.Equal(uint32(0x00100000), c.Registers().D[0])
	assert.True(ccr(c)&flagV != 0)
}

func TestRotateExtendZeroCount(t *testing.T) {
	assert := assert.New(t)

	for _, x := range []bool{true, false} {
		c, _ := loadCPU(t, cpu.MC68000, 0xe370) // ROXL.W D1,D0
		setReg(c, func(r *cpu.Registers) {
			r.D[0] = 0x8001
			r.D[1] = 64
			r.SR = 0x2700 | flagV | flagZ
			if x {
				r.SR |= flagX
			}
		})
		stepCPU(t, c, 1)

		assert.Equal(uint32(0x8001), c.Registers().D[0])
		if x {
			assert.Equal(flagX|flagZ|flagV|flagC, ccr(c))
		} else {
			assert.Equal(flagZ|flagV, ccr(c))
		}
	}
}

func TestShiftFlags(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000,
		0x7040, // MOVEQ #$40,D0
		0xe300, // ASL.B #1,D0
		0xe208, // LSR.B #1,D0
		0xe218, // ROR.B #1,D0
	)
	stepCPU(t, c, 2)
	assert.Equal(uint32(0x80), c.Registers().D[0])
	assert.Equal(flagN|flagV, ccr(c))

	stepCPU(t, c, 1)
	assert.Equal(uint32(0x40), c.Registers().D[0])
	assert.Equal(uint16(0), ccr(c))

	stepCPU(t, c, 1)
	assert.Equal(uint32(0x20), c.Registers().D[0])
	assert.Equal(uint16(0), ccr(c))
}

func TestMemoryShift(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68000, 0xe1f8, 0x3000) // ASL.W $3000.W
	require.NoError(t, mem.StoreWord(0x3000, 0xc001))
	stepCPU(t, c, 1)

	w, err := mem.LoadWord(0x3000)
	assert.NoError(err)
	assert.Equal(uint16(0x8002), w)
	assert.Equal(flagX|flagN|flagC, ccr(c))
}

func TestOddPCAddressError(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68000, 0x4ed0) // JMP (A0)
	setReg(c, func(r *cpu.Registers) { r.A[0] = 0x1001 })
	stepCPU(t, c, 2)

	assert.Equal(handler(cpu.IRQAddressError), c.PC())
	assert.Equal(uint32(stackTop-14), c.Registers().A[7])

	pc, _ := mem.LoadLong(stackTop - 4)
	assert.Equal(uint32(0x1002), pc)
	addr, _ := mem.LoadLong(stackTop - 12)
	assert.Equal(uint32(0x1001), addr)

	irq, ok := c.Active()
	assert.True(ok)
	assert.Equal(cpu.IRQAddressError, irq)
}

func TestWriteProtectBusError(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68000, 0x21c0, 0x3000) // MOVE.L D0,$3000.W
	require.NoError(t, mem.SetWriteProtection(0x3000, 4, true))
	setReg(c, func(r *cpu.Registers) { r.D[0] = 0xdeadbeef })
	stepCPU(t, c, 1)

	assert.Equal(handler(cpu.IRQBusError), c.PC())
	v, _ := mem.LoadLong(0x3000)
	assert.Equal(uint32(0), v)

	addr, _ := mem.LoadLong(stackTop - 12)
	assert.Equal(uint32(0x3000), addr)
	status, _ := mem.LoadWord(stackTop - 14)
	assert.Equal(uint16(0), status&0x10, "write access")
}

func TestIllegalInstruction(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68000, 0x4afc)
	stepCPU(t, c, 1)

	assert.Equal(handler(cpu.IRQIllegalInstruction), c.PC())
	pc, _ := mem.LoadLong(stackTop - 4)
	assert.Equal(uint32(origin), pc)
}

func TestLineEmulators(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0xa123)
	stepCPU(t, c, 1)
	assert.Equal(handler(cpu.IRQLineA), c.PC())

	c, _ = loadCPU(t, cpu.MC68000, 0xf123)
	stepCPU(t, c, 1)
	assert.Equal(handler(cpu.IRQLineF), c.PC())
}

func TestPrivilegeViolation(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68000, 0x4e73) // RTE
	setReg(c, func(r *cpu.Registers) {
		r.SR = 0x0000
		r.A[7] = 0x6000
		r.SSP = stackTop
	})
	stepCPU(t, c, 1)

	r := c.Registers()
	assert.Equal(handler(cpu.IRQPrivilegeViolation), r.PC)
	assert.True(r.Supervisor())
	assert.Equal(uint32(0x6000), r.USP)
	assert.Equal(uint32(stackTop-6), r.A[7])

	pc, _ := mem.LoadLong(stackTop - 4)
	assert.Equal(uint32(origin), pc)
}

func TestInstructionExceptionInsideHandler(t *testing.T) {
	assert := assert.New(t)

	level1, _ := cpu.Autovector(1)
	for _, tt := range []struct {
		op  uint16
		irq cpu.IRQ
	}{
		{0xa000, cpu.IRQLineA},
		{0xf000, cpu.IRQLineF},
		{0x4afc, cpu.IRQIllegalInstruction},
	} {
		c, mem := loadCPU(t, cpu.MC68000, 0x4e71)
		require.NoError(t, mem.StoreWord(handler(level1), tt.op))
		require.NoError(t, mem.StoreWord(handler(level1)+2, 0x4e73)) // RTE
		setReg(c, func(r *cpu.Registers) { r.SR = 0x2000 })

		require.NoError(t, c.RaiseAutovector(1))
		assert.Equal(handler(level1), c.PC())

		// The handler outranks the exception, which queues without
		// re-running the instruction.
		stepCPU(t, c, 1)
		assert.Equal(handler(level1)+2, c.PC(), tt.irq.String())
		assert.Equal([]cpu.IRQ{tt.irq}, c.Pending())

		// RTE lets the queued exception in.
		stepCPU(t, c, 1)
		assert.Equal(handler(tt.irq), c.PC(), tt.irq.String())
		assert.Empty(c.Pending())
		active, _ := c.Active()
		assert.Equal(tt.irq, active)

		pc, _ := mem.LoadLong(stackTop - 4)
		assert.Equal(uint32(origin), pc)
	}
}

func TestTrapAndReturn(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68000, 0x4e45) // TRAP #5
	require.NoError(t, mem.StoreWord(handler(cpu.Trap(5)), 0x4e73))
	setReg(c, func(r *cpu.Registers) { r.SR = 0x2000 })

	stepCPU(t, c, 1)
	assert.Equal(handler(cpu.Trap(5)), c.PC())
	irq, ok := c.Active()
	assert.True(ok)
	assert.Equal("TRAP #5", irq.String())

	stepCPU(t, c, 1)
	assert.Equal(uint32(origin+2), c.PC())
	assert.Equal(uint32(stackTop), c.Registers().A[7])
	_, ok = c.Active()
	assert.False(ok)
}

func TestPendingPriority(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68000, 0x4e71)
	require.NoError(t, mem.StoreWord(handler(cpu.IRQTrace), 0x4e73))
	setReg(c, func(r *cpu.Registers) { r.SR = 0x2000 })

	require.NoError(t, c.Trigger(cpu.IRQTrace, cpu.AuxData{}))
	assert.Equal(handler(cpu.IRQTrace), c.PC())

	level1, err := cpu.Autovector(1)
	require.NoError(t, err)
	assert.Equal(81, level1.Priority())
	assert.Equal(88, cpu.IRQTrace.Priority())

	require.NoError(t, c.RaiseAutovector(1))
	assert.Equal([]cpu.IRQ{level1}, c.Pending())
	active, _ := c.Active()
	assert.Equal(cpu.IRQTrace, active)

	// RTE from the trace handler lets the queued interrupt in.
	stepCPU(t, c, 1)
	assert.Equal(handler(level1), c.PC())
	assert.Empty(c.Pending())
	active, _ = c.Active()
	assert.Equal(level1, active)
	assert.Equal(1, ipl(c))
}

func TestInterruptMask(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4e71, 0x46fc, 0x2000) // NOP; MOVE #$2000,SR
	require.NoError(t, c.RaiseAutovector(3))
	assert.Len(c.Pending(), 1)
	assert.Equal(uint32(origin), c.PC())

	stepCPU(t, c, 2)
	level3, _ := cpu.Autovector(3)
	assert.Equal(handler(level3), c.PC())
	assert.Equal(3, ipl(c))
}

func TestPendingOverflow(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4e71)
	for i := 0; i < 12; i++ {
		require.NoError(t, c.RaiseAutovector(2))
	}
	assert.Len(c.Pending(), 10)
}

func TestResetDiscardsPending(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4e71)
	setReg(c, func(r *cpu.Registers) { r.SR = 0x2000 })
	require.NoError(t, c.Trigger(cpu.IRQTrace, cpu.AuxData{}))
	require.NoError(t, c.RaiseAutovector(1))
	assert.NotEmpty(c.Pending())

	require.NoError(t, c.Reset())
	assert.Empty(c.Pending())
	_, ok := c.Active()
	assert.False(ok)
	assert.Equal(uint32(origin), c.PC())
	assert.Equal(uint16(0x2700), c.Registers().SR)
}

func TestInterruptBridge(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4e71, 0x4e71)
	setReg(c, func(r *cpu.Registers) { r.SR = 0x2000 })

	b := cpu.NewInterruptBridge()
	c.AttachInterruptBridge(b)
	assert.ErrorIs(b.RaiseAutovector(0), cpu.ErrBadAutovector)
	assert.ErrorIs(b.RaiseAutovector(8), cpu.ErrBadAutovector)

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(b.RaiseAutovector(2))
		assert.NoError(b.RaiseAutovector(5))
	}()
	<-done

	stepCPU(t, c, 1)
	level5, _ := cpu.Autovector(5)
	level2, _ := cpu.Autovector(2)
	assert.Equal(handler(level5), c.PC())
	assert.Equal([]cpu.IRQ{level2}, c.Pending())
}

func TestTrace(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68000, 0x4e71)
	setReg(c, func(r *cpu.Registers) { r.SR = 0xa700 })
	stepCPU(t, c, 1)

	assert.Equal(handler(cpu.IRQTrace), c.PC())
	assert.Equal(uint16(0), c.Registers().SR&0xc000)
	pc, _ := mem.LoadLong(stackTop - 4)
	assert.Equal(uint32(origin+2), pc)
}

func TestDoubleFaultHalts(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4afc)
	setReg(c, func(r *cpu.Registers) { r.A[7] = 0x7fff })

	assert.ErrorIs(c.Step(), cpu.ErrHalted)
	assert.True(c.Halted())
	assert.ErrorIs(c.Step(), cpu.ErrHalted)

	require.NoError(t, c.Reset())
	assert.False(c.Halted())
	assert.Equal(uint32(stackTop), c.Registers().A[7])
}

func TestTriggerResetAfterDoubleFault(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4afc)
	setReg(c, func(r *cpu.Registers) { r.A[7] = 0x7fff })
	assert.ErrorIs(c.Step(), cpu.ErrHalted)
	assert.ErrorIs(c.Trigger(cpu.IRQTrace, cpu.AuxData{}), cpu.ErrHalted)

	require.NoError(t, c.Trigger(cpu.IRQReset, cpu.AuxData{}))
	assert.False(c.Halted())
	assert.Equal(uint32(origin), c.PC())
	assert.Equal(uint32(stackTop), c.Registers().A[7])
	stepCPU(t, c, 1)
	assert.Equal(handler(cpu.IRQIllegalInstruction), c.PC())
}

func TestFullExtensionWord(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68020,
		0x43f0, 0x0d30, 0x0001, 0x0000, // LEA (bd.L,A0,D0.L*4),A1
		0x45f0, 0x0162, 0x0008, 0x0004, // LEA ([8,A0],4),A2
	)
	require.NoError(t, mem.StoreLong(0x2008, 0x3000))
	setReg(c, func(r *cpu.Registers) {
		r.A[0] = 0x2000
		r.D[0] = 3
	})
	stepCPU(t, c, 2)

	r := c.Registers()
	assert.Equal(uint32(0x1200c), r.A[1])
	assert.Equal(uint32(0x3004), r.A[2])
}

func TestBriefExtensionWord(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000,
		0x43f0, 0x08fe, // LEA (-2,A0,D0.L),A1
		0x45fb, 0x00fe, // LEA (-2,PC,D0.W),A2
	)
	setReg(c, func(r *cpu.Registers) {
		r.A[0] = 0x2000
		r.D[0] = 0x10
	})
	stepCPU(t, c, 2)

	r := c.Registers()
	assert.Equal(uint32(0x200e), r.A[1])
	assert.Equal(uint32(origin+6-2+0x10), r.A[2])
}

func TestLongBranch(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68020, 0x60ff, 0x0000, 0x0100) // BRA.L *+$102
	stepCPU(t, c, 1)
	assert.Equal(uint32(origin+2+0x100), c.PC())

	// The 68000 sees an 8-bit displacement of -1.
	c, _ = loadCPU(t, cpu.MC68000, 0x60ff)
	stepCPU(t, c, 2)
	assert.Equal(handler(cpu.IRQAddressError), c.PC())
}

func TestDecrementAndBranch(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000,
		0x7002,         // MOVEQ #2,D0
		0x51c8, 0xfffe, // DBF D0,*
	)
	stepCPU(t, c, 3)
	assert.Equal(uint32(origin+2), c.PC())

	stepCPU(t, c, 1)
	assert.Equal(uint32(origin+6), c.PC())
	assert.Equal(uint32(0xffff), c.Registers().D[0])
}

func TestSubroutine(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000,
		0x6100, 0x0006, // BSR *+8
		0x4e71,         // NOP
		0x4e71,         // NOP
		0x4e75,         // RTS
	)
	stepCPU(t, c, 1)
	assert.Equal(uint32(origin+8), c.PC())
	assert.Equal(uint32(stackTop-4), c.Registers().A[7])

	stepCPU(t, c, 1)
	assert.Equal(uint32(origin+4), c.PC())
	assert.Equal(uint32(stackTop), c.Registers().A[7])
}

func TestMoveMultiple(t *testing.T) {
	assert := assert.New(t)

	c, mem := loadCPU(t, cpu.MC68000,
		0x48e7, 0xc080, // MOVEM.L D0-D1/A0,-(A7)
		0x7000,         // MOVEQ #0,D0
		0x7200,         // MOVEQ #0,D1
		0x4cdf, 0x0103, // MOVEM.L (A7)+,D0-D1/A0
	)
	setReg(c, func(r *cpu.Registers) {
		r.D[0] = 0x11111111
		r.D[1] = 0x22222222
		r.A[0] = 0x33333333
	})

	stepCPU(t, c, 1)
	assert.Equal(uint32(stackTop-12), c.Registers().A[7])
	for i, want := range []uint32{0x11111111, 0x22222222, 0x33333333} {
		v, _ := mem.LoadLong(stackTop - 12 + uint32(i)*4)
		assert.Equal(want, v)
	}

	stepCPU(t, c, 3)
	r := c.Registers()
	assert.Equal(uint32(0x11111111), r.D[0])
	assert.Equal(uint32(0x22222222), r.D[1])
	assert.Equal(uint32(0x33333333), r.A[0])
	assert.Equal(uint32(stackTop), r.A[7])
}

func TestMoveMultipleStoresAddressRegister(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		model cpu.Model
		want  uint32
	}{
		{cpu.MC68000, 0x3000},
		{cpu.MC68010, 0x3000},
		{cpu.MC68020, 0x2ffc},
	}
	for _, tt := range tests {
		c, mem := loadCPU(t, tt.model, 0x48e1, 0x8040) // MOVEM.L D0/A1,-(A1)
		setReg(c, func(r *cpu.Registers) {
			r.D[0] = 0x12345678
			r.A[1] = 0x3000
		})
		stepCPU(t, c, 1)

		a1, _ := mem.LoadLong(0x2ffc)
		d0, _ := mem.LoadLong(0x2ff8)
		assert.Equal(tt.want, a1, tt.model.String())
		assert.Equal(uint32(0x12345678), d0)
		assert.Equal(uint32(0x2ff8), c.Registers().A[1])
	}
}

func TestDecimalArithmetic(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000,
		0x7019, // MOVEQ #$19,D0
		0x7228, // MOVEQ #$28,D1
		0xc101, // ABCD D1,D0
		0x7401, // MOVEQ #1,D2
		0x7600, // MOVEQ #0,D3
		0x8702, // SBCD D2,D3
	)
	stepCPU(t, c, 3)
	assert.Equal(uint32(0x47), c.Registers().D[0])

	stepCPU(t, c, 3)
	assert.Equal(uint32(0x99), c.Registers().D[3])
	assert.True(ccr(c)&flagC != 0)
	assert.True(ccr(c)&flagX != 0)
}

func TestExtendAndSwap(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68020,
		0x4880, // EXT.W D0
		0x48c0, // EXT.L D0
		0x4841, // SWAP D1
		0x49c2, // EXTB.L D2
	)
	setReg(c, func(r *cpu.Registers) {
		r.D[0] = 0x12345680
		r.D[1] = 0xaaaa5555
		r.D[2] = 0x000000f0
	})
	stepCPU(t, c, 1)
	assert.Equal(uint32(0x1234ff80), c.Registers().D[0])
	stepCPU(t, c, 1)
	assert.Equal(uint32(0xffffff80), c.Registers().D[0])
	stepCPU(t, c, 1)
	assert.Equal(uint32(0x5555aaaa), c.Registers().D[1])
	stepCPU(t, c, 1)
	assert.Equal(uint32(0xfffffff0), c.Registers().D[2])
}

func TestBoundsCheck(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4181) // CHK D1,D0
	setReg(c, func(r *cpu.Registers) {
		r.D[0] = 20
		r.D[1] = 10
	})
	stepCPU(t, c, 1)
	assert.Equal(handler(cpu.IRQBoundsCheck), c.PC())
}

func TestStop(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4e72, 0x2000) // STOP #$2000
	stepCPU(t, c, 1)
	assert.True(c.Stopped())
	assert.Equal(uint16(0x2000), c.Registers().SR)

	stepCPU(t, c, 3)
	assert.True(c.Stopped())
	assert.Equal(uint32(origin+4), c.PC())

	require.NoError(t, c.RaiseAutovector(4))
	assert.False(c.Stopped())
	level4, _ := cpu.Autovector(4)
	assert.Equal(handler(level4), c.PC())
}

type resetCounter int

func (r *resetCounter) OnReset(c *cpu.CPU) { *r++ }

func TestResetInstruction(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000, 0x4e70, 0x4e71)
	var n resetCounter
	c.AttachResetHandler(&n)
	stepCPU(t, c, 1)

	assert.Equal(resetCounter(1), n)
	assert.Equal(uint32(origin+2), c.PC())
}

type breakpointRecorder struct {
	pcs  []uint32
	data []uint32
}

func (r *breakpointRecorder) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	r.pcs = append(r.pcs, b.Address)
}

func (r *breakpointRecorder) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	r.data = append(r.data, b.Address)
}

func TestDebugger(t *testing.T) {
	assert := assert.New(t)

	c, _ := loadCPU(t, cpu.MC68000,
		0x4e71,         // NOP
		0x31c0, 0x3000, // MOVE.W D0,$3000.W
		0x31c1, 0x3000, // MOVE.W D1,$3000.W
	)
	setReg(c, func(r *cpu.Registers) {
		r.D[0] = 0x1234
		r.D[1] = 0x5678
	})

	var rec breakpointRecorder
	d := cpu.NewDebugger(&rec)
	d.AddBreakpoint(origin + 2)
	d.AddBreakpoint(origin + 6).Disabled = true
	d.AddConditionalDataBreakpoint(0x3001, 0x34)
	c.AttachDebugger(d)

	stepCPU(t, c, 3)
	assert.Equal([]uint32{origin + 2}, rec.pcs)
	assert.Equal([]uint32{0x3001}, rec.data)

	bps := d.GetBreakpoints()
	assert.Len(bps, 2)
	assert.Equal(uint32(origin+2), bps[0].Address)
}

func TestInstructionSetModels(t *testing.T) {
	assert := assert.New(t)

	i68000 := cpu.GetInstructionSet(cpu.MC68000)
	i68020 := cpu.GetInstructionSet(cpu.MC68020)

	assert.Equal("NOP", i68000.Lookup(0x4e71).Name)
	assert.Equal("LINEA", i68000.Lookup(0xa000).Name)
	assert.Equal("LINEF", i68000.Lookup(0xf000).Name)
	assert.Equal("???", i68000.Lookup(0x4e74).Name)
	assert.Equal("RTD", i68020.Lookup(0x4e74).Name)
	assert.Equal("???", i68000.Lookup(0x49c0).Name)
	assert.Equal("EXTB", i68020.Lookup(0x49c0).Name)
	assert.Equal("???", i68000.Lookup(0x1040).Name) // MOVE.B D0,A0
	assert.Equal("MOVEA", i68000.Lookup(0x3040).Name)
	assert.Equal("???", i68000.Lookup(0xd008).Name) // ADD.B A0,D0
	assert.Equal("ADD", i68000.Lookup(0xd048).Name)
	assert.Same(i68000, cpu.GetInstructionSet(cpu.MC68000))
}

func TestParseModel(t *testing.T) {
	assert := assert.New(t)

	m, err := cpu.ParseModel("MC68020")
	assert.NoError(err)
	assert.Equal(cpu.MC68020, m)
	assert.Equal("68020", m.String())

	_, err = cpu.ParseModel("6502")
	assert.Error(err)
}
