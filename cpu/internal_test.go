// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"testing"

	"github.com/beevik/go68k/memory"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCPU(t *testing.T, code ...uint16) *CPU {
	t.Helper()
	mem := memory.NewAddressSpace(nil)
	require.NoError(t, mem.StoreLong(0, 0x8000))
	require.NoError(t, mem.StoreLong(4, 0x1000))
	for i, w := range code {
		require.NoError(t, mem.StoreWord(0x1000+uint32(i)*2, w))
	}
	c := NewCPU(MC68000, mem)
	require.NoError(t, c.Reset())
	return c
}

func TestInternalError(t *testing.T) {
	assert := assert.New(t)

	c := newTestCPU(t, 0x4e71, 0x4e71, 0x4e71)

	set := *GetInstructionSet(MC68000)
	set.instructions[0x4e71] = &Instruction{
		Name: "BOOM",
		fn:   func(c *CPU, op uint16) { panic("boom") },
	}
	c.InstSet = &set

	err := c.Step()
	var ie *InternalError
	require.True(t, errors.As(err, &ie))
	assert.Equal(uint16(0x4e71), ie.Opcode)
	assert.Equal(uint32(0x1000), ie.PC)
	assert.Equal([]uint32{0x1000}, ie.Backtrace)
	assert.Equal("boom", ie.Cause)

	// The CPU refuses to run until it is reset.
	assert.Same(ie, c.Step())
	assert.Same(ie, c.Tick())

	c.InstSet = GetInstructionSet(MC68000)
	require.NoError(t, c.Reset())
	assert.NoError(c.Step())
}

func TestBacktraceRing(t *testing.T) {
	assert := assert.New(t)

	var b backtrace
	assert.Empty(b.entries())
	for pc := uint32(0); pc < backtraceDepth+4; pc++ {
		b.record(pc * 2)
	}
	got := b.entries()
	assert.Len(got, backtraceDepth)
	assert.Equal(uint32(8), got[0])
	assert.Equal(uint32((backtraceDepth+3)*2), got[len(got)-1])
}

func TestArithFlagWidths(t *testing.T) {
	assert := assert.New(t)
	c := newTestCPU(t)

	tests := []struct {
		op       flagOp
		s        Size
		src, dst uint32
		want     uint16
	}{
		{flagAdd, Byte, 0x01, 0x7f, NegativeBit | OverflowBit},
		{flagAdd, Byte, 0x01, 0xff, ExtendBit | ZeroBit | CarryBit},
		{flagAdd, Word, 0x0001, 0x7fff, NegativeBit | OverflowBit},
		{flagAdd, Long, 0x80000000, 0x80000000, ExtendBit | ZeroBit | OverflowBit | CarryBit},
		{flagSub, Byte, 0x01, 0x80, OverflowBit},
		{flagSub, Word, 0x0001, 0x0000, ExtendBit | NegativeBit | CarryBit},
		{flagSub, Long, 0x00000001, 0x00000001, ZeroBit},
	}
	for _, tt := range tests {
		c.reg.SR = SupervisorBit
		c.arith(tt.op, tt.s, tt.src, tt.dst)
		assert.Equal(tt.want, c.reg.SR&ccrMask, "%v %s $%X,$%X", tt.op, tt.s, tt.src, tt.dst)
	}
}

func TestExtendedZeroSticky(t *testing.T) {
	assert := assert.New(t)
	c := newTestCPU(t)

	// ADDX only ever clears Z.
	c.reg.SR = SupervisorBit | ZeroBit
	c.arith(flagAddX, Long, 0, 0)
	assert.True(c.flag(ZeroBit))

	c.arith(flagAddX, Long, 1, 0)
	assert.False(c.flag(ZeroBit))

	c.arith(flagAddX, Long, 0, 0)
	assert.False(c.flag(ZeroBit))
}

func TestConditions(t *testing.T) {
	assert := assert.New(t)
	c := newTestCPU(t)

	c.reg.SR = SupervisorBit | NegativeBit
	assert.True(c.testCondition(0x0))  // T
	assert.False(c.testCondition(0x1)) // F
	assert.True(c.testCondition(0xd))  // LT
	assert.False(c.testCondition(0xc)) // GE
	assert.True(c.testCondition(0xb))  // MI

	c.reg.SR = SupervisorBit | NegativeBit | OverflowBit
	assert.True(c.testCondition(0xc))  // GE
	assert.True(c.testCondition(0xe))  // GT
	assert.False(c.testCondition(0xf)) // LE

	c.reg.SR = SupervisorBit | CarryBit
	assert.True(c.testCondition(0x3))  // LS
	assert.False(c.testCondition(0x2)) // HI
}

func TestShiftEngine(t *testing.T) {
	assert := assert.New(t)
	c := newTestCPU(t)

	tests := []struct {
		kind  shiftKind
		left  bool
		s     Size
		v     uint32
		count int
		x     bool
		want  uint32
		flags uint16
	}{
		{shiftAS, true, Byte, 0x40, 1, false, 0x80, NegativeBit | OverflowBit},
		{shiftAS, true, Byte, 0x81, 2, false, 0x04, OverflowBit},
		{shiftAS, false, Byte, 0x81, 1, false, 0xc0, ExtendBit | NegativeBit | CarryBit},
		{shiftLS, true, Word, 0x8000, 1, false, 0x0000, ExtendBit | ZeroBit | CarryBit},
		{shiftLS, false, Long, 0x80000000, 31, false, 0x00000001, 0},
		{shiftLS, true, Byte, 0xff, 9, true, 0x00, ZeroBit},
		{shiftRO, true, Byte, 0x81, 1, true, 0x03, ExtendBit | CarryBit},
		{shiftRO, false, Word, 0x0001, 1, false, 0x8000, NegativeBit | CarryBit},
		{shiftROX, true, Byte, 0x80, 1, true, 0x01, ExtendBit | CarryBit},
		{shiftROX, false, Byte, 0x01, 1, false, 0x00, ExtendBit | ZeroBit | CarryBit},
		{shiftROX, true, Byte, 0x00, 9, true, 0x00, ExtendBit | ZeroBit | CarryBit},
		{shiftLS, true, Byte, 0x80, 0, true, 0x80, ExtendBit | NegativeBit},
	}
	for _, tt := range tests {
		c.reg.SR = SupervisorBit
		if tt.x {
			c.reg.SR |= ExtendBit
		}
		got := c.shift(tt.kind, tt.left, tt.s, tt.v, tt.count)
		assert.Equal(tt.want, got, "%v left=%v %s $%X by %d", tt.kind, tt.left, tt.s, tt.v, tt.count)
		assert.Equal(tt.flags, c.reg.SR&ccrMask, "%v left=%v %s $%X by %d", tt.kind, tt.left, tt.s, tt.v, tt.count)
	}
}

func TestShiftTrace(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ASL.B", shiftMnemonic(shiftAS, true, Byte))
	assert.Equal("ROXR.L", shiftMnemonic(shiftROX, false, Long))

	c := newTestCPU(t, 0xe348, 0xe2d0) // LSL.W #1,D0; LSR.W (A0)
	c.reg.A[0] = 0x2000
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	c.SetLogger(logger)

	require.NoError(t, c.Step())
	require.NoError(t, c.Step())

	var shifts []string
	for _, e := range hook.AllEntries() {
		if e.Message == "shift" {
			shifts = append(shifts, e.Data["op"].(string))
		}
	}
	assert.Equal([]string{"LSL.W", "LSR.W"}, shifts)
}

func TestStatusWord(t *testing.T) {
	assert := assert.New(t)

	read := AuxData{Address: 0x3000}
	assert.Equal(uint16(0x1d), read.statusWord(SupervisorBit))

	fetch := AuxData{Instruction: true}
	assert.Equal(uint16(0x12), fetch.statusWord(0))

	write := AuxData{Write: true}
	assert.Equal(uint16(0x09), write.statusWord(0))
}
