// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	"github.com/beevik/go68k/cpu"
	lua "github.com/yuin/gopher-lua"
)

// newScriptState creates a Lua interpreter whose globals drive the host's
// CPU and memory.
func newScriptState(h *Host) *lua.LState {
	L := lua.NewState()
	funcs := map[string]lua.LGFunction{
		"peek":   h.luaPeek,
		"poke":   h.luaPoke,
		"reg":    h.luaReg,
		"setreg": h.luaSetReg,
		"step":   h.luaStep,
		"tick":   h.luaTick,
		"irq":    h.luaIRQ,
		"reset":  h.luaReset,
		"cycles": h.luaCycles,
		"print":  h.luaPrint,
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	return L
}

// RunScript executes a Lua script file.
func (h *Host) RunScript(filename string) error {
	return h.lua.DoFile(filename)
}

// RunScriptString executes a chunk of Lua source.
func (h *Host) RunScriptString(src string) error {
	return h.lua.DoString(src)
}

// checkSize reads an optional operand size argument of 1, 2 or 4 bytes.
func checkSize(L *lua.LState, n int) cpu.Size {
	switch s := L.OptInt(n, 1); s {
	case 1:
		return cpu.Byte
	case 2:
		return cpu.Word
	case 4:
		return cpu.Long
	default:
		L.ArgError(n, "size must be 1, 2 or 4")
		return 0
	}
}

func checkAddress(L *lua.LState, n int) uint32 {
	return uint32(int64(L.CheckNumber(n)))
}

// peek(addr [, size])
func (h *Host) luaPeek(L *lua.LState) int {
	addr := checkAddress(L, 1)

	var v uint32
	var err error
	switch checkSize(L, 2) {
	case cpu.Byte:
		var b byte
		b, err = h.mem.LoadByte(addr)
		v = uint32(b)
	case cpu.Word:
		var w uint16
		w, err = h.mem.LoadWord(addr)
		v = uint32(w)
	case cpu.Long:
		v, err = h.mem.LoadLong(addr)
	}
	if err != nil {
		L.RaiseError("%v", err)
	}

	L.Push(lua.LNumber(v))
	return 1
}

// poke(addr, value [, size])
func (h *Host) luaPoke(L *lua.LState) int {
	addr := checkAddress(L, 1)
	v := uint32(int64(L.CheckNumber(2)))

	var err error
	switch checkSize(L, 3) {
	case cpu.Byte:
		err = h.mem.StoreByte(addr, byte(v))
	case cpu.Word:
		err = h.mem.StoreWord(addr, uint16(v))
	case cpu.Long:
		err = h.mem.StoreLong(addr, v)
	}
	if err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// reg(name)
func (h *Host) luaReg(L *lua.LState) int {
	v, err := h.getRegister(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

// setreg(name, value)
func (h *Host) luaSetReg(L *lua.LState) int {
	name := L.CheckString(1)
	v := uint32(int64(L.CheckNumber(2)))
	if err := h.setRegister(name, v); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// step([count])
func (h *Host) luaStep(L *lua.LState) int {
	n := L.OptInt(1, 1)
	for i := 0; i < n; i++ {
		if err := h.cpu.Step(); err != nil {
			L.RaiseError("%v", err)
		}
	}
	return 0
}

// tick([count])
func (h *Host) luaTick(L *lua.LState) int {
	n := L.OptInt(1, h.settings.TickBatch)
	for i := 0; i < n; i++ {
		if err := h.cpu.Tick(); err != nil {
			L.RaiseError("%v", err)
		}
	}
	return 0
}

// irq(level)
func (h *Host) luaIRQ(L *lua.LState) int {
	if err := h.bridge.RaiseAutovector(L.CheckInt(1)); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// reset()
func (h *Host) luaReset(L *lua.LState) int {
	if err := h.cpu.Reset(); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// cycles()
func (h *Host) luaCycles(L *lua.LState) int {
	L.Push(lua.LNumber(h.cpu.Cycles()))
	return 1
}

// print(...) writes to the host's output rather than the process's stdout.
func (h *Host) luaPrint(L *lua.LState) int {
	args := make([]string, L.GetTop())
	for i := range args {
		args[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	h.println(strings.Join(args, "\t"))
	return 0
}
