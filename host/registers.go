// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"strings"
)

// registerIndex parses names of the form D0-D7 and A0-A7.
func registerIndex(name string, prefix byte) (int, bool) {
	if len(name) != 2 || name[0] != prefix || name[1] < '0' || name[1] > '7' {
		return 0, false
	}
	return int(name[1] - '0'), true
}

// getRegister returns the value of a named register.
func (h *Host) getRegister(name string) (uint32, error) {
	r := h.cpu.Registers()
	name = strings.ToLower(name)
	if i, ok := registerIndex(name, 'd'); ok {
		return r.D[i], nil
	}
	if i, ok := registerIndex(name, 'a'); ok {
		return r.A[i], nil
	}
	switch name {
	case "sp":
		return r.A[7], nil
	case "pc":
		return r.PC, nil
	case "sr":
		return uint32(r.SR), nil
	case "ccr":
		return uint32(r.SR & 0xff), nil
	case "usp":
		return r.USP, nil
	case "ssp":
		return r.SSP, nil
	}
	return 0, fmt.Errorf("unknown register '%s'", name)
}

// setRegister changes the value of a named register. Writing SR switches
// A7 to the stack pointer of the new privilege level.
func (h *Host) setRegister(name string, v uint32) error {
	r := h.cpu.Registers()
	name = strings.ToLower(name)

	if i, ok := registerIndex(name, 'd'); ok {
		r.D[i] = v
		h.cpu.SetState(r)
		return nil
	}
	if i, ok := registerIndex(name, 'a'); ok {
		r.A[i] = v
		h.cpu.SetState(r)
		return nil
	}

	switch name {
	case "sp":
		r.A[7] = v
	case "pc":
		r.PC = v
	case "sr":
		r.SR = uint16(v)
		if r.Supervisor() {
			r.A[7] = r.SSP
		} else {
			r.A[7] = r.USP
		}
	case "ccr":
		r.SR = r.SR&0xff00 | uint16(v)&0xff
	case "usp":
		r.USP = v
		if !r.Supervisor() {
			r.A[7] = v
		}
	case "ssp":
		r.SSP = v
		if r.Supervisor() {
			r.A[7] = v
		}
	default:
		return fmt.Errorf("unknown register '%s'", name)
	}

	h.cpu.SetState(r)
	return nil
}

// registerWidth returns the display width in hex digits of a register.
func registerWidth(name string) int {
	switch strings.ToLower(name) {
	case "sr":
		return 4
	case "ccr":
		return 2
	default:
		return 8
	}
}
