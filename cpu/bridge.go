// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "sync"

// An InterruptBridge lets peripheral emulation request autovectored
// interrupts. RaiseAutovector may be called from any goroutine; the CPU
// picks requests up at its next instruction boundary.
type InterruptBridge struct {
	mu     sync.Mutex
	levels uint8 // bit n-1 set while level n is requested
}

// NewInterruptBridge creates a bridge with no outstanding requests.
func NewInterruptBridge() *InterruptBridge {
	return &InterruptBridge{}
}

// RaiseAutovector requests delivery of the autovector for level 1..7.
// Repeated requests for a level not yet consumed collapse into one.
func (b *InterruptBridge) RaiseAutovector(level int) error {
	if level < 1 || level > 7 {
		return ErrBadAutovector
	}
	b.mu.Lock()
	b.levels |= 1 << (level - 1)
	b.mu.Unlock()
	return nil
}

// take returns and clears the outstanding levels, highest first.
func (b *InterruptBridge) take() []int {
	b.mu.Lock()
	levels := b.levels
	b.levels = 0
	b.mu.Unlock()

	if levels == 0 {
		return nil
	}
	var out []int
	for level := 7; level >= 1; level-- {
		if levels&(1<<(level-1)) != 0 {
			out = append(out, level)
		}
	}
	return out
}
