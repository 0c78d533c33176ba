// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

const backtraceDepth = 16

// backtrace is a ring of recently fetched instruction addresses.
type backtrace struct {
	pcs   [backtraceDepth]uint32
	next  int
	count int
}

func (b *backtrace) record(pc uint32) {
	b.pcs[b.next] = pc
	b.next = (b.next + 1) % backtraceDepth
	if b.count < backtraceDepth {
		b.count++
	}
}

// entries returns the recorded addresses, oldest first.
func (b *backtrace) entries() []uint32 {
	out := make([]uint32, 0, b.count)
	start := (b.next - b.count + backtraceDepth) % backtraceDepth
	for i := 0; i < b.count; i++ {
		out = append(out, b.pcs[(start+i)%backtraceDepth])
	}
	return out
}
