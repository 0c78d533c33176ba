// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memory implements a sparse, paged 32-bit address space with
// big-endian byte, word and long accessors.
//
// Pages are created on first touch by a pluggable Resolver. An
// AddressSpace is not safe for concurrent use; it must be driven by the
// same goroutine that drives the CPU using it.
package memory

import "fmt"

// An AddressSpace maps page numbers to pages.
type AddressSpace struct {
	pages    map[uint32]*Page
	resolver Resolver
}

// NewAddressSpace creates an empty address space. Pages are supplied by
// r, or zeroed on demand when r is nil.
func NewAddressSpace(r Resolver) *AddressSpace {
	if r == nil {
		r = ZeroResolver
	}
	return &AddressSpace{
		pages:    make(map[uint32]*Page),
		resolver: r,
	}
}

// Page returns the page with the requested page number, resolving it on
// first touch. A resolved page is cached until the address space is reset.
func (s *AddressSpace) Page(pageNo uint32) (*Page, error) {
	if p, ok := s.pages[pageNo]; ok {
		return p, nil
	}

	p, err := s.resolver.Resolve(pageNo)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%w: page $%05X: %w", ErrPageFault, pageNo, err)
	case p == nil:
		return nil, fmt.Errorf("%w: page $%05X", ErrPageFault, pageNo)
	}

	s.pages[pageNo] = p
	return p, nil
}

// SetWriteProtection sets or clears write protection on every page
// overlapping the count bytes starting at addr.
func (s *AddressSpace) SetWriteProtection(addr, count uint32, on bool) error {
	if count == 0 {
		return nil
	}

	last := uint64(addr) + uint64(count) - 1
	first, final := addr>>PageShift, uint32(min(last>>PageShift, maxPageNo))
	for n := first; ; n++ {
		p, err := s.Page(n)
		if err != nil {
			return &AccessError{Op: "protect", Addr: n << PageShift, Size: 0, Err: err}
		}
		if on {
			p.Flags |= WriteProtect
		} else {
			p.Flags &^= WriteProtect
		}
		if n == final {
			break
		}
	}
	return nil
}

// MapROM maps a read-only copy of image at address base, layered over the
// current resolver. Resident pages overlapping the image are discarded so
// they resolve from the image on next touch; all other pages keep their
// contents.
func (s *AddressSpace) MapROM(base uint32, image []byte) {
	s.resolver = &ROMResolver{Base: base, Image: image, Fallback: s.resolver}
	if len(image) == 0 {
		return
	}

	last := uint64(base) + uint64(len(image)) - 1
	first, final := base>>PageShift, uint32(min(last>>PageShift, maxPageNo))
	for n := first; ; n++ {
		delete(s.pages, n)
		if n == final {
			break
		}
	}
}

// Reset discards every page. Subsequent accesses resolve pages afresh.
func (s *AddressSpace) Reset() {
	clear(s.pages)
}

// PageCount returns the number of resident pages.
func (s *AddressSpace) PageCount() int {
	return len(s.pages)
}
