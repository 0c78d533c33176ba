// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

// Page geometry.
const (
	PageShift = 12
	PageSize  = 1 << PageShift
	pageMask  = PageSize - 1
	maxPageNo = 0xffffffff >> PageShift
)

// PageFlags hold per-page attribute bits.
type PageFlags byte

const (
	// WriteProtect causes every store to the page to fail.
	WriteProtect PageFlags = 1 << iota
)

// A Page is a 4096-byte chunk of the 32-bit address space.
type Page struct {
	Data  [PageSize]byte
	Flags PageFlags
}

// Protected returns true if the page rejects writes.
func (p *Page) Protected() bool {
	return p.Flags&WriteProtect != 0
}

// A Resolver supplies the page for a page number the first time the page
// is touched. Returning an error signals a page fault.
type Resolver interface {
	Resolve(pageNo uint32) (*Page, error)
}

// ResolverFunc adapts an ordinary function to the Resolver interface.
type ResolverFunc func(pageNo uint32) (*Page, error)

// Resolve calls f(pageNo).
func (f ResolverFunc) Resolve(pageNo uint32) (*Page, error) {
	return f(pageNo)
}

// ZeroResolver returns a freshly zeroed page for every page number.
var ZeroResolver Resolver = ResolverFunc(func(uint32) (*Page, error) {
	return new(Page), nil
})

// A ROMResolver maps a read-only image into the address space starting at
// Base. Pages overlapping the image are filled from it and write-protected.
// All other pages are supplied by Fallback, or are zeroed when Fallback is
// nil.
type ROMResolver struct {
	Base     uint32
	Image    []byte
	Fallback Resolver
}

// NewROMResolver creates a resolver serving image at address base.
func NewROMResolver(base uint32, image []byte) *ROMResolver {
	return &ROMResolver{Base: base, Image: image}
}

// Resolve implements the Resolver interface.
func (r *ROMResolver) Resolve(pageNo uint32) (*Page, error) {
	start := uint64(pageNo) << PageShift
	end := start + PageSize
	romStart := uint64(r.Base)
	romEnd := romStart + uint64(len(r.Image))

	if len(r.Image) == 0 || end <= romStart || start >= romEnd {
		if r.Fallback != nil {
			return r.Fallback.Resolve(pageNo)
		}
		return new(Page), nil
	}

	p := new(Page)
	lo, hi := max(start, romStart), min(end, romEnd)
	copy(p.Data[lo-start:hi-start], r.Image[lo-romStart:hi-romStart])
	p.Flags |= WriteProtect
	return p, nil
}
