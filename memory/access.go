// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"errors"
	"io"
)

func (s *AddressSpace) loadPage(addr uint32, size int) (*Page, error) {
	p, err := s.Page(addr >> PageShift)
	if err != nil {
		return nil, &AccessError{Op: "load", Addr: addr, Size: size, Err: err}
	}
	return p, nil
}

// LoadByte loads a single byte from the address and returns it.
func (s *AddressSpace) LoadByte(addr uint32) (byte, error) {
	p, err := s.loadPage(addr, 1)
	if err != nil {
		return 0, err
	}
	return p.Data[addr&pageMask], nil
}

// LoadWord loads a big-endian 16-bit value from an even address.
func (s *AddressSpace) LoadWord(addr uint32) (uint16, error) {
	if addr&1 != 0 {
		return 0, &AccessError{Op: "load", Addr: addr, Size: 2, Err: ErrBadAlignment}
	}
	return s.LoadWordUnchecked(addr)
}

// LoadLong loads a big-endian 32-bit value from an even address.
func (s *AddressSpace) LoadLong(addr uint32) (uint32, error) {
	if addr&1 != 0 {
		return 0, &AccessError{Op: "load", Addr: addr, Size: 4, Err: ErrBadAlignment}
	}
	return s.LoadLongUnchecked(addr)
}

// LoadWordUnchecked loads a 16-bit value without validating alignment. It
// is used for instruction fetch after the caller has checked the PC.
func (s *AddressSpace) LoadWordUnchecked(addr uint32) (uint16, error) {
	off := addr & pageMask
	if off <= PageSize-2 {
		p, err := s.loadPage(addr, 2)
		if err != nil {
			return 0, err
		}
		return uint16(p.Data[off])<<8 | uint16(p.Data[off+1]), nil
	}

	var b [2]byte
	if err := s.LoadBytes(addr, b[:]); err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// LoadLongUnchecked loads a 32-bit value without validating alignment.
func (s *AddressSpace) LoadLongUnchecked(addr uint32) (uint32, error) {
	off := addr & pageMask
	if off <= PageSize-4 {
		p, err := s.loadPage(addr, 4)
		if err != nil {
			return 0, err
		}
		d := p.Data[off : off+4]
		return uint32(d[0])<<24 | uint32(d[1])<<16 | uint32(d[2])<<8 | uint32(d[3]), nil
	}

	var b [4]byte
	if err := s.LoadBytes(addr, b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// LoadBytes fills b with the bytes starting at addr. Addresses wrap at the
// top of the 32-bit space.
func (s *AddressSpace) LoadBytes(addr uint32, b []byte) error {
	for len(b) > 0 {
		p, err := s.loadPage(addr, len(b))
		if err != nil {
			return err
		}
		n := copy(b, p.Data[addr&pageMask:])
		b = b[n:]
		addr += uint32(n)
	}
	return nil
}

// StoreByte stores a byte to the requested address.
func (s *AddressSpace) StoreByte(addr uint32, v byte) error {
	return s.StoreBytes(addr, []byte{v})
}

// StoreWord stores a big-endian 16-bit value to an even address.
func (s *AddressSpace) StoreWord(addr uint32, v uint16) error {
	if addr&1 != 0 {
		return &AccessError{Op: "store", Addr: addr, Size: 2, Err: ErrBadAlignment}
	}
	return s.StoreBytes(addr, []byte{byte(v >> 8), byte(v)})
}

// StoreLong stores a big-endian 32-bit value to an even address.
func (s *AddressSpace) StoreLong(addr uint32, v uint32) error {
	if addr&1 != 0 {
		return &AccessError{Op: "store", Addr: addr, Size: 4, Err: ErrBadAlignment}
	}
	return s.StoreBytes(addr, []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// StoreBytes stores b starting at addr. Every page the store touches is
// resolved and checked for write protection before any byte is written,
// so a failed store leaves memory unchanged.
func (s *AddressSpace) StoreBytes(addr uint32, b []byte) error {
	if len(b) == 0 {
		return nil
	}

	var pages []*Page
	for a, left := addr, len(b); left > 0; {
		p, err := s.Page(a >> PageShift)
		if err != nil {
			return &AccessError{Op: "store", Addr: a, Size: len(b), Err: err}
		}
		if p.Protected() {
			return &AccessError{Op: "store", Addr: a, Size: len(b), Err: ErrWriteProtected}
		}
		pages = append(pages, p)
		n := min(left, int(PageSize-a&pageMask))
		left -= n
		a += uint32(n)
	}

	for _, p := range pages {
		n := copy(p.Data[addr&pageMask:], b)
		b = b[n:]
		addr += uint32(n)
	}
	return nil
}

// BulkStore copies everything readable from r into memory starting at
// addr. It returns the number of bytes stored.
func (s *AddressSpace) BulkStore(addr uint32, r io.Reader) (int, error) {
	var buf [PageSize]byte
	total := 0
	for {
		n, err := r.Read(buf[:])
		if n > 0 {
			if serr := s.StoreBytes(addr, buf[:n]); serr != nil {
				return total, serr
			}
			addr += uint32(n)
			total += n
		}
		switch {
		case errors.Is(err, io.EOF):
			return total, nil
		case err != nil:
			return total, err
		}
	}
}
