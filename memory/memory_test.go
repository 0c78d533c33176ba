// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/beevik/go68k/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongRoundTrip(t *testing.T) {
	assert := assert.New(t)

	addrs := []uint32{0, 2, 0x0ffc, 0x0ffe, 0x1ffe, 0x7ffffffe, 0xfffffffc, 0x00fe_0ffe}
	values := []uint32{0, 1, 0x80000000, 0xdeadbeef, 0xffffffff, 0x01020304}

	m := memory.NewAddressSpace(nil)
	for _, a := range addrs {
		for _, v := range values {
			name := fmt.Sprintf("$%08X <- $%08X", a, v)
			assert.NoError(m.StoreLong(a, v), name)
			got, err := m.LoadLong(a)
			assert.NoError(err, name)
			assert.Equal(v, got, name)
		}
	}
}

func TestBigEndian(t *testing.T) {
	assert := assert.New(t)

	m := memory.NewAddressSpace(nil)
	require.NoError(t, m.StoreLong(0x0ffe, 0x11223344))

	b := make([]byte, 4)
	assert.NoError(m.LoadBytes(0x0ffe, b))
	assert.Equal([]byte{0x11, 0x22, 0x33, 0x44}, b)

	w, err := m.LoadWord(0x1000)
	assert.NoError(err)
	assert.Equal(uint16(0x3344), w)

	v, err := m.LoadByte(0x0fff)
	assert.NoError(err)
	assert.Equal(byte(0x22), v)

	assert.Equal(2, m.PageCount())
}

func TestAlignment(t *testing.T) {
	assert := assert.New(t)

	m := memory.NewAddressSpace(nil)
	require.NoError(t, m.StoreBytes(0x0ffd, []byte{0xaa, 0xbb, 0xcc, 0xdd, 0xee}))

	_, err := m.LoadWord(0x0fff)
	assert.ErrorIs(err, memory.ErrBadAlignment)
	_, err = m.LoadLong(0x0ffd)
	assert.ErrorIs(err, memory.ErrBadAlignment)
	assert.ErrorIs(m.StoreWord(3, 0), memory.ErrBadAlignment)
	assert.ErrorIs(m.StoreLong(5, 0), memory.ErrBadAlignment)

	w, err := m.LoadWordUnchecked(0x0fff)
	assert.NoError(err)
	assert.Equal(uint16(0xccdd), w)

	l, err := m.LoadLongUnchecked(0x0ffd)
	assert.NoError(err)
	assert.Equal(uint32(0xaabbccdd), l)

	var ae *memory.AccessError
	_, err = m.LoadLong(7)
	require.True(t, errors.As(err, &ae))
	assert.Equal(uint32(7), ae.Addr)
	assert.Equal(4, ae.Size)
	assert.False(ae.IsWrite())
}

func TestWriteProtection(t *testing.T) {
	assert := assert.New(t)

	m := memory.NewAddressSpace(nil)
	require.NoError(t, m.StoreBytes(0x2000, []byte{1, 2, 3, 4}))
	require.NoError(t, m.SetWriteProtection(0x2000, 1, true))

	assert.ErrorIs(m.StoreByte(0x2000, 0xff), memory.ErrWriteProtected)
	assert.ErrorIs(m.StoreWord(0x2ffe, 0xffff), memory.ErrWriteProtected)
	assert.ErrorIs(m.StoreLong(0x2002, 0xffffffff), memory.ErrWriteProtected)

	b := make([]byte, 4)
	assert.NoError(m.LoadBytes(0x2000, b))
	assert.Equal([]byte{1, 2, 3, 4}, b)

	// A long straddling into a protected page leaves the unprotected page
	// untouched too.
	assert.ErrorIs(m.StoreLong(0x1ffe, 0x55555555), memory.ErrWriteProtected)
	w, err := m.LoadWord(0x1ffe)
	assert.NoError(err)
	assert.Equal(uint16(0), w)

	require.NoError(t, m.SetWriteProtection(0x2fff, 1, false))
	assert.NoError(m.StoreByte(0x2000, 0xff))
}

func TestWriteProtectionRange(t *testing.T) {
	assert := assert.New(t)

	m := memory.NewAddressSpace(nil)
	require.NoError(t, m.SetWriteProtection(0x0fff, 2, true))

	for _, a := range []uint32{0x0000, 0x0fff, 0x1000, 0x1fff} {
		assert.ErrorIs(m.StoreByte(a, 1), memory.ErrWriteProtected, fmt.Sprintf("$%04X", a))
	}
	assert.NoError(m.StoreByte(0x2000, 1))

	assert.NoError(m.SetWriteProtection(0xfffff000, 0x2000, true))
	assert.ErrorIs(m.StoreByte(0xffffffff, 1), memory.ErrWriteProtected)
	assert.NoError(m.SetWriteProtection(0x5000, 0, true))
	assert.NoError(m.StoreByte(0x5000, 1))
}

func TestPageFault(t *testing.T) {
	assert := assert.New(t)

	errUnmapped := errors.New("unmapped")
	r := memory.ResolverFunc(func(pageNo uint32) (*memory.Page, error) {
		switch {
		case pageNo < 0x10:
			return new(memory.Page), nil
		case pageNo == 0x20:
			return nil, nil
		default:
			return nil, errUnmapped
		}
	})

	m := memory.NewAddressSpace(r)
	assert.NoError(m.StoreLong(0xff00, 0x12345678))

	_, err := m.LoadByte(0x10000)
	assert.ErrorIs(err, memory.ErrPageFault)
	assert.ErrorIs(err, errUnmapped)

	_, err = m.LoadByte(0x20000)
	assert.ErrorIs(err, memory.ErrPageFault)

	// The first page of the straddle resolves, the second does not.
	assert.ErrorIs(m.StoreLong(0xfffe, 0xffffffff), memory.ErrPageFault)
	v, err := m.LoadLong(0xff00)
	assert.NoError(err)
	assert.Equal(uint32(0x12345678), v)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	m := memory.NewAddressSpace(nil)
	assert.NoError(m.StoreLong(0x4000, 0xcafef00d))
	assert.NoError(m.SetWriteProtection(0x4000, 4, true))
	assert.Equal(1, m.PageCount())

	m.Reset()
	assert.Equal(0, m.PageCount())

	v, err := m.LoadLong(0x4000)
	assert.NoError(err)
	assert.Equal(uint32(0), v)
	assert.NoError(m.StoreLong(0x4000, 1))
}

func TestROMResolver(t *testing.T) {
	assert := assert.New(t)

	image := make([]byte, 0x1800)
	for i := range image {
		image[i] = byte(i)
	}

	m := memory.NewAddressSpace(memory.NewROMResolver(0xfc0800, image))

	v, err := m.LoadByte(0xfc0801)
	assert.NoError(err)
	assert.Equal(byte(1), v)

	v, err = m.LoadByte(0xfc1fff)
	assert.NoError(err)
	assert.Equal(byte(0xff), v)

	l, err := m.LoadLong(0xfc0ffe)
	assert.NoError(err)
	assert.Equal(uint32(0xfeff0001), l)

	// Bytes below the image on a shared page read as zero but are still
	// protected along with the rest of the page.
	v, err = m.LoadByte(0xfc07ff)
	assert.NoError(err)
	assert.Equal(byte(0), v)
	assert.ErrorIs(m.StoreByte(0xfc0000, 1), memory.ErrWriteProtected)
	assert.ErrorIs(m.StoreByte(0xfc1000, 1), memory.ErrWriteProtected)

	assert.NoError(m.StoreByte(0xfc2000, 1))
	assert.NoError(m.StoreByte(0, 1))
}

func TestMapROM(t *testing.T) {
	assert := assert.New(t)

	m := memory.NewAddressSpace(nil)
	assert.NoError(m.StoreLong(0x100, 0x11223344))
	assert.NoError(m.StoreLong(0xf00000, 0x55667788))

	m.MapROM(0xf00000, []byte{0x4e, 0x71, 0x4e, 0x75})

	l, err := m.LoadLong(0xf00000)
	assert.NoError(err)
	assert.Equal(uint32(0x4e714e75), l)
	assert.ErrorIs(m.StoreByte(0xf00001, 0), memory.ErrWriteProtected)

	// Pages outside the image keep their contents.
	l, err = m.LoadLong(0x100)
	assert.NoError(err)
	assert.Equal(uint32(0x11223344), l)

	// The image survives a reset; RAM does not.
	m.Reset()
	l, _ = m.LoadLong(0xf00000)
	assert.Equal(uint32(0x4e714e75), l)
	l, _ = m.LoadLong(0x100)
	assert.Equal(uint32(0), l)

	// A second image layers over the first.
	m.MapROM(0xe00000, []byte{1, 2})
	w, _ := m.LoadWord(0xe00000)
	assert.Equal(uint16(0x0102), w)
	l, _ = m.LoadLong(0xf00000)
	assert.Equal(uint32(0x4e714e75), l)
}

func TestBulkStore(t *testing.T) {
	assert := assert.New(t)

	data := bytes.Repeat([]byte{0xa5, 0x5a}, 5000)
	m := memory.NewAddressSpace(nil)
	n, err := m.BulkStore(0x3ffe, bytes.NewReader(data))
	assert.NoError(err)
	assert.Equal(len(data), n)

	got := make([]byte, len(data))
	assert.NoError(m.LoadBytes(0x3ffe, got))
	assert.Equal(data, got)

	assert.NoError(m.SetWriteProtection(0x8000, 1, true))
	n, err = m.BulkStore(0x7000, bytes.NewReader(data))
	assert.ErrorIs(err, memory.ErrWriteProtected)
	assert.Equal(4096, n)
}
