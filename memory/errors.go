// Copyright 2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memory

import (
	"errors"
	"fmt"
)

// Memory errors
var (
	ErrBadAlignment   = errors.New("misaligned word or long access")
	ErrWriteProtected = errors.New("page is write-protected")
	ErrPageFault      = errors.New("page could not be resolved")
)

// An AccessError describes a failed load or store.
type AccessError struct {
	Op   string // "load" or "store"
	Addr uint32 // address of the access
	Size int    // access width in bytes
	Err  error  // one of the memory sentinel errors, possibly wrapped
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("memory: %s of %d byte(s) at $%08X: %v", e.Op, e.Size, e.Addr, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// IsWrite returns true if the failed access was a store.
func (e *AccessError) IsWrite() bool {
	return e.Op == "store"
}
