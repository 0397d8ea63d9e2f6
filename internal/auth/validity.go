// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import "sync/atomic"

// Validity is the client's belief about the current access token.
type Validity int32

const (
	ValidityUnknown Validity = iota
	ValidityValid
	ValidityInvalid
)

func (v Validity) String() string {
	switch v {
	case ValidityValid:
		return "valid"
	case ValidityInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ValidityCache holds one tri-state validity value. While it reads Invalid no
// profile or verification call is issued.
type ValidityCache struct {
	v atomic.Int32
}

func (c *ValidityCache) Get() Validity { return Validity(c.v.Load()) }
func (c *ValidityCache) MarkValid()    { c.v.Store(int32(ValidityValid)) }
func (c *ValidityCache) MarkInvalid()  { c.v.Store(int32(ValidityInvalid)) }
func (c *ValidityCache) Reset()        { c.v.Store(int32(ValidityUnknown)) }

// ClearInvalid moves Invalid back to Unknown and leaves other values alone.
// It reports whether a reset happened.
func (c *ValidityCache) ClearInvalid() bool {
	return c.v.CompareAndSwap(int32(ValidityInvalid), int32(ValidityUnknown))
}
