// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Range - a key range, Start is included and Limit is excluded
// a nil Limit means no upper bound
type Range struct {
	Start []byte
	Limit []byte
}

// Iterator - ascending key order iteration over a Range
//
// Key and Value are only valid until the next call to Next,
// Release must always be called
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Handle - the minimal contract required of an ordered key/value engine
//
// Get returns fault.ErrNotFound for a missing key, any other error is
// an I/O failure of the engine.  Write applies the whole batch or
// nothing.
type Handle interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Put(key []byte, value []byte) error
	Delete(key []byte) error
	Write(batch *Batch) error
	NewIterator(searchRange *Range) Iterator
	Close() error
}
