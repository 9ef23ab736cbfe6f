// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// PoolHandle - access to a single namespace
type PoolHandle struct {
	namespace Namespace
	handle    Handle
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// Namespace - the prefix of this pool
func (p *PoolHandle) Namespace() Namespace {
	return p.namespace
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	return Key(p.namespace, key)
}

// Get - read a value for a given key, fault.ErrNotFound if absent
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	return p.handle.Get(p.prefixKey(key))
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	return p.handle.Has(p.prefixKey(key))
}

// Put - store a key/value bytes pair directly to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	return p.handle.Put(p.prefixKey(key), value)
}

// Delete - remove a key directly from the database
func (p *PoolHandle) Delete(key []byte) error {
	return p.handle.Delete(p.prefixKey(key))
}

// List - every element of the namespace in key order
func (p *PoolHandle) List() ([]Element, error) {
	result := make([]Element, 0)
	err := p.NewFetchCursor().Map(func(key []byte, value []byte) error {
		result = append(result, Element{Key: key, Value: value})
		return nil
	})
	return result, err
}

// Transaction - collect operations on several pools for one atomic write
type Transaction struct {
	handle Handle
	batch  Batch
}

// NewTransaction - start an empty transaction on the database
func NewTransaction(handle Handle) *Transaction {
	return &Transaction{handle: handle}
}

// Put - queue a store into the pool
func (t *Transaction) Put(p *PoolHandle, key []byte, value []byte) {
	t.batch.Put(p.prefixKey(key), value)
}

// Delete - queue a removal from the pool
func (t *Transaction) Delete(p *PoolHandle, key []byte) {
	t.batch.Delete(p.prefixKey(key))
}

// Len - number of queued operations
func (t *Transaction) Len() int {
	return t.batch.Len()
}

// Commit - write all queued operations atomically and reset
func (t *Transaction) Commit() error {
	if 0 == t.batch.Len() {
		return nil
	}
	err := t.handle.Write(&t.batch)
	t.batch.Reset()
	return err
}

// Abort - discard all queued operations
func (t *Transaction) Abort() {
	t.batch.Reset()
}
