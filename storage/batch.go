// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

// Operation - kind of a batch entry
type Operation int

// batch operations
const (
	OpPut Operation = iota
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpPut:
		return "put"
	case OpDelete:
		return "del"
	default:
		return "unknown"
	}
}

// BatchOp - a single entry in a batch
type BatchOp struct {
	Op    Operation
	Key   []byte
	Value []byte
}

// Batch - an ordered list of operations to be applied atomically
type Batch struct {
	ops []BatchOp
}

// Put - queue a key/value store
func (b *Batch) Put(key []byte, value []byte) {
	b.ops = append(b.ops, BatchOp{Op: OpPut, Key: key, Value: value})
}

// Delete - queue a key removal
func (b *Batch) Delete(key []byte) {
	b.ops = append(b.ops, BatchOp{Op: OpDelete, Key: key})
}

// Len - number of queued operations
func (b *Batch) Len() int {
	return len(b.ops)
}

// Reset - discard all queued operations
func (b *Batch) Reset() {
	b.ops = b.ops[:0]
}

// Ops - the queued operations in order
func (b *Batch) Ops() []BatchOp {
	return b.ops
}

// Replay - call put or del for each queued operation in order
func (b *Batch) Replay(put func(key []byte, value []byte), del func(key []byte)) {
	for _, op := range b.ops {
		switch op.Op {
		case OpPut:
			put(op.Key, op.Value)
		case OpDelete:
			del(op.Key)
		}
	}
}
