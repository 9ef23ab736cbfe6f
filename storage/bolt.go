// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/bitmark-inc/feedstore/fault"
)

// all keys live in one bucket, namespaces are key prefixes as for LevelDB
var boltBucket = []byte("feedstore")

const boltOpenTimeout = 5 * time.Second

type boltHandle struct {
	db       *bolt.DB
	readOnly bool
}

// OpenBolt - open (or create) a bbolt database file
func OpenBolt(name string, readOnly bool) (Handle, error) {
	opt := &bolt.Options{
		Timeout:  boltOpenTimeout,
		ReadOnly: readOnly,
	}
	db, err := bolt.Open(name, 0600, opt)
	if nil != err {
		return nil, err
	}

	if !readOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(boltBucket)
			return err
		})
		if nil != err {
			db.Close()
			return nil, err
		}
	}
	return &boltHandle{db: db, readOnly: readOnly}, nil
}

func (h *boltHandle) Get(key []byte) ([]byte, error) {
	var value []byte
	err := h.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket)
		if nil == b {
			return fault.ErrNotFound
		}
		v := b.Get(key)
		if nil == v {
			return fault.ErrNotFound
		}
		// only valid for the life of the transaction
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	return value, err
}

func (h *boltHandle) Has(key []byte) (bool, error) {
	_, err := h.Get(key)
	if fault.ErrNotFound == err {
		return false, nil
	}
	return nil == err, err
}

func (h *boltHandle) Put(key []byte, value []byte) error {
	b := Batch{}
	b.Put(key, value)
	return h.Write(&b)
}

func (h *boltHandle) Delete(key []byte) error {
	b := Batch{}
	b.Delete(key)
	return h.Write(&b)
}

func (h *boltHandle) Write(batch *Batch) error {
	if h.readOnly {
		return fault.ErrReadOnly
	}
	return h.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket)
		for _, op := range batch.Ops() {
			var err error
			switch op.Op {
			case OpPut:
				err = b.Put(op.Key, op.Value)
			case OpDelete:
				err = b.Delete(op.Key)
			}
			if nil != err {
				return err
			}
		}
		return nil
	})
}

func (h *boltHandle) NewIterator(searchRange *Range) Iterator {
	tx, err := h.db.Begin(false)
	if nil != err {
		return &boltIterator{err: err}
	}
	iter := &boltIterator{tx: tx}
	if nil != searchRange {
		iter.start = searchRange.Start
		iter.limit = searchRange.Limit
	}
	if b := tx.Bucket(boltBucket); nil != b {
		iter.cursor = b.Cursor()
	}
	return iter
}

func (h *boltHandle) Close() error {
	return h.db.Close()
}

// iterator holding a read transaction open until Release
type boltIterator struct {
	tx      *bolt.Tx
	cursor  *bolt.Cursor
	start   []byte
	limit   []byte
	started bool
	key     []byte
	value   []byte
	err     error
}

func (it *boltIterator) Next() bool {
	if nil == it.cursor {
		return false
	}

	var k, v []byte
	if !it.started {
		it.started = true
		if nil == it.start {
			k, v = it.cursor.First()
		} else {
			k, v = it.cursor.Seek(it.start)
		}
	} else {
		k, v = it.cursor.Next()
	}

	if nil == k || (nil != it.limit && bytes.Compare(k, it.limit) >= 0) {
		it.key = nil
		it.value = nil
		it.cursor = nil
		return false
	}
	it.key = k
	it.value = v
	return true
}

func (it *boltIterator) Key() []byte {
	return it.key
}

func (it *boltIterator) Value() []byte {
	return it.value
}

func (it *boltIterator) Release() {
	if nil != it.tx {
		_ = it.tx.Rollback()
		it.tx = nil
	}
	it.cursor = nil
}

func (it *boltIterator) Error() error {
	return it.err
}
