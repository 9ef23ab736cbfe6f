// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/feedstore/fault"
)

type levelDBHandle struct {
	db       *leveldb.DB
	readOnly bool
}

// OpenLevelDB - open (or create) a LevelDB database directory
func OpenLevelDB(name string, readOnly bool) (Handle, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}
	return &levelDBHandle{db: db, readOnly: readOnly}, nil
}

// NewMemory - a LevelDB database held entirely in memory
func NewMemory() (Handle, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}
	return &levelDBHandle{db: db}, nil
}

func (h *levelDBHandle) Get(key []byte) ([]byte, error) {
	value, err := h.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.ErrNotFound
	}
	return value, err
}

func (h *levelDBHandle) Has(key []byte) (bool, error) {
	return h.db.Has(key, nil)
}

func (h *levelDBHandle) Put(key []byte, value []byte) error {
	if h.readOnly {
		return fault.ErrReadOnly
	}
	return h.db.Put(key, value, nil)
}

func (h *levelDBHandle) Delete(key []byte) error {
	if h.readOnly {
		return fault.ErrReadOnly
	}
	return h.db.Delete(key, nil)
}

func (h *levelDBHandle) Write(batch *Batch) error {
	if h.readOnly {
		return fault.ErrReadOnly
	}
	trx := new(leveldb.Batch)
	batch.Replay(trx.Put, trx.Delete)
	return h.db.Write(trx, nil)
}

func (h *levelDBHandle) NewIterator(searchRange *Range) Iterator {
	var r *ldb_util.Range
	if nil != searchRange {
		r = &ldb_util.Range{
			Start: searchRange.Start,
			Limit: searchRange.Limit,
		}
	}
	return h.db.NewIterator(r, nil)
}

func (h *levelDBHandle) Close() error {
	return h.db.Close()
}
