// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"strconv"

	"github.com/bitmark-inc/feedstore/fault"
)

// database backends
const (
	BackendLevelDB = "leveldb"
	BackendBolt    = "bolt"
	BackendMemory  = "memory"
)

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// outside every namespace so it never shows up in a listing
var versionKey = []byte{0xff, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// Pools - one handle per namespace
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type Pools struct {
	Heads      *PoolHandle `namespace:"0"`
	Blocks     *PoolHandle `namespace:"1"`
	Tails      *PoolHandle `namespace:"2"`
	Latest     *PoolHandle `namespace:"3"`
	Registry   *PoolHandle `namespace:"4"`
	ChainTails *PoolHandle `namespace:"5"`
	ChainHeads *PoolHandle `namespace:"6"`
}

// Open - open a database with the chosen backend and check its version
func Open(backend string, name string, readOnly bool) (Handle, error) {
	var handle Handle
	var err error

	switch backend {
	case BackendLevelDB, "":
		handle, err = OpenLevelDB(name, readOnly)
	case BackendBolt:
		handle, err = OpenBolt(name, readOnly)
	case BackendMemory:
		handle, err = NewMemory()
	default:
		return nil, fault.ErrInvalidBackend
	}
	if nil != err {
		return nil, err
	}

	version, err := getVersion(handle)
	if nil != err {
		handle.Close()
		return nil, err
	}

	// ensure no database downgrade
	if version > currentDBVersion {
		handle.Close()
		return nil, fault.ErrDatabaseVersion
	}

	// database was empty so tag as current version
	if 0 == version && !readOnly {
		if err := putVersion(handle, currentDBVersion); nil != err {
			handle.Close()
			return nil, err
		}
	}
	return handle, nil
}

// NewPools - attach a pool handle for each namespace to the database
func NewPools(handle Handle) (*Pools, error) {
	if nil == handle {
		return nil, fault.ErrDatabaseIsNotSet
	}

	pools := &Pools{}

	// this will be a struct type
	poolType := reflect.TypeOf(*pools)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(pools).Elem()

	seen := make(map[Namespace]string)

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {
		fieldInfo := poolType.Field(i)

		tag := fieldInfo.Tag.Get("namespace")
		n, err := strconv.ParseUint(tag, 10, 8)
		if nil != err {
			return nil, fmt.Errorf("pool: %s has invalid namespace: %q", fieldInfo.Name, tag)
		}
		ns := Namespace(n)
		if !ns.Valid() {
			return nil, fmt.Errorf("pool: %s has unknown namespace: %d", fieldInfo.Name, n)
		}
		if other, ok := seen[ns]; ok {
			return nil, fmt.Errorf("pool: %s duplicates namespace of: %s", fieldInfo.Name, other)
		}
		seen[ns] = fieldInfo.Name

		p := &PoolHandle{
			namespace: ns,
			handle:    handle,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}
	return pools, nil
}

// Pool - the handle for a namespace
func (p *Pools) Pool(ns Namespace) *PoolHandle {
	switch ns {
	case Head:
		return p.Heads
	case Block:
		return p.Blocks
	case Tail:
		return p.Tails
	case Latest:
		return p.Latest
	case Registry:
		return p.Registry
	case ChainTail:
		return p.ChainTails
	case ChainHead:
		return p.ChainHeads
	default:
		return nil
	}
}

// return 0 for an empty database
func getVersion(handle Handle) (int, error) {
	versionValue, err := handle.Get(versionKey)
	if fault.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}

	if 4 != len(versionValue) {
		return 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}
	return int(binary.BigEndian.Uint32(versionValue)), nil
}

func putVersion(handle Handle, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))
	return handle.Put(versionKey, currentVersion)
}
