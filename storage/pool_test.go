// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/feedstore/fault"
	"github.com/bitmark-inc/feedstore/storage"
)

// helper to add to pool
func poolPut(t *testing.T, p *storage.PoolHandle, key string, data string) {
	require.NoError(t, p.Put([]byte(key), []byte(data)))
}

// helper to remove from pool
func poolDelete(t *testing.T, p *storage.PoolHandle, key string) {
	require.NoError(t, p.Delete([]byte(key)))
}

// main pool test
func TestPool(t *testing.T) {
	for _, backend := range allBackends {
		t.Run(backend, func(t *testing.T) {
			handle, name := setup(t, backend)
			defer func() { teardown(handle) }()

			pools, err := storage.NewPools(handle)
			require.NoError(t, err)
			p := pools.Registry

			// ensure that pool was empty
			checkAgain(t, p, true)

			poolPut(t, p, "key-one", "data-one")
			poolPut(t, p, "key-two", "data-two")
			poolPut(t, p, "key-remove-me", "to be deleted")
			poolDelete(t, p, "key-remove-me")
			poolPut(t, p, "key-three", "data-three")
			poolPut(t, p, "key-one", "data-one")     // duplicate
			poolPut(t, p, "key-three", "data-three") // duplicate
			poolPut(t, p, "key-four", "data-four")
			poolPut(t, p, "key-delete-this", "to be deleted")
			poolPut(t, p, "key-five", "data-five")
			poolPut(t, p, "key-six", "data-six")
			poolDelete(t, p, "key-delete-this")
			poolPut(t, p, "key-seven", "data-seven")
			poolPut(t, p, "key-one", "data-one(NEW)") // duplicate

			// ensure that data is correct
			checkResults(t, p)

			// neighbouring namespaces are unaffected
			heads, err := pools.Heads.List()
			require.NoError(t, err)
			assert.Equal(t, 0, len(heads), "head namespace not empty")

			if storage.BackendMemory == backend {
				return
			}

			// check that reopening database keeps data
			require.NoError(t, handle.Close())
			handle, err = storage.Open(backend, name, storage.ReadOnly)
			require.NoError(t, err)
			pools, err = storage.NewPools(handle)
			require.NoError(t, err)
			checkAgain(t, pools.Registry, false)

			// read only refuses writes
			err = pools.Registry.Put([]byte("k"), []byte("v"))
			assert.Equal(t, fault.ErrReadOnly, err, "wrong error")
		})
	}
}

func checkResults(t *testing.T, p *storage.PoolHandle) {

	// ensure we get all of the pool
	cursor := p.NewFetchCursor()
	data, err := cursor.Fetch(20)
	require.NoError(t, err)

	// ensure lengths match
	assert.Equal(t, len(expectedElements), len(data), "length mismatch")

	// compare all items from pool
	for i, a := range data {
		if i >= len(expectedElements) {
			t.Errorf("%d: Excess, got: '%s'  expected: Nothing", i, a.Key)
		} else if !bytes.Equal(expectedElements[i].Key, a.Key) || !bytes.Equal(expectedElements[i].Value, a.Value) {
			t.Errorf("%d: Mismatch, got: '%s:%s'  expected: '%s:%s'", i,
				a.Key, a.Value,
				expectedElements[i].Key, expectedElements[i].Value)
		}
	}

	// retrieve 2 elements then next 2 - ensure no overlap
	cursor.Seek(nil)
	firstPair, err := cursor.Fetch(2)
	require.NoError(t, err)
	secondPair, err := cursor.Fetch(2)
	require.NoError(t, err)
	require.Equal(t, 2, len(secondPair))
	assert.Equal(t, expectedElements[1].Key, firstPair[1].Key)
	assert.Equal(t, expectedElements[2].Key, secondPair[0].Key, "fetch overlap")

	// check key exists
	found, err := p.Has(testKey)
	require.NoError(t, err)
	assert.True(t, found, "not found: %q", testKey)

	// retrieve a key
	d2, err := p.Get(testKey)
	require.NoError(t, err)
	assert.Equal(t, testData, string(d2), "mismatch on Get")

	// check that key does not exist
	found, err = p.Has(nonExistantKey)
	require.NoError(t, err)
	assert.False(t, found, "unexpectedly found: %q", nonExistantKey)

	// retrieve a key not in the pool
	_, err = p.Get(nonExistantKey)
	assert.Equal(t, fault.ErrNotFound, err, "wrong error")
}

func checkAgain(t *testing.T, p *storage.PoolHandle, empty bool) {
	data, err := p.List()
	require.NoError(t, err)
	if empty {
		assert.Equal(t, 0, len(data), "pool was not empty")
		return
	}

	for i, e := range expectedElements {
		value, err := p.Get(e.Key)
		if nil != err {
			t.Errorf("checkAgain: %d: Error on Get('%s'): %s", i, e.Key, err)
			continue
		}
		assert.Equal(t, e.Value, value, "checkAgain: %d: mismatch on Get('%s')", i, e.Key)
	}
	assert.Equal(t, len(expectedElements), len(data), "extra elements found")
}

func TestFetchCursorInvalid(t *testing.T) {
	handle, err := storage.NewMemory()
	require.NoError(t, err)
	defer handle.Close()

	pools, err := storage.NewPools(handle)
	require.NoError(t, err)

	_, err = pools.Blocks.NewFetchCursor().Fetch(0)
	assert.Equal(t, fault.ErrInvalidCount, err, "wrong error")

	var cursor *storage.FetchCursor
	_, err = cursor.Fetch(1)
	assert.Equal(t, fault.ErrInvalidCursor, err, "wrong error")
}

// keys sharing a prefix must page correctly
func TestFetchCursorPrefixKeys(t *testing.T) {
	handle, err := storage.NewMemory()
	require.NoError(t, err)
	defer handle.Close()

	pools, err := storage.NewPools(handle)
	require.NoError(t, err)
	p := pools.Tails

	keys := [][]byte{{0x00}, {0x00, 0x00}, {0x00, 0x01}, {0x01}, {0xff, 0xff}}
	for _, k := range keys {
		require.NoError(t, p.Put(k, k))
	}

	cursor := p.NewFetchCursor()
	seen := make([][]byte, 0, len(keys))
	for {
		items, err := cursor.Fetch(2)
		require.NoError(t, err)
		if 0 == len(items) {
			break
		}
		for _, item := range items {
			seen = append(seen, item.Key)
		}
	}
	assert.Equal(t, keys, seen, "paging order")
}

func TestNilPools(t *testing.T) {
	_, err := storage.NewPools(nil)
	assert.Equal(t, fault.ErrDatabaseIsNotSet, err, "wrong error")
}

func TestPoolsByNamespace(t *testing.T) {
	handle, err := storage.NewMemory()
	require.NoError(t, err)
	defer handle.Close()

	pools, err := storage.NewPools(handle)
	require.NoError(t, err)

	for _, ns := range []storage.Namespace{storage.Head, storage.Block, storage.Tail, storage.Latest, storage.Registry, storage.ChainTail, storage.ChainHead} {
		p := pools.Pool(ns)
		require.NotNil(t, p, "namespace: %s", ns)
		assert.Equal(t, ns, p.Namespace(), "namespace mismatch")
	}
	assert.Nil(t, pools.Pool(storage.Namespace(42)))
}
