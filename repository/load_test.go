// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package repository_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/feedstore/block"
	"github.com/bitmark-inc/feedstore/fault"
	"github.com/bitmark-inc/feedstore/repository"
	"github.com/bitmark-inc/feedstore/storage"
)

// repository holding one chain of n blocks
func chainRepo(t *testing.T, n int) (*repository.Repo, storage.Handle, author, *block.Feed) {
	r, handle := newRepo(t, nil)
	a := newAuthor(t)
	f := emptyFeed(t)
	for i := 0; i < n; i += 1 {
		appendBlock(t, f, a, fmt.Sprintf("%d", i))
	}
	require.Equal(t, n, merge(t, r, f))
	return r, handle, a, f
}

func TestLoadFeedVisitor(t *testing.T) {
	r, handle, _, f := chainRepo(t, 6)
	defer handle.Close()

	tip := f.Last().Signature()
	third := f.Get(2).Signature()

	tests := []struct {
		visit    repository.Visitor
		expected *block.Feed
	}{
		{nil, f},
		{repository.Limit(0), f},
		{repository.Limit(1), f.Slice(-1, 6)},
		{repository.Limit(4), f.Slice(2, 6)},
		{repository.Limit(100), f},
		{func(b *block.Block) repository.Action {
			if b.Signature() == third {
				return repository.Abort
			}
			return repository.Continue
		}, f.Slice(3, 6)},
		{func(b *block.Block) repository.Action {
			if b.Signature() == third {
				return repository.AbortAfter
			}
			return repository.Continue
		}, f.Slice(2, 6)},
	}

	for i, item := range tests {
		loaded, err := r.LoadFeed(tip, item.visit)
		require.NoError(t, err, "%d: load", i)
		assert.Equal(t, signatures(item.expected), signatures(loaded), "%d: loaded blocks", i)
	}

	// abort on the tip leaves nothing
	loaded, err := r.LoadFeed(tip, func(*block.Block) repository.Action {
		return repository.Abort
	})
	require.NoError(t, err)
	assert.Nil(t, loaded, "expected no feed")
}

func TestLimitPerLoad(t *testing.T) {
	r, handle, _, f := chainRepo(t, 6)
	defer handle.Close()

	tip := f.Last().Signature()

	for i := 0; i < 2; i += 1 {
		loaded, err := r.LoadFeed(tip, repository.Limit(3))
		require.NoError(t, err, "%d: load", i)
		assert.Equal(t, signatures(f.Slice(3, 6)), signatures(loaded), "%d: loaded blocks", i)
	}

	// the count is spent by the first load
	visit := repository.Limit(3)
	loaded, err := r.LoadFeed(tip, visit)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len(), "first load")

	loaded, err = r.LoadFeed(tip, visit)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len(), "reused visitor")
}

func TestLoadMissing(t *testing.T) {
	r, handle := newRepo(t, nil)
	defer handle.Close()

	a := newAuthor(t)

	feed, err := r.LoadHead(a.key, nil)
	require.NoError(t, err)
	assert.Nil(t, feed, "head of unknown author")

	feed, err = r.LoadLatest(a.key, nil)
	require.NoError(t, err)
	assert.Nil(t, feed, "latest of unknown author")

	feed, err = r.LoadFeed(block.Signature{}, nil)
	require.NoError(t, err)
	assert.Nil(t, feed, "unknown tip")
}

func TestChainLoad(t *testing.T) {
	r, handle, _, f := chainRepo(t, 4)
	defer handle.Close()

	it := r.ChainLoad(f.Last().Signature())
	loaded := make([]block.Signature, 0, 4)
	for it.Next() {
		loaded = append(loaded, it.Block().Signature())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []block.Signature{
		f.Get(3).Signature(),
		f.Get(2).Signature(),
		f.Get(1).Signature(),
		f.Get(0).Signature(),
	}, loaded, "tip to genesis")
	assert.False(t, it.Next(), "iterator restarted")

	// absent start is silent
	it = r.ChainLoad(block.Signature{1})
	assert.False(t, it.Next())
	assert.NoError(t, it.Err())
}

func TestChainLoadBrokenChain(t *testing.T) {
	r, handle := newRepo(t, nil)
	defer handle.Close()

	a := newAuthor(t)
	f := emptyFeed(t)
	appendBlock(t, f, a, "0")
	appendBlock(t, f, a, "1")
	b := appendBlock(t, f, a, "2")

	sig := b.Signature()
	record := append(a.key.Bytes(), b.Packed()...)
	require.NoError(t, handle.Put(storage.Key(storage.Block, sig[:]), record))

	it := r.ChainLoad(sig)
	assert.True(t, it.Next(), "first block")
	assert.Equal(t, sig, it.Block().Signature())
	assert.False(t, it.Next(), "missing parent")
	assert.Equal(t, fault.ErrParentNotFound, it.Err(), "wrong error")

	_, err := r.LoadFeed(sig, nil)
	assert.Equal(t, fault.ErrParentNotFound, err, "wrong error")
}

func TestResolveFeed(t *testing.T) {
	r, handle, a, f := chainRepo(t, 8)
	defer handle.Close()

	// from the tip and from the middle
	for _, i := range []int{7, 2, 0} {
		resolved, err := r.ResolveFeed(f.Get(i).Signature(), nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("7"), resolved.Last().Payload(), "resolve from: %d", i)
		assert.Equal(t, 8, resolved.Len(), "resolve from: %d", i)
	}

	stop := f.Get(-3).Signature()
	_, err := r.Rollback(a.key[:], &stop)
	require.NoError(t, err)

	resolved, err := r.ResolveFeed(f.Get(2).Signature(), nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("5"), resolved.Last().Payload())

	// visitor is applied to the resolved chain
	resolved, err = r.ResolveFeed(f.Get(2).Signature(), repository.Limit(2))
	require.NoError(t, err)
	assert.Equal(t, signatures(f.Slice(4, 6)), signatures(resolved))

	evicted, err := r.Rollback(a.key[:], nil)
	require.NoError(t, err)
	assert.Equal(t, 6, evicted.Len())

	feeds, err := r.ListFeeds()
	require.NoError(t, err)
	assert.Equal(t, 0, len(feeds), "empty repository")

	for i := 0; i < f.Len(); i += 1 {
		_, err = r.ResolveFeed(f.Get(i).Signature(), nil)
		assert.Equal(t, fault.ErrFeedNotFound, err, "%d: wrong error", i)
	}
}
