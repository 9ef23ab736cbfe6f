// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/feedstore/block"
	"github.com/bitmark-inc/feedstore/fault"
	"github.com/bitmark-inc/feedstore/repository"
	"github.com/bitmark-inc/feedstore/storage"
)

func TestNew(t *testing.T) {
	_, err := repository.New(nil, nil)
	assert.Equal(t, fault.ErrDatabaseIsNotSet, err, "wrong error")

	handle, err := storage.NewMemory()
	require.NoError(t, err)
	defer handle.Close()

	_, err = repository.New(handle, &repository.Options{
		Strategies: []repository.MergeStrategy{repository.AcceptAll, nil},
	})
	assert.Equal(t, fault.ErrNilStrategy, err, "wrong error")

	r, err := repository.New(handle, &repository.Options{AllowDetached: true})
	require.NoError(t, err)
	assert.True(t, r.AllowDetached(), "detached flag")
}

func TestLowLevelBlockStore(t *testing.T) {
	for _, expiry := range []time.Duration{0, -1} {
		r, handle := newRepo(t, &repository.Options{CacheExpiry: expiry})

		a := newAuthor(t)
		f := emptyFeed(t)
		b := appendBlock(t, f, a, "hello")
		sig := b.Signature()

		found, err := r.HasBlock(sig)
		require.NoError(t, err)
		assert.False(t, found, "block present before write")

		_, err = r.ReadBlock(sig)
		assert.Equal(t, fault.ErrNotFound, err, "wrong error")

		written, err := r.WriteBlock(b)
		require.NoError(t, err)
		assert.True(t, written, "genesis not written")

		stored, err := r.ReadBlock(sig)
		require.NoError(t, err)
		assert.Equal(t, b.Packed(), stored.Packed(), "block bytes")
		assert.Equal(t, a.key, stored.Author(), "author")

		// a genesis block starts a chain and an author tail
		tail, err := r.TailOf(a.key)
		require.NoError(t, err)
		require.NotNil(t, tail)
		assert.Equal(t, sig, *tail)

		chainID, err := r.ChainOf(sig)
		require.NoError(t, err)
		require.NotNil(t, chainID)
		assert.Equal(t, sig, *chainID, "genesis is its own chain")

		tip, err := r.FeedHeadOf(sig)
		require.NoError(t, err)
		require.NotNil(t, tip)
		assert.Equal(t, sig, *tip)

		// writing does not move heads
		head, err := r.HeadOf(a.key)
		require.NoError(t, err)
		assert.Nil(t, head, "head set by block write")

		// a child moves the chain identity
		child := appendBlock(t, f, a, "world")
		written, err = r.WriteBlock(child)
		require.NoError(t, err)
		assert.True(t, written, "child not written")

		chainID, err = r.ChainOf(sig)
		require.NoError(t, err)
		assert.Nil(t, chainID, "chain identity left on parent")

		chainID, err = r.ChainOf(child.Signature())
		require.NoError(t, err)
		require.NotNil(t, chainID)
		assert.Equal(t, sig, *chainID)

		tip, err = r.FeedHeadOf(sig)
		require.NoError(t, err)
		require.NotNil(t, tip)
		assert.Equal(t, child.Signature(), *tip)

		handle.Close()
	}
}

func TestWriteAnonymousBlock(t *testing.T) {
	r, handle := newRepo(t, nil)
	defer handle.Close()

	a := newAuthor(t)
	b, err := block.New(a.private, nil, []byte("nobody"))
	require.NoError(t, err)

	anonymous, err := block.Unpack(block.PublicKey{}, b.Packed())
	require.NoError(t, err)

	written, err := r.WriteBlock(anonymous)
	assert.False(t, written, "anonymous block written")
	assert.Equal(t, fault.ErrAnonymousBlockNotSupported, err, "wrong error")

	f, err := block.NewFeed(anonymous)
	require.NoError(t, err)
	n, err := r.Merge(context.Background(), f, nil)
	assert.Equal(t, fault.ErrAnonymousBlockNotSupported, err, "wrong error")
	assert.Equal(t, 0, n)
}

func TestWriteBlockWithoutChainIdentity(t *testing.T) {
	r, handle := newRepo(t, nil)
	defer handle.Close()

	a := newAuthor(t)
	f := emptyFeed(t)
	appendBlock(t, f, a, "0")
	b := appendBlock(t, f, a, "1")

	written, err := r.WriteBlock(b)
	assert.False(t, written, "orphan block written")
	assert.Equal(t, fault.ErrMissingChainIdentity, err, "wrong error")

	found, err := r.HasBlock(b.Signature())
	require.NoError(t, err)
	assert.False(t, found, "block written without its tags")
}

func TestWriteStoredBlock(t *testing.T) {
	r, handle := newRepo(t, nil)
	defer handle.Close()

	a := newAuthor(t)
	f := emptyFeed(t)
	appendBlock(t, f, a, "0")
	appendBlock(t, f, a, "1")
	appendBlock(t, f, a, "2")
	assert.Equal(t, 3, merge(t, r, f))

	before := snapshot(t, r)

	for _, b := range f.Blocks() {
		written, err := r.WriteBlock(b)
		require.NoError(t, err)
		assert.False(t, written, "stored block written again: %s", b.Signature())
	}

	assert.Equal(t, before, snapshot(t, r), "tags changed")

	feeds, err := r.ListFeeds()
	require.NoError(t, err)
	require.Equal(t, 1, len(feeds), "chain tips")
	assert.Equal(t, f.First().Signature(), feeds[0].Value, "chain identity")

	tip, err := r.FeedHeadOf(f.First().Signature())
	require.NoError(t, err)
	require.NotNil(t, tip)
	assert.Equal(t, f.Last().Signature(), *tip, "chain tip")
}

func TestReadBlockCache(t *testing.T) {
	for _, expiry := range []time.Duration{0, -1} {
		r, handle := newRepo(t, &repository.Options{CacheExpiry: expiry})

		a := newAuthor(t)
		f := emptyFeed(t)
		b := appendBlock(t, f, a, "cached")
		sig := b.Signature()
		assert.Equal(t, 1, merge(t, r, f))

		// replace the stored record with one whose payload no longer
		// matches the signature
		record := append(a.key[:], b.Packed()...)
		record[block.PublicKeySize+block.SignatureSize+1] ^= 0xff
		require.NoError(t, handle.Put(storage.Key(storage.Block, sig[:]), record))

		stored, err := r.ReadBlock(sig)
		if expiry < 0 {
			assert.Equal(t, fault.ErrInvalidSignature, err, "uncached read not verified")
			assert.Nil(t, stored)
		} else {
			require.NoError(t, err, "cached read")
			assert.Equal(t, b.Packed(), stored.Packed(), "block bytes")
			assert.Equal(t, a.key, stored.Author(), "author")
		}

		handle.Close()
	}
}

func TestRegistry(t *testing.T) {
	r, handle := newRepo(t, nil)
	defer handle.Close()

	_, err := r.ReadReg([]byte("peer"))
	assert.Equal(t, fault.ErrNotFound, err, "wrong error")

	require.NoError(t, r.WriteReg([]byte("peer"), []byte("value one")))
	require.NoError(t, r.WriteReg([]byte("peer"), []byte("value two")))

	value, err := r.ReadReg([]byte("peer"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value two"), value)

	// not visible as any tag
	s := snapshot(t, r)
	for name, tags := range s {
		assert.Equal(t, 0, len(tags), "registry leaked into: %s", name)
	}
}

func TestListTagsOrder(t *testing.T) {
	r, handle := newRepo(t, nil)
	defer handle.Close()

	authors := []author{newAuthor(t), newAuthor(t), newAuthor(t)}
	for _, a := range authors {
		f := emptyFeed(t)
		appendBlock(t, f, a, "genesis")
		assert.Equal(t, 1, merge(t, r, f))
	}

	heads, err := r.ListHeads()
	require.NoError(t, err)
	require.Equal(t, 3, len(heads))
	for i := 1; i < len(heads); i += 1 {
		assert.True(t, string(heads[i-1].Key) < string(heads[i].Key), "heads out of order")
	}
	for _, tag := range heads {
		assert.Equal(t, block.PublicKeySize, len(tag.Key), "head key length")
	}

	feeds, err := r.ListFeeds()
	require.NoError(t, err)
	require.Equal(t, 3, len(feeds))
	for _, tag := range feeds {
		assert.Equal(t, block.SignatureSize, len(tag.Key), "feed key length")
	}
}
