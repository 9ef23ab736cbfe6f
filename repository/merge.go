// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package repository

import (
	"context"

	"github.com/bitmark-inc/feedstore/block"
	"github.com/bitmark-inc/feedstore/fault"
	"github.com/bitmark-inc/feedstore/storage"
)

// Merge - add the blocks of a feed that extend a known chain
//
// the owner of the chain is the author of its genesis block.  Blocks
// already stored are skipped, each remaining block is accepted when:
//
//   1. the owner has no head yet
//   2. its parent is the owner's head
//   3. detached mode: it is a genesis block or its parent is stored
//   4. the owner's head is one of its ancestors
//   5. a merge strategy accepts it (inline first, then configured)
//
// merging stops at the first block that is not accepted; the number
// of blocks written is returned and anything short of the feed length
// means the rest was refused
func (r *Repo) Merge(ctx context.Context, feed *block.Feed, inline MergeStrategy) (int, error) {
	if 0 == feed.Len() {
		return 0, nil
	}

	owner, err := r.feedOwner(feed)
	if nil != err {
		return 0, err
	}

	written := 0
merging:
	for _, b := range feed.Blocks() {
		sig := b.Signature()

		found, err := r.HasBlock(sig)
		if nil != err {
			return written, err
		}
		if found {
			continue merging
		}

		accepted, reason, err := r.accept(ctx, owner, b, inline)
		if nil != err {
			return written, err
		}
		if !accepted {
			r.log.Warnf("owner: %s  block: %s  refused after: %d of %d", owner, sig, written, feed.Len())
			break merging
		}

		r.log.Debugf("owner: %s  block: %s  accepted: %s", owner, sig, reason)
		if err := r.bumpHead(owner, b); nil != err {
			return written, err
		}
		written += 1
	}

	r.log.Infof("owner: %s  merged: %d of %d", owner, written, feed.Len())
	return written, nil
}

// author of the genesis block of the chain the feed belongs to
func (r *Repo) feedOwner(feed *block.Feed) (block.PublicKey, error) {
	first := feed.First()
	if first.IsGenesis() {
		return first.Author(), nil
	}

	owner, err := r.OwnerOf(first.ParentSignature())
	if nil != err {
		return block.PublicKey{}, err
	}
	if nil == owner {
		return block.PublicKey{}, fault.ErrCannotMergeUnknownChain
	}
	return *owner, nil
}

// apply the acceptance rules in order
func (r *Repo) accept(ctx context.Context, owner block.PublicKey, b *block.Block, inline MergeStrategy) (bool, string, error) {
	head, err := r.HeadOf(owner)
	if nil != err {
		return false, "", err
	}

	if nil == head {
		return true, "new head", nil
	}

	parent := b.ParentSignature()
	if !b.IsGenesis() && *head == parent {
		return true, "fast forward", nil
	}

	parentFound := false
	if !b.IsGenesis() {
		parentFound, err = r.HasBlock(parent)
		if nil != err {
			return false, "", err
		}
	}

	if r.allowDetached && (b.IsGenesis() || parentFound) {
		return true, "detached", nil
	}

	// no common ancestor in the repository
	if !parentFound {
		return false, "", nil
	}

	it := r.ChainLoad(parent)
	for it.Next() {
		if it.Block().Signature() == *head {
			return true, "head is ancestor", nil
		}
	}
	if err := it.Err(); nil != err {
		return false, "", err
	}

	for _, strategy := range append([]MergeStrategy{inline}, r.strategies...) {
		if nil == strategy {
			continue
		}
		ok, err := strategy.Evaluate(ctx, b, r)
		if nil != err {
			return false, "", err
		}
		if ok {
			return true, "strategy", nil
		}
	}
	return false, "", nil
}

// store the block and move the owner's head and the author's latest
func (r *Repo) bumpHead(owner block.PublicKey, b *block.Block) error {
	sig := b.Signature()
	author := b.Author()

	trx := storage.NewTransaction(r.handle)
	if err := r.writeBlock(trx, b); nil != err {
		trx.Abort()
		return err
	}
	trx.Put(r.pools.Heads, owner[:], sig[:])
	trx.Put(r.pools.Latest, author[:], sig[:])
	if err := trx.Commit(); nil != err {
		return err
	}
	r.cacheRecord(b)
	return nil
}

// OwnerOf - author of the genesis block below sig
//
// nil if sig is not stored, fault.ErrOrphanedChain if the walk breaks
// before reaching a genesis block
func (r *Repo) OwnerOf(sig block.Signature) (*block.PublicKey, error) {
	n := 0
	it := r.ChainLoad(sig)
	for it.Next() {
		b := it.Block()
		if b.IsGenesis() {
			owner := b.Author()
			return &owner, nil
		}
		n += 1
	}
	err := it.Err()
	if fault.ErrParentNotFound == err && n > 0 {
		return nil, fault.ErrOrphanedChain
	}
	return nil, err
}
