// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package repository

import (
	"github.com/bitmark-inc/feedstore/block"
	"github.com/bitmark-inc/feedstore/fault"
	"github.com/bitmark-inc/feedstore/storage"
)

// Rollback - remove blocks from the top of a chain down to, but not
// including, stopAt; with a nil stopAt the whole chain is removed
//
// head is the owner's public key, or in detached mode the signature
// of any block of the chain.  Returns the removed blocks, or nil if
// there was nothing to remove
//
// LATEST tags that pointed at a removed block are deleted rather than
// moved to an older block of the same author
func (r *Repo) Rollback(head []byte, stopAt *block.Signature) (*block.Feed, error) {
	stopHit := false
	visit := func(b *block.Block) Action {
		if nil != stopAt && b.Signature() == *stopAt {
			stopHit = true
			return Abort
		}
		return Continue
	}

	var owner block.PublicKey
	var evicted *block.Feed
	var err error
	if r.allowDetached {
		var sig block.Signature
		if err := block.SignatureFromBytes(&sig, head); nil != err {
			return nil, err
		}
		evicted, err = r.ResolveFeed(sig, visit)
	} else {
		if err := block.PublicKeyFromBytes(&owner, head); nil != err {
			return nil, err
		}
		evicted, err = r.LoadHead(owner, visit)
	}
	if nil != err {
		return nil, err
	}
	if nil != stopAt && !stopHit {
		return nil, fault.ErrReferenceNotFound
	}
	if nil == evicted {
		return nil, nil
	}

	trx := storage.NewTransaction(r.handle)

	// blocks newest first, noting authors whose latest tag goes with them
	latest := make(map[block.PublicKey]*block.Signature)
	purgeLatest := make([]block.PublicKey, 0)
	for i := evicted.Len() - 1; i >= 0; i -= 1 {
		b := evicted.Get(i)
		sig := b.Signature()
		author := b.Author()

		tag, ok := latest[author]
		if !ok {
			tag, err = r.LatestOf(author)
			if nil != err {
				trx.Abort()
				return nil, err
			}
			latest[author] = tag
		}
		if nil != tag && *tag == sig {
			purgeLatest = append(purgeLatest, author)
		}
		trx.Delete(r.pools.Blocks, sig[:])
	}

	first := evicted.First()
	last := evicted.Last()
	firstAuthor := first.Author()
	lastSig := last.Signature()
	purged := first.IsGenesis()

	// tail tag
	if purged && !r.allowDetached {
		trx.Delete(r.pools.Tails, owner[:])
	} else if purged {
		tail, err := r.TailOf(firstAuthor)
		if nil != err {
			trx.Abort()
			return nil, err
		}
		if nil != tail && *tail == first.Signature() {
			trx.Delete(r.pools.Tails, firstAuthor[:])
		}
	}

	// head tag
	newTip := first.ParentSignature()
	if !r.allowDetached {
		trx.Delete(r.pools.Heads, owner[:])
		if !purged {
			trx.Put(r.pools.Heads, owner[:], newTip[:])
		}
	} else {
		current, err := r.HeadOf(firstAuthor)
		if nil != err {
			trx.Abort()
			return nil, err
		}
		if nil != current && *current == lastSig {
			trx.Delete(r.pools.Heads, firstAuthor[:])
		}
	}

	// chain identity
	chainID, err := r.ChainOf(lastSig)
	if nil != err {
		trx.Abort()
		return nil, err
	}
	trx.Delete(r.pools.ChainTails, lastSig[:])
	if nil != chainID {
		trx.Delete(r.pools.ChainHeads, chainID[:])
		if !purged {
			trx.Put(r.pools.ChainTails, newTip[:], chainID[:])
			trx.Put(r.pools.ChainHeads, chainID[:], newTip[:])
		}
	}

	for _, author := range purgeLatest {
		trx.Delete(r.pools.Latest, author[:])
	}

	if err := trx.Commit(); nil != err {
		return nil, err
	}

	for _, b := range evicted.Blocks() {
		r.uncache(b.Signature())
	}

	r.log.Infof("rollback: %x  evicted: %d  purged: %t", head, evicted.Len(), purged)
	return evicted, nil
}
