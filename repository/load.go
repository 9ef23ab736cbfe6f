// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package repository

import (
	"github.com/bitmark-inc/feedstore/block"
	"github.com/bitmark-inc/feedstore/fault"
)

// Action - decision returned by a Visitor for each loaded block
type Action int

// visitor actions
const (
	Continue   Action = iota // keep the block and carry on
	Abort                    // drop the block and stop
	AbortAfter               // keep the block and stop
)

// Visitor - called for each block while loading from tip to genesis
type Visitor func(b *block.Block) Action

// Limit - visitor that loads at most n blocks
//
// the count is consumed as blocks are visited so the visitor is single
// use, create a new one for each load
func Limit(n int) Visitor {
	if n <= 0 {
		return nil
	}
	return func(*block.Block) Action {
		n -= 1
		if n <= 0 {
			return AbortAfter
		}
		return Continue
	}
}

// LoadHead - load the chain owned by a key, nil if none
func (r *Repo) LoadHead(owner block.PublicKey, visit Visitor) (*block.Feed, error) {
	head, err := r.HeadOf(owner)
	if nil != err || nil == head {
		return nil, err
	}
	return r.LoadFeed(*head, visit)
}

// LoadLatest - load backward from the last block an author wrote, nil if none
func (r *Repo) LoadLatest(author block.PublicKey, visit Visitor) (*block.Feed, error) {
	latest, err := r.LatestOf(author)
	if nil != err || nil == latest {
		return nil, err
	}
	return r.LoadFeed(*latest, visit)
}

// LoadFeed - load backward from tip until genesis or the visitor
// stops, nil if no blocks were loaded
func (r *Repo) LoadFeed(tip block.Signature, visit Visitor) (*block.Feed, error) {
	pending := make([]*block.Block, 0, 16)

	it := r.ChainLoad(tip)
loading:
	for it.Next() {
		b := it.Block()

		action := Continue
		if nil != visit {
			action = visit(b)
		}

		switch action {
		case Abort:
			break loading
		case AbortAfter:
			pending = append(pending, b)
			break loading
		default:
			pending = append(pending, b)
		}
	}
	if err := it.Err(); nil != err {
		return nil, err
	}

	if 0 == len(pending) {
		return nil, nil
	}

	// collected newest first
	for i, j := 0, len(pending)-1; i < j; i, j = i+1, j-1 {
		pending[i], pending[j] = pending[j], pending[i]
	}
	return block.NewFeed(pending...)
}

// ResolveFeed - load the whole chain that sig belongs to
func (r *Repo) ResolveFeed(sig block.Signature, visit Visitor) (*block.Feed, error) {

	// sig is a tip
	chainID, err := r.ChainOf(sig)
	if nil != err {
		return nil, err
	}
	if nil != chainID {
		return r.LoadFeed(sig, visit)
	}

	// walk down to genesis and find the tip from there
	var tip *block.Signature
	it := r.ChainLoad(sig)
	for it.Next() {
		b := it.Block()
		if !b.IsGenesis() {
			continue
		}
		tip, err = r.FeedHeadOf(b.Signature())
		if nil != err {
			return nil, err
		}
	}
	if err := it.Err(); nil != err {
		return nil, err
	}
	if nil == tip {
		return nil, fault.ErrFeedNotFound
	}
	return r.LoadFeed(*tip, visit)
}
