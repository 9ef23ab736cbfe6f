// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package repository

import (
	"github.com/bitmark-inc/feedstore/block"
	"github.com/bitmark-inc/feedstore/fault"
)

// ChainIterator - walks backward from a block to its genesis
//
// single pass, create a new one for each traversal
type ChainIterator struct {
	repo    *Repo
	next    block.Signature
	current *block.Block
	started bool
	done    bool
	err     error
}

// ChainLoad - iterate from sig back to genesis inclusive
//
// an absent starting block yields nothing, a missing parent part way
// down stops with fault.ErrParentNotFound
func (r *Repo) ChainLoad(sig block.Signature) *ChainIterator {
	return &ChainIterator{
		repo: r,
		next: sig,
	}
}

// Next - advance to the next older block
func (it *ChainIterator) Next() bool {
	if it.done {
		return false
	}

	b, err := it.repo.ReadBlock(it.next)
	if fault.ErrNotFound == err {
		if it.started {
			err = fault.ErrParentNotFound
		} else {
			err = nil
		}
		it.stop(err)
		return false
	}
	it.started = true
	if nil != err {
		it.stop(err)
		return false
	}

	it.current = b
	if b.IsGenesis() {
		it.done = true
	} else {
		it.next = b.ParentSignature()
	}
	return true
}

func (it *ChainIterator) stop(err error) {
	it.current = nil
	it.done = true
	it.err = err
}

// Block - the block at the current position
func (it *ChainIterator) Block() *block.Block {
	return it.current
}

// Err - the error that ended the walk, if any
func (it *ChainIterator) Err() error {
	return it.err
}
