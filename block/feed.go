// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/feedstore/fault"
)

// Feed - an ordered run of blocks, each the parent of the next
type Feed struct {
	blocks []*Block
}

// NewFeed - build a feed, checking that each block follows the one
// before it
func NewFeed(blocks ...*Block) (*Feed, error) {
	f := &Feed{
		blocks: make([]*Block, 0, len(blocks)),
	}
	for _, b := range blocks {
		if err := f.AppendBlock(b); nil != err {
			return nil, err
		}
	}
	return f, nil
}

// AppendBlock - add a block that must be the child of the current last
func (f *Feed) AppendBlock(b *Block) error {
	if nil == b {
		return fault.ErrBrokenFeed
	}
	if n := len(f.blocks); n > 0 {
		if b.IsGenesis() || f.blocks[n-1].signature != b.parent {
			return fault.ErrBrokenFeed
		}
	}
	f.blocks = append(f.blocks, b)
	return nil
}

// Append - sign a new block on top of the feed
func (f *Feed) Append(privateKey ed25519.PrivateKey, payload []byte) (*Block, error) {
	var parent *Signature
	if last := f.Last(); nil != last {
		parent = &last.signature
	}
	b, err := New(privateKey, parent, payload)
	if nil != err {
		return nil, err
	}
	f.blocks = append(f.blocks, b)
	return b, nil
}

// Len - number of blocks
func (f *Feed) Len() int {
	if nil == f {
		return 0
	}
	return len(f.blocks)
}

// First - oldest block or nil if empty
func (f *Feed) First() *Block {
	return f.Get(0)
}

// Last - newest block or nil if empty
func (f *Feed) Last() *Block {
	return f.Get(-1)
}

// Get - block at index, negative values count back from the end
func (f *Feed) Get(i int) *Block {
	n := f.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil
	}
	return f.blocks[i]
}

// Slice - sub-feed of blocks start..end-1, negative values count back
// from the end and the range is clipped to the feed
func (f *Feed) Slice(start int, end int) *Feed {
	n := f.Len()
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return &Feed{}
	}
	blocks := make([]*Block, end-start)
	copy(blocks, f.blocks[start:end])
	return &Feed{blocks: blocks}
}

// Blocks - copy of the block list, oldest first
func (f *Feed) Blocks() []*Block {
	blocks := make([]*Block, f.Len())
	if 0 != len(blocks) {
		copy(blocks, f.blocks)
	}
	return blocks
}

