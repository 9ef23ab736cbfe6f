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

// Tag - a listed pointer, key is a public key or a signature
// depending on the namespace
type Tag struct {
	Key   []byte
	Value block.Signature
}

// read a signature valued tag, nil if not set
func getTag(p *storage.PoolHandle, key []byte) (*block.Signature, error) {
	value, err := p.Get(key)
	if fault.ErrNotFound == err {
		return nil, nil
	} else if nil != err {
		return nil, err
	}

	var sig block.Signature
	if err := block.SignatureFromBytes(&sig, value); nil != err {
		return nil, err
	}
	return &sig, nil
}

// HeadOf - tip of the chain owned by a key
func (r *Repo) HeadOf(owner block.PublicKey) (*block.Signature, error) {
	return getTag(r.pools.Heads, owner[:])
}

// TailOf - genesis block written by an author
func (r *Repo) TailOf(author block.PublicKey) (*block.Signature, error) {
	return getTag(r.pools.Tails, author[:])
}

// LatestOf - last block written by an author on any chain
func (r *Repo) LatestOf(author block.PublicKey) (*block.Signature, error) {
	return getTag(r.pools.Latest, author[:])
}

// ChainOf - identity of the chain whose tip is sig
func (r *Repo) ChainOf(tip block.Signature) (*block.Signature, error) {
	return getTag(r.pools.ChainTails, tip[:])
}

// FeedHeadOf - tip of the chain with the given identity
func (r *Repo) FeedHeadOf(chainID block.Signature) (*block.Signature, error) {
	return getTag(r.pools.ChainHeads, chainID[:])
}

// ListHeads - all HEAD tags in key order
func (r *Repo) ListHeads() ([]Tag, error) {
	return listTags(r.pools.Heads)
}

// ListTails - all TAIL tags in key order
func (r *Repo) ListTails() ([]Tag, error) {
	return listTags(r.pools.Tails)
}

// ListLatest - all LATEST tags in key order
func (r *Repo) ListLatest() ([]Tag, error) {
	return listTags(r.pools.Latest)
}

// ListFeeds - one entry per live chain: tip -> chain identity
func (r *Repo) ListFeeds() ([]Tag, error) {
	return listTags(r.pools.ChainTails)
}

// ListFeedHeads - one entry per live chain: chain identity -> tip
func (r *Repo) ListFeedHeads() ([]Tag, error) {
	return listTags(r.pools.ChainHeads)
}

func listTags(p *storage.PoolHandle) ([]Tag, error) {
	tags := make([]Tag, 0)
	err := p.NewFetchCursor().Map(func(key []byte, value []byte) error {
		tag := Tag{Key: key}
		if err := block.SignatureFromBytes(&tag.Value, value); nil != err {
			return err
		}
		tags = append(tags, tag)
		return nil
	})
	if nil != err {
		return nil, err
	}
	return tags, nil
}

// WriteReg - store application data
func (r *Repo) WriteReg(key []byte, value []byte) error {
	return r.pools.Registry.Put(key, value)
}

// ReadReg - fetch application data, fault.ErrNotFound if absent
func (r *Repo) ReadReg(key []byte) ([]byte, error) {
	return r.pools.Registry.Get(key)
}
