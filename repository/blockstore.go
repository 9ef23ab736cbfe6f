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

// stored record: author key ++ packed block
func packRecord(b *block.Block) []byte {
	author := b.Author()
	packed := b.Packed()
	record := make([]byte, 0, len(author)+len(packed))
	record = append(record, author[:]...)
	return append(record, packed...)
}

// cached records were verified before they were cached
func unpackRecord(record []byte, verify bool) (*block.Block, error) {
	if len(record) < block.PublicKeySize {
		return nil, fault.ErrTruncatedBlock
	}
	var author block.PublicKey
	copy(author[:], record[:block.PublicKeySize])
	if verify {
		return block.Unpack(author, record[block.PublicKeySize:])
	}
	return block.UnpackUnverified(author, record[block.PublicKeySize:])
}

// WriteBlock - store a block and update the chain identity tags
//
// returns false without touching the database if the block is
// already stored
func (r *Repo) WriteBlock(b *block.Block) (bool, error) {
	found, err := r.HasBlock(b.Signature())
	if nil != err {
		return false, err
	}
	if found {
		return false, nil
	}

	trx := storage.NewTransaction(r.handle)
	if err := r.writeBlock(trx, b); nil != err {
		trx.Abort()
		return false, err
	}
	if err := trx.Commit(); nil != err {
		return false, err
	}
	r.cacheRecord(b)
	return true, nil
}

// queue the block and its tags onto a transaction
func (r *Repo) writeBlock(trx *storage.Transaction, b *block.Block) error {
	if b.IsAnonymous() {
		return fault.ErrAnonymousBlockNotSupported
	}

	sig := b.Signature()
	trx.Put(r.pools.Blocks, sig[:], packRecord(b))

	if b.IsGenesis() {
		author := b.Author()
		trx.Put(r.pools.Tails, author[:], sig[:])
		trx.Put(r.pools.ChainTails, sig[:], sig[:])
		trx.Put(r.pools.ChainHeads, sig[:], sig[:])
		return nil
	}

	// move the chain identity from the parent to this block
	parent := b.ParentSignature()
	chainID, err := r.ChainOf(parent)
	if nil != err {
		return err
	}
	if nil == chainID {
		r.log.Criticalf("block: %s  parent: %s has no chain identity", sig, parent)
		return fault.ErrMissingChainIdentity
	}
	trx.Delete(r.pools.ChainTails, parent[:])
	trx.Put(r.pools.ChainTails, sig[:], chainID[:])
	trx.Put(r.pools.ChainHeads, chainID[:], sig[:])
	return nil
}

// ReadBlock - fetch a block by signature, fault.ErrNotFound if absent
func (r *Repo) ReadBlock(sig block.Signature) (*block.Block, error) {
	if nil != r.cache {
		if record, ok := r.cache.Get(string(sig[:])); ok {
			return unpackRecord(record, false)
		}
	}

	record, err := r.pools.Blocks.Get(sig[:])
	if nil != err {
		return nil, err
	}
	b, err := unpackRecord(record, true)
	if nil != err {
		r.log.Errorf("block: %s  unpack error: %s", sig, err)
		return nil, err
	}
	if nil != r.cache {
		r.cache.Set(string(sig[:]), record)
	}
	return b, nil
}

// HasBlock - check if a block is stored
//
// blocks are small so this is a full read
func (r *Repo) HasBlock(sig block.Signature) (bool, error) {
	_, err := r.ReadBlock(sig)
	if fault.ErrNotFound == err {
		return false, nil
	}
	return nil == err, err
}

func (r *Repo) cacheRecord(b *block.Block) {
	if nil != r.cache {
		sig := b.Signature()
		r.cache.Set(string(sig[:]), packRecord(b))
	}
}

func (r *Repo) uncache(sig block.Signature) {
	if nil != r.cache {
		r.cache.Remove(string(sig[:]))
	}
}
