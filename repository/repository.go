// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package repository

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/feedstore/block"
	"github.com/bitmark-inc/feedstore/fault"
	"github.com/bitmark-inc/feedstore/storage"
)

const logTag = "repository"

// Repository - read access given to merge strategies and exporters
type Repository interface {
	AllowDetached() bool

	ReadBlock(block.Signature) (*block.Block, error)
	HasBlock(block.Signature) (bool, error)
	ChainLoad(block.Signature) *ChainIterator

	HeadOf(block.PublicKey) (*block.Signature, error)
	TailOf(block.PublicKey) (*block.Signature, error)
	LatestOf(block.PublicKey) (*block.Signature, error)
	ChainOf(block.Signature) (*block.Signature, error)
	FeedHeadOf(block.Signature) (*block.Signature, error)
	OwnerOf(block.Signature) (*block.PublicKey, error)

	LoadHead(block.PublicKey, Visitor) (*block.Feed, error)
	LoadLatest(block.PublicKey, Visitor) (*block.Feed, error)
	LoadFeed(block.Signature, Visitor) (*block.Feed, error)
	ResolveFeed(block.Signature, Visitor) (*block.Feed, error)

	ListHeads() ([]Tag, error)
	ListTails() ([]Tag, error)
	ListLatest() ([]Tag, error)
	ListFeeds() ([]Tag, error)
	ListFeedHeads() ([]Tag, error)

	ReadReg([]byte) ([]byte, error)
}

// Options - settings for New, the zero value is usable
type Options struct {
	// track chains by identity so one author may own several
	AllowDetached bool

	// consulted in order after any strategy given to Merge
	Strategies []MergeStrategy

	// lifetime of cached block records, zero for the default
	// and negative to disable the cache
	CacheExpiry time.Duration

	// log channel, created with the "repository" tag if nil
	Log *logger.L
}

// Repo - a block repository over a storage handle
type Repo struct {
	log           *logger.L
	handle        storage.Handle
	pools         *storage.Pools
	cache         storage.Cache
	allowDetached bool
	strategies    []MergeStrategy
}

// New - create a repository on an open database
func New(handle storage.Handle, options *Options) (*Repo, error) {
	if nil == options {
		options = &Options{}
	}

	pools, err := storage.NewPools(handle)
	if nil != err {
		return nil, err
	}

	for _, s := range options.Strategies {
		if nil == s {
			return nil, fault.ErrNilStrategy
		}
	}

	log := options.Log
	if nil == log {
		log = logger.New(logTag)
	}

	r := &Repo{
		log:           log,
		handle:        handle,
		pools:         pools,
		allowDetached: options.AllowDetached,
		strategies:    append([]MergeStrategy(nil), options.Strategies...),
	}
	if options.CacheExpiry >= 0 {
		r.cache = storage.NewCache(options.CacheExpiry)
	}

	log.Infof("detached: %t  strategies: %d", r.allowDetached, len(r.strategies))
	return r, nil
}

// AllowDetached - true when chains are tracked by identity
func (r *Repo) AllowDetached() bool {
	return r.allowDetached
}
