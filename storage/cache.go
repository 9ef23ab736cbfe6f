// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Cache - recently used records keyed by their database key
type Cache interface {
	Get(string) ([]byte, bool)
	Set(string, []byte)
	Remove(string)
	Clear()
}

const (
	DefaultCacheExpiration = 2 * time.Minute
	defaultCleanupInterval = 1 * time.Minute
)

type dbCache struct {
	cache      *cache.Cache
	expiration time.Duration
}

// NewCache - records expire after the given duration
// zero selects DefaultCacheExpiration
func NewCache(expiration time.Duration) Cache {
	if expiration <= 0 {
		expiration = DefaultCacheExpiration
	}
	return &dbCache{
		cache:      cache.New(expiration, defaultCleanupInterval),
		expiration: expiration,
	}
}

func (c *dbCache) Get(key string) ([]byte, bool) {
	obj, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	return obj.([]byte), true
}

func (c *dbCache) Set(key string, value []byte) {
	c.cache.Set(key, value, c.expiration)
}

func (c *dbCache) Remove(key string) {
	c.cache.Delete(key)
}

func (c *dbCache) Clear() {
	c.cache.Flush()
}
