// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package repository - persistent store of signed block feeds
//
// blocks are kept by signature and a set of tags is maintained
// alongside them:
//
//   HEAD        owner key        -> tip of the owner's chain
//   TAIL        author key       -> genesis block written by the author
//   LATEST      author key       -> last block written by the author
//   CHAIN_TAIL  tip signature    -> chain identity (genesis signature)
//   CHAIN_HEAD  chain identity   -> tip signature
//   REG         application data, never touched by merge or rollback
//
// every block write, head bump and rollback is a single atomic batch
// so readers never see a half updated tag set.  Merge and Rollback
// must be serialised by the caller.
package repository
