// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk feed store
//
// The store is a single ordered key/value database split into a
// series of namespaces.  Each namespace is a single prefix byte
// prepended to the identifier so that a range scan over one
// namespace never touches another.
//
// Notes:
// 1. each namespace has a single byte prefix (0x00 .. 0x06)
// 2. ++          = concatenation of byte data
// 3. signature   = ed25519 block signature (64 bytes)
// 4. author      = ed25519 public key (32 bytes)
// 5. chain id    = signature of the genesis block of a chain
//
// Tags:
//
//   0x00 ++ author        - HEAD: current tip of the chain owned by
//                           the author of its genesis block
//                           data: signature
//   0x02 ++ author        - TAIL: genesis of the author's chain
//                           data: signature
//   0x03 ++ author        - LATEST: last block written by author
//                           data: signature
//   0x05 ++ signature     - CHAIN_TAIL: live chain tip -> chain id
//                           data: chain id
//   0x06 ++ chain id      - CHAIN_HEAD: chain id -> live chain tip
//                           data: signature
//
// Blocks:
//
//   0x01 ++ signature     - BLOCK: block store
//                           data: author ++ packed block
//
// Registry:
//
//   0x04 ++ key           - REG: opaque application data
//
// Database version:
//
//   0xff ++ "VERSION"     - big endian uint32
package storage
