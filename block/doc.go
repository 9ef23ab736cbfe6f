// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block - signed blocks and the feeds they are chained into
//
// each block carries the signature of its parent, a payload and its
// own ed25519 signature over both, so that a sequence of blocks forms
// a hash chain that can be verified from any tip back to the genesis
// block (the one with no parent)
//
// packed format (the author key is kept separately):
//
//   parent signature  64 bytes, all zero for a genesis block
//   payload length    varint64
//   payload           length bytes
//   signature         64 bytes over all of the above
package block
