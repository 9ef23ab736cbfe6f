// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package graph - Graphviz diagram of the contents of a repository
//
// all tags are drawn as nodes pointing at their blocks and every chain
// reachable from a head or a live chain tip is drawn block by block.
// Chains with no head tag are shown as orphans.  Read only.
package graph
