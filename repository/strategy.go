// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package repository

import (
	"context"

	"github.com/bitmark-inc/feedstore/block"
)

// MergeStrategy - decides whether a block that does not simply extend
// the current head may become the new head
type MergeStrategy interface {
	Evaluate(ctx context.Context, b *block.Block, repo Repository) (bool, error)
}

// StrategyFunc - adapter to use a plain function as a MergeStrategy
type StrategyFunc func(ctx context.Context, b *block.Block, repo Repository) (bool, error)

// Evaluate - call the function
func (f StrategyFunc) Evaluate(ctx context.Context, b *block.Block, repo Repository) (bool, error) {
	return f(ctx, b, repo)
}

// AcceptAll - strategy that allows any author to extend any chain
var AcceptAll MergeStrategy = StrategyFunc(func(context.Context, *block.Block, Repository) (bool, error) {
	return true, nil
})
