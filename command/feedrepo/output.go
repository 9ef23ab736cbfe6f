// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitmark-inc/feedstore/block"
	"github.com/bitmark-inc/feedstore/repository"
)

type tagItem struct {
	Key   string          `json:"key"`
	Value block.Signature `json:"value"`
}

type blockItem struct {
	Signature block.Signature `json:"signature"`
	Parent    block.Signature `json:"parent"`
	Author    block.PublicKey `json:"author"`
	Genesis   bool            `json:"genesis"`
	Size      int             `json:"size"`
	Text      string          `json:"text,omitempty"`
	Payload   string          `json:"payload"`
}

type feedItem struct {
	Length int         `json:"length"`
	Blocks []blockItem `json:"blocks"`
}

func makeTagItems(tags []repository.Tag) []tagItem {
	items := make([]tagItem, len(tags))
	for i, t := range tags {
		items[i] = tagItem{
			Key:   hex.EncodeToString(t.Key),
			Value: t.Value,
		}
	}
	return items
}

func makeBlockItem(b *block.Block) blockItem {
	payload := b.Payload()
	item := blockItem{
		Signature: b.Signature(),
		Parent:    b.ParentSignature(),
		Author:    b.Author(),
		Genesis:   b.IsGenesis(),
		Size:      len(b.Packed()),
		Payload:   hex.EncodeToString(payload),
	}
	if utf8.Valid(payload) {
		item.Text = string(payload)
	}
	return item
}

func makeFeedItem(feed *block.Feed) feedItem {
	item := feedItem{
		Length: feed.Len(),
		Blocks: make([]blockItem, 0, feed.Len()),
	}
	for _, b := range feed.Blocks() {
		item.Blocks = append(item.Blocks, makeBlockItem(b))
	}
	return item
}

func printJson(title string, message interface{}) {
	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		exitwithstatus.Message("error: JSON marshal error: %s", err)
	}

	if "" == title {
		fmt.Printf("%s\n", b)
	} else {
		fmt.Printf("%s:\n%s\n", title, b)
	}
}
