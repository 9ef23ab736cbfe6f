// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package graph

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"strings"
	"text/template"

	"github.com/bitmark-inc/feedstore/block"
	"github.com/bitmark-inc/feedstore/repository"
	"github.com/bitmark-inc/feedstore/templates"
)

// number of bytes of an identifier shown in node names
const shortIDSize = 4

// number of payload bytes in the default block label
const bodyPreviewSize = 8

// Colours - fill colours of each kind of node, empty selects the default
type Colours struct {
	Head        string
	Tail        string
	Latest      string
	Feed        string
	Block       string
	OrphanBlock string
}

// Options - diagram customisation, the zero value is usable
type Options struct {
	Colours    Colours
	BlockLabel func(b *block.Block) string // nil for id, author and payload preview
	Label      string                      // empty for repository statistics
}

// Stats - totals of the drawn chains
type Stats struct {
	Authors      int
	Feeds        int
	Blocks       int
	Bytes        int
	ContentBytes int
}

type node struct {
	ID    string
	Label string
	Color string
	Shape string
}

type edge struct {
	From string
	To   string
	Back bool
}

type diagram struct {
	Label string
	Nodes []node
	Edges []edge
}

var defaultColours = Colours{
	Head:        "lightblue3",
	Tail:        "sienna",
	Latest:      "seagreen",
	Feed:        "mediumvioletred",
	Block:       "seashell",
	OrphanBlock: "gray80",
}

// escape a DOT string literal
var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

var graphTemplate = template.Must(template.New("graph").Funcs(template.FuncMap{
	"quote": func(s string) string {
		return `"` + quoter.Replace(s) + `"`
	},
}).Parse(templates.GraphTemplate))

func hx8(b []byte) string {
	if len(b) > shortIDSize {
		b = b[:shortIDSize]
	}
	return hex.EncodeToString(b)
}

// DefaultBlockLabel - short id, author and start of the payload
func DefaultBlockLabel(b *block.Block) string {
	sig := b.Signature()
	author := b.Author()
	body := b.Payload()
	if len(body) > bodyPreviewSize {
		body = body[:bodyPreviewSize]
	}
	return fmt.Sprintf("ID: %s\nKEY: %s\nBDY: %s", hx8(sig[:]), hx8(author[:]), strings.ToValidUTF8(string(body), ""))
}

func pick(value string, def string) string {
	if "" == value {
		return def
	}
	return value
}

// Dot - render the repository as a Graphviz digraph
func Dot(repo repository.Repository, options *Options) (string, Stats, error) {
	if nil == options {
		options = &Options{}
	}
	colours := options.Colours
	blockLabel := options.BlockLabel
	if nil == blockLabel {
		blockLabel = DefaultBlockLabel
	}

	stats := Stats{}
	d := diagram{}

	heads, err := repo.ListHeads()
	if nil != err {
		return "", stats, err
	}
	tails, err := repo.ListTails()
	if nil != err {
		return "", stats, err
	}
	latest, err := repo.ListLatest()
	if nil != err {
		return "", stats, err
	}
	feeds, err := repo.ListFeeds()
	if nil != err {
		return "", stats, err
	}
	feedHeads, err := repo.ListFeedHeads()
	if nil != err {
		return "", stats, err
	}

	chains := make([]block.Signature, 0, len(heads)+len(feeds))
	seenChain := make(map[block.Signature]bool)
	orphaned := make(map[block.Signature]bool)

	for _, h := range heads {
		id := hx8(h.Key)
		d.Nodes = append(d.Nodes, node{
			ID:    "H" + id,
			Label: "Head\n" + id,
			Color: pick(colours.Head, defaultColours.Head),
		})
		d.Edges = append(d.Edges, edge{From: "H" + id, To: "B" + hx8(h.Value[:])})
		if !seenChain[h.Value] {
			seenChain[h.Value] = true
			chains = append(chains, h.Value)
		}
	}

	for _, t := range tails {
		id := hx8(t.Value[:])
		d.Nodes = append(d.Nodes, node{
			ID:    "T" + id,
			Label: "Tail\n" + hx8(t.Key),
			Color: pick(colours.Tail, defaultColours.Tail),
			Shape: "box",
		})
		// genesis links to tail for visual clarity
		d.Edges = append(d.Edges, edge{From: "B" + id, To: "T" + id, Back: true})
	}

	for _, l := range latest {
		id := hx8(l.Value[:])
		d.Nodes = append(d.Nodes, node{
			ID:    "L" + id,
			Label: "Latest\n" + hx8(l.Key),
			Color: pick(colours.Latest, defaultColours.Latest),
			Shape: "box",
		})
		d.Edges = append(d.Edges, edge{From: "L" + id, To: "B" + id})
	}

	for _, f := range feeds {
		id := hx8(f.Key)
		d.Nodes = append(d.Nodes, node{
			ID:    "F" + id,
			Label: "FeedTail\n" + hx8(f.Value[:]),
			Color: pick(colours.Feed, defaultColours.Feed),
			Shape: "box",
		})
		d.Edges = append(d.Edges, edge{From: "F" + id, To: "B" + id, Back: true})

		var tip block.Signature
		if err := block.SignatureFromBytes(&tip, f.Key); nil != err {
			return "", stats, err
		}
		if !seenChain[tip] {
			seenChain[tip] = true
			chains = append(chains, tip)
			orphaned[tip] = true
		}
	}

	for _, f := range feedHeads {
		id := hx8(f.Key)
		d.Nodes = append(d.Nodes, node{
			ID:    "FT" + id,
			Label: "FeedHead\n" + id,
			Color: pick(colours.Feed, defaultColours.Feed),
			Shape: "box",
		})
		d.Edges = append(d.Edges, edge{From: "FT" + id, To: "B" + hx8(f.Value[:])})
	}

	drawn := make(map[block.Signature]bool)
	for _, tip := range chains {
		stats.Feeds += 1
		colour := pick(colours.Block, defaultColours.Block)
		if orphaned[tip] {
			colour = pick(colours.OrphanBlock, defaultColours.OrphanBlock)
		}

		it := repo.ChainLoad(tip)
		for it.Next() {
			b := it.Block()
			sig := b.Signature()

			// chains share blocks below a guest write
			if drawn[sig] {
				break
			}
			drawn[sig] = true

			stats.Blocks += 1
			stats.Bytes += block.PublicKeySize + len(b.Packed())
			stats.ContentBytes += len(b.Payload())

			id := hx8(sig[:])
			d.Nodes = append(d.Nodes, node{
				ID:    "B" + id,
				Label: blockLabel(b),
				Color: colour,
				Shape: "square",
			})
			if !b.IsGenesis() {
				parent := b.ParentSignature()
				d.Edges = append(d.Edges, edge{From: "B" + id, To: "B" + hx8(parent[:])})
			}
		}
		if err := it.Err(); nil != err {
			return "", stats, err
		}
	}
	stats.Authors = len(latest)

	d.Label = options.Label
	if "" == d.Label {
		d.Label = fmt.Sprintf("[feedstore] Authors: %d Feeds: %d, Blocks: %d, Bytes: %d (%d)",
			stats.Authors, stats.Feeds, stats.Blocks, stats.Bytes, stats.ContentBytes)
	}

	buffer := &bytes.Buffer{}
	if err := graphTemplate.Execute(buffer, d); nil != err {
		return "", stats, err
	}
	return buffer.String(), stats, nil
}

// Dump - write the diagram to a file
func Dump(repo repository.Repository, filename string, options *Options) (Stats, error) {
	dot, stats, err := Dot(repo, options)
	if nil != err {
		return stats, err
	}
	return stats, ioutil.WriteFile(filename, []byte(dot), 0644)
}
