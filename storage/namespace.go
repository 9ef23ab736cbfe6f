// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
)

// Namespace - the one byte discriminant prepended to every key
type Namespace byte

// all namespaces, the values are part of the on-disk format
const (
	Head      Namespace = 0
	Block     Namespace = 1
	Tail      Namespace = 2
	Latest    Namespace = 3
	Registry  Namespace = 4
	ChainTail Namespace = 5
	ChainHead Namespace = 6
)

var namespaceNames = map[Namespace]string{
	Head:      "HEAD",
	Block:     "BLOCK",
	Tail:      "TAIL",
	Latest:    "LATEST",
	Registry:  "REG",
	ChainTail: "CHAIN_TAIL",
	ChainHead: "CHAIN_HEAD",
}

// Key - encode an identifier into the namespace
func Key(ns Namespace, id []byte) []byte {
	key := make([]byte, 1, len(id)+1)
	key[0] = byte(ns)
	return append(key, id...)
}

// Range - the key range covering the whole namespace
func (ns Namespace) Range() *Range {
	return &Range{
		Start: []byte{byte(ns)},     // included in the range
		Limit: []byte{byte(ns) + 1}, // excluded from the range
	}
}

// Valid - true for one of the defined namespaces
func (ns Namespace) Valid() bool {
	_, ok := namespaceNames[ns]
	return ok
}

func (ns Namespace) String() string {
	if s, ok := namespaceNames[ns]; ok {
		return s
	}
	return fmt.Sprintf("NS(%d)", byte(ns))
}

// ParseNamespace - accept either the name or the decimal value
func ParseNamespace(s string) (Namespace, bool) {
	for ns, name := range namespaceNames {
		if name == s || fmt.Sprintf("%d", byte(ns)) == s {
			return ns, true
		}
	}
	return 0, false
}
