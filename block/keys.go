// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/feedstore/fault"
)

// GenerateKey - create a new random author key pair
func GenerateKey() (PublicKey, ed25519.PrivateKey, error) {
	var key PublicKey
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return key, nil, err
	}
	copy(key[:], publicKey)
	return key, privateKey, nil
}

// PublicKeyOf - the author key of a private key
func PublicKeyOf(privateKey ed25519.PrivateKey) (PublicKey, error) {
	var key PublicKey
	if ed25519.PrivateKeySize != len(privateKey) {
		return key, fault.ErrKeyLength
	}
	err := PublicKeyFromBytes(&key, privateKey.Public().(ed25519.PublicKey))
	return key, err
}

// PrivateKeyFromHex - decode a hex private key, either the 32 byte
// seed or the full 64 byte key
func PrivateKeyFromHex(s string) (ed25519.PrivateKey, error) {
	buffer, err := hex.DecodeString(s)
	if nil != err {
		return nil, err
	}
	switch len(buffer) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(buffer), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(buffer), nil
	default:
		return nil, fault.ErrKeyLength
	}
}
