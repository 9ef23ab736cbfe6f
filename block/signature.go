// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"encoding/hex"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/feedstore/fault"
)

// byte sizes of the fixed width identifiers
const (
	SignatureSize = ed25519.SignatureSize
	PublicKeySize = ed25519.PublicKeySize
)

// Signature - ed25519 signature of a block, also its identity
type Signature [SignatureSize]byte

// PublicKey - ed25519 public key of a block author
type PublicKey [PublicKeySize]byte

// IsZero - true for the all zero value, i.e. no signature
func (sig Signature) IsZero() bool {
	return sig == Signature{}
}

// Bytes - copy as a byte slice
func (sig Signature) Bytes() []byte {
	b := make([]byte, SignatureSize)
	copy(b, sig[:])
	return b
}

// convert a binary signature to hex string for use by the fmt package (for %s)
func (sig Signature) String() string {
	return hex.EncodeToString(sig[:])
}

// convert a binary signature to hex string for use by the fmt package (for %#v)
func (sig Signature) GoString() string {
	return "<Signature:" + hex.EncodeToString(sig[:]) + ">"
}

// MarshalText - convert signature to hex text
func (sig Signature) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(SignatureSize))
	hex.Encode(buffer, sig[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a signature
func (sig *Signature) UnmarshalText(s []byte) error {
	buffer := make([]byte, hex.DecodedLen(len(s)))
	byteCount, err := hex.Decode(buffer, s)
	if nil != err {
		return err
	}
	return SignatureFromBytes(sig, buffer[:byteCount])
}

// SignatureFromBytes - convert and validate a binary byte slice to a signature
func SignatureFromBytes(sig *Signature, buffer []byte) error {
	if SignatureSize != len(buffer) {
		return fault.ErrSignatureLength
	}
	copy(sig[:], buffer)
	return nil
}

// SignatureFromHex - convert and validate a hex string to a signature
func SignatureFromHex(s string) (Signature, error) {
	var sig Signature
	err := sig.UnmarshalText([]byte(s))
	return sig, err
}

// IsZero - true for the all zero value, i.e. an anonymous author
func (key PublicKey) IsZero() bool {
	return key == PublicKey{}
}

// Bytes - copy as a byte slice
func (key PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, key[:])
	return b
}

// convert a binary key to hex string for use by the fmt package (for %s)
func (key PublicKey) String() string {
	return hex.EncodeToString(key[:])
}

// convert a binary key to hex string for use by the fmt package (for %#v)
func (key PublicKey) GoString() string {
	return "<PublicKey:" + hex.EncodeToString(key[:]) + ">"
}

// MarshalText - convert key to hex text
func (key PublicKey) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(PublicKeySize))
	hex.Encode(buffer, key[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a key
func (key *PublicKey) UnmarshalText(s []byte) error {
	buffer := make([]byte, hex.DecodedLen(len(s)))
	byteCount, err := hex.Decode(buffer, s)
	if nil != err {
		return err
	}
	return PublicKeyFromBytes(key, buffer[:byteCount])
}

// PublicKeyFromBytes - convert and validate a binary byte slice to a key
func PublicKeyFromBytes(key *PublicKey, buffer []byte) error {
	if PublicKeySize != len(buffer) {
		return fault.ErrKeyLength
	}
	copy(key[:], buffer)
	return nil
}

// PublicKeyFromHex - convert and validate a hex string to a key
func PublicKeyFromHex(s string) (PublicKey, error) {
	var key PublicKey
	err := key.UnmarshalText([]byte(s))
	return key, err
}
