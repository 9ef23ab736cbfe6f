// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/feedstore/fault"
	"github.com/bitmark-inc/feedstore/util"
)

// MaxPayloadSize - largest payload accepted in a block
const MaxPayloadSize = 1 << 20

// smallest possible packed block: empty payload
const minimumPackedSize = SignatureSize + 1 + SignatureSize

// Block - an immutable signed chain element
type Block struct {
	signature Signature
	parent    Signature
	author    PublicKey
	payload   []byte
}

// New - sign a payload as the child of parent (nil for a genesis block)
func New(privateKey ed25519.PrivateKey, parent *Signature, payload []byte) (*Block, error) {
	author, err := PublicKeyOf(privateKey)
	if nil != err {
		return nil, err
	}
	if len(payload) > MaxPayloadSize {
		return nil, fault.ErrPayloadTooLarge
	}

	b := &Block{
		author:  author,
		payload: make([]byte, len(payload)),
	}
	copy(b.payload, payload)
	if nil != parent {
		b.parent = *parent
	}

	signature := ed25519.Sign(privateKey, b.signedPart())
	copy(b.signature[:], signature)
	return b, nil
}

// Unpack - decode a packed block and verify it against its author
//
// a zero author key produces an anonymous block that is not verified
func Unpack(author PublicKey, packed []byte) (*Block, error) {
	b, err := UnpackUnverified(author, packed)
	if nil != err {
		return nil, err
	}
	if !author.IsZero() && !b.Verify() {
		return nil, fault.ErrInvalidSignature
	}
	return b, nil
}

// UnpackUnverified - decode a packed block without checking its signature
//
// only for data that was verified when it was first unpacked
func UnpackUnverified(author PublicKey, packed []byte) (*Block, error) {
	if len(packed) < minimumPackedSize {
		return nil, fault.ErrTruncatedBlock
	}

	b := &Block{
		author: author,
	}
	copy(b.parent[:], packed[:SignatureSize])
	n := SignatureSize

	payloadLength, count := util.ClippedVarint64(packed[n:], 0, MaxPayloadSize)
	if 0 == count {
		return nil, fault.ErrPayloadTooLarge
	}
	n += count

	if SignatureSize+payloadLength != len(packed)-n {
		return nil, fault.ErrTruncatedBlock
	}
	b.payload = make([]byte, payloadLength)
	copy(b.payload, packed[n:])
	n += payloadLength

	copy(b.signature[:], packed[n:])
	return b, nil
}

// the bytes covered by the signature
func (b *Block) signedPart() []byte {
	length := util.ToVarint64(uint64(len(b.payload)))
	buffer := make([]byte, 0, SignatureSize+len(length)+len(b.payload)+SignatureSize)
	buffer = append(buffer, b.parent[:]...)
	buffer = append(buffer, length...)
	return append(buffer, b.payload...)
}

// Packed - the binary form of the block, without the author key
func (b *Block) Packed() []byte {
	return append(b.signedPart(), b.signature[:]...)
}

// Verify - check the signature against the author key
func (b *Block) Verify() bool {
	if b.author.IsZero() {
		return false
	}
	return ed25519.Verify(b.author[:], b.signedPart(), b.signature[:])
}

// Signature - identity of the block
func (b *Block) Signature() Signature {
	return b.signature
}

// ParentSignature - identity of the previous block, zero for genesis
func (b *Block) ParentSignature() Signature {
	return b.parent
}

// Author - public key of the writer, zero if anonymous
func (b *Block) Author() PublicKey {
	return b.author
}

// Payload - the data carried by the block
func (b *Block) Payload() []byte {
	return b.payload
}

// IsGenesis - first block of a chain
func (b *Block) IsGenesis() bool {
	return b.parent.IsZero()
}

// IsAnonymous - block has no author key
func (b *Block) IsAnonymous() bool {
	return b.author.IsZero()
}
