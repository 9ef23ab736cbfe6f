// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAnonymousBlockNotSupported = InvalidError("anonymous blocks not supported")
	ErrBrokenFeed                 = InvalidError("feed parent linkage is broken")
	ErrCannotMergeUnknownChain    = NotFoundError("cannot merge: unknown chain")
	ErrDatabaseIsNotSet           = ProcessError("database is not set")
	ErrDatabaseVersion            = InvalidError("database version is newer than supported")
	ErrFeedNotFound               = NotFoundError("feed not found")
	ErrFileExists                 = ExistsError("file already exists")
	ErrInvalidBackend             = InvalidError("invalid database backend")
	ErrInvalidCount               = InvalidError("invalid count")
	ErrInvalidCursor              = InvalidError("invalid cursor")
	ErrInvalidSignature           = InvalidError("invalid signature")
	ErrInvalidStructPointer       = InvalidError("invalid struct pointer")
	ErrKeyLength                  = LengthError("key length is invalid")
	ErrMissingChainIdentity       = RecordError("chain identity tag missing")
	ErrNilStrategy                = InvalidError("merge strategy is nil")
	ErrNotFound                   = NotFoundError("not found")
	ErrOrphanedChain              = RecordError("orphaned chain")
	ErrParentNotFound             = NotFoundError("parent not found")
	ErrPayloadTooLarge            = LengthError("payload too large")
	ErrReadOnly                   = ProcessError("database is read only")
	ErrReferenceNotFound          = NotFoundError("reference not found")
	ErrSignatureLength            = LengthError("signature length is invalid")
	ErrTruncatedBlock             = RecordError("truncated block record")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e LengthError) Error() string   { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrLength(e error) bool   { _, ok := e.(LengthError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrRecord(e error) bool   { _, ok := e.(RecordError); return ok }
