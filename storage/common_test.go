// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/feedstore/storage"
)

// test database directory
const (
	testingDirName = "testing"
)

// remove all files created by test
func removeFiles() {
	os.RemoveAll(testingDirName)
}

// open a fresh database for one backend
func setup(t *testing.T, backend string) (storage.Handle, string) {
	removeFiles()
	if err := os.Mkdir(testingDirName, 0700); nil != err {
		t.Fatalf("mkdir error: %s", err)
	}
	name := filepath.Join(testingDirName, "test."+backend)
	handle, err := storage.Open(backend, name, storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage open error: %s", err)
	}
	return handle, name
}

// post test cleanup
func teardown(handle storage.Handle) {
	if nil != handle {
		handle.Close()
	}
	removeFiles()
}

// a string data item
type stringElement struct {
	key   string
	value string
}

// make an element array
func makeElements(input []stringElement) []storage.Element {
	output := make([]storage.Element, 0, len(input))
	for _, e := range input {
		output = append(output, storage.Element{
			Key:   []byte(e.key),
			Value: []byte(e.value),
		})
	}
	return output
}

// this is the expected order
var expectedElements = makeElements([]stringElement{
	{"key-five", "data-five"},
	{"key-four", "data-four"},
	{"key-one", "data-one(NEW)"},
	{"key-seven", "data-seven"},
	{"key-six", "data-six"},
	{"key-three", "data-three"},
	{"key-two", "data-two"},
})

// a key that must not exist
var nonExistantKey = []byte("/nonexistant")

// sample key and data
var testKey = []byte("key-two")
var testData = "data-two"

var allBackends = []string{
	storage.BackendLevelDB,
	storage.BackendBolt,
	storage.BackendMemory,
}
