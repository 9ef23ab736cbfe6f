// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/feedstore/block"
	"github.com/bitmark-inc/feedstore/configuration"
	"github.com/bitmark-inc/feedstore/fault"
	"github.com/bitmark-inc/feedstore/graph"
	"github.com/bitmark-inc/feedstore/repository"
	"github.com/bitmark-inc/feedstore/util"
)

// setup command handler
//
// commands that need neither the configuration file nor the database
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "keygen", "key":
		publicKey, privateKey, err := block.GenerateKey()
		if nil != err {
			exitwithstatus.Message("generate key error: %s", err)
		}
		printJson("", struct {
			PublicKey  block.PublicKey `json:"public_key"`
			PrivateKey string          `json:"private_key"`
		}{
			PublicKey:  publicKey,
			PrivateKey: hex.EncodeToString(privateKey),
		})

	case "config", "conf":
		if len(arguments) < 1 || "" == arguments[0] {
			exitwithstatus.Message("missing file name argument")
		}
		filename := arguments[0]
		if util.EnsureFileExists(filename) {
			exitwithstatus.Message("error: configuration: %q  error: %s", filename, fault.ErrFileExists)
		}
		if err := configuration.Save(filename, configuration.Default()); nil != err {
			exitwithstatus.Message("error: writing: %q  error: %s", filename, err)
		}
		fmt.Printf("generated configuration: %q\n", filename)

	case "version", "v":
		fmt.Printf("%s\n", version)

	case "config-test", "cfg":
		return false // needs the configuration

	default:
		if isDataCommand(command) {
			return false // defer processing until database is open
		}
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                        (h)      - display this message\n")
		fmt.Printf("  version                     (v)      - display version sting\n")
		fmt.Printf("  keygen                      (key)    - create a new author key pair\n")
		fmt.Printf("  config FILE                 (conf)   - write a default configuration to FILE\n")
		fmt.Printf("  config-test                 (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  heads                                - list the head of every owner\n")
		fmt.Printf("  tails                                - list the genesis of every author\n")
		fmt.Printf("  latest                               - list the newest block of every author\n")
		fmt.Printf("  feeds                                - list chain tips and their chain identity\n")
		fmt.Printf("  feed-heads                           - list chain identities and their tip\n")
		fmt.Printf("\n")

		fmt.Printf("  load AUTHOR [COUNT]                  - the chain ending at the owner's head\n")
		fmt.Printf("  latest-feed AUTHOR [COUNT]           - the chain ending at the author's newest block\n")
		fmt.Printf("  resolve SIGNATURE [COUNT]            - the whole chain containing a block\n")
		fmt.Printf("\n")

		fmt.Printf("  append PRIVATE PAYLOAD [PARENT]      - sign a block and merge it\n")
		fmt.Printf("  rollback HEAD [STOP]                 - remove blocks from the tip down to STOP\n")
		fmt.Printf("                                         HEAD is an author key, or a signature when detached\n")
		fmt.Printf("\n")

		fmt.Printf("  reg-get KEY                          - read a registry value\n")
		fmt.Printf("  reg-put KEY VALUE                    - write a registry value\n")
		fmt.Printf("\n")

		fmt.Printf("  dot FILE [LABEL]                     - write a Graphviz diagram of the repository\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration file enquiry commands
func processConfigCommand(arguments []string, options *configuration.Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.Marshal(options)
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		var out bytes.Buffer
		json.Indent(&out, b, "", "  ")
		out.WriteTo(os.Stdout)
		os.Stdout.WriteString("\n")

	default:
		return false
	}
	return true
}

func isDataCommand(command string) bool {
	switch command {
	case "heads", "tails", "latest", "feeds", "feed-heads",
		"load", "latest-feed", "resolve", "reg-get", "dot":
		return true
	}
	return isUpdateCommand(command)
}

// commands that write to the database
func isUpdateCommand(command string) bool {
	switch command {
	case "append", "rollback", "reg-put":
		return true
	}
	return false
}

// data command handler
//
// the repository is open so these commands can access and/or change
// the database
func processDataCommand(log *logger.L, repo *repository.Repo, arguments []string, verbose bool) {

	command := arguments[0]
	arguments = arguments[1:]

	log.Infof("command: %s  arguments: %q", command, arguments)

	switch command {

	case "heads":
		tags, err := repo.ListHeads()
		printTags("heads", tags, err, verbose)

	case "tails":
		tags, err := repo.ListTails()
		printTags("tails", tags, err, verbose)

	case "latest":
		tags, err := repo.ListLatest()
		printTags("latest", tags, err, verbose)

	case "feeds":
		tags, err := repo.ListFeeds()
		printTags("feeds", tags, err, verbose)

	case "feed-heads":
		tags, err := repo.ListFeedHeads()
		printTags("feed heads", tags, err, verbose)

	case "load", "latest-feed":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing author argument")
		}
		author, err := block.PublicKeyFromHex(arguments[0])
		if nil != err {
			exitwithstatus.Message("error in author: %s", err)
		}
		visit := repository.Limit(countArgument(arguments, 1))

		var feed *block.Feed
		if "load" == command {
			feed, err = repo.LoadHead(author, visit)
		} else {
			feed, err = repo.LoadLatest(author, visit)
		}
		printFeed(feed, err, verbose)

	case "resolve":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing signature argument")
		}
		sig, err := block.SignatureFromHex(arguments[0])
		if nil != err {
			exitwithstatus.Message("error in signature: %s", err)
		}
		feed, err := repo.ResolveFeed(sig, repository.Limit(countArgument(arguments, 1)))
		printFeed(feed, err, verbose)

	case "append":
		if len(arguments) < 2 {
			exitwithstatus.Message("missing private key or payload argument")
		}
		appendBlock(log, repo, arguments)

	case "rollback":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing head argument")
		}
		head, err := hex.DecodeString(arguments[0])
		if nil != err {
			exitwithstatus.Message("error in head: %s", err)
		}

		var stopAt *block.Signature
		if len(arguments) > 1 {
			sig, err := block.SignatureFromHex(arguments[1])
			if nil != err {
				exitwithstatus.Message("error in stop signature: %s", err)
			}
			stopAt = &sig
		}

		evicted, err := repo.Rollback(head, stopAt)
		if nil != err {
			exitwithstatus.Message("rollback error: %s", err)
		}
		fmt.Printf("removed: %d\n", evicted.Len())
		if verbose && nil != evicted {
			printJson("removed", makeFeedItem(evicted))
		}

	case "reg-get":
		if len(arguments) < 1 {
			exitwithstatus.Message("missing key argument")
		}
		value, err := repo.ReadReg([]byte(arguments[0]))
		if fault.ErrNotFound == err {
			exitwithstatus.Message("key: %q not found", arguments[0])
		} else if nil != err {
			exitwithstatus.Message("registry read error: %s", err)
		}
		fmt.Printf("%s\n", value)

	case "reg-put":
		if len(arguments) < 2 {
			exitwithstatus.Message("missing key or value argument")
		}
		if err := repo.WriteReg([]byte(arguments[0]), []byte(arguments[1])); nil != err {
			exitwithstatus.Message("registry write error: %s", err)
		}

	case "dot":
		if len(arguments) < 1 || "" == arguments[0] {
			exitwithstatus.Message("missing file name argument")
		}
		options := &graph.Options{}
		if len(arguments) > 1 {
			options.Label = arguments[1]
		}
		stats, err := graph.Dump(repo, arguments[0], options)
		if nil != err {
			exitwithstatus.Message("failed writing: %q  error: %s", arguments[0], err)
		}
		printJson("", stats)

	default:
		exitwithstatus.Message("error: no such command: %q", command)
	}
}

// sign a single block onto the author's chain and merge it
func appendBlock(log *logger.L, repo *repository.Repo, arguments []string) {
	privateKey, err := block.PrivateKeyFromHex(arguments[0])
	if nil != err {
		exitwithstatus.Message("error in private key: %s", err)
	}
	author, err := block.PublicKeyOf(privateKey)
	if nil != err {
		exitwithstatus.Message("error in private key: %s", err)
	}

	var parent *block.Signature
	if len(arguments) > 2 {
		sig, err := block.SignatureFromHex(arguments[2])
		if nil != err {
			exitwithstatus.Message("error in parent signature: %s", err)
		}
		parent = &sig
	} else if repo.AllowDetached() {
		parent, err = repo.LatestOf(author)
	} else {
		parent, err = repo.HeadOf(author)
	}
	if nil != err {
		exitwithstatus.Message("error reading tags: %s", err)
	}

	b, err := block.New(privateKey, parent, []byte(arguments[1]))
	if nil != err {
		exitwithstatus.Message("error creating block: %s", err)
	}
	feed, err := block.NewFeed(b)
	if nil != err {
		exitwithstatus.Message("error creating feed: %s", err)
	}

	n, err := repo.Merge(context.Background(), feed, nil)
	if nil != err {
		exitwithstatus.Message("merge error: %s", err)
	}
	if 0 == n {
		log.Warnf("author: %s  block: %s  not accepted", author, b.Signature())
		exitwithstatus.Message("block: %s was not accepted", b.Signature())
	}
	printJson("", makeBlockItem(b))
}

// optional count argument, zero means no limit
func countArgument(arguments []string, i int) int {
	if len(arguments) <= i {
		return 0
	}
	n, err := strconv.Atoi(arguments[i])
	if nil != err {
		exitwithstatus.Message("error in count: %s", err)
	}
	if n < 1 {
		exitwithstatus.Message("error: invalid count: %d", n)
	}
	return n
}

func printTags(title string, tags []repository.Tag, err error, verbose bool) {
	if nil != err {
		exitwithstatus.Message("error listing %s: %s", title, err)
	}
	if verbose {
		fmt.Printf("%s: %d\n", title, len(tags))
	}
	printJson("", makeTagItems(tags))
}

func printFeed(feed *block.Feed, err error, verbose bool) {
	if nil != err {
		exitwithstatus.Message("error loading feed: %s", err)
	}
	if nil == feed {
		exitwithstatus.Message("feed not found")
	}
	if verbose {
		fmt.Printf("blocks: %d\n", feed.Len())
	}
	printJson("", makeFeedItem(feed))
}
