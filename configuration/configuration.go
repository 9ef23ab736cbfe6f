// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/feedstore/fault"
	"github.com/bitmark-inc/feedstore/storage"
	"github.com/bitmark-inc/feedstore/templates"
	"github.com/bitmark-inc/feedstore/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultBackend      = storage.BackendLevelDB
	defaultLevelDBName  = "feeds.leveldb"
	defaultBoltName     = "feeds.bolt"
	defaultCacheSeconds = 0

	defaultLogDirectory = "log"
	defaultLogFile      = "feedrepo.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// DatabaseType - storage backend selection
type DatabaseType struct {
	Backend string `gluamapper:"backend" json:"backend"`
	Name    string `gluamapper:"name" json:"name"`
}

// BlockCacheType - block record cache settings
type BlockCacheType struct {
	Expiry int `gluamapper:"expiry" json:"expiry"` // seconds
}

// Configuration - the decoded configuration file
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	Database      DatabaseType         `gluamapper:"database" json:"database"`
	AllowDetached bool                 `gluamapper:"allow_detached" json:"allow_detached"`
	BlockCache    BlockCacheType       `gluamapper:"block_cache" json:"block_cache"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// Default - configuration used when generating a new file
func Default() *Configuration {
	levels := make(map[string]string, len(defaultLogLevels))
	for tag, level := range defaultLogLevels {
		levels[tag] = level
	}
	return &Configuration{
		DataDirectory: ".",
		Database: DatabaseType{
			Backend: defaultBackend,
			Name:    defaultLevelDBName,
		},
		AllowDetached: false,
		BlockCache: BlockCacheType{
			Expiry: defaultCacheSeconds,
		},
		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    levels,
		},
	}
}

// GetConfiguration - read decode and verify the configuration
func GetConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := Default()
	options.DataDirectory = defaultDataDirectory
	options.Database.Name = ""

	if err := ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	options.Database.Backend = strings.ToLower(options.Database.Backend)
	switch options.Database.Backend {
	case storage.BackendLevelDB:
		if "" == options.Database.Name {
			options.Database.Name = defaultLevelDBName
		}
	case storage.BackendBolt:
		if "" == options.Database.Name {
			options.Database.Name = defaultBoltName
		}
	case storage.BackendMemory:
		options.Database.Name = ""
	default:
		return nil, fault.ErrInvalidBackend
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if !util.IsDirectory(options.DataDirectory) {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.Database.Name {
		options.Database.Name = util.EnsureAbsolute(options.DataDirectory, options.Database.Name)
	}

	// the log file must be a plain name, it is placed in the log directory
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	// make absolute and create directories if they do not already exist
	options.Logging.Directory = util.EnsureAbsolute(options.DataDirectory, options.Logging.Directory)
	if err := os.MkdirAll(options.Logging.Directory, 0700); nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// CacheExpiry - block cache lifetime in the form the repository expects
func (c *Configuration) CacheExpiry() time.Duration {
	if c.BlockCache.Expiry < 0 {
		return -1
	}
	return time.Duration(c.BlockCache.Expiry) * time.Second
}

// Save - write the configuration to a file, keeping any previous
// version with a ".bk" suffix
func Save(filename string, configuration *Configuration) error {

	tempFile := filename + ".new"
	previousFile := filename + ".bk"

	os.Remove(tempFile)

	file, err := os.Create(tempFile)
	if nil != err {
		return err
	}

	configurationTemplate := template.Must(template.New("config").Parse(templates.ConfigurationTemplate))
	err = configurationTemplate.Execute(file, configuration)
	file.Close()
	if nil != err {
		os.Remove(tempFile)
		return err
	}

	err = os.Remove(previousFile)
	if nil != err && !os.IsNotExist(err) {
		return err
	}
	err = os.Rename(filename, previousFile)
	if nil != err && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tempFile, filename)
}
