// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package templates

const (
	/**** Configuration template ****/
	ConfigurationTemplate = `-- feedrepo.conf  -*- mode: lua -*-

local M = {}

-- directory for the database and log files
-- relative paths are taken from the configuration file directory
M.data_directory = "{{.DataDirectory}}"

M.database = {
    -- one of: leveldb, bolt, memory
    backend = "{{.Database.Backend}}",
    name = "{{.Database.Name}}",
}

-- allow one author to own several independent chains
M.allow_detached = {{.AllowDetached}}

M.block_cache = {
    -- seconds, 0 for the default and negative to disable
    expiry = {{.BlockCache.Expiry}},
}

M.logging = {
    directory = "log",
    file = "feedrepo.log",
    size = 1048576,
    count = 10,
    console = false,
    levels = {
        DEFAULT = "info",
        repository = "info",
    },
}

return M
`
)
