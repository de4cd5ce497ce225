package driftpaper

import (
	_ "embed"
)

// Version is stamped from the .version file at build time.
//
//go:embed .version
var Version string

//go:embed default_config.toml
var DefaultConfig string
