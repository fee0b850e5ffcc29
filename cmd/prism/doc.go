// Package main hosts the prism CLI entrypoint and command graph.
//
// The Cobra command tree exposes the PRISM field catalog, key-file loading
// and caching, protocol listings, and configuration scaffolding. Config and
// logger construction happen lazily in commandContext so commands that only
// print the built-in catalog never touch the filesystem.
package main
