// Package configs provides embedded configuration files for cclsearch.
//
// Files are embedded at build time so that every distribution (source
// builds, binary releases) carries a working index catalog and a config
// template without any files on disk.
//
// Configuration Hierarchy (see internal/config/config.go Load()):
//  1. Hardcoded defaults (internal/config/config.go NewConfig())
//  2. User config (~/.config/cclsearch/config.yaml)
//  3. Project config (.cclsearch.yaml)
//  4. Environment variables (CCLSEARCH_*)
package configs

import _ "embed"

// DefaultIndexCatalog is the built-in search index catalog.
// Used when catalog.backend is "embedded" (the default).
//
//go:embed indexes.yaml
var DefaultIndexCatalog string

// ProjectConfigTemplate is the template written by `cclsearch config init`
// to .cclsearch.yaml in the project directory.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string
