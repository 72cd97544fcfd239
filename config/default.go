package config

import _ "embed"

// DefaultConfigYAML is the built-in default configuration. External config
// files and SPENDSMART_* environment variables override it.
//
//go:embed default.yaml
var DefaultConfigYAML []byte
