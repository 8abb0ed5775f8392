// Package config loads server, database and upload-storage settings from
// defaults, an optional config.yaml and SCRY_-prefixed environment
// variables, and validates them before any component starts.
package config
