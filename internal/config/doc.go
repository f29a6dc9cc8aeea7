// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config file, ENLEARN_ environment variables
// and command-line flags. It provides type-safe access to the settings
// needed by the CLI and the HTTP server while keeping configuration
// details separate from business logic.
package config
