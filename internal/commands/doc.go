// Package commands provides the command-line interface for the gosubst tool.
//
// It implements commands for:
//   - language generation and inspection
//   - key generation
//   - encryption
//   - decryption
//   - checking encrypted files
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands
