// Package main implements the bleeper CLI.
//
// The root command loads configuration once per invocation and exposes the
// redact, words, check, config and cache subcommands. Command output goes to
// stdout; structured logs go to stderr and the optional log file.
package main
