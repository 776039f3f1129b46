// Package model defines the domain types and value objects for the
// quick-proj CLI.
//
// This package contains pure data structures with no external dependencies.
// Projects are transient: every scan constructs them afresh from the
// filesystem, and nothing about them is persisted between invocations.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
