// Package model defines the domain types for the quick-proj CLI.
//
// These types are shared by the scanner, the configuration layer, the
// editor launcher and the CLI output code.
package model

import (
	"fmt"
	"strings"
)

// Project is a directory recognised as a project root by the scanner.
//
// A Project is an immutable value: the scanner constructs it once and no
// component modifies it afterwards. Two Projects are the same entity if and
// only if their Path fields are equal.
type Project struct {
	// Path is the absolute, canonical filesystem path of the project
	// directory. It is the identity key used for cross-root deduplication.
	Path string `json:"path" yaml:"path"`

	// Name is the final path component. It is a display label only and is
	// not unique (two roots may each contain an "api" directory).
	Name string `json:"name" yaml:"name"`

	// Marker is the marker file or directory name (e.g. ".git", "go.mod")
	// whose presence caused the directory to be classified as a project.
	Marker string `json:"marker" yaml:"marker"`
}

// NewProject builds a Project for the directory at path detected via marker.
// The name is derived from the last path element.
func NewProject(path, marker string) Project {
	return Project{
		Path:   path,
		Name:   baseName(path),
		Marker: marker,
	}
}

// DisplayString returns "name (path)", the label used in pickers and lists.
func (p Project) DisplayString() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Path)
}

// String satisfies fmt.Stringer and returns the project path.
func (p Project) String() string {
	return p.Path
}

// baseName returns the last element of a slash or OS separated path without
// importing path/filepath, so the model package stays dependency free for
// both separators.
func baseName(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if trimmed == "" {
		return path
	}
	if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// OutputFormat selects how commands render their results on stdout.
type OutputFormat string

const (
	// FormatText is the human-readable default.
	FormatText OutputFormat = "text"

	// FormatJSON renders results as indented JSON.
	FormatJSON OutputFormat = "json"

	// FormatYAML renders results as YAML.
	FormatYAML OutputFormat = "yaml"
)

// String returns the string representation of OutputFormat.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks whether the OutputFormat value is one of the predefined
// formats.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// ParseOutputFormat converts a string to an OutputFormat.
// Returns an error if the string does not match any valid format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	if !format.IsValid() {
		return "", fmt.Errorf("invalid output format: %q (valid: text, json, yaml)", s)
	}
	return format, nil
}

// ExitCode defines the CLI exit codes. These codes allow scripts to
// programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the configuration file or the scan
	// configuration derived from it is invalid.
	ExitConfigError ExitCode = 2

	// ExitEditorLaunchFailed indicates the editor could not be found or
	// could not be started.
	ExitEditorLaunchFailed ExitCode = 3

	// ExitRootNotFound indicates a path given to "add" does not exist or
	// is not accessible.
	ExitRootNotFound ExitCode = 4
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
