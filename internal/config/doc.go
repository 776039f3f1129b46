// Package config manages the persistent quick-proj configuration.
//
// The configuration lives in a TOML file, by default
// $XDG_CONFIG_HOME/quick-proj/config.toml. It records the search roots, the
// preferred editor and the scan parameters (depth, project markers and
// excluded directory names).
//
// Loading goes through viper so that every key can be overridden from the
// environment with the QUICK_PROJ_ prefix (QUICK_PROJ_MAX_DEPTH,
// QUICK_PROJ_EDITOR, QUICK_PROJ_ROOT_PATHS as a comma separated list, ...).
// A missing file is not an error: the defaults are returned.
//
// Writes are serialised with a gofrs/flock lock file next to the config and
// replace the file atomically, so two concurrent "quick-proj add" invocations
// cannot lose each other's root. Update performs a locked
// read-modify-write and never persists values that came from the
// environment.
//
// The package also imports root folders from VS Code ".code-workspace"
// files, which are JSONC documents.
package config
