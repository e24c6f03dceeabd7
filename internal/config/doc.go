// SPDX-License-Identifier: MPL-2.0

// Package config loads invoke's configuration.
//
// Settings are layered, lowest precedence first: built-in defaults, the user
// config file ($XDG_CONFIG_HOME/invoke/config.cue or the platform equivalent),
// a project-local ./invoke.cue, and INVOKE_* environment variables such as
// INVOKE_RUN_ECHO=true. Setting INVOKE_CONFIG points at a single config file
// and disables the directory lookup. Files are CUE, validated against the
// embedded #Config schema before being merged into Viper. Core command-line
// options are applied on top by the CLI.
package config
