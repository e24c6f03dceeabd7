// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ShellNative runs task commands with the host shell.
	ShellNative ShellMode = "native"
	// ShellVirtual runs task commands in the embedded mvdan/sh interpreter.
	ShellVirtual ShellMode = "virtual"

	// HideNone mirrors both output streams.
	HideNone HideSetting = ""
	// HideOut suppresses mirroring of stdout.
	HideOut HideSetting = "out"
	// HideErr suppresses mirroring of stderr.
	HideErr HideSetting = "err"
	// HideBoth suppresses mirroring of both streams.
	HideBoth HideSetting = "both"
)

var (
	// ErrInvalidShellMode is returned when a ShellMode value is not recognized.
	ErrInvalidShellMode = errors.New("invalid shell mode")
	// ErrInvalidHideSetting is returned when a HideSetting value is not recognized.
	ErrInvalidHideSetting = errors.New("invalid hide setting")
	// ErrInvalidCollectionName is returned when tasks.collection is blank.
	ErrInvalidCollectionName = errors.New("invalid collection name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ShellMode selects how task commands are executed.
	ShellMode string

	// InvalidShellModeError is returned when a ShellMode value is not recognized.
	InvalidShellModeError struct {
		Value ShellMode
	}

	// HideSetting selects which output streams are not mirrored to the terminal.
	HideSetting string

	// InvalidHideSettingError is returned when a HideSetting value is not recognized.
	InvalidHideSettingError struct {
		Value HideSetting
	}

	// InvalidConfigError collects the field-level errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Tasks configures collection discovery and planning.
		Tasks TasksConfig `json:"tasks" mapstructure:"tasks"`
		// Run holds the default execution settings for task commands.
		Run RunConfig `json:"run" mapstructure:"run"`
		// Debug enables debug logging.
		Debug bool `json:"debug" mapstructure:"debug"`
	}

	// TasksConfig configures collection discovery and planning.
	TasksConfig struct {
		// Collection is the collection name searched for (without extension).
		Collection string `json:"collection" mapstructure:"collection"`
		// Dedupe removes repeated invocations from the plan.
		Dedupe bool `json:"dedupe" mapstructure:"dedupe"`
		// SearchRoot is the directory the search starts from; empty means cwd.
		SearchRoot string `json:"search_root" mapstructure:"search_root"`
	}

	// RunConfig holds the default execution settings for task commands.
	RunConfig struct {
		Echo bool        `json:"echo" mapstructure:"echo"`
		Pty  bool        `json:"pty" mapstructure:"pty"`
		Warn bool        `json:"warn" mapstructure:"warn"`
		Hide HideSetting `json:"hide" mapstructure:"hide"`
		// Shell selects the native shell or the embedded interpreter.
		Shell ShellMode `json:"shell" mapstructure:"shell"`
		// ShellPath overrides the native shell binary.
		ShellPath string `json:"shell_path" mapstructure:"shell_path"`
	}
)

// String returns the string representation of the ShellMode.
func (m ShellMode) String() string { return string(m) }

// IsValid returns whether the ShellMode is one of the defined modes.
func (m ShellMode) IsValid() (bool, []error) {
	switch m {
	case ShellNative, ShellVirtual:
		return true, nil
	default:
		return false, []error{&InvalidShellModeError{Value: m}}
	}
}

// Error implements the error interface.
func (e *InvalidShellModeError) Error() string {
	return fmt.Sprintf("invalid shell mode %q (valid: native, virtual)", e.Value)
}

// Unwrap returns ErrInvalidShellMode for errors.Is() compatibility.
func (e *InvalidShellModeError) Unwrap() error { return ErrInvalidShellMode }

// String returns the string representation of the HideSetting.
func (h HideSetting) String() string { return string(h) }

// IsValid returns whether the HideSetting is one of the defined settings.
func (h HideSetting) IsValid() (bool, []error) {
	switch h {
	case HideNone, HideOut, HideErr, HideBoth:
		return true, nil
	default:
		return false, []error{&InvalidHideSettingError{Value: h}}
	}
}

// Error implements the error interface.
func (e *InvalidHideSettingError) Error() string {
	return fmt.Sprintf("invalid hide setting %q (valid: \"\", out, err, both)", e.Value)
}

// Unwrap returns ErrInvalidHideSetting for errors.Is() compatibility.
func (e *InvalidHideSettingError) Unwrap() error { return ErrInvalidHideSetting }

// IsValid returns whether the TasksConfig has valid fields.
func (c TasksConfig) IsValid() (bool, []error) {
	if strings.TrimSpace(c.Collection) == "" {
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidCollectionName, c.Collection)}
	}
	return true, nil
}

// IsValid returns whether the RunConfig has valid fields.
func (c RunConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Hide.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Shell.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	return len(errs) == 0, errs
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Tasks.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Run.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the configuration used when no file sets a key.
func DefaultConfig() *Config {
	return &Config{
		Tasks: TasksConfig{
			Collection: "tasks",
			Dedupe:     true,
		},
		Run: RunConfig{
			Shell: ShellNative,
		},
	}
}
