// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/invoke-go/invoke/internal/issue"
	"github.com/invoke-go/invoke/pkg/cueutil"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "invoke"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFile is the project-local config file name.
	LocalConfigFile = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "INVOKE"
	// ConfigFileEnvVar names a config file that replaces the directory lookup.
	ConfigFileEnvVar = EnvPrefix + "_CONFIG"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the invoke configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading. It returns the
// config and the files that were merged, in merge order.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, []string, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFilePath == "" {
		opts.ConfigFilePath = os.Getenv(ConfigFileEnvVar)
	}

	var loaded []string

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Unset " + ConfigFileEnvVar + " to use the default locations").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, nil, loadError(opts.ConfigFilePath, err)
		}
		loaded = append(loaded, opts.ConfigFilePath)
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, nil, err
		}

		candidates := []string{
			filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt),
			filepath.Join(opts.WorkDir, LocalConfigFile),
		}
		for _, path := range candidates {
			if !fileExists(path) {
				continue
			}
			if err := loadCUEIntoViper(v, path); err != nil {
				return nil, nil, loadError(path, err)
			}
			loaded = append(loaded, path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema.
	if valid, errs := cfg.IsValid(); !valid {
		var cfgErr *InvalidConfigError
		cause := errors.Join(errs...)
		if errors.As(errs[0], &cfgErr) {
			cause = errors.Join(cfgErr.FieldErrors...)
		}
		return nil, nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check INVOKE_* environment variables for typos").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(cause).
			BuildError()
	}

	return &cfg, loaded, nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

func setDefaults(v *viper.Viper, defaults *Config) {
	v.SetDefault("tasks.collection", defaults.Tasks.Collection)
	v.SetDefault("tasks.dedupe", defaults.Tasks.Dedupe)
	v.SetDefault("tasks.search_root", defaults.Tasks.SearchRoot)
	v.SetDefault("run.echo", defaults.Run.Echo)
	v.SetDefault("run.pty", defaults.Run.Pty)
	v.SetDefault("run.warn", defaults.Run.Warn)
	v.SetDefault("run.hide", string(defaults.Run.Hide))
	v.SetDefault("run.shell", string(defaults.Run.Shell))
	v.SetDefault("run.shell_path", defaults.Run.ShellPath)
	v.SetDefault("debug", defaults.Debug)
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges its
// contents into Viper. Fields are optional, so values need not be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config",
		cueutil.WithConcrete(false),
		cueutil.WithFilename(path),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a config file accepted by the #Config schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// invoke configuration file\n\n")

	sb.WriteString("tasks: {\n")
	fmt.Fprintf(&sb, "\tcollection: %q\n", cfg.Tasks.Collection)
	fmt.Fprintf(&sb, "\tdedupe: %v\n", cfg.Tasks.Dedupe)
	if cfg.Tasks.SearchRoot != "" {
		fmt.Fprintf(&sb, "\tsearch_root: %q\n", cfg.Tasks.SearchRoot)
	}
	sb.WriteString("}\n")

	sb.WriteString("\nrun: {\n")
	fmt.Fprintf(&sb, "\techo: %v\n", cfg.Run.Echo)
	fmt.Fprintf(&sb, "\tpty: %v\n", cfg.Run.Pty)
	fmt.Fprintf(&sb, "\twarn: %v\n", cfg.Run.Warn)
	fmt.Fprintf(&sb, "\thide: %q\n", cfg.Run.Hide)
	fmt.Fprintf(&sb, "\tshell: %q\n", cfg.Run.Shell)
	if cfg.Run.ShellPath != "" {
		fmt.Fprintf(&sb, "\tshell_path: %q\n", cfg.Run.ShellPath)
	}
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\ndebug: %v\n", cfg.Debug)

	return sb.String()
}
