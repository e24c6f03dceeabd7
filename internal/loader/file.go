// SPDX-License-Identifier: MPL-2.0

package loader

type (
	// fileArg declares one task argument.
	fileArg struct {
		Name       string   `json:"name" yaml:"name" toml:"name"`
		Type       string   `json:"type" yaml:"type" toml:"type"`
		Default    any      `json:"default" yaml:"default" toml:"default"`
		Short      string   `json:"short" yaml:"short" toml:"short"`
		Help       string   `json:"help" yaml:"help" toml:"help"`
		Positional bool     `json:"positional" yaml:"positional" toml:"positional"`
		Optional   bool     `json:"optional" yaml:"optional" toml:"optional"`
		Aliases    []string `json:"aliases" yaml:"aliases" toml:"aliases"`
	}

	// fileCall references a pre-requisite by its dotted path relative to
	// the file root.
	fileCall struct {
		Task string         `json:"task" yaml:"task" toml:"task"`
		Args map[string]any `json:"args" yaml:"args" toml:"args"`
	}

	fileTask struct {
		Name       string     `json:"name" yaml:"name" toml:"name"`
		Help       string     `json:"help" yaml:"help" toml:"help"`
		Aliases    []string   `json:"aliases" yaml:"aliases" toml:"aliases"`
		Default    bool       `json:"default" yaml:"default" toml:"default"`
		Positional []string   `json:"positional" yaml:"positional" toml:"positional"`
		Args       []fileArg  `json:"args" yaml:"args" toml:"args"`
		Pre        []fileCall `json:"pre" yaml:"pre" toml:"pre"`
		Run        []string   `json:"run" yaml:"run" toml:"run"`
		// AutoShort turns automatic short flags off when false.
		AutoShort *bool `json:"auto_short" yaml:"auto_short" toml:"auto_short"`
		// Per-command overrides of the dispatch-wide run settings.
		Echo *bool             `json:"echo" yaml:"echo" toml:"echo"`
		Warn *bool             `json:"warn" yaml:"warn" toml:"warn"`
		Pty  *bool             `json:"pty" yaml:"pty" toml:"pty"`
		Hide string            `json:"hide" yaml:"hide" toml:"hide"`
		Env  map[string]string `json:"env" yaml:"env" toml:"env"`
	}

	// fileGroup is a nested collection.
	fileGroup struct {
		Name        string      `json:"name" yaml:"name" toml:"name"`
		Default     string      `json:"default" yaml:"default" toml:"default"`
		Aliases     []string    `json:"aliases" yaml:"aliases" toml:"aliases"`
		Tasks       []fileTask  `json:"tasks" yaml:"tasks" toml:"tasks"`
		Collections []fileGroup `json:"collections" yaml:"collections" toml:"collections"`
	}

	// collectionFile is the top level of a collection file.
	collectionFile struct {
		Default     string      `json:"default" yaml:"default" toml:"default"`
		Tasks       []fileTask  `json:"tasks" yaml:"tasks" toml:"tasks"`
		Collections []fileGroup `json:"collections" yaml:"collections" toml:"collections"`
	}
)
