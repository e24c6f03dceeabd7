// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const (
	// KindString is a flag that takes a string value.
	KindString Kind = iota
	// KindBool is a flag that is switched on (or off) by its presence.
	KindBool
	// KindInt is a flag that takes an integer value.
	KindInt
)

// ErrInvalidKind is returned when a Kind value is not one of the defined kinds.
var ErrInvalidKind = errors.New("invalid argument kind")

type (
	// Kind is the value type of an Argument.
	Kind int

	// Argument declares one parameter of a task.
	Argument struct {
		// Name is the parameter name. Underscores and dashes are interchangeable
		// in its long flag spelling.
		Name string
		// Kind is the value type; KindString is the zero value.
		Kind Kind
		// Default is the value used when the flag is not given. Boolean
		// arguments default to false when Default is nil. A valued argument
		// without a default is positional-eligible.
		Default any
		// Short overrides the derived short flag character.
		Short rune
		// Positional marks the argument as filled by position rather than by flag.
		// It is only consulted when the task declares its positional set explicitly.
		Positional bool
		// Aliases are extra flag spellings. One-character aliases are short flags.
		Aliases []string
		// Optional allows a valued flag to be given without a value.
		Optional bool
		// Iterable makes the flag repeatable; values accumulate into a []string.
		Iterable bool
		// Help is the description shown in per-task help.
		Help string
	}

	// Flag is the resolved set of spellings for one Argument.
	Flag struct {
		// Index is the position of the argument in its declaration list.
		Index int
		// Long holds normalized long spellings without leading dashes; the first is primary.
		Long []string
		// Short holds short flag characters; the first is primary.
		Short []rune
	}

	// Values maps argument names to resolved values.
	Values map[string]any
)

// String returns the kind name used in help output.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsValid returns whether the Kind is one of the defined kinds.
func (k Kind) IsValid() (bool, []error) {
	switch k {
	case KindString, KindBool, KindInt:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %d", ErrInvalidKind, int(k))}
	}
}

// TakesValue reports whether a flag for this argument consumes a value.
func (a *Argument) TakesValue() bool {
	return a.Kind != KindBool
}

// HasDefault reports whether the argument carries an explicit default.
func (a *Argument) HasDefault() bool {
	return a.Default != nil || a.Kind == KindBool
}

// DefaultValue returns the value the argument holds when it is not given.
func (a *Argument) DefaultValue() any {
	switch {
	case a.Iterable:
		if list, ok := a.Default.([]string); ok {
			return append([]string(nil), list...)
		}
		return []string(nil)
	case a.Default != nil:
		return a.Default
	case a.Kind == KindBool:
		return false
	case a.Kind == KindInt:
		return 0
	default:
		return ""
	}
}

// Convert turns a raw token into a typed value for this argument.
func (a *Argument) Convert(raw string) (any, error) {
	switch a.Kind {
	case KindBool:
		return strconv.ParseBool(raw)
	case KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", raw)
		}
		return n, nil
	default:
		return raw, nil
	}
}

// NormalizeFlagName converts underscores to dashes so that `long_name` and
// `long-name` spell the same flag.
func NormalizeFlagName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// DeriveFlags computes flag spellings for an argument list. Explicit short
// flags and one-character names are claimed first. When autoShort is set,
// every other argument takes the first character of its name that is not
// already claimed. Two arguments sharing a spelling is a ConfigurationError.
func DeriveFlags(args []Argument, autoShort bool) ([]Flag, error) {
	flags := make([]Flag, len(args))
	taken := make(map[string]int)

	claim := func(spelling string, idx int) error {
		if prev, ok := taken[spelling]; ok && prev != idx {
			return configErrorf("", "arguments '%s' and '%s' share the flag spelling '%s'",
				args[prev].Name, args[idx].Name, displaySpelling(spelling))
		}
		taken[spelling] = idx
		return nil
	}

	for i := range args {
		arg := &args[i]
		if ok, errs := arg.Kind.IsValid(); !ok {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("argument '%s'", arg.Name), Cause: errs[0]}
		}
		name := NormalizeFlagName(arg.Name)
		if err := validateFlagName(name); err != nil {
			return nil, err
		}
		flags[i].Index = i
		spellings := append([]string{name}, arg.Aliases...)
		for _, s := range spellings {
			s = NormalizeFlagName(s)
			if err := validateFlagName(s); err != nil {
				return nil, err
			}
			if err := claim(s, i); err != nil {
				return nil, err
			}
			if len([]rune(s)) == 1 {
				flags[i].Short = append(flags[i].Short, []rune(s)[0])
			} else {
				flags[i].Long = append(flags[i].Long, s)
			}
		}
		if arg.Short != 0 {
			if err := claim(string(arg.Short), i); err != nil {
				return nil, err
			}
			flags[i].Short = append([]rune{arg.Short}, flags[i].Short...)
		}
	}

	if !autoShort {
		return flags, nil
	}
	for i := range args {
		if len(flags[i].Short) > 0 {
			continue
		}
		for _, r := range NormalizeFlagName(args[i].Name) {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				continue
			}
			if _, ok := taken[string(r)]; ok {
				continue
			}
			taken[string(r)] = i
			flags[i].Short = []rune{r}
			break
		}
	}
	return flags, nil
}

func validateFlagName(name string) error {
	if name == "" {
		return configErrorf("", "argument name must not be empty")
	}
	if strings.HasPrefix(name, "-") {
		return configErrorf("", "argument name '%s' must not start with a dash", name)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return configErrorf("", "argument name '%s' contains invalid character %q", name, r)
		}
	}
	return nil
}

func displaySpelling(s string) string {
	if len([]rune(s)) == 1 {
		return "-" + s
	}
	return "--" + s
}

// Bool returns a boolean value, or false when absent.
func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

// String returns a string value, or "" when absent.
func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Int returns an integer value, or 0 when absent.
func (v Values) Int(name string) int {
	n, _ := v[name].(int)
	return n
}

// Strings returns an accumulated list value.
func (v Values) Strings(name string) []string {
	list, _ := v[name].([]string)
	return list
}

// Clone returns a shallow copy; list values are copied.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		if list, ok := val.([]string); ok {
			val = append([]string(nil), list...)
		}
		out[k] = val
	}
	return out
}
