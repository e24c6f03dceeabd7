// SPDX-License-Identifier: MPL-2.0

package parser

import (
	"strconv"
	"strings"

	"github.com/invoke-go/invoke/pkg/namespace"
)

type (
	// argContext is the flag table of one task (or of the core options).
	argContext struct {
		task       string
		args       []namespace.Argument
		long       map[string]int
		short      map[rune]int
		positional []int
		// helpAware makes an undeclared --help (or a lone -h) request help
		// for the task instead of failing.
		helpAware bool
	}

	// blockState tracks values while a block is consumed.
	blockState struct {
		vals  namespace.Values
		given map[int]bool
		help  bool
	}

	// split is one way to read a short flag cluster: leading booleans, a
	// terminal flag, and the value stuck to the terminal flag (if any).
	split struct {
		lead     []int
		term     int
		value    string
		hasValue bool
	}
)

func newArgContext(task string, args []namespace.Argument, flags []namespace.Flag, positional []string) *argContext {
	ac := &argContext{
		task:  task,
		args:  args,
		long:  make(map[string]int),
		short: make(map[rune]int),
	}
	for _, f := range flags {
		for _, l := range f.Long {
			ac.long[l] = f.Index
		}
		for _, s := range f.Short {
			ac.short[s] = f.Index
		}
	}
	for _, p := range positional {
		norm := namespace.NormalizeFlagName(p)
		for i := range args {
			if namespace.NormalizeFlagName(args[i].Name) == norm {
				ac.positional = append(ac.positional, i)
			}
		}
	}
	return ac
}

// ParseArgs resolves the argument block of one task invocation. tokens
// start right after the task name. Parsing stops at "--", at end of input,
// or at the first bare token once every positional slot is filled; the
// number of consumed tokens is returned with the values. Defaults are
// applied to every argument not given.
func ParseArgs(task *namespace.Task, name string, tokens []string) (namespace.Values, int, error) {
	st, n, err := parseTaskBlock(task, name, tokens)
	if err != nil {
		return nil, 0, err
	}
	return st.vals, n, nil
}

func parseTaskBlock(task *namespace.Task, name string, tokens []string) (*blockState, int, error) {
	ac := newArgContext(name, task.Args(), task.Flags(), task.Positional())
	ac.helpAware = true
	return ac.parseBlock(tokens)
}

func (ac *argContext) parseBlock(tokens []string) (*blockState, int, error) {
	st := &blockState{vals: make(namespace.Values, len(ac.args)), given: make(map[int]bool)}
	for i := range ac.args {
		st.vals[ac.args[i].Name] = ac.args[i].DefaultValue()
	}

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		var (
			n   int
			err error
		)
		switch {
		case tok == "--":
			return ac.finish(st, i)
		case strings.HasPrefix(tok, "--"):
			n, err = ac.parseLong(st, tok, tokens[i+1:])
		case isShortFlag(tok):
			n, err = ac.parseShort(st, tok, tokens[i+1:])
		default:
			slot := ac.nextSlot(st)
			if slot < 0 {
				return ac.finish(st, i)
			}
			err = ac.set(st, slot, tok)
		}
		if err != nil {
			return nil, 0, err
		}
		i += 1 + n
	}
	return ac.finish(st, i)
}

func (ac *argContext) finish(st *blockState, consumed int) (*blockState, int, error) {
	if st.help {
		return st, consumed, nil
	}
	for _, idx := range ac.positional {
		if !st.given[idx] {
			return nil, 0, &MissingArgumentError{Task: ac.task, Argument: ac.args[idx].Name}
		}
	}
	return st, consumed, nil
}

func (ac *argContext) nextSlot(st *blockState) int {
	for _, idx := range ac.positional {
		if !st.given[idx] {
			return idx
		}
	}
	return -1
}

func isShortFlag(tok string) bool {
	return len(tok) > 1 && tok[0] == '-' && tok[1] != '-'
}

func looksLikeFlag(tok string) bool {
	return strings.HasPrefix(tok, "-") && tok != "-"
}

// parseLong handles --name, --name=value, --name value and --no-name.
func (ac *argContext) parseLong(st *blockState, tok string, rest []string) (int, error) {
	name, inline, hasInline := strings.Cut(tok[2:], "=")
	norm := namespace.NormalizeFlagName(name)

	if idx, ok := ac.long[norm]; ok {
		return ac.assign(st, idx, "--"+name, inline, hasInline, rest)
	}
	if ac.helpAware && norm == "help" && !hasInline {
		st.help = true
		return 0, nil
	}
	if base, ok := strings.CutPrefix(norm, "no-"); ok && !hasInline {
		if idx, ok := ac.long[base]; ok && ac.args[idx].Kind == namespace.KindBool && ac.args[idx].Default == true {
			st.vals[ac.args[idx].Name] = false
			st.given[idx] = true
			return 0, nil
		}
	}
	return 0, &UnknownOptionError{Task: ac.task, Option: "--" + name}
}

// parseShort handles -x, -x value, -x=value, -xvalue and bundles such as
// -bv. Bundles are resolved by trying every split and keeping the first
// that assigns an adjacent value, else the first that is valid at all.
func (ac *argContext) parseShort(st *blockState, tok string, rest []string) (int, error) {
	body := tok[1:]

	if head, inline, ok := strings.Cut(body, "="); ok {
		runes := []rune(head)
		if len(runes) == 0 {
			return 0, &UnknownOptionError{Task: ac.task, Option: tok}
		}
		lead, ok := ac.booleans(runes[:len(runes)-1])
		term, known := ac.short[runes[len(runes)-1]]
		if !ok || !known {
			return 0, ac.clusterError(tok, runes)
		}
		ac.setLeading(st, lead)
		return ac.assign(st, term, "-"+string(runes[len(runes)-1]), inline, true, rest)
	}

	runes := []rune(body)
	if _, declared := ac.short['h']; ac.helpAware && body == "h" && !declared {
		st.help = true
		return 0, nil
	}
	candidates := ac.splits(runes)
	if len(candidates) == 0 {
		return 0, ac.clusterError(tok, runes)
	}
	chosen := candidates[0]
	for _, c := range candidates {
		if c.hasValue {
			chosen = c
			break
		}
	}
	ac.setLeading(st, chosen.lead)
	spelling := "-" + string(runes[len(chosen.lead)])
	return ac.assign(st, chosen.term, spelling, chosen.value, chosen.hasValue, rest)
}

// splits enumerates every admissible reading of a short flag cluster.
func (ac *argContext) splits(runes []rune) []split {
	var out []split
	for k := range runes {
		lead, ok := ac.booleans(runes[:k])
		if !ok {
			break
		}
		term, known := ac.short[runes[k]]
		if !known {
			continue
		}
		remainder := string(runes[k+1:])
		if !ac.args[term].TakesValue() {
			if remainder == "" {
				out = append(out, split{lead: lead, term: term})
			}
			continue
		}
		out = append(out, split{lead: lead, term: term, value: remainder, hasValue: remainder != ""})
	}
	return out
}

func (ac *argContext) booleans(runes []rune) ([]int, bool) {
	idxs := make([]int, 0, len(runes))
	for _, r := range runes {
		idx, ok := ac.short[r]
		if !ok || ac.args[idx].TakesValue() {
			return nil, false
		}
		idxs = append(idxs, idx)
	}
	return idxs, true
}

func (ac *argContext) setLeading(st *blockState, lead []int) {
	for _, idx := range lead {
		st.vals[ac.args[idx].Name] = true
		st.given[idx] = true
	}
}

func (ac *argContext) clusterError(tok string, runes []rune) error {
	if len(runes) == 0 {
		return &UnknownOptionError{Task: ac.task, Option: tok}
	}
	if _, ok := ac.short[runes[0]]; !ok || len(runes) == 1 {
		return &UnknownOptionError{Task: ac.task, Option: "-" + string(runes[0])}
	}
	return &AmbiguousBundleError{Task: ac.task, Token: tok}
}

// assign stores the value for one flag and reports how many of the
// following tokens it consumed. A valued flag without an inline value
// always takes the next token, whatever it looks like.
func (ac *argContext) assign(st *blockState, idx int, spelling, inline string, hasInline bool, rest []string) (int, error) {
	arg := &ac.args[idx]
	switch {
	case !arg.TakesValue():
		if !hasInline {
			st.vals[arg.Name] = true
			st.given[idx] = true
			return 0, nil
		}
		b, err := strconv.ParseBool(inline)
		if err != nil {
			return 0, &InvalidValueError{Task: ac.task, Argument: arg.Name, Value: inline, Cause: err}
		}
		st.vals[arg.Name] = b
		st.given[idx] = true
		return 0, nil
	case hasInline:
		return 0, ac.set(st, idx, inline)
	case arg.Optional:
		if len(rest) > 0 && !looksLikeFlag(rest[0]) {
			return 1, ac.set(st, idx, rest[0])
		}
		st.vals[arg.Name] = true
		st.given[idx] = true
		return 0, nil
	case len(rest) == 0:
		return 0, &MissingArgumentError{Task: ac.task, Argument: arg.Name, Flag: spelling}
	default:
		return 1, ac.set(st, idx, rest[0])
	}
}

func (ac *argContext) set(st *blockState, idx int, raw string) error {
	arg := &ac.args[idx]
	if arg.Iterable {
		list := st.vals.Strings(arg.Name)
		if !st.given[idx] {
			list = nil
		}
		st.vals[arg.Name] = append(list, raw)
		st.given[idx] = true
		return nil
	}
	v, err := arg.Convert(raw)
	if err != nil {
		return &InvalidValueError{Task: ac.task, Argument: arg.Name, Value: raw, Cause: err}
	}
	st.vals[arg.Name] = v
	st.given[idx] = true
	return nil
}
