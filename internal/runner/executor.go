// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/invoke-go/invoke/internal/plan"
	"github.com/invoke-go/invoke/pkg/namespace"
)

const (
	// ArgEnvPrefix prefixes the environment variables carrying task arguments.
	ArgEnvPrefix = "INVOKE_ARG_"
	// TaskEnvVar holds the dotted name of the running task.
	TaskEnvVar = "INVOKE_TASK"
	// RemainderEnvVar holds everything given after "--" on the command line.
	RemainderEnvVar = "INVOKE_REMAINDER"
)

// Executor runs task bodies with a context derived from a dispatch-wide base.
type Executor struct {
	base      *Context
	remainder string
}

var _ plan.Executor = (*Executor)(nil)

// NewExecutor creates an executor. remainder is exported to every task.
func NewExecutor(base *Context, remainder string) *Executor {
	return &Executor{base: base, remainder: remainder}
}

// Execute calls the invocation's body. Arguments are exported to shell
// commands as INVOKE_ARG_<NAME> and positional arguments become $1, $2, ...
func (e *Executor) Execute(ctx context.Context, inv plan.Invocation) error {
	body := inv.Task.Body()
	if body == nil {
		e.base.logger.Debug("task has no body", "task", inv.Name)
		return nil
	}

	env := ArgEnv(inv.Args)
	env[TaskEnvVar] = inv.Name
	if e.remainder != "" {
		env[RemainderEnvVar] = e.remainder
	}
	params := make([]string, 0, len(inv.Task.Positional()))
	for _, name := range inv.Task.Positional() {
		params = append(params, FormatValue(inv.Args[name]))
	}

	c := e.base.Derive(env, params)
	c.ctx = ctx
	return body(c, inv.Args)
}

// ArgEnv converts argument values to environment variables.
func ArgEnv(args namespace.Values) map[string]string {
	env := make(map[string]string, len(args)+2)
	for name, v := range args {
		env[ArgEnvName(name)] = FormatValue(v)
	}
	return env
}

// ArgEnvName returns the environment variable name for an argument.
func ArgEnvName(name string) string {
	return ArgEnvPrefix + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}

// FormatValue renders an argument value as shell-visible text. Lists are
// joined as shell-quoted words.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case []string:
		words := make([]string, len(val))
		for i, w := range val {
			words[i] = Quote(w)
		}
		return strings.Join(words, " ")
	default:
		return fmt.Sprint(val)
	}
}
