// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	CollectionNotFoundId Id = iota + 1
	CollectionParseErrorId
	TaskNotFoundId
	ArgumentParseErrorId
	ConfigLoadFailedId
	ShellNotFoundId
	CommandFailedId
	PreRequisiteLoopId
	InvalidHideModeId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "](" + string(link) + ")\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	collectionNotFoundIssue = &Issue{
		id: CollectionNotFoundId,
		mdMsg: `
# No task collection found!

We looked for a tasks file in the current directory and every parent
directory but couldn't find one.

## Accepted file names (first match wins):
1. tasks.cue
2. tasks.yaml / tasks.yml
3. tasks.toml

## Things you can try:
- Create a tasks file in your project root:
~~~cue
tasks: [
  {
    name: "build"
    help: "Build the project"
    run:  ["go build ./..."]
  },
]
~~~

- Or point at another collection name or search root:
~~~
$ inv -c mytasks build
$ inv -r ./tools build
~~~`,
		extLinks: []HttpLink{"https://docs.pyinvoke.org/en/stable/concepts/loading.html"},
	}

	collectionParseErrorIssue = &Issue{
		id: CollectionParseErrorId,
		mdMsg: `
# Failed to load the task collection!

The tasks file exists but could not be decoded or validated.

## Things you can try:
- Check the file for syntax errors near the reported position
- Make sure every task has a non-empty 'name'
- Make sure every 'pre' entry names a task that exists
- Make sure argument 'type' is one of: string, bool, int, list`,
	}

	taskNotFoundIssue = &Issue{
		id: TaskNotFoundId,
		mdMsg: `
# Task not found!

The task you asked for does not exist in the loaded collection.

## Things you can try:
- List the available tasks:
~~~
$ inv --list
~~~

- Subcollection tasks are addressed with dots, e.g. 'docs.build'`,
	}

	argumentParseErrorIssue = &Issue{
		id: ArgumentParseErrorId,
		mdMsg: `
# Could not parse the command line!

## Things you can try:
- Check the options a task accepts:
~~~
$ inv --help <task>
~~~

- Values that look like flags must be attached with '=': --name=-x
- Everything after '--' is passed through untouched`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the syntax of your config.cue
- Remove unknown keys; the configuration schema is closed
- Valid values for run.hide are: "", out, err, both
- Valid values for run.shell are: native, virtual

## Example config.cue:
~~~cue
tasks: {
  collection: "tasks"
  dedupe:     true
}
run: {
  echo:  false
  shell: "native"
}
~~~`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

The native shell used to run task commands is not available.

## Things you can try:
- Install bash or make sure 'sh' is on your PATH
- Point run.shell_path at a shell in your config.cue
- Switch to the built-in interpreter:
~~~cue
run: shell: "virtual"
~~~`,
	}

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# A task command failed!

A shell command run by a task exited with a non-zero status.

## Things you can try:
- Re-run with --echo to see each command before it runs
- Re-run with --debug for verbose logging
- Use --warn-only to keep going when a command fails`,
	}

	preRequisiteLoopIssue = &Issue{
		id: PreRequisiteLoopId,
		mdMsg: `
# Pre-requisite loop detected!

A task (directly or through other tasks) lists itself as a pre-requisite.

## Things you can try:
- Review the 'pre' lists of the tasks involved and remove the loop`,
	}

	invalidHideModeIssue = &Issue{
		id: InvalidHideModeId,
		mdMsg: `
# Invalid --hide value!

## Valid values:
- stdout (or out)
- stderr (or err)
- both
- none`,
	}

	issues = map[Id]*Issue{
		collectionNotFoundIssue.Id():   collectionNotFoundIssue,
		collectionParseErrorIssue.Id(): collectionParseErrorIssue,
		taskNotFoundIssue.Id():         taskNotFoundIssue,
		argumentParseErrorIssue.Id():   argumentParseErrorIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		shellNotFoundIssue.Id():        shellNotFoundIssue,
		commandFailedIssue.Id():        commandFailedIssue,
		preRequisiteLoopIssue.Id():     preRequisiteLoopIssue,
		invalidHideModeIssue.Id():      invalidHideModeIssue,
	}
)

// Values returns every registered issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
