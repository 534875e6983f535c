// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	DumpNotFoundId Id = iota + 1
	InterpreterNotFoundId
	InterpreterStartFailedId
	ModuleImportFailedId
	ScriptCheckFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	name     string      // stable name used on the CLI (volprobe explain <name>)
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // upstream documentation links
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Name() string {
	return i.name
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	dumpNotFoundIssue = &Issue{
		id:   DumpNotFoundId,
		name: "dump-not-found",
		mdMsg: `
# Dump file doesn't exist!

The configured memory dump path was not found on disk. Nothing else is
checked when the dump is missing, because every later step depends on it.

## Things you can try:
- Check the path for typos (the probe prints it with --verbose)
- Pass the path explicitly:
~~~
$ volprobe run /path/to/memory.dmp
~~~
- Or set it once in your config file:
~~~cue
dump_path: "/path/to/memory.dmp"
~~~`,
	}

	interpreterNotFoundIssue = &Issue{
		id:   InterpreterNotFoundId,
		name: "interpreter-not-found",
		mdMsg: `
# No Python interpreter found!

The probe could not discover a Python interpreter on this system.

## Discovery order:
1. ` + "`python.interpreter`" + ` in your config file
2. The VOLPROBE_PYTHON environment variable
3. ` + "`python3`" + `, then ` + "`python`" + `, on your PATH

## Things you can try:
- Install Python 3 (3.8 or later is required by Volatility 3)
- Point the probe at a specific interpreter:
~~~
$ VOLPROBE_PYTHON=/usr/local/bin/python3.12 volprobe run dump.dmp
~~~`,
		docLinks: []HttpLink{
			"https://www.python.org/downloads/",
		},
	}

	interpreterStartFailedIssue = &Issue{
		id:   InterpreterStartFailedId,
		name: "interpreter-start-failed",
		mdMsg: `
# Python interpreter failed to start!

An interpreter executable was found but did not start cleanly.

## Common causes:
- A broken virtualenv (its base interpreter was removed or upgraded)
- A shim script on PATH that is not a real interpreter
- Missing shared libraries (check with ` + "`ldd`" + ` on Linux)

## Things you can try:
- Run the interpreter by hand and inspect its output:
~~~
$ python3 -c pass
~~~
- Recreate the virtualenv the probe is pointed at`,
	}

	moduleImportFailedIssue = &Issue{
		id:   ModuleImportFailedId,
		name: "module-import-failed",
		mdMsg: `
# A volatility3 module failed to import!

The interpreter started, but a required module could not be resolved.
This almost always means Volatility 3 is not installed in the interpreter
the probe discovered, or is installed without the Windows plugins.

## Things you can try:
- Install Volatility 3 into that interpreter:
~~~
$ python3 -m pip install volatility3
~~~
- If you use a virtualenv for forensics work, point the probe at it:
~~~
$ VOLPROBE_PYTHON=~/venvs/vol3/bin/python volprobe run dump.dmp
~~~
- Re-run with --verbose to see the interpreter's full import error`,
		docLinks: []HttpLink{
			"https://volatility3.readthedocs.io/en/latest/basics.html",
		},
	}

	scriptCheckFailedIssue = &Issue{
		id:   ScriptCheckFailedId,
		name: "script-check-failed",
		mdMsg: `
# An extra environment check failed!

A custom check from the ` + "`checks`" + ` section of your config file exited
non-zero. Extra checks run in the built-in POSIX shell after the module
imports succeed, so a failure here means the core environment is fine but
something you asked for on top of it is not.

## Things you can try:
- Run the check script by hand in a POSIX shell
- Remove or fix the failing entry in your config:
~~~cue
checks: [
  {name: "vol cli", script: "command -v vol"},
]
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		name: "config-load-failed",
		mdMsg: `
# Failed to load configuration!

Your config file exists but could not be parsed or validated.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- An empty ` + "`modules`" + ` list (at least one module is required)

## Things you can try:
- Check the error message above for the specific line/column
- Compare against a freshly generated config:
~~~
$ volprobe config init
~~~
- Show the effective configuration:
~~~
$ volprobe config show
~~~`,
	}

	issues = map[Id]*Issue{
		dumpNotFoundIssue.Id():           dumpNotFoundIssue,
		interpreterNotFoundIssue.Id():    interpreterNotFoundIssue,
		interpreterStartFailedIssue.Id(): interpreterStartFailedIssue,
		moduleImportFailedIssue.Id():     moduleImportFailedIssue,
		scriptCheckFailedIssue.Id():      scriptCheckFailedIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}

// GetByName looks up an issue by its CLI-facing name. Returns nil if no
// issue has that name.
func GetByName(name string) *Issue {
	for _, i := range issues {
		if i.name == name {
			return i
		}
	}
	return nil
}
