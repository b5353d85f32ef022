// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	CommandFailedId Id = iota + 1
	ExecutableNotFoundId
	ConfigLoadFailedId
	InvalidOptionsId
	InputNotFoundId
	VerificationFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // tool documentation for the failure
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

// Render renders the issue Markdown with the given glamour style
// ("dark", "light", "notty" or a JSON style path).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

const (
	pack200DocLink   HttpLink = "https://docs.oracle.com/javase/8/docs/technotes/tools/unix/pack200.html"
	unpack200DocLink HttpLink = "https://docs.oracle.com/javase/8/docs/technotes/tools/unix/unpack200.html"
)

var (
	render = glamour.Render

	commandFailedIssue = &Issue{
		id: CommandFailedId,
		mdMsg: `
# Command is failed.

The pack200 or unpack200 tool exited with a non-zero status.

## Things you can try:
- Re-run with ` + "`--debug`" + ` to see the exact executable and arguments
- Add ` + "`--verbose`" + ` so the tool reports what it is doing
- Preview the command line without running it:
~~~
$ packwrap pack --dry-run
~~~`,
		docLinks: []HttpLink{pack200DocLink, unpack200DocLink},
	}

	executableNotFoundIssue = &Issue{
		id: ExecutableNotFoundId,
		mdMsg: `
# pack200 tools not found!

packwrap could not start pack200 or unpack200. Both tools ship with
JDK 8 through 13 and were removed in JDK 14.

## Things you can try:
- Point ` + "`JAVA_HOME`" + ` at a JDK that still contains the tools
- Set the executable paths explicitly in packwrap.cue:
~~~cue
executables: {
	pack200:   "/opt/jdk8/bin/pack200"
	unpack200: "/opt/jdk8/bin/unpack200"
}
~~~`,
		docLinks: []HttpLink{pack200DocLink},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Check the CUE syntax and the field named in the error
- Print the effective configuration:
~~~
$ packwrap config show
~~~

- Write a fresh default file:
~~~
$ packwrap config init
~~~`,
	}

	invalidOptionsIssue = &Issue{
		id: InvalidOptionsId,
		mdMsg: `
# Invalid options!

One or more options are missing or have an unknown value.

## Accepted values:
- deflate hint: ` + "`keep`, `true`, `false`" + `
- modification time: ` + "`keep`, `latest`" + `
- unknown attribute: ` + "`error`, `strip`, `pass`" + `
- segment limit: ` + "`-1`" + ` (single segment) or a positive byte count`,
		docLinks: []HttpLink{pack200DocLink},
	}

	inputNotFoundIssue = &Issue{
		id: InputNotFoundId,
		mdMsg: `
# Input file not found!

The input file is resolved relative to the target directory.

## Things you can try:
- Check ` + "`--target`" + ` and ` + "`--input-file`" + `
- Set ` + "`final_name`" + ` in packwrap.cue so the default input name matches your build`,
	}

	verificationFailedIssue = &Issue{
		id: VerificationFailedId,
		mdMsg: `
# Packed archive did not verify!

The tool reported success but the output does not start with the
pack200 magic number ` + "`CAFED00D`" + `.

## Things you can try:
- Run ` + "`packwrap pack --verbose`" + ` and check the tool output
- Make sure ` + "`--output-file`" + ` does not point at another file type`,
		docLinks: []HttpLink{pack200DocLink},
	}

	issues = map[Id]*Issue{
		commandFailedIssue.Id():      commandFailedIssue,
		executableNotFoundIssue.Id(): executableNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		invalidOptionsIssue.Id():     invalidOptionsIssue,
		inputNotFoundIssue.Id():      inputNotFoundIssue,
		verificationFailedIssue.Id(): verificationFailedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, id := range slices.Sorted(maps.Keys(issues)) {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
