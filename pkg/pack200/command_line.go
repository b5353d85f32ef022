// SPDX-License-Identifier: MPL-2.0

package pack200

import (
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// CommandLine is an ordered, immutable sequence of tokens. The first token is
// the executable. Accessors return copies so callers cannot mutate it.
type CommandLine struct {
	tokens []string
}

// NewCommandLine creates a CommandLine from an executable and its arguments.
func NewCommandLine(executable string, args ...string) CommandLine {
	tokens := make([]string, 0, len(args)+1)
	tokens = append(tokens, executable)
	tokens = append(tokens, args...)
	return CommandLine{tokens: tokens}
}

// Executable returns the first token.
func (c CommandLine) Executable() string {
	if len(c.tokens) == 0 {
		return ""
	}
	return c.tokens[0]
}

// Args returns a copy of every token after the executable.
func (c CommandLine) Args() []string {
	if len(c.tokens) < 2 {
		return nil
	}
	return slices.Clone(c.tokens[1:])
}

// Tokens returns a copy of all tokens, executable first.
func (c CommandLine) Tokens() []string {
	return slices.Clone(c.tokens)
}

// Len returns the number of tokens including the executable.
func (c CommandLine) Len() int { return len(c.tokens) }

// IsZero reports whether the command line has no tokens.
func (c CommandLine) IsZero() bool { return len(c.tokens) == 0 }

// Index returns the position of the first token equal to tok, or -1.
func (c CommandLine) Index(tok string) int {
	return slices.Index(c.tokens, tok)
}

// Contains reports whether any token equals tok.
func (c CommandLine) Contains(tok string) bool {
	return c.Index(tok) >= 0
}

// JoinedArgs returns the arguments joined by single spaces, without quoting.
func (c CommandLine) JoinedArgs() string {
	return strings.Join(c.Args(), " ")
}

// String renders the command line with each token quoted for a POSIX shell,
// so that paths with spaces can be copied out of logs.
func (c CommandLine) String() string {
	quoted := make([]string, 0, len(c.tokens))
	for _, tok := range c.tokens {
		q, err := syntax.Quote(tok, syntax.LangPOSIX)
		if err != nil {
			// Quote only fails on tokens no shell can represent (NUL bytes).
			q = tok
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " ")
}
