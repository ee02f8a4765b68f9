/*
Copyright 2023 eatmoreapple

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package node defines the dynamic-SQL node tree and its rendering rules.
package node

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-batisdev/batis/eval"
)

var (
	// paramRegexp matches parameter placeholders using #{...} syntax.
	// The whole brace content is the parameter path, so MyBatis attribute
	// suffixes like #{id,jdbcType=BIGINT} reach the environment verbatim
	// (and resolve to nothing there).
	paramRegexp = regexp.MustCompile(`#\{([^}]*)\}`)

	// formatRegexp matches string interpolation placeholders using ${...}
	// syntax. Unlike paramRegexp, values are spliced into the SQL text
	// without quoting.
	// WARNING: Be careful with this as it can lead to SQL injection if not
	// properly sanitized.
	formatRegexp = regexp.MustCompile(`\$\{([^}]*)\}`)
)

// FragmentResolver resolves <include refid="..."/> references against a
// mapper's fragment registry.
type FragmentResolver interface {
	Fragment(refid string) (NodeGroup, bool)
}

// Diagnostic is a structured generation-time warning. Rendering never fails;
// anomalies degrade to empty or NULL output and are reported here instead.
type Diagnostic struct {
	// Kind classifies the anomaly: missing-parameter, missing-fragment or
	// bad-condition.
	Kind string
	// Name is the parameter path, fragment id or test expression involved.
	Name string
	// Detail describes what the renderer did about it.
	Detail string
}

// Sink receives diagnostics during rendering.
type Sink func(Diagnostic)

// Context carries the collaborators a node needs while rendering: the
// fragment registry for include resolution and the diagnostic sink. Either
// field may be nil; includes then expand to empty and diagnostics are
// dropped.
type Context struct {
	Fragments FragmentResolver
	Sink      Sink
}

func (c *Context) warn(kind, name, detail string) {
	if c == nil || c.Sink == nil {
		return
	}
	c.Sink(Diagnostic{Kind: kind, Name: name, Detail: detail})
}

// Node is the fundamental interface for all dynamic-SQL components. Accept
// renders the node against a parameter environment and returns the SQL
// fragment it contributes; an empty string means the node vanishes from the
// output.
type Node interface {
	Accept(ctx *Context, p eval.Params) string
}

// NodeGroup wraps multiple nodes into a single node.
type NodeGroup []Node

// Accept renders every child in order and joins the survivors with single
// spaces. Results that are blank after trimming are discarded, carriage
// returns are dropped and newlines collapse to one space, so XML indentation
// does not leak blank lines into the output while spacing inside text nodes
// is preserved.
func (g NodeGroup) Accept(ctx *Context, p eval.Params) string {
	if len(g) == 0 {
		return ""
	}
	builder := getStringBuilder()
	defer putStringBuilder(builder)

	for _, n := range g {
		part := strings.TrimSpace(n.Accept(ctx, p))
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "\r", "")
		part = strings.ReplaceAll(part, "\n", " ")
		if builder.Len() > 0 {
			builder.WriteString(" ")
		}
		builder.WriteString(part)
	}
	return builder.String()
}

var _ Node = (NodeGroup)(nil)

// stripPrefix removes the first matching override token from the head of s,
// then any whitespace the token left behind. First match wins.
func stripPrefix(s string, overrides []string) string {
	for _, override := range overrides {
		if override != "" && strings.HasPrefix(s, override) {
			return strings.TrimLeftFunc(s[len(override):], unicode.IsSpace)
		}
	}
	return s
}

// stripSuffix is the tail-side counterpart of stripPrefix.
func stripSuffix(s string, overrides []string) string {
	for _, override := range overrides {
		if override != "" && strings.HasSuffix(s, override) {
			return strings.TrimRightFunc(s[:len(s)-len(override)], unicode.IsSpace)
		}
	}
	return s
}

// joinWithSpace glues an affix onto a body with exactly one space between
// them when both sides are non-empty.
func joinWithSpace(left, right string) string {
	left = strings.TrimRightFunc(left, unicode.IsSpace)
	right = strings.TrimLeftFunc(right, unicode.IsSpace)
	switch {
	case left == "":
		return right
	case right == "":
		return left
	default:
		return left + " " + right
	}
}
