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

package node

import (
	"strings"
	"unicode"

	"github.com/go-batisdev/batis/eval"
)

// defaultWherePrefixOverrides keeps the trailing spaces on purpose: "AND "
// strips the keyword only when a separator follows, so an identifier such as
// ANDY survives.
var defaultWherePrefixOverrides = []string{"AND ", "OR "}

// WhereNode represents a SQL WHERE clause wrapper.
//
// Examples:
//
//	Body: "AND id = 1"   -> Output: "WHERE id = 1"
//	Body: "OR name = 'x'" -> Output: "WHERE name = 'x'"
//	Body: ""              -> Output: ""
type WhereNode struct {
	Nodes           NodeGroup
	PrefixOverrides []string
	SuffixOverrides []string
}

// Accept renders the body, strips a leading AND/OR (or the configured
// overrides), and prepends WHERE when anything is left.
func (w WhereNode) Accept(ctx *Context, p eval.Params) string {
	query := w.Nodes.Accept(ctx, p)

	overrides := w.PrefixOverrides
	if len(overrides) == 0 {
		overrides = defaultWherePrefixOverrides
	}
	query = stripPrefix(query, overrides)
	query = stripSuffix(query, w.SuffixOverrides)
	if query == "" {
		return ""
	}
	return "WHERE " + strings.TrimLeftFunc(query, unicode.IsSpace)
}

var _ Node = (*WhereNode)(nil)
