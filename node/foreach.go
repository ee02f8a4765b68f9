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
	"maps"
	"strings"

	"github.com/go-batisdev/batis/eval"
)

// ForeachNode represents a dynamic SQL fragment that iterates over a
// collection. It is commonly used for IN clauses and batch inserts.
//
// Fields:
//   - Collection: key of the sequence to iterate over
//   - Item: binding name for the current element
//   - Index: binding name for the zero-based position; empty means unbound
//   - Open, Close: literals wrapped around the whole expansion
//   - Separator: literal emitted between consecutive iterations
//   - Nodes: body rendered once per element
//
// Example XML:
//
//	<foreach collection="list" item="item" open="(" separator="," close=")">
//	  #{item}
//	</foreach>
//
// An absent or empty collection renders nothing at all; Open and Close are
// only emitted around at least one iteration.
type ForeachNode struct {
	Collection string
	Item       string
	Index      string
	Open       string
	Separator  string
	Close      string
	Nodes      NodeGroup
}

// Accept expands the body once per collection element under a child
// environment that inherits the parent bindings plus the item and index
// bindings. Iterations and separators are joined with single spaces, the way
// sibling nodes are.
func (f ForeachNode) Accept(ctx *Context, p eval.Params) string {
	items, ok := p.Collection(f.Collection)
	if !ok {
		// fall back to a scalar lookup carrying an array value
		if v, exists := p.Param(f.Collection); exists {
			items, ok = v.([]any)
		}
	}
	if !ok || len(items) == 0 {
		return ""
	}

	scope := childScope(p)
	parts := make([]string, 0, 2*len(items))
	for i, item := range items {
		if i > 0 && f.Separator != "" {
			parts = append(parts, f.Separator)
		}
		if f.Item != "" {
			scope[f.Item] = item
		}
		if f.Index != "" {
			scope[f.Index] = i
		}
		if part := f.Nodes.Accept(ctx, scope); strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return f.Open + strings.Join(parts, " ") + f.Close
}

// childScope clones the parent bindings into a fresh object map so iteration
// bindings never alias into the parent. Environments that cannot expose
// their bindings start the scope empty; their outer bindings are invisible
// to the body.
func childScope(p eval.Params) eval.H {
	if s, ok := p.(eval.Snapshotter); ok {
		return eval.H(maps.Clone(s.Snapshot()))
	}
	return eval.H{}
}

var _ Node = (*ForeachNode)(nil)
