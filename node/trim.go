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
	"github.com/go-batisdev/batis/eval"
)

// TrimNode handles SQL fragment cleanup by managing prefixes, suffixes, and
// their overrides. It is the workhorse behind dynamically assembled clauses
// where a leading AND or a trailing comma may or may not be present.
//
// Fields:
//   - Nodes: child nodes containing the SQL fragments
//   - Prefix: string to prepend when the body is non-empty
//   - PrefixOverrides: tokens removed from the head of the body, first match
//     wins
//   - Suffix: string to append when the body is non-empty
//   - SuffixOverrides: tokens removed from the tail of the body
//
// A TrimNode with no prefix, suffix or overrides is a neutral grouping node;
// the parser uses one to give multi-node statement bodies a single root.
//
// Example XML:
//
//	<trim prefix="WHERE" prefixOverrides="AND ,OR ">
//	  <if test="id != null">
//	    AND id = #{id}
//	  </if>
//	</trim>
type TrimNode struct {
	Nodes           NodeGroup
	Prefix          string
	PrefixOverrides []string
	Suffix          string
	SuffixOverrides []string
}

// Accept renders the body, strips matching override tokens from either end,
// then applies the prefix and suffix with single-space joins. An empty body
// suppresses both affixes.
func (t TrimNode) Accept(ctx *Context, p eval.Params) string {
	query := t.Nodes.Accept(ctx, p)
	if query == "" {
		return ""
	}

	query = stripPrefix(query, t.PrefixOverrides)
	query = stripSuffix(query, t.SuffixOverrides)
	if query == "" {
		return ""
	}

	if t.Prefix != "" {
		query = joinWithSpace(t.Prefix, query)
	}
	if t.Suffix != "" {
		query = joinWithSpace(query, t.Suffix)
	}
	return query
}

var _ Node = (*TrimNode)(nil)
