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

var defaultSetSuffixOverrides = []string{","}

// SetNode represents an SQL SET clause for UPDATE statements. It strips the
// trailing comma left behind by conditionally rendered assignments and
// prepends SET when anything is left.
//
// Example XML:
//
//	UPDATE users
//	<set>
//	  <if test="name != null">name = #{name},</if>
//	  <if test="age != null">age = #{age},</if>
//	</set>
//	WHERE id = #{id}
type SetNode struct {
	Nodes           NodeGroup
	PrefixOverrides []string
	SuffixOverrides []string
}

// Accept renders the body, strips the trailing comma (or the configured
// overrides), and prepends SET when anything is left.
func (s SetNode) Accept(ctx *Context, p eval.Params) string {
	query := s.Nodes.Accept(ctx, p)

	query = stripPrefix(query, s.PrefixOverrides)
	overrides := s.SuffixOverrides
	if len(overrides) == 0 {
		overrides = defaultSetSuffixOverrides
	}
	query = stripSuffix(query, overrides)
	if query == "" {
		return ""
	}
	return "SET " + strings.TrimLeftFunc(query, unicode.IsSpace)
}

var _ Node = (*SetNode)(nil)
