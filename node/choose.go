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

// ChooseNode implements a switch-like conditional structure for SQL
// generation. It evaluates its branches in document order and renders the
// first whose test holds, falling back to an optional otherwise branch.
//
// Example XML:
//
//	<choose>
//	  <when test="id != null">
//	    AND id = #{id}
//	  </when>
//	  <when test="name != null">
//	    AND name = #{name}
//	  </when>
//	  <otherwise>
//	    AND status = 'ACTIVE'
//	  </otherwise>
//	</choose>
type ChooseNode struct {
	WhenNodes     []*WhenNode
	OtherwiseNode Node
}

// Accept renders the first branch whose test evaluates true.
func (c ChooseNode) Accept(ctx *Context, p eval.Params) string {
	for _, when := range c.WhenNodes {
		if when.Match(ctx, p) {
			return when.Nodes.Accept(ctx, p)
		}
	}
	if c.OtherwiseNode != nil {
		return c.OtherwiseNode.Accept(ctx, p)
	}
	return ""
}

var _ Node = (*ChooseNode)(nil)
