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

// IncludeNode references a reusable SQL fragment declared with <sql id="...">,
// enabling fragment reuse across statements.
//
// Example XML:
//
//	<sql id="userFields">
//	  id, name, age, status
//	</sql>
//
//	<select id="getUsers">
//	  SELECT
//	  <include refid="userFields"/>
//	  FROM users
//	</select>
//
// The reference is resolved through the rendering context at generation
// time. A refid with no registered fragment expands to nothing and raises a
// missing-fragment diagnostic.
type IncludeNode struct {
	RefID string
}

// Accept expands the referenced fragment under the current environment.
func (i IncludeNode) Accept(ctx *Context, p eval.Params) string {
	if ctx == nil || ctx.Fragments == nil {
		return ""
	}
	fragment, ok := ctx.Fragments.Fragment(i.RefID)
	if !ok {
		ctx.warn("missing-fragment", i.RefID, "expanding to empty")
		return ""
	}
	return fragment.Accept(ctx, p)
}

var _ Node = (*IncludeNode)(nil)
