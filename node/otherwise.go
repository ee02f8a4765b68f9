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

// OtherwiseNode represents the default branch in a <choose> statement,
// rendered when none of the <when> conditions are met.
type OtherwiseNode struct {
	Nodes NodeGroup
}

// Accept renders the default branch body.
func (o OtherwiseNode) Accept(ctx *Context, p eval.Params) string {
	return o.Nodes.Accept(ctx, p)
}

var _ Node = (*OtherwiseNode)(nil)
