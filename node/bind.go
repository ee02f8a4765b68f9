/*
Copyright 2025 eatmoreapple

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

// BindNode represents a named bind variable declared with <bind>. The
// declaration is carried in the tree but does not currently extend the
// environment; rendering it produces nothing.
type BindNode struct {
	Name  string
	Value string
}

// Accept implements Node.
func (b BindNode) Accept(_ *Context, _ eval.Params) string {
	return ""
}

var _ Node = (*BindNode)(nil)
