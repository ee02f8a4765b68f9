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

// ConditionNode represents a conditional SQL fragment with its test
// expression and child nodes. It is used to conditionally include or exclude
// SQL fragments based on runtime parameters.
type ConditionNode struct {
	test       string
	conditions []eval.Condition
	parseErr   error
	Nodes      NodeGroup
}

// Parse parses the given test expression with the restricted condition
// grammar (" and "-joined key/op/value conjuncts). An expression outside the
// grammar does not fail the document: the error is recorded and the node
// evaluates to false at rendering time.
func (c *ConditionNode) Parse(test string) {
	c.test = test
	c.conditions, c.parseErr = eval.ParseConditions(test)
}

// Match evaluates the test expression against the provided environment.
func (c *ConditionNode) Match(ctx *Context, p eval.Params) bool {
	if c.parseErr != nil {
		ctx.warn("bad-condition", c.test, c.parseErr.Error())
		return false
	}
	return eval.EvaluateConditions(c.conditions, p)
}

// Accept renders the body when the test holds, and nothing otherwise.
func (c *ConditionNode) Accept(ctx *Context, p eval.Params) string {
	if !c.Match(ctx, p) {
		return ""
	}
	return c.Nodes.Accept(ctx, p)
}

var _ Node = (*ConditionNode)(nil)
