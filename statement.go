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

package batis

import (
	"strings"

	"github.com/go-batisdev/batis/eval"
	"github.com/go-batisdev/batis/node"
)

// Action is the statement kind of a mapped statement.
type Action string

const (
	Select Action = "select"
	Insert Action = "insert"
	Update Action = "update"
	Delete Action = "delete"
)

// actionOf maps an element name to its statement kind.
func actionOf(name string) (Action, bool) {
	switch action := Action(name); action {
	case Select, Insert, Update, Delete:
		return action, true
	default:
		return "", false
	}
}

// Statement is one mapped statement parsed from a mapper document.
type Statement struct {
	mapper        *Mapper
	id            string
	action        Action
	parameterType string
	resultType    string
	resultMap     string
	sql           string
	dynamicSQL    node.Node
	parameters    []string
}

// ID returns the unique key of the statement within its mapper.
func (s *Statement) ID() string {
	return s.id
}

// Action returns the statement kind.
func (s *Statement) Action() Action {
	return s.action
}

// ParameterType returns the declared parameterType attribute, if any.
func (s *Statement) ParameterType() string {
	return s.parameterType
}

// ResultType returns the declared resultType attribute, if any.
func (s *Statement) ResultType() string {
	return s.resultType
}

// ResultMapID returns the declared resultMap attribute, if any.
func (s *Statement) ResultMapID() string {
	return s.resultMap
}

// SQL returns the best-effort concatenation of the statement's literal text
// runs. It is raw material for parameter discovery and debugging, not
// renderable SQL.
func (s *Statement) SQL() string {
	return s.sql
}

// DynamicSQL returns the root of the statement's dynamic-SQL tree, or nil
// for an empty body. A single top-level node is the root itself; multiple
// nodes are grouped under a neutral trim.
func (s *Statement) DynamicSQL() node.Node {
	return s.dynamicSQL
}

// Parameters returns the #{...} placeholder names discovered in the literal
// text, deduplicated in first-seen order.
func (s *Statement) Parameters() []string {
	return s.parameters
}

// Build renders the statement against the given parameter environment,
// resolving fragment references through the statement's mapper.
func (s *Statement) Build(p eval.Params) string {
	return GenerateSQL(s.dynamicSQL, p, s.mapper)
}

// extractParameters scans literal SQL text for #{...} placeholders and
// collects their names in first-seen order without duplicates. The name is
// whatever precedes the first ':' or ',' inside the braces, so attribute
// suffixes like #{id,jdbcType=BIGINT} yield "id".
func extractParameters(sql string) []string {
	var parameters []string
	seen := make(map[string]struct{})
	for _, match := range paramNameRegexp.FindAllStringSubmatch(sql, -1) {
		name := match[1]
		if cut := strings.IndexAny(name, ":,"); cut >= 0 {
			name = name[:cut]
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		parameters = append(parameters, name)
	}
	return parameters
}
