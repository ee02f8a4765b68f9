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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-batisdev/batis/eval"
)

func TestNewTextNode(t *testing.T) {
	// static SQL takes the lightweight path
	if _, ok := NewTextNode("SELECT 1").(pureTextNode); !ok {
		t.Fatalf("expected pureTextNode for static SQL")
	}
	if _, ok := NewTextNode("id = #{id}").(*TextNode); !ok {
		t.Fatalf("expected TextNode for dynamic SQL")
	}
}

func TestTextNodeAccept(t *testing.T) {
	env := eval.H{
		"id":     1,
		"name":   "张三",
		"quoted": "O'Brien",
		"flag":   true,
		"rate":   1.5,
		"none":   nil,
		"table":  "users",
		"user":   map[string]any{"name": "李四"},
		"tags":   []any{"a", "b"},
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "Static", text: "SELECT 1", want: "SELECT 1"},
		{name: "QuotedString", text: "name = #{name}", want: "name = '张三'"},
		{name: "QuoteDoubling", text: "name = #{quoted}", want: "name = 'O''Brien'"},
		{name: "BareNumber", text: "id = #{id}", want: "id = 1"},
		{name: "Float", text: "rate = #{rate}", want: "rate = 1.5"},
		{name: "Bool", text: "flag = #{flag}", want: "flag = 1"},
		{name: "PresentNull", text: "x = #{none}", want: "x = NULL"},
		{name: "MissingParam", text: "x = #{missing}", want: "x = NULL"},
		{name: "DottedPath", text: "name = #{user.name}", want: "name = '李四'"},
		{name: "RawInterpolation", text: "SELECT * FROM ${table}", want: "SELECT * FROM users"},
		{name: "RawMissing", text: "SELECT * FROM ${missing}", want: "SELECT * FROM NULL"},
		{name: "RawNumber", text: "LIMIT ${id}", want: "LIMIT 1"},
		{name: "MixedOrder", text: "${table}.id = #{id}", want: "users.id = 1"},
		{name: "CompositeQuoted", text: "tags = #{tags}", want: `tags = '["a","b"]'`},
		{name: "CompositeRaw", text: "tags = ${tags}", want: `tags = ["a","b"]`},
		{
			// the attribute suffix stays inside the path and resolves to nothing
			name: "AttributeSuffixUnresolved",
			text: "id = #{id,jdbcType=BIGINT}",
			want: "id = NULL",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewTextNode(tt.text).Accept(nil, env)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextNodeMissingParameterDiagnostic(t *testing.T) {
	var diagnostics []Diagnostic
	ctx := &Context{Sink: func(d Diagnostic) { diagnostics = append(diagnostics, d) }}

	got := NewTextNode("x = #{missing}").Accept(ctx, eval.H{})
	assert.Equal(t, "x = NULL", got)
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "missing-parameter", diagnostics[0].Kind)
	assert.Equal(t, "missing", diagnostics[0].Name)
}
