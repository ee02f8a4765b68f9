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
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/go-batisdev/batis/eval"
)

// pureTextNode is a node of pure text.
// It is used to avoid unnecessary parameter replacement.
type pureTextNode string

func (p pureTextNode) Accept(_ *Context, _ eval.Params) string {
	return string(p)
}

// TextNode is a node of literal SQL text with placeholder substitution.
// What is the difference between TextNode and pureTextNode?
// TextNode replaces #{...} and ${...} tokens against the environment;
// pureTextNode skips the scan entirely.
type TextNode struct {
	value  string
	tokens []textToken
}

type textToken struct {
	match    string
	name     string
	isFormat bool // true for ${...}, false for #{...}
	index    int
}

// Accept substitutes every placeholder and returns the resulting text.
// #{...} values are rendered as quoted SQL literals, ${...} values are
// spliced in raw. A placeholder whose path resolves to nothing becomes NULL
// and raises a missing-parameter diagnostic.
func (c *TextNode) Accept(ctx *Context, p eval.Params) string {
	if len(c.tokens) == 0 {
		return c.value
	}

	builder := getStringBuilder()
	defer putStringBuilder(builder)

	lastIndex := 0
	for _, t := range c.tokens {
		builder.WriteString(c.value[lastIndex:t.index])
		value, exists := p.Param(t.name)
		switch {
		case !exists:
			ctx.warn("missing-parameter", t.name, "substituting NULL")
			builder.WriteString("NULL")
		case t.isFormat:
			builder.WriteString(formatValue(value))
		default:
			builder.WriteString(quoteValue(value))
		}
		lastIndex = t.index + len(t.match)
	}
	builder.WriteString(c.value[lastIndex:])
	return builder.String()
}

// NewTextNode creates a new text node based on the input string.
// It returns either a lightweight pureTextNode for static SQL,
// or a full TextNode for text with placeholders.
func NewTextNode(str string) Node {
	placeholder := paramRegexp.FindAllStringSubmatchIndex(str, -1)
	textSubstitution := formatRegexp.FindAllStringSubmatchIndex(str, -1)

	if len(placeholder) == 0 && len(textSubstitution) == 0 {
		return pureTextNode(str)
	}

	var tokens []textToken
	for _, p := range placeholder {
		tokens = append(tokens, textToken{
			match:    str[p[0]:p[1]],
			name:     str[p[2]:p[3]],
			isFormat: false,
			index:    p[0],
		})
	}
	for _, s := range textSubstitution {
		tokens = append(tokens, textToken{
			match:    str[s[0]:s[1]],
			name:     str[s[2]:s[3]],
			isFormat: true,
			index:    s[0],
		})
	}

	// Sort tokens by index
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].index < tokens[j].index
	})

	return &TextNode{value: str, tokens: tokens}
}

// formatValue renders a parameter value for ${...} interpolation: strings
// verbatim, booleans as 1/0, null as NULL, composites as JSON.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(t)
	case int8, int16, int32:
		return formatValue(toInt(t))
	case int64:
		return strconv.FormatInt(t, 10)
	case uint, uint8, uint16, uint32, uint64:
		return formatValue(toInt(t))
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "NULL"
		}
		return string(data)
	}
}

// quoteValue renders a parameter value for #{...} binding: strings become
// single-quoted literals with embedded quotes doubled, scalars print bare,
// composites become quoted JSON.
func quoteValue(v any) string {
	switch t := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(t, "'", "''") + "'"
	case nil, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return formatValue(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "NULL"
		}
		return "'" + string(data) + "'"
	}
}

// toInt widens any integer kind to int64 for formatting.
func toInt(v any) int64 {
	switch t := v.(type) {
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return int64(t)
	default:
		return 0
	}
}

var _ Node = (*TextNode)(nil)
