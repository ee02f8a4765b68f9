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

// Package eval provides the runtime parameter environments and the restricted
// condition grammar used while rendering dynamic SQL.
package eval

// Params resolves named parameters during SQL generation.
//
// Values are JSON-shaped: nil, bool, string, integers, floats, []any and
// map[string]any (or H). Param performs dotted lookup, so "user.name"
// traverses nested object values; any non-object intermediate yields absent.
// Collection resolves a key to an ordered sequence of values.
type Params interface {
	Param(key string) (any, bool)
	Collection(key string) ([]any, bool)
}

// Snapshotter is implemented by environments that can expose their bindings
// as a plain object map. Foreach rendering uses it to build child scopes that
// inherit the parent's bindings; environments without it start their children
// empty.
type Snapshotter interface {
	Snapshot() map[string]any
}

// H is the object-map environment: a shortcut for map[string]any.
type H map[string]any

// Param implements Params with dotted traversal through nested objects.
func (h H) Param(key string) (any, bool) {
	if len(key) == 0 {
		return nil, false
	}
	var current any
	found := false
	first := true
	walkByStep(key, '.', func(_ int, part string) bool {
		if first {
			first = false
			current, found = h[part]
			return found
		}
		obj, ok := asObject(current)
		if !ok {
			found = false
			return false
		}
		current, found = obj[part]
		return found
	})
	if first || !found {
		return nil, false
	}
	return current, true
}

// Collection implements Params. Only array-typed values carry collections.
func (h H) Collection(key string) ([]any, bool) {
	seq, ok := h[key].([]any)
	return seq, ok
}

// Snapshot implements Snapshotter. The returned map is the live binding set;
// callers clone before mutating.
func (h H) Snapshot() map[string]any {
	return h
}

// walkByStep iterates over the non-empty parts of s separated by sep, without
// allocating. It calls fn for each part with its index; returning false stops
// the walk.
//
// Example:
//
//	walkByStep("a.b.c", '.', func(i int, part string) bool {
//	    fmt.Println(i, part) // 0 a, 1 b, 2 c
//	    return true
//	})
func walkByStep(s string, sep byte, fn func(index int, part string) bool) {
	start := 0
	i := 0
	for j := 0; j <= len(s); j++ {
		if j == len(s) || s[j] == sep {
			if j > start {
				if !fn(i, s[start:j]) {
					return
				}
				i++
			}
			start = j + 1
		}
	}
}

// asObject unwraps a JSON-like object value, whichever of the two map
// spellings it uses.
func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case H:
		return t, true
	default:
		return nil, false
	}
}

// Collections is the homogeneous collection environment: each key maps
// directly to a sequence of values.
type Collections map[string][]any

// Param implements Params. Scalar lookup is not supported by this carrier.
func (c Collections) Param(_ string) (any, bool) {
	return nil, false
}

// Collection implements Params.
func (c Collections) Collection(key string) ([]any, bool) {
	seq, ok := c[key]
	return seq, ok
}

var (
	_ Params      = (H)(nil)
	_ Params      = (Collections)(nil)
	_ Snapshotter = (H)(nil)
)
