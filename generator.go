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
	"log"

	"github.com/go-batisdev/batis/eval"
	"github.com/go-batisdev/batis/node"
)

// Generator renders dynamic-SQL trees against parameter environments,
// resolving fragment references through a mapper. Rendering is pure: it
// never mutates the mapper or the environment and never fails — runtime
// anomalies degrade to empty or NULL output plus a diagnostic on the sink.
type Generator struct {
	mapper *Mapper
	sink   node.Sink
}

// NewGenerator creates a generator bound to mapper, reporting diagnostics to
// the default sink. A nil mapper is allowed; includes then expand to empty.
func NewGenerator(mapper *Mapper) *Generator {
	return &Generator{mapper: mapper, sink: defaultSink}
}

// WithSink replaces the diagnostic sink and returns the generator. A nil
// sink drops diagnostics.
func (g *Generator) WithSink(sink node.Sink) *Generator {
	g.sink = sink
	return g
}

// Generate renders n against p. A nil node renders as empty.
func (g *Generator) Generate(n node.Node, p eval.Params) string {
	if n == nil {
		return ""
	}
	ctx := &node.Context{Sink: g.sink}
	if g.mapper != nil {
		ctx.Fragments = g.mapper
	}
	return n.Accept(ctx, p)
}

// GenerateSQL renders a dynamic-SQL node against the given parameter
// environment, resolving fragment references through mapper. Diagnostics go
// to the default sink; use a Generator to direct them elsewhere.
func GenerateSQL(n node.Node, p eval.Params, mapper *Mapper) string {
	return NewGenerator(mapper).Generate(n, p)
}

// defaultSink writes one log line per diagnostic.
func defaultSink(d node.Diagnostic) {
	log.Printf("[WARN] %s %q: %s", d.Kind, d.Name, d.Detail)
}
