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

/*
Package batis is a dynamic SQL template engine speaking the MyBatis XML
mapper dialect.

It parses a mapper document into a statement model — a tree of dynamic-SQL
nodes (if, choose/when/otherwise, foreach, trim, where, set, bind, include)
plus reusable fragments — and renders a statement into a concrete SQL string
against a runtime parameter environment.

Basic Usage:

	mapper, err := batis.ParseMapper(xmlBytes)
	if err != nil {
		// handle error
		panic(err)
	}

	statement, ok := mapper.Statement("findUserById")
	if !ok {
		panic("no such statement")
	}

	sql := statement.Build(batis.H{"id": 1, "name": "张三"})
	fmt.Println(sql)

Features:

  - XML mapper parsing with reusable <sql> fragments and <resultMap> metadata
  - Conditional fragments with a restricted test-expression grammar
  - Collection iteration with nested parameter scopes
  - #{...} quoted-literal binding and ${...} raw interpolation
  - WHERE/SET/trim rewriting of generated clause edges
  - Non-fatal generation: missing parameters degrade to NULL with diagnostics

The engine stops at the SQL string: statement execution, result binding and
driver interaction are deliberately out of scope.
*/
package batis
