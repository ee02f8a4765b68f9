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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-batisdev/batis/node"
)

// normalize collapses whitespace runs so assertions survive indentation.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func mustParse(t *testing.T, data string) *Mapper {
	t.Helper()
	mapper, err := ParseMapper([]byte(data))
	require.NoError(t, err)
	return mapper
}

func build(t *testing.T, mapper *Mapper, id string, params Params) string {
	t.Helper()
	statement, ok := mapper.Statement(id)
	require.True(t, ok, "statement %s not found", id)
	return statement.Build(params)
}

func TestGenerateIfGuardedWhere(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="com.example.UserMapper">
		<select id="findUserById" parameterType="Long" resultType="User">
			SELECT * FROM users WHERE 1=1
			<if test="id != null">AND id = #{id}</if>
			<if test="name != null and name != ''">AND name = #{name}</if>
		</select>
	</mapper>`)

	got := build(t, mapper, "findUserById", H{"id": 1, "name": "张三"})
	assert.Contains(t, normalize(got), "SELECT * FROM users WHERE 1=1 AND id = 1 AND name = '张三'")

	// both guards closed
	got = build(t, mapper, "findUserById", H{})
	assert.Equal(t, "SELECT * FROM users WHERE 1=1", normalize(got))
}

func TestGenerateForeachInList(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<select id="select1">
			SELECT * FROM tab1 where column155555 in
			<foreach collection="list" item="item" open="(" separator="," close=")">#{item}</foreach>
		</select>
	</mapper>`)

	got := build(t, mapper, "select1", H{"list": []any{1, 2, 3}})
	assert.Contains(t, normalize(got), "in (1 , 2 , 3)")

	// an empty collection suppresses open and close as well
	got = build(t, mapper, "select1", H{"list": []any{}})
	assert.NotContains(t, got, "(")
	assert.NotContains(t, got, ")")
}

func TestGenerateIncludeExpansion(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<sql id="sql1">select a,b,c,d,e,f,g</sql>
		<select id="select0"><include refid="sql1"/> from tab1</select>
	</mapper>`)

	got := build(t, mapper, "select0", H{})
	assert.Contains(t, normalize(got), "select a,b,c,d,e,f,g from tab1")
}

func TestGenerateBatchInsert(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<insert id="batchInsert">
			INSERT INTO book_attach_ocr_result(book_attach_ocr_task_id, book_attach_id) VALUES
			<foreach collection="list" item="entity" separator=",">(#{entity.bookAttachOcrTaskId}, #{entity.bookAttachId})</foreach>
		</insert>
	</mapper>`)

	got := build(t, mapper, "batchInsert", H{"list": []any{
		map[string]any{"bookAttachOcrTaskId": 1, "bookAttachId": 2},
		map[string]any{"bookAttachOcrTaskId": 3, "bookAttachId": 4},
	}})
	assert.Contains(t, normalize(got), "VALUES (1, 2) , (3, 4)")
}

func TestGenerateChooseWhen(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<select id="s">
			<choose>
				<when test="x != null">A = #{x}</when>
				<otherwise>A = 0</otherwise>
			</choose>
		</select>
	</mapper>`)

	assert.Equal(t, "A = 0", normalize(build(t, mapper, "s", H{})))
	assert.Equal(t, "A = 7", normalize(build(t, mapper, "s", H{"x": 7})))
}

func TestGenerateSetTrailingComma(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<update id="u">
			UPDATE t <set>a = #{a}, b = #{b},</set>
		</update>
	</mapper>`)

	got := build(t, mapper, "u", H{"a": 1, "b": 2})
	assert.Equal(t, "UPDATE t SET a = 1, b = 2", normalize(got))
}

func TestGenerateWhereWrapper(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<select id="s">
			SELECT * FROM users
			<where>
				<if test="id != null">AND id = #{id}</if>
				<if test="name != null">AND name = #{name}</if>
			</where>
		</select>
	</mapper>`)

	// leading AND stripped before WHERE is prepended
	got := build(t, mapper, "s", H{"id": 1})
	assert.Equal(t, "SELECT * FROM users WHERE id = 1", normalize(got))

	got = build(t, mapper, "s", H{"id": 1, "name": "x"})
	assert.Equal(t, "SELECT * FROM users WHERE id = 1 AND name = 'x'", normalize(got))

	// empty body: no WHERE token at all
	got = build(t, mapper, "s", H{})
	assert.Equal(t, "SELECT * FROM users", normalize(got))
	assert.NotContains(t, got, "WHERE")
}

func TestGenerateTrimElement(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<select id="s">
			SELECT * FROM t
			<trim prefix="WHERE" prefixOverrides="AND ,OR ">
				<if test="a != null">AND a = #{a}</if>
			</trim>
		</select>
	</mapper>`)

	got := build(t, mapper, "s", H{"a": 5})
	assert.Equal(t, "SELECT * FROM t WHERE a = 5", normalize(got))

	got = build(t, mapper, "s", H{})
	assert.Equal(t, "SELECT * FROM t", normalize(got))
}

func TestGenerateInterpolationVersusBinding(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<select id="s">SELECT * FROM ${table} WHERE name = #{name}</select>
	</mapper>`)

	got := build(t, mapper, "s", H{"table": "users", "name": "O'Brien"})
	assert.Equal(t, "SELECT * FROM users WHERE name = 'O''Brien'", normalize(got))
}

func TestGenerateMissingParameter(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<select id="s">SELECT * FROM t WHERE id = #{id}</select>
	</mapper>`)

	var diagnostics []node.Diagnostic
	statement, _ := mapper.Statement("s")
	generator := NewGenerator(mapper).WithSink(func(d node.Diagnostic) {
		diagnostics = append(diagnostics, d)
	})

	got := generator.Generate(statement.DynamicSQL(), H{})
	assert.Equal(t, "SELECT * FROM t WHERE id = NULL", normalize(got))
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "missing-parameter", diagnostics[0].Kind)
	assert.Equal(t, "id", diagnostics[0].Name)
}

func TestGenerateMissingFragment(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<select id="s"><include refid="nope"/> FROM t</select>
	</mapper>`)

	var diagnostics []node.Diagnostic
	statement, _ := mapper.Statement("s")
	generator := NewGenerator(mapper).WithSink(func(d node.Diagnostic) {
		diagnostics = append(diagnostics, d)
	})

	got := generator.Generate(statement.DynamicSQL(), H{})
	assert.Equal(t, "FROM t", normalize(got))
	require.Len(t, diagnostics, 1)
	assert.Equal(t, "missing-fragment", diagnostics[0].Kind)
	assert.Equal(t, "nope", diagnostics[0].Name)
}

func TestGenerateBindIsInert(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<select id="s">
			<bind name="pattern" value="'%' + name + '%'"/>
			SELECT * FROM t WHERE id = #{id}
		</select>
	</mapper>`)

	got := build(t, mapper, "s", H{"id": 3})
	assert.Equal(t, "SELECT * FROM t WHERE id = 3", normalize(got))
}

func TestGenerateNestedForeachScopes(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<select id="s">
			<foreach collection="groups" item="group" separator=";">
				<foreach collection="list" item="id" open="(" separator="," close=")">#{id}</foreach>
			</foreach>
		</select>
	</mapper>`)

	// the inner foreach sees the outer scope's bindings, including the
	// top-level collection inherited from the root environment
	got := build(t, mapper, "s", H{
		"groups": []any{"g1", "g2"},
		"list":   []any{1, 2},
	})
	assert.Equal(t, "(1 , 2) ; (1 , 2)", normalize(got))
}

func TestGenerateCollectionEnvironment(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<select id="s">
			SELECT * FROM t WHERE id IN
			<foreach collection="ids" item="id" open="(" separator="," close=")">#{id}</foreach>
		</select>
	</mapper>`)

	got := build(t, mapper, "s", Collections{"ids": {10, 20}})
	assert.Contains(t, normalize(got), "IN (10 , 20)")
}

func TestGenerateSQLNilNode(t *testing.T) {
	assert.Equal(t, "", GenerateSQL(nil, H{}, nil))
}

func TestStatementBuildSharedMapper(t *testing.T) {
	mapper := mustParse(t, `<mapper namespace="n">
		<sql id="cols">a, b</sql>
		<select id="s">SELECT <include refid="cols"/> FROM t WHERE x = #{x}</select>
	</mapper>`)

	// the mapper is shared and immutable; concurrent builds must agree
	statement, _ := mapper.Statement("s")
	done := make(chan string, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- statement.Build(H{"x": 1}) }()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, "SELECT a, b FROM t WHERE x = 1", normalize(<-done))
	}
}
