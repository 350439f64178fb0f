// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package sqlfrag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BindValuePlaceholders(t *testing.T) {
	b := NewBuilder()
	assert.Equal(t, ":p0", b.BindValue("alice"))
	assert.Equal(t, ":p1", b.BindValue(42))

	b.WritePart("data->>'name' = :p0")
	b.WritePart("data->>'age' = :p1")

	frag := b.Fragment(" AND ")
	assert.Equal(t, "data->>'name' = :p0 AND data->>'age' = :p1", frag.SQL())
	assert.Equal(t, map[string]interface{}{"p0": "alice", "p1": 42}, frag.Args())
}

func TestBuilder_EmptyYieldsEmptyFragment(t *testing.T) {
	frag := NewBuilder().Fragment(" AND ")
	assert.True(t, frag.Empty())
	assert.Empty(t, frag.SQL())

	sql, args, err := frag.Bind(BindDollar)
	require.NoError(t, err)
	assert.Empty(t, sql)
	assert.Nil(t, args)
}

func TestFragment_BindDollar(t *testing.T) {
	b := NewBuilder()
	b.WritePart("data->>'name' = " + b.BindValue("alice"))
	b.WritePart("data->>'age' = " + b.BindValue(30))
	frag := b.Fragment(" AND ")

	sql, args, err := frag.Bind(BindDollar)
	require.NoError(t, err)
	assert.Equal(t, "data->>'name' = $1 AND data->>'age' = $2", sql)
	assert.Equal(t, []interface{}{"alice", 30}, args)
}

func TestFragment_BindQuestion(t *testing.T) {
	b := NewBuilder()
	b.WritePart("data->>'name' = " + b.BindValue("alice"))
	frag := b.Fragment(" AND ")

	sql, args, err := frag.Bind(BindQuestion)
	require.NoError(t, err)
	assert.Equal(t, "data->>'name' = ?", sql)
	assert.Equal(t, []interface{}{"alice"}, args)
}

func TestFragment_BindNamedKeepsPlaceholders(t *testing.T) {
	b := NewBuilder()
	b.WritePart("data->>'a' = " + b.BindValue("x"))
	b.WritePart("data->>'b' = " + b.BindValue("y"))
	frag := b.Fragment(" AND ")

	sql, args, err := frag.Bind(BindNamed)
	require.NoError(t, err)
	assert.Equal(t, "data->>'a' = :p0 AND data->>'b' = :p1", sql)
	assert.Equal(t, []interface{}{"x", "y"}, args)
}

func TestFragment_BindPreservesCasts(t *testing.T) {
	// "::numeric" must survive named binding untouched; sqlx would otherwise
	// read ":numeric" as a parameter.
	b := NewBuilder()
	b.WritePart("(data->>'price')::numeric >= " + b.BindValue(10))
	b.WritePart("(data->>'price')::numeric < " + b.BindValue(50))
	frag := b.Fragment(" AND ")

	sql, args, err := frag.Bind(BindDollar)
	require.NoError(t, err)
	assert.Equal(t, "(data->>'price')::numeric >= $1 AND (data->>'price')::numeric < $2", sql)
	assert.Equal(t, []interface{}{10, 50}, args)
	assert.NotContains(t, sql, "__CAST__")
}

func TestFragment_BindManyParamsStayOrdered(t *testing.T) {
	b := NewBuilder()
	values := []interface{}{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	for _, v := range values {
		b.WritePart("data->>'f' = " + b.BindValue(v))
	}
	frag := b.Fragment(" AND ")

	// p10 and p11 must not sort before p2 lexically.
	sql, args, err := frag.Bind(BindNamed)
	require.NoError(t, err)
	assert.Contains(t, sql, ":p11")
	assert.Equal(t, values, args)
}

func TestBuilder_BindListUsesOneArrayParam(t *testing.T) {
	b := NewBuilder()
	b.WritePart("data->>'tag' = ANY(" + b.BindList([]interface{}{"go", "db"}) + ")")
	frag := b.Fragment(" AND ")

	sql, args, err := frag.Bind(BindDollar)
	require.NoError(t, err)
	assert.Equal(t, "data->>'tag' = ANY($1)", sql)
	require.Len(t, args, 1)
}

func TestFragment_NilIsEmpty(t *testing.T) {
	var frag *Fragment
	assert.True(t, frag.Empty())
	assert.Empty(t, frag.SQL())
	assert.Nil(t, frag.Args())
}
