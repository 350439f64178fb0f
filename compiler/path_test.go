// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/hybridq/qlerrors"
	"github.com/qolzam/hybridq/schema"
)

func TestParseFieldPath(t *testing.T) {
	p, err := ParseFieldPath("department.name")
	require.NoError(t, err)
	assert.Equal(t, []string{"department", "name"}, p.Segments)
	assert.Equal(t, "department.name", p.String())
}

func TestParseFieldPath_RejectsMalformedPaths(t *testing.T) {
	for _, bad := range []string{"", ".", "a.", ".a", "a..b", "a-b", "a b", "a'b"} {
		_, err := ParseFieldPath(bad)
		require.Error(t, err, "%q", bad)
		assert.True(t, errors.Is(err, qlerrors.ErrInvalidFieldPath), "%q", bad)
	}
}

func TestResolvePath_DirectColumn(t *testing.T) {
	vs := schema.NewViewSchema("v", []string{"id", "tenant_id"}, true, nil)

	p, err := ParseFieldPath("tenant_id")
	require.NoError(t, err)
	expr, err := ResolvePath(p, vs, "data")
	require.NoError(t, err)
	assert.True(t, expr.IsColumn)
	assert.Equal(t, "tenant_id", expr.Text)
}

func TestResolvePath_TopLevelJSONBField(t *testing.T) {
	vs := schema.NewViewSchema("v", []string{"id"}, true, nil)

	p, err := ParseFieldPath("hostname")
	require.NoError(t, err)
	expr, err := ResolvePath(p, vs, "data")
	require.NoError(t, err)
	assert.False(t, expr.IsColumn)
	assert.Equal(t, "data->>'hostname'", expr.Text)
	assert.Equal(t, "data->'hostname'", expr.JSON)
}

func TestResolvePath_NestedJSONBField(t *testing.T) {
	vs := schema.NewViewSchema("v", []string{"id"}, true, nil)

	p, err := ParseFieldPath("department.location.city")
	require.NoError(t, err)
	expr, err := ResolvePath(p, vs, "data")
	require.NoError(t, err)
	// Object navigation for the middle segments, text extraction only at the
	// leaf.
	assert.Equal(t, "data->'department'->'location'->>'city'", expr.Text)
	assert.Equal(t, "data->'department'->'location'->'city'", expr.JSON)
}

func TestResolvePath_ColumnWinsOverJSONB(t *testing.T) {
	vs := schema.NewViewSchema("v", []string{"status"}, true, nil)

	p, err := ParseFieldPath("status")
	require.NoError(t, err)
	expr, err := ResolvePath(p, vs, "data")
	require.NoError(t, err)
	assert.True(t, expr.IsColumn)
	assert.Equal(t, "status", expr.Text)
}

func TestResolvePath_CustomJSONBColumnName(t *testing.T) {
	vs := schema.NewViewSchema("v", nil, true, nil)

	p, err := ParseFieldPath("hostname")
	require.NoError(t, err)
	expr, err := ResolvePath(p, vs, "payload")
	require.NoError(t, err)
	assert.Equal(t, "payload->>'hostname'", expr.Text)
}

func TestResolvePath_UnknownFieldWithoutJSONB(t *testing.T) {
	vs := schema.NewViewSchema("v", []string{"id"}, false, nil)

	p, err := ParseFieldPath("hostname")
	require.NoError(t, err)
	_, err = ResolvePath(p, vs, "data")
	require.Error(t, err)
	assert.True(t, errors.Is(err, qlerrors.ErrUnknownField))
}

func TestResolvePath_NestedPathNeverQuotesCast(t *testing.T) {
	// A path segment is always quoted whole; nothing the resolver emits can
	// place SQL outside the quoted segments.
	vs := schema.NewViewSchema("v", nil, true, nil)

	p, err := ParseFieldPath("a.b")
	require.NoError(t, err)
	expr, err := ResolvePath(p, vs, "data")
	require.NoError(t, err)
	assert.Equal(t, "data->'a'->>'b'", expr.Text)
}
