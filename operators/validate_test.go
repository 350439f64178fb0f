// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package operators

import (
	"errors"
	"testing"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/hybridq/qlerrors"
	"github.com/qolzam/hybridq/types"
)

func TestNormalizeLiteral_NullRejected(t *testing.T) {
	for _, st := range types.AllScalarTypes() {
		_, err := normalizeLiteral(st, "f", nil)
		require.Error(t, err, "%s", st)
		assert.True(t, errors.Is(err, qlerrors.ErrInvalidLiteral))
	}
}

func TestNormalizeLiteral_Numeric(t *testing.T) {
	v, err := normalizeLiteral(types.Integer, "count", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = normalizeLiteral(types.Float, "score", 3.14)
	require.NoError(t, err)
	assert.Equal(t, 3.14, v)

	// Decimal values often arrive as strings to keep precision.
	v, err = normalizeLiteral(types.Decimal, "price", "19.99")
	require.NoError(t, err)
	assert.Equal(t, "19.99", v)

	_, err = normalizeLiteral(types.Integer, "count", "not-a-number")
	assert.True(t, errors.Is(err, qlerrors.ErrInvalidLiteral))

	_, err = normalizeLiteral(types.Integer, "count", true)
	assert.True(t, errors.Is(err, qlerrors.ErrInvalidLiteral))
}

func TestNormalizeLiteral_BooleanLowersToText(t *testing.T) {
	v, err := normalizeLiteral(types.Boolean, "active", true)
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	v, err = normalizeLiteral(types.Boolean, "active", "False")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	_, err = normalizeLiteral(types.Boolean, "active", "yes")
	assert.True(t, errors.Is(err, qlerrors.ErrInvalidLiteral))
}

func TestNormalizeLiteral_Uuid(t *testing.T) {
	id := uuid.Must(uuid.NewV4())

	v, err := normalizeLiteral(types.Uuid, "id", id)
	require.NoError(t, err)
	assert.Equal(t, id.String(), v)

	v, err = normalizeLiteral(types.Uuid, "id", id.String())
	require.NoError(t, err)
	assert.Equal(t, id.String(), v)

	_, err = normalizeLiteral(types.Uuid, "id", "not-a-uuid")
	assert.True(t, errors.Is(err, qlerrors.ErrInvalidLiteral))
}

func TestNormalizeLiteral_IpAddress(t *testing.T) {
	v, err := normalizeLiteral(types.IpAddress, "ip", "192.168.1.1")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.1", v)

	v, err = normalizeLiteral(types.IpAddress, "subnet", "10.0.0.0/8")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0/8", v)

	v, err = normalizeLiteral(types.IpAddress, "ip", "2001:db8::1")
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1", v)

	_, err = normalizeLiteral(types.IpAddress, "ip", "999.1.1.1")
	assert.True(t, errors.Is(err, qlerrors.ErrInvalidLiteral))
}

func TestNormalizeLiteral_Temporal(t *testing.T) {
	v, err := normalizeLiteral(types.Date, "d", "2024-06-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", v)

	v, err = normalizeLiteral(types.Date, "d", time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", v)

	_, err = normalizeLiteral(types.Date, "d", "15/06/2024")
	assert.True(t, errors.Is(err, qlerrors.ErrInvalidLiteral))

	v, err = normalizeLiteral(types.DateTime, "ts", "2024-06-15T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15T10:30:00Z", v)

	v, err = normalizeLiteral(types.DateTime, "ts", "2024-06-15 10:30:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15 10:30:00", v)

	_, err = normalizeLiteral(types.DateTime, "ts", "noonish")
	assert.True(t, errors.Is(err, qlerrors.ErrInvalidLiteral))
}

func TestNormalizeLiteral_LtreeLabels(t *testing.T) {
	v, err := normalizeLiteral(types.HierarchicalPath, "path", "top.science_2.physics")
	require.NoError(t, err)
	assert.Equal(t, "top.science_2.physics", v)

	for _, bad := range []string{"", "top..science", "top.sci ence", "top.-x"} {
		_, err := normalizeLiteral(types.HierarchicalPath, "path", bad)
		assert.True(t, errors.Is(err, qlerrors.ErrInvalidLiteral), "%q", bad)
	}
}

func TestNormalizeLiteral_TextRequiresString(t *testing.T) {
	v, err := normalizeLiteral(types.Hostname, "hostname", "printserver01.local")
	require.NoError(t, err)
	assert.Equal(t, "printserver01.local", v)

	_, err = normalizeLiteral(types.Text, "name", 42)
	assert.True(t, errors.Is(err, qlerrors.ErrInvalidLiteral))
}

func TestNormalizeLiteral_GenericPassesThrough(t *testing.T) {
	v, err := normalizeLiteral(types.Generic, "anything", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestParseOperator_Aliases(t *testing.T) {
	cases := map[string]Operator{
		"eq": Eq, "ne": Neq, "neq": Neq, "nin": NotIn, "not_in": NotIn,
		"starts_with": StartsWith, "startswith": StartsWith,
		"is_null": IsNull, "isnull": IsNull,
	}
	for token, want := range cases {
		op, ok := ParseOperator(token)
		require.True(t, ok, "%q", token)
		assert.Equal(t, want, op, "%q", token)
	}

	_, ok := ParseOperator("regex")
	assert.False(t, ok)
}
