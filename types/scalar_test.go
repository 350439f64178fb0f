// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarType_NameRoundTrip(t *testing.T) {
	for _, st := range AllScalarTypes() {
		parsed, err := ParseScalarType(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}
}

func TestParseScalarType_Unknown(t *testing.T) {
	_, err := ParseScalarType("varchar")
	assert.Error(t, err)
}

func TestScalarType_ZeroValueIsGeneric(t *testing.T) {
	var st ScalarType
	assert.Equal(t, Generic, st)
	assert.Equal(t, "generic", st.String())
}

func TestScalarType_Families(t *testing.T) {
	assert.True(t, Integer.IsNumeric())
	assert.True(t, Float.IsNumeric())
	assert.True(t, Decimal.IsNumeric())
	assert.False(t, Text.IsNumeric())

	assert.True(t, Date.IsTemporal())
	assert.True(t, DateTime.IsTemporal())
	assert.False(t, Integer.IsTemporal())
}

func TestScalarType_ComparesAsText(t *testing.T) {
	// Hostname compares as raw text: dotted values must never pick up the
	// hierarchical-path treatment.
	assert.True(t, Hostname.ComparesAsText())
	assert.True(t, Generic.ComparesAsText())
	assert.True(t, Text.ComparesAsText())
	assert.True(t, Boolean.ComparesAsText())
	assert.False(t, HierarchicalPath.ComparesAsText())
	assert.False(t, Integer.ComparesAsText())
}

func TestScalarType_InfoCasts(t *testing.T) {
	assert.Equal(t, "numeric", Integer.Info().SQLCast)
	assert.Equal(t, "numeric", Float.Info().SQLCast)
	assert.Equal(t, "numeric", Decimal.Info().SQLCast)
	assert.Equal(t, "uuid", Uuid.Info().SQLCast)
	assert.Equal(t, "inet", IpAddress.Info().SQLCast)
	assert.Equal(t, "ltree", HierarchicalPath.Info().SQLCast)
	assert.Equal(t, "date", Date.Info().SQLCast)
	assert.Equal(t, "timestamptz", DateTime.Info().SQLCast)

	// Text-family types carry no cast at all.
	assert.Empty(t, Generic.Info().SQLCast)
	assert.Empty(t, Text.Info().SQLCast)
	assert.Empty(t, Hostname.Info().SQLCast)
	assert.Empty(t, Boolean.Info().SQLCast)
}

func TestScalarType_InfoUnknownFallsBackToGeneric(t *testing.T) {
	assert.Equal(t, Generic.Info(), ScalarType(99).Info())
}
