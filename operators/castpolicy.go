// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package operators

import "github.com/qolzam/hybridq/types"

// CastPolicy declares whether, and for which operator families, an extracted
// JSONB text value receives a SQL cast. The decision is made from the
// declared scalar type only, never by inspecting the runtime value. That
// rule is what keeps a hostname like "printserver01.local" from being cast
// to ltree just because it contains dots.
type CastPolicy struct {
	// Cast is the PostgreSQL type name applied as (expr)::Cast, or "".
	Cast string
	// AppliesTo is the set of operators that trigger the cast.
	AppliesTo map[Operator]bool
}

func opSet(ops ...Operator) map[Operator]bool {
	m := make(map[Operator]bool, len(ops))
	for _, op := range ops {
		m[op] = true
	}
	return m
}

var comparisonOps = []Operator{Eq, Neq, Gt, Gte, Lt, Lte}

// castPolicies is the full policy table. Types absent from the table never
// receive a cast (Text, Hostname, Boolean, Generic).
//
// Numeric types carry the cast through the whole comparison family including
// eq, and through membership, so the comparison semantics stay consistent
// across every operator a numeric field supports. HierarchicalPath is the
// only type that may ever receive an ltree cast.
var castPolicies = map[types.ScalarType]CastPolicy{
	types.Integer: {
		Cast:      "numeric",
		AppliesTo: opSet(append(comparisonOps, In, NotIn)...),
	},
	types.Float: {
		Cast:      "numeric",
		AppliesTo: opSet(append(comparisonOps, In, NotIn)...),
	},
	types.Decimal: {
		Cast:      "numeric",
		AppliesTo: opSet(append(comparisonOps, In, NotIn)...),
	},
	types.Uuid: {
		Cast:      "uuid",
		AppliesTo: opSet(Eq, Neq, In, NotIn),
	},
	types.IpAddress: {
		Cast:      "inet",
		AppliesTo: opSet(Eq, Neq, In, NotIn),
	},
	types.HierarchicalPath: {
		Cast:      "ltree",
		AppliesTo: opSet(Eq, Neq, Contains),
	},
	types.Date: {
		Cast:      "date",
		AppliesTo: opSet(comparisonOps...),
	},
	types.DateTime: {
		Cast:      "timestamptz",
		AppliesTo: opSet(comparisonOps...),
	},
}

// PolicyFor returns the cast policy for a scalar type. Types without a
// declared policy get the zero policy (no cast, ever).
func PolicyFor(t types.ScalarType) CastPolicy {
	return castPolicies[t]
}

// CastFor returns the cast type to apply for (t, op), or "" when the
// extracted value compares uncast. IsNull ignores cast policy entirely.
func CastFor(t types.ScalarType, op Operator) string {
	if op == IsNull {
		return ""
	}
	policy, ok := castPolicies[t]
	if !ok || !policy.AppliesTo[op] {
		return ""
	}
	return policy.Cast
}
