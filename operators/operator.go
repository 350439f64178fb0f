// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package operators maps (operator, scalar type) pairs to stateless
// strategies that render complete SQL predicate fragments. The registry is
// exhaustive over the closed Operator enum and is immutable once built.
package operators

import "fmt"

// Operator is the closed set of filter operators accepted from the API
// layer. The declaration order is the canonical ordering used when several
// operators apply to the same field.
type Operator int

const (
	Eq Operator = iota
	Neq
	Gt
	Gte
	Lt
	Lte
	In
	NotIn
	Contains
	StartsWith
	EndsWith
	IsNull
)

var operatorNames = [...]string{
	Eq:         "eq",
	Neq:        "neq",
	Gt:         "gt",
	Gte:        "gte",
	Lt:         "lt",
	Lte:        "lte",
	In:         "in",
	NotIn:      "notin",
	Contains:   "contains",
	StartsWith: "startswith",
	EndsWith:   "endswith",
	IsNull:     "isnull",
}

// operatorAliases accepts the spellings seen in GraphQL filter inputs.
var operatorAliases = map[string]Operator{
	"eq":          Eq,
	"neq":         Neq,
	"ne":          Neq,
	"gt":          Gt,
	"gte":         Gte,
	"lt":          Lt,
	"lte":         Lte,
	"in":          In,
	"notin":       NotIn,
	"nin":         NotIn,
	"not_in":      NotIn,
	"contains":    Contains,
	"startswith":  StartsWith,
	"starts_with": StartsWith,
	"endswith":    EndsWith,
	"ends_with":   EndsWith,
	"isnull":      IsNull,
	"is_null":     IsNull,
}

func (op Operator) String() string {
	if int(op) < len(operatorNames) {
		return operatorNames[op]
	}
	return fmt.Sprintf("operator(%d)", int(op))
}

// ParseOperator resolves an operator token, accepting the GraphQL aliases
// ("ne", "nin", "not_in", ...). The second return reports whether the token
// named an operator at all.
func ParseOperator(token string) (Operator, bool) {
	op, ok := operatorAliases[token]
	return op, ok
}

// AllOperators returns the enum in canonical order.
func AllOperators() []Operator {
	return []Operator{Eq, Neq, Gt, Gte, Lt, Lte, In, NotIn, Contains, StartsWith, EndsWith, IsNull}
}

// IsComparison reports whether op is one of the six ordered comparisons.
func (op Operator) IsComparison() bool {
	switch op {
	case Eq, Neq, Gt, Gte, Lt, Lte:
		return true
	}
	return false
}

// IsMembership reports whether op tests list membership.
func (op Operator) IsMembership() bool {
	return op == In || op == NotIn
}

// IsPattern reports whether op is a substring/prefix/suffix match.
func (op Operator) IsPattern() bool {
	switch op {
	case Contains, StartsWith, EndsWith:
		return true
	}
	return false
}

// symbol is the SQL comparison symbol for the six ordered comparisons.
func (op Operator) symbol() string {
	switch op {
	case Eq:
		return "="
	case Neq:
		return "!="
	case Gt:
		return ">"
	case Gte:
		return ">="
	case Lt:
		return "<"
	case Lte:
		return "<="
	}
	return ""
}
