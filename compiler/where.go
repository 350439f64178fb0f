// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package compiler

import (
	"github.com/qolzam/hybridq/operators"
)

// Condition is one (field path, operator, literal) leaf of a WHERE input.
type Condition struct {
	Path    FieldPath
	Op      operators.Operator
	Literal interface{}
}

// WhereNode is the canonical internal WHERE representation. Both the typed
// input adapter and the raw-mapping adapter produce it, so casting logic
// exists exactly once. Conditions are AND-combined; the same field may
// appear with several operators.
type WhereNode struct {
	Conditions []Condition
}

// Empty reports whether the node contributes no predicate.
func (n WhereNode) Empty() bool {
	return len(n.Conditions) == 0
}

// sortConditions orders conditions canonically: by field path, then by
// operator declaration order. Both adapters apply it so equivalent inputs
// compile to identical SQL.
func sortConditions(conds []Condition) {
	// Insertion sort keeps this dependency-free and stable; condition
	// lists are request-sized.
	for i := 1; i < len(conds); i++ {
		for j := i; j > 0 && lessCondition(conds[j], conds[j-1]); j-- {
			conds[j], conds[j-1] = conds[j-1], conds[j]
		}
	}
}

func lessCondition(a, b Condition) bool {
	ap, bp := a.Path.String(), b.Path.String()
	if ap != bp {
		return ap < bp
	}
	return a.Op < b.Op
}
