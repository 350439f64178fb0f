// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package operators

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/qolzam/hybridq/qlerrors"
	"github.com/qolzam/hybridq/sqlfrag"
	"github.com/qolzam/hybridq/types"
)

// Expr is the resolved SQL expression for a field, produced by the path
// resolver. Text is the text-valued form (direct column or ->> extraction);
// JSON is the jsonb-valued form used for containment on Json fields.
type Expr struct {
	Text     string
	JSON     string
	IsColumn bool
	Field    string
}

// castExpr wraps the text expression in a cast. The cast always wraps the
// whole extracted-value expression: (data->>'f')::inet, never
// (data->>'f'::inet). Direct columns already carry their SQL type and are
// never cast.
func (e Expr) castExpr(castType string) string {
	if castType == "" || e.IsColumn {
		return e.Text
	}
	return "(" + e.Text + ")::" + castType
}

// Strategy renders one complete SQL predicate for a resolved field
// expression and a literal. Implementations are stateless and shared.
type Strategy interface {
	Render(b *sqlfrag.Builder, expr Expr, literal interface{}) (string, error)
}

type strategyKey struct {
	op Operator
	t  types.ScalarType
}

// Registry is the immutable (operator, scalar type) -> Strategy table. Built
// once at process start; safe for unsynchronized concurrent reads.
type Registry struct {
	strategies map[strategyKey]Strategy
}

// NewRegistry builds the full strategy table. It panics if the support
// matrix declares an (operator, type) pair that no strategy implements;
// the table must be exhaustive before the process can serve requests.
func NewRegistry() *Registry {
	r := &Registry{strategies: make(map[strategyKey]Strategy)}
	for _, t := range types.AllScalarTypes() {
		for _, op := range supportedOperators(t) {
			s := buildStrategy(op, t)
			if s == nil {
				panic(fmt.Sprintf("operators: no strategy for %s on %s", op, t))
			}
			r.strategies[strategyKey{op: op, t: t}] = s
		}
	}
	return r
}

// GetStrategy returns the strategy for (op, declared type). Unknown scalar
// types fall back to the generic text-compare strategies; an operator the
// type does not declare is an UnsupportedOperatorError, never a coerced
// different operator and never a cast guessed from the value shape.
func (r *Registry) GetStrategy(op Operator, t types.ScalarType) (Strategy, error) {
	if s, ok := r.strategies[strategyKey{op: op, t: t}]; ok {
		return s, nil
	}
	if s, ok := r.strategies[strategyKey{op: op, t: types.Generic}]; ok && !known(t) {
		return s, nil
	}
	return nil, &qlerrors.UnsupportedOperatorError{
		Operator:   op.String(),
		ScalarType: t.String(),
	}
}

// Supports reports whether (op, t) has a registered strategy, without the
// Generic fallback GetStrategy applies to unknown types.
func (r *Registry) Supports(op Operator, t types.ScalarType) bool {
	_, ok := r.strategies[strategyKey{op: op, t: t}]
	return ok
}

func known(t types.ScalarType) bool {
	for _, k := range types.AllScalarTypes() {
		if t == k {
			return true
		}
	}
	return false
}

// supportedOperators is the per-type operator support matrix.
func supportedOperators(t types.ScalarType) []Operator {
	switch t {
	case types.Generic, types.Text, types.Hostname:
		return AllOperators()
	case types.Integer, types.Float, types.Decimal:
		return []Operator{Eq, Neq, Gt, Gte, Lt, Lte, In, NotIn, IsNull}
	case types.Boolean:
		return []Operator{Eq, Neq, IsNull}
	case types.Uuid, types.IpAddress:
		return []Operator{Eq, Neq, In, NotIn, IsNull}
	case types.Date, types.DateTime:
		return []Operator{Eq, Neq, Gt, Gte, Lt, Lte, IsNull}
	case types.HierarchicalPath:
		return []Operator{Eq, Neq, Contains, IsNull}
	case types.Json:
		return []Operator{Eq, Neq, Contains, IsNull}
	}
	return nil
}

func buildStrategy(op Operator, t types.ScalarType) Strategy {
	if op == IsNull {
		return isNullStrategy{}
	}
	if t == types.Json {
		switch op {
		case Eq, Neq:
			return jsonCompareStrategy{op: op}
		case Contains:
			return jsonContainsStrategy{}
		}
		return nil
	}
	if t == types.HierarchicalPath && op == Contains {
		return ltreeDescendantStrategy{}
	}
	switch {
	case op.IsComparison():
		return comparisonStrategy{op: op, declared: t}
	case op.IsMembership():
		return membershipStrategy{op: op, declared: t}
	case op.IsPattern():
		return patternStrategy{op: op, declared: t}
	}
	return nil
}

// comparisonStrategy renders the six ordered comparisons with the declared
// type's cast policy applied to the extracted-value expression.
type comparisonStrategy struct {
	op       Operator
	declared types.ScalarType
}

func (s comparisonStrategy) Render(b *sqlfrag.Builder, expr Expr, literal interface{}) (string, error) {
	value, err := normalizeLiteral(s.declared, expr.Field, literal)
	if err != nil {
		return "", err
	}
	cast := CastFor(s.declared, s.op)
	return fmt.Sprintf("%s %s %s", expr.castExpr(cast), s.op.symbol(), b.BindValue(value)), nil
}

// membershipStrategy renders in/notin as parameterized array membership.
// The whole list travels as one bound array parameter.
type membershipStrategy struct {
	op       Operator
	declared types.ScalarType
}

func (s membershipStrategy) Render(b *sqlfrag.Builder, expr Expr, literal interface{}) (string, error) {
	rv := reflect.ValueOf(literal)
	if literal == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return "", &qlerrors.InvalidLiteralError{
			Field:  expr.Field,
			Value:  literal,
			Want:   s.declared.String(),
			Reason: fmt.Sprintf("%q operator requires a list", s.op),
		}
	}

	values := make([]interface{}, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := normalizeLiteral(s.declared, expr.Field, rv.Index(i).Interface())
		if err != nil {
			return "", err
		}
		values = append(values, v)
	}

	cast := CastFor(s.declared, s.op)
	if s.op == NotIn {
		return fmt.Sprintf("%s <> ALL(%s)", expr.castExpr(cast), b.BindList(values)), nil
	}
	return fmt.Sprintf("%s = ANY(%s)", expr.castExpr(cast), b.BindList(values)), nil
}

// patternStrategy renders contains/startswith/endswith as a parameterized
// LIKE. LIKE metacharacters in the literal are escaped so the caller's value
// matches literally.
type patternStrategy struct {
	op       Operator
	declared types.ScalarType
}

func (s patternStrategy) Render(b *sqlfrag.Builder, expr Expr, literal interface{}) (string, error) {
	str, ok := literal.(string)
	if !ok {
		return "", &qlerrors.InvalidLiteralError{
			Field:  expr.Field,
			Value:  literal,
			Want:   s.declared.String(),
			Reason: fmt.Sprintf("%q operator requires a string", s.op),
		}
	}

	var pattern string
	escaped := escapeLikePattern(str)
	switch s.op {
	case Contains:
		pattern = "%" + escaped + "%"
	case StartsWith:
		pattern = escaped + "%"
	case EndsWith:
		pattern = "%" + escaped
	}
	return fmt.Sprintf("%s LIKE %s", expr.Text, b.BindValue(pattern)), nil
}

// ltreeDescendantStrategy renders descendant-of containment for
// HierarchicalPath fields. This is the only place an ltree cast is ever
// produced, and only because the declared type is HierarchicalPath.
type ltreeDescendantStrategy struct{}

func (ltreeDescendantStrategy) Render(b *sqlfrag.Builder, expr Expr, literal interface{}) (string, error) {
	value, err := normalizeLiteral(types.HierarchicalPath, expr.Field, literal)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s <@ %s", expr.castExpr("ltree"), b.BindValue(value)), nil
}

// jsonCompareStrategy renders jsonb equality for Json fields against the
// object-valued extraction.
type jsonCompareStrategy struct {
	op Operator
}

func (s jsonCompareStrategy) Render(b *sqlfrag.Builder, expr Expr, literal interface{}) (string, error) {
	encoded, err := json.Marshal(literal)
	if err != nil {
		return "", &qlerrors.InvalidLiteralError{
			Field: expr.Field, Value: literal, Want: "json", Reason: err.Error(),
		}
	}
	return fmt.Sprintf("%s %s CAST(%s AS jsonb)", expr.JSON, s.op.symbol(), b.BindValue(string(encoded))), nil
}

// jsonContainsStrategy renders jsonb containment (@>) for Json fields.
type jsonContainsStrategy struct{}

func (jsonContainsStrategy) Render(b *sqlfrag.Builder, expr Expr, literal interface{}) (string, error) {
	encoded, err := json.Marshal(literal)
	if err != nil {
		return "", &qlerrors.InvalidLiteralError{
			Field: expr.Field, Value: literal, Want: "json", Reason: err.Error(),
		}
	}
	return fmt.Sprintf("%s @> CAST(%s AS jsonb)", expr.JSON, b.BindValue(string(encoded))), nil
}

// isNullStrategy renders IS NULL / IS NOT NULL. It ignores cast policy
// entirely and binds no parameter.
type isNullStrategy struct{}

func (isNullStrategy) Render(_ *sqlfrag.Builder, expr Expr, literal interface{}) (string, error) {
	isNull, ok := literal.(bool)
	if !ok {
		return "", &qlerrors.InvalidLiteralError{
			Field:  expr.Field,
			Value:  literal,
			Want:   "boolean",
			Reason: `"isnull" operator requires a boolean`,
		}
	}
	if isNull {
		return expr.Text + " IS NULL", nil
	}
	return expr.Text + " IS NOT NULL", nil
}

// escapeLikePattern escapes LIKE metacharacters with the PostgreSQL default
// escape character.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
