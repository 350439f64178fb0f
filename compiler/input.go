// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package compiler

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/qolzam/hybridq/operators"
	"github.com/qolzam/hybridq/qlerrors"
)

// WhereFromMap adapts a raw nested mapping into the canonical WhereNode.
// The expected shape is {field: {operator: literal}}; an inner map whose
// keys are not operators is a nested child path, and a bare value is
// shorthand for an equality test. Field names may themselves be dotted.
//
// Map iteration order is not meaningful, so conditions are emitted in
// canonical order: sorted by field path, then by operator declaration order.
// The typed adapter applies the same ordering, so both input forms compile
// to identical SQL.
func WhereFromMap(input map[string]interface{}) (WhereNode, error) {
	var conds []Condition
	if err := walkWhereMap(FieldPath{}, input, &conds); err != nil {
		return WhereNode{}, err
	}
	sortConditions(conds)
	return WhereNode{Conditions: conds}, nil
}

func walkWhereMap(prefix FieldPath, m map[string]interface{}, out *[]Condition) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		parsed, err := ParseFieldPath(key)
		if err != nil {
			return err
		}
		path := prefix
		for _, seg := range parsed.Segments {
			path = path.Child(seg)
		}

		value := m[key]
		inner, isMap := value.(map[string]interface{})
		if !isMap {
			// Bare value: shorthand for equality.
			*out = append(*out, Condition{Path: path, Op: operators.Eq, Literal: value})
			continue
		}

		opValues, nested, err := partitionWhereMap(path, inner)
		if err != nil {
			return err
		}
		for _, op := range operators.AllOperators() {
			if lit, ok := opValues[op]; ok {
				*out = append(*out, Condition{Path: path, Op: op, Literal: lit})
			}
		}
		if nested != nil {
			if err := walkWhereMap(path, nested, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// partitionWhereMap splits an inner map into operator entries and a nested
// child mapping. A map mixing the two is ambiguous and fails loudly.
func partitionWhereMap(path FieldPath, m map[string]interface{}) (map[operators.Operator]interface{}, map[string]interface{}, error) {
	opValues := make(map[operators.Operator]interface{})
	var nested map[string]interface{}

	for key, value := range m {
		if op, ok := operators.ParseOperator(key); ok {
			if prev, dup := opValues[op]; dup && !reflect.DeepEqual(prev, value) {
				return nil, nil, fmt.Errorf("field %q repeats operator %q with different values", path, op)
			}
			opValues[op] = value
			continue
		}
		if nested == nil {
			nested = make(map[string]interface{})
		}
		nested[key] = value
	}

	if len(opValues) > 0 && nested != nil {
		return nil, nil, fmt.Errorf("field %q mixes operator keys and nested field keys", path)
	}
	return opValues, nested, nil
}

// WhereFromInput adapts a typed filter input object into the canonical
// WhereNode. The outer struct's fields name filterable fields (json tag
// wins over the lowercased Go name); each field holds either a leaf filter
// struct with operator-named members (Eq, Neq, Gt, ..., IsNull) or a nested
// filter struct addressing a child path. Nil members are skipped.
func WhereFromInput(input interface{}) (WhereNode, error) {
	rv, ok := derefStruct(reflect.ValueOf(input))
	if !ok {
		return WhereNode{}, fmt.Errorf("typed where input must be a struct, got %T", input)
	}

	var conds []Condition
	if err := walkWhereInput(FieldPath{}, rv, &conds); err != nil {
		return WhereNode{}, err
	}
	sortConditions(conds)
	return WhereNode{Conditions: conds}, nil
}

func walkWhereInput(prefix FieldPath, rv reflect.Value, out *[]Condition) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		if fv.Kind() != reflect.Struct {
			return fmt.Errorf("where input field %s must hold a filter struct, got %s", sf.Name, fv.Kind())
		}

		name := inputFieldName(sf)
		parsed, err := ParseFieldPath(name)
		if err != nil {
			return err
		}
		path := prefix
		for _, seg := range parsed.Segments {
			path = path.Child(seg)
		}

		if isLeafFilter(fv.Type()) {
			if err := collectLeafConditions(path, fv, out); err != nil {
				return err
			}
			continue
		}
		if err := walkWhereInput(path, fv, out); err != nil {
			return err
		}
	}
	return nil
}

// isLeafFilter reports whether a struct type is a per-field filter: at least
// one member names an operator. Mixing operator members and nested fields in
// one struct is rejected by collectLeafConditions.
func isLeafFilter(rt reflect.Type) bool {
	for i := 0; i < rt.NumField(); i++ {
		if _, ok := operatorForField(rt.Field(i)); ok {
			return true
		}
	}
	return false
}

func collectLeafConditions(path FieldPath, rv reflect.Value, out *[]Condition) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		op, ok := operatorForField(sf)
		if !ok {
			return fmt.Errorf("filter struct %s mixes operator member %s with non-operator members", rt.Name(), sf.Name)
		}

		fv := rv.Field(i)
		switch fv.Kind() {
		case reflect.Ptr:
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		case reflect.Slice, reflect.Map, reflect.Interface:
			if fv.IsNil() {
				continue
			}
		}
		*out = append(*out, Condition{Path: path, Op: op, Literal: fv.Interface()})
	}
	return nil
}

func operatorForField(sf reflect.StructField) (operators.Operator, bool) {
	token := jsonTagName(sf)
	if token == "" {
		token = strings.ToLower(sf.Name)
	}
	return operators.ParseOperator(token)
}

func inputFieldName(sf reflect.StructField) string {
	if tag := jsonTagName(sf); tag != "" {
		return tag
	}
	return strings.ToLower(sf.Name[:1]) + sf.Name[1:]
}

func jsonTagName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

func derefStruct(rv reflect.Value) (reflect.Value, bool) {
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return rv, false
		}
		rv = rv.Elem()
	}
	return rv, rv.Kind() == reflect.Struct
}

// OrderPair is one entry of an ORDER BY input in declaration order. The
// Direction member accepts a Direction, a direction string in any casing, a
// nil (entry dropped), or a nested []OrderPair for composite paths.
type OrderPair struct {
	Field     string
	Direction interface{}
}

// OrderFromPairs adapts ordered (field, direction) pairs into an OrderNode,
// flattening nested pairs in declaration order.
func OrderFromPairs(pairs []OrderPair) (OrderNode, error) {
	var entries []OrderEntry
	if err := walkOrderPairs(FieldPath{}, pairs, &entries); err != nil {
		return OrderNode{}, err
	}
	return OrderNode{Entries: entries}, nil
}

func walkOrderPairs(prefix FieldPath, pairs []OrderPair, out *[]OrderEntry) error {
	for _, pair := range pairs {
		parsed, err := ParseFieldPath(pair.Field)
		if err != nil {
			return err
		}
		path := prefix
		for _, seg := range parsed.Segments {
			path = path.Child(seg)
		}

		switch d := pair.Direction.(type) {
		case nil:
			*out = append(*out, OrderEntry{Path: path, Direction: DirectionNone})
		case Direction:
			*out = append(*out, OrderEntry{Path: path, Direction: d})
		case string:
			dir, err := ParseDirection(d)
			if err != nil {
				return err
			}
			*out = append(*out, OrderEntry{Path: path, Direction: dir})
		case []OrderPair:
			if err := walkOrderPairs(path, d, out); err != nil {
				return err
			}
		default:
			return &qlerrors.InvalidDirectionError{Token: fmt.Sprint(d)}
		}
	}
	return nil
}

// OrderFromInput adapts a typed order input struct: members hold a
// Direction (or direction string) for the field they name, or a nested
// order struct for composite paths. Declaration order is preserved; unset
// members are dropped.
func OrderFromInput(input interface{}) (OrderNode, error) {
	rv, ok := derefStruct(reflect.ValueOf(input))
	if !ok {
		return OrderNode{}, fmt.Errorf("typed order input must be a struct, got %T", input)
	}

	var entries []OrderEntry
	if err := walkOrderInput(FieldPath{}, rv, &entries); err != nil {
		return OrderNode{}, err
	}
	return OrderNode{Entries: entries}, nil
}

func walkOrderInput(prefix FieldPath, rv reflect.Value, out *[]OrderEntry) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}

		name := inputFieldName(sf)
		parsed, err := ParseFieldPath(name)
		if err != nil {
			return err
		}
		path := prefix
		for _, seg := range parsed.Segments {
			path = path.Child(seg)
		}

		switch fv.Kind() {
		case reflect.Struct:
			if err := walkOrderInput(path, fv, out); err != nil {
				return err
			}
		case reflect.String:
			token := fv.String()
			if token == "" {
				continue
			}
			dir, err := ParseDirection(token)
			if err != nil {
				return err
			}
			*out = append(*out, OrderEntry{Path: path, Direction: dir})
		case reflect.Int:
			if dir, ok := fv.Interface().(Direction); ok {
				if dir != DirectionNone {
					*out = append(*out, OrderEntry{Path: path, Direction: dir})
				}
				continue
			}
			return fmt.Errorf("order input field %s has unsupported type %s", sf.Name, fv.Type())
		default:
			return fmt.Errorf("order input field %s has unsupported type %s", sf.Name, fv.Type())
		}
	}
	return nil
}
