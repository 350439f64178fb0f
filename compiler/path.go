// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package compiler walks WHERE and ORDER BY input trees and compiles them
// into parameterized SQL fragments against hybrid tables, where a field
// lives either in a direct column or nested inside the JSONB data column.
package compiler

import (
	"regexp"
	"strings"

	"github.com/qolzam/hybridq/operators"
	"github.com/qolzam/hybridq/qlerrors"
	"github.com/qolzam/hybridq/schema"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// FieldPath is an ordered sequence of path segments addressing a field,
// possibly nested inside the JSONB column. Segmentation operates only on the
// field path itself; a literal value containing dots never influences it.
type FieldPath struct {
	Segments []string
}

// ParseFieldPath splits a dotted path and validates every segment as an
// identifier.
func ParseFieldPath(dotted string) (FieldPath, error) {
	if dotted == "" {
		return FieldPath{}, &qlerrors.InvalidFieldPathError{Path: dotted, Reason: "path must not be empty"}
	}
	segments := strings.Split(dotted, ".")
	for _, seg := range segments {
		if !identifierPattern.MatchString(seg) {
			return FieldPath{}, &qlerrors.InvalidFieldPathError{
				Path:   dotted,
				Reason: "segments must be valid identifiers",
			}
		}
	}
	return FieldPath{Segments: segments}, nil
}

// Child returns the path extended by one segment.
func (p FieldPath) Child(segment string) FieldPath {
	segments := make([]string, 0, len(p.Segments)+1)
	segments = append(segments, p.Segments...)
	segments = append(segments, segment)
	return FieldPath{Segments: segments}
}

func (p FieldPath) String() string {
	return strings.Join(p.Segments, ".")
}

// ResolvePath resolves a field path against a view's schema.
//
// A single-segment path naming a direct column resolves to that column,
// regardless of whether the view also carries a JSONB data column. Anything
// else resolves to a chained JSONB extraction when the view has a data
// column: object navigation (->) for the leading segments, text extraction
// (->>) for the final one. Otherwise the field is unknown.
func ResolvePath(p FieldPath, view schema.ViewSchema, jsonbColumn string) (operators.Expr, error) {
	if len(p.Segments) == 0 {
		return operators.Expr{}, &qlerrors.InvalidFieldPathError{Path: "", Reason: "path must not be empty"}
	}

	if len(p.Segments) == 1 && view.HasColumn(p.Segments[0]) {
		col := p.Segments[0]
		return operators.Expr{
			Text:     col,
			JSON:     col,
			IsColumn: true,
			Field:    col,
		}, nil
	}

	if !view.HasJSONBData {
		return operators.Expr{}, &qlerrors.UnknownFieldError{Path: p.String(), View: view.Name}
	}

	var sb strings.Builder
	sb.WriteString(jsonbColumn)
	for _, seg := range p.Segments[:len(p.Segments)-1] {
		sb.WriteString("->'")
		sb.WriteString(seg)
		sb.WriteString("'")
	}
	object := sb.String()
	leaf := p.Segments[len(p.Segments)-1]

	return operators.Expr{
		Text:  object + "->>'" + leaf + "'",
		JSON:  object + "->'" + leaf + "'",
		Field: p.String(),
	}, nil
}
