// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package types defines the closed catalog of semantic scalar types that can
// be attached to filterable fields. The declared type, never the runtime
// shape of a value, drives every casting decision downstream.
package types

import "fmt"

// ScalarType identifies the semantic type declared for a field by the
// external schema layer. It is immutable once attached to a field.
type ScalarType int

const (
	// Generic is the zero value: compare as text, never cast.
	Generic ScalarType = iota
	Text
	Integer
	Float
	Decimal
	Boolean
	Uuid
	Date
	DateTime
	Hostname
	IpAddress
	HierarchicalPath
	Json
)

var scalarNames = map[ScalarType]string{
	Generic:          "generic",
	Text:             "text",
	Integer:          "integer",
	Float:            "float",
	Decimal:          "decimal",
	Boolean:          "boolean",
	Uuid:             "uuid",
	Date:             "date",
	DateTime:         "datetime",
	Hostname:         "hostname",
	IpAddress:        "ipaddress",
	HierarchicalPath: "hierarchicalpath",
	Json:             "json",
}

var scalarByName = func() map[string]ScalarType {
	m := make(map[string]ScalarType, len(scalarNames))
	for t, name := range scalarNames {
		m[name] = t
	}
	return m
}()

func (t ScalarType) String() string {
	if name, ok := scalarNames[t]; ok {
		return name
	}
	return fmt.Sprintf("scalartype(%d)", int(t))
}

// ParseScalarType resolves the lowercase name of a scalar type.
func ParseScalarType(name string) (ScalarType, error) {
	if t, ok := scalarByName[name]; ok {
		return t, nil
	}
	return Generic, fmt.Errorf("unknown scalar type %q", name)
}

// AllScalarTypes returns every catalog entry in declaration order.
func AllScalarTypes() []ScalarType {
	return []ScalarType{
		Generic, Text, Integer, Float, Decimal, Boolean, Uuid,
		Date, DateTime, Hostname, IpAddress, HierarchicalPath, Json,
	}
}

// IsNumeric reports whether values of this type compare as numbers.
func (t ScalarType) IsNumeric() bool {
	return t == Integer || t == Float || t == Decimal
}

// IsTemporal reports whether values of this type compare as points in time.
func (t ScalarType) IsTemporal() bool {
	return t == Date || t == DateTime
}

// ComparesAsText reports whether values of this type are compared as the raw
// extracted text, with no cast applied. Hostname is deliberately in this set:
// dotted hostname values must never be mistaken for hierarchical paths.
func (t ScalarType) ComparesAsText() bool {
	switch t {
	case Generic, Text, Hostname, Boolean:
		return true
	}
	return false
}

// TypeInfo carries the identity metadata the cast policy consumes.
type TypeInfo struct {
	Name string
	// SQLCast is the PostgreSQL type the extracted JSONB text is cast to
	// when the cast policy applies, or "" when values compare uncast.
	SQLCast string
}

var catalog = map[ScalarType]TypeInfo{
	Generic:          {Name: "generic", SQLCast: ""},
	Text:             {Name: "text", SQLCast: ""},
	Integer:          {Name: "integer", SQLCast: "numeric"},
	Float:            {Name: "float", SQLCast: "numeric"},
	Decimal:          {Name: "decimal", SQLCast: "numeric"},
	Boolean:          {Name: "boolean", SQLCast: ""},
	Uuid:             {Name: "uuid", SQLCast: "uuid"},
	Date:             {Name: "date", SQLCast: "date"},
	DateTime:         {Name: "datetime", SQLCast: "timestamptz"},
	Hostname:         {Name: "hostname", SQLCast: ""},
	IpAddress:        {Name: "ipaddress", SQLCast: "inet"},
	HierarchicalPath: {Name: "hierarchicalpath", SQLCast: "ltree"},
	Json:             {Name: "json", SQLCast: "jsonb"},
}

// Info returns the catalog metadata for a scalar type. Unknown values map to
// the Generic entry.
func (t ScalarType) Info() TypeInfo {
	if info, ok := catalog[t]; ok {
		return info
	}
	return catalog[Generic]
}
