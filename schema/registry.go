// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema holds the process-wide registry of view metadata consumed
// by the predicate and order compilers. Views are registered once during
// startup by the external schema builder and are read-only afterwards.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/qolzam/hybridq/internal/pkg/log"
	"github.com/qolzam/hybridq/qlerrors"
	"github.com/qolzam/hybridq/types"
)

// ViewSchema describes one table or view targeted by compiled predicates:
// its direct SQL columns, whether it carries a JSONB data column, and the
// scalar type declared for each filterable field by the external type
// system.
type ViewSchema struct {
	Name         string
	Columns      map[string]bool
	HasJSONBData bool
	// FieldTypes maps a field path (dotted for nested JSONB fields) or a
	// leaf field name to its declared scalar type. Fields without an entry
	// compare as Generic text.
	FieldTypes map[string]types.ScalarType
}

// NewViewSchema builds a ViewSchema from a column list.
func NewViewSchema(name string, columns []string, hasJSONBData bool, fieldTypes map[string]types.ScalarType) ViewSchema {
	cols := make(map[string]bool, len(columns))
	for _, c := range columns {
		cols[c] = true
	}
	if fieldTypes == nil {
		fieldTypes = map[string]types.ScalarType{}
	}
	return ViewSchema{
		Name:         name,
		Columns:      cols,
		HasJSONBData: hasJSONBData,
		FieldTypes:   fieldTypes,
	}
}

// HasColumn reports whether name is a direct SQL column of the view.
func (s ViewSchema) HasColumn(name string) bool {
	return s.Columns[name]
}

// FieldType returns the declared scalar type for a field path. The full
// dotted path wins over the leaf name; unknown fields are Generic.
func (s ViewSchema) FieldType(path string) types.ScalarType {
	if t, ok := s.FieldTypes[path]; ok {
		return t
	}
	if i := strings.LastIndex(path, "."); i >= 0 {
		if t, ok := s.FieldTypes[path[i+1:]]; ok {
			return t
		}
	}
	return types.Generic
}

// equal compares the registration-relevant metadata of two schemas.
func (s ViewSchema) equal(other ViewSchema) bool {
	if s.Name != other.Name || s.HasJSONBData != other.HasJSONBData {
		return false
	}
	if len(s.Columns) != len(other.Columns) {
		return false
	}
	for c := range s.Columns {
		if !other.Columns[c] {
			return false
		}
	}
	if len(s.FieldTypes) != len(other.FieldTypes) {
		return false
	}
	for f, t := range s.FieldTypes {
		if ot, ok := other.FieldTypes[f]; !ok || ot != t {
			return false
		}
	}
	return true
}

// columnList is a sorted column list for conflict diagnostics.
func (s ViewSchema) columnList() string {
	cols := make([]string, 0, len(s.Columns))
	for c := range s.Columns {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return strings.Join(cols, ",")
}

// Registry is the view-name -> ViewSchema lookup shared by all request
// handlers. The only write path is Register, which runs during startup;
// reads take the shared lock and never block each other.
type Registry struct {
	mu    sync.RWMutex
	views map[string]ViewSchema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{views: make(map[string]ViewSchema)}
}

// Register records a view's schema. Re-registering identical metadata is a
// silent no-op; conflicting metadata for the same name fails loudly so
// schema drift cannot hide in a long-lived process.
func (r *Registry) Register(s ViewSchema) error {
	if s.Name == "" {
		return fmt.Errorf("view schema requires a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.views[s.Name]
	if !ok {
		r.views[s.Name] = s
		log.Debug("registered view %s (%d columns, jsonb=%t)", s.Name, len(s.Columns), s.HasJSONBData)
		return nil
	}
	if existing.equal(s) {
		return nil
	}
	log.Error("conflicting re-registration of view %s", s.Name)
	return &qlerrors.ConflictingSchemaRegistrationError{
		View: s.Name,
		Detail: fmt.Sprintf("registered columns [%s] jsonb=%t, attempted columns [%s] jsonb=%t",
			existing.columnList(), existing.HasJSONBData, s.columnList(), s.HasJSONBData),
	}
}

// Lookup returns the schema registered for a view. An unregistered view is
// a hard error, never a guessed default.
func (r *Registry) Lookup(name string) (ViewSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.views[name]
	if !ok {
		return ViewSchema{}, &qlerrors.UnknownViewError{View: name}
	}
	return s, nil
}

// Views returns the registered view names, sorted.
func (r *Registry) Views() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.views))
	for name := range r.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
