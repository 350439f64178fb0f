// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package hybridq compiles GraphQL-style filter and sort inputs into
// parameterized PostgreSQL predicate and ORDER BY fragments for hybrid
// tables, where entity fields live either in direct SQL columns or nested
// inside a JSONB data column.
//
// Casting decisions are driven entirely by the scalar type declared for a
// field at view registration; the shape of a runtime value never selects a
// cast. Caller literals only ever reach the database as bound parameters.
package hybridq

import (
	"github.com/qolzam/hybridq/compiler"
	"github.com/qolzam/hybridq/config"
	"github.com/qolzam/hybridq/schema"
	"github.com/qolzam/hybridq/sqlfrag"
	"github.com/qolzam/hybridq/types"
)

// Engine bundles a view registry with a predicate/order compiler. Build one
// per process during startup, register the views, and share it across
// request handlers; all methods are safe for concurrent use afterwards.
type Engine struct {
	views    *schema.Registry
	compiler *compiler.Compiler
}

// New builds an engine with the given options.
func New(opts config.Options) (*Engine, error) {
	views := schema.NewRegistry()
	c, err := compiler.New(views, opts)
	if err != nil {
		return nil, err
	}
	return &Engine{views: views, compiler: c}, nil
}

// NewDefault builds an engine with the PostgreSQL defaults: a "data" JSONB
// column and $N placeholders.
func NewDefault() *Engine {
	e, err := New(config.Default())
	if err != nil {
		// Default options are statically valid.
		panic(err)
	}
	return e
}

// NewFromEnv builds an engine configured from the environment (and a local
// .env file when present).
func NewFromEnv() (*Engine, error) {
	opts, err := config.Load()
	if err != nil {
		return nil, err
	}
	return New(opts)
}

// RegisterView records a view's columns, JSONB flag and per-field scalar
// types. Identical re-registration is a no-op; a conflicting one errors.
func (e *Engine) RegisterView(name string, columns []string, hasJSONBData bool, fieldTypes map[string]types.ScalarType) error {
	return e.views.Register(schema.NewViewSchema(name, columns, hasJSONBData, fieldTypes))
}

// Views returns the registered view names, sorted.
func (e *Engine) Views() []string {
	return e.views.Views()
}

// Options returns the engine's options.
func (e *Engine) Options() config.Options {
	return e.compiler.Options()
}

// CompileWhere compiles a canonical WHERE tree for a view.
func (e *Engine) CompileWhere(view string, node compiler.WhereNode) (*sqlfrag.Fragment, error) {
	return e.compiler.CompileWhere(view, node)
}

// CompileWhereMap adapts a raw nested filter mapping and compiles it.
func (e *Engine) CompileWhereMap(view string, input map[string]interface{}) (*sqlfrag.Fragment, error) {
	node, err := compiler.WhereFromMap(input)
	if err != nil {
		return nil, err
	}
	return e.compiler.CompileWhere(view, node)
}

// CompileWhereInput adapts a typed filter input struct and compiles it.
func (e *Engine) CompileWhereInput(view string, input interface{}) (*sqlfrag.Fragment, error) {
	node, err := compiler.WhereFromInput(input)
	if err != nil {
		return nil, err
	}
	return e.compiler.CompileWhere(view, node)
}

// CompileOrder compiles a canonical ORDER BY tree for a view.
func (e *Engine) CompileOrder(view string, node compiler.OrderNode) (*sqlfrag.Fragment, error) {
	return e.compiler.CompileOrder(view, node)
}

// CompileOrderPairs adapts ordered (field, direction) pairs and compiles
// them.
func (e *Engine) CompileOrderPairs(view string, pairs []compiler.OrderPair) (*sqlfrag.Fragment, error) {
	node, err := compiler.OrderFromPairs(pairs)
	if err != nil {
		return nil, err
	}
	return e.compiler.CompileOrder(view, node)
}

// CompileOrderInput adapts a typed order input struct and compiles it.
func (e *Engine) CompileOrderInput(view string, input interface{}) (*sqlfrag.Fragment, error) {
	node, err := compiler.OrderFromInput(input)
	if err != nil {
		return nil, err
	}
	return e.compiler.CompileOrder(view, node)
}

// Bind rewrites a compiled fragment into the engine's configured bindvar
// style, returning SQL text plus positional values.
func (e *Engine) Bind(f *sqlfrag.Fragment) (string, []interface{}, error) {
	return f.Bind(e.compiler.Options().Bindvar)
}
