// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package compiler

import (
	"github.com/qolzam/hybridq/config"
	"github.com/qolzam/hybridq/internal/pkg/log"
	"github.com/qolzam/hybridq/operators"
	"github.com/qolzam/hybridq/qlerrors"
	"github.com/qolzam/hybridq/schema"
	"github.com/qolzam/hybridq/sqlfrag"
)

// Compiler turns WhereNode/OrderNode trees into parameterized SQL fragments
// for a registered view. It holds only immutable registries and options, so
// one instance serves any number of concurrent requests. Compilation is
// pure, synchronous transformation with no I/O.
type Compiler struct {
	strategies *operators.Registry
	views      *schema.Registry
	opts       config.Options
}

// New builds a compiler over a view registry. The operator strategy table is
// constructed here, once, and is read-only afterwards.
func New(views *schema.Registry, opts config.Options) (*Compiler, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	log.SetDebug(opts.Debug)
	return &Compiler{
		strategies: operators.NewRegistry(),
		views:      views,
		opts:       opts,
	}, nil
}

// Options returns the compiler's options.
func (c *Compiler) Options() config.Options {
	return c.opts
}

// Views returns the view registry the compiler consults.
func (c *Compiler) Views() *schema.Registry {
	return c.views
}

// CompileWhere compiles a WHERE tree into an AND-combined predicate
// fragment. An empty node compiles to the empty fragment so no WHERE clause
// is contributed. The fragment is meant to be spliced after the WHERE
// keyword of a larger SELECT; the compiler never emits a full statement.
func (c *Compiler) CompileWhere(view string, node WhereNode) (*sqlfrag.Fragment, error) {
	vs, err := c.views.Lookup(view)
	if err != nil {
		return nil, err
	}

	b := sqlfrag.NewBuilder()
	for _, cond := range node.Conditions {
		expr, err := ResolvePath(cond.Path, vs, c.opts.JSONBColumn)
		if err != nil {
			return nil, err
		}

		// SQL NULL never equals anything: a null literal with eq/neq
		// becomes an IS NULL test instead of a parameterized equality.
		if cond.Literal == nil {
			part, err := renderNullTest(cond, expr)
			if err != nil {
				return nil, err
			}
			b.WritePart(part)
			continue
		}

		declared := vs.FieldType(cond.Path.String())
		strategy, err := c.strategies.GetStrategy(cond.Op, declared)
		if err != nil {
			return nil, err
		}

		part, err := strategy.Render(b, expr, cond.Literal)
		if err != nil {
			return nil, err
		}
		b.WritePart(part)
	}

	frag := b.Fragment(" AND ")
	log.Debug("compiled WHERE for view %s: %s", view, frag.SQL())
	return frag, nil
}

func renderNullTest(cond Condition, expr operators.Expr) (string, error) {
	switch cond.Op {
	case operators.Eq:
		return expr.Text + " IS NULL", nil
	case operators.Neq:
		return expr.Text + " IS NOT NULL", nil
	}
	return "", &qlerrors.InvalidLiteralError{
		Field:  expr.Field,
		Value:  nil,
		Want:   cond.Op.String(),
		Reason: "null literal is only valid with eq or neq",
	}
}

// CompileOrder compiles an ORDER BY tree into a comma-joined fragment meant
// to follow the ORDER BY keyword. Entries without a direction are skipped;
// input ordering is preserved.
func (c *Compiler) CompileOrder(view string, node OrderNode) (*sqlfrag.Fragment, error) {
	vs, err := c.views.Lookup(view)
	if err != nil {
		return nil, err
	}

	b := sqlfrag.NewBuilder()
	for _, entry := range node.Entries {
		if entry.Direction == DirectionNone {
			continue
		}
		expr, err := ResolvePath(entry.Path, vs, c.opts.JSONBColumn)
		if err != nil {
			return nil, err
		}
		b.WritePart(expr.Text + " " + entry.Direction.String())
	}

	frag := b.Fragment(", ")
	log.Debug("compiled ORDER BY for view %s: %s", view, frag.SQL())
	return frag, nil
}
