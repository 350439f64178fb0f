// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package sqlfrag assembles parameterized SQL fragments. Fragments carry
// named :pN placeholders plus their bound values; Bind rewrites them to the
// driver's positional style with sqlx. Caller input can only enter a fragment
// as a bound value, never as text.
package sqlfrag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Bindvar styles accepted by Fragment.Bind.
const (
	BindDollar   = sqlx.DOLLAR   // $1, $2, ... (PostgreSQL)
	BindQuestion = sqlx.QUESTION // ?, ?, ...
	BindNamed    = sqlx.NAMED    // :p0, :p1, ... (left as-is)
)

// castToken temporarily masks "::" casts so sqlx named-parameter binding
// does not mistake "::numeric" for a ":numeric" placeholder.
const castToken = "__CAST__"

// Fragment is an immutable compiled SQL fragment: placeholder text plus the
// values bound to it. An empty fragment contributes no clause at all.
type Fragment struct {
	text string
	args map[string]interface{}
}

// Empty reports whether the fragment contributes no SQL.
func (f *Fragment) Empty() bool {
	return f == nil || f.text == ""
}

// SQL returns the fragment text in named-parameter (:pN) form.
func (f *Fragment) SQL() string {
	if f == nil {
		return ""
	}
	return f.text
}

// Args returns the named bound values.
func (f *Fragment) Args() map[string]interface{} {
	if f == nil {
		return nil
	}
	return f.args
}

// Bind rewrites the fragment into the requested bindvar style and returns the
// SQL text together with the bound values in placeholder order.
func (f *Fragment) Bind(bindvar int) (string, []interface{}, error) {
	if f.Empty() {
		return "", nil, nil
	}
	if bindvar == BindNamed {
		return f.text, f.orderedArgs(), nil
	}

	// Mask casts before named binding, restore after (sqlx.Named would
	// otherwise consume the type name following "::" as a parameter).
	masked := strings.ReplaceAll(f.text, "::", castToken)

	bound, args, err := sqlx.Named(masked, f.argsOrEmpty())
	if err != nil {
		return "", nil, fmt.Errorf("failed to bind named parameters: %w", err)
	}
	bound = sqlx.Rebind(bindvar, bound)
	bound = strings.ReplaceAll(bound, castToken, "::")
	return bound, args, nil
}

func (f *Fragment) argsOrEmpty() map[string]interface{} {
	if f.args == nil {
		return map[string]interface{}{}
	}
	return f.args
}

// orderedArgs returns values sorted by placeholder index, for the named style
// where sqlx does not reorder them for us.
func (f *Fragment) orderedArgs() []interface{} {
	names := make([]string, 0, len(f.args))
	for name := range f.args {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return paramIndex(names[i]) < paramIndex(names[j])
	})
	out := make([]interface{}, 0, len(names))
	for _, name := range names {
		out = append(out, f.args[name])
	}
	return out
}

func paramIndex(name string) int {
	var n int
	fmt.Sscanf(name, "p%d", &n)
	return n
}

// Builder accumulates rendered condition parts and their bound values. One
// builder is used per compilation so placeholder numbering stays contiguous
// across all parts.
type Builder struct {
	parts []string
	args  map[string]interface{}
	n     int
}

// NewBuilder returns an empty fragment builder.
func NewBuilder() *Builder {
	return &Builder{args: make(map[string]interface{})}
}

// BindValue registers a literal value and returns its :pN placeholder. This
// is the single audited point where caller input joins a fragment; the value
// is always carried as a bound parameter, never interpolated into text.
func (b *Builder) BindValue(v interface{}) string {
	name := fmt.Sprintf("p%d", b.n)
	b.n++
	b.args[name] = v
	return ":" + name
}

// BindList registers a slice literal as a single array parameter suitable
// for "= ANY(...)" membership tests. Elements are never string-joined.
func (b *Builder) BindList(v interface{}) string {
	name := fmt.Sprintf("p%d", b.n)
	b.n++
	b.args[name] = pq.Array(v)
	return ":" + name
}

// WritePart appends a fully rendered condition.
func (b *Builder) WritePart(part string) {
	if part != "" {
		b.parts = append(b.parts, part)
	}
}

// Len returns the number of accumulated parts.
func (b *Builder) Len() int {
	return len(b.parts)
}

// Fragment joins the accumulated parts with sep into an immutable fragment.
// A builder with no parts yields the empty fragment.
func (b *Builder) Fragment(sep string) *Fragment {
	if len(b.parts) == 0 {
		return &Fragment{}
	}
	return &Fragment{
		text: strings.Join(b.parts, sep),
		args: b.args,
	}
}
