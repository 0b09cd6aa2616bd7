// Package query filters decoded records with boolean expressions.
//
// Expressions are compiled once and evaluated against a record's normalized
// keys, so a report pipeline can select records the same way it would read
// them:
//
//	q, err := query.Compile(`section == "basic" && varname != ""`)
//	matched, err := q.Match(rec)
//
// Nested records appear as nested maps, reachable with dot access
// (characteristics.input_only). Keys absent from a record evaluate as nil.
package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/twinfer/ytag-plugin/pkg/ytag"
)

// Query is a compiled boolean expression over record fields.
type Query struct {
	src  string
	prog *vm.Program
}

// Compile compiles a boolean expression. Unknown identifiers are allowed
// at compile time since record shapes are only known per document.
func Compile(src string) (*Query, error) {
	prog, err := expr.Compile(src,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compiling query %q: %w", src, err)
	}
	return &Query{src: src, prog: prog}, nil
}

// Src returns the expression source the query was compiled from.
func (q *Query) Src() string { return q.src }

// Match evaluates the query against one record.
func (q *Query) Match(rec *ytag.Record) (bool, error) {
	env, ok := ytag.Plain(rec).(map[string]any)
	if !ok {
		return false, fmt.Errorf("record did not flatten to a map")
	}
	out, err := expr.Run(q.prog, env)
	if err != nil {
		return false, fmt.Errorf("evaluating query %q: %w", q.src, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("query %q returned %T, want bool", q.src, out)
	}
	return b, nil
}

// Filter returns the records matching the expression, in input order.
func Filter(recs []*ytag.Record, src string) ([]*ytag.Record, error) {
	q, err := Compile(src)
	if err != nil {
		return nil, err
	}
	var out []*ytag.Record
	for _, rec := range recs {
		ok, err := q.Match(rec)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
