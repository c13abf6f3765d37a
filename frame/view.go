// Package frame is a small row-oriented dataframe: rows are *state.State
// records, columns are the union of their keys, and filtering returns
// zero-copy views over the parent rows.
package frame

import (
	"slices"

	"github.com/cmmc-org/cmmc/state"
)

// ============================================================================
// VIEW — Zero-Copy Row Access Interface
// ============================================================================
// Filters never copy rows. They read through this interface and return an
// index list into the parent.
//
// Implementations:
//   Frame          — owns a []*state.State (NDJSON, CSV, ad-hoc)
//   DomainView[T]  — reads typed structs via accessor functions (zero-copy)
//   subView        — filtered subset (indices into parent, zero-copy)
//   concatView     — virtual concatenation of two views
// ============================================================================

// View provides indexed access to a table of rows.
// Filters call Value in tight loops; keep implementations fast.
type View interface {
	Len() int
	Columns() []string
	Row(index int) *state.State
	Value(index int, column string) (any, bool)
}

// ============================================================================
// FRAME — owns its rows
// ============================================================================

// Frame is a View over a slice of rows.
type Frame struct {
	rows    []*state.State
	columns []string
}

// New creates a Frame with an explicit column list. Columns missing from
// the list but present in rows are appended in first-seen order.
func New(columns []string, rows []*state.State) *Frame {
	f := &Frame{rows: rows, columns: slices.Clone(columns)}
	f.cacheColumns()
	return f
}

// FromRecords creates a Frame whose columns are the union of row keys in
// first-seen order.
func FromRecords(rows []*state.State) *Frame {
	return New(nil, rows)
}

func (f *Frame) cacheColumns() {
	seen := make(map[string]bool, len(f.columns))
	for _, c := range f.columns {
		seen[c] = true
	}
	for _, r := range f.rows {
		for k := range r.Keys() {
			if !seen[k] {
				seen[k] = true
				f.columns = append(f.columns, k)
			}
		}
	}
}

func (f *Frame) Len() int          { return len(f.rows) }
func (f *Frame) Columns() []string { return f.columns }

func (f *Frame) Row(i int) *state.State {
	if i < 0 || i >= len(f.rows) {
		return nil
	}
	return f.rows[i]
}

func (f *Frame) Value(i int, column string) (any, bool) {
	if i < 0 || i >= len(f.rows) {
		return nil, false
	}
	v, err := f.rows[i].Get(column)
	if err != nil {
		return nil, false
	}
	return v, true
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

type subView struct {
	parent  View
	indices []int
}

func newSubView(parent View, indices []int) View {
	return &subView{parent: parent, indices: indices}
}

func (v *subView) Len() int          { return len(v.indices) }
func (v *subView) Columns() []string { return v.parent.Columns() }

func (v *subView) Row(i int) *state.State {
	if i < 0 || i >= len(v.indices) {
		return nil
	}
	return v.parent.Row(v.indices[i])
}

func (v *subView) Value(i int, column string) (any, bool) {
	if i < 0 || i >= len(v.indices) {
		return nil, false
	}
	return v.parent.Value(v.indices[i], column)
}

// ============================================================================
// CONCAT VIEW — virtual concatenation of two views
// ============================================================================

type concatView struct {
	a, b    View
	columns []string
}

// Concat logically appends b's rows after a's. Columns are the union, a's first.
func Concat(a, b View) View {
	cols := slices.Clone(a.Columns())
	for _, c := range b.Columns() {
		if !slices.Contains(cols, c) {
			cols = append(cols, c)
		}
	}
	return &concatView{a: a, b: b, columns: cols}
}

func (v *concatView) Len() int          { return v.a.Len() + v.b.Len() }
func (v *concatView) Columns() []string { return v.columns }

func (v *concatView) Row(i int) *state.State {
	if i < v.a.Len() {
		return v.a.Row(i)
	}
	return v.b.Row(i - v.a.Len())
}

func (v *concatView) Value(i int, column string) (any, bool) {
	if i < v.a.Len() {
		return v.a.Value(i, column)
	}
	return v.b.Value(i-v.a.Len(), column)
}

// Rows materializes the rows of a view, in order. The rows are shared.
func Rows(view View) []*state.State {
	out := make([]*state.State, view.Len())
	for i := range out {
		out[i] = view.Row(i)
	}
	return out
}

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := frame.NewDomainAdapter[Run]().
//	    Column("name", func(r Run) any { return r.Name }).
//	    Column("score", func(r Run) any { return r.Score })
//
//	view := adapter.Bind(runs)
//	best, _ := frame.Filter(view, "score", frame.OpGreaterEqual, 0.9)
//
// ============================================================================

// DomainAdapter builds a View from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	order []string
	cols  map[string]func(T) any
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		cols: make(map[string]func(T) any),
	}
}

// Column registers a column accessor.
func (a *DomainAdapter[T]) Column(name string, fn func(T) any) *DomainAdapter[T] {
	if _, exists := a.cols[name]; !exists {
		a.order = append(a.order, name)
	}
	a.cols[name] = fn
	return a
}

// Bind creates a View from a data slice. Zero-copy: it holds a reference.
func (a *DomainAdapter[T]) Bind(data []T) View {
	return &DomainView[T]{data: data, cols: a.cols, order: a.order}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data  []T
	cols  map[string]func(T) any
	order []string
}

func (v *DomainView[T]) Len() int          { return len(v.data) }
func (v *DomainView[T]) Columns() []string { return v.order }

func (v *DomainView[T]) Value(i int, column string) (any, bool) {
	if i < 0 || i >= len(v.data) {
		return nil, false
	}
	fn, ok := v.cols[column]
	if !ok {
		return nil, false
	}
	return fn(v.data[i]), true
}

// Row builds a State from the registered columns of element i.
func (v *DomainView[T]) Row(i int) *state.State {
	if i < 0 || i >= len(v.data) {
		return nil
	}
	row := state.New(nil)
	for _, c := range v.order {
		row.Set(c, v.cols[c](v.data[i]))
	}
	return row
}

// Element returns the typed value behind row i.
func (v *DomainView[T]) Element(i int) T {
	return v.data[i]
}
