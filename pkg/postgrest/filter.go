package postgrest

import "strings"

// FilterBuilder accumulates filter predicates onto the pending request.
// Each call appends one col=op.value query parameter; repeated filters
// on the same column are additive. Returned by Select, Update, Delete
// and Rpc.
type FilterBuilder struct {
	Builder
}

// Filter appends a raw col=op.value predicate. The operator vocabulary
// is whatever the target server understands; the named methods below
// cover the common set.
func (f *FilterBuilder) Filter(column, operator, value string) *FilterBuilder {
	f.req.params.Add(column, operator+"."+value)
	return f
}

// Eq keeps rows where column equals value.
func (f *FilterBuilder) Eq(column, value string) *FilterBuilder {
	return f.Filter(column, "eq", value)
}

// Neq keeps rows where column differs from value.
func (f *FilterBuilder) Neq(column, value string) *FilterBuilder {
	return f.Filter(column, "neq", value)
}

func (f *FilterBuilder) Gt(column, value string) *FilterBuilder {
	return f.Filter(column, "gt", value)
}

func (f *FilterBuilder) Gte(column, value string) *FilterBuilder {
	return f.Filter(column, "gte", value)
}

func (f *FilterBuilder) Lt(column, value string) *FilterBuilder {
	return f.Filter(column, "lt", value)
}

func (f *FilterBuilder) Lte(column, value string) *FilterBuilder {
	return f.Filter(column, "lte", value)
}

// Like matches with SQL LIKE; use % as wildcard.
func (f *FilterBuilder) Like(column, pattern string) *FilterBuilder {
	return f.Filter(column, "like", pattern)
}

// ILike is Like, case-insensitive.
func (f *FilterBuilder) ILike(column, pattern string) *FilterBuilder {
	return f.Filter(column, "ilike", pattern)
}

// Is matches IS checks: null, true, false.
func (f *FilterBuilder) Is(column, value string) *FilterBuilder {
	return f.Filter(column, "is", value)
}

// In keeps rows where column is one of values.
func (f *FilterBuilder) In(column string, values ...string) *FilterBuilder {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, quoteReserved(v))
	}
	return f.Filter(column, "in", "("+strings.Join(quoted, ",")+")")
}

// Contains matches array/range/jsonb containment (cs).
func (f *FilterBuilder) Contains(column, value string) *FilterBuilder {
	return f.Filter(column, "cs", value)
}

// ContainedBy is the inverse containment (cd).
func (f *FilterBuilder) ContainedBy(column, value string) *FilterBuilder {
	return f.Filter(column, "cd", value)
}

// TextSearch matches with full-text search (fts) against query.
func (f *FilterBuilder) TextSearch(column, query string) *FilterBuilder {
	return f.Filter(column, "fts", query)
}

// Not negates a predicate: column=not.op.value.
func (f *FilterBuilder) Not(column, operator, value string) *FilterBuilder {
	return f.Filter(column, "not", operator+"."+value)
}

// Or combines predicates disjunctively. The argument is the inner
// PostgREST expression, e.g. "a.eq.1,b.lt.2".
func (f *FilterBuilder) Or(filters string) *FilterBuilder {
	f.req.params.Add("or", "("+filters+")")
	return f
}

// Match adds an equality filter per key in query.
func (f *FilterBuilder) Match(query map[string]string) *FilterBuilder {
	for k, v := range query {
		f.Eq(k, v)
	}
	return f
}

// quoteReserved wraps values containing PostgREST reserved characters in
// double quotes so they survive inside in.(...) lists.
func quoteReserved(v string) string {
	if strings.ContainsAny(v, ",.:()\"") {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}
