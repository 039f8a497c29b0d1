package postgrest

import "strconv"

// OrderOptions tunes Order. The zero value (or nil) sorts ascending with
// the PostgreSQL default nulls position (last for asc, first for desc).
type OrderOptions struct {
	Ascending    bool
	NullsFirst   bool
	NullsLast    bool
	ForeignTable string
}

// Select restricts the columns echoed back by a mutation, same syntax as
// the read path.
func (f *FilterBuilder) Select(columns ...string) *FilterBuilder {
	f.req.params.Set("select", joinColumns(columns))
	return f
}

// Order sorts results by column. Multiple calls append to the same order
// directive, comma-joined, in call order.
func (f *FilterBuilder) Order(column string, opts *OrderOptions) *FilterBuilder {
	clause := column + ".desc"
	key := "order"
	if opts != nil {
		if opts.Ascending {
			clause = column + ".asc"
		}
		if opts.NullsFirst {
			clause += ".nullsfirst"
		} else if opts.NullsLast {
			clause += ".nullslast"
		}
		if opts.ForeignTable != "" {
			key = opts.ForeignTable + ".order"
		}
	}
	if existing := f.req.params.Get(key); existing != "" {
		f.req.params.Set(key, existing+","+clause)
	} else {
		f.req.params.Set(key, clause)
	}
	return f
}

// Limit caps the number of returned rows.
func (f *FilterBuilder) Limit(n int) *FilterBuilder {
	f.req.params.Set("limit", strconv.Itoa(n))
	return f
}

// Offset skips the first n rows.
func (f *FilterBuilder) Offset(n int) *FilterBuilder {
	f.req.params.Set("offset", strconv.Itoa(n))
	return f
}

// Range keeps rows from index from to index to, both inclusive.
func (f *FilterBuilder) Range(from, to int) *FilterBuilder {
	f.req.params.Set("offset", strconv.Itoa(from))
	f.req.params.Set("limit", strconv.Itoa(to-from+1))
	return f
}

// Single makes execution expect exactly one row, returned as an object
// instead of an array. The server errors when zero or multiple rows
// match. Terminal: there is no way to revert to row-set mode.
func (f *FilterBuilder) Single() *FilterBuilder {
	f.req.headers.Set("Accept", singleAcceptHeader)
	return f
}

// MaybeSingle is Single, but zero matching rows becomes an empty success
// instead of an error.
func (f *FilterBuilder) MaybeSingle() *FilterBuilder {
	f.Single()
	f.req.headers.Set(maybeSingleHeader, "true")
	return f
}
