package postgrest

import "github.com/edgeflare/pgrst/pkg/transport"

// QueryBuilder is the per-table entry point returned by Client.From.
// Each verb method assembles a fresh pending request, so independent
// chains never share header or parameter state.
type QueryBuilder struct {
	transport *transport.Client
	path      string
}

// Select starts a read query fetching the given columns. No columns
// means "*". Embedded resource syntax, e.g. "author(name)", passes
// through verbatim.
func (q *QueryBuilder) Select(columns ...string) *FilterBuilder {
	return q.filterable(assembleSelect(columns, CountNone))
}

// SelectWithCount is Select with a Prefer count directive; the total
// lands in APIResponse.Count.
func (q *QueryBuilder) SelectWithCount(count CountMethod, columns ...string) *FilterBuilder {
	return q.filterable(assembleSelect(columns, count))
}

// Insert posts one row (an object) or several (a slice).
func (q *QueryBuilder) Insert(rows any, opts *InsertOptions) *Builder {
	w := WriteOptions{}
	upsert := false
	if opts != nil {
		w = opts.WriteOptions
		upsert = opts.Upsert
	}
	eff := w.orDefaults()
	return q.executable(assembleInsert(rows, eff.Count, eff.Returning, upsert))
}

// Upsert posts rows resolving duplicate keys, merging by default or
// ignoring when opts.IgnoreDuplicates is set.
func (q *QueryBuilder) Upsert(rows any, opts *UpsertOptions) *Builder {
	w := WriteOptions{}
	ignore := false
	onConflict := ""
	if opts != nil {
		w = opts.WriteOptions
		ignore = opts.IgnoreDuplicates
		onConflict = opts.OnConflict
	}
	eff := w.orDefaults()
	req := assembleUpsert(rows, eff.Count, eff.Returning, ignore)
	if onConflict != "" {
		req.params.Set("on_conflict", onConflict)
	}
	return q.executable(req)
}

// Update patches rows matching the filters added to the returned chain.
func (q *QueryBuilder) Update(changes any, opts *WriteOptions) *FilterBuilder {
	eff := opts.orDefaults()
	return q.filterable(assembleUpdate(changes, eff.Count, eff.Returning))
}

// Delete removes rows matching the filters added to the returned chain.
func (q *QueryBuilder) Delete(opts *WriteOptions) *FilterBuilder {
	eff := opts.orDefaults()
	return q.filterable(assembleDelete(eff.Count, eff.Returning))
}

func (q *QueryBuilder) executable(req *pendingRequest) *Builder {
	req.path = q.path
	return &Builder{transport: q.transport, req: req}
}

func (q *QueryBuilder) filterable(req *pendingRequest) *FilterBuilder {
	return &FilterBuilder{Builder: *q.executable(req)}
}
