package postgrest

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	singleAcceptHeader = "application/vnd.pgrst.object+json"

	// maybeSingleHeader marks a request as maybe-single so execution can
	// pick the right strategy. It is stripped before transmission; only
	// Single and MaybeSingle may set it or the single-object Accept value.
	maybeSingleHeader = "X-Maybe-Single"
)

// pendingRequest is the mutable state a builder chain accumulates before
// execution. Owned by exactly one chain; consumed once by Execute.
type pendingRequest struct {
	path    string
	method  string
	headers http.Header
	params  url.Values
	body    any
}

func newPendingRequest(method string) *pendingRequest {
	return &pendingRequest{
		method:  method,
		headers: make(http.Header),
		params:  make(url.Values),
	}
}

// preferHeader joins Prefer tokens in a stable order: count, return,
// resolution. Tests assert exact header strings, so the order matters.
func preferHeader(count CountMethod, returning ReturnMethod, resolution string) string {
	tokens := make([]string, 0, 3)
	if count != CountNone {
		tokens = append(tokens, "count="+string(count))
	}
	if returning != "" {
		tokens = append(tokens, "return="+string(returning))
	}
	if resolution != "" {
		tokens = append(tokens, "resolution="+resolution)
	}
	return strings.Join(tokens, ",")
}

// joinColumns comma-joins a column list, trimming surrounding whitespace
// from each entry. Embedding syntax like author(name) passes through
// verbatim. No columns means select everything.
func joinColumns(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	trimmed := make([]string, 0, len(columns))
	for _, c := range columns {
		trimmed = append(trimmed, strings.TrimSpace(c))
	}
	return strings.Join(trimmed, ",")
}

// The assemble* functions are the per-verb request factories. Each is
// pure: identical arguments produce identical pending requests.

func assembleSelect(columns []string, count CountMethod) *pendingRequest {
	r := newPendingRequest(http.MethodGet)
	r.params.Set("select", joinColumns(columns))
	if prefer := preferHeader(count, "", ""); prefer != "" {
		r.headers.Set("Prefer", prefer)
	}
	return r
}

func assembleInsert(rows any, count CountMethod, returning ReturnMethod, upsert bool) *pendingRequest {
	r := newPendingRequest(http.MethodPost)
	resolution := ""
	if upsert {
		resolution = "merge-duplicates"
	}
	r.headers.Set("Prefer", preferHeader(count, returning, resolution))
	r.body = rows
	return r
}

func assembleUpsert(rows any, count CountMethod, returning ReturnMethod, ignoreDuplicates bool) *pendingRequest {
	r := newPendingRequest(http.MethodPost)
	// An upsert always carries a resolution token so routing stays
	// consistent even when on_conflict is added afterwards.
	resolution := "merge-duplicates"
	if ignoreDuplicates {
		resolution = "ignore-duplicates"
	}
	r.headers.Set("Prefer", preferHeader(count, returning, resolution))
	r.body = rows
	return r
}

func assembleUpdate(changes any, count CountMethod, returning ReturnMethod) *pendingRequest {
	r := newPendingRequest(http.MethodPatch)
	r.headers.Set("Prefer", preferHeader(count, returning, ""))
	r.body = changes
	return r
}

func assembleDelete(count CountMethod, returning ReturnMethod) *pendingRequest {
	r := newPendingRequest(http.MethodDelete)
	r.headers.Set("Prefer", preferHeader(count, returning, ""))
	return r
}
