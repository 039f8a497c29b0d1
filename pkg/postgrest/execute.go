package postgrest

import (
	"context"
	"strings"

	"github.com/edgeflare/pgrst/pkg/transport"
)

// Builder is an executable request. Verbs that take no filters (Insert,
// Upsert) return it directly; FilterBuilder embeds it.
type Builder struct {
	transport *transport.Client
	req       *pendingRequest
}

// strategy classifies a request by its headers, computed once at
// execution time.
type strategy int

const (
	strategyPlain strategy = iota
	strategySingle
	strategyMaybeSingle
)

func classify(req *pendingRequest) strategy {
	if req.headers.Get("Accept") != singleAcceptHeader {
		return strategyPlain
	}
	if strings.EqualFold(req.headers.Get(maybeSingleHeader), "true") {
		return strategyMaybeSingle
	}
	return strategySingle
}

// Execute sends the accumulated request and normalizes the response.
// This is the chain's only I/O point; canceling ctx aborts the
// underlying HTTP call. API failures are returned as *APIError;
// transport failures propagate unchanged.
func (b *Builder) Execute(ctx context.Context) (*APIResponse, error) {
	strat := classify(b.req)

	// The maybe-single marker is ours, not the server's.
	headers := b.req.headers.Clone()
	headers.Del(maybeSingleHeader)

	resp, err := b.transport.Request(ctx, b.req.method, b.req.path, b.req.params, headers, b.req.body)
	if err != nil {
		return nil, err
	}

	res, apiErr := buildResponse(resp)
	if apiErr != nil {
		if strat == strategyMaybeSingle && apiErr.zeroRows() {
			// A single-object request that matched nothing comes back as
			// a structured error; maybe-single callers asked for an
			// empty success instead. Any other error propagates.
			zero := int64(0)
			return &APIResponse{Count: &zero}, nil
		}
		return nil, apiErr
	}
	return res, nil
}

// ExecuteTo executes and unmarshals the response data into dest.
func (b *Builder) ExecuteTo(ctx context.Context, dest any) (*APIResponse, error) {
	res, err := b.Execute(ctx)
	if err != nil {
		return nil, err
	}
	if res.Data != nil {
		if err := res.Unmarshal(dest); err != nil {
			return nil, err
		}
	}
	return res, nil
}
