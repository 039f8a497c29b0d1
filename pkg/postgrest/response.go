package postgrest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/edgeflare/pgrst/pkg/transport"
)

// APIResponse is the normalized result of an executed query. Data is the
// raw JSON body (nil when the server returned none, e.g. return=minimal
// or the suppressed maybe-single zero-row case). Count is the total row
// count from Content-Range; nil when the server reported none.
type APIResponse struct {
	Data  json.RawMessage
	Count *int64
}

// Unmarshal decodes Data into dest.
func (r *APIResponse) Unmarshal(dest any) error {
	if r.Data == nil {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(r.Data, dest)
}

// buildResponse normalizes a raw HTTP exchange. Success is status in
// [200,299] inclusive; anything else, 3xx included, becomes an APIError.
func buildResponse(resp *transport.Response) (*APIResponse, *APIError) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromBody(resp.Body)
	}

	out := &APIResponse{Count: countFromContentRange(resp.Headers.Get("Content-Range"))}

	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return out, nil
	}
	if !json.Valid(body) {
		msg := fmt.Sprintf("invalid JSON in response body: %s", string(body))
		return nil, &APIError{Message: &msg}
	}
	out.Data = json.RawMessage(body)
	return out, nil
}

// countFromContentRange extracts the total from a "start-end/total"
// range header. A missing header or a "*" total means the count is
// unknown, which is nil, not zero.
func countFromContentRange(header string) *int64 {
	if header == "" {
		return nil
	}
	_, total, found := strings.Cut(header, "/")
	if !found || total == "*" {
		return nil
	}
	n, err := strconv.ParseInt(total, 10, 64)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
