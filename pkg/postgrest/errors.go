package postgrest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// zeroRowsSignal is how PostgREST reports "no row found" for a
// single-object request: a 406 whose error details contain this phrase.
// Matching on the wording instead of a stable code is brittle against
// server message changes, but it is what every PostgREST client matches
// on, so it is kept verbatim for wire compatibility.
const zeroRowsSignal = "Results contain 0 rows"

// APIError is the error body of a non-2xx PostgREST response. Fields the
// server did not report stay nil, so callers can tell "not reported"
// from "reported as empty".
type APIError struct {
	Message *string `json:"message,omitempty"`
	Code    *string `json:"code,omitempty"`
	Details *string `json:"details,omitempty"`
	Hint    *string `json:"hint,omitempty"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("postgrest: ")
	if e.Message != nil {
		b.WriteString(*e.Message)
	} else {
		b.WriteString("unknown error")
	}
	if e.Code != nil {
		fmt.Fprintf(&b, " (code %s)", *e.Code)
	}
	if e.Details != nil {
		fmt.Fprintf(&b, ": %s", *e.Details)
	}
	return b.String()
}

func (e *APIError) zeroRows() bool {
	return e.Details != nil && strings.Contains(*e.Details, zeroRowsSignal)
}

// errorFromBody parses a JSON error body. Bodies that are not a JSON
// object are preserved verbatim in the message rather than dropped.
func errorFromBody(body []byte) *APIError {
	var e APIError
	if err := json.Unmarshal(body, &e); err != nil {
		msg := fmt.Sprintf("unparseable error response: %s", string(body))
		return &APIError{Message: &msg}
	}
	return &e
}
