// Package testutil provides an in-process fake PostgREST server for
// exercising the client against scripted responses.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// RecordedRequest is the last request the fake server received.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server replays a scripted response and records incoming requests.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	last   *RecordedRequest
	status int
	body   string
	header map[string]string
}

// NewServer starts a fake server answering 200 with an empty JSON array
// until Respond changes the script. Close it via the embedded Server.
func NewServer() *Server {
	s := &Server{status: http.StatusOK, body: "[]"}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.last = &RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	}
	status, respBody, header := s.status, s.body, s.header
	s.mu.Unlock()

	for k, v := range header {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, respBody)
}

// Respond scripts the next responses. header may be nil.
func (s *Server) Respond(status int, body string, header map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.body, s.header = status, body, header
}

// Last returns the most recently recorded request, nil if none.
func (s *Server) Last() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
