package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// CreateTempDir creates a temporary directory for testing
func CreateTempDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

// RPCCall is a JSON-RPC request received by an RPCServer
type RPCCall struct {
	Method  string
	Params  json.RawMessage
	Session string
	School  string
}

// RPCServer is a fake JSON-RPC endpoint answering each method with a fixed result
type RPCServer struct {
	*httptest.Server

	mu      sync.Mutex
	results map[string]interface{}
	errors  map[string]int
	calls   []RPCCall
}

// NewRPCServer starts a fake endpoint; results maps method names to result values
func NewRPCServer(t *testing.T, results map[string]interface{}) *RPCServer {
	t.Helper()
	s := &RPCServer{results: results, errors: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// FailMethod makes method answer with a JSON-RPC error of the given code
func (s *RPCServer) FailMethod(method string, code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors[method] = code
}

// SetResult replaces the result of method
func (s *RPCServer) SetResult(method string, result interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[method] = result
}

// Calls returns the received calls in order
func (s *RPCServer) Calls() []RPCCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RPCCall(nil), s.calls...)
}

func (s *RPCServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req struct {
		ID     string          `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	call := RPCCall{Method: req.Method, Params: req.Params, School: r.URL.Query().Get("school")}
	if cookie, err := r.Cookie("JSESSIONID"); err == nil {
		call.Session = cookie.Value
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	code, failing := s.errors[req.Method]
	result := s.results[req.Method]
	s.mu.Unlock()

	resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
	if failing {
		resp["error"] = map[string]interface{}{"code": code, "message": "fake failure"}
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
