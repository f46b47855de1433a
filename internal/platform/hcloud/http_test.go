package hcloud

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// testServer creates an httptest server that can be used to mock Hetzner Cloud API responses.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux
}

// newTestServer creates a new test server for mocking the Hetzner Cloud API.
func newTestServer() *testServer {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	return &testServer{
		server: server,
		mux:    mux,
	}
}

// close shuts down the test server.
func (ts *testServer) close() {
	ts.server.Close()
}

// client returns an hcloud.Client configured to use the test server.
func (ts *testServer) client() *hcloud.Client {
	return hcloud.NewClient(
		hcloud.WithToken("test-token"),
		hcloud.WithEndpoint(ts.server.URL),
	)
}

// realClient returns a RealClient configured to use the test server.
func (ts *testServer) realClient(opts ...ClientOption) *RealClient {
	return NewRealClient("test-token", append([]ClientOption{WithHCloudClient(ts.client())}, opts...)...)
}

// handleFunc registers a handler for a specific pattern.
func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

// jsonResponse writes a JSON response with the given status code and body.
func jsonResponse(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// rawResponse writes a literal JSON document.
func rawResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func apiError(w http.ResponseWriter, statusCode int, code, message string) {
	jsonResponse(w, statusCode, map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

const singlePage = `"meta":{"pagination":{"page":1,"per_page":50,"previous_page":null,"next_page":null,"last_page":1,"total_entries":1}}`

const succeededAction = `{"action":{"id":1,"command":"target","status":"success","progress":100,"resources":[],"started":"2024-01-01T00:00:00Z","finished":"2024-01-01T00:00:01Z","error":null}}`
