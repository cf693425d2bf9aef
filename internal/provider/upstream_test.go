package provider

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/user/dramahub/internal/utils"
	"go.uber.org/zap"
)

// fakeUpstream 按路径返回固定响应并记录每个路径的请求次数
type fakeUpstream struct {
	*httptest.Server

	mu      sync.Mutex
	hits    map[string]int
	queries map[string][]string
}

func newFakeUpstream(t *testing.T, routes map[string]http.HandlerFunc) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{hits: map[string]int{}, queries: map[string][]string{}}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		f.queries[r.URL.Path] = append(f.queries[r.URL.Path], r.URL.RawQuery)
		f.mu.Unlock()

		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeUpstream) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeUpstream) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.hits {
		n += c
	}
	return n
}

func (f *fakeUpstream) lastQuery(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.queries[path]
	if len(q) == 0 {
		return ""
	}
	return q[len(q)-1]
}

func jsonBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func statusBody(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func newTestClient() *Client {
	return NewClient(utils.NewHTTPClient(0), zap.NewNop())
}
