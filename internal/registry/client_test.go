package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/NordCoderd/sbomconfusion/internal/model"
)

// TestNPMClientLookup tests the npm client against a stub registry.
func TestNPMClientLookup(t *testing.T) {
	t.Parallel()

	t.Run("existing package", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/left-pad" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"dist-tags": {"latest": "1.3.0"},
				"versions": {"1.0.0": {}, "1.3.0": {}}
			}`))
		}))
		defer server.Close()

		client := NewNPMClient(WithBaseURL(server.URL))
		result, err := client.Lookup(context.Background(), "left-pad")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Status != model.StatusExists {
			t.Errorf("expected exists, got %s", result.Status)
		}
		if result.Latest != "1.3.0" {
			t.Errorf("expected latest 1.3.0, got %q", result.Latest)
		}
		if len(result.Versions) != 2 {
			t.Errorf("expected 2 versions, got %v", result.Versions)
		}
	})

	t.Run("missing package", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		client := NewNPMClient(WithBaseURL(server.URL))
		result, err := client.Lookup(context.Background(), "acme-internal-utils")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != model.StatusNotFound {
			t.Errorf("expected not-found, got %s", result.Status)
		}
	})

	t.Run("scoped name is path-escaped", func(t *testing.T) {
		t.Parallel()

		var gotPath atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath.Store(r.URL.EscapedPath())
			http.NotFound(w, r)
		}))
		defer server.Close()

		client := NewNPMClient(WithBaseURL(server.URL))
		if _, err := client.Lookup(context.Background(), "@acme/utils"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		path, _ := gotPath.Load().(string)
		if !strings.Contains(path, "%2F") {
			t.Errorf("expected escaped slash in request path, got %q", path)
		}
	})

	t.Run("server error is retried once then fails", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewNPMClient(WithBaseURL(server.URL))
		if _, err := client.Lookup(context.Background(), "flaky"); err == nil {
			t.Fatal("expected error after retries")
		}
		if got := hits.Load(); got != 2 {
			t.Errorf("expected 2 attempts, got %d", got)
		}
	})

	t.Run("auth token is sent as bearer", func(t *testing.T) {
		t.Parallel()

		var gotAuth atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth.Store(r.Header.Get("Authorization"))
			http.NotFound(w, r)
		}))
		defer server.Close()

		client := NewNPMClient(WithBaseURL(server.URL), WithToken("secret"))
		if _, err := client.Lookup(context.Background(), "anything"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		auth, _ := gotAuth.Load().(string)
		if auth != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", auth)
		}
	})

	t.Run("timeout yields error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewNPMClient(WithBaseURL(server.URL), WithTimeout(20*time.Millisecond))
		if _, err := client.Lookup(context.Background(), "slow"); err == nil {
			t.Error("expected timeout error")
		}
	})
}

// TestPyPIClientLookup tests the PyPI client against a stub registry.
func TestPyPIClientLookup(t *testing.T) {
	t.Parallel()

	t.Run("existing project", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/pypi/requests/json" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"info": {"version": "2.31.0"},
				"releases": {"2.30.0": [], "2.31.0": []}
			}`))
		}))
		defer server.Close()

		client := NewPyPIClient(WithBaseURL(server.URL))
		result, err := client.Lookup(context.Background(), "requests")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Status != model.StatusExists {
			t.Errorf("expected exists, got %s", result.Status)
		}
		if result.Latest != "2.31.0" {
			t.Errorf("expected latest 2.31.0, got %q", result.Latest)
		}
	})

	t.Run("missing project", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		client := NewPyPIClient(WithBaseURL(server.URL))
		result, err := client.Lookup(context.Background(), "acme-internal-lib")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != model.StatusNotFound {
			t.Errorf("expected not-found, got %s", result.Status)
		}
	})
}

// TestForEcosystem verifies client selection per ecosystem.
func TestForEcosystem(t *testing.T) {
	t.Parallel()

	t.Run("npm", func(t *testing.T) {
		t.Parallel()
		client, ok := ForEcosystem(model.EcosystemNPM)
		if !ok {
			t.Fatal("expected npm client")
		}
		if client.Ecosystem() != model.EcosystemNPM {
			t.Errorf("unexpected ecosystem: %s", client.Ecosystem())
		}
	})

	t.Run("pypi", func(t *testing.T) {
		t.Parallel()
		client, ok := ForEcosystem(model.EcosystemPyPI)
		if !ok {
			t.Fatal("expected pypi client")
		}
		if client.Ecosystem() != model.EcosystemPyPI {
			t.Errorf("unexpected ecosystem: %s", client.Ecosystem())
		}
	})

	t.Run("other has no client", func(t *testing.T) {
		t.Parallel()
		if _, ok := ForEcosystem(model.EcosystemOther); ok {
			t.Error("expected no client for other ecosystems")
		}
	})
}
