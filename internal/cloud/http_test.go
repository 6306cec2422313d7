package cloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/siliconyouth/revolutionary-ui/internal/component"
)

// newTestServer builds an HTTPClient pointed at a stub store.
func newTestServer(t *testing.T, handler http.Handler) *HTTPClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewHTTPClient(HTTPOptions{BaseURL: srv.URL, APIKey: "test-key"})
}

func TestHTTPClientConnect(t *testing.T) {
	var gotAuth string
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/ping" {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestHTTPClientConnectFailure(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad api key"})
	}))

	err := client.Connect(context.Background())
	if err == nil {
		t.Fatal("expected Connect to fail")
	}
}

func TestHTTPClientRequiresConnect(t *testing.T) {
	client := NewHTTPClient(HTTPOptions{BaseURL: "http://127.0.0.1:1"})

	if _, err := client.ListComponents(context.Background(), nil); err != ErrNotConnected {
		t.Errorf("ListComponents error = %v, want ErrNotConnected", err)
	}
	if _, err := client.PushComponent(context.Background(), &component.Component{}); err != ErrNotConnected {
		t.Errorf("PushComponent error = %v, want ErrNotConnected", err)
	}
}

func TestHTTPClientDisconnectIdempotent(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := client.Disconnect(); err != nil {
		t.Fatalf("first Disconnect failed: %v", err)
	}
	if err := client.Disconnect(); err != nil {
		t.Fatalf("second Disconnect failed: %v", err)
	}
}

func TestHTTPClientListComponents(t *testing.T) {
	want := []*component.Component{
		{ID: "comp-1", Name: "Button", Type: component.TypeComponent, Framework: component.FrameworkReact},
		{ID: "comp-2", Name: "TableFactory", Type: component.TypeFactory, Framework: component.FrameworkVue},
	}

	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/ping":
			w.WriteHeader(http.StatusOK)
		case "/api/v1/components":
			if got := r.URL.Query().Get("framework"); got != "React" {
				t.Errorf("framework query = %q, want React", got)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"components": want})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	got, err := client.ListComponents(context.Background(), &ListFilter{Framework: component.FrameworkReact})
	if err != nil {
		t.Fatalf("ListComponents failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPClientPushAndUpdate(t *testing.T) {
	var updatedID string
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/ping":
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/api/v1/components" && r.Method == http.MethodPost:
			var c component.Component
			if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
				t.Errorf("bad push body: %v", err)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "comp-42"})
		case r.URL.Path == "/api/v1/components/comp-42" && r.Method == http.MethodPut:
			updatedID = "comp-42"
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	c := &component.Component{Name: "Button", Type: component.TypeComponent,
		Framework: component.FrameworkReact, Checksum: "abc"}

	id, err := client.PushComponent(context.Background(), c)
	if err != nil {
		t.Fatalf("PushComponent failed: %v", err)
	}
	if id != "comp-42" {
		t.Errorf("id = %q, want comp-42", id)
	}

	if err := client.UpdateComponent(context.Background(), id, c); err != nil {
		t.Fatalf("UpdateComponent failed: %v", err)
	}
	if updatedID != "comp-42" {
		t.Error("update never reached the server")
	}
}

func TestHTTPClientServerError(t *testing.T) {
	client := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/ping" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "catalog unavailable"})
	}))

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	_, err := client.GetSyncStatus(context.Background())
	if err == nil {
		t.Fatal("expected error from 500 response")
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"2.0.0", "1.9.9", 1},
		{"1.10.0", "1.9.0", 1},
		{"not-semver", "other", -1},
	}

	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
