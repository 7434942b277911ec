package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/jlekram/modelgate/internal/filter"
)

func catalogServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func loadFilter(t *testing.T, content string) *filter.Set {
	t.Helper()
	p := filepath.Join(t.TempDir(), "filter.txt")
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := filter.Load(p)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

const twoModelCatalog = `{"data":[
	{"id":"gpt-x","created":123},
	{"id":"gpt-y","created":456}
]}`

func TestListModelsNoFilter(t *testing.T) {
	srv := catalogServer(t, twoModelCatalog)
	adapter := New(srv.Client(), srv.URL, nil, nil, 0)

	list, err := adapter.ListModels(context.Background(), "Bearer test")
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}

	if list.Object != "list" {
		t.Errorf("Object = %q, want %q", list.Object, "list")
	}
	if len(list.Data) != 2 {
		t.Fatalf("got %d models, want 2", len(list.Data))
	}
	for i, want := range []Model{
		{ID: "gpt-x", Object: "model", Created: 123, OwnedBy: "openrouter"},
		{ID: "gpt-y", Object: "model", Created: 456, OwnedBy: "openrouter"},
	} {
		if list.Data[i] != want {
			t.Errorf("Data[%d] = %+v, want %+v", i, list.Data[i], want)
		}
	}
}

func TestListModelsWithFilter(t *testing.T) {
	srv := catalogServer(t, twoModelCatalog)
	adapter := New(srv.Client(), srv.URL, loadFilter(t, "gpt-y\n"), nil, 0)

	list, err := adapter.ListModels(context.Background(), "Bearer test")
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}

	if len(list.Data) != 1 || list.Data[0].ID != "gpt-y" {
		t.Fatalf("expected exactly gpt-y, got %+v", list.Data)
	}
}

func TestListModelsEmptyFilterYieldsEmptyList(t *testing.T) {
	srv := catalogServer(t, twoModelCatalog)
	adapter := New(srv.Client(), srv.URL, filter.Empty(), nil, 0)

	list, err := adapter.ListModels(context.Background(), "")
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}

	if len(list.Data) != 0 {
		t.Errorf("expected empty list, got %+v", list.Data)
	}
	if list.Object != "list" {
		t.Errorf("empty result must still be a well-formed list envelope")
	}
}

func TestListModelsPreservesUpstreamOrder(t *testing.T) {
	srv := catalogServer(t, `{"data":[
		{"id":"google/gemini-pro","created":1},
		{"id":"openai/gpt-4o","created":2},
		{"id":"google/gemini-flash","created":3},
		{"id":"anthropic/claude-3-opus","created":4}
	]}`)
	adapter := New(srv.Client(), srv.URL, loadFilter(t, "google/*\nopenai/gpt-4*\n"), nil, 0)

	list, err := adapter.ListModels(context.Background(), "")
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}

	var ids []string
	for _, m := range list.Data {
		ids = append(ids, m.ID)
	}
	want := []string{"google/gemini-pro", "openai/gpt-4o", "google/gemini-flash"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v (upstream order)", ids, want)
	}
}

func TestListModelsIdempotent(t *testing.T) {
	srv := catalogServer(t, twoModelCatalog)
	adapter := New(srv.Client(), srv.URL, loadFilter(t, "gpt-x\ngpt-y\n"), nil, 0)

	first, err := adapter.ListModels(context.Background(), "Bearer k")
	if err != nil {
		t.Fatal(err)
	}
	second, err := adapter.ListModels(context.Background(), "Bearer k")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated calls differ: %+v vs %+v", first, second)
	}
}

func TestListModelsForwardsAuthorization(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	adapter := New(srv.Client(), srv.URL, nil, nil, 0)
	if _, err := adapter.ListModels(context.Background(), "Bearer sk-or-abc"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer sk-or-abc" {
		t.Errorf("Authorization = %q, want caller credential forwarded unchanged", gotAuth)
	}
}

func TestListModelsUpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	adapter := New(srv.Client(), srv.URL, nil, nil, 0)
	_, err := adapter.ListModels(context.Background(), "Bearer bad")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", statusErr.StatusCode)
	}
	if len(statusErr.Body) == 0 {
		t.Error("expected upstream body preserved")
	}
}

func TestListModelsUpstreamUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed on purpose: connection refused

	adapter := New(http.DefaultClient, srv.URL, nil, nil, 0)
	_, err := adapter.ListModels(context.Background(), "")

	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError, got %v", err)
	}
}

func TestListModelsMalformedUpstreamPayload(t *testing.T) {
	srv := catalogServer(t, `not json at all`)
	adapter := New(srv.Client(), srv.URL, nil, nil, 0)

	_, err := adapter.ListModels(context.Background(), "")
	var unavailable *UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableError for malformed payload, got %v", err)
	}
}

func TestConvertDefaults(t *testing.T) {
	tests := []struct {
		name   string
		record upstreamModel
		want   Model
	}{
		{
			name:   "full record",
			record: upstreamModel{ID: "openai/gpt-4o", Created: 99, OwnedBy: "openai"},
			want:   Model{ID: "openai/gpt-4o", Object: "model", Created: 99, OwnedBy: "openai"},
		},
		{
			name:   "missing created",
			record: upstreamModel{ID: "openai/gpt-4o"},
			want:   Model{ID: "openai/gpt-4o", Object: "model", Created: defaultCreated, OwnedBy: "openai"},
		},
		{
			name:   "owner from id prefix",
			record: upstreamModel{ID: "google/gemini-pro", Created: 5},
			want:   Model{ID: "google/gemini-pro", Object: "model", Created: 5, OwnedBy: "google"},
		},
		{
			name:   "no prefix falls back to provider label",
			record: upstreamModel{ID: "auto", Created: 5},
			want:   Model{ID: "auto", Object: "model", Created: 5, OwnedBy: defaultOwner},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convert(tt.record); got != tt.want {
				t.Errorf("convert() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestListModelsCacheTTL(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(twoModelCatalog))
	}))
	defer srv.Close()

	cache, err := ristretto.NewCache(&ristretto.Config[string, List]{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	adapter := New(srv.Client(), srv.URL, nil, cache, time.Minute)

	if _, err := adapter.ListModels(context.Background(), "Bearer k"); err != nil {
		t.Fatal(err)
	}
	cache.Wait() // Ristretto sets are async

	if _, err := adapter.ListModels(context.Background(), "Bearer k"); err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("upstream hits = %d, want 1 (second call served from cache)", hits)
	}

	// A different credential must not see the cached entry.
	if _, err := adapter.ListModels(context.Background(), "Bearer other"); err != nil {
		t.Fatal(err)
	}
	if hits != 2 {
		t.Errorf("upstream hits = %d, want 2 (cache is per credential)", hits)
	}
}
