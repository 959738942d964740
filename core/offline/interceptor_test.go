package offline_test

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/kisanhq/kisan/core/offline"
	inmemcache "github.com/kisanhq/kisan/storage/offline/inmem"
)

// portalServer is a stand-in origin that counts hits per path.
type portalServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
}

func newPortalServer() *portalServer {
	ps := &portalServer{hits: make(map[string]int)}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ps.mu.Lock()
		ps.hits[r.URL.Path]++
		ps.mu.Unlock()

		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/api/v1/stats":
			_, _ = w.Write([]byte(`{"users":1}`))
		default:
			_, _ = w.Write([]byte("page:" + r.URL.Path))
		}
	}))
	return ps
}

func (ps *portalServer) hitCount(path string) int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.hits[path]
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("network down")
}

func newInterceptor(t *testing.T, store offline.Store, opts offline.Options) *offline.Interceptor {
	t.Helper()
	opts.Store = store
	ic, err := offline.NewInterceptor(opts)
	if err != nil {
		t.Fatalf("NewInterceptor() failed: %v", err)
	}
	return ic
}

func get(t *testing.T, ic *offline.Interceptor, url string) (*http.Response, string) {
	t.Helper()
	client := &http.Client{Transport: ic}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body failed: %v", err)
	}
	return resp, string(body)
}

func TestInterceptor_Install(t *testing.T) {
	ps := newPortalServer()
	defer ps.Close()

	store := inmemcache.NewStore()
	ic := newInterceptor(t, store, offline.Options{
		Generation: "gen-1",
		Manifest:   []string{"/", "/login"},
		Origin:     ps.URL,
	})

	if err := ic.Install(context.Background()); err != nil {
		t.Fatalf("Install() failed: %v", err)
	}
	for _, path := range []string{"/", "/login"} {
		if _, err := store.Get("gen-1", offline.Key(http.MethodGet, ps.URL+path)); err != nil {
			t.Errorf("manifest entry %q not stored: %v", path, err)
		}
	}
}

func TestInterceptor_Install_allOrNothing(t *testing.T) {
	ps := newPortalServer()
	defer ps.Close()

	store := inmemcache.NewStore()
	ic := newInterceptor(t, store, offline.Options{
		Generation: "gen-1",
		Manifest:   []string{"/", "/missing", "/login"},
		Origin:     ps.URL,
	})

	if err := ic.Install(context.Background()); err == nil {
		t.Fatal("Install() succeeded with an unreachable manifest URL")
	}
	// nothing was committed, not even the URLs that succeeded
	if _, err := store.Get("gen-1", offline.Key(http.MethodGet, ps.URL+"/")); err != offline.ErrEntryNotFound {
		t.Error("a partial offline set was committed")
	}
}

func TestInterceptor_Activate_deletesStaleGenerations(t *testing.T) {
	ps := newPortalServer()
	defer ps.Close()

	store := inmemcache.NewStore()
	old := newInterceptor(t, store, offline.Options{
		Generation: "gen-1",
		Manifest:   []string{"/"},
		Origin:     ps.URL,
	})
	if err := old.Install(context.Background()); err != nil {
		t.Fatalf("Install(gen-1) failed: %v", err)
	}

	next := newInterceptor(t, store, offline.Options{
		Generation: "gen-2",
		Manifest:   []string{"/"},
		Origin:     ps.URL,
	})
	if err := next.Install(context.Background()); err != nil {
		t.Fatalf("Install(gen-2) failed: %v", err)
	}
	if err := next.Activate(); err != nil {
		t.Fatalf("Activate() failed: %v", err)
	}

	// gen-1 is unreachable, gen-2 survives
	if _, err := store.Get("gen-1", offline.Key(http.MethodGet, ps.URL+"/")); err != offline.ErrEntryNotFound {
		t.Error("gen-1 entry survived activation of gen-2")
	}
	if _, err := store.Get("gen-2", offline.Key(http.MethodGet, ps.URL+"/")); err != nil {
		t.Errorf("gen-2 entry lost: %v", err)
	}
	generations, err := store.Generations()
	if err != nil {
		t.Fatalf("Generations() failed: %v", err)
	}
	if len(generations) != 1 || generations[0] != "gen-2" {
		t.Errorf("Generations() = %v, want [gen-2]", generations)
	}
}

func TestInterceptor_cacheFirst(t *testing.T) {
	ps := newPortalServer()
	defer ps.Close()

	store := inmemcache.NewStore()
	ic := newInterceptor(t, store, offline.Options{Generation: "gen-1", Origin: ps.URL})

	_, first := get(t, ic, ps.URL+"/plot-registration")
	if first != "page:/plot-registration" {
		t.Fatalf("first response = %q", first)
	}
	_, second := get(t, ic, ps.URL+"/plot-registration")
	if second != first {
		t.Errorf("cached response = %q, want %q", second, first)
	}
	// the second request never reached the network
	if hits := ps.hitCount("/plot-registration"); hits != 1 {
		t.Errorf("origin hit %d times, want 1", hits)
	}
}

func TestInterceptor_neverStoresAPITraffic(t *testing.T) {
	ps := newPortalServer()
	defer ps.Close()

	store := inmemcache.NewStore()
	ic := newInterceptor(t, store, offline.Options{Generation: "gen-1", Origin: ps.URL, APIMarker: "/api/"})

	for i := 0; i < 2; i++ {
		resp, body := get(t, ic, ps.URL+"/api/v1/stats")
		if resp.StatusCode != http.StatusOK || body != `{"users":1}` {
			t.Fatalf("API response = %d %q", resp.StatusCode, body)
		}
	}
	if hits := ps.hitCount("/api/v1/stats"); hits != 2 {
		t.Errorf("origin hit %d times, want 2 (API responses must not be cached)", hits)
	}
	if _, err := store.Get("gen-1", offline.Key(http.MethodGet, ps.URL+"/api/v1/stats")); err != offline.ErrEntryNotFound {
		t.Error("API response was stored")
	}
}

func TestInterceptor_doesNotStoreFailuresOrNonGET(t *testing.T) {
	ps := newPortalServer()
	defer ps.Close()

	store := inmemcache.NewStore()
	ic := newInterceptor(t, store, offline.Options{Generation: "gen-1", Origin: ps.URL})

	if resp, _ := get(t, ic, ps.URL+"/missing"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if _, err := store.Get("gen-1", offline.Key(http.MethodGet, ps.URL+"/missing")); err != offline.ErrEntryNotFound {
		t.Error("non-200 response was stored")
	}

	client := &http.Client{Transport: ic}
	resp, err := client.Post(ps.URL+"/login", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if _, err := store.Get("gen-1", offline.Key(http.MethodPost, ps.URL+"/login")); err != offline.ErrEntryNotFound {
		t.Error("POST response was stored")
	}
}

func TestInterceptor_networkFailureFallsBackToRoot(t *testing.T) {
	ps := newPortalServer()
	defer ps.Close()

	store := inmemcache.NewStore()
	ic := newInterceptor(t, store, offline.Options{
		Generation: "gen-1",
		Manifest:   []string{"/"},
		Origin:     ps.URL,
	})
	if err := ic.Install(context.Background()); err != nil {
		t.Fatalf("Install() failed: %v", err)
	}

	// take the network down; the root document remains cached
	offlineIC := newInterceptor(t, store, offline.Options{
		Generation: "gen-1",
		Origin:     ps.URL,
		Upstream:   failingTransport{},
	})
	_, body := get(t, offlineIC, ps.URL+"/some/page")
	if body != "page:/" {
		t.Errorf("fallback body = %q, want the cached root document", body)
	}
}

func TestInterceptor_networkFailureWithoutRootPropagates(t *testing.T) {
	store := inmemcache.NewStore()
	ic := newInterceptor(t, store, offline.Options{
		Generation: "gen-1",
		Origin:     "http://portal.invalid",
		Upstream:   failingTransport{},
	})

	client := &http.Client{Transport: ic}
	if _, err := client.Get("http://portal.invalid/some/page"); err == nil {
		t.Error("request succeeded with no network and no cached root")
	}
}
