package offline

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/kisanhq/kisan/core"
)

type Options struct {
	Store      Store
	Generation string            // defaults to conf "cacheGeneration"
	Manifest   []string          // defaults to conf "offlineManifest"
	Origin     string            // defaults to conf "portalOrigin"
	APIMarker  string            // defaults to conf "apiPathMarker"
	Upstream   http.RoundTripper // defaults to http.DefaultTransport
	Logger     core.Logger       // optional
}

// Interceptor fronts outgoing portal requests with a generation-scoped cache:
// cache-first serving, opportunistic caching of successful GETs outside the
// API path, and a cached root-document fallback when the network is down.
// It implements http.RoundTripper so an http.Client can be pointed at it.
type Interceptor struct {
	store      Store
	generation string
	manifest   []string
	origin     *url.URL
	apiMarker  string
	upstream   http.RoundTripper
	logger     core.Logger
}

var _ http.RoundTripper = (*Interceptor)(nil)

func NewInterceptor(opts Options) (*Interceptor, error) {
	if opts.Store == nil {
		return nil, errors.New("offline: a Store is required")
	}
	if opts.Generation == "" {
		opts.Generation = core.Conf.GetString("cacheGeneration")
	}
	if opts.Manifest == nil {
		opts.Manifest = core.Conf.GetStringSlice("offlineManifest")
	}
	if opts.Origin == "" {
		opts.Origin = core.Conf.GetString("portalOrigin")
	}
	if opts.APIMarker == "" {
		opts.APIMarker = core.Conf.GetString("apiPathMarker")
	}
	if opts.Upstream == nil {
		opts.Upstream = http.DefaultTransport
	}

	origin, err := url.Parse(opts.Origin)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing origin %q", opts.Origin)
	}

	return &Interceptor{
		store:      opts.Store,
		generation: opts.Generation,
		manifest:   opts.Manifest,
		origin:     origin,
		apiMarker:  opts.APIMarker,
		upstream:   opts.Upstream,
		logger:     opts.Logger,
	}, nil
}

func (ic *Interceptor) Generation() string { return ic.generation }

// Install fetches every manifest URL and commits them as one unit. Any
// unreachable manifest URL fails the whole install: an incomplete offline set
// is worse than no offline set.
func (ic *Interceptor) Install(ctx context.Context) error {
	staged := make(map[string]Entry, len(ic.manifest))
	for _, path := range ic.manifest {
		target := ic.resolve(path)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return errors.Wrapf(err, "building manifest request for %s", path)
		}
		resp, err := ic.upstream.RoundTrip(req)
		if err != nil {
			return errors.Wrapf(err, "fetching manifest URL %s", path)
		}
		body, err := ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return errors.Wrapf(err, "reading manifest response for %s", path)
		}
		if resp.StatusCode != http.StatusOK {
			return errors.Errorf("manifest URL %s returned %d", path, resp.StatusCode)
		}
		staged[Key(http.MethodGet, target)] = Entry{
			Status: resp.StatusCode,
			Header: cloneHeader(resp.Header),
			Body:   body,
		}
	}
	return errors.Wrap(ic.store.PutAll(ic.generation, staged), "committing manifest entries")
}

// Activate deletes every stored generation other than the current one, so at
// most one generation survives an upgrade.
func (ic *Interceptor) Activate() error {
	generations, err := ic.store.Generations()
	if err != nil {
		return errors.Wrap(err, "listing generations")
	}
	for _, name := range generations {
		if name == ic.generation {
			continue
		}
		if err := ic.store.DeleteGeneration(name); err != nil {
			return errors.Wrapf(err, "deleting generation %s", name)
		}
	}
	return nil
}

// RoundTrip applies the interception policy: cache hit wins outright (no
// freshness check), otherwise the request goes to the network. A successful
// non-API GET is stored for future hits; a network failure falls back to the
// cached root document when one exists.
func (ic *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	key := Key(req.Method, req.URL.String())
	if entry, err := ic.store.Get(ic.generation, key); err == nil {
		return entry.Response(req), nil
	}

	resp, err := ic.upstream.RoundTrip(req)
	if err != nil {
		if fallback, ok := ic.rootFallback(req); ok {
			return fallback, nil
		}
		return nil, err
	}

	if ic.shouldStore(req, resp) {
		body, rerr := ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		if rerr != nil {
			return nil, rerr
		}
		entry := Entry{Status: resp.StatusCode, Header: cloneHeader(resp.Header), Body: body}
		if perr := ic.store.Put(ic.generation, key, entry); perr != nil && ic.logger != nil {
			ic.logger.Warn("offline: storing cache entry failed", perr)
		}
		// hand the caller an untouched response
		resp.Body = ioutil.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}

func (ic *Interceptor) shouldStore(req *http.Request, resp *http.Response) bool {
	return req.Method == http.MethodGet &&
		resp.StatusCode == http.StatusOK &&
		!strings.Contains(req.URL.String(), ic.apiMarker)
}

// rootFallback serves the cached root document for same-origin requests that
// could not reach the network.
func (ic *Interceptor) rootFallback(req *http.Request) (*http.Response, bool) {
	if req.URL.Host != ic.origin.Host {
		return nil, false
	}
	entry, err := ic.store.Get(ic.generation, Key(http.MethodGet, ic.resolve("/")))
	if err != nil {
		return nil, false
	}
	return entry.Response(req), true
}

func (ic *Interceptor) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return ic.origin.String() + path
	}
	return ic.origin.ResolveReference(ref).String()
}
