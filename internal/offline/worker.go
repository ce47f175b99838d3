package offline

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

const (
	cachePrefix   = "daylist"
	apiPathPrefix = "/api"
)

// precacheManifest lists the static paths cached at install time.
var precacheManifest = []string{"/", "/index.html", "/manifest.json"}

// State is the worker's lifecycle phase. Requests pass through untouched
// until the worker reaches StateActive.
type State int

const (
	StateNew State = iota
	StateInstalling
	StateWaiting
	StateActivating
	StateActive
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateInstalling:
		return "installing"
	case StateWaiting:
		return "waiting"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Worker intercepts outgoing requests and applies a dual caching policy:
// cache-first for same-origin static assets, network-first with cache
// fallback for API calls. Two versioned cache stores back the two policies;
// bumping the version invalidates the previous stores at next activation.
//
// Worker implements http.RoundTripper so it can sit under an http.Client
// without the client-side code knowing when a response came from cache.
type Worker struct {
	mu      sync.RWMutex
	version string
	root    string
	scheme  string
	host    string
	inner   http.RoundTripper
	state   State

	static *CacheStore
	api    *CacheStore

	notifier Notifier
}

// New builds a Worker caching under root for the given origin. A nil inner
// transport uses http.DefaultTransport. The worker is inert until Install.
func New(root, version string, origin *url.URL, inner http.RoundTripper) *Worker {
	if inner == nil {
		inner = http.DefaultTransport
	}
	return &Worker{
		version: version,
		root:    root,
		scheme:  origin.Scheme,
		host:    origin.Host,
		inner:   inner,
		state:   StateNew,
	}
}

// StaticCacheName returns the versioned name of the static asset store.
func (w *Worker) StaticCacheName() string {
	return cachePrefix + "-cache-" + w.version
}

// APICacheName returns the versioned name of the API response store.
func (w *Worker) APICacheName() string {
	return cachePrefix + "-api-" + w.version
}

// State returns the current lifecycle phase.
func (w *Worker) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Install opens the static store for the current version, precaches the
// manifest (best-effort per path), and immediately proceeds to activation
// without waiting: the skip-waiting policy.
func (w *Worker) Install() error {
	w.setState(StateInstalling)

	static, err := OpenCacheStore(w.root, w.StaticCacheName())
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.static = static
	w.mu.Unlock()

	for _, path := range precacheManifest {
		req, err := http.NewRequest(http.MethodGet, w.originURL(path), nil)
		if err != nil {
			continue
		}
		resp, err := w.inner.RoundTrip(req)
		if err != nil {
			log.Printf("precache %s: %v", path, err)
			continue
		}
		if responseOK(resp) {
			if err := static.Put(req, resp); err != nil {
				log.Printf("precache store %s: %v", path, err)
			}
		}
		_ = resp.Body.Close()
	}

	w.setState(StateWaiting)
	return w.SkipWaiting()
}

// SkipWaiting moves a waiting worker straight into activation.
func (w *Worker) SkipWaiting() error {
	if w.State() != StateWaiting {
		return nil
	}
	return w.activate()
}

// activate deletes every owned cache store from a previous version, opens
// the API store, and takes control of subsequent requests immediately.
func (w *Worker) activate() error {
	w.setState(StateActivating)

	names, err := ListCacheStores(w.root)
	if err != nil {
		return err
	}
	for _, name := range names {
		if !strings.HasPrefix(name, cachePrefix+"-") {
			continue
		}
		if name == w.StaticCacheName() || name == w.APICacheName() {
			continue
		}
		if err := DeleteCacheStore(w.root, name); err != nil {
			log.Printf("purge stale cache %s: %v", name, err)
			continue
		}
		log.Printf("purged stale cache %s", name)
	}

	apiStore, err := OpenCacheStore(w.root, w.APICacheName())
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.api = apiStore
	w.state = StateActive
	w.mu.Unlock()
	return nil
}

// RoundTrip applies the caching policy. An inactive worker, a foreign
// origin, or a non-API cross-origin request all pass straight through.
// Once active, handled paths never surface a transport error: every
// failure substitutes a cached copy or a synthesized response.
func (w *Worker) RoundTrip(req *http.Request) (*http.Response, error) {
	if w.State() != StateActive {
		return w.inner.RoundTrip(req)
	}

	isAPI := strings.HasPrefix(req.URL.Path, apiPathPrefix)
	if req.URL.Host != w.host && !isAPI {
		return w.inner.RoundTrip(req)
	}

	if isAPI {
		return w.networkFirst(req), nil
	}
	return w.cacheFirst(req), nil
}

// networkFirst tries the network, caching successful GET responses, and
// falls back to a cached copy of the exact request on transport failure.
func (w *Worker) networkFirst(req *http.Request) *http.Response {
	resp, err := w.inner.RoundTrip(req)
	if err == nil {
		if req.Method == http.MethodGet && responseOK(resp) {
			if perr := w.apiStore().Put(req, resp); perr != nil {
				log.Printf("cache api response %s: %v", req.URL.Path, perr)
			}
		}
		return resp
	}

	if cached, ok := w.apiStore().Match(req); ok {
		return cached
	}
	return synthesize(http.StatusServiceUnavailable,
		"application/json; charset=utf-8",
		`{"error":"network unavailable, please retry later"}`)
}

// cacheFirst serves a cached match when present, otherwise fetches and
// caches. When both cache and network fail it falls back to the cached
// root document before synthesizing a plain error.
func (w *Worker) cacheFirst(req *http.Request) *http.Response {
	static := w.staticStore()
	if cached, ok := static.Match(req); ok {
		return cached
	}

	resp, err := w.inner.RoundTrip(req)
	if err == nil {
		if responseOK(resp) {
			if perr := static.Put(req, resp); perr != nil {
				log.Printf("cache asset %s: %v", req.URL.Path, perr)
			}
		}
		return resp
	}

	rootReq, rerr := http.NewRequest(http.MethodGet, w.originURL("/"), nil)
	if rerr == nil {
		if cached, ok := static.Match(rootReq); ok {
			return cached
		}
	}
	return synthesize(http.StatusServiceUnavailable,
		"text/plain; charset=utf-8",
		"offline, check your network connection")
}

func (w *Worker) staticStore() *CacheStore {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.static
}

func (w *Worker) apiStore() *CacheStore {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.api
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Worker) originURL(path string) string {
	return (&url.URL{Scheme: w.scheme, Host: w.host, Path: path}).String()
}

func responseOK(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func synthesize(status int, contentType, body string) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{contentType}},
		Body:          io.NopCloser(bytes.NewReader([]byte(body))),
		ContentLength: int64(len(body)),
	}
}
