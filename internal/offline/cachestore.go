package offline

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// CacheStore is one named response cache persisted under a root directory.
// Entries are keyed by request method and URL, so a cached response is only
// ever served for the exact request that produced it.
type CacheStore struct {
	name string
	dir  string
}

type cacheEntry struct {
	URL      string      `json:"url"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"storedAt"`
}

// OpenCacheStore opens (or creates) the named store under root.
func OpenCacheStore(root, name string) (*CacheStore, error) {
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache store %s: %w", name, err)
	}
	return &CacheStore{name: name, dir: dir}, nil
}

// Name returns the store's cache name, version tag included.
func (c *CacheStore) Name() string {
	return c.name
}

// Put stores a copy of resp for req. The response body is consumed and
// replaced so the caller can still return resp downstream.
func (c *CacheStore) Put(req *http.Request, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	entry := cacheEntry{
		URL:      req.URL.String(),
		Status:   resp.StatusCode,
		Header:   resp.Header.Clone(),
		Body:     body,
		StoredAt: time.Now(),
	}
	encoded, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := os.WriteFile(c.entryPath(req), encoded, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Match returns the cached response for the exact request, if any. Each
// call yields an independent body reader.
func (c *CacheStore) Match(req *http.Request) (*http.Response, bool) {
	encoded, err := os.ReadFile(c.entryPath(req))
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(encoded, &entry); err != nil {
		return nil, false
	}
	return &http.Response{
		StatusCode:    entry.Status,
		Status:        fmt.Sprintf("%d %s", entry.Status, http.StatusText(entry.Status)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        entry.Header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(entry.Body)),
		ContentLength: int64(len(entry.Body)),
		Request:       req,
	}, true
}

func (c *CacheStore) entryPath(req *http.Request) string {
	sum := sha256.Sum256([]byte(req.Method + " " + req.URL.String()))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+".json")
}

// ListCacheStores enumerates the store names present under root.
func ListCacheStores(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list cache stores: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// DeleteCacheStore removes the named store and every entry in it.
func DeleteCacheStore(root, name string) error {
	if err := os.RemoveAll(filepath.Join(root, name)); err != nil {
		return fmt.Errorf("delete cache store %s: %w", name, err)
	}
	return nil
}
