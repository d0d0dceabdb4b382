// Package assets fetches model and image bytes by reference: local paths,
// file:// URLs and http(s) URLs. Results are cached in memory and concurrent
// requests for the same reference share one fetch.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/picoview/internal/logger"
)

// MaxSize caps the bytes read from a single remote reference.
const MaxSize = 32 << 20

// ErrNotFound is returned when no root or remote holds the reference.
var ErrNotFound = errors.New("asset not found")

// Manager resolves references to bytes.
type Manager struct {
	roots  []string
	client *http.Client
	cache  *Cache
	group  singleflight.Group
	mu     sync.RWMutex
	log    *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithHTTPClient sets the client used for http(s) references.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.client = c }
}

// NewManager creates a new asset manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		client: http.DefaultClient,
		cache:  NewCache(),
		log:    logger.Named("assets"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddRoot adds a directory relative references are resolved against.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding root %s: not a directory", dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
	return nil
}

// Load fetches ref, which is a path or a URL.
func (m *Manager) Load(ctx context.Context, ref string) ([]byte, error) {
	if data, ok := m.cache.Get(ref); ok {
		return data, nil
	}

	v, err, _ := m.group.Do(ref, func() (any, error) {
		data, err := m.fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		m.cache.Set(ref, data)
		m.log.Debug("asset loaded", zap.String("ref", ref), zap.Int("bytes", len(data)))
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// LoadURL fetches u.
func (m *Manager) LoadURL(ctx context.Context, u *url.URL) ([]byte, error) {
	return m.Load(ctx, u.String())
}

func (m *Manager) fetch(ctx context.Context, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return m.fetchHTTP(ctx, u)
		case "file":
			return m.readFile(u.Path)
		}
	}
	return m.readFile(ref)
}

func (m *Manager) fetchHTTP(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", u, err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", u, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("requesting %s: %s", u, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("reading %s: larger than %d bytes", u, MaxSize)
	}
	return data, nil
}

func (m *Manager) readFile(path string) ([]byte, error) {
	if filepath.IsAbs(path) {
		return readLocal(path)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		data, err := readLocal(filepath.Join(m.roots[i], path))
		if err == nil || !errors.Is(err, ErrNotFound) {
			return data, err
		}
	}
	return readLocal(path)
}

func readLocal(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Close drops the cache and roots.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = nil
	m.cache.Clear()
}

// Cache returns the manager's cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
