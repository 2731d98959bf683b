package assetcache

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rbellek/go-drawio-export/internal/fileutil"
)

// EnvCacheDir overrides the cache root directory.
const EnvCacheDir = "DRAWIO_EXPORT_CACHE_DIR"

// filePerm is applied to cached asset files.
const filePerm = 0o644

// fetchRetries bounds download attempts per asset.
const fetchRetries = 3

// Resource identifies one remote engine dependency.
type Resource struct {
	URL  string // remote locator
	Path string // storage path relative to the cache root
}

// Cache ensures a fixed manifest of remote engine assets is present in a
// local directory and maps asset URLs to their local files. A resource is
// fetched at most once per cache lifetime; cached files are never deleted.
// Safe for concurrent use.
type Cache struct {
	dir      string
	manifest []Resource
	byURL    map[string]Resource
	client   *retryablehttp.Client
	group    singleflight.Group
}

// New creates a Cache rooted at dir covering the built-in engine manifest.
func New(dir string) *Cache {
	return NewWithManifest(dir, EngineManifest())
}

// NewWithManifest creates a Cache over a custom resource manifest.
func NewWithManifest(dir string, manifest []Resource) *Cache {
	byURL := make(map[string]Resource, len(manifest))
	for _, res := range manifest {
		byURL[res.URL] = res
	}

	client := retryablehttp.NewClient()
	client.RetryMax = fetchRetries
	client.Logger = nil

	return &Cache{
		dir:      dir,
		manifest: manifest,
		byURL:    byURL,
		client:   client,
	}
}

// DefaultDir resolves the cache root in priority order: the EnvCacheDir
// environment variable, the user cache directory, then a .cache directory
// next to the running executable. Stable across runs on the same machine.
func DefaultDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir
	}
	if base, err := os.UserCacheDir(); err == nil && base != "" {
		return filepath.Join(base, "drawio-export")
	}
	exe, err := os.Executable()
	if err != nil {
		return ".cache"
	}
	return filepath.Join(filepath.Dir(exe), ".cache")
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Manifest returns a copy of the resource manifest.
func (c *Cache) Manifest() []Resource {
	out := make([]Resource, len(c.manifest))
	copy(out, c.manifest)
	return out
}

// Resolve maps a request URL to the local file caching it.
// ok is false for URLs outside the manifest.
func (c *Cache) Resolve(url string) (path string, ok bool) {
	res, found := c.byURL[url]
	if !found {
		return "", false
	}
	return c.localPath(res), true
}

// Warm reports whether every manifest entry is already present on disk.
func (c *Cache) Warm() bool {
	for _, res := range c.manifest {
		if !fileutil.FileExists(c.localPath(res)) {
			return false
		}
	}
	return true
}

// Ensure fetches one resource unless it is already cached. Concurrent calls
// for the same resource collapse into a single fetch in-process; the atomic
// rename in the store step keeps a benign cross-process race from ever
// exposing a partial file.
func (c *Cache) Ensure(ctx context.Context, res Resource) error {
	dest := c.localPath(res)
	if fileutil.FileExists(dest) {
		return nil
	}

	_, err, _ := c.group.Do(res.Path, func() (interface{}, error) {
		// Re-check: a duplicate caller may have completed the fetch while
		// this one waited on the group.
		if fileutil.FileExists(dest) {
			return nil, nil
		}
		return nil, c.fetch(ctx, res, dest)
	})
	return err
}

// EnsureAll fetches every missing manifest entry, fanning the downloads out
// concurrently. Returns once the full manifest is present, or with the first
// fetch failure.
func (c *Cache) EnsureAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, res := range c.manifest {
		res := res
		g.Go(func() error {
			return c.Ensure(ctx, res)
		})
	}
	return g.Wait()
}

// fetch streams the resource body into its cache location.
func (c *Cache) fetch(ctx context.Context, res Resource, dest string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetch, res.URL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetch, res.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s: unexpected status %s", ErrFetch, res.URL, resp.Status)
	}

	if err := fileutil.WriteAtomic(dest, resp.Body, filePerm); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStore, res.Path, err)
	}
	return nil
}

// localPath resolves a resource's absolute cache location.
func (c *Cache) localPath(res Resource) string {
	return filepath.Join(c.dir, filepath.FromSlash(res.Path))
}
