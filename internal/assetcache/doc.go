// Package assetcache guarantees the diagram engine's remote dependencies are
// available from local disk before a browser session starts.
//
// # Model
//
// A fixed manifest pairs each remote URL with a storage path relative to the
// cache root. Ensure fetches a missing entry at most once (singleflight
// in-process, atomic rename on disk); EnsureAll fans out over the manifest.
// Resolve exposes the URL-to-file mapping that render sessions use to serve
// engine requests hermetically from cache.
//
// # Directory Resolution
//
// DefaultDir picks the cache root in priority order:
//
//  1. DRAWIO_EXPORT_CACHE_DIR environment variable
//  2. os.UserCacheDir()/drawio-export
//  3. .cache next to the running executable
//
// Callers compute the directory once at startup and inject it; a constructed
// Cache never consults the environment.
package assetcache
