package assetcache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrFetch indicates a network failure or non-success status while
	// downloading an asset.
	ErrFetch = errors.New("failed to fetch asset")

	// ErrStore indicates an I/O failure while writing an asset to the cache.
	ErrStore = errors.New("failed to store asset")
)
