// Package catalog reads product data: search, detail, category listings and
// the home-page collections.
//
// Product detail lookups go through a small in-memory LRU with a TTL, since
// detail pages are revisited constantly during a browsing session and the
// payload changes rarely. Everything else hits the API directly. The package
// is read-only; it owns no mutable state beyond the cache.
package catalog
