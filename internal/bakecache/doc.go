// Package bakecache stores bake results in SQLite keyed by asset path and
// input content hash, letting repeat builds skip oven invocations for assets
// that have not changed.
package bakecache
