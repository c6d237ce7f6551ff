// Package serverset builds deployable domain-server content sets: assets are
// stored under their content hashes with a map.json index, the entity
// document is gzipped alongside them, and the finished tree can be packaged
// into a release tarball.
package serverset
