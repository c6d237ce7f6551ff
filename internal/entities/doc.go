// Package entities reads and writes entity-description documents
// (models.json, optionally gzipped) and rewrites the asset references they
// carry. The document schema is never validated; only the known URL-bearing
// fields are visited.
package entities
