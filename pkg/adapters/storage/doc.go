// Package storage contains report store implementations: an in-memory
// store for single-process deployments and tests, and a Redis store with
// per-report TTL so completed audits can be fetched again until they
// expire.
package storage
