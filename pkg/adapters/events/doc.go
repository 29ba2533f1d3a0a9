// Package events contains event bus implementations for audit lifecycle
// notifications: an in-memory bus for single-process deployments and
// tests, and a Redis Streams bus for multi-consumer setups.
package events
