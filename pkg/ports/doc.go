// Package ports declares the interfaces between the application layer and
// its adapters: LLM backends, the event bus, the report store and the
// metrics collector. Adapters implement these; the application depends
// only on them, which keeps fakes trivial to inject in tests.
package ports
