// Package domain defines the core types shared across the audit pipeline:
// questions, per-provider results, consensus summaries, reports and the
// error taxonomy. It has no dependencies on adapters or transports.
package domain
