// Package websocket streams audit lifecycle events to connected clients,
// optionally filtered to a single audit ID. Dashboards use this to show
// per-provider progress while a fan-out is in flight.
package websocket
