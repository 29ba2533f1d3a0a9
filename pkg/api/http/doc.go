// Package http implements the HTTP API for the AuditTrail service.
//
// The audit endpoint accepts a question as raw text (text/plain) or as
// a JSON object and replies in the same format: a plain-text report or
// a JSON envelope with the report text. Supporting endpoints expose
// health, Prometheus metrics, stored report retrieval and the websocket
// event stream.
package http
