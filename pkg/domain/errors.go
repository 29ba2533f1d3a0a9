package domain

import "errors"

// Request-level errors returned by the audit pipeline. Per-provider
// failures never surface here; they are recorded on the ProviderResult.
var (
	// ErrInputTooShort is returned before any provider is contacted.
	ErrInputTooShort = errors.New("question is too short to analyze")

	// ErrNoProvidersConfigured means no provider credential was present
	// at startup, so there is nothing to fan out to.
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrAllProvidersFailed means every configured provider failed for
	// this request; no consensus can be computed.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrReportNotFound is returned when a stored report has expired or
	// never existed.
	ErrReportNotFound = errors.New("report not found")
)

// ProviderErrorKind classifies why a single provider failed.
type ProviderErrorKind string

const (
	// ErrKindConfigurationMissing: the provider had no credential. Such
	// providers are normally omitted from the fan-out entirely.
	ErrKindConfigurationMissing ProviderErrorKind = "configuration_missing"

	// ErrKindUpstream: network, auth, rate-limit or timeout failure from
	// the remote API.
	ErrKindUpstream ProviderErrorKind = "upstream_error"

	// ErrKindMalformedResponse: the provider replied, but the reply could
	// not be parsed into an AuditVerdict even after fallback extraction.
	ErrKindMalformedResponse ProviderErrorKind = "malformed_response"
)
