// Package consensus reduces the heterogeneous outcomes of a provider
// fan-out into a single summary: average, min, max and spread of the
// confidence scores plus a coarse agreement tier. Only successful
// results participate; a request where every provider failed yields
// domain.ErrAllProvidersFailed rather than a misleading zero summary.
package consensus
