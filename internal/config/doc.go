// Package config provides configuration management for the AuditTrail service.
//
// Configuration is loaded from environment variables using the env package.
// Provider credentials are optional: a missing API key silently disables that
// provider rather than failing startup. All other values have sensible
// defaults for development use.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
