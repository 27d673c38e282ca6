// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, log level); AppConfig is
// everything specific to this service.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: nunetwork-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Bearer token verification
	AuthJWTSecret string // HS256 secret shared with the identity provider

	// Handler operation timeouts
	TimeoutPing   time.Duration // Health check pings
	TimeoutShort  time.Duration // Single-document reads
	TimeoutMedium time.Duration // Listings and traversals
	TimeoutLong   time.Duration // Multi-document writes
}
