// Package constants holds shared domain-level constant values.
package constants

// Pub/Sub provider identifiers recognized by the event publisher factory.
const (
	// PubSubProviderLocal publishes events to a local HTTP endpoint, used in development.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle publishes events to Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"
)

// Deployment environment names.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)
