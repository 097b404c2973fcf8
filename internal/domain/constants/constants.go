package constants

// Pub/Sub providers
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// Persistence drivers
const (
	PersistenceDriverMemory   = "memory"
	PersistenceDriverPostgres = "postgres"
)
