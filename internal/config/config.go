// Package config centralizes environment-driven configuration for every
// process in the system (the combined monolith, the split Engine, and the
// split Ticket dispatcher).
package config

import (
	"os"
	"strconv"
	"time"
)

// DeploymentMode selects how the Reservation Dispatcher reaches the
// Inventory Engine: in-process (CoLocated) or over HTTP (Split).
type DeploymentMode string

const (
	CoLocated DeploymentMode = "co-located"
	Split     DeploymentMode = "split"
)

// Config holds every recognized option from the configuration surface.
type Config struct {
	DeploymentMode DeploymentMode

	ServiceName string

	InitialStock int
	CacheTTL     time.Duration

	VacancyURL     string
	VacancyTimeout time.Duration

	HTTPMaxConnections       int
	HTTPKeepaliveConnections int

	PurchasePort  string
	InventoryPort string
	CombinedPort  string

	// Optional external collaborators; empty string means "disabled, use no-op".
	KafkaBrokers     string
	ReservationTopic string
	AuditDSN         string
	ReplicaGuardAddr string
}

// Load reads Config from the environment, applying the defaults spec.md §6
// names. Callers are expected to have already called godotenv.Load (or
// equivalent) so that a local .env file is reflected in os.Getenv.
func Load() Config {
	return Config{
		DeploymentMode: DeploymentMode(getenv("DEPLOYMENT_MODE", string(CoLocated))),

		ServiceName: getenv("SERVICE_NAME", "ticket-vacancy"),

		InitialStock: mustAtoi(getenv("INITIAL_STOCK", "100"), 100),
		CacheTTL:     durationSeconds(getenv("CACHE_TTL_SECONDS", "1"), time.Second),

		VacancyURL:     getenv("VACANCY_URL", "http://localhost:8001"),
		VacancyTimeout: durationSeconds(getenv("VACANCY_TIMEOUT_SECONDS", "2"), 2*time.Second),

		HTTPMaxConnections:       mustAtoi(getenv("HTTP_MAX_CONNECTIONS", "100"), 100),
		HTTPKeepaliveConnections: mustAtoi(getenv("HTTP_KEEPALIVE_CONNECTIONS", "20"), 20),

		PurchasePort:  getenv("PURCHASE_PORT", ":8002"),
		InventoryPort: getenv("INVENTORY_PORT", ":8001"),
		CombinedPort:  getenv("COMBINED_PORT", ":8000"),

		KafkaBrokers:     getenv("KAFKA_BROKERS", ""),
		ReservationTopic: getenv("RESERVATION_EVENTS_TOPIC", "reservation.decided"),
		AuditDSN:         getenv("AUDIT_DSN", ""),
		ReplicaGuardAddr: getenv("REPLICA_GUARD_ADDR", ""),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func durationSeconds(s string, def time.Duration) time.Duration {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return time.Duration(n) * time.Second
}
