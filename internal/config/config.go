// Package config loads node configuration from environment / .env file.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ── Config fields (populated by Load) ───────────────────────────────────
var (
	// Identity
	PrivateKey string

	// Channel/chain defaults. The demo binary uses ChainID; it does not
	// read TokenNetworkAddress and uses a fixed demo address instead.
	ChainID             int64
	TokenNetworkAddress string

	LogLevel string

	// RecoveryCacheSize bounds the sender-recovery LRU.
	RecoveryCacheSize int

	// MonitoringRewardAmount is the default reward for a RequestMonitoring.
	// It is loaded but not read by the demo binary, which builds no
	// RequestMonitoring.
	MonitoringRewardAmount string

	// DryRun is loaded and logged at startup by the demo binary; nothing
	// else reads it.
	DryRun bool
)

// Load reads .env (if present) then overrides from OS env vars.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using OS environment")
	}

	PrivateKey = getEnv("RAIDEN_PRIVATE_KEY", "")
	ChainID = int64(getEnvInt("RAIDEN_CHAIN_ID", 1))
	TokenNetworkAddress = getEnv("RAIDEN_TOKEN_NETWORK_ADDRESS", "")
	LogLevel = getEnv("RAIDEN_LOG_LEVEL", "INFO")
	RecoveryCacheSize = getEnvInt("RAIDEN_RECOVERY_CACHE_SIZE", 128)
	MonitoringRewardAmount = getEnv("RAIDEN_MONITORING_REWARD", "0")
	DryRun = getEnvBool("RAIDEN_DRY_RUN", true)
}

// ── Helpers ──────────────────────────────────────────────────────────────

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		return strings.ToLower(v) == "true"
	}
	return fallback
}
