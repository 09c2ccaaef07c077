package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	StorageBackend string // "sqlite" | "memory"
	SQLitePath     string // path to the database file (empty = default under ~/.config/marque)
	SeedFile       string // path to a YAML seed file (optional, empty = no seeding)

	SessionTTL time.Duration // session lifetime (default: 168h)

	PurgeInterval  time.Duration // interval to run the trash purger (default: 24h)
	PurgeThreshold time.Duration // how long a bookmark stays in trash before purge (default: 720h)

	// Redis (sessions)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	// Rate limiting on the auth endpoints
	AuthRateBurst  int // burst size per IP
	AuthRatePerMin int // sustained attempts per IP per minute

	CORSOrigin    string // allowed origin for browser clients ("" = same-origin only)
	TrustProxy    bool   // true => trust X-Forwarded-For headers
	SecureCookies bool   // mark session cookies Secure (set when serving behind TLS)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("MARQUE_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("MARQUE_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("MARQUE_LOG_LEVEL", "info"),
		PrettyLog: mustBool("MARQUE_PRETTY_LOG", true),

		// Storage
		StorageBackend: getenv("MARQUE_STORAGE", "sqlite"),
		SQLitePath:     getenv("MARQUE_SQLITE_PATH", ""),
		SeedFile:       getenv("MARQUE_SEED_FILE", ""),

		// Sessions
		SessionTTL: mustDuration("MARQUE_SESSION_TTL", 7*24*time.Hour),

		// Trash purge
		PurgeInterval:  mustDuration("MARQUE_PURGE_INTERVAL", 24*time.Hour),
		PurgeThreshold: mustDuration("MARQUE_PURGE_THRESHOLD", 30*24*time.Hour),

		// Redis settings
		RedisAddr:           getenv("MARQUE_REDIS_ADDR", "localhost:6379"),
		RedisUser:           getenv("MARQUE_REDIS_USERNAME", ""),
		RedisPassword:       getenv("MARQUE_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("MARQUE_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Rate limiting
		AuthRateBurst:  getenvInt("MARQUE_AUTH_RATE_BURST", 10),
		AuthRatePerMin: getenvInt("MARQUE_AUTH_RATE_PER_MIN", 20),

		// Browser access
		CORSOrigin:    getenv("MARQUE_CORS_ORIGIN", ""),
		TrustProxy:    mustBool("MARQUE_TRUST_PROXY", false),
		SecureCookies: mustBool("MARQUE_SECURE_COOKIES", false),
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
