package config

import (
    "log"
    "os"
    "strconv"
    "time"

    "github.com/joho/godotenv"

    "tripay-ppob-api/database"
)

const (
    ModeSandbox    = "sandbox"
    ModeProduction = "production"

    defaultSandboxBaseURI    = "https://tripay.id/api-sandbox/v2"
    defaultProductionBaseURI = "https://tripay.id/api/v2"
)

type Config struct {
    Tripay    TripayConfig
    Cache     CacheConfig
    Logging   LoggingConfig
    Callback  CallbackConfig
    RateLimit RateLimitConfig
    Database  database.DatabaseConfig
    Redis     RedisConfig
    Server    ServerConfig
    Admin     AdminConfig
}

type TripayConfig struct {
    Mode              string
    APIKey            string
    SecretPin         string
    SandboxBaseURI    string
    ProductionBaseURI string
    Timeout           time.Duration
    RetryCount        int
    RetryDelay        time.Duration
}

// BaseURI resolves the upstream base URI from the configured mode.
// Anything other than "production" falls back to sandbox.
func (c TripayConfig) BaseURI() string {
    if c.Mode == ModeProduction {
        return c.ProductionBaseURI
    }
    return c.SandboxBaseURI
}

type CacheConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
}

type LoggingConfig struct {
    Enabled   bool
    Requests  bool
    Responses bool
    Level     string
}

type CallbackConfig struct {
    URL    string
    Secret string
}

type RateLimitConfig struct {
    Enabled     bool
    MaxAttempts int
    Window      time.Duration
}

type RedisConfig struct {
    URL string
}

type ServerConfig struct {
    Port string
}

type AdminConfig struct {
    JWTSecret string
}

func Load() *Config {
    if err := godotenv.Load(); err != nil {
        log.Printf("Warning: Error loading .env file: %v", err)
    }

    cfg := &Config{
        Tripay: TripayConfig{
            Mode:              getEnv("TRIPAY_MODE", ModeSandbox),
            APIKey:            os.Getenv("TRIPAY_API_KEY"),
            SecretPin:         os.Getenv("TRIPAY_SECRET_PIN"),
            SandboxBaseURI:    getEnv("TRIPAY_SANDBOX_BASE_URI", defaultSandboxBaseURI),
            ProductionBaseURI: getEnv("TRIPAY_PRODUCTION_BASE_URI", defaultProductionBaseURI),
            Timeout:           time.Duration(getEnvInt("TRIPAY_TIMEOUT", 30)) * time.Second,
            RetryCount:        getEnvInt("TRIPAY_RETRY", 3),
            RetryDelay:        time.Duration(getEnvInt("TRIPAY_RETRY_DELAY", 1000)) * time.Millisecond,
        },
        Cache: CacheConfig{
            Enabled: getEnvBool("TRIPAY_CACHE_ENABLED", true),
            TTL:     time.Duration(getEnvInt("TRIPAY_CACHE_TTL", 43200)) * time.Second,
            Prefix:  getEnv("TRIPAY_CACHE_PREFIX", "tripay"),
        },
        Logging: LoggingConfig{
            Enabled:   getEnvBool("TRIPAY_LOG_ENABLED", true),
            Requests:  getEnvBool("TRIPAY_LOG_REQUESTS", false),
            Responses: getEnvBool("TRIPAY_LOG_RESPONSES", false),
            Level:     getEnv("TRIPAY_LOG_LEVEL", "info"),
        },
        Callback: CallbackConfig{
            URL:    os.Getenv("TRIPAY_CALLBACK_URL"),
            Secret: os.Getenv("TRIPAY_CALLBACK_SECRET"),
        },
        RateLimit: RateLimitConfig{
            Enabled:     getEnvBool("TRIPAY_RATE_LIMIT_ENABLED", true),
            MaxAttempts: getEnvInt("TRIPAY_RATE_LIMIT_MAX_ATTEMPTS", 60),
            Window:      time.Duration(getEnvInt("TRIPAY_RATE_LIMIT_DECAY_MINUTES", 1)) * time.Minute,
        },
        Database: database.DatabaseConfig{
            Host:     os.Getenv("DB_HOST"),
            User:     os.Getenv("DB_USER"),
            Password: os.Getenv("DB_PASSWORD"),
            DBName:   os.Getenv("DB_NAME"),
        },
        Redis: RedisConfig{
            URL: os.Getenv("REDIS_URL"),
        },
        Server: ServerConfig{
            Port: getEnv("SERVER_PORT", "8080"),
        },
        Admin: AdminConfig{
            JWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
        },
    }

    if cfg.Redis.URL == "" {
        cfg.Redis.URL = "redis://localhost:6379/0"
        log.Printf("Warning: REDIS_URL not set, using default: %s", cfg.Redis.URL)
    }

    return cfg
}

func getEnv(key, fallback string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return fallback
}

func getEnvInt(key string, fallback int) int {
    if v := os.Getenv(key); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            return n
        }
        log.Printf("Warning: invalid integer for %s, using default %d", key, fallback)
    }
    return fallback
}

func getEnvBool(key string, fallback bool) bool {
    if v := os.Getenv(key); v != "" {
        if b, err := strconv.ParseBool(v); err == nil {
            return b
        }
        log.Printf("Warning: invalid boolean for %s, using default %v", key, fallback)
    }
    return fallback
}
