package config

import "time"

type HTTP struct {
	Port    uint32 `env:"HTTP_PORT" envDefault:"8000"`
	Swagger bool   `env:"HTTP_SWAGGER" envDefault:"true"`
	// Web serves the embedded inventory page at "/".
	Web                bool     `env:"HTTP_WEB" envDefault:"true"`
	CORSAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	RateLimit RateLimit
}

type RateLimit struct {
	Enabled      bool          `env:"HTTP_RATE_LIMIT_ENABLED" envDefault:"false"`
	TrustHeaders bool          `env:"HTTP_RATE_LIMIT_TRUST_HEADERS" envDefault:"false"`
	Interval     time.Duration `env:"HTTP_RATE_LIMIT_INTERVAL" envDefault:"100ms"`
	Burst        int           `env:"HTTP_RATE_LIMIT_BURST" envDefault:"20"`
	CacheSize    int           `env:"HTTP_RATE_LIMIT_CACHE_SIZE" envDefault:"10000"`
	CacheTTL     time.Duration `env:"HTTP_RATE_LIMIT_CACHE_TTL" envDefault:"10m"`
}
