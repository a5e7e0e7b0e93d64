package api

// Config holds the router's browser-facing settings.
type Config struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	CORSMaxAge     int      `env:"CORS_MAX_AGE" envDefault:"300"`
}
