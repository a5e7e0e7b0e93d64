package jwt

import "time"

type Config struct {
	SigningKey string        `env:"JWT_SECRET,required"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"acostaspool"`
	TTL        time.Duration `env:"JWT_TTL" envDefault:"24h"`
}
