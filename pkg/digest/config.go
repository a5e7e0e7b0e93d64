package digest

import (
	"errors"
	"time"
)

type Config struct {
	BusinessTimezone string `env:"BUSINESS_TIMEZONE" envDefault:"UTC"`
}

// Location loads the configured time zone.
func (c Config) Location() (*time.Location, error) {
	if c.BusinessTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return nil, errors.Join(ErrInvalidTimezone, err)
	}
	return loc, nil
}
