package pusherrelay

import "time"

// Config holds Pusher application credentials. The relay is considered
// configured only when the app id, key and secret are set together with a
// cluster or an explicit host.
type Config struct {
	AppID   string        `env:"PUSHER_APP_ID"`
	Key     string        `env:"PUSHER_KEY"`
	Secret  string        `env:"PUSHER_SECRET"`
	Cluster string        `env:"PUSHER_CLUSTER"`
	Host    string        `env:"PUSHER_HOST"`
	Secure  bool          `env:"PUSHER_SECURE" envDefault:"true"`
	Timeout time.Duration `env:"PUSHER_TIMEOUT" envDefault:"5s"`
}

// Configured reports whether all required credentials are present.
func (c Config) Configured() bool {
	return c.AppID != "" && c.Key != "" && c.Secret != "" && (c.Cluster != "" || c.Host != "")
}

// Partial reports whether some, but not all, credentials are set.
func (c Config) Partial() bool {
	set := c.AppID != "" || c.Key != "" || c.Secret != "" || c.Cluster != "" || c.Host != ""
	return set && !c.Configured()
}
