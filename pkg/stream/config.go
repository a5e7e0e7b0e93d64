package stream

import "time"

// Config tunes every stream session: how often a ping is sent and how many
// notifications may wait for a slow client before they are dropped.
type Config struct {
	HeartbeatInterval time.Duration `env:"STREAM_HEARTBEAT_INTERVAL" envDefault:"25s"`
	BufferSize        int           `env:"STREAM_BUFFER_SIZE" envDefault:"32"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{HeartbeatInterval: 25 * time.Second, BufferSize: 32}
}
