package main

import (
	"github.com/LuisOrlando98/AcostasPool-sub001/internal/api"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/digest"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/httpserver"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/jwt"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/relay/pusherrelay"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/stream"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"
	relayRedis    = "redis"
)

// appConfig is the process configuration. Postgres and Redis settings are
// loaded separately, only when their driver is selected, since they carry
// required variables.
type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"notifications"`
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	RelayDriver string `env:"RELAY_DRIVER"`

	HTTP   httpserver.Config
	API    api.Config
	JWT    jwt.Config
	Pusher pusherrelay.Config
	Stream stream.Config
	Digest digest.Config
}
