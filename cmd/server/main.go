package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/LuisOrlando98/AcostasPool-sub001/internal/api"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/config"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/digest"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/httpserver"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/jwt"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/logger"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/notifications/pgstore"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/pg"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/relay/pusherrelay"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/relay/redisrelay"
	"github.com/LuisOrlando98/AcostasPool-sub001/pkg/stream"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(requestIDExtractor),
	)
	logger.SetAsDefault(log)

	backend, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.close()

	bus := notifications.NewBus()
	defer bus.Close()
	prefs := notifications.NewPreferenceResolver(backend.store)

	rel, err := openRelay(ctx, cfg, bus, log)
	if err != nil {
		return err
	}
	defer rel.close()

	tokens, err := jwt.New(cfg.JWT)
	if err != nil {
		return err
	}
	loc, err := cfg.Digest.Location()
	if err != nil {
		return err
	}

	deliverer := notifications.SelectDeliverer(rel.relay, bus, backend.dir, prefs, log)
	publisher := notifications.NewPublisher(backend.store, deliverer, notifications.WithPublisherLogger(log))
	connector := stream.NewConnector(backend.dir, prefs, rel.feed,
		stream.WithConnectorConfig(cfg.Stream),
		stream.WithConnectorLogger(log),
	)

	opts := []api.HandlerOption{
		api.WithLogger(log),
		api.WithPublisher(publisher),
		api.WithDigestQueue(digest.NewQueue(backend.digest, digest.WithLocation(loc), digest.WithLogger(log))),
	}
	if rel.authorizer != nil {
		opts = append(opts, api.WithChannelAuthorizer(rel.authorizer))
	}
	handler := api.NewHandler(notifications.NewInbox(backend.store, prefs), prefs, connector, opts...)

	checks := append(backend.checks, rel.checks...)
	router := api.NewRouter(handler, tokens, cfg.API, log, checks...)

	return httpserver.New(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, router)
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := middleware.GetReqID(ctx); id != "" {
		return logger.RequestID(id), true
	}
	return slog.Attr{}, false
}

type storageBackend struct {
	store  notifications.Storage
	dir    notifications.Directory
	digest digest.Repository
	checks []httpserver.Check
	close  func()
}

func openStorage(ctx context.Context, cfg appConfig, log *slog.Logger) (*storageBackend, error) {
	switch cfg.StoreDriver {
	case storeMemory, "":
		log.Warn("using in-memory storage; data is lost on restart")
		return &storageBackend{
			store:  notifications.NewMemoryStorage(),
			dir:    notifications.NewMemoryDirectory(),
			digest: digest.NewMemoryRepository(),
			close:  func() {},
		}, nil

	case storePostgres:
		var pgCfg pg.Config
		if err := config.Load(&pgCfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		if pgCfg.AutoMigrate {
			if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &storageBackend{
			store:  pgstore.New(pool),
			dir:    pgstore.NewDirectory(pool),
			digest: digest.NewPostgresRepository(pool),
			checks: []httpserver.Check{{Name: "postgres", Func: pg.Healthcheck(pool)}},
			close:  pool.Close,
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}

type relayBackend struct {
	// relay stays an untyped nil interface when no relay is configured, so
	// SelectDeliverer falls back to the bus.
	relay      notifications.Relay
	feed       stream.Feed
	authorizer api.ChannelAuthorizer
	checks     []httpserver.Check
	close      func()
}

// openRelay picks Pusher when fully configured, then Redis when requested,
// and otherwise the in-process bus.
func openRelay(ctx context.Context, cfg appConfig, bus *notifications.Bus, log *slog.Logger) (*relayBackend, error) {
	if cfg.Pusher.Configured() {
		p, err := pusherrelay.New(cfg.Pusher)
		if err != nil {
			return nil, err
		}
		log.Info("live delivery via pusher relay")
		// Pusher clients subscribe directly; server sessions only see this process's bus.
		return &relayBackend{relay: p, feed: stream.NewBusFeed(bus), authorizer: p, close: func() {}}, nil
	}
	if cfg.Pusher.Partial() {
		log.Warn("pusher configuration is incomplete; ignoring it")
	}

	if cfg.RelayDriver == relayRedis {
		var redisCfg redisrelay.Config
		if err := config.Load(&redisCfg); err != nil {
			return nil, err
		}
		client, err := redisrelay.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		r := redisrelay.New(client,
			redisrelay.WithChannelPrefix(redisCfg.ChannelPrefix),
			redisrelay.WithLogger(log),
		)
		stopForward, err := r.Forward(ctx, bus)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		log.Info("live delivery via redis relay")
		return &relayBackend{
			relay:  r,
			feed:   stream.NewBusFeed(bus),
			checks: []httpserver.Check{{Name: "redis", Func: redisrelay.Healthcheck(client)}},
			close: func() {
				stopForward()
				_ = client.Close()
			},
		}, nil
	}
	if cfg.RelayDriver != "" {
		return nil, fmt.Errorf("unknown RELAY_DRIVER %q", cfg.RelayDriver)
	}

	log.Info("live delivery via in-process bus")
	return &relayBackend{feed: stream.NewBusFeed(bus), close: func() {}}, nil
}
