// Package httpserver runs the notification service's HTTP listener.
//
// A Server is built from Config and stops on context cancellation, SIGINT or
// SIGTERM, or an explicit Shutdown. Shutdown first cancels the base request
// context so Server-Sent Event streams unregister from the bus and return,
// then drains whatever is left.
//
//	srv := httpserver.New(cfg.HTTP, httpserver.WithLogger(log))
//	err := srv.Run(ctx, router)
//
// HealthCheckHandler backs the /healthz and /readyz endpoints:
//
//	r.Get("/healthz", httpserver.HealthCheckHandler(log))
//	r.Get("/readyz", httpserver.HealthCheckHandler(log,
//	    httpserver.Check{Name: "postgres", Func: pg.Healthcheck(pool)},
//	))
package httpserver
