// Package pg connects to Postgres through a pgx pool and owns the schema of
// the notification subsystem.
//
// Connect retries the initial dial, Healthcheck feeds the readiness check and
// Migrate applies the goose migrations embedded from ./migrations:
// notifications, notification_preferences and technician_digest_items. The
// users and customers tables belong to the wider application and are only
// read.
package pg
